package animator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/scene"
)

// ErrMalformed marks an animation line that could not be parsed.
var ErrMalformed = errors.New("malformed animation")

// Line tags, one animation per line:
//
//	ROT id entity ax ay az degPerSec
//	TRN id entity vx vy vz
//	SCL id entity dx dy dz
const (
	tagRotation    = "ROT"
	tagTranslation = "TRN"
	tagScale       = "SCL"
)

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func formatVec(v mgl32.Vec3) string {
	return formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2])
}

// Save writes every animation in creation order.
func (a *Animator) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, anim := range a.anims {
		var line string
		switch anim.Kind {
		case Rotation:
			line = fmt.Sprintf("%s %d %d %s %s", tagRotation, anim.ID, anim.Entity, formatVec(anim.Axis), formatFloat(anim.Speed))
		case Translation:
			line = fmt.Sprintf("%s %d %d %s", tagTranslation, anim.ID, anim.Entity, formatVec(anim.Velocity))
		case Scale:
			line = fmt.Sprintf("%s %d %d %s", tagScale, anim.ID, anim.Entity, formatVec(anim.ScaleDelta))
		default:
			continue
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load replaces the animations with those read from r. Lines with an unknown tag are
// skipped; a known tag with bad fields fails the whole load and leaves the animator
// unchanged. The id counter moves past every loaded id.
func (a *Animator) Load(r io.Reader) error {
	var loaded []Animation
	next := a.nextID
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		anim, known, err := parseLine(fields)
		if err != nil {
			return fmt.Errorf("line %d: %w: %v", n, ErrMalformed, err)
		}
		if !known {
			continue
		}
		loaded = append(loaded, anim)
		next = max(next, anim.ID+1)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	a.anims = loaded
	a.nextID = next
	a.accumulator = 0
	a.log.Infow("animations loaded", "count", len(loaded))
	return nil
}

func parseLine(fields []string) (Animation, bool, error) {
	var anim Animation
	var want int
	switch fields[0] {
	case tagRotation:
		anim.Kind, want = Rotation, 7
	case tagTranslation:
		anim.Kind, want = Translation, 6
	case tagScale:
		anim.Kind, want = Scale, 6
	default:
		return anim, false, nil
	}
	if len(fields) != want {
		return anim, true, fmt.Errorf("%s wants %d fields, got %d", fields[0], want-1, len(fields)-1)
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return anim, true, err
	}
	ent, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return anim, true, err
	}
	var nums [4]float32
	for i, f := range fields[3:] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return anim, true, err
		}
		if math32.IsNaN(float32(v)) || math32.IsInf(float32(v), 0) {
			return anim, true, fmt.Errorf("%s: %q is not finite", fields[0], f)
		}
		nums[i] = float32(v)
	}
	anim.ID = id
	anim.Entity = scene.ID(ent)
	vec := mgl32.Vec3{nums[0], nums[1], nums[2]}
	switch anim.Kind {
	case Rotation:
		anim.Axis, anim.Speed = vec, nums[3]
	case Translation:
		anim.Velocity = vec
	case Scale:
		anim.ScaleDelta = vec
	}
	return anim, true, nil
}

// SaveFile writes the animations to path.
func (a *Animator) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create animation file: %w", err)
	}
	if err := a.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write animations: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	a.log.Infow("animations saved", "path", path, "count", len(a.anims))
	return nil
}

// LoadFile reads animations from path.
func (a *Animator) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open animation file: %w", err)
	}
	defer f.Close()
	if err := a.Load(f); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
