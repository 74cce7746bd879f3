// Package scenefile reads and writes the plain-text scene format: one entity per line,
//
//	<kind> px py pz rx ry rz sx sy sz
//
// with kind the primitive's number and rotation in degrees. Ids, selection and history
// are not stored.
package scenefile

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

	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

// ErrMalformed is returned, wrapped with the line number, for a record that cannot be read.
var ErrMalformed = errors.New("malformed scene record")

const fieldsPerRecord = 10

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Write stores entities in the order given.
func Write(w io.Writer, entities []scene.EntityInfo) error {
	bw := bufio.NewWriter(w)
	for _, e := range entities {
		t := e.Transform
		fields := make([]string, 0, fieldsPerRecord)
		fields = append(fields, strconv.Itoa(int(e.Kind)))
		for _, v := range []mgl32.Vec3{t.Position, t.Rotation, t.Scale} {
			fields = append(fields, formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]))
		}
		if _, err := fmt.Fprintln(bw, strings.Join(fields, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Record is one parsed line.
type Record struct {
	Kind      primitives.Kind
	Transform scene.Transform
}

// ParseRecord parses a single line. The kind must name a known primitive.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != fieldsPerRecord {
		return Record{}, fmt.Errorf("want %d fields, got %d", fieldsPerRecord, len(fields))
	}
	k, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, err
	}
	kind := primitives.Kind(k)
	if !kind.Valid() {
		return Record{}, fmt.Errorf("unknown primitive kind %d", k)
	}
	var nums [9]float32
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return Record{}, err
		}
		if math32.IsNaN(float32(v)) || math32.IsInf(float32(v), 0) {
			return Record{}, fmt.Errorf("field %d is not finite: %q", i+2, f)
		}
		nums[i] = float32(v)
	}
	return Record{Kind: kind, Transform: scene.Transform{
		Position: mgl32.Vec3{nums[0], nums[1], nums[2]},
		Rotation: mgl32.Vec3{nums[3], nums[4], nums[5]},
		Scale:    mgl32.Vec3{nums[6], nums[7], nums[8]},
	}}, nil
}

// Read clears the scene and recreates every record through AddPrimitive, then sets its
// rotation and scale directly. Nothing is recorded in history. Blank lines and lines
// starting with '#' are skipped.
//
// A malformed record stops the load: the entities read before it stay in the scene and
// the error wraps ErrMalformed, as does any read failure. Since Read always resets the
// scene first, ErrMalformed also means the previous scene is gone. Read returns the
// number of entities created.
func Read(r io.Reader, c *scene.Controller) (int, error) {
	c.Reset()
	sc := bufio.NewScanner(r)
	count := 0
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return count, fmt.Errorf("line %d: %w: %v", n, ErrMalformed, err)
		}
		id := c.AddPrimitive(rec.Kind, rec.Transform.Position)
		c.SetRotation(id, rec.Transform.Rotation)
		c.SetScale(id, rec.Transform.Scale)
		count++
	}
	if err := sc.Err(); err != nil {
		return count, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return count, nil
}

// Save writes the controller's entities to path.
func Save(path string, c *scene.Controller) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scene file: %w", err)
	}
	if err := Write(f, c.Snapshot()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write scene: %w", err)
	}
	return f.Close()
}

// Load replaces the controller's scene with the one stored at path.
func Load(path string, c *scene.Controller) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()
	n, err := Read(f, c)
	if err != nil {
		return n, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return n, nil
}
