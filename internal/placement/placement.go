// Package placement decides where newly spawned primitives go: at the origin, on the
// ground plane under the cursor, or on whatever surface the cursor ray hits first.
package placement

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/picking"
	"scene-editor/internal/scene"
)

type Mode int

const (
	Origin Mode = iota
	ClickPlane
	ClickMesh
)

var modeNames = []string{"origin", "plane", "mesh"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// NeedsClick reports whether the mode waits for a viewport click before spawning.
func (m Mode) NeedsClick() bool { return m == ClickPlane || m == ClickMesh }

// ParseMode accepts a mode name ("origin", "plane", "mesh") or its number.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if s == name || s == fmt.Sprint(i) {
			return Mode(i), nil
		}
	}
	switch s {
	case "ground", "clickplane":
		return ClickPlane, nil
	case "surface", "clickmesh":
		return ClickMesh, nil
	}
	return Origin, fmt.Errorf("unknown spawn mode %q", s)
}

var up = mgl32.Vec3{0, 1, 0}

// Result is a resolved spawn location. Hit is false when the mode fell back to the origin.
type Result struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	EntityID uint64
	Hit      bool
}

// Resolve places a spawn for the given mode and cursor ray. ClickPlane intersects y = 0;
// ClickMesh uses the nearest surface among targets. Either falls back to the origin with
// an up normal when the ray finds nothing.
func Resolve[T picking.Target](mode Mode, ray picking.Ray, targets []T) Result {
	switch mode {
	case ClickPlane:
		if p, ok := picking.IntersectPlaneY(ray, 0); ok {
			return Result{Position: p, Normal: up, Hit: true}
		}
	case ClickMesh:
		if h, ok := picking.Pick(ray, targets); ok {
			return Result{Position: h.Point, Normal: h.Normal, EntityID: h.EntityID, Hit: true}
		}
	}
	return Result{Normal: up}
}

// Options tweak how a resolved spawn becomes a transform.
type Options struct {
	Align bool    // rotate +Y onto the surface normal
	Grid  float32 // snap X/Z to cell centers when > 0
}

// Transform turns the result into the spawned entity's starting transform.
func (r Result) Transform(opts Options) scene.Transform {
	p := r.Position
	if opts.Grid > 0 {
		p = SnapToGrid(p, opts.Grid)
	}
	t := scene.At(p)
	if opts.Align && r.Hit {
		t.Rotation = AlignToNormal(r.Normal)
	}
	return t
}

// AlignToNormal returns Euler angles in degrees whose rotation (Rz·Ry·Rx) carries +Y
// onto n. A zero normal yields no rotation.
func AlignToNormal(n mgl32.Vec3) mgl32.Vec3 {
	if n.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	m := mgl32.QuatBetweenVectors(up, n.Normalize()).Mat4()
	return eulerXYZ(m)
}

func eulerXYZ(m mgl32.Mat4) mgl32.Vec3 {
	var x, y, z float32
	s := -m.At(2, 0)
	switch {
	case s >= 0.99999:
		y = math32.Pi / 2
		x = math32.Atan2(m.At(0, 1), m.At(1, 1))
	case s <= -0.99999:
		y = -math32.Pi / 2
		x = math32.Atan2(-m.At(0, 1), m.At(1, 1))
	default:
		y = math32.Asin(s)
		x = math32.Atan2(m.At(2, 1), m.At(2, 2))
		z = math32.Atan2(m.At(1, 0), m.At(0, 0))
	}
	return mgl32.Vec3{mgl32.RadToDeg(x), mgl32.RadToDeg(y), mgl32.RadToDeg(z)}
}

// SnapToGrid moves X and Z to the center of the grid cell containing p. Y is kept.
func SnapToGrid(p mgl32.Vec3, cell float32) mgl32.Vec3 {
	if cell <= 0 {
		return p
	}
	snap := func(v float32) float32 {
		return math32.Floor(v/cell)*cell + cell/2
	}
	return mgl32.Vec3{snap(p[0]), p[1], snap(p[2])}
}
