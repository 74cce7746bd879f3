// Package gizmo turns mouse drags on the on-screen axis handles into transform edits.
//
// The handles are drawn in screen space at the selected entity's projected position.
// Every result is computed from the transform captured when the drag began and the
// total mouse movement since then, so a drag can be replayed frame by frame through
// scene.Drag without accumulating error.
package gizmo

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/picking"
	"scene-editor/internal/scene"
)

type Op int

const (
	Translate Op = iota
	Rotate
	Scale
)

func (o Op) String() string {
	switch o {
	case Translate:
		return "translate"
	case Rotate:
		return "rotate"
	case Scale:
		return "scale"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp accepts an operation name or its first letter.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "translate", "move", "t", "m":
		return Translate, nil
	case "rotate", "r":
		return Rotate, nil
	case "scale", "s":
		return Scale, nil
	}
	return Translate, fmt.Errorf("unknown gizmo op %q", s)
}

type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "none"
}

// Unit returns the world direction of the axis, zero for AxisNone.
func (a Axis) Unit() mgl32.Vec3 {
	switch a {
	case AxisX:
		return mgl32.Vec3{1, 0, 0}
	case AxisY:
		return mgl32.Vec3{0, 1, 0}
	case AxisZ:
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{}
}

// Handle geometry and drag sensitivity.
const (
	AxisLength  = 80   // pixels
	PickRadius  = 12   // pixels around a handle end
	MoveSpeed   = 0.01 // world units per pixel when no projected axis is known
	RotateSpeed = 0.5  // degrees per pixel
	ScaleSpeed  = 0.01 // scale factor per pixel
)

// ProjectToScreen maps a world point to viewport pixels (y down). Points behind the
// camera report false.
func ProjectToScreen(world mgl32.Vec3, viewProj mgl32.Mat4, vp picking.Viewport) (mgl32.Vec2, bool) {
	clip := viewProj.Mul4x1(world.Vec4(1))
	if clip[3] <= 0 {
		return mgl32.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip[3])
	return mgl32.Vec2{
		(ndc[0]*0.5+0.5)*vp.Width + vp.X,
		(1-(ndc[1]*0.5+0.5))*vp.Height + vp.Y,
	}, true
}

// Handles returns the screen position of each axis handle's end, indexed by Axis.
// X points right, Y up and Z down-right.
func Handles(center mgl32.Vec2) [4]mgl32.Vec2 {
	return [4]mgl32.Vec2{
		AxisNone: center,
		AxisX:    center.Add(mgl32.Vec2{AxisLength, 0}),
		AxisY:    center.Add(mgl32.Vec2{0, -AxisLength}),
		AxisZ:    center.Add(mgl32.Vec2{AxisLength * 0.7, AxisLength * 0.7}),
	}
}

// PickAxis returns the handle whose end is nearest the mouse, or AxisNone when none is
// within PickRadius.
func PickAxis(mouse, center mgl32.Vec2) Axis {
	ends := Handles(center)
	best, bestDist := AxisNone, float32(PickRadius)
	for a := AxisX; a <= AxisZ; a++ {
		if d := ends[a].Sub(mouse).Len(); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best
}

// ScreenAxis returns how many pixels one world unit along axis covers on screen, as a
// vector, when starting at origin.
func ScreenAxis(origin mgl32.Vec3, axis Axis, viewProj mgl32.Mat4, vp picking.Viewport) (mgl32.Vec2, bool) {
	if axis == AxisNone {
		return mgl32.Vec2{}, false
	}
	a, ok := ProjectToScreen(origin, viewProj, vp)
	if !ok {
		return mgl32.Vec2{}, false
	}
	b, ok := ProjectToScreen(origin.Add(axis.Unit()), viewProj, vp)
	if !ok {
		return mgl32.Vec2{}, false
	}
	return b.Sub(a), true
}

// Apply computes the transform for a drag that began at before and has moved the
// mouse by delta pixels. Translation uses a fixed pixel scale; use ApplyProjected to
// follow the axis as drawn.
func Apply(before scene.Transform, op Op, axis Axis, delta mgl32.Vec2) scene.Transform {
	return ApplyProjected(before, op, axis, delta, mgl32.Vec2{})
}

// ApplyProjected is Apply with translation measured along screenAxis, the on-screen
// image of one world unit of the axis. A screen axis shorter than a pixel falls back to
// the fixed scale.
func ApplyProjected(before scene.Transform, op Op, axis Axis, delta, screenAxis mgl32.Vec2) scene.Transform {
	t := before
	switch op {
	case Translate:
		if axis == AxisNone {
			return t
		}
		var amount float32
		if l2 := screenAxis.Dot(screenAxis); l2 >= 1 {
			amount = delta.Dot(screenAxis) / l2
		} else {
			switch axis {
			case AxisX:
				amount = delta[0] * MoveSpeed
			case AxisY:
				amount = -delta[1] * MoveSpeed
			case AxisZ:
				amount = (delta[0] - delta[1]) * MoveSpeed
			}
		}
		t.Position = t.Position.Add(axis.Unit().Mul(amount))
	case Rotate:
		if axis == AxisNone {
			return t
		}
		t.Rotation[axis-1] += (delta[0] - delta[1]) * RotateSpeed
	case Scale:
		f := 1 + (delta[0]-delta[1])*ScaleSpeed
		if axis == AxisNone {
			t.Scale = t.Scale.Mul(f)
		} else {
			t.Scale[axis-1] *= f
		}
		t = t.ClampScale(scene.DefaultScaleEpsilon)
	}
	return t
}
