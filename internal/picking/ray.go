package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewport is the screen rectangle the scene is rendered into, in pixels.
type Viewport struct {
	X, Y, Width, Height float32
}

// Contains reports whether the screen point lies inside the viewport.
func (v Viewport) Contains(p mgl32.Vec2) bool {
	return p[0] >= v.X && p[1] >= v.Y && p[0] < v.X+v.Width && p[1] < v.Y+v.Height
}

// ScreenPointToRay unprojects a screen point (origin top-left, y down) through the
// inverse view-projection. The ray starts on the near plane and Dir is unit length.
// A zero-sized viewport or a singular matrix yields ok == false.
func ScreenPointToRay(point mgl32.Vec2, vp Viewport, view, proj mgl32.Mat4) (Ray, bool) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return Ray{}, false
	}
	x := (point[0]-vp.X)/vp.Width*2 - 1
	y := 1 - (point[1]-vp.Y)/vp.Height*2

	vpm := proj.Mul4(view)
	if math32.Abs(vpm.Det()) < 1e-12 {
		return Ray{}, false
	}
	inv := vpm.Inv()
	near := inv.Mul4x1(mgl32.Vec4{x, y, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{x, y, 1, 1})
	if near[3] == 0 || far[3] == 0 {
		return Ray{}, false
	}
	n := near.Vec3().Mul(1 / near[3])
	f := far.Vec3().Mul(1 / far[3])
	d := f.Sub(n)
	if d.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: n, Dir: d.Normalize()}, true
}

// IntersectPlaneY intersects the ray with the horizontal plane y = planeY. Rays nearly
// parallel to the plane, or pointing away from it, miss.
func IntersectPlaneY(r Ray, planeY float32) (mgl32.Vec3, bool) {
	if math32.Abs(r.Dir[1]) < 1e-6 {
		return mgl32.Vec3{}, false
	}
	t := (planeY - r.Origin[1]) / r.Dir[1]
	if t < 0 {
		return mgl32.Vec3{}, false
	}
	return r.At(t), true
}
