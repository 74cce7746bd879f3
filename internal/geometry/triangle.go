package geometry

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// TriangleEpsilon rejects rays parallel to a triangle (|det| below it) and hits at t <= it.
const TriangleEpsilon = 1e-8

// IntersectTriangle is the Möller–Trumbore ray/triangle test. It returns the ray parameter t
// and the barycentric coordinates u, v of the hit. Parallel rays, hits outside the triangle
// and hits at or behind the origin report ok == false; no NaN or Inf ever escapes.
func IntersectTriangle(origin, dir, v0, v1, v2 mgl32.Vec3) (t, u, v float32, ok bool) {
	edge1 := v1.Sub(v0)
	edge2 := v2.Sub(v0)
	h := dir.Cross(edge2)
	det := edge1.Dot(h)
	if math32.Abs(det) < TriangleEpsilon {
		return 0, 0, 0, false
	}
	f := 1 / det
	s := origin.Sub(v0)
	u = f * s.Dot(h)
	if !(u >= 0 && u <= 1) {
		return 0, 0, 0, false
	}
	q := s.Cross(edge1)
	v = f * dir.Dot(q)
	if !(v >= 0 && u+v <= 1) {
		return 0, 0, 0, false
	}
	t = f * edge2.Dot(q)
	if !(t > TriangleEpsilon) || math32.IsInf(t, 1) {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

// TriangleNormal returns normalize(cross(v1-v0, v2-v0)). Degenerate triangles yield the zero vector.
func TriangleNormal(v0, v1, v2 mgl32.Vec3) mgl32.Vec3 {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}
