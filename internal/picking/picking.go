// Package picking finds the nearest entity surface along a ray.
//
// Each target's BVH is walked in object order with an explicit stack. Node boxes are
// taken to world space through all eight corners and slab-tested; a node whose entry
// distance is already farther than the best hit is skipped together with its subtree.
// Surviving leaves are tested triangle by triangle in world space.
package picking

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/geometry"
)

// Ray is a half-line. Hit distances are measured in multiples of Dir.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Hit is the nearest intersection found by a pick.
type Hit struct {
	EntityID uint64
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	T        float32
}

// Target is anything with an id, object-space geometry and a model matrix.
type Target interface {
	PickID() uint64
	PickGeometry() *geometry.Geometry
	ModelMatrix() mgl32.Mat4
}

// Stats counts the work done by the last pick.
type Stats struct {
	Entities        int
	NodesVisited    int
	NodesPruned     int
	TrianglesTested int
}

// Picker holds the traversal stack and counters so repeated picks do not allocate.
// A Picker is not safe for concurrent use.
type Picker struct {
	stack []int
	Stats Stats
}

// Pick returns the nearest hit over all targets. No hit is a normal (zero, false) result.
func Pick[T Target](ray Ray, targets []T) (Hit, bool) {
	var p Picker
	return PickWith(&p, ray, targets)
}

// PickWith is Pick using p's stack; p.Stats describes this pick afterwards.
func PickWith[T Target](p *Picker, ray Ray, targets []T) (Hit, bool) {
	p.Stats = Stats{}
	var best Hit
	found := false
	for _, t := range targets {
		if p.Intersect(ray, t, &best, found) {
			found = true
		}
	}
	return best, found
}

// Intersect tests one target. When haveBest is set, only hits strictly nearer than
// best.T count and farther subtrees are pruned. It reports whether best was replaced.
func (p *Picker) Intersect(ray Ray, target Target, best *Hit, haveBest bool) bool {
	g := target.PickGeometry()
	if g == nil || g.IsEmpty() {
		return false
	}
	p.Stats.Entities++
	nodes := g.Nodes()
	model := target.ModelMatrix()
	improved := false

	p.stack = append(p.stack[:0], 0)
	for len(p.stack) > 0 {
		i := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		n := nodes[i]
		p.Stats.NodesVisited++

		tmin, _, ok := n.Bounds().Transform(model).IntersectRay(ray.Origin, ray.Dir)
		if !ok || (haveBest && tmin > best.T) {
			p.Stats.NodesPruned++
			continue
		}

		if !n.IsLeaf() {
			// Right first so the left subtree is popped next.
			p.stack = append(p.stack, n.Right, n.Left)
			continue
		}

		for k := n.Start; k < n.Start+n.Count; k++ {
			o0, o1, o2 := g.Triangle(k)
			v0 := geometry.TransformPoint(model, o0)
			v1 := geometry.TransformPoint(model, o1)
			v2 := geometry.TransformPoint(model, o2)
			p.Stats.TrianglesTested++
			t, _, _, ok := geometry.IntersectTriangle(ray.Origin, ray.Dir, v0, v1, v2)
			if !ok || (haveBest && t >= best.T) {
				continue
			}
			*best = Hit{
				EntityID: target.PickID(),
				Point:    ray.At(t),
				Normal:   geometry.TriangleNormal(v0, v1, v2),
				T:        t,
			}
			haveBest = true
			improved = true
		}
	}
	return improved
}
