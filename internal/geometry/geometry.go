package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultLeafSize is the triangle count at or under which a BVH range becomes a leaf.
const DefaultLeafSize = 8

// Geometry is an immutable triangle mesh with a BVH over its triangles.
// Entities never edit their Geometry; only their transform changes.
type Geometry struct {
	positions []mgl32.Vec3
	indices   []uint32
	nodes     []Node
	bounds    AABB
}

// Option configures New.
type Option func(*options)

type options struct {
	leafSize int
}

// WithLeafSize sets the BVH leaf threshold. Values below 1 are raised to 1.
func WithLeafSize(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.leafSize = n
	}
}

// New copies positions and indices and builds the BVH.
// Input is taken as-is: an empty mesh gives an empty BVH and a zero-sized box at the origin.
// A trailing incomplete triple, and triangles that reference a vertex outside positions,
// are dropped so that queries never index out of range.
func New(positions []mgl32.Vec3, indices []uint32, opts ...Option) *Geometry {
	o := options{leafSize: DefaultLeafSize}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Geometry{
		positions: append([]mgl32.Vec3(nil), positions...),
		indices:   make([]uint32, 0, len(indices)-len(indices)%3),
	}
	n := uint32(len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		g.indices = append(g.indices, a, b, c)
	}

	if len(g.positions) == 0 {
		g.bounds = AABB{}
	} else {
		g.bounds = EmptyAABB()
		for _, p := range g.positions {
			g.bounds = g.bounds.Extend(p)
		}
	}

	g.nodes = buildBVH(g.positions, g.indices, o.leafSize)
	return g
}

// Positions returns the vertex positions. The slice is shared and must not be modified.
func (g *Geometry) Positions() []mgl32.Vec3 { return g.positions }

// Indices returns the triangle index triples in BVH order. The slice is shared and must not be modified.
func (g *Geometry) Indices() []uint32 { return g.indices }

// Nodes returns the BVH in pre-order; index 0 is the root. Empty geometry has no nodes.
func (g *Geometry) Nodes() []Node { return g.nodes }

// Bounds returns the object-space box of all vertex positions.
func (g *Geometry) Bounds() AABB { return g.bounds }

// TriangleCount returns the number of triangles.
func (g *Geometry) TriangleCount() int { return len(g.indices) / 3 }

// IsEmpty reports whether the geometry has no triangles.
func (g *Geometry) IsEmpty() bool { return len(g.indices) == 0 }

// Triangle returns the object-space vertices of triangle i.
func (g *Geometry) Triangle(i int) (v0, v1, v2 mgl32.Vec3) {
	j := 3 * i
	return g.positions[g.indices[j]], g.positions[g.indices[j+1]], g.positions[g.indices[j+2]]
}

// TriangleBounds returns the object-space box of triangle i.
func (g *Geometry) TriangleBounds(i int) AABB {
	v0, v1, v2 := g.Triangle(i)
	return EmptyAABB().Extend(v0).Extend(v1).Extend(v2)
}
