package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// NoChild marks an absent child index in a Node.
const NoChild = -1

// Node is one BVH node. Children are indices into the flat node slice (arena + index);
// a node with no children is a leaf. [Start, Start+Count) is the contiguous triangle range
// the node covers and Min/Max is exactly the union of those triangles' boxes.
type Node struct {
	Min   mgl32.Vec3
	Max   mgl32.Vec3
	Start int
	Count int
	Left  int
	Right int
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return n.Left == NoChild && n.Right == NoChild
}

// Bounds returns the node box as an AABB.
func (n Node) Bounds() AABB {
	return AABB{Min: n.Min, Max: n.Max}
}

// builder partitions triangles of a flat index slice in place.
// centroids is kept in step with the triangle order.
type builder struct {
	positions []mgl32.Vec3
	indices   []uint32
	centroids []mgl32.Vec3
	nodes     []Node
	leafSize  int
}

func buildBVH(positions []mgl32.Vec3, indices []uint32, leafSize int) []Node {
	count := len(indices) / 3
	if count == 0 {
		return nil
	}
	b := &builder{
		positions: positions,
		indices:   indices,
		centroids: make([]mgl32.Vec3, count),
		leafSize:  leafSize,
	}
	for i := range b.centroids {
		j := 3 * i
		v0, v1, v2 := positions[indices[j]], positions[indices[j+1]], positions[indices[j+2]]
		b.centroids[i] = v0.Add(v1).Add(v2).Mul(1.0 / 3.0)
	}
	// A balanced tree over n triangles has fewer than 2n/leafSize+1 nodes.
	b.nodes = make([]Node, 0, 2*count/leafSize+1)
	b.build(0, count)
	return b.nodes
}

// build appends the node for [start, start+count) before recursing, so the layout is pre-order.
func (b *builder) build(start, count int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, Node{Start: start, Count: count, Left: NoChild, Right: NoChild})

	box, centers := b.bounds(start, count)
	b.nodes[idx].Min, b.nodes[idx].Max = box.Min, box.Max
	if count <= b.leafSize {
		return idx
	}

	axis := centers.LongestAxis()
	half := count / 2
	b.selectNth(start, start+count, start+half, axis)

	left := b.build(start, half)
	right := b.build(start+half, count-half)
	b.nodes[idx].Left, b.nodes[idx].Right = left, right
	return idx
}

// bounds returns the box of the triangles in range and the box of their centroids.
func (b *builder) bounds(start, count int) (box, centers AABB) {
	box, centers = EmptyAABB(), EmptyAABB()
	for i := start; i < start+count; i++ {
		j := 3 * i
		box = box.Extend(b.positions[b.indices[j]]).
			Extend(b.positions[b.indices[j+1]]).
			Extend(b.positions[b.indices[j+2]])
		centers = centers.Extend(b.centroids[i])
	}
	return box, centers
}

// selectNth reorders triangles in [lo, hi) so that the one at k has its sorted centroid
// coordinate on axis, everything before it is not greater and everything after is not smaller.
func (b *builder) selectNth(lo, hi, k, axis int) {
	for hi-lo > 1 {
		p := b.partition(lo, hi, lo+(hi-lo)/2, axis)
		switch {
		case k < p:
			hi = p
		case k > p:
			lo = p + 1
		default:
			return
		}
	}
}

func (b *builder) partition(lo, hi, pivot, axis int) int {
	pv := b.centroids[pivot][axis]
	last := hi - 1
	b.swap(pivot, last)
	store := lo
	for i := lo; i < last; i++ {
		if b.centroids[i][axis] < pv {
			b.swap(i, store)
			store++
		}
	}
	b.swap(store, last)
	return store
}

func (b *builder) swap(i, j int) {
	if i == j {
		return
	}
	b.centroids[i], b.centroids[j] = b.centroids[j], b.centroids[i]
	ti, tj := 3*i, 3*j
	for k := 0; k < 3; k++ {
		b.indices[ti+k], b.indices[tj+k] = b.indices[tj+k], b.indices[ti+k]
	}
}
