package geometry

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomSoup returns n independent triangles scattered in a 20-unit cube.
func randomSoup(seed int64, n int) ([]mgl32.Vec3, []uint32) {
	r := rand.New(rand.NewSource(seed))
	pos := make([]mgl32.Vec3, 0, 3*n)
	idx := make([]uint32, 0, 3*n)
	for i := 0; i < n; i++ {
		c := mgl32.Vec3{r.Float32()*20 - 10, r.Float32()*20 - 10, r.Float32()*20 - 10}
		for k := 0; k < 3; k++ {
			off := mgl32.Vec3{r.Float32() - 0.5, r.Float32() - 0.5, r.Float32() - 0.5}
			idx = append(idx, uint32(len(pos)))
			pos = append(pos, c.Add(off))
		}
	}
	return pos, idx
}

func unionOfTriangles(g *Geometry, start, count int) AABB {
	box := EmptyAABB()
	for i := start; i < start+count; i++ {
		box = box.Union(g.TriangleBounds(i))
	}
	return box
}

func TestNewEmpty(t *testing.T) {
	g := New(nil, nil)
	assert.True(t, g.IsEmpty())
	assert.Empty(t, g.Nodes())
	assert.Equal(t, AABB{}, g.Bounds())
	assert.Equal(t, 0, g.TriangleCount())

	// Vertices without triangles still give a box but no BVH.
	g = New([]mgl32.Vec3{{1, 2, 3}, {-1, 0, 0}}, nil)
	assert.Empty(t, g.Nodes())
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, g.Bounds().Min)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, g.Bounds().Max)
}

func TestNewDropsInvalidTriangles(t *testing.T) {
	pos := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	idx := []uint32{0, 1, 2, 0, 1, 7, 2, 1}
	g := New(pos, idx)
	require.Equal(t, 1, g.TriangleCount())
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices())
	require.Len(t, g.Nodes(), 1)
	assert.True(t, g.Nodes()[0].IsLeaf())
}

func TestNewCopiesInput(t *testing.T) {
	pos := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	idx := []uint32{0, 1, 2}
	g := New(pos, idx)
	pos[0] = mgl32.Vec3{9, 9, 9}
	idx[0] = 2
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, g.Positions()[0])
	assert.Equal(t, uint32(0), g.Indices()[0])
}

func TestRootBoundsIsUnionOfTriangles(t *testing.T) {
	for _, n := range []int{1, 7, 8, 9, 64, 333} {
		pos, idx := randomSoup(int64(n), n)
		g := New(pos, idx)
		root := g.Nodes()[0]
		want := unionOfTriangles(g, 0, g.TriangleCount())
		assert.Equal(t, want.Min, root.Min, "n=%d", n)
		assert.Equal(t, want.Max, root.Max, "n=%d", n)
		// With every vertex referenced the root box is also the mesh box.
		assert.Equal(t, g.Bounds(), root.Bounds(), "n=%d", n)
	}
}

func TestNodeInvariants(t *testing.T) {
	pos, idx := randomSoup(42, 500)
	g := New(pos, idx)
	nodes := g.Nodes()
	require.NotEmpty(t, nodes)

	covered := make([]int, g.TriangleCount())
	for i, n := range nodes {
		want := unionOfTriangles(g, n.Start, n.Count)
		assert.Equal(t, want, n.Bounds(), "node %d box", i)

		if n.IsLeaf() {
			assert.LessOrEqual(t, n.Count, DefaultLeafSize, "leaf %d", i)
			for k := n.Start; k < n.Start+n.Count; k++ {
				covered[k]++
			}
			continue
		}
		require.NotEqual(t, NoChild, n.Left)
		require.NotEqual(t, NoChild, n.Right)
		assert.Greater(t, n.Left, i, "pre-order layout")
		assert.Greater(t, n.Right, i, "pre-order layout")
		l, r := nodes[n.Left], nodes[n.Right]
		assert.Equal(t, n.Start, l.Start)
		assert.Equal(t, l.Start+l.Count, r.Start)
		assert.Equal(t, n.Count, l.Count+r.Count)
		assert.LessOrEqual(t, l.Count-r.Count, 1, "balanced split")
	}
	for i, c := range covered {
		assert.Equal(t, 1, c, "triangle %d must sit in exactly one leaf", i)
	}
}

func TestMedianSplitOrdersCentroids(t *testing.T) {
	// Sixteen triangles strung out along X; the root must split them into the
	// eight smallest and eight largest centroids.
	var pos []mgl32.Vec3
	var idx []uint32
	order := []int{9, 3, 15, 0, 12, 6, 1, 14, 4, 11, 8, 2, 13, 7, 10, 5}
	for _, x := range order {
		base := uint32(len(pos))
		fx := float32(x) * 3
		pos = append(pos, mgl32.Vec3{fx, 0, 0}, mgl32.Vec3{fx + 1, 0, 0}, mgl32.Vec3{fx, 1, 0})
		idx = append(idx, base, base+1, base+2)
	}
	g := New(pos, idx)
	root := g.Nodes()[0]
	require.False(t, root.IsLeaf())
	left := g.Nodes()[root.Left]
	right := g.Nodes()[root.Right]
	assert.InDelta(t, 22, left.Max[0], 1e-6)
	assert.InDelta(t, 24, right.Min[0], 1e-6)
}

func TestLeafSizeOption(t *testing.T) {
	pos, idx := randomSoup(7, 100)
	g := New(pos, idx, WithLeafSize(1))
	for _, n := range g.Nodes() {
		if n.IsLeaf() {
			assert.Equal(t, 1, n.Count)
		}
	}
	// 100 leaves in a full binary tree.
	assert.Len(t, g.Nodes(), 199)

	g = New(pos, idx, WithLeafSize(0))
	assert.Len(t, g.Nodes(), 199)

	g = New(pos, idx, WithLeafSize(1000))
	require.Len(t, g.Nodes(), 1)
	assert.True(t, g.Nodes()[0].IsLeaf())
}

func TestCoincidentCentroids(t *testing.T) {
	// Identical triangles: zero centroid extent must still split by count and terminate.
	pos := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	var idx []uint32
	for i := 0; i < 40; i++ {
		idx = append(idx, 0, 1, 2)
	}
	g := New(pos, idx)
	assert.Equal(t, 40, g.TriangleCount())
	depth := maxDepth(g.Nodes(), 0)
	assert.LessOrEqual(t, depth, 4)
}

func maxDepth(nodes []Node, i int) int {
	n := nodes[i]
	if n.IsLeaf() {
		return 0
	}
	l, r := maxDepth(nodes, n.Left), maxDepth(nodes, n.Right)
	if l > r {
		return l + 1
	}
	return r + 1
}
