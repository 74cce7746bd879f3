package scene

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/primitives"
)

func newController(opts ...Option) *Controller {
	return NewController(primitives.NewRegistry(), opts...)
}

func TestAddPrimitiveAssignsIncreasingIDs(t *testing.T) {
	c := newController()
	a := c.AddPrimitive(primitives.Cube, mgl32.Vec3{1, 2, 3})
	b := c.AddPrimitive(primitives.Sphere, mgl32.Vec3{})
	assert.Equal(t, ID(1), a)
	assert.Equal(t, ID(2), b)
	assert.Equal(t, b, c.Selected(), "new entity is selected")
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 2, c.SpawnCount())

	e, ok := c.FindByID(a)
	require.True(t, ok)
	assert.Equal(t, primitives.Cube, e.Kind)
	assert.Equal(t, At(mgl32.Vec3{1, 2, 3}), e.Transform)
	assert.Equal(t, 12, e.Geometry.TriangleCount())
	assert.False(t, c.CanUndo(), "AddPrimitive does not record history")
}

func TestEachEntityOwnsItsGeometry(t *testing.T) {
	c := newController()
	a := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	b := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	ea, _ := c.FindByID(a)
	eb, _ := c.FindByID(b)
	assert.NotSame(t, ea.Geometry, eb.Geometry)
}

func TestDeleteClearsSelection(t *testing.T) {
	c := newController()
	a := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	b := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	require.True(t, c.Select(a))

	assert.True(t, c.Delete(b))
	assert.Equal(t, a, c.Selected(), "deleting another entity keeps the selection")
	assert.True(t, c.Delete(a))
	assert.Equal(t, None, c.Selected())
	assert.False(t, c.Delete(a), "second delete is a no-op")
	assert.Equal(t, 0, c.Len())

	_, ok := c.FindByID(a)
	assert.False(t, ok)
	_, ok = c.Transform(a)
	assert.False(t, ok)
	_, err := c.Get(a)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSelect(t *testing.T) {
	c := newController()
	a := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	assert.False(t, c.Select(99))
	assert.Equal(t, a, c.Selected())
	assert.True(t, c.Select(None))
	assert.Equal(t, None, c.Selected())
	assert.False(t, c.DeleteSelected())
	c.Select(a)
	assert.True(t, c.DeleteSelected())
	assert.Equal(t, 0, c.Len())
}

func TestDirectSettersSkipHistory(t *testing.T) {
	c := newController()
	id := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	require.True(t, c.SetPosition(id, mgl32.Vec3{1, 0, 0}))
	require.True(t, c.SetRotation(id, mgl32.Vec3{0, 90, 0}))
	require.True(t, c.SetScale(id, mgl32.Vec3{2, 2, 2}))
	got, _ := c.Transform(id)
	assert.Equal(t, Transform{
		Position: mgl32.Vec3{1, 0, 0},
		Rotation: mgl32.Vec3{0, 90, 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}, got)
	assert.False(t, c.CanUndo())
	assert.False(t, c.SetTransform(99, Identity()))
}

func TestScaleIsClamped(t *testing.T) {
	c := newController()
	id := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	c.SetScale(id, mgl32.Vec3{0, -3, 0.5})
	got, _ := c.Transform(id)
	assert.Equal(t, mgl32.Vec3{DefaultScaleEpsilon, DefaultScaleEpsilon, 0.5}, got.Scale)

	c = newController(WithScaleEpsilon(0.25))
	id = c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	c.ScaleSelected(mgl32.Vec3{0.1, 1, 1})
	got, _ = c.Transform(id)
	assert.Equal(t, float32(0.25), got.Scale[0])

	c.SetScale(id, mgl32.Vec3{math32.NaN(), 2, math32.NaN()})
	got, _ = c.Transform(id)
	assert.Equal(t, mgl32.Vec3{0.25, 2, 0.25}, got.Scale)
}

func TestSelectedEdits(t *testing.T) {
	c := newController()
	id := c.AddPrimitive(primitives.Cube, mgl32.Vec3{1, 1, 1})
	c.TranslateSelected(mgl32.Vec3{1, 0, -1})
	c.RotateSelected(mgl32.Vec3{10, 20, 30})
	c.RotateSelected(mgl32.Vec3{10, 20, 30})
	c.ScaleSelected(mgl32.Vec3{2, 3, 4})
	got, _ := c.Transform(id)
	assert.Equal(t, mgl32.Vec3{2, 1, 0}, got.Position)
	assert.Equal(t, mgl32.Vec3{20, 40, 60}, got.Rotation)
	assert.Equal(t, mgl32.Vec3{2, 3, 4}, got.Scale)

	c.Select(None)
	assert.False(t, c.TranslateSelected(mgl32.Vec3{1, 1, 1}))
}

func TestEntitiesKeepCreationOrder(t *testing.T) {
	c := newController()
	var ids []ID
	for i := 0; i < 5; i++ {
		ids = append(ids, c.AddPrimitive(primitives.Plane, mgl32.Vec3{float32(i), 0, 0}))
	}
	c.DeleteRecorded(ids[2])
	c.DeleteRecorded(ids[0])
	c.Undo()
	c.Undo()

	var got []ID
	for _, e := range c.Entities() {
		got = append(got, e.ID)
	}
	assert.Equal(t, ids, got)
}

func TestSnapshotIsDetached(t *testing.T) {
	c := newController()
	id := c.AddPrimitive(primitives.Cylinder, mgl32.Vec3{1, 2, 3})
	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, EntityInfo{
		ID:        id,
		Kind:      primitives.Cylinder,
		Transform: At(mgl32.Vec3{1, 2, 3}),
		Color:     primitives.DefaultColor,
	}, snap[0])

	c.SetPosition(id, mgl32.Vec3{})
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, snap[0].Transform.Position)
	assert.Empty(t, newController().Snapshot())
}

func TestResetKeepsIDsIncreasing(t *testing.T) {
	c := newController()
	c.AddRecorded(primitives.Cube, mgl32.Vec3{})
	c.AddRecorded(primitives.Cube, mgl32.Vec3{})
	c.Reset()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, None, c.Selected())
	assert.False(t, c.CanUndo())
	assert.Equal(t, ID(3), c.AddPrimitive(primitives.Cube, mgl32.Vec3{}))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("#12")
	require.NoError(t, err)
	assert.Equal(t, ID(12), id)
	id, err = ParseID(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, ID(3), id)
	for _, bad := range []string{"0", "-1", "x", ""} {
		_, err = ParseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{0, 0, 5},
		Rotation: mgl32.Vec3{0, 0, 90},
		Scale:    mgl32.Vec3{2, 1, 1},
	}
	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	// Scale first, then rotate, then translate.
	assert.InDelta(t, 0, p.Sub(mgl32.Vec3{0, 2, 5}).Len(), 1e-5)

	// Rx is applied before Ry.
	r := RotationMatrix(mgl32.Vec3{90, 90, 0}).Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3()
	assert.InDelta(t, 0, r.Sub(mgl32.Vec3{1, 0, 0}).Len(), 1e-5)

	assert.Equal(t, mgl32.Ident4(), Identity().Matrix())
}
