package scene

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/picking"
	"scene-editor/internal/primitives"
)

func TestTransformCommandRoundTrip(t *testing.T) {
	c := newController()
	id := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	before, _ := c.Transform(id)
	after := Transform{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.Vec3{4, 5, 6}, Scale: mgl32.Vec3{7, 8, 9}}

	require.True(t, c.SetTransformRecorded(id, after))
	require.True(t, c.Undo())
	got, _ := c.Transform(id)
	assert.Equal(t, before, got)
	require.True(t, c.Redo())
	got, _ = c.Transform(id)
	assert.Equal(t, after, got)

	// Recording an identical transform records nothing.
	assert.True(t, c.SetTransformRecorded(id, after))
	undo, _ := c.History()
	assert.Len(t, undo, 1)
	assert.False(t, c.SetTransformRecorded(99, after))
}

func TestCommandOnMissingEntityIsNoOp(t *testing.T) {
	c := newController()
	id := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	c.Push(&TransformCommand{ID: 42, Before: Identity(), After: At(mgl32.Vec3{1, 0, 0})})
	assert.True(t, c.Undo())
	assert.True(t, c.Redo())
	got, _ := c.Transform(id)
	assert.Equal(t, Identity(), got)
	assert.Equal(t, 1, c.Len())
}

func TestPushClearsRedo(t *testing.T) {
	c := newController()
	id := c.AddRecorded(primitives.Cube, mgl32.Vec3{})
	c.SetTransformRecorded(id, At(mgl32.Vec3{1, 0, 0}))
	require.True(t, c.Undo())
	require.True(t, c.CanRedo())

	c.SetTransformRecorded(id, At(mgl32.Vec3{0, 1, 0}))
	assert.False(t, c.CanRedo())
}

func TestEmptyHistoryIsNoOp(t *testing.T) {
	c := newController()
	id := c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
	before := c.Snapshot()
	assert.False(t, c.Undo())
	assert.False(t, c.Redo())
	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, id, c.Selected())
}

func TestAddUndoRedoKeepsID(t *testing.T) {
	c := newController()
	id := c.AddRecorded(primitives.Sphere, mgl32.Vec3{0, 1, 0})
	require.True(t, c.Undo())
	_, ok := c.FindByID(id)
	assert.False(t, ok)
	assert.Equal(t, None, c.Selected())

	require.True(t, c.Redo())
	e, ok := c.FindByID(id)
	require.True(t, ok)
	assert.Equal(t, primitives.Sphere, e.Kind)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, e.Transform.Position)
	assert.Equal(t, id, c.Selected())

	// Ids handed out later never collide with the restored one.
	assert.Equal(t, id+1, c.AddPrimitive(primitives.Cube, mgl32.Vec3{}))
	assert.Equal(t, 2, c.SpawnCount())
}

func TestDeleteUndoRestoresPickableEntity(t *testing.T) {
	c := newController()
	id := c.AddRecorded(primitives.Cube, mgl32.Vec3{})
	c.SetTransformRecorded(id, Transform{Position: mgl32.Vec3{0, 0, 0}, Rotation: mgl32.Vec3{0, 10, 0}, Scale: mgl32.Vec3{1, 1, 1}})
	ray := picking.Ray{Origin: mgl32.Vec3{0.1, 0.2, 5}, Dir: mgl32.Vec3{0, 0, -1}}

	_, ok := picking.Pick(ray, c.Entities())
	require.True(t, ok)

	require.True(t, c.DeleteRecorded(id))
	_, ok = picking.Pick(ray, c.Entities())
	assert.False(t, ok)

	require.True(t, c.Undo())
	hit, ok := picking.Pick(ray, c.Entities())
	require.True(t, ok)
	assert.Equal(t, uint64(id), hit.EntityID)
	got, _ := c.Transform(id)
	assert.Equal(t, mgl32.Vec3{0, 10, 0}, got.Rotation, "delete undo restores the full transform")

	require.True(t, c.Redo())
	assert.Equal(t, 0, c.Len())

	// Walk all the way back: delete, transform and add.
	require.True(t, c.Undo())
	require.True(t, c.Undo())
	got, _ = c.Transform(id)
	assert.Equal(t, Identity(), got)
	require.True(t, c.Undo())
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.CanUndo())
}

// Undoing every edit and redoing them again must reproduce each intermediate state
// exactly, field for field.
func TestUndoRedoIsBitIdentical(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	c := newController()
	states := [][]EntityInfo{c.Snapshot()}

	vec := func(scale float32) mgl32.Vec3 {
		return mgl32.Vec3{(r.Float32() - 0.5) * scale, (r.Float32() - 0.5) * scale, (r.Float32() - 0.5) * scale}
	}
	for step := 0; step < 60; step++ {
		ents := c.Entities()
		switch op := r.Intn(4); {
		case op == 0 || len(ents) == 0:
			c.AddRecorded(primitives.Kinds[r.Intn(len(primitives.Kinds))], vec(10))
		case op == 1 && len(ents) > 2:
			c.DeleteRecorded(ents[r.Intn(len(ents))].ID)
		default:
			e := ents[r.Intn(len(ents))]
			var d Drag
			require.True(t, d.Begin(c, e.ID))
			for frame := 0; frame < 3; frame++ {
				d.Update(Transform{Position: vec(10), Rotation: vec(360), Scale: vec(4)})
			}
			d.Commit()
		}
		states = append(states, c.Snapshot())
	}

	for i := len(states) - 1; i > 0; i-- {
		require.Equal(t, states[i], c.Snapshot(), "before undo %d", i)
		require.True(t, c.Undo())
	}
	assert.Equal(t, states[0], c.Snapshot())
	assert.False(t, c.CanUndo())

	for i := 1; i < len(states); i++ {
		require.True(t, c.Redo())
		require.Equal(t, states[i], c.Snapshot(), "after redo %d", i)
	}
	assert.False(t, c.CanRedo())
}

func TestHistoryLimit(t *testing.T) {
	c := newController(WithHistoryLimit(2))
	id := c.AddRecorded(primitives.Cube, mgl32.Vec3{})
	c.SetTransformRecorded(id, At(mgl32.Vec3{1, 0, 0}))
	c.SetTransformRecorded(id, At(mgl32.Vec3{2, 0, 0}))
	assert.True(t, c.Undo())
	assert.True(t, c.Undo())
	assert.False(t, c.Undo())
	assert.Equal(t, 1, c.Len(), "the add fell off the bottom of the stack")
}

func TestHistoryLabels(t *testing.T) {
	c := newController()
	id := c.AddRecorded(primitives.Cube, mgl32.Vec3{})
	c.SetTransformRecorded(id, At(mgl32.Vec3{1, 0, 0}))
	c.DeleteRecorded(id)
	c.Undo()

	undo, redo := c.History()
	assert.Equal(t, []string{"add cube #1", "transform #1"}, undo)
	assert.Equal(t, []string{"delete cube #1"}, redo)
}

func TestGroupUndoesTogether(t *testing.T) {
	c := newController()
	var id ID
	c.Group("spawn aligned", func() {
		id = c.AddRecorded(primitives.Cube, mgl32.Vec3{0, 1, 0})
		c.SetTransformRecorded(id, Transform{Position: mgl32.Vec3{0, 1, 0}, Rotation: mgl32.Vec3{90, 0, 0}, Scale: mgl32.Vec3{1, 1, 1}})
	})
	undo, _ := c.History()
	assert.Equal(t, []string{"spawn aligned"}, undo)

	require.True(t, c.Undo())
	assert.Equal(t, 0, c.Len())
	require.True(t, c.Redo())
	got, ok := c.Transform(id)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{90, 0, 0}, got.Rotation)
}
