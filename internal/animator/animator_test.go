package animator

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

func newScene(t *testing.T) (*scene.Controller, scene.ID) {
	t.Helper()
	c := scene.NewController(primitives.NewRegistry())
	return c, c.AddPrimitive(primitives.Cube, mgl32.Vec3{})
}

func TestUpdateAppliesEachKind(t *testing.T) {
	c, id := newScene(t)
	a := New()
	a.AddRotation(id, mgl32.Vec3{0, 1, 0}, 90)
	a.AddTranslation(id, mgl32.Vec3{1, 0, -2})
	a.AddScale(id, mgl32.Vec3{0.5, 0, 0})

	a.Update(c, 0.5)
	got, _ := c.Transform(id)
	assert.Equal(t, mgl32.Vec3{0, 45, 0}, got.Rotation)
	assert.Equal(t, mgl32.Vec3{0.5, 0, -1}, got.Position)
	assert.Equal(t, mgl32.Vec3{1.25, 1, 1}, got.Scale)
	assert.False(t, c.CanUndo(), "animation is not an edit")
}

func TestScaleAnimationClamps(t *testing.T) {
	c, id := newScene(t)
	a := New()
	a.AddScale(id, mgl32.Vec3{-10, 0, 0})
	a.Update(c, 1)
	got, _ := c.Transform(id)
	assert.Equal(t, float32(scene.DefaultScaleEpsilon), got.Scale[0])
}

func TestMissingEntityIsSkipped(t *testing.T) {
	c, id := newScene(t)
	a := New()
	a.AddTranslation(99, mgl32.Vec3{1, 0, 0})
	a.AddTranslation(id, mgl32.Vec3{0, 1, 0})
	a.Update(c, 1)
	got, _ := c.Transform(id)
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, got.Position)
	assert.Equal(t, 2, a.Len(), "orphaned animations stay until removed")
}

func TestRemove(t *testing.T) {
	a := New()
	r := a.AddRotation(1, mgl32.Vec3{0, 1, 0}, 10)
	a.AddTranslation(2, mgl32.Vec3{1, 0, 0})
	a.AddScale(2, mgl32.Vec3{1, 1, 1})

	assert.True(t, a.Remove(r))
	assert.False(t, a.Remove(r))
	assert.Equal(t, 2, a.RemoveForEntity(2))
	assert.Equal(t, 0, a.Len())

	a.AddTranslation(3, mgl32.Vec3{})
	a.Clear()
	assert.Empty(t, a.Animations())
	assert.Equal(t, 5, a.AddTranslation(3, mgl32.Vec3{}), "ids keep counting after Clear")
}

func TestAdvanceFixedStep(t *testing.T) {
	c, id := newScene(t)
	a := New(WithFixedStep(0.25))
	a.AddTranslation(id, mgl32.Vec3{1, 0, 0})

	assert.Equal(t, 0, a.Advance(c, 0.2))
	assert.Equal(t, 1, a.Advance(c, 0.1))
	assert.Equal(t, 2, a.Advance(c, 0.5))
	got, _ := c.Transform(id)
	assert.InDelta(t, 0.75, got.Position[0], 1e-6)

	assert.Equal(t, maxSteps, a.Advance(c, 100), "a long stall is capped")
	assert.Equal(t, 0, a.Advance(c, 0.01), "and the backlog is dropped")

	a.SetFixedStep(0)
	assert.Equal(t, 1, a.Advance(c, 0.01))
	assert.Equal(t, 0, a.Advance(c, 0))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := New()
	a.AddRotation(3, mgl32.Vec3{0, 1, 0.5}, 45.5)
	a.AddTranslation(4, mgl32.Vec3{0.1, -2, 3})
	a.AddScale(3, mgl32.Vec3{0.25, 0, 0})

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf))
	assert.Equal(t, "ROT 1 3 0 1 0.5 45.5\nTRN 2 4 0.1 -2 3\nSCL 3 3 0.25 0 0\n", buf.String())

	b := New()
	require.NoError(t, b.Load(strings.NewReader(buf.String())))
	assert.Equal(t, a.Animations(), b.Animations())
	assert.Equal(t, 4, b.AddTranslation(1, mgl32.Vec3{}))
}

func TestLoadSkipsUnknownAndRejectsBad(t *testing.T) {
	a := New()
	require.NoError(t, a.Load(strings.NewReader("# comment\n\nFOO 1 2 3\nTRN 7 1 1 0 0\n")))
	require.Equal(t, 1, a.Len())
	assert.Equal(t, 7, a.Animations()[0].ID)

	err := a.Load(strings.NewReader("TRN 8 1 1 0 0\nROT 9 1 0 1 0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, 7, a.Animations()[0].ID, "a failed load changes nothing")

	assert.Error(t, a.Load(strings.NewReader("SCL x 1 0 0 0\n")))

	for _, line := range []string{"ROT 10 1 0 1 0 NaN\n", "TRN 10 1 inf 0 0\n", "SCL 10 1 0 -inf 0\n"} {
		err := a.Load(strings.NewReader(line))
		assert.True(t, errors.Is(err, ErrMalformed), line)
	}
	assert.Equal(t, 1, a.Len())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anims.txt")
	a := New()
	a.AddRotation(1, mgl32.Vec3{1, 0, 0}, 30)
	require.NoError(t, a.SaveFile(path))

	b := New()
	require.NoError(t, b.LoadFile(path))
	assert.Equal(t, a.Animations(), b.Animations())
	assert.Error(t, b.LoadFile(filepath.Join(t.TempDir(), "missing.txt")))
}
