package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scene-editor/internal/editorconfig"
	"scene-editor/internal/picking"
	"scene-editor/internal/placement"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

func newEditor(t *testing.T) (*Editor, string) {
	t.Helper()
	dir := t.TempDir()
	prefs := editorconfig.Default()
	prefs.PrimitivesDir = ""
	prefs.ScenePath = filepath.Join(dir, "scene.txt")
	prefs.AnimationsPath = filepath.Join(dir, "animations.txt")
	e := New(prefs, WithConfigPath(filepath.Join(dir, "editor.yaml")))
	e.SetViewport(picking.Viewport{Width: 800, Height: 600})
	return e, dir
}

func run(t *testing.T, e *Editor, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, e.Execute(line), line)
	}
}

func position(t *testing.T, e *Editor, id scene.ID) mgl32.Vec3 {
	t.Helper()
	tr, ok := e.Scene().Transform(id)
	require.True(t, ok, "entity %d", id)
	return tr.Position
}

func TestEditingCommands(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e,
		"cmd add cube 1 2 3",
		"cmd add sphere -1 0 0",
		"cmd move 1 1 1",
		"cmd select 1",
		"cmd move --abs 0 5 0",
		"cmd rotate 0 90 0",
		"cmd scale 2",
	)
	require.Equal(t, 2, e.Scene().Len())
	assert.Equal(t, mgl32.Vec3{0, 1, 1}, position(t, e, 2))

	tr, _ := e.Scene().Transform(1)
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, tr.Position)
	assert.Equal(t, mgl32.Vec3{0, 90, 0}, tr.Rotation)
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, tr.Scale)

	run(t, e, "cmd undo 3")
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, position(t, e, 1))
	run(t, e, "cmd redo")
	assert.Equal(t, mgl32.Vec3{0, 5, 0}, position(t, e, 1))

	run(t, e, "cmd delete 2")
	_, ok := e.Scene().FindByID(2)
	assert.False(t, ok)
	run(t, e, "cmd undo")
	_, ok = e.Scene().FindByID(2)
	assert.True(t, ok)

	run(t, e, "cmd select none")
	assert.Equal(t, scene.None, e.Scene().Selected())
	assert.Error(t, e.Execute("cmd move 1 0 0"), "nothing selected")
	assert.Error(t, e.Execute("cmd select 9"))
	assert.Error(t, e.Execute("cmd add torus"))
	assert.Error(t, e.Execute("cmd scale 1 2"))
	assert.Error(t, e.Execute("cmd bogus"))
	require.NoError(t, e.Execute("just text"))
}

func TestListHistoryAndHelp(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "cmd add plane 0 0 0", "cmd list", "cmd history", "cmd help")
	out := strings.Join(e.Log().Lines(), "\n")
	assert.Contains(t, out, "*#1 plane pos(0 0 0)")
	assert.Contains(t, out, "undo (1): add plane #1")
	assert.Contains(t, out, "spawnmode - spawnmode <origin|plane|mesh>")
}

func TestPickAt(t *testing.T) {
	e, _ := newEditor(t)
	id := e.Scene().AddPrimitive(primitives.Cube, mgl32.Vec3{})
	e.Scene().Select(scene.None)
	e.Camera().SetPosition(mgl32.Vec3{0, 0, 10})

	hit, ok := e.PickAt(mgl32.Vec2{400, 300})
	require.True(t, ok)
	assert.Equal(t, uint64(id), hit.EntityID)
	assert.InDelta(t, 1, hit.Point[2], 1e-4)
	assert.Equal(t, id, e.Scene().Selected())
	assert.Greater(t, e.PickStats().TrianglesTested, 0)

	_, ok = e.PickAt(mgl32.Vec2{5, 5})
	assert.False(t, ok)
	assert.Equal(t, scene.None, e.Scene().Selected(), "a miss clears the selection")

	run(t, e, "cmd pick 400 300")
	assert.Equal(t, id, e.Scene().Selected())
	assert.Error(t, e.Execute("cmd pick 1"))
}

func TestSpawnModes(t *testing.T) {
	e, _ := newEditor(t)
	e.Camera().SetPosition(mgl32.Vec3{0, 10, 10})

	id, ok := e.RequestSpawn(primitives.Cube)
	require.True(t, ok, "origin mode spawns right away")
	assert.Equal(t, mgl32.Vec3{}, position(t, e, id))

	run(t, e, "cmd spawnmode plane", "cmd add sphere")
	assert.Equal(t, placement.ClickPlane, e.SpawnMode())
	kind, pending := e.SpawnPending()
	require.True(t, pending)
	assert.Equal(t, primitives.Sphere, kind)

	preview, ok := e.PreviewAt(mgl32.Vec2{400, 300})
	require.True(t, ok)
	id, ok = e.SpawnAt(mgl32.Vec2{400, 300})
	require.True(t, ok)
	p := position(t, e, id)
	assert.InDelta(t, 0, p.Len(), 1e-3)
	assert.InDelta(t, 0, preview.Position.Sub(p).Len(), 1e-6)
	_, pending = e.SpawnPending()
	assert.False(t, pending)
	_, ok = e.SpawnAt(mgl32.Vec2{400, 300})
	assert.False(t, ok, "nothing pending")

	// Mesh mode lands on the top face of a cube sunk half a unit.
	e.NewScene()
	e.Scene().AddPrimitive(primitives.Cube, mgl32.Vec3{0, -0.5, 0})
	run(t, e, "cmd spawnmode mesh --align")
	e.RequestSpawn(primitives.Cylinder)
	id, ok = e.SpawnAt(mgl32.Vec2{400, 300})
	require.True(t, ok)
	p = position(t, e, id)
	assert.InDelta(t, 0, p[0], 1e-3)
	assert.InDelta(t, 0.5, p[1], 1e-3)
	assert.InDelta(t, 0.5, p[2], 1e-3)
	tr, _ := e.Scene().Transform(id)
	assert.InDelta(t, 0, tr.Rotation.Len(), 1e-2)

	run(t, e, "cmd undo")
	assert.Equal(t, 1, e.Scene().Len(), "a spawn is one undo step")

	e.RequestSpawn(primitives.Cube)
	e.CancelSpawn()
	_, pending = e.SpawnPending()
	assert.False(t, pending)
	assert.Error(t, e.Execute("cmd spawnmode sideways"))
}

func TestGridSnap(t *testing.T) {
	e, _ := newEditor(t)
	e.Camera().SetPosition(mgl32.Vec3{0, 10, 10})
	run(t, e, "cmd spawnmode plane", "cmd grid --snap --cell 2")
	assert.True(t, e.Prefs().SnapToGrid)
	assert.Equal(t, float32(2), e.Prefs().GridCell)

	// A little right of and below the center lands inside the (0..2, 0..2) cell.
	e.RequestSpawn(primitives.Cube)
	id, _ := e.SpawnAt(mgl32.Vec2{440, 340})
	p := position(t, e, id)
	assert.Equal(t, float32(1), p[0])
	assert.InDelta(t, 0, p[1], 1e-4)
	assert.Equal(t, float32(1), p[2])

	assert.Error(t, e.Execute("cmd grid --cell -1"))
	assert.Error(t, e.Execute("cmd grid --show --hide"))
}

func TestAnimations(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "cmd add cube 0 0 0", "cmd anim rot 0 1 0 90", "cmd anim trn --id 1 1 0 0")
	assert.Equal(t, 2, e.Animator().Len())

	e.Update(0.5)
	tr, _ := e.Scene().Transform(1)
	assert.InDelta(t, 45, tr.Rotation[1], 1e-4)
	assert.InDelta(t, 0.5, tr.Position[0], 1e-4)

	run(t, e, "cmd anim rm 1")
	assert.Equal(t, 1, e.Animator().Len())
	assert.Error(t, e.Execute("cmd anim rm 1"))
	assert.Error(t, e.Execute("cmd anim rot 0 1 0"))
	assert.Error(t, e.Execute("cmd anim wobble"))

	run(t, e, "cmd anim step 0.25")
	assert.Equal(t, float32(0.25), e.Animator().FixedStep())
	run(t, e, "cmd anim clear")
	assert.Equal(t, 0, e.Animator().Len())
}

func TestSaveLoadScene(t *testing.T) {
	e, dir := newEditor(t)
	run(t, e,
		"cmd add cube 1 0 0",
		"cmd add sphere 0 2 0",
		"cmd rotate 0 0 30",
		"cmd anim scl 0.5 0.5 0.5",
		"cmd save",
	)
	data, err := os.ReadFile(filepath.Join(dir, "animations.txt"))
	require.NoError(t, err)
	assert.Equal(t, "SCL 1 2 0.5 0.5 0.5\n", string(data))

	run(t, e, "cmd new")
	assert.Equal(t, 0, e.Scene().Len())
	assert.Equal(t, 0, e.Animator().Len())
	assert.False(t, e.Scene().CanUndo())

	run(t, e, "cmd load")
	require.Equal(t, 2, e.Scene().Len())
	assert.Equal(t, 1, e.Animator().Len())
	sphere := e.Scene().Entities()[1]
	assert.Equal(t, scene.ID(4), sphere.ID, "loaded entities get fresh ids")
	assert.Equal(t, mgl32.Vec3{0, 0, 30}, sphere.Transform.Rotation)
	assert.Equal(t, sphere.ID, e.Animator().Animations()[0].Entity, "animations follow their entity")
	assert.False(t, e.Scene().CanUndo(), "loading is not undoable")

	other := filepath.Join(dir, "other.txt")
	run(t, e, "cmd save "+other)
	require.NoError(t, os.Remove(filepath.Join(dir, "animations.txt")))
	run(t, e, "cmd load "+other)
	assert.Equal(t, 2, e.Scene().Len())
	assert.Equal(t, 0, e.Animator().Len(), "missing animations are not an error")

	assert.Error(t, e.Execute("cmd load "+filepath.Join(dir, "missing.txt")))
}

func TestAnimatorRemap(t *testing.T) {
	e, _ := newEditor(t)
	a := e.Animator()
	a.AddRotation(5, mgl32.Vec3{0, 1, 0}, 10)
	a.AddTranslation(7, mgl32.Vec3{1, 0, 0})
	c := a.Clone()
	assert.Equal(t, 1, c.Remap(map[scene.ID]scene.ID{5: 1}))
	require.Equal(t, 1, c.Len())
	assert.Equal(t, scene.ID(1), c.Animations()[0].Entity)
	assert.Equal(t, 2, a.Len(), "Clone leaves the receiver untouched")
	assert.Equal(t, scene.ID(5), a.Animations()[0].Entity)
}

func TestPrefsCommandsPersist(t *testing.T) {
	e, dir := newEditor(t)
	run(t, e, "cmd fps --show", "cmd memalloc --show", "cmd grid --hide")
	assert.True(t, e.Prefs().ShowFPS)
	assert.True(t, e.Prefs().ShowMemAlloc)
	assert.False(t, e.Prefs().GridVisible)
	assert.Error(t, e.Execute("cmd fps"))

	saved, err := editorconfig.Load(filepath.Join(dir, "editor.yaml"))
	require.NoError(t, err)
	assert.True(t, saved.ShowFPS)
	assert.False(t, saved.GridVisible)

	saved.SpawnMode = "mesh"
	saved.FixedTimestep = 0.1
	e.ApplyPrefs(saved)
	assert.Equal(t, placement.ClickMesh, e.SpawnMode())
	assert.Equal(t, float32(0.1), e.Animator().FixedStep())
}

func TestRunScript(t *testing.T) {
	e, dir := newEditor(t)
	path := filepath.Join(dir, "build.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"actions":[
		{"action":"add_object","type":"cube","position":[0,0,0]},
		{"action":"run_cmd","args":["fps","--show"]}
	]}`), 0644))
	run(t, e, "cmd run "+path)
	assert.Equal(t, 1, e.Scene().Len())
	assert.True(t, e.Prefs().ShowFPS)
	assert.Contains(t, strings.Join(e.Log().Lines(), "\n"), "Done. Applied 2 action(s).")
	assert.Error(t, e.Execute("cmd run"))
}

func TestConsoleRejectsNonFinite(t *testing.T) {
	e, _ := newEditor(t)
	run(t, e, "cmd add cube 0 0 0")
	for _, line := range []string{
		"cmd scale nan",
		"cmd scale 1 NaN 1",
		"cmd move inf 0 0",
		"cmd rotate --abs 0 -Inf 0",
		"cmd add sphere 0 nan 0",
		"cmd anim rot 0 1 0 nan",
		"cmd pick nan 10",
	} {
		assert.Error(t, e.Execute(line), line)
	}
	tr, ok := e.Scene().Transform(1)
	require.True(t, ok)
	assert.Equal(t, scene.Identity(), tr)
	assert.Equal(t, 1, e.Scene().Len())
	assert.Equal(t, 0, e.Animator().Len())
}

func TestLoadMalformedSceneDropsAnimations(t *testing.T) {
	e, dir := newEditor(t)
	run(t, e, "cmd add cube 0 0 0", "cmd anim rot 0 1 0 90")
	require.Equal(t, 1, e.Animator().Len())

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("1 0 0 0 0 0 0 1 1 1\n0 0 0 0 0 0 0 nan 1 1\n"), 0o644))
	assert.Error(t, e.Execute("cmd load "+bad))
	assert.Equal(t, 1, e.Scene().Len(), "records before the bad line are kept")
	assert.Equal(t, 0, e.Animator().Len())

	run(t, e, "cmd anim rot 0 1 0 90")
	assert.Error(t, e.Execute("cmd load "+filepath.Join(dir, "missing.txt")))
	assert.Equal(t, 1, e.Animator().Len(), "a scene that failed to open keeps its animations")
}
