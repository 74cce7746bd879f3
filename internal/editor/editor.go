// Package editor ties the scene core to the editor's tools: the orbit camera, spawn
// placement, animations, persistence and the "cmd ..." console. It holds no window or
// GPU state, so everything here runs headless.
package editor

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/animator"
	"scene-editor/internal/camera"
	"scene-editor/internal/commands"
	"scene-editor/internal/editorconfig"
	"scene-editor/internal/geometry"
	"scene-editor/internal/logger"
	"scene-editor/internal/picking"
	"scene-editor/internal/placement"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
	"scene-editor/internal/scenefile"
	"scene-editor/internal/script"
)

type Editor struct {
	prefs      editorconfig.Prefs
	configPath string
	log        *logger.Logger

	registry *primitives.Registry
	scene    *scene.Controller
	anim     *animator.Animator
	camera   *camera.Orbit
	commands *commands.Registry
	script   *script.Runner

	viewport     picking.Viewport
	picker       picking.Picker
	spawnMode    placement.Mode
	spawnKind    primitives.Kind
	spawnPending bool
}

type Option func(*Editor)

// WithLogger sets the logger. The default keeps console lines only.
func WithLogger(l *logger.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithConfigPath makes preference changes made through commands persist to path.
func WithConfigPath(path string) Option {
	return func(e *Editor) { e.configPath = path }
}

// New builds an editor from prefs. Primitive definitions found in prefs.PrimitivesDir
// override the built-in kinds; bad definitions are logged and skipped.
func New(prefs editorconfig.Prefs, opts ...Option) *Editor {
	e := &Editor{
		prefs:    prefs,
		log:      logger.Nop(),
		camera:   camera.New(),
		commands: commands.NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	sugar := e.log.SugaredLogger

	e.registry = primitives.NewRegistry(geometry.WithLeafSize(prefs.BVHLeafSize))
	if prefs.PrimitivesDir != "" {
		defs, err := primitives.LoadDefs(prefs.PrimitivesDir)
		if err != nil {
			sugar.Warnw("primitive definitions", "dir", prefs.PrimitivesDir, "error", err)
		}
		for _, def := range defs {
			if err := e.registry.Apply(def); err != nil {
				sugar.Warnw("primitive definition rejected", "type", def.Type, "error", err)
			}
		}
	}

	e.scene = scene.NewController(e.registry,
		scene.WithLogger(sugar),
		scene.WithHistoryLimit(prefs.HistoryLimit),
		scene.WithScaleEpsilon(prefs.ScaleEpsilon),
	)
	e.anim = animator.New(animator.WithLogger(sugar), animator.WithFixedStep(prefs.FixedTimestep))
	e.script = script.New(e.scene, e.commands, script.WithLogger(sugar), script.WithRand(rand.New(rand.NewSource(rand.Int63()))))
	e.spawnMode, _ = placement.ParseMode(prefs.SpawnMode)
	e.registerCommands()
	return e
}

func (e *Editor) Prefs() editorconfig.Prefs { return e.prefs }
func (e *Editor) Log() *logger.Logger { return e.log }
func (e *Editor) Scene() *scene.Controller { return e.scene }
func (e *Editor) Animator() *animator.Animator { return e.anim }
func (e *Editor) Camera() *camera.Orbit { return e.camera }
func (e *Editor) Commands() *commands.Registry { return e.commands }
func (e *Editor) Script() *script.Runner { return e.script }
func (e *Editor) Primitives() *primitives.Registry { return e.registry }
func (e *Editor) SpawnMode() placement.Mode { return e.spawnMode }
func (e *Editor) PickStats() picking.Stats { return e.picker.Stats }
func (e *Editor) Viewport() picking.Viewport { return e.viewport }
func (e *Editor) SetViewport(vp picking.Viewport) { e.viewport = vp }

// ApplyPrefs takes over settings that can change while running: overlays, grid,
// spawning, the animation step and logging. History and BVH settings apply at startup.
func (e *Editor) ApplyPrefs(p editorconfig.Prefs) {
	e.prefs = p
	if m, err := placement.ParseMode(p.SpawnMode); err == nil {
		e.spawnMode = m
	}
	if p.FixedTimestep != e.anim.FixedStep() {
		e.anim.SetFixedStep(p.FixedTimestep)
	}
	e.log.SetDebug(p.Debug)
	e.log.SetMaxLines(p.ConsoleLines)
}

func (e *Editor) savePrefs() {
	if e.configPath == "" {
		return
	}
	if err := editorconfig.Save(e.configPath, e.prefs); err != nil {
		e.log.Warnw("failed to save editor config", "path", e.configPath, "error", err)
	}
}

// ViewProjection returns the camera matrices for the current viewport.
func (e *Editor) ViewProjection() (view, proj mgl32.Mat4) {
	aspect := float32(1)
	if e.viewport.Height > 0 {
		aspect = e.viewport.Width / e.viewport.Height
	}
	return e.camera.View(), e.camera.Projection(aspect)
}

// Ray returns the camera ray through a screen point.
func (e *Editor) Ray(screen mgl32.Vec2) (picking.Ray, bool) {
	view, proj := e.ViewProjection()
	return picking.ScreenPointToRay(screen, e.viewport, view, proj)
}

// PickAt selects the nearest entity under the screen point, or clears the selection
// when the click hits nothing.
func (e *Editor) PickAt(screen mgl32.Vec2) (picking.Hit, bool) {
	ray, ok := e.Ray(screen)
	if !ok {
		return picking.Hit{}, false
	}
	hit, ok := picking.PickWith(&e.picker, ray, e.scene.Entities())
	if !ok {
		e.scene.Select(scene.None)
		return picking.Hit{}, false
	}
	e.scene.Select(scene.ID(hit.EntityID))
	e.log.Debugw("picked", "id", hit.EntityID, "t", hit.T,
		"nodes", e.picker.Stats.NodesVisited, "pruned", e.picker.Stats.NodesPruned,
		"triangles", e.picker.Stats.TrianglesTested)
	return hit, true
}

// RequestSpawn spawns kind right away in Origin mode; otherwise it waits for SpawnAt.
func (e *Editor) RequestSpawn(kind primitives.Kind) (scene.ID, bool) {
	if !e.spawnMode.NeedsClick() {
		return e.Spawn(kind, placement.Result{Normal: mgl32.Vec3{0, 1, 0}}), true
	}
	e.spawnKind = kind
	e.spawnPending = true
	e.log.Infof("click in the viewport to place a %s", kind)
	return scene.None, false
}

// SpawnPending reports the kind waiting for a placement click.
func (e *Editor) SpawnPending() (primitives.Kind, bool) {
	return e.spawnKind, e.spawnPending
}

func (e *Editor) CancelSpawn() { e.spawnPending = false }

// SpawnAt places the pending spawn under the screen point.
func (e *Editor) SpawnAt(screen mgl32.Vec2) (scene.ID, bool) {
	if !e.spawnPending {
		return scene.None, false
	}
	e.spawnPending = false
	res := placement.Result{Normal: mgl32.Vec3{0, 1, 0}}
	if ray, ok := e.Ray(screen); ok {
		res = placement.Resolve(e.spawnMode, ray, e.scene.Entities())
	}
	return e.Spawn(e.spawnKind, res), true
}

// PreviewAt returns where a pending spawn would land under the screen point.
func (e *Editor) PreviewAt(screen mgl32.Vec2) (scene.Transform, bool) {
	if !e.spawnPending {
		return scene.Transform{}, false
	}
	ray, ok := e.Ray(screen)
	if !ok {
		return scene.Transform{}, false
	}
	res := placement.Resolve(e.spawnMode, ray, e.scene.Entities())
	if !res.Hit {
		return scene.Transform{}, false
	}
	return res.Transform(e.placementOptions()), true
}

func (e *Editor) placementOptions() placement.Options {
	opts := placement.Options{Align: e.prefs.AlignToNormal}
	if e.prefs.SnapToGrid {
		opts.Grid = e.prefs.GridCell
	}
	return opts
}

// Spawn adds kind at a resolved placement as one undo step and selects it.
func (e *Editor) Spawn(kind primitives.Kind, res placement.Result) scene.ID {
	t := res.Transform(e.placementOptions())
	var id scene.ID
	e.scene.Group(fmt.Sprintf("spawn %s", kind), func() {
		id = e.scene.AddRecorded(kind, t.Position)
		if t.Rotation != (mgl32.Vec3{}) {
			e.scene.SetTransformRecorded(id, t)
		}
	})
	e.log.Infof("added %s #%d at %.2f %.2f %.2f", kind, id, t.Position[0], t.Position[1], t.Position[2])
	return id
}

// Update advances animations by one frame.
func (e *Editor) Update(dt float32) {
	e.anim.Advance(e.scene, dt)
}

// Execute runs one console line. "cmd ..." lines go to the command registry; other
// text is only logged.
func (e *Editor) Execute(line string) error {
	e.log.Log(line)
	handled, err := e.commands.ExecuteLine(line)
	if err != nil {
		e.log.Errorf("%v", err)
		return err
	}
	if !handled {
		e.log.Info("commands start with \"cmd \"; try cmd help")
	}
	return nil
}

// SaveScene writes the scene and, when configured, its animations. The animations file
// names entities by their 1-based record number in the scene file, since ids are not
// stored and a loaded scene gets fresh ones.
func (e *Editor) SaveScene(path string) error {
	if path == "" {
		path = e.prefs.ScenePath
	}
	if err := scenefile.Save(path, e.scene); err != nil {
		return err
	}
	if e.prefs.AnimationsPath != "" {
		toFile := make(map[scene.ID]scene.ID, e.scene.Len())
		for i, ent := range e.scene.Entities() {
			toFile[ent.ID] = scene.ID(i + 1)
		}
		out := e.anim.Clone()
		out.Remap(toFile)
		if err := out.SaveFile(e.prefs.AnimationsPath); err != nil {
			return err
		}
	}
	e.log.Infow("scene saved", "path", path, "entities", e.scene.Len())
	return nil
}

// LoadScene replaces the scene with the one at path. Animations are loaded when their
// file exists. A malformed scene keeps the entities read before the bad record.
func (e *Editor) LoadScene(path string) error {
	if path == "" {
		path = e.prefs.ScenePath
	}
	e.spawnPending = false
	n, err := scenefile.Load(path, e.scene)
	if errors.Is(err, scenefile.ErrMalformed) {
		// The scene was already reset; old animations point at gone ids.
		e.anim.Clear()
	}
	if err != nil {
		return err
	}
	e.anim.Clear()
	if e.prefs.AnimationsPath != "" {
		fromFile := make(map[scene.ID]scene.ID, n)
		for i, ent := range e.scene.Entities()[:n] {
			fromFile[scene.ID(i+1)] = ent.ID
		}
		err := e.anim.LoadFile(e.prefs.AnimationsPath)
		switch {
		case err == nil:
			if dropped := e.anim.Remap(fromFile); dropped > 0 {
				e.log.Warnw("animations for missing entities dropped", "count", dropped)
			}
		case !errors.Is(err, os.ErrNotExist):
			e.log.Warnw("animations not loaded", "error", err)
		}
	}
	e.log.Infow("scene loaded", "path", path, "entities", n)
	return nil
}

// NewScene empties the scene, its history and its animations.
func (e *Editor) NewScene() {
	e.scene.Reset()
	e.anim.Clear()
	e.spawnPending = false
	e.log.Info("new scene")
}
