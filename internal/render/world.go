// Package render draws the editor scene with raylib: lit primitives, the ground grid,
// the selection box, the spawn preview and the transform gizmo.
package render

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/camera"
	"scene-editor/internal/editorconfig"
	"scene-editor/internal/primitives"
	"scene-editor/internal/scene"
)

const (
	gridExtent     = 50
	gridMajorEvery = 10
	gridMaxLines   = 500
	gridMinorAlpha = 50
	gridMajorAlpha = 120
	axisLineAlpha  = 220
	previewAlpha   = 0.45
)

var (
	gridMinor = rl.NewColor(128, 128, 128, gridMinorAlpha)
	gridMajor = rl.NewColor(160, 160, 160, gridMajorAlpha)
	axisX     = rl.NewColor(220, 80, 80, axisLineAlpha)
	axisY     = rl.NewColor(80, 220, 80, axisLineAlpha)
	axisZ     = rl.NewColor(80, 80, 220, axisLineAlpha)

	defaultBackground = rl.NewColor(30, 30, 35, 255)
	defaultSelection  = rl.NewColor(255, 180, 50, 255)
)

// Preview is a pending spawn drawn as a translucent ghost.
type Preview struct {
	Kind      primitives.Kind
	Transform scene.Transform
}

// Renderer owns the GPU meshes. Meshes are uploaded on first draw so that GPU resources
// are allocated after the window/OpenGL context exists.
type Renderer struct {
	registry *primitives.Registry
	meshes   map[primitives.Kind]*gpuMesh
	shader   litShader
	loaded   bool

	// lightDir points from the scene toward the light.
	lightDir [3]float32

	Background color.RGBA
	Selection  color.RGBA
	GridCell   float32
	GridShown  bool
}

func New(reg *primitives.Registry) *Renderer {
	return &Renderer{
		registry:   reg,
		meshes:     make(map[primitives.Kind]*gpuMesh),
		lightDir:   [3]float32{0.5, 1, 0.5},
		Background: defaultBackground,
		Selection:  defaultSelection,
		GridCell:   1,
		GridShown:  true,
	}
}

// ApplyPrefs takes colors and grid settings from the editor config.
func (r *Renderer) ApplyPrefs(p editorconfig.Prefs) {
	r.Background = hexColor(p.BackgroundColor, defaultBackground)
	r.Selection = hexColor(p.SelectionColor, defaultSelection)
	r.GridShown = p.GridVisible
	if p.GridCell > 0 {
		r.GridCell = p.GridCell
	}
}

func (r *Renderer) ensureLoaded() {
	if r.loaded {
		return
	}
	r.loaded = true
	r.shader = loadLitShader()
	for _, k := range primitives.Kinds {
		r.meshes[k] = uploadMesh(r.registry, k, r.shader.shader)
	}
}

// Unload frees GPU resources. Call before the window closes.
func (r *Renderer) Unload() {
	for k, m := range r.meshes {
		m.unload()
		delete(r.meshes, k)
	}
	r.shader.unload()
	r.loaded = false
}

// Camera converts the orbit camera to raylib's camera for BeginMode3D.
func Camera(o *camera.Orbit) rl.Camera3D {
	return rl.Camera3D{
		Position:   toVector3(o.Position()),
		Target:     toVector3(o.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       camera.FovY,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the scene from the orbit camera. Call between BeginDrawing and
// EndDrawing, before any 2D overlay.
func (r *Renderer) Draw(o *camera.Orbit, entities []*scene.Entity, selected scene.ID, preview *Preview) {
	r.ensureLoaded()
	rl.ClearBackground(r.Background)

	eye := o.Position()
	r.shader.setView([3]float32{eye[0], eye[1], eye[2]}, r.lightDir)

	rl.BeginMode3D(Camera(o))
	if r.GridShown {
		drawGrid(r.GridCell)
	}
	for _, e := range entities {
		r.drawEntity(e.Kind, e.Transform, toColor(e.Color), e.ID == selected)
	}
	for _, e := range entities {
		if e.ID == selected {
			drawBounds(e, r.Selection)
		}
	}
	if preview != nil {
		c := toColor(r.registry.Color(preview.Kind))
		r.drawEntity(preview.Kind, preview.Transform, rl.Fade(c, previewAlpha), false)
	}
	rl.EndMode3D()
}

func (r *Renderer) drawEntity(kind primitives.Kind, t scene.Transform, tint color.RGBA, highlight bool) {
	m, ok := r.meshes[kind]
	if !ok || m.mesh.VaoID == 0 {
		return
	}
	if albedo := m.mtl.GetMap(rl.MapAlbedo); albedo != nil {
		albedo.Color = tint
	}
	r.shader.setHighlight(highlight)
	rl.DrawMesh(m.mesh, m.mtl, toMatrix(t.Matrix()))
}

func drawBounds(e *scene.Entity, c color.RGBA) {
	b := e.WorldBounds()
	rl.DrawBoundingBox(rl.BoundingBox{Min: toVector3(b.Min), Max: toVector3(b.Max)}, c)
}

// drawGrid draws the XZ ground grid with a brighter line every gridMajorEvery cells and
// the world axes through the origin.
func drawGrid(cell float32) {
	lines := min(int(gridExtent/cell), gridMaxLines)
	extent := float32(lines) * cell
	var start, end rl.Vector3
	for i := -lines; i <= lines; i++ {
		c := gridMinor
		if i%gridMajorEvery == 0 {
			c = gridMajor
		}
		v := float32(i) * cell
		start.X, start.Y, start.Z = v, 0, -extent
		end.X, end.Y, end.Z = v, 0, extent
		rl.DrawLine3D(start, end, c)
		start.X, start.Y, start.Z = -extent, 0, v
		end.X, end.Y, end.Z = extent, 0, v
		rl.DrawLine3D(start, end, c)
	}
	rl.DrawLine3D(rl.NewVector3(-extent, 0, 0), rl.NewVector3(extent, 0, 0), axisX)
	rl.DrawLine3D(rl.NewVector3(0, -extent, 0), rl.NewVector3(0, extent, 0), axisY)
	rl.DrawLine3D(rl.NewVector3(0, 0, -extent), rl.NewVector3(0, 0, extent), axisZ)
}
