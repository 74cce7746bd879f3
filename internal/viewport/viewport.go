// Package viewport turns raylib mouse and keyboard input into editor actions: picking,
// click-to-spawn, gizmo drags, camera orbit/pan/zoom and undo/redo shortcuts.
package viewport

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/editor"
	"scene-editor/internal/gizmo"
	"scene-editor/internal/picking"
	"scene-editor/internal/render"
	"scene-editor/internal/scene"
)

// Viewport holds per-frame interaction state. It is driven from the frame loop only.
type Viewport struct {
	ed *editor.Editor

	op        gizmo.Op
	axis      gizmo.Axis
	drag      scene.Drag
	dragStart mgl32.Vec2
	// screenAxis is the on-screen image of one world unit along the dragged axis,
	// measured when the drag starts.
	screenAxis mgl32.Vec2

	mouse mgl32.Vec2
}

func New(ed *editor.Editor) *Viewport {
	return &Viewport{ed: ed}
}

func (v *Viewport) Op() gizmo.Op { return v.op }

// DragAxis returns the axis being dragged, or AxisNone.
func (v *Viewport) DragAxis() gizmo.Axis {
	if !v.drag.Active() {
		return gizmo.AxisNone
	}
	return v.axis
}

func mousePosition() mgl32.Vec2 {
	p := rl.GetMousePosition()
	return mgl32.Vec2{p.X, p.Y}
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
}

func shiftDown() bool {
	return rl.IsKeyDown(rl.KeyLeftShift) || rl.IsKeyDown(rl.KeyRightShift)
}

// Update reads input for this frame. When keyboard is false (the console is open) only
// the mouse is handled.
func (v *Viewport) Update(keyboard bool) {
	v.ed.SetViewport(picking.Viewport{Width: float32(rl.GetScreenWidth()), Height: float32(rl.GetScreenHeight())})
	v.mouse = mousePosition()

	if keyboard {
		v.handleKeys()
	}
	v.handleCamera()
	v.handleLeftButton()

	if v.drag.Active() && !rl.IsWindowFocused() {
		v.drag.Cancel()
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		switch {
		case v.drag.Active():
			v.drag.Cancel()
		default:
			v.ed.CancelSpawn()
		}
	}
}

func (v *Viewport) handleKeys() {
	sc := v.ed.Scene()
	switch {
	case ctrlDown() && rl.IsKeyPressed(rl.KeyZ) && shiftDown(),
		ctrlDown() && rl.IsKeyPressed(rl.KeyY):
		if !v.drag.Active() {
			sc.Redo()
		}
	case ctrlDown() && rl.IsKeyPressed(rl.KeyZ):
		if !v.drag.Active() {
			sc.Undo()
		}
	case ctrlDown() && rl.IsKeyPressed(rl.KeyS):
		if err := v.ed.SaveScene(""); err != nil {
			v.ed.Log().Errorf("save failed: %v", err)
		}
	case rl.IsKeyPressed(rl.KeyW):
		v.op = gizmo.Translate
	case rl.IsKeyPressed(rl.KeyE):
		v.op = gizmo.Rotate
	case rl.IsKeyPressed(rl.KeyR):
		v.op = gizmo.Scale
	case rl.IsKeyPressed(rl.KeyF):
		if t, ok := sc.Transform(sc.Selected()); ok {
			v.ed.Camera().Focus(t.Position)
		}
	case rl.IsKeyPressed(rl.KeyDelete) || rl.IsKeyPressed(rl.KeyBackspace):
		if !v.drag.Active() && sc.Selected() != scene.None {
			sc.DeleteRecorded(sc.Selected())
		}
	}
}

func (v *Viewport) handleCamera() {
	cam := v.ed.Camera()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.Zoom(wheel)
	}
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonMiddle):
		cam.BeginDrag(v.mouse)
	case rl.IsMouseButtonDown(rl.MouseButtonMiddle):
		cam.UpdateDrag(v.mouse, shiftDown())
	case cam.Dragging():
		cam.EndDrag()
	}
}

// GizmoCenter returns where the selected entity's gizmo is drawn on screen.
func (v *Viewport) GizmoCenter() (mgl32.Vec2, bool) {
	sc := v.ed.Scene()
	t, ok := sc.Transform(sc.Selected())
	if !ok {
		return mgl32.Vec2{}, false
	}
	view, proj := v.ed.ViewProjection()
	return gizmo.ProjectToScreen(t.Position, proj.Mul4(view), v.ed.Viewport())
}

func (v *Viewport) handleLeftButton() {
	switch {
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if _, pending := v.ed.SpawnPending(); pending {
			v.ed.SpawnAt(v.mouse)
			return
		}
		if v.beginGizmoDrag() {
			return
		}
		v.ed.PickAt(v.mouse)

	case rl.IsMouseButtonDown(rl.MouseButtonLeft):
		if v.drag.Active() {
			t := gizmo.ApplyProjected(v.drag.Before(), v.op, v.axis, v.mouse.Sub(v.dragStart), v.screenAxis)
			v.drag.Update(t)
		}

	case rl.IsMouseButtonReleased(rl.MouseButtonLeft):
		if v.drag.Active() {
			v.drag.Commit()
		}
	}
}

func (v *Viewport) beginGizmoDrag() bool {
	center, ok := v.GizmoCenter()
	if !ok {
		return false
	}
	axis := gizmo.PickAxis(v.mouse, center)
	if axis == gizmo.AxisNone {
		return false
	}
	sc := v.ed.Scene()
	id := sc.Selected()
	if !v.drag.Begin(sc, id) {
		return false
	}
	t, _ := sc.Transform(id)
	view, proj := v.ed.ViewProjection()
	v.screenAxis, _ = gizmo.ScreenAxis(t.Position, axis, proj.Mul4(view), v.ed.Viewport())
	v.axis = axis
	v.dragStart = v.mouse
	return true
}

// Preview returns the ghost of a pending spawn under the mouse, if any.
func (v *Viewport) Preview() *render.Preview {
	kind, pending := v.ed.SpawnPending()
	if !pending {
		return nil
	}
	t, ok := v.ed.PreviewAt(v.mouse)
	if !ok {
		return nil
	}
	return &render.Preview{Kind: kind, Transform: t}
}
