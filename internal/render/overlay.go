package render

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/gizmo"
)

const (
	handleThickness = 3
	handleRadius    = 7
	statusFontSize  = 18
	statusPadding   = 12
)

var (
	handleColors = [4]rl.Color{
		gizmo.AxisNone: rl.NewColor(230, 230, 230, 255),
		gizmo.AxisX:    rl.NewColor(230, 70, 70, 255),
		gizmo.AxisY:    rl.NewColor(70, 210, 70, 255),
		gizmo.AxisZ:    rl.NewColor(70, 110, 240, 255),
	}
	handleActive = rl.NewColor(255, 230, 60, 255)
	statusColor  = rl.NewColor(200, 200, 200, 255)
)

// DrawGizmo draws the screen-space axis handles around center. The axis being dragged,
// if any, is drawn highlighted.
func DrawGizmo(center mgl32.Vec2, op gizmo.Op, active gizmo.Axis) {
	ends := gizmo.Handles(center)
	c := toVector2(center)
	for a := gizmo.AxisX; a <= gizmo.AxisZ; a++ {
		col := handleColors[a]
		if a == active {
			col = handleActive
		}
		end := toVector2(ends[a])
		rl.DrawLineEx(c, end, handleThickness, col)
		switch op {
		case gizmo.Rotate:
			rl.DrawCircleLinesV(end, handleRadius, col)
		case gizmo.Scale:
			rl.DrawRectangle(int32(end.X)-handleRadius, int32(end.Y)-handleRadius, 2*handleRadius, 2*handleRadius, col)
		default:
			rl.DrawCircleV(end, handleRadius, col)
		}
	}
	rl.DrawCircleV(c, handleRadius/2, handleColors[gizmo.AxisNone])
}

// DrawStatus writes the editor state in the bottom-left corner, above y.
func DrawStatus(y int32, op gizmo.Op, entities int, selected string, hint string) {
	text := fmt.Sprintf("%s | %d entities | %s", op, entities, selected)
	if hint != "" {
		text += " | " + hint
	}
	rl.DrawText(text, statusPadding, y-statusFontSize-statusPadding, statusFontSize, statusColor)
}
