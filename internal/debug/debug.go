package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/editorconfig"
	"scene-editor/internal/picking"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// Text is rebuilt every updateInterval frames to limit allocations.
	updateInterval = 30
)

// Overlay draws the optional top-right counters: FPS, heap usage and, in debug mode,
// the work done by the last pick.
type Overlay struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowPick     bool

	frameCount uint32
	fpsText    string
	memText    string
	pickText   string
	memStats   runtime.MemStats
}

// New returns an overlay with everything hidden.
func New() *Overlay {
	return &Overlay{}
}

// ApplyPrefs shows the counters the editor config asks for.
func (d *Overlay) ApplyPrefs(p editorconfig.Prefs) {
	d.ShowFPS = p.ShowFPS
	d.ShowMemAlloc = p.ShowMemAlloc
	d.ShowPick = p.Debug
}

// PickText formats pick statistics for the overlay.
func PickText(s picking.Stats) string {
	return fmt.Sprintf("Pick: %d ent, %d nodes, %d pruned, %d tris",
		s.Entities, s.NodesVisited, s.NodesPruned, s.TrianglesTested)
}

// Draw renders the enabled counters. Call after the scene and console.
func (d *Overlay) Draw(stats picking.Stats) {
	d.frameCount++
	refresh := d.frameCount%updateInterval == 0
	if d.ShowFPS && d.fpsText == "" || d.ShowMemAlloc && d.memText == "" {
		refresh = true
	}
	if refresh {
		if d.ShowFPS {
			d.fpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		if d.ShowMemAlloc {
			runtime.ReadMemStats(&d.memStats)
			d.memText = fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024))
		}
	}
	if d.ShowPick {
		d.pickText = PickText(stats)
	}

	y := int32(padding)
	for _, line := range [...]struct {
		show bool
		text string
	}{
		{d.ShowFPS, d.fpsText},
		{d.ShowMemAlloc, d.memText},
		{d.ShowPick, d.pickText},
	} {
		if !line.show || line.text == "" {
			continue
		}
		drawRight(line.text, y)
		y += lineHeight
	}
}

func drawRight(text string, y int32) {
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, int32(rl.GetScreenWidth())-w-padding, y, fontSize, rl.Green)
}
