package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window settings for Run. Zero width or height opens fullscreen at monitor size.
type Window struct {
	Title         string
	Width, Height int32
	TargetFPS     int32
	// OnClose runs after the loop ends while the GL context still exists.
	OnClose func()
}

// Run opens the window and runs the main loop. Each frame it calls update with the frame
// time, then draw between BeginDrawing and EndDrawing; draw clears the screen itself.
// ESC is left to the console, so the window closes only through its close button.
func Run(w Window, update func(dt float32), draw func()) {
	flags := uint32(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	width, height := w.Width, w.Height
	if width <= 0 || height <= 0 {
		// raylib sizes a 0x0 window to the monitor.
		width, height = 0, 0
		flags |= rl.FlagFullscreenMode
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(width, height, w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	fps := w.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	rl.SetTargetFPS(fps)

	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		draw()
		rl.EndDrawing()
	}
	if w.OnClose != nil {
		w.OnClose()
	}
}
