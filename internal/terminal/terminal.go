package terminal

import (
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/logger"
)

const (
	BarHeight = 40
	// When windowed, move bar up by this many pixels so it stays visible.
	WindowedBarOffset = 56
	prompt            = "> "
	fontSize          = 20
	padding           = 8
	maxLinesOnScreen  = 14
	lineHeight        = fontSize + 4
	maxLineChars      = 200
	maxRecall         = 100
)

var (
	termBarColor    = rl.NewColor(40, 40, 40, 255)
	termLineColor   = rl.NewColor(80, 80, 80, 255)
	termChatBgColor = rl.NewColor(24, 24, 24, 240)
)

// Terminal is the console bar at the bottom of the screen, shown and hidden with ESC (or
// the backtick key). Submitted lines go to the exec function; the console shows the
// logger's recent lines above the bar.
type Terminal struct {
	log      *logger.Logger
	exec     func(line string) error
	inputBuf string
	open     bool

	recall []string
	cursor int // index into recall while browsing with Up/Down; len(recall) when not
}

// New returns a closed terminal that hands submitted lines to exec.
func New(log *logger.Logger, exec func(line string) error) *Terminal {
	return &Terminal{log: log, exec: exec}
}

// IsOpen reports whether the terminal is visible and capturing the keyboard.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Update handles toggling and, when open, typing, paste, history recall and submit.
// Call once per frame.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) || rl.IsKeyPressed(rl.KeyGrave) {
		t.open = !t.open
		// Swallow the backtick typed by the toggle.
		for rl.GetCharPressed() != 0 {
		}
		return
	}
	if !t.open {
		return
	}
	if rl.IsKeyPressed(rl.KeyV) && (rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)) {
		if pasted := rl.GetClipboardText(); pasted != "" {
			t.inputBuf += pasted
		}
	} else {
		for {
			c := rl.GetCharPressed()
			if c == 0 {
				break
			}
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyUp) && t.cursor > 0 {
		t.cursor--
		t.inputBuf = t.recall[t.cursor]
	}
	if rl.IsKeyPressed(rl.KeyDown) && t.cursor < len(t.recall) {
		t.cursor++
		t.inputBuf = ""
		if t.cursor < len(t.recall) {
			t.inputBuf = t.recall[t.cursor]
		}
	}
	if (rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter)) && t.inputBuf != "" {
		t.submit(t.inputBuf)
	}
}

func (t *Terminal) submit(line string) {
	t.inputBuf = ""
	t.recall = append(t.recall, line)
	if len(t.recall) > maxRecall {
		t.recall = t.recall[len(t.recall)-maxRecall:]
	}
	t.cursor = len(t.recall)
	// exec logs the line and any error itself.
	_ = t.exec(line)
}

// Draw draws the bar and the recent log lines above it when open. Returns the y of the
// top of the console area so other overlays can stay above it.
func (t *Terminal) Draw() int32 {
	screenW := int(rl.GetScreenWidth())
	screenH := int(rl.GetScreenHeight())
	if !t.open {
		return int32(screenH)
	}
	barY := screenH - BarHeight
	if !rl.IsWindowFullscreen() {
		barY -= WindowedBarOffset
	}

	chatHeight := maxLinesOnScreen * lineHeight
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight = barY
		chatY = 0
	}
	if chatHeight > 0 {
		rl.DrawRectangle(0, int32(chatY), int32(screenW), int32(chatHeight), termChatBgColor)
	}
	lines := t.log.Lines()
	start := 0
	if len(lines) > maxLinesOnScreen {
		start = len(lines) - maxLinesOnScreen
	}
	for i := start; i < len(lines); i++ {
		y := chatY + (i-start)*lineHeight + padding
		line := lines[i]
		if len(line) > maxLineChars {
			line = line[:maxLineChars-3] + "..."
		}
		rl.DrawText(line, int32(padding), int32(y), int32(fontSize), rl.LightGray)
	}

	rl.DrawRectangle(0, int32(barY), int32(screenW), int32(BarHeight), termBarColor)
	rl.DrawRectangle(0, int32(barY), int32(screenW), 1, termLineColor)
	rl.DrawText(prompt+t.inputBuf+"|", int32(padding), int32(barY+padding), int32(fontSize), rl.White)
	return int32(chatY)
}
