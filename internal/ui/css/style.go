package css

import (
	"strconv"
	"strings"

	"scene-editor/internal/primitives"
)

// Unset marks a percentage position that was not given.
const Unset = -1

// Style holds resolved values for drawing one node. LeftPct and TopPct (0..100) place
// the node relative to the free screen space and win over Left and Top; a negative
// Right places it from the right edge instead.
type Style struct {
	Background primitives.Color
	Color      primitives.Color
	Border     primitives.Color
	HasBorder  bool

	Width, Height    int32
	Left, Top, Right int32
	LeftPct, TopPct  int32

	Padding    int32
	FontSize   int32
	LineHeight int32
}

// Default is the style of a node no rule matches.
func Default() Style {
	return Style{
		Color:      primitives.Color{R: 255, G: 255, B: 255, A: 255},
		Border:     primitives.Color{A: 255},
		Right:      Unset,
		LeftPct:    Unset,
		TopPct:     Unset,
		Padding:    4,
		FontSize:   20,
		LineHeight: 24,
	}
}

// ParseColor accepts the hex forms of primitives.ParseColor plus "transparent".
func ParseColor(s string) (primitives.Color, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "transparent") {
		return primitives.Color{}, true
	}
	if !strings.HasPrefix(s, "#") {
		return primitives.Color{}, false
	}
	c, err := primitives.ParseColor(s)
	return c, err == nil
}

// ParsePx parses a whole number with an optional "px" suffix.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" with N in 0..100.
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	v, ok := strings.CutSuffix(s, "%")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// Resolve builds a Style from merged properties. Unknown keys and bad values are ignored.
func Resolve(props map[string]string) Style {
	out := Default()
	for k, v := range props {
		switch k {
		case "background":
			if c, ok := ParseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := ParseColor(v); ok {
				out.Color = c
			}
		case "border":
			if strings.EqualFold(strings.TrimSpace(v), "none") {
				out.HasBorder = false
			} else if c, ok := ParseColor(v); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "width":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Width = n
			}
		case "height":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Height = n
			}
		case "left":
			if pct, ok := ParsePct(v); ok {
				out.LeftPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Left = n
			}
		case "top":
			if pct, ok := ParsePct(v); ok {
				out.TopPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Top = n
			}
		case "right":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Right = n
			}
		case "padding":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		case "line-height":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.LineHeight = n
			}
		}
	}
	if out.LineHeight < out.FontSize {
		out.LineHeight = out.FontSize
	}
	return out
}

// Place returns the top-left corner of a w by h node on a screenW by screenH screen.
func (s Style) Place(w, h, screenW, screenH int32) (x, y int32) {
	x, y = s.Left, s.Top
	switch {
	case s.LeftPct >= 0:
		x = (screenW - w) * s.LeftPct / 100
	case s.Right >= 0:
		x = screenW - w - s.Right
	}
	if s.TopPct >= 0 {
		y = (screenH - h) * s.TopPct / 100
	}
	return x, y
}
