// Package ui draws stylesheet-driven text panels over the viewport.
package ui

import (
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"scene-editor/internal/primitives"
	"scene-editor/internal/ui/css"
)

// DefaultCSS styles the built-in panels when no stylesheet file is loaded.
const DefaultCSS = `
.inspector {
	background: #181818e6;
	border: #505050;
	right: 12px;
	top: 96px;
	width: 320px;
	padding: 10px;
	font-size: 18px;
	line-height: 24px;
	color: #d0d0d0;
}
.inspector-title { color: #ffffff; }
`

// Panel is a titled block of text lines. Class and ID select its style; the title is
// styled by the rule for Class + "-title".
type Panel struct {
	Class string
	ID    string
	Title string
	Lines []string
}

// Engine owns the stylesheet and caches resolved styles per class/id pair.
type Engine struct {
	sheet  *css.Stylesheet
	styles map[[2]string]css.Style
}

// New returns an engine styled by DefaultCSS.
func New() *Engine {
	sheet, _ := css.Parse(DefaultCSS)
	return &Engine{sheet: sheet, styles: make(map[[2]string]css.Style)}
}

// LoadCSS replaces the stylesheet with the file at path. On error the current one stays.
func (e *Engine) LoadCSS(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sheet, err := css.Parse(string(data))
	if err != nil {
		return err
	}
	e.SetStylesheet(sheet)
	return nil
}

func (e *Engine) SetStylesheet(sheet *css.Stylesheet) {
	e.sheet = sheet
	clear(e.styles)
}

func (e *Engine) style(class, id string) css.Style {
	key := [2]string{class, id}
	s, ok := e.styles[key]
	if !ok {
		s = e.sheet.Style(class, id)
		e.styles[key] = s
	}
	return s
}

// Draw draws p. Width and height come from the style when set, otherwise from the text.
func (e *Engine) Draw(p *Panel) {
	st := e.style(p.Class, p.ID)
	titleSt := e.style(p.Class+"-title", "")

	rows := len(p.Lines)
	if p.Title != "" {
		rows++
	}
	w, h := st.Width, st.Height
	if w == 0 {
		w = rl.MeasureText(p.Title, st.FontSize)
		for _, line := range p.Lines {
			w = max(w, rl.MeasureText(line, st.FontSize))
		}
		w += 2 * st.Padding
	}
	if h == 0 {
		h = int32(rows)*st.LineHeight + 2*st.Padding
	}
	x, y := st.Place(w, h, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))

	if st.Background.A > 0 {
		rl.DrawRectangle(x, y, w, h, color(st.Background))
	}
	if st.HasBorder {
		rl.DrawRectangleLines(x, y, w, h, color(st.Border))
	}
	tx, ty := x+st.Padding, y+st.Padding
	if p.Title != "" {
		rl.DrawText(p.Title, tx, ty, st.FontSize, color(titleSt.Color))
		ty += st.LineHeight
	}
	for _, line := range p.Lines {
		rl.DrawText(line, tx, ty, st.FontSize, color(st.Color))
		ty += st.LineHeight
	}
}

func color(c primitives.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
