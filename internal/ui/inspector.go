package ui

// Inspector is the right-side panel describing the selected entity.
type Inspector struct {
	engine *Engine
	panel  Panel
}

func NewInspector(engine *Engine) *Inspector {
	return &Inspector{
		engine: engine,
		panel:  Panel{Class: "inspector", Title: "Inspector"},
	}
}

// Draw shows lines in the panel. Nothing is drawn for an empty selection.
func (in *Inspector) Draw(lines []string) {
	if len(lines) == 0 {
		return
	}
	in.panel.Lines = lines
	in.engine.Draw(&in.panel)
}
