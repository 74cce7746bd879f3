package history

import "fmt"

// Group is several commands recorded as one step. Undo reverts them newest first.
type Group[S any] struct {
	Label    string
	Commands []Command[S]
}

func (g *Group[S]) Undo(state S) {
	for i := len(g.Commands) - 1; i >= 0; i-- {
		g.Commands[i].Undo(state)
	}
}

func (g *Group[S]) Redo(state S) {
	for _, c := range g.Commands {
		c.Redo(state)
	}
}

func (g *Group[S]) String() string {
	if g.Label != "" {
		return g.Label
	}
	return fmt.Sprintf("group of %d", len(g.Commands))
}

// BeginGroup starts collecting pushed commands into one undo step labelled label.
// Groups nest; only the outermost EndGroup records anything.
func (h *History[S]) BeginGroup(label string) {
	if h.depth == 0 {
		h.open = &Group[S]{Label: label}
	}
	h.depth++
}

// EndGroup closes the group opened by the matching BeginGroup. An empty group records
// nothing and a group of one records that command alone.
func (h *History[S]) EndGroup() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth > 0 {
		return
	}
	g := h.open
	h.open = nil
	switch len(g.Commands) {
	case 0:
	case 1:
		h.Push(g.Commands[0])
	default:
		h.Push(g)
	}
}

// Grouping reports whether a group is open.
func (h *History[S]) Grouping() bool { return h.depth > 0 }
