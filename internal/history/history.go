// Package history implements a two-stack undo/redo engine over opaque reversible commands.
//
// History is generic over the state S that commands act on, so it knows nothing about
// scenes or entities. It is not safe for concurrent use; the editor drives it from the
// frame loop only.
package history

import (
	"fmt"
)

// Command is a reversible edit. Undo and Redo must derive their whole effect from the
// command's own fields and the state passed in.
type Command[S any] interface {
	Undo(state S)
	Redo(state S)
}

// History holds past commands on the undo stack (most recent last) and undone commands on
// the redo stack.
type History[S any] struct {
	undo      []Command[S]
	redo      []Command[S]
	limit     int
	replaying bool

	open  *Group[S]
	depth int
}

// New returns an empty history. limit caps the undo stack (oldest entries are dropped);
// zero or a negative value means unbounded.
func New[S any](limit int) *History[S] {
	if limit < 0 {
		limit = 0
	}
	return &History[S]{limit: limit}
}

// Push records cmd as the most recent edit and clears the redo stack unconditionally.
// Push does not apply cmd; the edit it describes has already happened. Inside a group
// the command joins the group instead.
func (h *History[S]) Push(cmd Command[S]) {
	if cmd == nil {
		return
	}
	if h.depth > 0 {
		h.open.Commands = append(h.open.Commands, cmd)
		return
	}
	h.undo = append(h.undo, cmd)
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		clear(h.undo[:drop])
		h.undo = h.undo[drop:]
	}
	clear(h.redo)
	h.redo = h.redo[:0]
}

// Undo pops the most recent command, reverts it against state and moves it to the redo
// stack. It returns false when there is nothing to undo or when called from inside
// another command's replay.
func (h *History[S]) Undo(state S) bool {
	if len(h.undo) == 0 || h.replaying {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]
	h.replay(func() { cmd.Undo(state) })
	h.redo = append(h.redo, cmd)
	return true
}

// Redo pops the most recently undone command, reapplies it and moves it back to the
// undo stack. Same return rules as Undo.
func (h *History[S]) Redo(state S) bool {
	if len(h.redo) == 0 || h.replaying {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	h.replay(func() { cmd.Redo(state) })
	h.undo = append(h.undo, cmd)
	return true
}

func (h *History[S]) replay(fn func()) {
	h.replaying = true
	defer func() { h.replaying = false }()
	fn()
}

// CanUndo reports whether the undo stack is non-empty.
func (h *History[S]) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (h *History[S]) CanRedo() bool { return len(h.redo) > 0 }

// UndoLen returns the depth of the undo stack.
func (h *History[S]) UndoLen() int { return len(h.undo) }

// RedoLen returns the depth of the redo stack.
func (h *History[S]) RedoLen() int { return len(h.redo) }

// Clear drops both stacks and any open group.
func (h *History[S]) Clear() {
	h.open = nil
	h.depth = 0
	clear(h.undo)
	clear(h.redo)
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

// Labels describes both stacks, oldest first. Commands implementing fmt.Stringer
// describe themselves; others are shown by type.
func (h *History[S]) Labels() (undo, redo []string) {
	undo = make([]string, len(h.undo))
	for i, c := range h.undo {
		undo[i] = label(c)
	}
	redo = make([]string, len(h.redo))
	for i, c := range h.redo {
		redo[i] = label(c)
	}
	return undo, redo
}

func label(c any) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}
