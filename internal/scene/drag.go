package scene

// DragState is the phase of an interactive edit.
type DragState int

const (
	DragIdle DragState = iota
	Dragging
	DragCommitted
	DragCancelled
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case Dragging:
		return "dragging"
	case DragCommitted:
		return "committed"
	case DragCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Drag tracks one interactive edit of one entity. While dragging, Update writes the live
// transform straight into the store every frame; Commit records at most one
// TransformCommand for the whole interaction. The zero value is idle.
type Drag struct {
	ctrl   *Controller
	state  DragState
	id     ID
	before Transform
}

// Begin snapshots the entity's transform and enters Dragging. It fails if a drag is
// already in progress or the entity does not exist.
func (d *Drag) Begin(c *Controller, id ID) bool {
	if d.state == Dragging {
		return false
	}
	t, ok := c.Transform(id)
	if !ok {
		return false
	}
	*d = Drag{ctrl: c, state: Dragging, id: id, before: t}
	return true
}

// Update applies the live transform. It does nothing outside Dragging.
func (d *Drag) Update(t Transform) bool {
	if d.state != Dragging {
		return false
	}
	return d.ctrl.SetTransform(d.id, t)
}

// Commit ends the drag. It pushes one TransformCommand when the final transform differs
// from the snapshot and reports whether it did. If the entity vanished mid-drag nothing
// is recorded and the drag counts as cancelled.
func (d *Drag) Commit() bool {
	if d.state != Dragging {
		return false
	}
	after, ok := d.ctrl.Transform(d.id)
	if !ok {
		d.state = DragCancelled
		return false
	}
	d.state = DragCommitted
	if after == d.before {
		return false
	}
	d.ctrl.Push(&TransformCommand{ID: d.id, Before: d.before, After: after})
	return true
}

// Cancel ends the drag and puts the snapshot transform back. Nothing is recorded.
func (d *Drag) Cancel() {
	if d.state != Dragging {
		return
	}
	d.ctrl.SetTransform(d.id, d.before)
	d.state = DragCancelled
}

// State returns the current phase.
func (d *Drag) State() DragState { return d.state }

// Active reports whether a drag is in progress.
func (d *Drag) Active() bool { return d.state == Dragging }

// ID returns the entity being dragged (or last dragged).
func (d *Drag) ID() ID { return d.id }

// Before returns the transform snapshotted when the drag began.
func (d *Drag) Before() Transform { return d.before }
