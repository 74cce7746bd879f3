// Package scene is the editor's entity store and the controller that edits it.
//
// The Controller owns a flat list of entities, the current selection and the undo
// history. Direct setters (SetTransform and friends) change state without touching the
// history; interactive edits record exactly one command when they finish (see Drag),
// and the Recorded variants push their own command.
package scene

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"scene-editor/internal/geometry"
	"scene-editor/internal/history"
	"scene-editor/internal/primitives"
)

// Factory supplies fresh geometry and the default color for a primitive kind.
// *primitives.Registry satisfies it.
type Factory interface {
	Geometry(kind primitives.Kind) *geometry.Geometry
	Color(kind primitives.Kind) primitives.Color
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug traces of edits.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithHistoryLimit caps the undo stack; 0 keeps every edit.
func WithHistoryLimit(n int) Option {
	return func(c *Controller) { c.historyLimit = n }
}

// WithScaleEpsilon sets the smallest scale component stored transforms may hold.
func WithScaleEpsilon(eps float32) Option {
	return func(c *Controller) {
		if eps > 0 {
			c.scaleEps = eps
		}
	}
}

// Controller is the single writer of the entity store.
type Controller struct {
	factory      Factory
	entities     []*Entity // ascending id, which is creation order
	nextID       ID
	selected     ID
	spawnCount   int
	history      *history.History[*Controller]
	historyLimit int
	scaleEps     float32
	log          *zap.SugaredLogger
}

// NewController returns an empty scene. A nil factory uses the built-in primitive defaults.
func NewController(factory Factory, opts ...Option) *Controller {
	if factory == nil {
		factory = primitives.NewRegistry()
	}
	c := &Controller{
		factory:  factory,
		nextID:   1,
		scaleEps: DefaultScaleEpsilon,
		log:      zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.history = history.New[*Controller](c.historyLimit)
	return c
}

// AddPrimitive creates an entity of kind at position with identity rotation and unit
// scale, selects it and returns its id. It does not record history.
func (c *Controller) AddPrimitive(kind primitives.Kind, position mgl32.Vec3) ID {
	id := c.nextID
	c.nextID++
	c.spawnCount++
	c.insert(c.newEntity(id, kind, At(position)))
	c.selected = id
	c.log.Debugw("entity added", "id", id, "kind", kind, "position", position)
	return id
}

func (c *Controller) newEntity(id ID, kind primitives.Kind, t Transform) *Entity {
	return &Entity{
		ID:        id,
		Kind:      kind,
		Transform: t.ClampScale(c.scaleEps),
		Geometry:  c.factory.Geometry(kind),
		Color:     c.factory.Color(kind),
	}
}

// restore re-creates an entity under its original id. Used by command replay only;
// it is a no-op if the id is live.
func (c *Controller) restore(id ID, kind primitives.Kind, t Transform) {
	if _, ok := c.FindByID(id); ok {
		return
	}
	c.insert(c.newEntity(id, kind, t))
	c.selected = id
	c.log.Debugw("entity restored", "id", id, "kind", kind)
}

func (c *Controller) insert(e *Entity) {
	i := sort.Search(len(c.entities), func(i int) bool { return c.entities[i].ID >= e.ID })
	c.entities = append(c.entities, nil)
	copy(c.entities[i+1:], c.entities[i:])
	c.entities[i] = e
}

func (c *Controller) index(id ID) int {
	i := sort.Search(len(c.entities), func(i int) bool { return c.entities[i].ID >= id })
	if i < len(c.entities) && c.entities[i].ID == id {
		return i
	}
	return -1
}

// Delete removes the entity if present and clears the selection if it was selected.
// It reports whether anything was removed.
func (c *Controller) Delete(id ID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	copy(c.entities[i:], c.entities[i+1:])
	c.entities[len(c.entities)-1] = nil
	c.entities = c.entities[:len(c.entities)-1]
	if c.selected == id {
		c.selected = None
	}
	c.log.Debugw("entity deleted", "id", id)
	return true
}

// FindByID returns the live entity with id. The pointer stays valid until the entity is
// deleted; callers must not change its Transform except through the controller.
func (c *Controller) FindByID(id ID) (*Entity, bool) {
	if i := c.index(id); i >= 0 {
		return c.entities[i], true
	}
	return nil, false
}

// Get is FindByID with an error wrapping ErrNotFound.
func (c *Controller) Get(id ID) (*Entity, error) {
	e, ok := c.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("entity %d: %w", id, ErrNotFound)
	}
	return e, nil
}

// Transform returns the entity's current transform.
func (c *Controller) Transform(id ID) (Transform, bool) {
	e, ok := c.FindByID(id)
	if !ok {
		return Transform{}, false
	}
	return e.Transform, true
}

// SetTransform replaces the entity's transform without recording history.
func (c *Controller) SetTransform(id ID, t Transform) bool {
	e, ok := c.FindByID(id)
	if !ok {
		return false
	}
	e.Transform = t.ClampScale(c.scaleEps)
	return true
}

// SetPosition sets only the position.
func (c *Controller) SetPosition(id ID, p mgl32.Vec3) bool {
	return c.update(id, func(t *Transform) { t.Position = p })
}

// SetRotation sets only the Euler rotation in degrees.
func (c *Controller) SetRotation(id ID, deg mgl32.Vec3) bool {
	return c.update(id, func(t *Transform) { t.Rotation = deg })
}

// SetScale sets only the scale.
func (c *Controller) SetScale(id ID, s mgl32.Vec3) bool {
	return c.update(id, func(t *Transform) { t.Scale = s })
}

func (c *Controller) update(id ID, fn func(*Transform)) bool {
	e, ok := c.FindByID(id)
	if !ok {
		return false
	}
	t := e.Transform
	fn(&t)
	e.Transform = t.ClampScale(c.scaleEps)
	return true
}

// Select makes id the selection. None clears it; unknown ids are ignored.
func (c *Controller) Select(id ID) bool {
	if id == None {
		c.selected = None
		return true
	}
	if _, ok := c.FindByID(id); !ok {
		return false
	}
	c.selected = id
	return true
}

// Selected returns the selected id, or None.
func (c *Controller) Selected() ID { return c.selected }

// DeleteSelected removes the selected entity without recording history.
func (c *Controller) DeleteSelected() bool {
	if c.selected == None {
		return false
	}
	return c.Delete(c.selected)
}

// TranslateSelected adds delta to the selected entity's position.
func (c *Controller) TranslateSelected(delta mgl32.Vec3) bool {
	return c.update(c.selected, func(t *Transform) { t.Position = t.Position.Add(delta) })
}

// RotateSelected adds delta degrees to the selected entity's rotation.
func (c *Controller) RotateSelected(delta mgl32.Vec3) bool {
	return c.update(c.selected, func(t *Transform) { t.Rotation = t.Rotation.Add(delta) })
}

// ScaleSelected multiplies the selected entity's scale component-wise by factor.
func (c *Controller) ScaleSelected(factor mgl32.Vec3) bool {
	return c.update(c.selected, func(t *Transform) {
		t.Scale = mgl32.Vec3{t.Scale[0] * factor[0], t.Scale[1] * factor[1], t.Scale[2] * factor[2]}
	})
}

// AddRecorded adds a primitive and records an AddCommand for it.
func (c *Controller) AddRecorded(kind primitives.Kind, position mgl32.Vec3) ID {
	id := c.AddPrimitive(kind, position)
	c.history.Push(&AddCommand{ID: id, Kind: kind, Position: position})
	return id
}

// DeleteRecorded deletes id and records a DeleteCommand that can bring it back.
func (c *Controller) DeleteRecorded(id ID) bool {
	e, ok := c.FindByID(id)
	if !ok {
		return false
	}
	cmd := &DeleteCommand{ID: e.ID, Kind: e.Kind, Transform: e.Transform}
	c.Delete(id)
	c.history.Push(cmd)
	return true
}

// SetTransformRecorded sets the transform and records the change. Identical transforms
// record nothing.
func (c *Controller) SetTransformRecorded(id ID, t Transform) bool {
	before, ok := c.Transform(id)
	if !ok {
		return false
	}
	c.SetTransform(id, t)
	after, _ := c.Transform(id)
	if after != before {
		c.history.Push(&TransformCommand{ID: id, Before: before, After: after})
	}
	return true
}

// Group runs fn and records every edit it makes as a single undo step.
func (c *Controller) Group(label string, fn func()) {
	c.history.BeginGroup(label)
	defer c.history.EndGroup()
	fn()
}

// Push records an edit that has already been applied.
func (c *Controller) Push(cmd history.Command[*Controller]) {
	c.history.Push(cmd)
}

// Undo reverts the most recent recorded edit.
func (c *Controller) Undo() bool {
	ok := c.history.Undo(c)
	if ok {
		c.log.Debugw("undo", "undo_depth", c.history.UndoLen(), "redo_depth", c.history.RedoLen())
	}
	return ok
}

// Redo reapplies the most recently undone edit.
func (c *Controller) Redo() bool {
	ok := c.history.Redo(c)
	if ok {
		c.log.Debugw("redo", "undo_depth", c.history.UndoLen(), "redo_depth", c.history.RedoLen())
	}
	return ok
}

func (c *Controller) CanUndo() bool { return c.history.CanUndo() }

func (c *Controller) CanRedo() bool { return c.history.CanRedo() }

// History returns labels for both stacks, oldest first.
func (c *Controller) History() (undo, redo []string) { return c.history.Labels() }

// Entities returns the live entities in creation order. The slice is shared; do not modify it.
func (c *Controller) Entities() []*Entity { return c.entities }

// Len returns the number of live entities.
func (c *Controller) Len() int { return len(c.entities) }

// SpawnCount returns how many primitives AddPrimitive has created, including deleted ones.
func (c *Controller) SpawnCount() int { return c.spawnCount }

// Snapshot returns detached copies of every entity, without geometry.
func (c *Controller) Snapshot() []EntityInfo {
	out := make([]EntityInfo, 0, len(c.entities))
	if err := copier.Copy(&out, c.entities); err != nil {
		c.log.Warnw("snapshot copy failed", "error", err)
		return nil
	}
	return out
}

// Reset drops every entity, the selection and the history. Ids keep counting up.
func (c *Controller) Reset() {
	clear(c.entities)
	c.entities = c.entities[:0]
	c.selected = None
	c.history.Clear()
	c.log.Debugw("scene reset", "next_id", c.nextID)
}
