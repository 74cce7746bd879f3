package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/history"
	"scene-editor/internal/primitives"
)

var (
	_ history.Command[*Controller] = (*TransformCommand)(nil)
	_ history.Command[*Controller] = (*AddCommand)(nil)
	_ history.Command[*Controller] = (*DeleteCommand)(nil)
)

// TransformCommand swaps an entity between two full transforms.
type TransformCommand struct {
	ID     ID
	Before Transform
	After  Transform
}

func (c *TransformCommand) Undo(s *Controller) { s.SetTransform(c.ID, c.Before) }
func (c *TransformCommand) Redo(s *Controller) { s.SetTransform(c.ID, c.After) }

func (c *TransformCommand) String() string {
	return fmt.Sprintf("transform #%d", c.ID)
}

// AddCommand undoes a spawn by deleting the entity and redoes it by re-creating the
// same kind at the same position under the original id.
type AddCommand struct {
	ID       ID
	Kind     primitives.Kind
	Position mgl32.Vec3
}

func (c *AddCommand) Undo(s *Controller) { s.Delete(c.ID) }
func (c *AddCommand) Redo(s *Controller) { s.restore(c.ID, c.Kind, At(c.Position)) }

func (c *AddCommand) String() string {
	return fmt.Sprintf("add %s #%d", c.Kind, c.ID)
}

// DeleteCommand is the inverse of AddCommand: it remembers the deleted entity's kind and
// transform so undo brings it back, pickable, under the same id.
type DeleteCommand struct {
	ID        ID
	Kind      primitives.Kind
	Transform Transform
}

func (c *DeleteCommand) Undo(s *Controller) { s.restore(c.ID, c.Kind, c.Transform) }
func (c *DeleteCommand) Redo(s *Controller) { s.Delete(c.ID) }

func (c *DeleteCommand) String() string {
	return fmt.Sprintf("delete %s #%d", c.Kind, c.ID)
}
