package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/geometry"
	"scene-editor/internal/primitives"
)

// ID identifies an entity. Ids start at 1 and are never handed out twice.
type ID uint64

// None is the empty selection.
const None ID = 0

// ErrNotFound is returned when an id names no live entity.
var ErrNotFound = errors.New("entity not found")

// ParseID parses a positive decimal id, optionally prefixed with '#'.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || n == 0 {
		return None, fmt.Errorf("invalid entity id %q", s)
	}
	return ID(n), nil
}

// Entity is one placed object. Geometry is owned by the entity and never modified;
// edits only touch Transform.
type Entity struct {
	ID        ID
	Kind      primitives.Kind
	Transform Transform
	Geometry  *geometry.Geometry
	Color     primitives.Color
}

// PickID, PickGeometry and ModelMatrix make *Entity usable as a picking target.
func (e *Entity) PickID() uint64 { return uint64(e.ID) }

func (e *Entity) PickGeometry() *geometry.Geometry { return e.Geometry }

func (e *Entity) ModelMatrix() mgl32.Mat4 { return e.Transform.Matrix() }

// WorldBounds returns the entity's geometry box in world space.
func (e *Entity) WorldBounds() geometry.AABB {
	if e.Geometry == nil || e.Geometry.IsEmpty() {
		return geometry.AABB{Min: e.Transform.Position, Max: e.Transform.Position}
	}
	return e.Geometry.Bounds().Transform(e.ModelMatrix())
}

// EntityInfo is a detached, geometry-free view of an entity for listings and persistence.
type EntityInfo struct {
	ID        ID
	Kind      primitives.Kind
	Transform Transform
	Color     primitives.Color
}
