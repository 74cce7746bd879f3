package primitives

import (
	"github.com/go-gl/mathgl/mgl32"

	"scene-editor/internal/geometry"
)

// kindDefaults is the resolved tessellation and color for one kind.
type kindDefaults struct {
	color    Color
	segments int
	rings    int
	height   float32
	size     float32
}

// Registry maps each primitive kind to its defaults and builds geometry on request.
// Geometry is never shared: every call produces a fresh mesh and BVH so entities own
// their geometry outright.
type Registry struct {
	defaults map[Kind]kindDefaults
	geomOpts []geometry.Option
}

// NewRegistry returns a registry with the built-in defaults for every kind.
// opts are forwarded to geometry.New (e.g. a configured leaf size).
func NewRegistry(opts ...geometry.Option) *Registry {
	r := &Registry{defaults: make(map[Kind]kindDefaults, len(Kinds)), geomOpts: opts}
	for _, k := range Kinds {
		r.defaults[k] = kindDefaults{
			color:    DefaultColor,
			segments: defaultSegments(k),
			rings:    DefaultSphereRings,
			height:   DefaultCylinderHeight,
			size:     DefaultPlaneSize,
		}
	}
	return r
}

func defaultSegments(k Kind) int {
	if k == Cylinder {
		return DefaultCylinderSegments
	}
	return DefaultSphereSegments
}

// Apply overrides the defaults of def's kind with its non-zero fields.
func (r *Registry) Apply(def PrimitiveDef) error {
	if err := def.Validate(); err != nil {
		return err
	}
	k := def.Kind()
	s := r.defaults[k]
	if def.Color != "" {
		c, err := ParseColor(def.Color)
		if err != nil {
			return err
		}
		s.color = c
	}
	if def.Segments > 0 {
		s.segments = def.Segments
	}
	if def.Rings > 0 {
		s.rings = def.Rings
	}
	if def.Height > 0 {
		s.height = def.Height
	}
	if def.Size > 0 {
		s.size = def.Size
	}
	r.defaults[k] = s
	return nil
}

// Data returns the raw positions and indices for kind. Unknown kinds return nothing.
func (r *Registry) Data(kind Kind) ([]mgl32.Vec3, []uint32) {
	s := r.defaults[kind]
	switch kind {
	case Cube:
		return CubeData()
	case Sphere:
		return SphereData(s.segments, s.rings)
	case Cylinder:
		return CylinderData(s.segments, s.height)
	case Plane:
		return PlaneData(s.size)
	default:
		return nil, nil
	}
}

// Geometry builds a fresh geometry for kind. Unknown kinds give empty geometry.
func (r *Registry) Geometry(kind Kind) *geometry.Geometry {
	pos, idx := r.Data(kind)
	return geometry.New(pos, idx, r.geomOpts...)
}

// Color returns the default color for kind.
func (r *Registry) Color(kind Kind) Color {
	if s, ok := r.defaults[kind]; ok {
		return s.color
	}
	return DefaultColor
}
