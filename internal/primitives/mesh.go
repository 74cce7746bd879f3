package primitives

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Default tessellation, matching the sizes the editor has always spawned.
const (
	DefaultSphereSegments   = 24
	DefaultSphereRings      = 16
	DefaultCylinderSegments = 24
	DefaultCylinderHeight   = 2
	DefaultPlaneSize        = 2
)

// All generators wind triangles counter-clockwise seen from outside, so the
// triangle normal cross(v1-v0, v2-v0) points away from the solid.

// CubeData returns a cube spanning [-1, 1] on every axis: 8 vertices, 12 triangles.
func CubeData() ([]mgl32.Vec3, []uint32) {
	pos := []mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	idx := []uint32{
		0, 2, 1, 0, 3, 2, // -z
		4, 5, 6, 4, 6, 7, // +z
		0, 1, 5, 0, 5, 4, // -y
		3, 6, 2, 3, 7, 6, // +y
		1, 2, 6, 1, 6, 5, // +x
		0, 4, 7, 0, 7, 3, // -x
	}
	return pos, idx
}

// SphereData returns a UV sphere of radius 1. Segments run around Y, rings from pole to pole.
// The seam column is duplicated; pole fans skip their zero-area triangles.
func SphereData(segments, rings int) ([]mgl32.Vec3, []uint32) {
	segments = max(segments, 3)
	rings = max(rings, 2)

	pos := make([]mgl32.Vec3, 0, (rings+1)*(segments+1))
	for r := 0; r <= rings; r++ {
		phi := float32(r) / float32(rings) * math32.Pi
		sinPhi, cosPhi := math32.Sincos(phi)
		for s := 0; s <= segments; s++ {
			theta := float32(s) / float32(segments) * 2 * math32.Pi
			sinTheta, cosTheta := math32.Sincos(theta)
			pos = append(pos, mgl32.Vec3{sinPhi * cosTheta, cosPhi, sinPhi * sinTheta})
		}
	}

	idx := make([]uint32, 0, rings*segments*6)
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := uint32(r*(segments+1) + s)
			b := a + uint32(segments+1)
			if r > 0 {
				idx = append(idx, a, a+1, b)
			}
			if r < rings-1 {
				idx = append(idx, a+1, b+1, b)
			}
		}
	}
	return pos, idx
}

// CylinderData returns a capped cylinder of radius 1 centred on the origin along Y.
func CylinderData(segments int, height float32) ([]mgl32.Vec3, []uint32) {
	segments = max(segments, 3)
	half := height / 2

	pos := make([]mgl32.Vec3, 0, 2*segments+2)
	for s := 0; s < segments; s++ {
		theta := float32(s) / float32(segments) * 2 * math32.Pi
		sin, cos := math32.Sincos(theta)
		pos = append(pos, mgl32.Vec3{cos, -half, sin}, mgl32.Vec3{cos, half, sin})
	}
	bottom := uint32(len(pos))
	top := bottom + 1
	pos = append(pos, mgl32.Vec3{0, -half, 0}, mgl32.Vec3{0, half, 0})

	idx := make([]uint32, 0, segments*12)
	for s := 0; s < segments; s++ {
		i0 := uint32(2 * s)
		i1 := i0 + 1
		i2 := uint32(2 * ((s + 1) % segments))
		i3 := i2 + 1
		idx = append(idx,
			i0, i1, i2,
			i1, i3, i2,
			bottom, i0, i2,
			top, i3, i1,
		)
	}
	return pos, idx
}

// PlaneData returns a size×size quad on the XZ plane facing +Y.
func PlaneData(size float32) ([]mgl32.Vec3, []uint32) {
	h := size / 2
	pos := []mgl32.Vec3{{-h, 0, -h}, {h, 0, -h}, {h, 0, h}, {-h, 0, h}}
	idx := []uint32{0, 2, 1, 0, 3, 2}
	return pos, idx
}
