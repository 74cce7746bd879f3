package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultScaleEpsilon is the smallest scale component a stored transform may hold.
const DefaultScaleEpsilon = 1e-4

// Transform places an entity: position, Euler rotation in degrees and per-axis scale.
// Rotation is applied as one intrinsic rotation Rz·Ry·Rx.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// Identity is the transform at the origin with no rotation and unit scale.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// At returns the identity transform moved to p.
func At(p mgl32.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// RotationMatrix returns Rz·Ry·Rx for the Euler angles in degrees.
func RotationMatrix(deg mgl32.Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(deg[0]))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(deg[1]))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(deg[2]))
	return rz.Mul4(ry).Mul4(rx)
}

// Matrix returns the model matrix T·R·S.
func (t Transform) Matrix() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2])
	s := mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2])
	return tr.Mul4(RotationMatrix(t.Rotation)).Mul4(s)
}

// ClampScale raises every scale component below eps, or NaN, to eps.
func (t Transform) ClampScale(eps float32) Transform {
	for i := range t.Scale {
		if !(t.Scale[i] >= eps) {
			t.Scale[i] = eps
		}
	}
	return t
}

func (t Transform) String() string {
	return fmt.Sprintf("pos(%.3g %.3g %.3g) rot(%.3g %.3g %.3g) scale(%.3g %.3g %.3g)",
		t.Position[0], t.Position[1], t.Position[2],
		t.Rotation[0], t.Rotation[1], t.Rotation[2],
		t.Scale[0], t.Scale[1], t.Scale[2])
}
