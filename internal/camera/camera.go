// Package camera implements the editor's orbit camera. It only produces matrices;
// picking and rendering receive them explicitly.
package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Projection parameters shared by rendering and picking.
const (
	FovY = 45.0
	Near = 0.1
	Far  = 1000.0
)

const (
	minDistance = 0.2
	zoomStep    = 0.12
	orbitSpeed  = 0.008
	panSpeed    = 0.0015
	// Pitch stays short of straight up or down so LookAt keeps a usable up vector.
	maxPitch = math32.Pi/2 - 0.01
)

// Orbit circles a target point. Pitch and yaw are in radians; yaw 0 looks down -Z.
type Orbit struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32
	Yaw      float32

	dragging  bool
	lastMouse mgl32.Vec2
}

// New returns the editor's starting camera: six units out, slightly above the origin.
func New() *Orbit {
	return &Orbit{Distance: 6, Pitch: 0.3, Yaw: -1}
}

// Position returns the camera's world position.
func (o *Orbit) Position() mgl32.Vec3 {
	sp, cp := math32.Sincos(o.Pitch)
	sy, cy := math32.Sincos(o.Yaw)
	return o.Target.Add(mgl32.Vec3{o.Distance * cp * sy, o.Distance * sp, o.Distance * cp * cy})
}

// View returns the world-to-camera matrix.
func (o *Orbit) View() mgl32.Mat4 {
	return mgl32.LookAtV(o.Position(), o.Target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given width/height ratio.
func (o *Orbit) Projection(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(FovY), aspect, Near, Far)
}

// Zoom moves toward the target by steps (positive zooms in).
func (o *Orbit) Zoom(steps float32) {
	o.Distance *= 1 - steps*zoomStep
	if o.Distance < minDistance {
		o.Distance = minDistance
	}
}

// Rotate orbits by a mouse delta in pixels.
func (o *Orbit) Rotate(delta mgl32.Vec2) {
	o.Pitch = mgl32.Clamp(o.Pitch+delta[1]*orbitSpeed, -maxPitch, maxPitch)
	o.Yaw += delta[0] * orbitSpeed
}

// Pan slides the target in the camera plane by a mouse delta in pixels.
// Speed scales with distance so panning feels the same at any zoom.
func (o *Orbit) Pan(delta mgl32.Vec2) {
	forward := o.Target.Sub(o.Position()).Normalize()
	right := forward.Cross(mgl32.Vec3{0, 1, 0})
	if right.Len() < 1e-6 {
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up := right.Cross(forward).Normalize()
	speed := panSpeed * o.Distance
	o.Target = o.Target.Add(right.Mul(-delta[0] * speed)).Add(up.Mul(delta[1] * speed))
}

// BeginDrag starts a middle-button drag at pos.
func (o *Orbit) BeginDrag(pos mgl32.Vec2) {
	o.dragging = true
	o.lastMouse = pos
}

// UpdateDrag orbits, or pans when pan is held, by the movement since the last call.
func (o *Orbit) UpdateDrag(pos mgl32.Vec2, pan bool) {
	if !o.dragging {
		return
	}
	delta := pos.Sub(o.lastMouse)
	o.lastMouse = pos
	if pan {
		o.Pan(delta)
	} else {
		o.Rotate(delta)
	}
}

// EndDrag finishes a middle-button drag.
func (o *Orbit) EndDrag() { o.dragging = false }

// Dragging reports whether a middle-button drag is active.
func (o *Orbit) Dragging() bool { return o.dragging }

// SetPosition places the camera at p keeping the current target. A position on the
// target is ignored.
func (o *Orbit) SetPosition(p mgl32.Vec3) {
	d := p.Sub(o.Target)
	dist := d.Len()
	if dist < 1e-6 {
		return
	}
	o.Distance = dist
	o.Pitch = math32.Asin(mgl32.Clamp(d[1]/dist, -1, 1))
	o.Yaw = math32.Atan2(d[0], d[2])
}

// Focus retargets the camera on p without changing distance or angles.
func (o *Orbit) Focus(p mgl32.Vec3) { o.Target = p }
