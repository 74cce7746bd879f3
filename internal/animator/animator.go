// Package animator drives simple per-entity animations: constant spin, constant
// velocity and constant scale growth. Animations write straight into the scene and are
// never recorded as undoable edits.
package animator

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"scene-editor/internal/scene"
)

type Kind int

const (
	Rotation Kind = iota
	Translation
	Scale
)

func (k Kind) String() string {
	switch k {
	case Rotation:
		return "rotation"
	case Translation:
		return "translation"
	case Scale:
		return "scale"
	}
	return "unknown"
}

// Animation is one running effect on an entity. Only the fields for its Kind are used:
// Axis and Speed (degrees per second) for Rotation, Velocity for Translation and
// ScaleDelta (added per second) for Scale.
type Animation struct {
	ID         int
	Entity     scene.ID
	Kind       Kind
	Axis       mgl32.Vec3
	Speed      float32
	Velocity   mgl32.Vec3
	ScaleDelta mgl32.Vec3
}

// Target is the part of the scene the animator writes to.
type Target interface {
	Transform(id scene.ID) (scene.Transform, bool)
	SetTransform(id scene.ID, t scene.Transform) bool
}

// maxSteps bounds the fixed steps taken in one Advance after a long stall.
const maxSteps = 8

type Animator struct {
	anims  []Animation
	nextID int

	fixedStep   float32
	accumulator float32

	log *zap.SugaredLogger
}

type Option func(*Animator)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *Animator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithFixedStep makes Advance run the animations in steps of exactly step seconds.
func WithFixedStep(step float32) Option {
	return func(a *Animator) { a.fixedStep = step }
}

func New(opts ...Option) *Animator {
	a := &Animator{nextID: 1, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Animator) add(anim Animation) int {
	anim.ID = a.nextID
	a.nextID++
	a.anims = append(a.anims, anim)
	a.log.Infow("animation added", "id", anim.ID, "entity", anim.Entity, "kind", anim.Kind)
	return anim.ID
}

// AddRotation spins the entity around axis at degPerSec. The axis is used as given, so
// its length scales the speed.
func (a *Animator) AddRotation(entity scene.ID, axis mgl32.Vec3, degPerSec float32) int {
	return a.add(Animation{Entity: entity, Kind: Rotation, Axis: axis, Speed: degPerSec})
}

func (a *Animator) AddTranslation(entity scene.ID, velocity mgl32.Vec3) int {
	return a.add(Animation{Entity: entity, Kind: Translation, Velocity: velocity})
}

func (a *Animator) AddScale(entity scene.ID, deltaPerSec mgl32.Vec3) int {
	return a.add(Animation{Entity: entity, Kind: Scale, ScaleDelta: deltaPerSec})
}

// Remove deletes the animation with the given id.
func (a *Animator) Remove(id int) bool {
	n := a.removeIf(func(anim Animation) bool { return anim.ID == id })
	if n > 0 {
		a.log.Infow("animation removed", "id", id)
	}
	return n > 0
}

// RemoveForEntity deletes every animation on the entity and returns how many there were.
func (a *Animator) RemoveForEntity(entity scene.ID) int {
	n := a.removeIf(func(anim Animation) bool { return anim.Entity == entity })
	if n > 0 {
		a.log.Infow("animations removed", "entity", entity, "count", n)
	}
	return n
}

func (a *Animator) removeIf(match func(Animation) bool) int {
	kept := a.anims[:0]
	for _, anim := range a.anims {
		if !match(anim) {
			kept = append(kept, anim)
		}
	}
	n := len(a.anims) - len(kept)
	a.anims = kept
	return n
}

// Clear removes every animation. Ids keep counting up.
func (a *Animator) Clear() {
	a.anims = nil
	a.accumulator = 0
}

// Animations returns a copy of the running animations in creation order.
func (a *Animator) Animations() []Animation {
	return append([]Animation(nil), a.anims...)
}

func (a *Animator) Len() int { return len(a.anims) }

// Clone returns an independent copy with the same animations, ids and step.
func (a *Animator) Clone() *Animator {
	c := *a
	c.anims = append([]Animation(nil), a.anims...)
	return &c
}

// Remap rewrites entity references through m. Animations whose entity is not in m are
// dropped; the number dropped is returned.
func (a *Animator) Remap(m map[scene.ID]scene.ID) int {
	n := a.removeIf(func(anim Animation) bool {
		_, ok := m[anim.Entity]
		return !ok
	})
	for i := range a.anims {
		a.anims[i].Entity = m[a.anims[i].Entity]
	}
	return n
}

// FixedStep returns the step used by Advance, zero when it follows the frame time.
func (a *Animator) FixedStep() float32 { return a.fixedStep }

// SetFixedStep switches Advance between fixed steps (step > 0) and frame time.
func (a *Animator) SetFixedStep(step float32) {
	a.fixedStep = step
	a.accumulator = 0
}

// Update advances every animation by dt seconds. Animations on entities that no longer
// exist are skipped but kept.
func (a *Animator) Update(target Target, dt float32) {
	for _, anim := range a.anims {
		t, ok := target.Transform(anim.Entity)
		if !ok {
			continue
		}
		switch anim.Kind {
		case Rotation:
			t.Rotation = t.Rotation.Add(anim.Axis.Mul(anim.Speed * dt))
		case Translation:
			t.Position = t.Position.Add(anim.Velocity.Mul(dt))
		case Scale:
			t.Scale = t.Scale.Add(anim.ScaleDelta.Mul(dt))
			t = t.ClampScale(scene.DefaultScaleEpsilon)
		}
		target.SetTransform(anim.Entity, t)
	}
}

// Advance feeds one frame's elapsed time. With a fixed step it runs as many whole steps
// as the accumulated time allows, at most maxSteps, and carries the remainder. It
// returns the number of updates run.
func (a *Animator) Advance(target Target, frameDt float32) int {
	if frameDt <= 0 || len(a.anims) == 0 {
		return 0
	}
	if a.fixedStep <= 0 {
		a.Update(target, frameDt)
		return 1
	}
	a.accumulator += frameDt
	steps := 0
	for a.accumulator >= a.fixedStep && steps < maxSteps {
		a.Update(target, a.fixedStep)
		a.accumulator -= a.fixedStep
		steps++
	}
	if steps == maxSteps {
		a.accumulator = 0
	}
	return steps
}
