package impulse

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collide"
	"github.com/akmonengine/impulse/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

type World struct {
	// List of all rigid bodies in the world
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity        mgl64.Vec3
	GravityAsForce bool
	Integration    actor.IntegrationMode
	Resolver       constraint.Resolver

	Events Events
	Logger Logger

	// Number of steps actually simulated, paused frames excluded
	StepCount uint64

	paused bool
}

// NewWorld creates an empty World from config. The config is expected to be validated.
func NewWorld(config Config) *World {
	mode, _ := config.Integration.Mode()
	logger := config.NewLogger()

	return &World{
		Gravity:        config.Gravity,
		GravityAsForce: config.GravityAsForce,
		Integration:    mode,
		Events:         NewEvents(),
		Logger:         logger,
	}
}

func (w *World) logger() Logger {
	if w.Logger == nil {
		w.Logger = NewNopLogger()
	}

	return w.Logger
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
}

// Body returns the first body named name, or nil
func (w *World) Body(name string) *actor.RigidBody {
	for _, b := range w.Bodies {
		if b.Name == name {
			return b
		}
	}

	return nil
}

// BodiesAt returns the bodies whose shape bounds contain point
func (w *World) BodiesAt(point mgl64.Vec3) []*actor.RigidBody {
	var bodies []*actor.RigidBody
	for _, b := range w.Bodies {
		if b.Shape.GetAABB().ContainsPoint(point) {
			bodies = append(bodies, b)
		}
	}

	return bodies
}

// SetPaused suspends the simulation: Step returns immediately while paused
func (w *World) SetPaused(paused bool) {
	w.paused = paused
}

func (w *World) Paused() bool {
	return w.paused
}

// Pairs lists the unordered pairs tested by the next step
func (w *World) Pairs() []Pair {
	return Pairs(w.Bodies)
}

// ResolveCollision resolves one collision with the World resolver and its hook
func (w *World) ResolveCollision(bodyA, bodyB *actor.RigidBody, info collide.CollisionInfo) {
	w.Resolver.Resolve(bodyA, bodyB, info)
}

// Step advances the simulation by dt.
// Each contact is resolved as soon as it is detected, so later pairs see the corrected state.
func (w *World) Step(dt float64) {
	if w.paused {
		return
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		w.logger().Warnf("step %d: non-finite dt %v", w.StepCount, dt)
	}

	// Phase 1: Gravity
	w.applyGravity()

	// Phase 2: Detection and resolution, pair by pair
	contacts := w.detectAndResolve()

	// Phase 3: Update Position & Velocity
	w.integrate(dt)

	w.Events.flush()
	w.StepCount++

	w.logger().Debugf("step %d: %d bodies, %d contacts", w.StepCount, len(w.Bodies), contacts)
}

func (w *World) applyGravity() {
	for _, body := range w.Bodies {
		if !body.IsDynamic() {
			continue
		}

		if w.GravityAsForce {
			body.AddForce(w.Gravity)
		} else {
			body.AddForce(w.Gravity.Mul(body.Mass))
		}
	}
}

func (w *World) detectAndResolve() int {
	contacts := 0
	for i := 0; i < len(w.Bodies); i++ {
		for j := i + 1; j < len(w.Bodies); j++ {
			bodyA, bodyB := w.Bodies[i], w.Bodies[j]

			info := CheckCollisions(bodyA, bodyB)
			if !info.Collided {
				continue
			}

			contacts++
			w.Events.recordCollision(bodyA, bodyB)
			if w.logger().DebugEnabled() {
				w.logger().Debugf("contact %q/%q normal=%v penetration=%.6f", bodyA.Name, bodyB.Name, info.Normal, info.Penetration)
			}
			w.ResolveCollision(bodyA, bodyB, info)
		}
	}

	return contacts
}

func (w *World) integrate(dt float64) {
	for _, body := range w.Bodies {
		body.Integrate(dt, w.Integration)
	}
}
