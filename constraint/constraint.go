package constraint

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Restitution is shared by every pair: 1.0 keeps all kinetic energy along the normal.
	Restitution = 1.0

	// Slop is the penetration left uncorrected, to avoid jitter on resting contacts.
	Slop = 0.01

	// CorrectionPercent is the fraction of the remaining penetration removed per resolution.
	CorrectionPercent = 0.2
)

// Constraint is solved in two phases. SolveVelocity reports whether the
// constraint is active, SolvePosition only runs when it is.
type Constraint interface {
	SolveVelocity() bool
	SolvePosition()
}

func solve(c Constraint) {
	if c.SolveVelocity() {
		c.SolvePosition()
	}
}

// relativeNormalVelocity computes the approach speed along the normal.
// When only one side is dynamic, only that side's velocity is taken into account:
// the immovable side contributes no motion.
func relativeNormalVelocity(bodyA, bodyB *actor.RigidBody, normal mgl64.Vec3) float64 {
	var relativeVel mgl64.Vec3
	switch {
	case !bodyA.IsDynamic():
		relativeVel = bodyB.Velocity.Mul(-1)
	case !bodyB.IsDynamic():
		relativeVel = bodyA.Velocity
	default:
		relativeVel = bodyA.Velocity.Sub(bodyB.Velocity)
	}

	return relativeVel.Dot(normal)
}
