package constraint

import (
	"math"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collide"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactConstraint binds a detected collision to the pair of bodies that produced it.
// Info.Normal points from BodyB toward BodyA.
type ContactConstraint struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
	Info  collide.CollisionInfo
}

// PreSolveHook runs on every colliding pair before the generic resolution.
// It may mutate either body, for instance to disable collisions on one of them.
type PreSolveHook func(c *ContactConstraint)

// Resolver turns collisions into velocity impulses and position corrections
type Resolver struct {
	PreSolve PreSolveHook
}

// Resolve is a shortcut for a Resolver without hook
func Resolve(bodyA, bodyB *actor.RigidBody, info collide.CollisionInfo) {
	Resolver{}.Resolve(bodyA, bodyB, info)
}

// Resolve applies the impulse and the positional correction of one collision.
// It never touches a body that is not dynamic, and does nothing when info did not collide.
func (r Resolver) Resolve(bodyA, bodyB *actor.RigidBody, info collide.CollisionInfo) {
	if !info.Collided {
		return
	}

	c := &ContactConstraint{BodyA: bodyA, BodyB: bodyB, Info: info}
	if r.PreSolve != nil {
		r.PreSolve(c)
	}

	if !c.BodyA.IsDynamic() && !c.BodyB.IsDynamic() {
		return
	}

	c.Info.Normal = normalize(c.Info.Normal)

	solve(c)
}

// SolveVelocity applies the restitution impulse.
// It returns false when the bodies are already separating along the normal.
func (c *ContactConstraint) SolveVelocity() bool {
	bodyA := c.BodyA
	bodyB := c.BodyB
	normal := c.Info.Normal

	normalVel := relativeNormalVelocity(bodyA, bodyB, normal)
	if normalVel > 0 {
		return false
	}

	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	totalInvMass := invMassA + invMassB
	if totalInvMass <= 0 {
		return false
	}

	lambda := -(1.0 + Restitution) * normalVel / totalInvMass
	impulse := normal.Mul(lambda)

	if bodyA.IsDynamic() {
		bodyA.Velocity = bodyA.Velocity.Add(impulse.Mul(invMassA))
	}
	if bodyB.IsDynamic() {
		bodyB.Velocity = bodyB.Velocity.Sub(impulse.Mul(invMassB))
	}

	return true
}

// SolvePosition pushes the bodies apart by a fraction of the penetration beyond Slop,
// distributed by inverse mass
func (c *ContactConstraint) SolvePosition() {
	bodyA := c.BodyA
	bodyB := c.BodyB

	invMassA := bodyA.InverseMass()
	invMassB := bodyB.InverseMass()
	totalInvMass := invMassA + invMassB
	if totalInvMass <= 0 {
		return
	}

	depth := math.Max(c.Info.Penetration-Slop, 0)
	correction := c.Info.Normal.Mul(depth / totalInvMass * CorrectionPercent)

	if bodyA.IsDynamic() {
		bodyA.SetPosition(bodyA.Position().Add(correction.Mul(invMassA)))
	}
	if bodyB.IsDynamic() {
		bodyB.SetPosition(bodyB.Position().Sub(correction.Mul(invMassB)))
	}
}

func normalize(normal mgl64.Vec3) mgl64.Vec3 {
	length := normal.Len()
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return collide.FallbackNormal
	}

	return normal.Mul(1.0 / length)
}
