package impulse

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collide"
	"github.com/akmonengine/impulse/constraint"
)

// Pair is an unordered pair of bodies tested during a step
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// CheckCollisions tests two bodies. Bodies with CanCollide disabled never collide.
// The returned normal points from bodyB toward bodyA.
func CheckCollisions(bodyA, bodyB *actor.RigidBody) collide.CollisionInfo {
	if !bodyA.CanCollide || !bodyB.CanCollide {
		return collide.CollisionInfo{}
	}

	return collide.Shapes(bodyA.Shape, bodyB.Shape)
}

// ResolveCollision applies the impulse and positional correction of info to both bodies
func ResolveCollision(bodyA, bodyB *actor.RigidBody, info collide.CollisionInfo) {
	constraint.Resolve(bodyA, bodyB, info)
}

// Pairs lists every unordered pair of bodies, in body order.
// This is an O(n²) brute-force approach suitable for small numbers of bodies
func Pairs(bodies []*actor.RigidBody) []Pair {
	pairs := make([]Pair, 0, len(bodies)*(len(bodies)-1)/2)
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			pairs = append(pairs, Pair{BodyA: bodies[i], BodyB: bodies[j]})
		}
	}

	return pairs
}
