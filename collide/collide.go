// Package collide implements the narrow phase: pure overlap tests between
// spheres and axis-aligned boxes.
//
// Every detector returns a CollisionInfo whose normal points from its second
// argument toward its first, so that moving the first shape along the normal
// by the penetration depth separates the pair.
//
// The mixed case is solved once (SphereBox); BoxSphere swaps the arguments and
// negates the normal.
package collide

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// FallbackNormal is reported when the two centers coincide and no direction
// can be derived from them.
var FallbackNormal = mgl64.Vec3{1, 0, 0}

// CollisionInfo is the transient result of a single detector call.
// Normal and Penetration are only meaningful when Collided is true.
type CollisionInfo struct {
	Collided    bool
	Normal      mgl64.Vec3
	Penetration float64
}

// Shapes dispatches to the detector matching both shape kinds
func Shapes(a, b actor.Shape) CollisionInfo {
	switch a.Kind {
	case actor.ShapeKindSphere:
		switch b.Kind {
		case actor.ShapeKindSphere:
			return SphereSphere(a.Sphere, b.Sphere)
		case actor.ShapeKindBox:
			return SphereBox(a.Sphere, b.Box)
		}
	case actor.ShapeKindBox:
		switch b.Kind {
		case actor.ShapeKindSphere:
			return BoxSphere(a.Box, b.Sphere)
		case actor.ShapeKindBox:
			return BoxBox(a.Box, b.Box)
		}
	}

	return CollisionInfo{}
}

// directionOrFallback normalizes d given its length, or returns FallbackNormal for a zero length
func directionOrFallback(d mgl64.Vec3, length float64) mgl64.Vec3 {
	if length > 0 {
		return d.Mul(1.0 / length)
	}

	return FallbackNormal
}
