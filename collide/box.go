package collide

import (
	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// BoxBox tests two axis-aligned boxes.
//
// The separating axis is the one with the smallest overlap, ties resolved in
// x, y, z order. The normal is that axis oriented from b toward a; when both
// centers are equal on the axis it points in the positive direction.
func BoxBox(a, b actor.Box) CollisionInfo {
	aabbA := a.AABB()
	aabbB := b.AABB()

	if !aabbA.Overlaps(aabbB) {
		return CollisionInfo{}
	}

	overlap := aabbA.Overlap(aabbB)

	var axis int
	switch {
	case overlap.X() < overlap.Y() && overlap.X() < overlap.Z():
		axis = 0
	case overlap.Y() < overlap.Z():
		axis = 1
	default:
		axis = 2
	}

	var normal mgl64.Vec3
	if a.Position[axis] < b.Position[axis] {
		normal[axis] = -1
	} else {
		normal[axis] = 1
	}

	return CollisionInfo{
		Collided:    true,
		Normal:      normal,
		Penetration: overlap[axis],
	}
}
