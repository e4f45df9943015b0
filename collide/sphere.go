package collide

import (
	"github.com/akmonengine/impulse/actor"
)

// SphereSphere tests two spheres; the normal points from b toward a.
func SphereSphere(a, b actor.Sphere) CollisionInfo {
	d := a.Position.Sub(b.Position)
	dist := d.Len()
	r := a.Radius + b.Radius

	if dist >= r {
		return CollisionInfo{}
	}

	return CollisionInfo{
		Collided:    true,
		Normal:      directionOrFallback(d, dist),
		Penetration: r - dist,
	}
}

// SphereBox tests a sphere against an axis-aligned box using the point of the
// box closest to the sphere center. The normal points from the box toward the sphere.
func SphereBox(s actor.Sphere, b actor.Box) CollisionInfo {
	closest := b.AABB().ClosestPoint(s.Position)
	d := s.Position.Sub(closest)
	dist := d.Len()

	if dist >= s.Radius {
		return CollisionInfo{}
	}

	return CollisionInfo{
		Collided:    true,
		Normal:      directionOrFallback(d, dist),
		Penetration: s.Radius - dist,
	}
}

// BoxSphere is SphereBox with its arguments swapped; the normal points from the sphere toward the box.
func BoxSphere(b actor.Box, s actor.Sphere) CollisionInfo {
	info := SphereBox(s, b)
	if info.Collided {
		info.Normal = info.Normal.Mul(-1)
	}

	return info
}
