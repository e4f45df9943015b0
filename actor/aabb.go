package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes, touching faces included
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// ClosestPoint clamps point into the box, componentwise
func (a AABB) ClosestPoint(point mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Max(a.Min.X(), math.Min(point.X(), a.Max.X())),
		math.Max(a.Min.Y(), math.Min(point.Y(), a.Max.Y())),
		math.Max(a.Min.Z(), math.Min(point.Z(), a.Max.Z())),
	}
}

// Overlap returns the per-axis overlap depth of two AABBs.
// Components are negative on axes where the boxes are separated.
func (a AABB) Overlap(other AABB) mgl64.Vec3 {
	var overlap mgl64.Vec3
	for i := 0; i < 3; i++ {
		overlap[i] = math.Min(a.Max[i], other.Max[i]) - math.Max(a.Min[i], other.Min[i])
	}

	return overlap
}
