package actor

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind represents the type of collision shape
type ShapeKind int

const (
	ShapeKindSphere ShapeKind = iota
	ShapeKindBox
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeKindSphere:
		return "sphere"
	case ShapeKindBox:
		return "box"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Sphere represents a spherical collision shape in world space
type Sphere struct {
	Position mgl64.Vec3
	Radius   float64
}

// Box represents an axis-aligned box in world space.
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	Position    mgl64.Vec3
	HalfExtents mgl64.Vec3
}

func (b Box) Min() mgl64.Vec3 {
	return b.Position.Sub(b.HalfExtents)
}

func (b Box) Max() mgl64.Vec3 {
	return b.Position.Add(b.HalfExtents)
}

func (b Box) AABB() AABB {
	return AABB{Min: b.Min(), Max: b.Max()}
}

// Shape is a closed union of the supported primitives.
// Kind selects which of Sphere or Box is meaningful; the other one is left zeroed.
type Shape struct {
	Kind   ShapeKind
	Sphere Sphere
	Box    Box
}

// NewSphereShape creates a sphere shape centered on position
func NewSphereShape(position mgl64.Vec3, radius float64) Shape {
	return Shape{
		Kind:   ShapeKindSphere,
		Sphere: Sphere{Position: position, Radius: radius},
	}
}

// NewBoxShape creates a box shape centered on position
func NewBoxShape(position mgl64.Vec3, halfExtents mgl64.Vec3) Shape {
	return Shape{
		Kind: ShapeKindBox,
		Box:  Box{Position: position, HalfExtents: halfExtents},
	}
}

// NewShapeFromScale derives a shape from a render scale:
// the sphere radius is scale.X, the box half-extents are scale/2.
func NewShapeFromScale(kind ShapeKind, position mgl64.Vec3, scale mgl64.Vec3) Shape {
	shape := Shape{Kind: kind}
	shape.SetPosition(position)
	shape.SetScale(scale)

	return shape
}

// Position returns the world-space center of the active variant
func (s *Shape) Position() mgl64.Vec3 {
	if s.Kind == ShapeKindBox {
		return s.Box.Position
	}

	return s.Sphere.Position
}

func (s *Shape) SetPosition(position mgl64.Vec3) {
	switch s.Kind {
	case ShapeKindSphere:
		s.Sphere.Position = position
	case ShapeKindBox:
		s.Box.Position = position
	}
}

// SetScale re-derives the size of the active variant only
func (s *Shape) SetScale(scale mgl64.Vec3) {
	switch s.Kind {
	case ShapeKindSphere:
		s.Sphere.Radius = scale.X()
	case ShapeKindBox:
		s.Box.HalfExtents = scale.Mul(0.5)
	}
}

// GetAABB returns the bounds of the shape, used for debugging and scene queries
func (s *Shape) GetAABB() AABB {
	switch s.Kind {
	case ShapeKindBox:
		return s.Box.AABB()
	default:
		radiusVec := mgl64.Vec3{s.Sphere.Radius, s.Sphere.Radius, s.Sphere.Radius}

		return AABB{
			Min: s.Sphere.Position.Sub(radiusVec),
			Max: s.Sphere.Position.Add(radiusVec),
		}
	}
}
