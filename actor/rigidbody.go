package actor

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// BodyType represents the motion behavior of a rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeKinematic bodies are moved by external code (input, scripts) between steps.
	// They collide with dynamic bodies but are never moved by the solver nor integrated
	BodyTypeKinematic

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

func (t BodyType) String() string {
	switch t {
	case BodyTypeDynamic:
		return "dynamic"
	case BodyTypeKinematic:
		return "kinematic"
	case BodyTypeStatic:
		return "static"
	default:
		return "unknown"
	}
}

// IntegrationMode selects how velocity is turned into displacement
type IntegrationMode int

const (
	// IntegrationTimeScaled advances position by velocity*dt
	IntegrationTimeScaled IntegrationMode = iota

	// IntegrationFrameDisplacement advances position by the raw velocity once per step,
	// so motion speed depends on the frame rate. Velocity itself still accumulates acceleration*dt.
	IntegrationFrameDisplacement
)

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	Id   uuid.UUID
	Name string

	// Spatial properties
	Transform Transform

	// Linear motion
	Velocity mgl64.Vec3 // Linear velocity

	// reset to zero on every integration
	accumulatedAcceleration mgl64.Vec3

	Mass     float64
	BodyType BodyType

	// Collision shape, kept in sync with Transform
	Shape      Shape
	CanCollide bool
}

// NewRigidBody creates a new rigid body with the given properties.
// The collision shape is derived from the transform position and scale.
func NewRigidBody(transform Transform, kind ShapeKind, mass float64, bodyType BodyType) *RigidBody {
	rb := &RigidBody{
		Id:         uuid.New(),
		Transform:  transform,
		Velocity:   mgl64.Vec3{0, 0, 0},
		Mass:       mass,
		BodyType:   bodyType,
		CanCollide: true,
	}
	rb.Shape = NewShapeFromScale(kind, transform.Position, transform.Scale)

	return rb
}

func (rb *RigidBody) IsDynamic() bool {
	return rb.BodyType == BodyTypeDynamic
}

// InverseMass returns 1/mass for dynamic bodies.
// Kinematic and static bodies behave as infinite mass whatever their stored mass.
func (rb *RigidBody) InverseMass() float64 {
	if rb.BodyType != BodyTypeDynamic || rb.Mass <= 0 {
		return 0
	}

	return 1.0 / rb.Mass
}

// AddForce accumulates force/mass; ignored unless the body is dynamic
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType != BodyTypeDynamic || rb.Mass <= 0 {
		return
	}

	rb.accumulatedAcceleration = rb.accumulatedAcceleration.Add(force.Mul(1.0 / rb.Mass))
}

// Acceleration returns the acceleration accumulated since the last integration
func (rb *RigidBody) Acceleration() mgl64.Vec3 {
	return rb.accumulatedAcceleration
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedAcceleration = mgl64.Vec3{0, 0, 0}
}

// Integrate advances a dynamic body by one step; other body types are left untouched.
func (rb *RigidBody) Integrate(dt float64, mode IntegrationMode) {
	if rb.BodyType != BodyTypeDynamic {
		return
	}

	rb.Velocity = rb.Velocity.Add(rb.accumulatedAcceleration.Mul(dt))

	displacement := rb.Velocity
	if mode == IntegrationTimeScaled {
		displacement = rb.Velocity.Mul(dt)
	}
	rb.SetPosition(rb.Transform.Position.Add(displacement))

	rb.ClearForces()
}

func (rb *RigidBody) Position() mgl64.Vec3 {
	return rb.Transform.Position
}

// SetPosition moves the body and its shape. Static bodies never move.
func (rb *RigidBody) SetPosition(position mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.Transform.Position = position
	rb.Shape.SetPosition(position)
}

func (rb *RigidBody) SetPositionXYZ(x, y, z float64) {
	rb.SetPosition(mgl64.Vec3{x, y, z})
}

// Teleport moves the body and drops its momentum, used to recycle bodies
// that left the playable area.
func (rb *RigidBody) Teleport(position mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}

	rb.SetPosition(position)
	rb.Velocity = mgl64.Vec3{0, 0, 0}
	rb.ClearForces()
}

func (rb *RigidBody) Rotation() mgl64.Vec3 {
	return rb.Transform.Rotation
}

func (rb *RigidBody) SetRotation(rotation mgl64.Vec3) {
	rb.Transform.Rotation = rotation
}

func (rb *RigidBody) SetRotationXYZ(x, y, z float64) {
	rb.SetRotation(mgl64.Vec3{x, y, z})
}

func (rb *RigidBody) Scale() mgl64.Vec3 {
	return rb.Transform.Scale
}

// SetScale updates the render scale and re-derives the shape size
func (rb *RigidBody) SetScale(scale mgl64.Vec3) {
	rb.Transform.Scale = scale
	rb.Shape.SetScale(scale)
}

func (rb *RigidBody) SetScaleXYZ(x, y, z float64) {
	rb.SetScale(mgl64.Vec3{x, y, z})
}
