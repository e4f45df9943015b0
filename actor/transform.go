package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents the pose of a body in 3D space.
// Rotation holds Euler angles in radians; it is only consumed by rendering.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.Vec3{0, 0, 0},
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// ModelMatrix builds the draw transform: translation, then scale, then rotations around X, Y and Z.
func (t Transform) ModelMatrix() mgl64.Mat4 {
	model := mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	model = model.Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
	model = model.Mul4(mgl64.HomogRotate3DX(t.Rotation.X()))
	model = model.Mul4(mgl64.HomogRotate3DY(t.Rotation.Y()))
	model = model.Mul4(mgl64.HomogRotate3DZ(t.Rotation.Z()))

	return model
}
