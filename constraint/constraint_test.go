package constraint

import (
	"testing"

	"github.com/akmonengine/impulse/actor"
	"github.com/akmonengine/impulse/collide"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestRelativeNormalVelocity(t *testing.T) {
	up := mgl64.Vec3{0, 1, 0}

	tests := []struct {
		name         string
		typeA, typeB actor.BodyType
		want         float64
	}{
		{"both dynamic", actor.BodyTypeDynamic, actor.BodyTypeDynamic, -3 - 4},
		{"a immovable ignores a", actor.BodyTypeStatic, actor.BodyTypeDynamic, -4},
		{"b immovable ignores b", actor.BodyTypeDynamic, actor.BodyTypeKinematic, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := createSphere(mgl64.Vec3{}, 1, 1, tt.typeA)
			b := createSphere(mgl64.Vec3{}, 1, 1, tt.typeB)
			a.Velocity = mgl64.Vec3{7, -3, 0}
			b.Velocity = mgl64.Vec3{0, 4, -2}

			assert.InDelta(t, tt.want, relativeNormalVelocity(a, b, up), epsilon)
		})
	}
}

type recordingConstraint struct {
	active bool
	calls  []string
}

func (r *recordingConstraint) SolveVelocity() bool {
	r.calls = append(r.calls, "velocity")
	return r.active
}

func (r *recordingConstraint) SolvePosition() {
	r.calls = append(r.calls, "position")
}

func TestSolve_PhaseOrder(t *testing.T) {
	active := &recordingConstraint{active: true}
	solve(active)
	assert.Equal(t, []string{"velocity", "position"}, active.calls)

	inactive := &recordingConstraint{active: false}
	solve(inactive)
	assert.Equal(t, []string{"velocity"}, inactive.calls)
}

func TestSolve_ContactConstraint(t *testing.T) {
	a := createSphere(mgl64.Vec3{0, 0.4, 0}, 0.5, 1, actor.BodyTypeDynamic)
	b := createSphere(mgl64.Vec3{0, -0.4, 0}, 0.5, 1, actor.BodyTypeStatic)
	a.Velocity = mgl64.Vec3{0, -1, 0}

	solve(&ContactConstraint{BodyA: a, BodyB: b, Info: collide.SphereSphere(a.Shape.Sphere, b.Shape.Sphere)})

	assertVec3InDelta(t, mgl64.Vec3{0, 1, 0}, a.Velocity)
	// penetration 0.2: (0.2 - Slop) * CorrectionPercent
	assertVec3InDelta(t, mgl64.Vec3{0, 0.438, 0}, a.Position())
}
