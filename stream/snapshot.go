// Package stream publishes World poses to external renderers over websockets.
package stream

import (
	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/actor"
)

// BodyState is the pose of one body as seen by a renderer
type BodyState struct {
	Id       string     `json:"id"`
	Name     string     `json:"name,omitempty"`
	Type     string     `json:"type"`
	Shape    string     `json:"shape"`
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
	Velocity [3]float64 `json:"velocity"`
	// World-space bounds of the collision shape
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
	// Column-major model matrix
	Model [16]float64 `json:"model"`
}

// Frame is one snapshot of the whole World
type Frame struct {
	Step   uint64      `json:"step"`
	Paused bool        `json:"paused"`
	Bodies []BodyState `json:"bodies"`
}

// Snapshot copies the current poses of w. It must run on the goroutine stepping w.
func Snapshot(w *impulse.World) Frame {
	frame := Frame{
		Step:   w.StepCount,
		Paused: w.Paused(),
		Bodies: make([]BodyState, 0, len(w.Bodies)),
	}
	for _, body := range w.Bodies {
		frame.Bodies = append(frame.Bodies, stateOf(body))
	}

	return frame
}

func stateOf(body *actor.RigidBody) BodyState {
	bounds := body.Shape.GetAABB()

	return BodyState{
		Id:       body.Id.String(),
		Name:     body.Name,
		Type:     body.BodyType.String(),
		Shape:    body.Shape.Kind.String(),
		Position: body.Position(),
		Rotation: body.Rotation(),
		Scale:    body.Scale(),
		Velocity: body.Velocity,
		Min:      bounds.Min,
		Max:      bounds.Max,
		Model:    body.Transform.ModelMatrix(),
	}
}
