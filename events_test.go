package impulse

import (
	"testing"

	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) types() []EventType {
	types := make([]EventType, 0, len(ec.events))
	for _, e := range ec.events {
		types = append(types, e.Type())
	}
	return types
}

func subscribeAll(w *World) *eventCapture {
	ec := &eventCapture{}
	w.Events.Subscribe(COLLISION_ENTER, ec.capture)
	w.Events.Subscribe(COLLISION_STAY, ec.capture)
	w.Events.Subscribe(COLLISION_EXIT, ec.capture)
	return ec
}

func TestMakePairKey_IsOrderIndependent(t *testing.T) {
	a := newSphere("a", mgl64.Vec3{}, 1, 1, actor.BodyTypeDynamic)
	b := newSphere("b", mgl64.Vec3{}, 1, 1, actor.BodyTypeDynamic)

	assert.Equal(t, makePairKey(a, b), makePairKey(b, a))
}

func TestEvents_EnterStayExit(t *testing.T) {
	mover := newSphere("mover", mgl64.Vec3{0, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	post := newSphere("post", mgl64.Vec3{1.5, 0, 0}, 1, 1, actor.BodyTypeStatic)
	w := newTestWorld(mover, post)
	ec := subscribeAll(w)

	w.Step(dt)
	require.Equal(t, []EventType{COLLISION_ENTER}, ec.types())
	enter := ec.events[0].(CollisionEnterEvent)
	assert.ElementsMatch(t, []*actor.RigidBody{mover, post}, []*actor.RigidBody{enter.BodyA, enter.BodyB})

	ec.reset()
	w.Step(dt)
	assert.Equal(t, []EventType{COLLISION_STAY}, ec.types())

	ec.reset()
	mover.SetPositionXYZ(-5, 0, 0)
	w.Step(dt)
	assert.Equal(t, []EventType{COLLISION_EXIT}, ec.types())

	ec.reset()
	w.Step(dt)
	assert.Empty(t, ec.events)
}

func TestEvents_DisabledCollisionEmitsNothing(t *testing.T) {
	a := newSphere("a", mgl64.Vec3{0, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	b := newSphere("b", mgl64.Vec3{1, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	b.CanCollide = false
	w := newTestWorld(a, b)
	ec := subscribeAll(w)

	w.Step(dt)

	assert.Empty(t, ec.events)
}

func TestEvents_RemovedBodyDoesNotExit(t *testing.T) {
	a := newSphere("a", mgl64.Vec3{0, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	b := newSphere("b", mgl64.Vec3{1, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	w := newTestWorld(a, b)
	ec := subscribeAll(w)

	w.Step(dt)
	require.Len(t, ec.events, 1)

	ec.reset()
	w.RemoveBody(b)
	w.Step(dt)

	assert.Empty(t, ec.events)
}

func TestEvents_PausedWorldKeepsPairs(t *testing.T) {
	a := newSphere("a", mgl64.Vec3{0, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	b := newSphere("b", mgl64.Vec3{1, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	w := newTestWorld(a, b)
	ec := subscribeAll(w)

	w.Step(dt)
	w.SetPaused(true)
	w.Step(dt)
	w.SetPaused(false)
	ec.reset()
	w.Step(dt)

	assert.Equal(t, []EventType{COLLISION_STAY}, ec.types())
}

func TestEvents_MultipleListeners(t *testing.T) {
	a := newSphere("a", mgl64.Vec3{0, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	b := newSphere("b", mgl64.Vec3{1, 0, 0}, 1, 1, actor.BodyTypeKinematic)
	w := newTestWorld(a, b)

	calls := 0
	w.Events.Subscribe(COLLISION_ENTER, func(Event) { calls++ })
	w.Events.Subscribe(COLLISION_ENTER, func(Event) { calls++ })
	w.Events.Subscribe(COLLISION_EXIT, func(Event) { t.Fatal("unexpected exit") })

	w.Step(dt)

	assert.Equal(t, 2, calls)
}
