package stream

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorld() *impulse.World {
	w := impulse.NewWorld(impulse.DefaultConfig())
	w.Logger = impulse.NewNopLogger()

	floor := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, -0.5, 0}, Scale: mgl64.Vec3{10, 1, 10}},
		actor.ShapeKindBox, 0, actor.BodyTypeStatic,
	)
	floor.Name = "floor"
	ball := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{1, 2, 3}, Scale: mgl64.Vec3{0.5, 0.5, 0.5}},
		actor.ShapeKindSphere, 1, actor.BodyTypeDynamic,
	)
	ball.Name = "ball"
	w.AddBody(floor)
	w.AddBody(ball)

	return w
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSnapshot(t *testing.T) {
	w := newTestWorld()
	w.Step(1.0 / 60.0)

	frame := Snapshot(w)

	assert.Equal(t, uint64(1), frame.Step)
	assert.False(t, frame.Paused)
	require.Len(t, frame.Bodies, 2)

	ball := frame.Bodies[1]
	assert.Equal(t, "ball", ball.Name)
	assert.Equal(t, "dynamic", ball.Type)
	assert.Equal(t, "sphere", ball.Shape)
	assert.Equal(t, w.Bodies[1].Id.String(), ball.Id)
	assert.Equal(t, [3]float64(w.Bodies[1].Position()), ball.Position)
	assert.Less(t, ball.Velocity[1], 0.0)
	// translation lives in the last column
	assert.Equal(t, ball.Position[0], ball.Model[12])
	assert.Equal(t, ball.Position[1], ball.Model[13])
	assert.Equal(t, ball.Position[2], ball.Model[14])

	floor := frame.Bodies[0]
	assert.Equal(t, "static", floor.Type)
	assert.Equal(t, "box", floor.Shape)
	assert.Equal(t, [3]float64{10, 1, 10}, floor.Scale)
	assert.Equal(t, [3]float64{-5, -1, -5}, floor.Min)
	assert.Equal(t, [3]float64{5, 0, 5}, floor.Max)
}

func TestSnapshot_IsACopy(t *testing.T) {
	w := newTestWorld()
	frame := Snapshot(w)

	w.Bodies[1].SetPositionXYZ(9, 9, 9)

	assert.Equal(t, [3]float64{1, 2, 3}, frame.Bodies[1].Position)
}

func TestHub_BroadcastAndCommands(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	w := newTestWorld()
	assert.Equal(t, 0, hub.Broadcast(Snapshot(w)))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Frame
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, Snapshot(w), got)

	require.NoError(t, conn.WriteJSON(Command{Type: CommandMove, Axis: -1}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(Command{Type: CommandPause}))

	for _, want := range []Command{{Type: CommandMove, Axis: -1}, {Type: CommandPause}} {
		select {
		case cmd := <-hub.Commands():
			assert.Equal(t, want.Type, cmd.Type)
			assert.Equal(t, want.Axis, cmd.Axis)
			assert.NotZero(t, cmd.Client)
		case <-time.After(2 * time.Second):
			t.Fatalf("command %q not received", want.Type)
		}
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Close())
	assert.ErrorIs(t, hub.Close(), ErrHubClosed)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	// new clients are turned away
	late := dial(t, server)
	late.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = late.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.Clients())
}

func TestHub_CloseWhileClientsConnect(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub)
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, _, err := websocket.DefaultDialer.Dial(url, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			conn.ReadMessage()
		}()
	}

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, hub.Close())
	wg.Wait()

	assert.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestHub_RegisterAfterClose(t *testing.T) {
	hub := NewHub(nil)
	require.NoError(t, hub.Close())

	err := hub.register(&client{done: make(chan struct{})})

	assert.ErrorIs(t, err, ErrHubClosed)
	assert.Equal(t, 0, hub.Clients())
	// nothing was added to the writer count
	hub.wg.Wait()
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(impulse.NewNopLogger())

	assert.Equal(t, 0, hub.Broadcast(Frame{}))
	assert.Equal(t, 0, hub.Clients())
}
