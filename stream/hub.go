package stream

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/akmonengine/impulse"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	DefaultPingInterval = 2 * time.Second
	DefaultWriteTimeout = time.Second
	// Frames queued per client before new ones are dropped
	DefaultSendBuffer = 8
	// Commands queued before new ones are dropped
	DefaultCommandBuffer = 64
)

var ErrHubClosed = errors.New("hub closed")

const (
	CommandPause = "pause"
	CommandMove  = "move"
)

// Command is an input message sent by a client
type Command struct {
	Client uuid.UUID `json:"-"`
	Type   string    `json:"type"`
	// Horizontal input for CommandMove, -1 (left) to 1 (right)
	Axis float64 `json:"axis,omitempty"`
}

type client struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan Frame
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// Hub fans frames out to every connected websocket client.
// Broadcast never blocks: a client that is not keeping up loses frames.
type Hub struct {
	upgrader     websocket.Upgrader
	logger       impulse.Logger
	PingInterval time.Duration
	WriteTimeout time.Duration

	mu       sync.RWMutex
	clients  map[uuid.UUID]*client
	closed   bool
	commands chan Command
	wg       sync.WaitGroup
}

func NewHub(logger impulse.Logger) *Hub {
	if logger == nil {
		logger = impulse.NewNopLogger()
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:       logger,
		PingInterval: DefaultPingInterval,
		WriteTimeout: DefaultWriteTimeout,
		clients:      make(map[uuid.UUID]*client),
		commands:     make(chan Command, DefaultCommandBuffer),
	}
}

// Commands returns the client inputs, to be drained by the simulation goroutine
func (h *Hub) Commands() <-chan Command {
	return h.commands
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and serves the client until it disconnects
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("websocket upgrade: %v", err)
		return
	}

	c := &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan Frame, DefaultSendBuffer),
		done: make(chan struct{}),
	}
	if err := h.register(c); err != nil {
		conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, err.Error()), time.Now().Add(h.WriteTimeout))
		conn.Close()
		return
	}
	defer h.unregister(c)

	h.logger.Infof("client %s connected from %s", c.id, conn.RemoteAddr())

	go h.writeLoop(c)

	h.readLoop(c)

	h.logger.Infof("client %s disconnected", c.id)
}

// register adds c and accounts for its writeLoop, so Close waits for it
func (h *Hub) register(c *client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	h.clients[c.id] = c
	h.wg.Add(1)
	return nil
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readLoop(c *client) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				h.logger.Warnf("client %s: %v", c.id, err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			h.logger.Warnf("client %s: parse command: %v", c.id, err)
			continue
		}
		cmd.Client = c.id

		select {
		case h.commands <- cmd:
		default:
			h.logger.Warnf("client %s: command %q dropped", c.id, cmd.Type)
		}
	}
}

// writeLoop is the only writer of c.conn
func (h *Hub) writeLoop(c *client) {
	defer h.wg.Done()
	defer c.close()

	var ping <-chan time.Time
	if h.PingInterval > 0 {
		ticker := time.NewTicker(h.PingInterval)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case <-c.done:
			return
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(h.WriteTimeout))
			if err := c.conn.WriteJSON(frame); err != nil {
				h.logger.Warnf("client %s: write frame: %v", c.id, err)
				return
			}
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.WriteTimeout)); err != nil {
				h.logger.Warnf("client %s: ping: %v", c.id, err)
				return
			}
		}
	}
}

// Broadcast queues frame for every client and returns how many clients dropped it
func (h *Hub) Broadcast(frame Frame) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, c := range h.clients {
		select {
		case c.send <- frame:
		default:
			dropped++
		}
	}
	if dropped > 0 && h.logger.DebugEnabled() {
		h.logger.Debugf("step %d: frame dropped by %d clients", frame.Step, dropped)
	}

	return dropped
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHubClosed
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), time.Now().Add(h.WriteTimeout))
		c.close()
	}
	h.wg.Wait()

	return nil
}
