// Package stream broadcasts simulation frames to websocket viewers and
// feeds their control messages back into the engine.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/olivierh59500/particle-life/internal/life"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum control message size allowed from peer.
	maxMessageSize = 512

	// Frames buffered per client before new ones are dropped.
	sendBuffer = 4
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected viewers and fans frames out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64

	controller Controller
	upgrader   websocket.Upgrader
	log        life.Logger
}

// NewHub returns a hub routing control messages to c. Call Run before
// serving connections.
func NewHub(c Controller, log life.Logger) *Hub {
	if log == nil {
		log = life.NopLogger{}
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		controller: c,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run handles registration and broadcasting until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.count.Store(0)
			return

		case c := <-h.register:
			h.clients[c] = true
			h.count.Add(1)

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.count.Add(-1)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow viewer: skip this frame rather than stall the others.
				}
			}
		}
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Broadcast queues msg for every viewer. It never blocks; it reports
// false when the previous message has not been fanned out yet.
func (h *Hub) Broadcast(msg []byte) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		return false
	}
}

// BroadcastFrame encodes f as JSON and queues it.
func (h *Hub) BroadcastFrame(f life.Frame) (bool, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return false, err
	}
	return h.Broadcast(data), nil
}

// ServeHTTP upgrades the request to a websocket and attaches a client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	h.log.Infof("viewer connected from %s", r.RemoteAddr)

	go c.writePump()
	go c.readPump()
}

// readPump applies control messages from the viewer until the connection
// fails.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warnf("viewer read error: %v", err)
			}
			return
		}

		var msg Control
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.log.Warnf("malformed control message: %v", err)
			continue
		}
		if err := Apply(c.hub.controller, msg); err != nil {
			c.hub.log.Warnf("control %q rejected: %v", msg.Type, err)
		}
	}
}

// writePump is the only writer on the connection.
func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.hub.log.Warnf("viewer write error, closing connection: %v", err)
			// Closing unblocks readPump, which unregisters and lets the
			// hub close send.
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
