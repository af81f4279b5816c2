package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bashhack/ssamgit/internal/channel"
	"github.com/bashhack/ssamgit/internal/errors"
	"github.com/bashhack/ssamgit/internal/logger"
)

// EnvelopeType marks application events, as opposed to dev-server internals
const EnvelopeType = "custom"

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 32
)

var (
	errConnClosed = errors.New("connection closed")
	errSendFull   = errors.New("send buffer full")
)

// Envelope is the frame exchanged with the browser:
//
//	{"type":"custom","event":"ssam:git","data":{...}}
type Envelope struct {
	Type  string          `json:"type"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Handler processes one inbound event. client is the connection it arrived on.
type Handler func(ctx context.Context, data json.RawMessage, client channel.Client)

// Hub tracks websocket connections and dispatches their events
type Hub struct {
	mu       sync.RWMutex
	conns    map[*Conn]struct{}
	handlers map[string]Handler
	held     [][]byte
	closed   bool

	upgrader websocket.Upgrader
	allowed  map[string]struct{}
	logger   logger.Logger

	inflight sync.WaitGroup
}

// NewHub creates a Hub. Browsers on localhost may always connect; extra
// origins must be listed exactly, e.g. "http://192.168.0.10:5173".
func NewHub(log logger.Logger, allowedOrigins []string) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	h := &Hub{
		conns:    make(map[*Conn]struct{}),
		handlers: make(map[string]Handler),
		allowed:  make(map[string]struct{}, len(allowedOrigins)),
		logger:   log,
	}
	for _, o := range allowedOrigins {
		h.allowed[o] = struct{}{}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// On registers handler for event, replacing any previous one
func (h *Hub) On(event string, handler Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[event] = handler
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event string, data any) {
	msg, err := encode(event, data)
	if err != nil {
		h.logger.Warning("Failed to encode %s: %v", event, err)
		return
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	h.logger.Info("Broadcasting %s to %d client(s)", event, len(conns))
	for _, c := range conns {
		if err := c.enqueue(msg); err != nil {
			h.logger.Warning("Failed to send %s to %s: %v", event, c.id, err)
		}
	}
}

// BroadcastHeld sends an event to every connected client. When none is
// connected the event is held and delivered to the next client that connects,
// then discarded.
func (h *Hub) BroadcastHeld(event string, data any) {
	msg, err := encode(event, data)
	if err != nil {
		h.logger.Warning("Failed to encode %s: %v", event, err)
		return
	}

	h.mu.Lock()
	if len(h.conns) == 0 {
		h.held = append(h.held, msg)
		h.mu.Unlock()
		h.logger.Info("Holding %s until a client connects", event)
		return
	}
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	h.logger.Info("Broadcasting %s to %d client(s)", event, len(conns))
	for _, c := range conns {
		if err := c.enqueue(msg); err != nil {
			h.logger.Warning("Failed to send %s to %s: %v", event, c.id, err)
		}
	}
}

// Holding returns a Broadcaster whose events wait for the first client when
// nobody is connected yet.
func (h *Hub) Holding() channel.Broadcaster {
	return holdingBroadcaster{h}
}

type holdingBroadcaster struct {
	hub *Hub
}

func (b holdingBroadcaster) Broadcast(event string, data any) {
	b.hub.BroadcastHeld(event, data)
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close disconnects every client. Events read afterwards are dropped and new
// connections are refused.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
	}
}

// Wait blocks until every running handler has returned
func (h *Hub) Wait() {
	h.inflight.Wait()
}

// ServeHTTP upgrades the request and serves the connection until it closes
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Warning("Websocket upgrade failed from %s: %v", r.RemoteAddr, err)
		return
	}

	c := newConn(h, ws)
	if !h.register(c) {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		_ = ws.Close()
		return
	}
	h.logger.Info("Client %s connected from %s", c.id, r.RemoteAddr)

	go c.writePump()
	c.readLoop(r.Context())

	h.unregister(c)
	h.logger.Info("Client %s disconnected", c.id)
}

// register adds c and hands it any held events. It fails once the hub is closed.
func (h *Hub) register(c *Conn) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.conns[c] = struct{}{}
	held := h.held
	h.held = nil
	h.mu.Unlock()

	for _, msg := range held {
		if err := c.enqueue(msg); err != nil {
			h.logger.Warning("Failed to deliver held event to %s: %v", c.id, err)
		}
	}
	return true
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
	c.close()
}

// dispatch runs the handler for env in its own goroutine so the read loop
// never waits on git. A panicking handler is logged and the server keeps going.
func (h *Hub) dispatch(ctx context.Context, c *Conn, env Envelope) {
	// Add must happen under the lock so that it is ordered before the Wait
	// that follows Close.
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		h.logger.Info("Dropping %s from %s: hub closed", env.Event, c.id)
		return
	}
	handler, ok := h.handlers[env.Event]
	if !ok {
		h.mu.RUnlock()
		h.logger.Info("No handler for %s from %s", env.Event, c.id)
		return
	}
	h.inflight.Add(1)
	h.mu.RUnlock()

	go func() {
		defer h.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("Handler for %s panicked: %v\n%s", env.Event, r, debug.Stack())
			}
		}()
		handler(ctx, env.Data, c)
	}()
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if _, ok := h.allowed[origin]; ok {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch host := u.Hostname(); host {
	case "localhost":
		return true
	default:
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	}
}

// Conn is one connected browser
type Conn struct {
	id   string
	hub  *Hub
	ws   *websocket.Conn
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once
}

func newConn(h *Hub, ws *websocket.Conn) *Conn {
	return &Conn{
		id:   uuid.NewString(),
		hub:  h,
		ws:   ws,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

// ID returns the connection id used in logs
func (c *Conn) ID() string {
	return c.id
}

// Send queues an event for this client. It never blocks.
func (c *Conn) Send(event string, data any) error {
	msg, err := encode(event, data)
	if err != nil {
		return err
	}
	return c.enqueue(msg)
}

func (c *Conn) enqueue(msg []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return errConnClosed
	default:
		return errSendFull
	}
}

func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Conn) readLoop(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.logger.Warning("Read from %s failed: %v", c.id, err)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			c.hub.logger.Warning("Dropping malformed frame from %s: %v", c.id, err)
			continue
		}
		if env.Type != EnvelopeType {
			continue
		}
		c.hub.dispatch(ctx, c, env)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.logger.Warning("Write to %s failed: %v", c.id, err)
				c.close()
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}
		case <-c.done:
			c.drain()
			_ = c.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}

// drain flushes messages queued before the connection was closed
func (c *Conn) drain() {
	for {
		select {
		case msg := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event, err)
	}
	return json.Marshal(Envelope{Type: EnvelopeType, Event: event, Data: raw})
}
