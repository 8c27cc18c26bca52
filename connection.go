package main

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Conn manages a single WebSocket session
type Conn struct {
	id     string
	ws     *websocket.Conn
	codec  Codec
	mu     sync.Mutex // protects room, closed and ws writes
	room   *Room
	closed bool
}

// NewConn creates a new connection wrapper that encodes with codec
func NewConn(ws *websocket.Conn, codec Codec) *Conn {
	return &Conn{
		id:    uuid.New().String(),
		ws:    ws,
		codec: codec,
	}
}

// ID returns the connection-scoped player id
func (c *Conn) ID() string {
	return c.id
}

// Send encodes msg with the connection's codec and writes it to the WebSocket
func (c *Conn) Send(msg any) error {
	data, err := c.codec.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(c.codec.FrameType(), data)
}

// Room returns the room this connection is bound to, or nil
func (c *Conn) Room() *Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.room
}

// Bind records the room this connection now belongs to
func (c *Conn) Bind(r *Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.room = r
}

// Evict clears the room binding if it still points at r
func (c *Conn) Evict(r *Room) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room == r {
		c.room = nil
	}
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID()] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// CloseAll closes every connection; used on shutdown
func (m *ConnManager) CloseAll() {
	m.mu.RLock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	m.mu.RUnlock()
	for _, c := range list {
		c.Close()
	}
}

// ReadLoop decodes inbound frames until the client disconnects and hands
// each message to the gateway. Text frames are JSON, binary frames msgpack.
func (c *Conn) ReadLoop(gw *Gateway, onDisconnect func(conn *Conn)) {
	defer func() {
		gw.Disconnect(c)
		onDisconnect(c)
		c.Close()
	}()

	for {
		frameType, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.id, err)
			}
			return
		}

		var msg ClientMessage
		if err := codecForFrame(frameType).Unmarshal(raw, &msg); err != nil {
			log.Printf("bad message from %s: %v", c.id, err)
			continue
		}
		gw.Handle(c, msg)
	}
}
