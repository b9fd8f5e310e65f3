package ws

import (
	"encoding/json"
	"soulsprint/internal/logger"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans engine events out to the sockets watching each session and to staff
type Hub struct {
	sessionConns map[string]map[*Connection]struct{}
	staffConns   map[*Connection]struct{}

	mu  sync.RWMutex
	log *logger.Logger

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
	disconnect chan string
}

// Connection represents a WebSocket connection
type Connection struct {
	SessionID string // Empty for staff connections
	StaffID   string
	IsStaff   bool
	Send      chan []byte
	Hub       *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	SessionID string
	ToStaff   bool
	Message   *Message
}

// NewHub creates a new WebSocket hub
func NewHub(log *logger.Logger) *Hub {
	h := &Hub{
		sessionConns: make(map[string]map[*Connection]struct{}),
		staffConns:   make(map[*Connection]struct{}),
		log:          log,
		register:     make(chan *Connection),
		unregister:   make(chan *Connection),
		broadcast:    make(chan *BroadcastMessage, 256),
		disconnect:   make(chan string, 16),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.IsStaff {
				h.staffConns[conn] = struct{}{}
				h.log.Info("staff connected", "staff_id", conn.StaffID)
			} else {
				if h.sessionConns[conn.SessionID] == nil {
					h.sessionConns[conn.SessionID] = make(map[*Connection]struct{})
				}
				h.sessionConns[conn.SessionID][conn] = struct{}{}
				h.log.Info("session subscriber connected", "session_id", conn.SessionID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			h.remove(conn)
			h.mu.Unlock()

		case sessionID := <-h.disconnect:
			h.mu.Lock()
			for conn := range h.sessionConns[sessionID] {
				h.remove(conn)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			targets := h.sessionConns[msg.SessionID]
			if msg.ToStaff {
				targets = h.staffConns
			}
			for conn := range targets {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// remove closes conn if it is still registered; callers hold h.mu
func (h *Hub) remove(conn *Connection) {
	if conn.IsStaff {
		if _, ok := h.staffConns[conn]; ok {
			delete(h.staffConns, conn)
			close(conn.Send)
			h.log.Info("staff disconnected", "staff_id", conn.StaffID)
		}
		return
	}
	conns, ok := h.sessionConns[conn.SessionID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		delete(conns, conn)
		close(conn.Send)
		h.log.Info("session subscriber disconnected", "session_id", conn.SessionID)
	}
	if len(conns) == 0 {
		delete(h.sessionConns, conn.SessionID)
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Subscribers reports how many sockets watch a session
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessionConns[sessionID])
}

// StaffSubscribers reports how many staff sockets are connected
func (h *Hub) StaffSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.staffConns)
}

// BroadcastToSession sends a message to every socket on a session (implements service.Broadcaster)
func (h *Hub) BroadcastToSession(sessionID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		SessionID: sessionID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToStaff sends a message to every connected staff socket (implements service.Broadcaster)
func (h *Hub) BroadcastToStaff(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		ToStaff: true,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// DisconnectSession closes every socket on a session (implements service.Broadcaster)
func (h *Hub) DisconnectSession(sessionID string) {
	h.disconnect <- sessionID
}
