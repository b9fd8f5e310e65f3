package ws

import (
	"net/http"
	"soulsprint/internal/logger"
	"soulsprint/internal/service"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades authenticated requests into hub subscriptions
type Handler struct {
	hub     *Hub
	authSvc *service.AuthService
	log     *logger.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, log *logger.Logger) *Handler {
	return &Handler{
		hub:     hub,
		authSvc: authSvc,
		log:     log,
	}
}

// SessionWS handles GET /v1/ws/sessions/{sessionId}?token=
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	claims, err := h.authSvc.ValidateSessionToken(r.URL.Query().Get("token"))
	switch {
	case err != nil:
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	case claims.SessionID != sessionID:
		http.Error(w, "token not valid for this session", http.StatusForbidden)
		return
	}
	h.serve(w, r, &Connection{SessionID: sessionID})
}

// StaffWS handles GET /v1/ws/staff?token=
func (h *Handler) StaffWS(w http.ResponseWriter, r *http.Request) {
	claims, err := h.authSvc.ValidateStaffToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	h.serve(w, r, &Connection{StaffID: claims.StaffID, IsStaff: true})
}

// serve upgrades the request and pumps hub messages to the socket until either side goes away
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, conn *Connection) {
	socket, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.Send = make(chan []byte, sendBuffer)
	conn.Hub = h.hub
	h.hub.Register(conn)

	go h.push(socket, conn)
	go h.drain(socket, conn)
}

// drain discards client frames and keeps the read deadline alive on pongs.
// Any read error ends the subscription.
func (h *Handler) drain(socket *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		socket.Close()
	}()

	socket.SetReadLimit(maxMessageSize)
	socket.SetReadDeadline(time.Now().Add(pongWait))
	socket.SetPongHandler(func(string) error {
		return socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := socket.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read error", "error", err)
			}
			return
		}
	}
}

// push writes queued events and periodic pings. A closed Send channel means
// the hub dropped the connection, so a close frame is sent.
func (h *Handler) push(socket *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		socket.Close()
	}()

	write := func(messageType int, data []byte) error {
		socket.SetWriteDeadline(time.Now().Add(writeWait))
		return socket.WriteMessage(messageType, data)
	}

	for {
		var err error
		select {
		case data, ok := <-conn.Send:
			if !ok {
				write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			err = write(websocket.TextMessage, data)
		case <-ticker.C:
			err = write(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}
