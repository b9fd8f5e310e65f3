package ws

import (
	"encoding/json"
	"soulsprint/internal/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data, ok := <-conn.Send:
		require.True(t, ok, "channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message")
	}
	return Message{}
}

func TestHubRoutesBySession(t *testing.T) {
	hub := NewHub(logger.NewNop())
	a := &Connection{SessionID: "a", Send: make(chan []byte, 4), Hub: hub}
	b := &Connection{SessionID: "b", Send: make(chan []byte, 4), Hub: hub}
	staff := &Connection{StaffID: "s", IsStaff: true, Send: make(chan []byte, 4), Hub: hub}
	hub.Register(a)
	hub.Register(b)
	hub.Register(staff)

	hub.BroadcastToSession("a", "signal_update", map[string]string{"level": "low"})
	msg := receive(t, a)
	assert.Equal(t, MessageType("signal_update"), msg.Type)
	assert.JSONEq(t, `{"level":"low"}`, string(msg.Payload))

	hub.BroadcastToStaff("escalation", map[string]string{"sessionId": "a"})
	assert.Equal(t, MessageType("escalation"), receive(t, staff).Type)

	assert.Empty(t, b.Send)
	assert.Equal(t, 1, hub.Subscribers("a"))
}

func TestHubDisconnectSessionClosesSockets(t *testing.T) {
	hub := NewHub(logger.NewNop())
	a1 := &Connection{SessionID: "a", Send: make(chan []byte, 1), Hub: hub}
	a2 := &Connection{SessionID: "a", Send: make(chan []byte, 1), Hub: hub}
	hub.Register(a1)
	hub.Register(a2)

	hub.DisconnectSession("a")

	for _, c := range []*Connection{a1, a2} {
		select {
		case _, ok := <-c.Send:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("socket not closed")
		}
	}
	assert.Equal(t, 0, hub.Subscribers("a"))

	// unregistering an already removed socket is a no-op
	hub.Unregister(a1)
}
