package service

// Event types pushed to session subscribers
const (
	EventAssessmentComplete = "assessment_complete"
	EventSignalUpdate       = "signal_update"
	EventEscalation         = "escalation"
	EventSessionReset       = "session_reset"
	EventTaskCompleted      = "task_completed"
)

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToSession(sessionID string, msgType string, payload interface{})
	BroadcastToStaff(msgType string, payload interface{})
	DisconnectSession(sessionID string)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToSession(string, string, interface{}) {}
func (nopBroadcaster) BroadcastToStaff(string, interface{}) {}
func (nopBroadcaster) DisconnectSession(string) {}
