package model

import "time"

type SessionStatus string

const (
	SessionNotStarted           SessionStatus = "not_started"
	SessionAssessmentInProgress SessionStatus = "assessment_in_progress"
	SessionAssessed             SessionStatus = "assessed"
	SessionChatting             SessionStatus = "chatting"
)

// SessionState is everything the engine knows about one user session
type SessionState struct {
	ID          string          `json:"id" bson:"_id"`
	Status      SessionStatus   `json:"status" bson:"status"`
	Answers     []int           `json:"answers" bson:"answers"`
	Assessment  *RiskAssessment `json:"assessment,omitempty" bson:"assessment,omitempty"`
	Transcript  Transcript      `json:"transcript" bson:"transcript"`
	Signal      IntensitySignal `json:"signal" bson:"signal"`
	Escalated   bool            `json:"escalated" bson:"escalated"`
	EscalatedAt *time.Time      `json:"escalatedAt,omitempty" bson:"escalatedAt,omitempty"`
	Version     int64           `json:"version" bson:"version"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// NewSessionState returns a fresh session in NotStarted
func NewSessionState(id string, now time.Time) *SessionState {
	return &SessionState{
		ID:         id,
		Status:     SessionNotStarted,
		Answers:    []int{},
		Transcript: Transcript{},
		Signal:     NeutralSignal(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Clone returns a deep copy so callers can mutate without touching shared state
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	c := *s
	c.Answers = append([]int{}, s.Answers...)
	c.Transcript = append(Transcript{}, s.Transcript...)
	c.Signal.Evidence = append([]string(nil), s.Signal.Evidence...)
	if s.Assessment != nil {
		a := *s.Assessment
		a.Answers = append([]int{}, s.Assessment.Answers...)
		c.Assessment = &a
	}
	if s.EscalatedAt != nil {
		t := *s.EscalatedAt
		c.EscalatedAt = &t
	}
	return &c
}

// SessionView is the public summary of a session
type SessionView struct {
	ID         string          `json:"id"`
	Status     SessionStatus   `json:"status"`
	Answered   int             `json:"answered"`
	Assessment *RiskAssessment `json:"assessment,omitempty"`
	Signal     IntensitySignal `json:"signal"`
	Escalated  bool            `json:"escalated"`
	Messages   int             `json:"messages"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (s *SessionState) View() *SessionView {
	return &SessionView{
		ID:         s.ID,
		Status:     s.Status,
		Answered:   len(s.Answers),
		Assessment: s.Assessment,
		Signal:     s.Signal,
		Escalated:  s.Escalated,
		Messages:   len(s.Transcript),
		UpdatedAt:  s.UpdatedAt,
	}
}
