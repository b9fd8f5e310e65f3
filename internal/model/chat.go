package model

import "time"

// Speaker identifies who wrote a chat turn
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// ChatTurn is one message in a session transcript
type ChatTurn struct {
	Speaker Speaker   `json:"speaker" bson:"speaker"`
	Text    string    `json:"text" bson:"text"`
	At      time.Time `json:"at" bson:"at"`
}

// Transcript is append-only for the life of a session
type Transcript []ChatTurn

// UserTurns returns the user-authored turns, oldest first
func (t Transcript) UserTurns() []ChatTurn {
	out := make([]ChatTurn, 0, len(t))
	for _, turn := range t {
		if turn.Speaker == SpeakerUser {
			out = append(out, turn)
		}
	}
	return out
}

// Intensity is the distress level estimated from chat
type Intensity string

const (
	IntensityUnknown Intensity = "unknown"
	IntensityLow     Intensity = "low"
	IntensityMedium  Intensity = "medium"
	IntensityHigh    Intensity = "high"
)

func (i Intensity) Rank() int {
	switch i {
	case IntensityLow:
		return 1
	case IntensityMedium:
		return 2
	case IntensityHigh:
		return 3
	default:
		return 0
	}
}

// Tier maps a known intensity onto the risk tier scale
func (i Intensity) Tier() (Tier, bool) {
	switch i {
	case IntensityLow:
		return TierLow, true
	case IntensityMedium:
		return TierMedium, true
	case IntensityHigh:
		return TierHigh, true
	default:
		return "", false
	}
}

// Action is the support category recommended to the user
type Action string

const (
	ActionNone             Action = "none"
	ActionSelfGuidedTasks  Action = "self_guided_tasks"
	ActionPeerSupport      Action = "peer_support"
	ActionProfessionalHelp Action = "professional_help"
)

func (a Action) Rank() int {
	switch a {
	case ActionSelfGuidedTasks:
		return 1
	case ActionPeerSupport:
		return 2
	case ActionProfessionalHelp:
		return 3
	default:
		return 0
	}
}

// ActionForTier is the default action for a tier
func ActionForTier(t Tier) Action {
	switch t {
	case TierLow:
		return ActionSelfGuidedTasks
	case TierMedium:
		return ActionPeerSupport
	case TierHigh:
		return ActionProfessionalHelp
	default:
		return ActionNone
	}
}

// ActionForIntensity is the default action for an intensity level
func ActionForIntensity(i Intensity) Action {
	t, ok := i.Tier()
	if !ok {
		return ActionNone
	}
	return ActionForTier(t)
}

// SignalSource records which extractor produced a signal
type SignalSource string

const (
	SourceNone     SignalSource = "none"
	SourceKeyword  SignalSource = "keyword"
	SourceLLM      SignalSource = "llm"
	SourceEnsemble SignalSource = "ensemble"
	SourceFallback SignalSource = "fallback"
)

// IntensitySignal is the derived chat distress estimate
type IntensitySignal struct {
	Level             Intensity    `json:"level" bson:"level"`
	RecommendedAction Action       `json:"recommendedAction" bson:"recommendedAction"`
	Score             int          `json:"score" bson:"score"`
	Evidence          []string     `json:"evidence,omitempty" bson:"evidence,omitempty"`
	Recommendation    string       `json:"recommendation,omitempty" bson:"recommendation,omitempty"`
	Source            SignalSource `json:"source" bson:"source"`
	ExtractedAt       time.Time    `json:"extractedAt,omitempty" bson:"extractedAt,omitempty"`
}

// NeutralSignal is returned when there is nothing to analyze
func NeutralSignal() IntensitySignal {
	return IntensitySignal{
		Level:             IntensityUnknown,
		RecommendedAction: ActionNone,
		Source:            SourceNone,
	}
}

// IsNeutral reports whether the signal carries no estimate
func (s IntensitySignal) IsNeutral() bool {
	return s.Level.Rank() == 0
}

// ChatResult is returned by a chat exchange
type ChatResult struct {
	Reply   string          `json:"reply"`
	Signal  IntensitySignal `json:"signal"`
	Routing *RouteResult    `json:"routing"`
}
