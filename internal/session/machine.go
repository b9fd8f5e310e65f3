// Package session owns per-session state transitions and single-writer access.
package session

import (
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"soulsprint/internal/risk"
	"time"
)

// Assessor scores and classifies a complete answer set
type Assessor interface {
	Assess(answers []int) (*model.RiskAssessment, error)
}

// SubmitAnswer records the next questionnaire answer. The value is validated
// before anything changes; the seventh answer produces the assessment.
func SubmitAnswer(s *model.SessionState, value int, assessor Assessor, now time.Time) error {
	if s.Assessment != nil {
		return apperr.Wrap(apperr.ErrAssessmentComplete, "questionnaire already scored %d, reset to start again", s.Assessment.Score)
	}
	if len(s.Answers) >= model.QuestionCount {
		return apperr.Wrap(apperr.ErrAssessmentComplete, "all %d answers already recorded", model.QuestionCount)
	}
	if err := risk.ValidateAnswer(len(s.Answers), value); err != nil {
		return err
	}

	answers := append(append([]int{}, s.Answers...), value)
	if len(answers) == model.QuestionCount {
		a, err := assessor.Assess(answers)
		if err != nil {
			return err
		}
		s.Assessment = a
		s.Status = model.SessionAssessed
	} else if s.Status == model.SessionNotStarted {
		s.Status = model.SessionAssessmentInProgress
	}
	s.Answers = answers
	s.UpdatedAt = now
	return nil
}

// Reset returns the session to NotStarted, dropping the questionnaire, the
// assessment and the escalation latch. The transcript and its signal survive
// unless clearTranscript is set.
func Reset(s *model.SessionState, clearTranscript bool, now time.Time) {
	s.Status = model.SessionNotStarted
	s.Answers = []int{}
	s.Assessment = nil
	s.Escalated = false
	s.EscalatedAt = nil
	if clearTranscript {
		s.Transcript = model.Transcript{}
		s.Signal = model.NeutralSignal()
	}
	s.UpdatedAt = now
}

// ApplyChatExchange merges one user message, the agent reply and the new
// signal in a single step. ProfessionalHelp latches escalation until Reset.
func ApplyChatExchange(s *model.SessionState, userTurn, agentTurn model.ChatTurn, sig model.IntensitySignal, now time.Time) {
	s.Transcript = append(s.Transcript, userTurn, agentTurn)
	s.Signal = sig
	if sig.RecommendedAction == model.ActionProfessionalHelp && !s.Escalated {
		s.Escalated = true
		t := now
		s.EscalatedAt = &t
	}
	if s.Status == model.SessionAssessed {
		s.Status = model.SessionChatting
	}
	s.UpdatedAt = now
}

// EffectiveTier is the tier used for routing: the assessment when present,
// otherwise the chat signal level, otherwise Low.
func EffectiveTier(s *model.SessionState) model.Tier {
	if s.Assessment != nil {
		return s.Assessment.Tier
	}
	if t, ok := s.Signal.Level.Tier(); ok {
		return t
	}
	return model.TierLow
}
