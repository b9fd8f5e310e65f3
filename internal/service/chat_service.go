package service

import (
	"context"
	"fmt"
	"soulsprint/internal/apperr"
	"soulsprint/internal/config"
	"soulsprint/internal/model"
	"strings"
)

// TextGenerator is the free-text model call used for replies
type TextGenerator interface {
	Enabled() bool
	GenerateText(ctx context.Context, modelName, prompt string) (string, error)
}

// ChatService writes the agent's wellness-guidance reply
type ChatService struct {
	gen       TextGenerator
	modelName string
	window    int
}

// NewChatService creates a chat responder. gen may be nil for canned replies only.
func NewChatService(gen TextGenerator, aiCfg *config.AIConfig, window int) *ChatService {
	if window <= 0 {
		window = 10
	}
	s := &ChatService{gen: gen, window: window}
	if aiCfg != nil {
		s.modelName = aiCfg.Models.ChatReply
	}
	return s
}

// Reply answers the latest user message in light of the tier. With AI disabled
// it returns the canned reply; a model failure returns ReplyFailed.
func (s *ChatService) Reply(ctx context.Context, tier model.Tier, history model.Transcript, message string) (string, error) {
	if s.gen == nil || !s.gen.Enabled() {
		return s.Fallback(tier), nil
	}

	prompt := s.buildPrompt(tier, history, message)
	reply, err := s.gen.GenerateText(ctx, s.modelName, prompt)
	if err != nil {
		return "", apperr.Cause(apperr.ErrReplyFailed, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", apperr.Wrap(apperr.ErrReplyFailed, "empty reply")
	}
	return reply, nil
}

// Fallback is the deterministic reply used when no model reply is available
func (s *ChatService) Fallback(tier model.Tier) string {
	switch tier {
	case model.TierHigh:
		return "Thank you for telling me how you feel. You don't have to carry this alone. " +
			"Talking with a professional counselor or a crisis line can really help, and reaching out is a brave step."
	case model.TierMedium:
		return "That sounds like a lot to hold right now. Slowing your breathing for a minute can help, " +
			"and a peer support group may be a good place to share what you're going through."
	default:
		return "Thanks for sharing. Small steps like a short walk, some water, or a few quiet breaths " +
			"can lift your day. What would feel good to try next?"
	}
}

func (s *ChatService) buildPrompt(tier model.Tier, history model.Transcript, message string) string {
	var b strings.Builder
	turns := history
	if len(turns) > s.window {
		turns = turns[len(turns)-s.window:]
	}
	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Text)
	}

	return fmt.Sprintf(`You are a wellness guidance chatbot designed to provide personalized advice and support.

Tailor the response to the user's assessed risk level.
- low: general encouragement and wellness tips.
- medium: supportive strategies, gently suggest peer support.
- high: extra empathy, calm language, strongly encourage professional help without being alarming.

Never diagnose. Keep the reply under 120 words.

User's Assessed Risk Level: %s

Conversation so far:
%s
User Message: %s`, tier, b.String(), message)
}
