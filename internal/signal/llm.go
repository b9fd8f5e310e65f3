package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"soulsprint/internal/apperr"
	"soulsprint/internal/model"
	"strings"
	"time"
)

// Generator is the structured-output model call the LLM extractor needs
type Generator interface {
	GenerateJSON(ctx context.Context, modelName, prompt string) (string, error)
}

// LLMExtractor asks a hosted model to classify the transcript.
// Any failure is reported as SignalExtractionFailed.
type LLMExtractor struct {
	gen       Generator
	modelName string
	window    int
	now       func() time.Time
}

// NewLLMExtractor creates a model-backed extractor over the last window turns
func NewLLMExtractor(gen Generator, modelName string, window int) *LLMExtractor {
	return &LLMExtractor{
		gen:       gen,
		modelName: modelName,
		window:    window,
		now:       time.Now,
	}
}

type chatAnalysis struct {
	Intensity       string `json:"intensity"`
	SuggestedAction string `json:"suggestedAction"`
	Recommendation  string `json:"recommendation"`
}

var suggestedActions = map[string]model.Action{
	"soulSprints":      model.ActionSelfGuidedTasks,
	"meetingPods":      model.ActionPeerSupport,
	"professionalHelp": model.ActionProfessionalHelp,
}

// Extract implements Extractor
func (e *LLMExtractor) Extract(ctx context.Context, transcript model.Transcript) (model.IntensitySignal, error) {
	if len(transcript.UserTurns()) == 0 {
		return model.NeutralSignal(), nil
	}

	raw, err := e.gen.GenerateJSON(ctx, e.modelName, e.buildPrompt(transcript))
	if err != nil {
		return model.NeutralSignal(), apperr.Cause(apperr.ErrSignalExtractionFailed, err)
	}

	var out chatAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return model.NeutralSignal(), apperr.Wrap(apperr.ErrSignalExtractionFailed, "malformed model output: %v", err)
	}

	level := model.Intensity(strings.ToLower(strings.TrimSpace(out.Intensity)))
	if level.Rank() == 0 {
		return model.NeutralSignal(), apperr.Wrap(apperr.ErrSignalExtractionFailed, "intensity %q not in schema", out.Intensity)
	}
	action, ok := suggestedActions[strings.TrimSpace(out.SuggestedAction)]
	if !ok {
		return model.NeutralSignal(), apperr.Wrap(apperr.ErrSignalExtractionFailed, "suggestedAction %q not in schema", out.SuggestedAction)
	}
	// the model may pick a milder action than its own intensity implies
	if implied := model.ActionForIntensity(level); implied.Rank() > action.Rank() {
		action = implied
	}

	rec := strings.TrimSpace(out.Recommendation)
	if rec == "" {
		rec = Recommendation(level)
	}

	return model.IntensitySignal{
		Level:             level,
		RecommendedAction: action,
		Recommendation:    rec,
		Source:            model.SourceLLM,
		ExtractedAt:       e.now().UTC(),
	}, nil
}

func (e *LLMExtractor) buildPrompt(transcript model.Transcript) string {
	turns := transcript
	if e.window > 0 && len(turns) > e.window*2 {
		turns = turns[len(turns)-e.window*2:]
	}
	var history strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&history, "%s: %s\n", t.Speaker, t.Text)
	}

	return fmt.Sprintf(`You will be provided with a user's chat history. Assess their current wellness state and return ONLY valid JSON matching this schema:
{
  "intensity": "low" or "medium" or "high",
  "suggestedAction": "soulSprints" or "meetingPods" or "professionalHelp",
  "recommendation": "one empathetic paragraph"
}

- low: curious, seeking general advice, exploring wellness topics. Suggest soulSprints.
- medium: mild stress, looking for coping mechanisms or community support. Suggest meetingPods.
- high: significant distress, crisis, or topics that need immediate professional attention. Suggest professionalHelp and do not list specific resources.

Chat history:
---
%s---`, history.String())
}
