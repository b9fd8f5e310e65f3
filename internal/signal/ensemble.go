package signal

import (
	"context"
	"soulsprint/internal/logger"
	"soulsprint/internal/model"
)

// EnsembleExtractor combines a model extractor with the keyword guard.
// Crisis language caught by the guard always wins; a model failure
// degrades to the guard result.
type EnsembleExtractor struct {
	guard   Extractor
	primary Extractor
	log     *logger.Logger
}

func NewEnsembleExtractor(guard, primary Extractor, log *logger.Logger) *EnsembleExtractor {
	return &EnsembleExtractor{guard: guard, primary: primary, log: log}
}

// Extract implements Extractor
func (e *EnsembleExtractor) Extract(ctx context.Context, transcript model.Transcript) (model.IntensitySignal, error) {
	guarded, err := e.guard.Extract(ctx, transcript)
	if err != nil {
		return guarded, err
	}
	if guarded.IsNeutral() {
		return guarded, nil
	}

	primary, err := e.primary.Extract(ctx, transcript)
	if err != nil {
		if ctx.Err() != nil {
			return guarded, ctx.Err()
		}
		e.log.Warn("model signal extraction failed, using keyword guard", "error", err)
		return guarded, nil
	}

	out := MoreSevere(primary, guarded)
	if guarded.RecommendedAction.Rank() > out.RecommendedAction.Rank() {
		out.RecommendedAction = guarded.RecommendedAction
	}
	out.Evidence = guarded.Evidence
	out.Score = guarded.Score
	out.Source = model.SourceEnsemble
	return out, nil
}
