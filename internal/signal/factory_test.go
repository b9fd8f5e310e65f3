package signal

import (
	"soulsprint/internal/config"
	"soulsprint/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPicksExtractorByMode(t *testing.T) {
	engine := config.DefaultEngineConfig()
	ai := &config.AIConfig{Models: config.GeminiModels{SignalExtract: "m"}}
	gen := &mockGenerator{}
	log := logger.NewNop()

	assert.IsType(t, &KeywordExtractor{}, New(config.SignalModeKeyword, engine, ai, gen, log))
	assert.IsType(t, &LLMExtractor{}, New(config.SignalModeLLM, engine, ai, gen, log))
	assert.IsType(t, &EnsembleExtractor{}, New(config.SignalModeEnsemble, engine, ai, gen, log))
	assert.IsType(t, &KeywordExtractor{}, New(config.SignalModeLLM, engine, ai, nil, log))
}
