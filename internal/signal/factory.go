package signal

import (
	"soulsprint/internal/config"
	"soulsprint/internal/logger"
)

// New builds the extractor for a signal mode. Modes that need a model fall
// back to the keyword extractor when gen is nil.
func New(mode string, engineCfg *config.EngineConfig, aiCfg *config.AIConfig, gen Generator, log *logger.Logger) Extractor {
	keyword := NewKeywordExtractor(engineCfg.Signal)
	if gen == nil || aiCfg == nil {
		return keyword
	}
	llm := NewLLMExtractor(gen, aiCfg.Models.SignalExtract, engineCfg.Signal.Window)
	switch mode {
	case config.SignalModeLLM:
		return llm
	case config.SignalModeEnsemble:
		return NewEnsembleExtractor(keyword, llm, log)
	default:
		return keyword
	}
}
