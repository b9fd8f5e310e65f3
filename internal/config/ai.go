package config

import (
	"os"
	"strings"
)

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// SignalExtract classifies chat transcripts (structured output, must be fast)
	SignalExtract string `json:"signalExtract"`

	// ChatReply generates the wellness guidance reply
	ChatReply string `json:"chatReply"`
}

// Signal extraction modes
const (
	SignalModeKeyword  = "keyword"
	SignalModeLLM      = "llm"
	SignalModeEnsemble = "ensemble"
)

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey     string       `json:"-"` // Never serialize
	BaseURL    string       `json:"baseUrl"`
	Models     GeminiModels `json:"models"`
	TimeoutMS  int          `json:"timeoutMs"`
	SignalMode string       `json:"signalMode"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Models: GeminiModels{
			SignalExtract: getEnvOrDefault("GEMINI_MODEL_SIGNAL", "gemini-2.0-flash"),
			ChatReply:     getEnvOrDefault("GEMINI_MODEL_CHAT", "gemini-2.5-flash"),
		},
		TimeoutMS:  getEnvInt("AI_TIMEOUT_MS", 10000),
		SignalMode: strings.ToLower(getEnvOrDefault("SIGNAL_MODE", SignalModeKeyword)),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

// EffectiveSignalMode falls back to keyword when the model path cannot run
func (c *AIConfig) EffectiveSignalMode() string {
	switch c.SignalMode {
	case SignalModeLLM, SignalModeEnsemble:
		if c.IsEnabled() {
			return c.SignalMode
		}
	}
	return SignalModeKeyword
}
