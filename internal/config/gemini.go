package config

import (
	"os"
	"sync"
)

// GeminiConfig selects the Gemini model used as scoring oracle. Temperature
// stays low so repeated rankings of the same pool agree.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxRetries  int
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:      os.Getenv("GEMINI_API_KEY"),
			Model:       envOr("GEMINI_MODEL", "gemini-2.5-flash"),
			Temperature: envFloat("GEMINI_TEMPERATURE", 0.1),
			MaxRetries:  envInt("GEMINI_MAX_RETRIES", 3),
		}
	})
	return geminiConfig
}
