package config

import (
	"os"
	"sync"
)

type OpenRouterConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxRetries  int
	// Referer and Title are sent as HTTP-Referer and X-Title for OpenRouter attribution.
	Referer string
	Title   string
}

var (
	openRouterConfig *OpenRouterConfig
	openRouterOnce   sync.Once
)

func LoadOpenRouterConfig() *OpenRouterConfig {
	openRouterOnce.Do(func() {
		openRouterConfig = &OpenRouterConfig{
			APIKey:      os.Getenv("OPENROUTER_API_KEY"),
			Model:       envOr("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
			BaseURL:     envOr("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Temperature: envFloat("OPENROUTER_TEMPERATURE", 0.1),
			MaxRetries:  envInt("OPENROUTER_MAX_RETRIES", 3),
			Referer:     os.Getenv("OPENROUTER_REFERER"),
			Title:       envOr("OPENROUTER_TITLE", "resume-tracker"),
		}
	})
	return openRouterConfig
}
