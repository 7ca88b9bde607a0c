package config

import "sync"

// OllamaConfig points at a local Ollama instance speaking the OpenAI-compatible API.
type OllamaConfig struct {
	BaseURL string
	Model   string
}

var (
	ollamaConfig *OllamaConfig
	ollamaOnce   sync.Once
)

func LoadOllamaConfig() *OllamaConfig {
	ollamaOnce.Do(func() {
		ollamaConfig = &OllamaConfig{
			BaseURL: envOr("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:   envOr("OLLAMA_MODEL", "llama3"),
		}
	})
	return ollamaConfig
}
