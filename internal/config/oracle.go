package config

import (
	"strings"
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

type OracleConfig struct {
	Provider    string
	Timeout     time.Duration
	Concurrency int
	// RPS of zero disables pacing.
	RPS float64
}

var (
	oracleConfig *OracleConfig
	oracleOnce   sync.Once
)

func LoadOracleConfig() *OracleConfig {
	oracleOnce.Do(func() {
		concurrency := envInt("ORACLE_CONCURRENCY", 4)
		if concurrency <= 0 {
			concurrency = 1
		}
		oracleConfig = &OracleConfig{
			Provider:    strings.ToLower(envOr("LLM_PROVIDER", ProviderGemini)),
			Timeout:     envDuration("ORACLE_TIMEOUT", 30*time.Second),
			Concurrency: concurrency,
			RPS:         envFloat("ORACLE_RPS", 0),
		}
	})
	return oracleConfig
}
