package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiService struct {
	Client         *genai.Client
	Model          string
	Temperature    float32
	RequestTimeout time.Duration
	retry          retryPolicy
	breaker        *circuitBreaker
	log            *zap.Logger
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, requestTimeout time.Duration, log *zap.Logger) (*GeminiService, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &GeminiService{
		Client:         client,
		Model:          cfg.Model,
		Temperature:    float32(cfg.Temperature),
		RequestTimeout: requestTimeout,
		retry:          retryPolicyWith(cfg.MaxRetries),
		breaker:        newCircuitBreaker(5, time.Minute),
		log:            logger.WithProvider(log, config.ProviderGemini, cfg.Model),
	}, nil
}

func (s *GeminiService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.GenerateContent(ctx, s.Model, prompt)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (s *GeminiService) GenerateContent(ctx context.Context, model string, prompt string) (*genai.GenerateContentResponse, error) {
	if model == "" {
		return nil, fmt.Errorf("model name cannot be empty")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	var result *genai.GenerateContentResponse
	err := withRetry(ctx, "gemini generate content", s.retry, s.breaker, s.log, isRetryableGeminiError,
		func(ctx context.Context) error {
			attemptCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
			defer cancel()

			resp, err := s.Client.Models.GenerateContent(attemptCtx, model, genai.Text(prompt),
				&genai.GenerateContentConfig{Temperature: genai.Ptr(s.Temperature)})
			if err != nil {
				return err
			}
			if err := validateGenerateResponse(resp); err != nil {
				return fmt.Errorf("invalid response: %w", err)
			}
			result = resp
			return nil
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ BreakerReporter = (*GeminiService)(nil)

func (s *GeminiService) ResetCircuitBreaker() {
	s.breaker.success()
	s.log.Info("circuit breaker reset")
}

func (s *GeminiService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	return s.breaker.status()
}

func isRetryableGeminiError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return isRetryableStatus(apiErrPtr.Code)
	}
	return isTransientMessage(err.Error())
}

func isRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

func isTransientMessage(msg string) bool {
	for _, marker := range []string{"connection refused", "connection reset", "timeout", "temporary failure", "EOF", "deadline exceeded"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}
	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}
	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}
	return nil
}
