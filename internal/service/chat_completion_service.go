package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const systemPrompt = "You are an HR assistant that evaluates resumes against job descriptions. Follow the requested output format exactly."

// ChatCompletionService talks to any OpenAI-compatible chat completions API.
// OpenRouter and Ollama are both served by it.
type ChatCompletionService struct {
	client      *resty.Client
	endpoint    string
	model       string
	temperature float64
	retry       retryPolicy
	breaker     *circuitBreaker
	log         *zap.Logger
}

type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("chat completion returned status %d: %s", e.Code, e.Body)
}

func NewOpenRouterService(cfg *config.OpenRouterConfig, requestTimeout time.Duration, log *zap.Logger) (*ChatCompletionService, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY not set")
	}
	client := resty.New().
		SetTimeout(requestTimeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Referer != "" {
		client.SetHeader("HTTP-Referer", cfg.Referer)
	}
	if cfg.Title != "" {
		client.SetHeader("X-Title", cfg.Title)
	}
	svc := newChatCompletionService(client, strings.TrimRight(cfg.BaseURL, "/")+"/chat/completions", cfg.Model,
		logger.WithProvider(log, config.ProviderOpenRouter, cfg.Model))
	svc.temperature = cfg.Temperature
	svc.retry = retryPolicyWith(cfg.MaxRetries)
	return svc, nil
}

func NewOllamaService(cfg *config.OllamaConfig, requestTimeout time.Duration, log *zap.Logger) *ChatCompletionService {
	client := resty.New().
		SetTimeout(requestTimeout).
		SetHeader("Content-Type", "application/json")
	return newChatCompletionService(client, strings.TrimRight(cfg.BaseURL, "/")+"/v1/chat/completions", cfg.Model,
		logger.WithProvider(log, config.ProviderOllama, cfg.Model))
}

func newChatCompletionService(client *resty.Client, endpoint, model string, log *zap.Logger) *ChatCompletionService {
	return &ChatCompletionService{
		client:      client,
		endpoint:    endpoint,
		model:       model,
		temperature: 0.1,
		retry:       defaultRetryPolicy(),
		breaker:     newCircuitBreaker(5, time.Minute),
		log:         logger.OrNop(log),
	}
}

func (s *ChatCompletionService) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	var text string
	err := withRetry(ctx, "chat completion", s.retry, s.breaker, s.log, isRetryableChatError,
		func(ctx context.Context) error {
			resp, err := s.client.R().
				SetContext(ctx).
				SetBody(map[string]any{
					"model":       s.model,
					"temperature": s.temperature,
					"messages": []map[string]string{
						{"role": "system", "content": systemPrompt},
						{"role": "user", "content": prompt},
					},
				}).
				Post(s.endpoint)
			if err != nil {
				return err
			}
			if resp.IsError() {
				body := gjson.Get(resp.String(), "error.message").String()
				if body == "" {
					body = logger.TruncateForLog(resp.String(), 200)
				}
				return &statusError{Code: resp.StatusCode(), Body: body}
			}

			content := gjson.Get(resp.String(), "choices.0.message.content")
			if !content.Exists() {
				return fmt.Errorf("no choices in chat completion response")
			}
			text = content.String()
			return nil
		})
	if err != nil {
		return "", err
	}
	return text, nil
}

var _ BreakerReporter = (*ChatCompletionService)(nil)

func (s *ChatCompletionService) ResetCircuitBreaker() {
	s.breaker.success()
	s.log.Info("circuit breaker reset")
}

func (s *ChatCompletionService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	return s.breaker.status()
}

func isRetryableChatError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		return isRetryableStatus(se.Code)
	}
	return isTransientMessage(err.Error())
}
