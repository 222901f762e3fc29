package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cinedex/internal/domain"
	"github.com/kailas-cloud/cinedex/internal/metrics"
)

const systemPrompt = `You extract person names from movie search queries.
Reply with a JSON object {"persons": [...]} listing every actor or director
name exactly as written in the query. Reply {"persons": []} when there are none.`

// Recognizer finds person names in queries with an OpenAI-compatible chat model.
type Recognizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Config holds the recognizer provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewRecognizer creates an OpenAI-compatible person recognizer.
func NewRecognizer(cfg *Config) *Recognizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Recognizer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

type personsReply struct {
	Persons []string `json:"persons"`
}

// Recognize implements domain.PersonRecognizer. Names the model returns that
// do not occur in text are dropped.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	}

	start := time.Now()

	resp, err := r.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrRecognizerUnavailable)
	}

	var reply personsReply
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &reply); err != nil {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.model, "error").Inc()
		return nil, fmt.Errorf("decode completion: %w: %w", err, domain.ErrRecognizerUnavailable)
	}

	metrics.RecognizerRequestsTotal.WithLabelValues(r.model, "success").Inc()
	metrics.RecognizerRequestDuration.WithLabelValues(r.model).Observe(duration.Seconds())

	entities := groundEntities(text, reply.Persons)
	r.logger.Debug("persons recognized",
		zap.Int("returned", len(reply.Persons)),
		zap.Int("kept", len(entities)),
		zap.Duration("took", duration),
	)
	return entities, nil
}

// groundEntities keeps names found in text, using the query's own spelling,
// without duplicates.
func groundEntities(text string, names []string) []domain.Entity {
	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(names))
	var out []domain.Entity
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		i := strings.Index(lower, key)
		if i < 0 {
			continue
		}
		span := name
		// Byte offsets only carry over when lowercasing kept the length.
		if len(lower) == len(text) {
			span = text[i : i+len(key)]
		}
		seen[key] = true
		out = append(out, domain.Entity{Text: span, Label: domain.LabelPerson})
	}
	return out
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (r *Recognizer) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrRecognizerUnavailable.
func parseAPIError(err error) error {
	wrap := domain.ErrRecognizerUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("recognizer API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("recognizer API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("recognizer API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("recognizer request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
