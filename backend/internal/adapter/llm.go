// Package adapter wraps the OpenAI-compatible chat completion endpoint.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"preference-graph/backend/pkg/logger"
	"go.uber.org/zap"
)

// Gateway issues chat completion requests against a configured
// OpenAI-compatible endpoint. On a 404 from the chat endpoint it retries once
// against the legacy text completion endpoint; there are no other retries.
type Gateway struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// Options tunes a single completion call.
type Options struct {
	MaxTokens   int
	Temperature *float32
}

// Deterministic returns options for extraction calls: temperature 0.
func Deterministic(maxTokens int) Options {
	var zero float32
	return Options{MaxTokens: maxTokens, Temperature: &zero}
}

// NewGateway creates a gateway for the given endpoint. baseURL must point at
// the API root the provider expects; the /chat/completions and /completions
// paths are appended by the client.
func NewGateway(baseURL, apiKey, model string, timeout time.Duration) *Gateway {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &Gateway{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		logger:  logger.Get(),
	}
}

// Chat sends a system+user message pair and returns the assistant's raw text,
// whitespace-trimmed. A single timeout bounds the whole call, fallback
// included.
func (g *Gateway) Chat(ctx context.Context, system, user string, opts Options) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens: opts.MaxTokens,
	}
	if opts.Temperature != nil {
		temp := *opts.Temperature
		if temp == 0 {
			// go-openai drops a zero temperature via omitempty; the smallest
			// nonzero float is the documented way to request 0.
			temp = math.SmallestNonzeroFloat32
		}
		req.Temperature = temp
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		if isNotFound(err) {
			g.logger.Warn("Chat endpoint returned 404, falling back to legacy completions",
				zap.String("model", g.model),
			)
			return g.legacyCompletion(ctx, system, user, opts)
		}
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// legacyCompletion hits the old single-prompt completion endpoint with the
// system and user messages folded into one prompt.
func (g *Gateway) legacyCompletion(ctx context.Context, system, user string, opts Options) (string, error) {
	resp, err := g.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     g.model,
		Prompt:    system + "\n\n" + user,
		MaxTokens: opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("legacy completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in legacy completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Text), nil
}

func isNotFound(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusNotFound
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusNotFound
	}
	return false
}
