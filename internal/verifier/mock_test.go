package verifier

import (
	"context"
	"sync"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/config"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/pkg/anthropic"
)

// mockAnthropicClient routes CreateMessage through a test-provided function
// and records every request it saw.
type mockAnthropicClient struct {
	mu       sync.Mutex
	createFn func(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error)
	requests []anthropic.MessageRequest
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.createFn(ctx, req)
}

func (m *mockAnthropicClient) requestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		ID:    "msg_test",
		Model: "claude-sonnet-4-5-20250929",
		Content: []anthropic.ContentBlock{
			{Type: "text", Text: text},
		},
		StopReason: "end_turn",
		Usage:      anthropic.TokenUsage{InputTokens: 100, OutputTokens: 50},
	}
}

func testAnthropicConfig() config.AnthropicConfig {
	return config.AnthropicConfig{
		Key:         "test-key",
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   1500,
		Temperature: 0.3,
	}
}
