// Package provider contains the LLM vendor adapters and the registry that
// routes requests to them. Every adapter normalizes the same message list
// into its vendor's shape and exposes a buffered call plus a chunk stream.
package provider

import (
	"context"

	"kabyar/internal/domain/models"
)

// Supported provider names.
const (
	NameOpenAI = "openai"
	NameClaude = "claude"
	NameGemini = "gemini"
	NameGrok   = "grok"
	NameThesys = "thesys"
)

// KnownProvider reports whether name is a routable provider identifier.
func KnownProvider(name string) bool {
	switch name {
	case NameOpenAI, NameClaude, NameGemini, NameGrok, NameThesys:
		return true
	}
	return false
}

// ChatRequest is the normalized generation request handed to an adapter.
// Model is already resolved to a concrete vendor model string.
type ChatRequest struct {
	Messages    []models.Message
	Model       string
	MaxTokens   int
	Temperature float32
}

// ChatResponse is a complete (buffered) generation result.
type ChatResponse struct {
	Content     string
	Model       string
	TotalTokens int
}

// StreamChunk is one incremental piece of a streamed generation. A chunk
// carries either text or a terminal error; after an error or channel close
// no further chunks arrive. Empty text deltas are discarded by adapters.
type StreamChunk struct {
	Text string
	Err  error
}

// Provider is the uniform adapter contract. Chunks are forwarded in
// vendor-delivery order with no reordering or batching; cancellation of
// ctx tears down the vendor call.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error)
}

// Generation defaults shared by all adapters.
const (
	defaultMaxTokens   = 4096
	defaultTemperature = 0.7
)

func maxTokensOrDefault(req *ChatRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}

func temperatureOrDefault(req *ChatRequest) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	return defaultTemperature
}

// splitSystem separates the system instruction from the chat turns, for
// vendors that take the system prompt out of band. Multiple system
// messages are joined in order.
func splitSystem(msgs []models.Message) (system string, turns []models.Message) {
	turns = make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == models.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		turns = append(turns, m)
	}
	return system, turns
}
