package provider

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompat adapts any OpenAI-compatible chat completion endpoint.
// It backs three providers: OpenAI itself, Grok (api.x.ai), and the
// hosted generative-UI service (api.thesys.dev), which all speak the
// same wire format.
type OpenAICompat struct {
	client *openai.Client
	name   string
}

// NewOpenAICompat creates an adapter for an OpenAI-compatible endpoint.
// baseURL may be empty for the real OpenAI API.
func NewOpenAICompat(name, apiKey, baseURL string) *OpenAICompat {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAICompat{
		client: openai.NewClientWithConfig(cfg),
		name:   name,
	}
}

// Name returns the provider name.
func (p *OpenAICompat) Name() string {
	return p.name
}

// Chat performs a buffered completion.
func (p *OpenAICompat) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildRequest(req, false))
	if err != nil {
		return nil, fmt.Errorf("%s chat completion: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s returned no choices", p.name)
	}

	return &ChatResponse{
		Content:     resp.Choices[0].Message.Content,
		Model:       resp.Model,
		TotalTokens: resp.Usage.TotalTokens,
	}, nil
}

// Stream performs a streaming completion and forwards text deltas in
// vendor order. Empty deltas are discarded.
func (p *OpenAICompat) Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.buildRequest(req, true))
	if err != nil {
		return nil, fmt.Errorf("%s create stream: %w", p.name, err)
	}

	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case out <- StreamChunk{Err: fmt.Errorf("%s stream: %w", p.name, err)}:
				case <-ctx.Done():
				}
				return
			}

			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}

			select {
			case out <- StreamChunk{Text: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (p *OpenAICompat) buildRequest(req *ChatRequest, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	return openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   maxTokensOrDefault(req),
		Temperature: temperatureOrDefault(req),
		Stream:      stream,
	}
}
