package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"kabyar/internal/domain/models"
)

// Claude adapts the Anthropic Messages API. The system prompt is split
// out of the turn list because the vendor takes it as a separate field.
type Claude struct {
	client anthropic.Client
}

// NewClaude creates the Anthropic adapter.
func NewClaude(apiKey string) *Claude {
	return &Claude{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Name returns the provider name.
func (p *Claude) Name() string {
	return NameClaude
}

// Chat performs a buffered generation.
func (p *Claude) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	msg, err := p.client.Messages.New(ctx, p.buildParams(req))
	if err != nil {
		return nil, fmt.Errorf("claude message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return &ChatResponse{
		Content:     sb.String(),
		Model:       string(msg.Model),
		TotalTokens: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}

// Stream performs a streaming generation, forwarding text deltas.
func (p *Claude) Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	stream := p.client.Messages.NewStreaming(ctx, p.buildParams(req))

	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				delta, ok := ev.Delta.AsAny().(anthropic.TextDelta)
				if !ok || delta.Text == "" {
					continue
				}
				select {
				case out <- StreamChunk{Text: delta.Text}:
				case <-ctx.Done():
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			select {
			case out <- StreamChunk{Err: fmt.Errorf("claude stream: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}

func (p *Claude) buildParams(req *ChatRequest) anthropic.MessageNewParams {
	system, turns := splitSystem(req.Messages)

	msgs := make([]anthropic.MessageParam, 0, len(turns))
	for _, m := range turns {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == models.RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(maxTokensOrDefault(req)),
		Messages:    msgs,
		Temperature: anthropic.Float(float64(temperatureOrDefault(req))),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	return params
}
