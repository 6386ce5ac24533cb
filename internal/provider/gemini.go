package provider

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"kabyar/internal/domain/models"
)

// Gemini adapts the Google Gemini API. Assistant turns map to the
// vendor's "model" role and the system prompt becomes the system
// instruction on the generation config.
type Gemini struct {
	client *genai.Client
}

// NewGemini creates the Gemini adapter.
func NewGemini(apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

// Name returns the provider name.
func (p *Gemini) Name() string {
	return NameGemini
}

// Chat performs a buffered generation.
func (p *Gemini) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	contents, cfg := p.buildRequest(req)

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &ChatResponse{
		Content:     resp.Text(),
		Model:       req.Model,
		TotalTokens: tokens,
	}, nil
}

// Stream performs a streaming generation, forwarding text deltas.
func (p *Gemini) Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	contents, cfg := p.buildRequest(req)

	out := make(chan StreamChunk)
	go func() {
		defer close(out)

		for resp, err := range p.client.Models.GenerateContentStream(ctx, req.Model, contents, cfg) {
			if err != nil {
				select {
				case out <- StreamChunk{Err: fmt.Errorf("gemini stream: %w", err)}:
				case <-ctx.Done():
				}
				return
			}

			text := resp.Text()
			if text == "" {
				continue
			}

			select {
			case out <- StreamChunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (p *Gemini) buildRequest(req *ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	system, turns := splitSystem(req.Messages)

	contents := make([]*genai.Content, 0, len(turns))
	for _, m := range turns {
		role := genai.RoleUser
		if m.Role == models.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokensOrDefault(req)),
		Temperature:     genai.Ptr(temperatureOrDefault(req)),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	return contents, cfg
}
