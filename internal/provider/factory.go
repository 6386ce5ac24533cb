package provider

import (
	"fmt"

	"kabyar/internal/config"
	"kabyar/internal/domain"
)

// Endpoint URLs for the OpenAI-compatible vendors.
const (
	grokBaseURL   = "https://api.x.ai/v1"
	thesysBaseURL = "https://api.thesys.dev/v1/embed/"
)

// Factory creates provider instances from configuration. API keys are
// checked here, at call time, so a missing key for one vendor does not
// prevent the others from serving.
type Factory struct {
	cfg *config.Config
}

// NewFactory creates a provider factory.
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{cfg: cfg}
}

// Create builds the adapter for the given provider name.
func (f *Factory) Create(name string) (Provider, error) {
	switch name {
	case NameOpenAI:
		if f.cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", domain.ErrProviderNotConfigured)
		}
		return NewOpenAICompat(NameOpenAI, f.cfg.OpenAIAPIKey, ""), nil

	case NameGrok:
		if f.cfg.XAIAPIKey == "" {
			return nil, fmt.Errorf("%w: XAI_API_KEY not set", domain.ErrProviderNotConfigured)
		}
		return NewOpenAICompat(NameGrok, f.cfg.XAIAPIKey, grokBaseURL), nil

	case NameThesys:
		if f.cfg.ThesysAPIKey == "" {
			return nil, fmt.Errorf("%w: THESYS_API_KEY not set", domain.ErrProviderNotConfigured)
		}
		return NewOpenAICompat(NameThesys, f.cfg.ThesysAPIKey, thesysBaseURL), nil

	case NameClaude:
		if f.cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY not set", domain.ErrProviderNotConfigured)
		}
		return NewClaude(f.cfg.AnthropicAPIKey), nil

	case NameGemini:
		if f.cfg.GoogleAIAPIKey == "" {
			return nil, fmt.Errorf("%w: GOOGLE_AI_API_KEY not set", domain.ErrProviderNotConfigured)
		}
		return NewGemini(f.cfg.GoogleAIAPIKey)

	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
