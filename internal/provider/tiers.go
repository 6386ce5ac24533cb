package provider

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Model tiers. A tier is a coarse quality/speed selector resolved to a
// concrete vendor model at request time; it is never stored.
const (
	TierSmart  = "smart"
	TierNormal = "normal"
	TierFast   = "fast"
)

// ValidTier reports whether s names a model tier.
func ValidTier(s string) bool {
	return s == TierSmart || s == TierNormal || s == TierFast
}

// Catalog maps provider → tier → concrete model string.
type Catalog struct {
	Providers map[string]map[string]string `yaml:"providers"`
}

// DefaultCatalog returns the compiled-in tier mapping.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Providers: map[string]map[string]string{
			NameGrok: {
				TierSmart:  "grok-4-0709",
				TierNormal: "grok-3-mini",
				TierFast:   "grok-4-1-fast-reasoning",
			},
			NameOpenAI: {
				TierSmart:  "gpt-4o",
				TierNormal: "gpt-4o-mini",
				TierFast:   "gpt-3.5-turbo",
			},
			NameClaude: {
				TierSmart:  "claude-3-opus-20240229",
				TierNormal: "claude-3-5-sonnet-20241022",
				TierFast:   "claude-3-5-haiku-20241022",
			},
			NameGemini: {
				TierSmart:  "gemini-1.5-pro",
				TierNormal: "gemini-2.0-flash-exp",
				TierFast:   "gemini-1.5-flash",
			},
			NameThesys: {
				TierSmart:  "c1/openai/gpt-5/v-20251230",
				TierNormal: "c1/anthropic/claude-sonnet-4/v-20251230",
				TierFast:   "c1-exp/anthropic/claude-haiku-4.5/v-20251230",
			},
		},
	}
}

// LoadCatalog reads a YAML tier mapping and merges it over the defaults,
// so a deployment can repoint tiers without a rebuild. Providers or tiers
// absent from the file keep their compiled-in models.
func LoadCatalog(path string) (*Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model catalog: %w", err)
	}

	var override Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}

	for prov, tiers := range override.Providers {
		if catalog.Providers[prov] == nil {
			catalog.Providers[prov] = make(map[string]string)
		}
		for tier, model := range tiers {
			catalog.Providers[prov][tier] = model
		}
	}

	return catalog, nil
}

// Resolve maps a tier name to the provider's concrete model. Explicit
// model strings pass through unchanged; an empty selector means the
// normal tier.
func (c *Catalog) Resolve(providerName, modelOrTier string) string {
	if modelOrTier == "" {
		modelOrTier = TierNormal
	}
	if !ValidTier(modelOrTier) {
		return modelOrTier
	}
	if tiers, ok := c.Providers[providerName]; ok {
		if model, ok := tiers[modelOrTier]; ok {
			return model
		}
	}
	return modelOrTier
}

// Models lists the tier models for a provider, keyed by tier.
func (c *Catalog) Models(providerName string) map[string]string {
	tiers := c.Providers[providerName]
	out := make(map[string]string, len(tiers))
	for tier, model := range tiers {
		out[tier] = model
	}
	return out
}
