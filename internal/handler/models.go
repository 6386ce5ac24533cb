package handler

import (
	"net/http"

	"kabyar/internal/httputil"
	"kabyar/internal/provider"
)

type modelsResponse struct {
	DefaultProvider string                       `json:"defaultProvider"`
	Tiers           []string                     `json:"tiers"`
	Providers       map[string]map[string]string `json:"providers"`
}

// Models lists the provider/tier/model catalog for the client's
// provider picker.
// GET /api/ai/models
func (h *AIHandler) Models(w http.ResponseWriter, r *http.Request) {
	catalog := h.registry.Catalog()

	providers := make(map[string]map[string]string)
	for _, name := range []string{provider.NameOpenAI, provider.NameClaude, provider.NameGemini, provider.NameGrok, provider.NameThesys} {
		providers[name] = catalog.Models(name)
	}

	httputil.RespondJSON(w, http.StatusOK, modelsResponse{
		DefaultProvider: h.registry.DefaultProvider(),
		Tiers:           []string{provider.TierSmart, provider.TierNormal, provider.TierFast},
		Providers:       providers,
	})
}
