package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"kabyar/internal/config"
	"kabyar/internal/domain/models"
	"kabyar/internal/httputil"
	"kabyar/internal/prompt"
	"kabyar/internal/service/credits"
)

type detectRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (req *detectRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Text, validation.Required,
			validation.Length(config.MinDetectTextLength, config.MaxDetectTextLength)),
		validation.Field(&req.Provider, providerRule()),
		validation.Field(&req.Model, tierRule()),
	)
}

// detectIndicator is one flagged passage in the verdict.
type detectIndicator struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// detectResult is the scored verdict the detector prompt asks the model
// to emit as JSON.
type detectResult struct {
	AIScore     float64           `json:"aiScore"`
	HumanScore  float64           `json:"humanScore"`
	Analysis    string            `json:"analysis"`
	Indicators  []detectIndicator `json:"indicators"`
	Suggestions []string          `json:"suggestions"`
}

// Detect scores text for AI authorship. Unlike the generation endpoints
// this is a buffered call: the whole completion is needed to parse the
// verdict.
// POST /api/ai/detect
func (h *AIHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	claims := httputil.GetClaims(r)
	cost := credits.EstimateWords(credits.CountWords(req.Text))
	if _, err := h.credits.Reserve(r.Context(), claims, cost); err != nil {
		handleError(w, err)
		return
	}

	msgs := []models.Message{
		{Role: models.RoleSystem, Content: prompt.Detector()},
		{Role: models.RoleUser, Content: fmt.Sprintf("Analyze this text for AI-generated content:\n\n%s", req.Text)},
	}

	resp, err := h.registry.Chat(r.Context(), req.Provider, msgs, req.Model)
	if err != nil {
		h.logger.Error("detection failed", "provider", req.Provider, "error", err)
		handleError(w, err)
		return
	}

	var result detectResult
	if err := json.Unmarshal([]byte(resp.Content), &result); err != nil {
		// Model ignored the JSON instruction; fall back to a neutral
		// score with the raw text as analysis.
		result = detectResult{
			AIScore:     50,
			HumanScore:  50,
			Analysis:    resp.Content,
			Indicators:  []detectIndicator{},
			Suggestions: []string{},
		}
	}
	if result.Indicators == nil {
		result.Indicators = []detectIndicator{}
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
