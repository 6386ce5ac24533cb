package handler

import (
	"encoding/base64"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"kabyar/internal/config"
	"kabyar/internal/httputil"
	"kabyar/internal/service/pptx"
)

type generatePPTXRequest struct {
	Topic  string       `json:"topic"`
	Slides []pptx.Slide `json:"slides"`
	Style  string       `json:"style"`
}

func (req *generatePPTXRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Topic, validation.Required,
			validation.Length(1, config.MaxEssayTopicLength)),
		validation.Field(&req.Slides, validation.Required),
		validation.Field(&req.Style, validation.In("professional", "modern", "minimal", "creative")),
	)
}

type generatePPTXResponse struct {
	Success  bool   `json:"success"`
	Data     string `json:"data"`
	Filename string `json:"filename"`
}

// GeneratePPTX builds a .pptx from a slide outline and returns it
// base64-encoded for the client to download.
// POST /api/ai/presentation/generate-pptx
func (h *AIHandler) GeneratePPTX(w http.ResponseWriter, r *http.Request) {
	var req generatePPTXRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	data, err := pptx.Build(req.Topic, req.Slides, req.Style)
	if err != nil {
		h.logger.Error("pptx build failed", "topic", req.Topic, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to generate presentation")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, generatePPTXResponse{
		Success:  true,
		Data:     base64.StdEncoding.EncodeToString(data),
		Filename: pptx.Filename(req.Topic),
	})
}
