package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"kabyar/internal/config"
	"kabyar/internal/domain/models"
	"kabyar/internal/httputil"
	"kabyar/internal/prompt"
	"kabyar/internal/provider"
	"kabyar/internal/service/credits"
)

// AIHandler serves the study-tool generation endpoints. Each endpoint
// builds a feature system prompt, charges credits, and streams the
// completion back as plain text.
type AIHandler struct {
	registry *provider.Registry
	credits  *credits.Service
	logger   *slog.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(registry *provider.Registry, creditSvc *credits.Service, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		registry: registry,
		credits:  creditSvc,
		logger:   logger,
	}
}

func providerRule() validation.Rule {
	return validation.In(provider.NameOpenAI, provider.NameClaude, provider.NameGemini, provider.NameGrok)
}

func tierRule() validation.Rule {
	return validation.In(provider.TierSmart, provider.TierNormal, provider.TierFast)
}

// streamCompletion charges cost, starts the provider stream, and copies
// chunks to the client as they arrive. Response headers go out before the
// first chunk, so provider failures mid-stream can only truncate the body.
func (h *AIHandler) streamCompletion(w http.ResponseWriter, r *http.Request, providerName, tier string, msgs []models.Message, cost int) {
	claims := httputil.GetClaims(r)
	if _, err := h.credits.Reserve(r.Context(), claims, cost); err != nil {
		handleError(w, err)
		return
	}

	ch, err := h.registry.Stream(r.Context(), providerName, msgs, tier)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for chunk := range ch {
		if chunk.Err != nil {
			h.logger.Error("provider stream failed", "provider", providerName, "error", chunk.Err)
			return
		}
		if _, err := io.WriteString(w, chunk.Text); err != nil {
			// Client went away; the registry stream sees the context
			// cancellation and winds down.
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

type chatOptions struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Level   string `json:"level"`
}

type chatRequest struct {
	Messages []models.Message      `json:"messages"`
	Feature  string                `json:"feature"`
	Options  chatOptions           `json:"options"`
	Files    []models.UploadedFile `json:"files"`
	Provider string                `json:"provider"`
	Model    string                `json:"model"`
}

func (req *chatRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Messages, validation.Required, validation.By(validMessages)),
		validation.Field(&req.Feature, validation.Required, validation.In("answer", "homework", "tutor")),
		validation.Field(&req.Files, validation.Length(0, 5)),
		validation.Field(&req.Provider, providerRule()),
		validation.Field(&req.Model, tierRule()),
	)
}

// maxInlineFileChars caps how much of an attached text file reaches the
// prompt.
const maxInlineFileChars = 2000

// fileContext folds request attachments into prompt text: text payloads
// inline (truncated), image and pdf attachments as markers.
func fileContext(files []models.UploadedFile) string {
	var b strings.Builder
	for _, f := range files {
		switch f.Kind {
		case models.FileKindText:
			content := f.Payload
			if len(content) > maxInlineFileChars {
				content = content[:maxInlineFileChars] + "..."
			}
			fmt.Fprintf(&b, "[File: %s]\n%s\n\n", f.Name, content)
		case models.FileKindImage:
			fmt.Fprintf(&b, "[Image attached: %s - I can see this image]\n", f.Name)
		case models.FileKindPDF:
			fmt.Fprintf(&b, "[PDF attached: %s - Please note I cannot read PDF content directly]\n", f.Name)
		}
	}
	return b.String()
}

func validMessages(value interface{}) error {
	msgs, _ := value.([]models.Message)
	for _, m := range msgs {
		if !models.ValidRole(m.Role) {
			return fmt.Errorf("unknown role %q", m.Role)
		}
	}
	return nil
}

// Chat handles answer/homework/tutor conversations
// POST /api/ai/chat
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	var systemPrompt string
	switch req.Feature {
	case "homework":
		systemPrompt = prompt.Homework()
	case "tutor":
		opts := prompt.TutorOptions{
			Subject: req.Options.Subject,
			Topic:   req.Options.Topic,
			Level:   req.Options.Level,
		}
		if opts.Subject == "" {
			opts.Subject = "General"
		}
		if opts.Topic == "" {
			opts.Topic = "General topic"
		}
		if opts.Level == "" {
			opts.Level = "intermediate"
		}
		systemPrompt = prompt.Tutor(opts)
	default:
		systemPrompt = prompt.Answer()
	}

	msgs := append([]models.Message{{Role: models.RoleSystem, Content: systemPrompt}}, req.Messages...)

	// Attachments prepend to the final user turn, mirroring how the
	// client inlines file content into the problem text.
	if ctx := fileContext(req.Files); ctx != "" {
		for i := len(msgs) - 1; i > 0; i-- {
			if msgs[i].Role == models.RoleUser {
				msgs[i].Content = ctx + "\n" + msgs[i].Content
				break
			}
		}
	}

	h.streamCompletion(w, r, req.Provider, req.Model, msgs, credits.FlatCost)
}

type essayRequest struct {
	Topic         string `json:"topic"`
	WordCount     int    `json:"wordCount"`
	AcademicLevel string `json:"academicLevel"`
	CitationStyle string `json:"citationStyle"`
	EssayType     string `json:"essayType"`
	Provider      string `json:"provider"`
	Model         string `json:"model"`
}

func (req *essayRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Topic, validation.Required,
			validation.Length(config.MinEssayTopicLength, config.MaxEssayTopicLength)),
		validation.Field(&req.WordCount, validation.Required,
			validation.Min(config.MinEssayWordCount), validation.Max(config.MaxEssayWordCount)),
		validation.Field(&req.AcademicLevel, validation.Required,
			validation.In("high-school", "igcse", "ged", "othm", "undergraduate", "graduate")),
		validation.Field(&req.CitationStyle, validation.In("apa", "mla", "harvard", "chicago", "none")),
		validation.Field(&req.EssayType, validation.In("argumentative", "expository", "narrative", "descriptive", "persuasive")),
		validation.Field(&req.Provider, providerRule()),
		validation.Field(&req.Model, tierRule()),
	)
}

// Essay generates an essay as a plain-text stream
// POST /api/ai/essay
func (h *AIHandler) Essay(w http.ResponseWriter, r *http.Request) {
	var req essayRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	systemPrompt := prompt.Essay(prompt.EssayOptions{
		Topic:         req.Topic,
		WordCount:     req.WordCount,
		AcademicLevel: req.AcademicLevel,
		CitationStyle: req.CitationStyle,
		EssayType:     req.EssayType,
	})

	msgs := []models.Message{
		{Role: models.RoleSystem, Content: systemPrompt},
		{Role: models.RoleUser, Content: fmt.Sprintf("Please write an essay about: %s", req.Topic)},
	}
	h.streamCompletion(w, r, req.Provider, req.Model, msgs, credits.EstimateWords(req.WordCount))
}

type humanizeRequest struct {
	Text            string `json:"text"`
	Tone            string `json:"tone"`
	Intensity       string `json:"intensity"`
	PreserveMeaning *bool  `json:"preserveMeaning"`
	Provider        string `json:"provider"`
	Model           string `json:"model"`
}

func (req *humanizeRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Text, validation.Required,
			validation.Length(config.MinHumanizeTextLength, config.MaxHumanizeTextLength)),
		validation.Field(&req.Tone, validation.In("formal", "casual", "academic", "natural")),
		validation.Field(&req.Intensity, validation.In("light", "balanced", "heavy")),
		validation.Field(&req.Provider, providerRule()),
		validation.Field(&req.Model, tierRule()),
	)
}

// humanizeUserMessage reinforces the full-rewrite requirement; wording
// tuned alongside the system prompt.
func humanizeUserMessage(text string) string {
	return fmt.Sprintf(`REWRITE THIS TEXT COMPLETELY. Do NOT just edit it - write it fresh in your own words as if you are a human explaining the same ideas. The goal is 0%% AI detection.

TEXT TO REWRITE:
"""
%s
"""

Remember:
- NO AI phrases (Furthermore, Moreover, In conclusion, It is important, etc.)
- USE contractions (don't, can't, it's)
- VARY sentence lengths wildly
- ADD personal voice and opinions
- Write like a real human, not an AI`, text)
}

// Humanize rewrites text to read as human-written, streamed
// POST /api/ai/humanize
func (h *AIHandler) Humanize(w http.ResponseWriter, r *http.Request) {
	var req humanizeRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	tone := req.Tone
	if tone == "" {
		tone = "natural"
	}
	intensity := req.Intensity
	if intensity == "" {
		intensity = "balanced"
	}
	preserve := true
	if req.PreserveMeaning != nil {
		preserve = *req.PreserveMeaning
	}

	systemPrompt := prompt.Humanizer(prompt.HumanizeOptions{
		Tone:            tone,
		Intensity:       intensity,
		PreserveMeaning: preserve,
	})

	msgs := []models.Message{
		{Role: models.RoleSystem, Content: systemPrompt},
		{Role: models.RoleUser, Content: humanizeUserMessage(req.Text)},
	}
	h.streamCompletion(w, r, req.Provider, req.Model, msgs, credits.EstimateWords(credits.CountWords(req.Text)))
}

type studyGuideRequest struct {
	Topic    string `json:"topic"`
	Subject  string `json:"subject"`
	Level    string `json:"level"`
	Format   string `json:"format"`
	Notes    string `json:"notes"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

func (req *studyGuideRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Topic, validation.Required,
			validation.Length(1, config.MaxStudyGuideTopicLength)),
		validation.Field(&req.Subject, validation.Length(0, config.MaxSubjectLength)),
		validation.Field(&req.Format, validation.In("comprehensive", "outline", "flashcards", "questions")),
		validation.Field(&req.Provider, providerRule()),
		validation.Field(&req.Model, tierRule()),
	)
}

// StudyGuide generates a study guide as a plain-text stream
// POST /api/ai/study-guide
func (h *AIHandler) StudyGuide(w http.ResponseWriter, r *http.Request) {
	var req studyGuideRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "general"
	}
	level := req.Level
	if level == "" {
		level = "igcse"
	}
	format := req.Format
	if format == "" {
		format = "comprehensive"
	}

	depth := "comprehensive"
	switch format {
	case "outline":
		depth = "overview"
	case "flashcards", "questions":
		depth = "detailed"
	}

	systemPrompt := prompt.StudyGuide(prompt.StudyGuideOptions{
		Subject:          subject,
		Topic:            req.Topic,
		Depth:            depth,
		IncludeExamples:  format != "flashcards",
		IncludeQuestions: format == "questions" || format == "comprehensive",
	})

	userMessage := fmt.Sprintf("Create a study guide about: %s\nSubject: %s\nLevel: %s\nFormat: %s",
		req.Topic, subject, level, format)
	if req.Notes != "" {
		userMessage += fmt.Sprintf("\nSpecific focus areas: %s", req.Notes)
	}

	msgs := []models.Message{
		{Role: models.RoleSystem, Content: systemPrompt},
		{Role: models.RoleUser, Content: userMessage},
	}
	h.streamCompletion(w, r, req.Provider, req.Model, msgs, credits.FlatCost)
}

type presentationRequest struct {
	Topic        string `json:"topic"`
	SlideCount   int    `json:"slideCount"`
	Audience     string `json:"audience"`
	IncludeNotes bool   `json:"includeNotes"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
}

func (req *presentationRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Topic, validation.Required,
			validation.Length(1, config.MaxEssayTopicLength)),
		validation.Field(&req.SlideCount, validation.Min(0), validation.Max(30)),
		validation.Field(&req.Provider, providerRule()),
		validation.Field(&req.Model, tierRule()),
	)
}

// Presentation generates a slide outline as a plain-text stream
// POST /api/ai/presentation
func (h *AIHandler) Presentation(w http.ResponseWriter, r *http.Request) {
	var req presentationRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	slideCount := req.SlideCount
	if slideCount == 0 {
		slideCount = 10
	}
	audience := req.Audience
	if audience == "" {
		audience = "general"
	}

	systemPrompt := prompt.Presentation(prompt.PresentationOptions{
		Topic:        req.Topic,
		SlideCount:   slideCount,
		Audience:     audience,
		IncludeNotes: req.IncludeNotes,
	})

	msgs := []models.Message{
		{Role: models.RoleSystem, Content: systemPrompt},
		{Role: models.RoleUser, Content: fmt.Sprintf("Create a presentation about: %s", req.Topic)},
	}
	h.streamCompletion(w, r, req.Provider, req.Model, msgs, credits.FlatCost)
}
