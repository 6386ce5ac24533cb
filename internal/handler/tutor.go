package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"kabyar/internal/domain/models"
	"kabyar/internal/httputil"
	"kabyar/internal/provider"
	"kabyar/internal/relay"
	"kabyar/internal/service/credits"
	"kabyar/internal/threads"
)

// TutorHandler serves the interactive tutor: a generative-UI chat
// relayed through the thesys endpoint with per-thread history and
// stop/abort handling.
type TutorHandler struct {
	registry *provider.Registry
	store    *threads.Store
	sessions *relay.Manager
	credits  *credits.Service
	logger   *slog.Logger
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(registry *provider.Registry, store *threads.Store, sessions *relay.Manager, creditSvc *credits.Service, logger *slog.Logger) *TutorHandler {
	return &TutorHandler{
		registry: registry,
		store:    store,
		sessions: sessions,
		credits:  creditSvc,
		logger:   logger,
	}
}

type tutorPrompt struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tutorRequest struct {
	Prompt     tutorPrompt `json:"prompt"`
	ThreadID   string      `json:"threadId"`
	ResponseID string      `json:"responseId"`
	Model      string      `json:"model"`
}

func (req *tutorRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Prompt, validation.By(func(interface{}) error {
			if req.Prompt.Content == "" {
				return errors.New("content is required")
			}
			if req.Prompt.Role != "" && !models.ValidRole(req.Prompt.Role) {
				return errors.New("unknown role")
			}
			return nil
		})),
		validation.Field(&req.ThreadID, validation.Required),
		validation.Field(&req.Model, tierRule()),
	)
}

// Stream relays one tutor turn: append the user message, stream the
// completion back, and persist the assistant message only if the
// generation completes naturally. A client abort before the stream
// opens gets 499; mid-stream it silently discards the partial output.
// POST /api/ai/thesys
func (h *TutorHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req tutorRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	claims := httputil.GetClaims(r)
	if _, err := h.credits.Reserve(r.Context(), claims, credits.FlatCost); err != nil {
		handleError(w, err)
		return
	}

	role := req.Prompt.Role
	if role == "" {
		role = models.RoleUser
	}
	h.store.AppendWithID(req.ThreadID, req.Prompt.ID, role, req.Prompt.Content)
	history := h.store.History(req.ThreadID)

	if r.Context().Err() != nil {
		httputil.RespondError(w, statusClientClosedRequest, "Request cancelled")
		return
	}

	ch, err := h.registry.Stream(r.Context(), provider.NameThesys, history, req.Model)
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	session := h.sessions.Session(req.ThreadID)
	err = session.Send(r.Context(), ch,
		func(text string) error {
			if _, err := io.WriteString(w, text); err != nil {
				return err
			}
			if flusher != nil {
				flusher.Flush()
			}
			return nil
		},
		func(text string) {
			if text != "" {
				h.store.AppendWithID(req.ThreadID, req.ResponseID, models.RoleAssistant, text)
			}
		})
	if err != nil {
		h.logger.Error("tutor stream failed", "thread_id", req.ThreadID, "error", err)
	}
}

// Stop cancels the in-flight generation for a thread; its message is
// finalized to the stop sentinel immediately.
// POST /api/ai/thesys/threads/{id}/stop
func (h *TutorHandler) Stop(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	if !h.sessions.Stop(threadID) {
		httputil.RespondError(w, http.StatusNotFound, "no session for thread")
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// DeleteThread removes a thread's history and stops any in-flight
// generation for it.
// DELETE /api/ai/thesys/threads/{id}
func (h *TutorHandler) DeleteThread(w http.ResponseWriter, r *http.Request) {
	threadID := r.PathValue("id")
	h.sessions.Remove(threadID)
	if !h.store.Delete(threadID) {
		httputil.RespondError(w, http.StatusNotFound, "thread not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
