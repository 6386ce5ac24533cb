package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"kabyar/internal/config"
	"kabyar/internal/domain/models"
	"kabyar/internal/httputil"
	"kabyar/internal/service/credits"
)

// ProfileHandler serves the session user's profile and credit ledger.
type ProfileHandler struct {
	credits *credits.Service
	logger  *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(creditSvc *credits.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{credits: creditSvc, logger: logger}
}

type profileUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Image      string `json:"image,omitempty"`
	Plan       string `json:"plan"`
	AIProvider string `json:"aiProvider"`
}

func toProfileUser(p *models.UserProfile) profileUser {
	return profileUser{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Image:      p.Image,
		Plan:       p.Plan,
		AIProvider: p.AIProvider,
	}
}

// GetProfile returns the session user's stored fields
// GET /api/user/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.credits.Profile(r.Context(), httputil.GetClaims(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"user": toProfileUser(profile),
	})
}

// updateProfileRequest distinguishes absent fields (keep the stored
// value) from explicitly-sent ones, which must then pass validation.
type updateProfileRequest struct {
	Name       httputil.OptionalString `json:"name"`
	AIProvider httputil.OptionalString `json:"aiProvider"`
}

func (req *updateProfileRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.By(optionalField(
			validation.Required, validation.Length(2, config.MaxProfileNameLength)))),
		validation.Field(&req.AIProvider, validation.By(optionalField(
			validation.Required, providerRule()))),
	)
}

// optionalField applies rules to a present optional string. Absent
// fields pass; JSON null is rejected since neither field is clearable.
func optionalField(rules ...validation.Rule) validation.RuleFunc {
	return func(value interface{}) error {
		o, _ := value.(httputil.OptionalString)
		if !o.Present {
			return nil
		}
		if o.Value == nil {
			return errors.New("must not be null")
		}
		return validation.Validate(*o.Value, rules...)
	}
}

// UpdateProfile stores a new display name and/or preferred provider
// PUT /api/user/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	profile, err := h.credits.UpdateProfile(r.Context(), httputil.GetClaims(r),
		req.Name.StringOrDefault(""), req.AIProvider.StringOrDefault(""))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"user":    toProfileUser(profile),
	})
}

type creditsSummary struct {
	Plan             string    `json:"plan"`
	DailyCredits     int       `json:"dailyCredits"`
	DailyCreditsUsed int       `json:"dailyCreditsUsed"`
	CreditsRemaining int       `json:"creditsRemaining"`
	CreditsResetAt   time.Time `json:"creditsResetAt"`
}

func toCreditsSummary(p *models.UserProfile) creditsSummary {
	return creditsSummary{
		Plan:             p.Plan,
		DailyCredits:     p.DailyCredits,
		DailyCreditsUsed: p.DailyCreditsUsed,
		CreditsRemaining: p.CreditsRemaining(),
		CreditsResetAt:   p.CreditsResetAt,
	}
}

// GetCredits returns today's credit ledger
// GET /api/user/credits
func (h *ProfileHandler) GetCredits(w http.ResponseWriter, r *http.Request) {
	profile, err := h.credits.Profile(r.Context(), httputil.GetClaims(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, toCreditsSummary(profile))
}

type rewardRequest struct {
	Source string `json:"source"`
	Amount int    `json:"amount"`
}

func (req *rewardRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Source, validation.In("rewarded_ad")),
		validation.Field(&req.Amount, validation.Min(0), validation.Max(credits.AdReward)),
	)
}

// RewardCredits grants the rewarded-ad credit bonus
// POST /api/user/credits/reward
func (h *ProfileHandler) RewardCredits(w http.ResponseWriter, r *http.Request) {
	var req rewardRequest
	if !parseAndValidate(w, r, &req) {
		return
	}

	profile, err := h.credits.Reward(r.Context(), httputil.GetClaims(r), req.Amount)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, toCreditsSummary(profile))
}
