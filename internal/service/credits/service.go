// Package credits meters AI tool usage against each user's daily
// allowance. Costs are charged before any provider call is made; a
// shortfall surfaces as a CreditError the HTTP layer maps to 402.
package credits

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kabyar/internal/domain"
	"kabyar/internal/domain/models"
	"kabyar/internal/domain/repositories"
)

const (
	// FlatCost is charged for single-turn tools: tutor chat, homework
	// help, study guides, presentations.
	FlatCost = 3

	// AdReward is granted per completed rewarded ad.
	AdReward = 5

	// resetInterval is how long a daily allowance window lasts,
	// measured from first use.
	resetInterval = 24 * time.Hour

	// reserveRetries bounds the optimistic-update loop when two
	// generations race on the same ledger row.
	reserveRetries = 3
)

// EstimateWords prices a word-count based tool (essays, detection,
// humanizing): 3 credits per started thousand words, minimum 3.
func EstimateWords(words int) int {
	cost := (words + 999) / 1000 * 3
	if cost < FlatCost {
		return FlatCost
	}
	return cost
}

// CountWords counts whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Service owns the per-user credit ledger.
type Service struct {
	repo            repositories.ProfileRepository
	defaultProvider string
	logger          *slog.Logger
}

// NewService creates a credits service. defaultProvider seeds the
// preferred provider on first-seen users.
func NewService(repo repositories.ProfileRepository, defaultProvider string, logger *slog.Logger) *Service {
	return &Service{repo: repo, defaultProvider: defaultProvider, logger: logger}
}

// Profile returns the user's profile, creating a row with plan defaults
// on first use and rolling the daily window forward when it has lapsed.
func (s *Service) Profile(ctx context.Context, claims *models.SessionClaims) (*models.UserProfile, error) {
	profile, err := s.repo.GetByID(ctx, claims.GetUserID())
	if err != nil {
		return nil, err
	}

	if profile == nil {
		now := time.Now().UTC()
		profile = &models.UserProfile{
			ID:             claims.GetUserID(),
			Name:           claims.Name,
			Email:          claims.Email,
			Image:          claims.Picture,
			Plan:           models.PlanFree,
			AIProvider:     s.defaultProvider,
			DailyCredits:   models.DailyCreditsForPlan(models.PlanFree),
			CreditsResetAt: now.Add(resetInterval),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.repo.Upsert(ctx, profile); err != nil {
			return nil, fmt.Errorf("seed profile: %w", err)
		}
		return profile, nil
	}

	prevUsed := profile.DailyCreditsUsed
	if s.rollWindow(profile) {
		if _, err := s.repo.UpdateCredits(ctx, profile.ID, prevUsed, profile); err != nil {
			return nil, err
		}
	}

	return profile, nil
}

// UpdateProfile stores a new display name and/or preferred provider.
func (s *Service) UpdateProfile(ctx context.Context, claims *models.SessionClaims, name, aiProvider string) (*models.UserProfile, error) {
	profile, err := s.Profile(ctx, claims)
	if err != nil {
		return nil, err
	}

	if name != "" {
		profile.Name = name
	}
	if aiProvider != "" {
		profile.AIProvider = aiProvider
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Reserve charges cost against the user's daily allowance before a
// generation starts. Unlimited plans are never metered. When the
// allowance is short it returns a CreditError carrying how many credits
// the request needs and how many remain.
func (s *Service) Reserve(ctx context.Context, claims *models.SessionClaims, cost int) (*models.UserProfile, error) {
	for attempt := 0; attempt < reserveRetries; attempt++ {
		profile, err := s.Profile(ctx, claims)
		if err != nil {
			return nil, err
		}

		if profile.Plan == models.PlanUnlimited {
			return profile, nil
		}

		remaining := profile.CreditsRemaining()
		if remaining < cost {
			return nil, &domain.CreditError{Needed: cost, Remaining: remaining}
		}

		prevUsed := profile.DailyCreditsUsed
		profile.DailyCreditsUsed += cost
		ok, err := s.repo.UpdateCredits(ctx, profile.ID, prevUsed, profile)
		if err != nil {
			return nil, err
		}
		if ok {
			return profile, nil
		}
		// Another request moved the ledger first; re-read and retry.
	}

	return nil, fmt.Errorf("reserve credits: %w", domain.ErrValidation)
}

// Reward grants amount extra credits for a completed ad by reducing the
// used counter. The counter may go negative, which extends today's
// allowance past the plan cap, matching how rewards stack.
func (s *Service) Reward(ctx context.Context, claims *models.SessionClaims, amount int) (*models.UserProfile, error) {
	if amount <= 0 {
		amount = AdReward
	}

	for attempt := 0; attempt < reserveRetries; attempt++ {
		profile, err := s.Profile(ctx, claims)
		if err != nil {
			return nil, err
		}

		if profile.Plan == models.PlanUnlimited {
			return profile, nil
		}

		prevUsed := profile.DailyCreditsUsed
		profile.DailyCreditsUsed -= amount
		ok, err := s.repo.UpdateCredits(ctx, profile.ID, prevUsed, profile)
		if err != nil {
			return nil, err
		}
		if ok {
			s.logger.Info("granted ad reward", "user_id", profile.ID, "amount", amount)
			return profile, nil
		}
	}

	return nil, fmt.Errorf("grant reward: %w", domain.ErrValidation)
}

// rollWindow resets the ledger when the daily window has lapsed.
// Reports whether a reset happened.
func (s *Service) rollWindow(profile *models.UserProfile) bool {
	now := time.Now().UTC()
	if now.Before(profile.CreditsResetAt) {
		return false
	}
	profile.DailyCreditsUsed = 0
	profile.DailyCredits = models.DailyCreditsForPlan(profile.Plan)
	profile.CreditsResetAt = now.Add(resetInterval)
	return true
}
