package models

import "time"

// Subscription plans. Plan controls the daily credit allowance.
const (
	PlanFree      = "free"
	PlanPro       = "pro"
	PlanUnlimited = "unlimited"
)

// DailyCreditsForPlan returns the daily allowance for a plan.
// Unlimited plans are not metered; returns -1.
func DailyCreditsForPlan(plan string) int {
	switch plan {
	case PlanPro:
		return 500
	case PlanUnlimited:
		return -1
	default:
		return 50
	}
}

// UserProfile holds the session user's stored fields plus the
// daily credit ledger.
type UserProfile struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Image            string    `json:"image,omitempty"`
	Plan             string    `json:"plan"`
	AIProvider       string    `json:"aiProvider"`
	DailyCredits     int       `json:"dailyCredits"`
	DailyCreditsUsed int       `json:"dailyCreditsUsed"`
	CreditsResetAt   time.Time `json:"creditsResetAt"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CreditsRemaining returns the credits left today. Unlimited plans
// report -1.
func (p *UserProfile) CreditsRemaining() int {
	if p.Plan == PlanUnlimited {
		return -1
	}
	remaining := p.DailyCredits - p.DailyCreditsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
