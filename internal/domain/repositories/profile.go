package repositories

import (
	"context"

	"kabyar/internal/domain/models"
)

// ProfileRepository defines the interface for user profile data access.
// User ids are the JWT subject claims issued by the auth provider.
type ProfileRepository interface {
	// GetByID retrieves a profile. Returns nil if the user has no row yet.
	GetByID(ctx context.Context, userID string) (*models.UserProfile, error)

	// Upsert creates or updates the full profile row.
	Upsert(ctx context.Context, profile *models.UserProfile) error

	// UpdateCredits writes only the credit ledger fields, guarding against
	// lost updates from concurrent generations with a compare on the
	// previous used value. Returns false when the guard failed.
	UpdateCredits(ctx context.Context, userID string, prevUsed int, profile *models.UserProfile) (bool, error)
}
