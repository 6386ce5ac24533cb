package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"kabyar/internal/domain/models"
	"kabyar/internal/domain/repositories"
)

// PostgresProfileRepository implements the ProfileRepository interface
type PostgresProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProfileRepository creates a new PostgresProfileRepository
func NewProfileRepository(config *RepositoryConfig) repositories.ProfileRepository {
	return &PostgresProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// GetByID retrieves a profile for a specific user
func (r *PostgresProfileRepository) GetByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
		SELECT id, name, email, image, plan, ai_provider,
		       daily_credits, daily_credits_used, credits_reset_at,
		       created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Users)

	var profile models.UserProfile
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Image,
		&profile.Plan,
		&profile.AIProvider,
		&profile.DailyCredits,
		&profile.DailyCreditsUsed,
		&profile.CreditsResetAt,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			// No row yet for this user - caller seeds defaults
			return nil, nil
		}
		return nil, fmt.Errorf("get user profile: %w", err)
	}

	return &profile, nil
}

// Upsert creates or updates a profile row
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, email, image, plan, ai_provider,
		                daily_credits, daily_credits_used, credits_reset_at,
		                created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			image = EXCLUDED.image,
			plan = EXCLUDED.plan,
			ai_provider = EXCLUDED.ai_provider,
			daily_credits = EXCLUDED.daily_credits,
			daily_credits_used = EXCLUDED.daily_credits_used,
			credits_reset_at = EXCLUDED.credits_reset_at,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Image,
		profile.Plan,
		profile.AIProvider,
		profile.DailyCredits,
		profile.DailyCreditsUsed,
		profile.CreditsResetAt,
		profile.CreatedAt,
		profile.UpdatedAt,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert user profile: %w", err)
	}

	return nil
}

// UpdateCredits writes the credit ledger fields with an optimistic guard
// on the previously observed used value, so two concurrent generations
// cannot both spend the same credits.
func (r *PostgresProfileRepository) UpdateCredits(ctx context.Context, userID string, prevUsed int, profile *models.UserProfile) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET daily_credits_used = $1,
		    credits_reset_at = $2,
		    updated_at = NOW()
		WHERE id = $3 AND daily_credits_used = $4
	`, r.tables.Users)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		profile.DailyCreditsUsed,
		profile.CreditsResetAt,
		userID,
		prevUsed,
	)
	if err != nil {
		return false, fmt.Errorf("update user credits: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
