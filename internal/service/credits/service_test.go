package credits

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"kabyar/internal/domain"
	"kabyar/internal/domain/models"
)

// fakeProfileRepo keeps profiles in memory with the same optimistic
// guard semantics as the Postgres implementation.
type fakeProfileRepo struct {
	profiles map[string]*models.UserProfile
}

func newFakeRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*models.UserProfile)}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, userID string) (*models.UserProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, profile *models.UserProfile) error {
	cp := *profile
	f.profiles[profile.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) UpdateCredits(_ context.Context, userID string, prevUsed int, profile *models.UserProfile) (bool, error) {
	p, ok := f.profiles[userID]
	if !ok || p.DailyCreditsUsed != prevUsed {
		return false, nil
	}
	p.DailyCreditsUsed = profile.DailyCreditsUsed
	p.CreditsResetAt = profile.CreditsResetAt
	p.DailyCredits = profile.DailyCredits
	return true, nil
}

func testClaims(userID string) *models.SessionClaims {
	return &models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Email:            "student@example.com",
		Name:             "Student",
		Role:             "authenticated",
	}
}

func newTestService(repo *fakeProfileRepo) *Service {
	return NewService(repo, "grok", slog.Default())
}

func TestEstimateWords(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 3},
		{50, 3},
		{1000, 3},
		{1001, 6},
		{2500, 9},
		{5000, 15},
	}
	for _, tt := range tests {
		if got := EstimateWords(tt.words); got != tt.want {
			t.Errorf("EstimateWords(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestProfileSeedsDefaultsOnFirstUse(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	profile, err := svc.Profile(context.Background(), testClaims("u1"))
	if err != nil {
		t.Fatalf("profile: %v", err)
	}

	if profile.Plan != models.PlanFree {
		t.Errorf("plan = %q, want free", profile.Plan)
	}
	if profile.DailyCredits != 50 {
		t.Errorf("daily credits = %d, want 50", profile.DailyCredits)
	}
	if profile.AIProvider != "grok" {
		t.Errorf("provider = %q, want grok", profile.AIProvider)
	}
	if profile.Email != "student@example.com" {
		t.Errorf("email = %q", profile.Email)
	}
	if _, ok := repo.profiles["u1"]; !ok {
		t.Error("profile row was not persisted")
	}
}

func TestReserveDeductsCredits(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	claims := testClaims("u1")

	profile, err := svc.Reserve(context.Background(), claims, 9)
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if profile.DailyCreditsUsed != 9 {
		t.Errorf("used = %d, want 9", profile.DailyCreditsUsed)
	}
	if got := profile.CreditsRemaining(); got != 41 {
		t.Errorf("remaining = %d, want 41", got)
	}
}

func TestReserveShortfallReturnsCreditError(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	claims := testClaims("u1")

	if _, err := svc.Reserve(context.Background(), claims, 48); err != nil {
		t.Fatalf("first reserve: %v", err)
	}

	_, err := svc.Reserve(context.Background(), claims, 6)
	var credErr *domain.CreditError
	if !errors.As(err, &credErr) {
		t.Fatalf("err = %v, want CreditError", err)
	}
	if credErr.Needed != 6 || credErr.Remaining != 2 {
		t.Errorf("credit error = %d needed / %d remaining, want 6/2", credErr.Needed, credErr.Remaining)
	}
	if !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Error("credit error does not match the sentinel")
	}

	// The failed reserve must not have spent anything.
	if repo.profiles["u1"].DailyCreditsUsed != 48 {
		t.Errorf("used = %d after failed reserve, want 48", repo.profiles["u1"].DailyCreditsUsed)
	}
}

func TestReserveUnlimitedPlanIsNotMetered(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	claims := testClaims("u1")

	if _, err := svc.Profile(context.Background(), claims); err != nil {
		t.Fatal(err)
	}
	repo.profiles["u1"].Plan = models.PlanUnlimited

	profile, err := svc.Reserve(context.Background(), claims, 500)
	if err != nil {
		t.Fatalf("reserve on unlimited plan: %v", err)
	}
	if profile.DailyCreditsUsed != 0 {
		t.Errorf("used = %d on unlimited plan, want 0", profile.DailyCreditsUsed)
	}
}

func TestDailyWindowResets(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	claims := testClaims("u1")

	if _, err := svc.Reserve(context.Background(), claims, 50); err != nil {
		t.Fatalf("exhaust allowance: %v", err)
	}
	if _, err := svc.Reserve(context.Background(), claims, 3); !errors.Is(err, domain.ErrInsufficientCredits) {
		t.Fatalf("err = %v, want insufficient credits", err)
	}

	// Run the window out.
	repo.profiles["u1"].CreditsResetAt = time.Now().UTC().Add(-time.Minute)

	profile, err := svc.Reserve(context.Background(), claims, 3)
	if err != nil {
		t.Fatalf("reserve after reset: %v", err)
	}
	if profile.DailyCreditsUsed != 3 {
		t.Errorf("used = %d after reset, want 3", profile.DailyCreditsUsed)
	}
	if !profile.CreditsResetAt.After(time.Now().UTC()) {
		t.Error("reset time was not advanced")
	}
}

func TestRewardExtendsAllowance(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	claims := testClaims("u1")

	if _, err := svc.Reserve(context.Background(), claims, 50); err != nil {
		t.Fatalf("exhaust allowance: %v", err)
	}

	profile, err := svc.Reward(context.Background(), claims, AdReward)
	if err != nil {
		t.Fatalf("reward: %v", err)
	}
	if got := profile.CreditsRemaining(); got != 5 {
		t.Errorf("remaining after reward = %d, want 5", got)
	}

	// The reward should cover one more flat-cost generation.
	if _, err := svc.Reserve(context.Background(), claims, FlatCost); err != nil {
		t.Errorf("reserve after reward: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	claims := testClaims("u1")

	profile, err := svc.UpdateProfile(context.Background(), claims, "New Name", "claude")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if profile.Name != "New Name" {
		t.Errorf("name = %q", profile.Name)
	}
	if profile.AIProvider != "claude" {
		t.Errorf("provider = %q", profile.AIProvider)
	}

	// Empty fields leave existing values alone.
	profile, err = svc.UpdateProfile(context.Background(), claims, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if profile.Name != "New Name" || profile.AIProvider != "claude" {
		t.Errorf("empty update changed fields: %q %q", profile.Name, profile.AIProvider)
	}
}
