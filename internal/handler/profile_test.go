package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kabyar/internal/domain/models"
	"kabyar/internal/provider"
	"kabyar/internal/service/credits"
)

func testProfileHandler(t *testing.T, repo *memProfileRepo) *ProfileHandler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	return NewProfileHandler(credits.NewService(repo, provider.NameGrok, logger), logger)
}

func seedProfile(repo *memProfileRepo) {
	repo.profiles["user-1"] = &models.UserProfile{
		ID:             "user-1",
		Name:           "Old Name",
		Email:          "user@example.com",
		Plan:           models.PlanFree,
		AIProvider:     provider.NameClaude,
		DailyCredits:   50,
		CreditsResetAt: time.Now().Add(12 * time.Hour),
	}
}

func TestUpdateProfileOmittedFieldsKeepStoredValues(t *testing.T) {
	repo := newMemProfileRepo()
	seedProfile(repo)
	h := testProfileHandler(t, repo)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/user/profile", `{"name":"New Name"}`)
	h.UpdateProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	stored := repo.profiles["user-1"]
	if stored.Name != "New Name" {
		t.Errorf("name = %q, want New Name", stored.Name)
	}
	if stored.AIProvider != provider.NameClaude {
		t.Errorf("aiProvider = %q, want unchanged claude", stored.AIProvider)
	}
}

func TestUpdateProfileRejectsExplicitEmptyName(t *testing.T) {
	repo := newMemProfileRepo()
	seedProfile(repo)
	h := testProfileHandler(t, repo)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/user/profile", `{"name":""}`)
	h.UpdateProfile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
	}
	body := decodeProblem(t, rec)
	fieldErrs, _ := body["errors"].(map[string]interface{})
	if _, ok := fieldErrs["name"]; !ok {
		t.Errorf("field errors missing name: %v", body)
	}
	if repo.profiles["user-1"].Name != "Old Name" {
		t.Error("stored name changed on rejected update")
	}
}

func TestUpdateProfileRejectsNullField(t *testing.T) {
	repo := newMemProfileRepo()
	seedProfile(repo)
	h := testProfileHandler(t, repo)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/user/profile", `{"aiProvider":null}`)
	h.UpdateProfile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
	}
}

func TestUpdateProfileRejectsUnknownProvider(t *testing.T) {
	repo := newMemProfileRepo()
	seedProfile(repo)
	h := testProfileHandler(t, repo)

	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPut, "/api/user/profile", `{"aiProvider":"alexa"}`)
	h.UpdateProfile(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
	}
	if repo.profiles["user-1"].AIProvider != provider.NameClaude {
		t.Error("stored provider changed on rejected update")
	}
}
