package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondErrorTitles(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantTitle string
	}{
		{"standard code", http.StatusPaymentRequired, "Payment Required"},
		{"client closed request", 499, "Client Closed Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			RespondError(rec, tt.status, "detail text")

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["title"] != tt.wantTitle {
				t.Errorf("title = %q, want %q", body["title"], tt.wantTitle)
			}
			if body["status"] != float64(tt.status) {
				t.Errorf("status field = %v", body["status"])
			}
			if body["detail"] != "detail text" {
				t.Errorf("detail = %q", body["detail"])
			}
		})
	}
}

func TestRespondErrorWithExtrasTopLevelFields(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrorWithExtras(rec, http.StatusPaymentRequired, "not enough credits", map[string]interface{}{
		"creditsNeeded":    6,
		"creditsRemaining": 2,
	})

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["creditsNeeded"] != float64(6) || body["creditsRemaining"] != float64(2) {
		t.Errorf("extras not at top level: %v", body)
	}
}
