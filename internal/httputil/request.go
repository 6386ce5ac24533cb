package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"

	"kabyar/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is size-limited; uploaded files travel inline as data URLs, so
// the cap must cover a few megabytes of base64.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	// Unknown fields are tolerated: clients send UI-only bookkeeping
	// fields alongside the request. Validation happens downstream via
	// per-request Validate() rules.

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}
