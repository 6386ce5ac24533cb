package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"kabyar/internal/domain"
	"kabyar/internal/httputil"
)

// statusClientClosedRequest mirrors nginx's code for a client that went
// away before the response started.
const statusClientClosedRequest = 499

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var credErr *domain.CreditError
	var verrs validation.Errors
	var httpErr domain.HTTPError

	switch {
	case errors.As(err, &credErr):
		httputil.RespondErrorWithExtras(w, http.StatusPaymentRequired, credErr.Error(), map[string]interface{}{
			"creditsNeeded":    credErr.Needed,
			"creditsRemaining": credErr.Remaining,
		})
	case errors.As(err, &verrs):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, "invalid input", map[string]interface{}{
			"errors": verrs,
		})
	case errors.Is(err, domain.ErrProviderNotConfigured):
		httputil.RespondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseAndValidate decodes the JSON body into dest and runs its
// validation rules. Responds on failure and reports whether to continue.
func parseAndValidate(w http.ResponseWriter, r *http.Request, dest interface {
	Validate() error
}) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := dest.Validate(); err != nil {
		handleError(w, err)
		return false
	}
	return true
}
