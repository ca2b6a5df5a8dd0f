package httpx

import (
	"errors"
	"net/http"

	"github.com/strata-erp/strata-reports/internal/shared"
)

// FailError maps domain sentinel errors onto envelope failures. Handlers
// with more specific messages map their own; this is the fallback path.
func FailError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, shared.ErrConflict):
		Fail(w, http.StatusConflict, "already exists")
	case errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, shared.ErrSessionExpired):
		Fail(w, http.StatusUnauthorized, "session expired, log in again")
	case errors.Is(err, shared.ErrNoCompanySelected):
		Fail(w, http.StatusConflict, "no company selected")
	default:
		Fail(w, http.StatusInternalServerError, "internal error")
	}
}
