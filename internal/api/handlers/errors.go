package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/bank-transactions/internal/api/httpx"
	"github.com/baharkarakas/bank-transactions/internal/api/validate"
	"github.com/baharkarakas/bank-transactions/internal/services"
)

var statusByCode = map[string]int{
	"invalid_request":     http.StatusBadRequest,
	"account_not_found":   http.StatusBadRequest,
	"insufficient_funds":  http.StatusBadRequest,
	"invalid_channel":     http.StatusBadRequest,
	"duplicate_reference": http.StatusConflict,
	"account_exists":      http.StatusConflict,
	"persistence_failure": http.StatusInternalServerError,
	"status_unresolved":   http.StatusInternalServerError,
}

// writeServiceError is the single place service errors become responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	code := services.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	var details interface{}
	var verrs validate.Errs
	if errors.As(err, &verrs) {
		details = verrs
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "code", code, "err", err)
		if code == "internal_error" {
			msg = "internal error"
		}
	}
	httpx.WriteError(w, status, code, msg, details)
}
