package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/queued-io/queued/internal/domain"
)

// WriteError maps a core error onto an HTTP status code and writes the
// error message as a plain-text body. Client faults log at warn, anything
// unmapped at error.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrPrecondition):
		status = http.StatusBadRequest
	}

	if status < http.StatusInternalServerError {
		logger.Warn("request failed",
			"status", status,
			"error", err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
	} else {
		logger.Error("request error",
			"status", status,
			"error", err.Error(),
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(err.Error()))
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
