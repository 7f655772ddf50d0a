package httpx

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lumenlive/backend/internal/apperr"
)

type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details any) {
	WriteJSON(w, status, APIError{Error: msg, Code: code, Details: details})
}

// WriteAppErr maps a typed error to its HTTP shape; anything unclassified
// becomes a 500 and is logged rather than leaked to the caller.
func WriteAppErr(w http.ResponseWriter, err error) {
	if e := apperr.From(err); e != nil {
		WriteError(w, apperr.HTTPStatus(err), e.Code, e.Msg, nil)
		return
	}
	slog.Error("unhandled error", "err", err)
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
}
