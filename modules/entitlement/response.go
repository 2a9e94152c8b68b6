package entitlement

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/epreen/zimapp-web-sub001/pkg/logger"
)

// envelope is the JSON body of every response.
type envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *errorDetail `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.DebugContext(r.Context(), "failed to write response", logger.Error(err))
	}
}

func writeData(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, data any) {
	writeJSON(w, r, log, status, envelope{Data: data})
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, status int, code, message string) {
	writeJSON(w, r, log, status, envelope{Error: &errorDetail{Code: code, Message: message}})
}
