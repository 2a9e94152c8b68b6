package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"slices"

	"github.com/epreen/zimapp-web-sub001/pkg/logger"
)

// Probe reports whether a dependency is usable.
type Probe func(context.Context) error

// LivenessHandler always answers 200 "ALIVE".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ALIVE"))
	}
}

// ReadinessHandler runs every probe against the request context and answers
// 200 with a per-dependency status map when all pass, 503 otherwise.
func ReadinessHandler(log *slog.Logger, probes map[string]Probe) http.HandlerFunc {
	log = logger.OrDiscard(log)
	names := slices.Sorted(maps.Keys(probes))

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := make(map[string]string, len(names))
		code := http.StatusOK

		for _, name := range names {
			if err := probes[name](ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed", slog.String("dependency", name), logger.Error(err))
				status[name] = "NOT_READY"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "READY"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}
