package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/resilience/admission"
	"github.com/craftly/craftd/internal/resilience/apperr"
)

type ctxKey int

const requestIDKey ctxKey = iota

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// clientKey identifies the caller for admission purposes: API key when
// present, remote IP otherwise.
func clientKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withRequestID assigns each request a UUID, echoed in X-Request-ID.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withLogging emits one structured line per request.
func withLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug("Request handled",
			"request_id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// tierResolver maps a request to its admission tier.
type tierResolver func(r *http.Request) admission.Tier

// withAdmission gatekeeps the request before any handler logic runs. A
// deny decision becomes a RATE_LIMIT_ERROR through the translator so the
// response shape stays uniform.
func (s *Server) withAdmission(cost int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := s.resolveTier(r)
		decision := s.admission.Admit(clientKey(r), tier, cost)
		if !decision.Allowed {
			err := apperr.RateLimit(decision.RetryAfter).WithMeta("remaining", decision.Remaining)
			s.translator.Write(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) resolveTier(r *http.Request) admission.Tier {
	if s.tiers == nil {
		return admission.TierBasic
	}
	return s.tiers(r)
}
