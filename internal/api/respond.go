package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/craftly/craftd/internal/observability/metrics"
	"github.com/craftly/craftd/internal/resilience/apperr"
)

// errorResponse is the stable client-facing error shape.
type errorResponse struct {
	Error         string         `json:"error"`
	ErrorCode     string         `json:"errorCode,omitempty"`
	Details       string         `json:"details,omitempty"`
	Retryable     *bool          `json:"retryable,omitempty"`
	RateLimitInfo map[string]any `json:"rateLimitInfo,omitempty"`

	// Populated only in development configuration.
	Cause string         `json:"cause,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
}

// translator is the single point where a classified error becomes an
// HTTP response and a log entry. Nothing downstream of it retries.
type translator struct {
	log        *slog.Logger
	production bool
}

// Write logs err once with full request context and renders the
// client-safe subset. Unrecognized error shapes default to 500.
func (t *translator) Write(w http.ResponseWriter, r *http.Request, err error) {
	ae := apperr.From(err)

	t.log.Error("Request failed",
		"request_id", requestIDFrom(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"client", clientKey(r),
		"code", ae.Code,
		"status", ae.Status,
		"service", ae.Service,
		"operational", ae.Operational,
		"error", ae,
		"cause", ae.Unwrap(),
	)

	resp := errorResponse{Error: ae.Message, ErrorCode: string(ae.Code)}

	// Exhaustive over the taxonomy so a new code cannot silently fall
	// through to a wrong shape.
	switch ae.Code {
	case apperr.CodeValidation:
		resp.Details = ae.Details
	case apperr.CodeRateLimit:
		retryable := true
		resp.Retryable = &retryable
		info := map[string]any{}
		if ae.RetryAfter > 0 {
			info["retryAfter"] = ae.RetryAfter.Seconds()
			w.Header().Set("Retry-After", strconv.Itoa(int(ae.RetryAfter.Seconds()+0.999)))
		}
		if v, ok := ae.Meta["remaining"]; ok {
			info["remaining"] = v
		}
		if len(info) > 0 {
			resp.RateLimitInfo = info
		}
	case apperr.CodeExternalAPI, apperr.CodeServiceUnavailable:
		retryable := ae.Retryable
		resp.Retryable = &retryable
		resp.Details = ae.Service
	case apperr.CodeNotFound, apperr.CodeUnauthorized, apperr.CodeForbidden:
	case apperr.CodeInternal:
		// Generic phrase only; the original message lives in the log.
		resp.Error = "An unexpected error occurred"
	default:
		resp.Error = "An unexpected error occurred"
		resp.ErrorCode = string(apperr.CodeInternal)
		ae.Status = 500
	}

	if !t.production {
		if cause := ae.Unwrap(); cause != nil {
			resp.Cause = cause.Error()
		}
		if len(ae.Meta) > 0 {
			resp.Meta = ae.Meta
		}
	}

	status := ae.Status
	if status == 0 {
		status = 500
	}
	writeJSON(w, r, status, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
	metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()
}
