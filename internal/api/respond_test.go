package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/craftly/craftd/internal/resilience/apperr"
)

func newTranslator(production bool) *translator {
	return &translator{
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		production: production,
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	return resp
}

func TestTranslator_Validation(t *testing.T) {
	tr := newTranslator(true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/captions", nil)

	tr.Write(rec, req, apperr.Validation("prompt: must not be empty", "width/height: must not be negative"))

	if rec.Code != 400 {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != "Request validation failed" {
		t.Errorf("Unexpected error message: %q", resp.Error)
	}
	if resp.ErrorCode != "VALIDATION_ERROR" {
		t.Errorf("Unexpected code: %q", resp.ErrorCode)
	}
	if resp.Details != "prompt: must not be empty; width/height: must not be negative" {
		t.Errorf("Unexpected details: %q", resp.Details)
	}
}

func TestTranslator_ExternalAPINamesService(t *testing.T) {
	tr := newTranslator(true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/captions", nil)

	tr.Write(rec, req, apperr.ExternalAPI("openai", errors.New("boom")))

	if rec.Code != 502 {
		t.Errorf("Expected 502, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != "boom" {
		t.Errorf("Upstream message must survive: %q", resp.Error)
	}
	if resp.Details != "openai" {
		t.Errorf("Response should name the failing service, got %q", resp.Details)
	}
	if resp.Retryable == nil || !*resp.Retryable {
		t.Error("External failures are retryable")
	}
}

func TestTranslator_RateLimit(t *testing.T) {
	tr := newTranslator(true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/images", nil)

	err := apperr.RateLimit(3 * time.Second).WithMeta("remaining", 0)
	tr.Write(rec, req, err)

	if rec.Code != 429 {
		t.Errorf("Expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Errorf("Expected Retry-After 3, got %q", got)
	}
	resp := decodeError(t, rec)
	if resp.Error != "Too many requests, please try again later" {
		t.Errorf("Unexpected message: %q", resp.Error)
	}
	if resp.RateLimitInfo["retryAfter"] != float64(3) {
		t.Errorf("Expected retryAfter 3, got %v", resp.RateLimitInfo["retryAfter"])
	}
	if resp.RateLimitInfo["remaining"] != float64(0) {
		t.Errorf("Expected remaining 0, got %v", resp.RateLimitInfo["remaining"])
	}
}

func TestTranslator_InternalHidesMessage(t *testing.T) {
	tr := newTranslator(true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/workspaces", nil)

	tr.Write(rec, req, errors.New("pq: connection reset"))

	if rec.Code != 500 {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != "An unexpected error occurred" {
		t.Errorf("Internal errors must be generic, got %q", resp.Error)
	}
	if resp.Cause != "" {
		t.Errorf("Production responses must not carry the cause, got %q", resp.Cause)
	}
}

func TestTranslator_DevelopmentIncludesDiagnostics(t *testing.T) {
	tr := newTranslator(false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/captions", nil)

	err := apperr.ExternalAPI("openai", errors.New("status 500")).WithMeta("attempts", 3)
	tr.Write(rec, req, err)

	resp := decodeError(t, rec)
	if resp.Cause != "status 500" {
		t.Errorf("Development responses should carry the cause, got %q", resp.Cause)
	}
	if resp.Meta["attempts"] != float64(3) {
		t.Errorf("Development responses should carry meta, got %v", resp.Meta)
	}
}

func TestTranslator_ProductionStripsDiagnostics(t *testing.T) {
	tr := newTranslator(true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/captions", nil)

	err := apperr.ExternalAPI("openai", errors.New("status 500")).WithMeta("attempts", 3)
	tr.Write(rec, req, err)

	resp := decodeError(t, rec)
	if resp.Cause != "" || resp.Meta != nil {
		t.Errorf("Production responses must not leak diagnostics: cause=%q meta=%v", resp.Cause, resp.Meta)
	}
}

func TestTranslator_NotFound(t *testing.T) {
	tr := newTranslator(true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/assets/123", nil)

	tr.Write(rec, req, apperr.NotFound("asset"))

	if rec.Code != 404 {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	resp := decodeError(t, rec)
	if resp.Error != "asset not found" {
		t.Errorf("Unexpected message: %q", resp.Error)
	}
	if resp.Retryable != nil {
		t.Error("Not-found responses carry no retryable hint")
	}
}
