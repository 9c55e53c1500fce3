package control

import (
	"context"
	"errors"

	"github.com/craftly/craftd/internal/infra/provider"
	"github.com/craftly/craftd/internal/resilience/apperr"
)

// disabledVerifier stands in when no licensing endpoint is configured.
// Verification requests fail as SERVICE_UNAVAILABLE rather than silently
// clearing content.
type disabledVerifier struct{}

func (disabledVerifier) Name() string { return "licensing" }

func (disabledVerifier) Verify(ctx context.Context, assetID string, content string) (provider.LicenseResult, error) {
	return provider.LicenseResult{}, apperr.Unavailable("licensing", errors.New("licensing endpoint not configured"))
}
