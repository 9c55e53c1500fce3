// Package licensing orchestrates license verification of generated
// assets against the external licensing service.
package licensing

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
	"github.com/craftly/craftd/internal/infra/provider"
	"github.com/craftly/craftd/internal/infra/storage"
	"github.com/craftly/craftd/internal/resilience/apperr"
	"github.com/craftly/craftd/internal/resilience/cache"
	"github.com/craftly/craftd/internal/resilience/executor"
)

// Config holds the verification retry policy and cache TTL.
type Config struct {
	Policy   executor.Policy
	CacheTTL time.Duration
}

// Service verifies asset licensing.
type Service struct {
	cfg      Config
	verifier provider.LicenseVerifier
	assets   storage.AssetRepository
	store    cache.Store
	log      *slog.Logger
}

// NewService wires the licensing service.
func NewService(cfg Config, verifier provider.LicenseVerifier, assets storage.AssetRepository, store cache.Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{cfg: cfg, verifier: verifier, assets: assets, store: store, log: log}
}

// VerifyAsset checks the asset's license and persists the verdict.
// Verdicts are cached by content so re-checks of unchanged content do
// not hit the paid verification service.
func (s *Service) VerifyAsset(ctx context.Context, assetID uuid.UUID) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if asset == nil {
		return nil, apperr.NotFound("asset")
	}

	result, err := s.verdict(ctx, asset)
	if err != nil {
		return nil, err
	}

	state := domain.LicenseFlagged
	if result.Cleared {
		state = domain.LicenseCleared
	}
	if err := s.assets.UpdateLicenseState(ctx, asset.ID, state); err != nil {
		return nil, apperr.Internal(err)
	}

	asset.LicenseState = state
	if !result.Cleared {
		s.log.Info("Asset flagged by licensing service",
			"asset", asset.ID, "reason", result.Reason)
	}
	return asset, nil
}

func (s *Service) verdict(ctx context.Context, asset *domain.Asset) (provider.LicenseResult, error) {
	key := cache.Key("license", string(asset.Kind), asset.Content)

	if val, ok := s.store.Get(ctx, key); ok {
		var cached provider.LicenseResult
		if err := json.Unmarshal(val, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry; fall through to recompute.
	}

	result, err := executor.Execute(ctx, s.cfg.Policy, s.verifier.Name(), func(ctx context.Context) (provider.LicenseResult, error) {
		return s.verifier.Verify(ctx, asset.ID.String(), asset.Content)
	})
	if err != nil {
		return provider.LicenseResult{}, err
	}

	if raw, err := json.Marshal(result); err == nil {
		s.store.Set(ctx, key, raw, s.cfg.CacheTTL)
	}
	return result, nil
}
