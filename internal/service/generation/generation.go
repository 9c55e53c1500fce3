// Package generation orchestrates content generation: admission-charged
// requests flow through the result cache, are deduplicated in flight, and
// reach the paid providers only through the retry executor.
package generation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/craftly/craftd/internal/core/domain"
	"github.com/craftly/craftd/internal/infra/provider"
	"github.com/craftly/craftd/internal/infra/storage"
	"github.com/craftly/craftd/internal/resilience/apperr"
	"github.com/craftly/craftd/internal/resilience/cache"
	"github.com/craftly/craftd/internal/resilience/executor"
)

// Config holds the service's policies and cache TTL.
type Config struct {
	CaptionPolicy executor.Policy
	ImagePolicy   executor.Policy
	CacheTTL      time.Duration
}

// Service generates captions and images for campaigns.
type Service struct {
	cfg       Config
	captions  provider.CaptionProvider
	images    provider.ImageProvider
	brandKits storage.BrandKitRepository
	campaigns storage.CampaignRepository
	assets    storage.AssetRepository
	store     cache.Store

	// Concurrent requests racing on a cold cache key collapse into one
	// provider call; duplicate paid invocations are pure waste.
	group singleflight.Group

	log *slog.Logger
}

// NewService wires the generation service.
func NewService(
	cfg Config,
	captions provider.CaptionProvider,
	images provider.ImageProvider,
	brandKits storage.BrandKitRepository,
	campaigns storage.CampaignRepository,
	assets storage.AssetRepository,
	store cache.Store,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		captions:  captions,
		images:    images,
		brandKits: brandKits,
		campaigns: campaigns,
		assets:    assets,
		store:     store,
		log:       log,
	}
}

// CaptionInput is one caption generation request.
type CaptionInput struct {
	CampaignID uuid.UUID `json:"campaignId"`
	Prompt     string    `json:"prompt"`
	Model      string    `json:"model"`
}

// GenerateCaption produces a caption asset for the campaign. Identical
// requests within the cache TTL reuse the cached completion.
func (s *Service) GenerateCaption(ctx context.Context, in CaptionInput) (*domain.Asset, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, apperr.Validation("prompt: must not be empty")
	}

	camp, kit, err := s.campaignContext(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}

	req := provider.CaptionRequest{
		Prompt: in.Prompt,
		Model:  in.Model,
	}
	if kit != nil {
		req.Voice = kit.Voice
		req.Keywords = kit.Keywords
	}

	key := cache.Key("caption", req)
	content, err := s.compute(ctx, key, s.cfg.CaptionPolicy, s.captions.Name(), func(ctx context.Context) (string, error) {
		return s.captions.GenerateCaption(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	asset := &domain.Asset{
		ID:           uuid.New(),
		CampaignID:   camp.ID,
		Kind:         domain.AssetCaption,
		Content:      content,
		Provider:     s.captions.Name(),
		LicenseState: domain.LicenseUnchecked,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, apperr.Internal(err)
	}
	return asset, nil
}

// ImageInput is one image render request.
type ImageInput struct {
	CampaignID uuid.UUID `json:"campaignId"`
	Prompt     string    `json:"prompt"`
	Style      string    `json:"style"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
}

// GenerateImage renders an image asset for the campaign.
func (s *Service) GenerateImage(ctx context.Context, in ImageInput) (*domain.Asset, error) {
	var fields []string
	if strings.TrimSpace(in.Prompt) == "" {
		fields = append(fields, "prompt: must not be empty")
	}
	if in.Width < 0 || in.Height < 0 {
		fields = append(fields, "width/height: must not be negative")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields...)
	}
	if in.Width == 0 {
		in.Width = 1024
	}
	if in.Height == 0 {
		in.Height = 1024
	}

	camp, kit, err := s.campaignContext(ctx, in.CampaignID)
	if err != nil {
		return nil, err
	}

	req := provider.ImageRequest{
		Prompt: in.Prompt,
		Style:  in.Style,
		Width:  in.Width,
		Height: in.Height,
	}
	if kit != nil {
		req.Palette = kit.Palette
	}

	key := cache.Key("image", req)
	url, err := s.compute(ctx, key, s.cfg.ImagePolicy, s.images.Name(), func(ctx context.Context) (string, error) {
		return s.images.RenderImage(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	asset := &domain.Asset{
		ID:           uuid.New(),
		CampaignID:   camp.ID,
		Kind:         domain.AssetImage,
		Content:      url,
		Provider:     s.images.Name(),
		LicenseState: domain.LicenseUnchecked,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, apperr.Internal(err)
	}
	return asset, nil
}

// compute resolves a string result through cache, in-flight dedup, and
// the retry executor, in that order.
func (s *Service) compute(ctx context.Context, key string, policy executor.Policy, service string, op func(ctx context.Context) (string, error)) (string, error) {
	if val, ok := s.store.Get(ctx, key); ok {
		return string(val), nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		val, err := executor.Execute(ctx, policy, service, op)
		if err != nil {
			return "", err
		}
		s.store.Set(ctx, key, []byte(val), s.cfg.CacheTTL)
		return val, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		s.log.Debug("Coalesced concurrent generation request", "key", key, "service", service)
	}
	return v.(string), nil
}

// campaignContext loads the campaign and its workspace's brand kit. A
// missing brand kit is fine; a missing campaign is not.
func (s *Service) campaignContext(ctx context.Context, campaignID uuid.UUID) (*domain.Campaign, *domain.BrandKit, error) {
	camp, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, nil, apperr.Internal(err)
	}
	if camp == nil {
		return nil, nil, apperr.NotFound("campaign")
	}

	kit, err := s.brandKits.GetByWorkspace(ctx, camp.WorkspaceID)
	if err != nil {
		s.log.Warn("Brand kit lookup failed, generating without brand context",
			"workspace", camp.WorkspaceID, "error", err)
		kit = nil
	}
	return camp, kit, nil
}
