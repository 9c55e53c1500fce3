// Package workspace provides tenant CRUD over the storage layer, mapping
// storage outcomes onto the error taxonomy.
package workspace

import (
	"context"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
	"github.com/craftly/craftd/internal/infra/storage"
	"github.com/craftly/craftd/internal/resilience/admission"
	"github.com/craftly/craftd/internal/resilience/apperr"
)

// Service handles workspaces, brand kits, and campaigns.
type Service struct {
	workspaces storage.WorkspaceRepository
	brandKits  storage.BrandKitRepository
	campaigns  storage.CampaignRepository
	assets     storage.AssetRepository
}

// NewService wires the workspace service.
func NewService(
	workspaces storage.WorkspaceRepository,
	brandKits storage.BrandKitRepository,
	campaigns storage.CampaignRepository,
	assets storage.AssetRepository,
) *Service {
	return &Service{
		workspaces: workspaces,
		brandKits:  brandKits,
		campaigns:  campaigns,
		assets:     assets,
	}
}

// CreateWorkspace validates and persists a new tenant.
func (s *Service) CreateWorkspace(ctx context.Context, name, tier string) (*domain.Workspace, error) {
	w := &domain.Workspace{ID: uuid.New(), Name: name, Tier: tier}
	if w.Tier == "" {
		w.Tier = string(admission.TierBasic)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if err := s.workspaces.Create(ctx, w); err != nil {
		return nil, apperr.Internal(err)
	}
	return w, nil
}

// GetWorkspace fetches a tenant or reports NOT_FOUND.
func (s *Service) GetWorkspace(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	w, err := s.workspaces.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if w == nil {
		return nil, apperr.NotFound("workspace")
	}
	return w, nil
}

// ListWorkspaces returns all tenants.
func (s *Service) ListWorkspaces(ctx context.Context) ([]*domain.Workspace, error) {
	out, err := s.workspaces.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// Tier resolves the admission tier for a workspace, defaulting to basic
// when the workspace is unknown.
func (s *Service) Tier(ctx context.Context, id uuid.UUID) admission.Tier {
	w, err := s.workspaces.GetByID(ctx, id)
	if err != nil || w == nil {
		return admission.TierBasic
	}
	return admission.Tier(w.Tier)
}

// SetBrandKit validates and stores the workspace's brand kit.
func (s *Service) SetBrandKit(ctx context.Context, kit *domain.BrandKit) (*domain.BrandKit, error) {
	if _, err := s.GetWorkspace(ctx, kit.WorkspaceID); err != nil {
		return nil, err
	}
	if kit.ID == uuid.Nil {
		kit.ID = uuid.New()
	}
	if err := kit.Validate(); err != nil {
		return nil, err
	}
	if err := s.brandKits.Upsert(ctx, kit); err != nil {
		return nil, apperr.Internal(err)
	}
	return kit, nil
}

// CreateCampaign validates and persists a campaign under a workspace.
func (s *Service) CreateCampaign(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	if _, err := s.GetWorkspace(ctx, c.WorkspaceID); err != nil {
		return nil, err
	}
	c.ID = uuid.New()
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.campaigns.Create(ctx, c); err != nil {
		return nil, apperr.Internal(err)
	}
	return c, nil
}

// ListCampaigns returns a workspace's campaigns.
func (s *Service) ListCampaigns(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Campaign, error) {
	if _, err := s.GetWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}
	out, err := s.campaigns.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// ListAssets returns a campaign's generated assets.
func (s *Service) ListAssets(ctx context.Context, campaignID uuid.UUID) ([]*domain.Asset, error) {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if c == nil {
		return nil, apperr.NotFound("campaign")
	}
	out, err := s.assets.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}
