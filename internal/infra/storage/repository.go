package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
)

// WorkspaceRepository handles tenant storage operations
type WorkspaceRepository interface {
	// Create inserts a new workspace
	Create(ctx context.Context, w *domain.Workspace) error

	// GetByID retrieves a workspace; returns nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error)

	// List returns all workspaces
	List(ctx context.Context) ([]*domain.Workspace, error)

	// Update persists name/tier changes
	Update(ctx context.Context, w *domain.Workspace) error

	// Delete removes a workspace and cascades to its content
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrandKitRepository handles brand kit storage operations
type BrandKitRepository interface {
	Upsert(ctx context.Context, b *domain.BrandKit) error
	GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.BrandKit, error)
}

// CampaignRepository handles campaign storage operations
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Campaign, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CampaignStatus) error
}

// AssetRepository handles generated asset storage operations
type AssetRepository interface {
	Create(ctx context.Context, a *domain.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*domain.Asset, error)
	UpdateLicenseState(ctx context.Context, id uuid.UUID, state domain.LicenseState) error
}
