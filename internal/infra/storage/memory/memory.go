// Package memory provides an in-process storage implementation used when
// no database is configured, and by tests.
package memory

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
)

// Storage implements all repository interfaces over in-process maps.
type Storage struct {
	mu         sync.RWMutex
	workspaces map[uuid.UUID]*domain.Workspace
	brandKits  map[uuid.UUID]*domain.BrandKit // keyed by workspace ID
	campaigns  map[uuid.UUID]*domain.Campaign
	assets     map[uuid.UUID]*domain.Asset
}

// NewStorage creates an empty in-memory store.
func NewStorage() *Storage {
	return &Storage{
		workspaces: make(map[uuid.UUID]*domain.Workspace),
		brandKits:  make(map[uuid.UUID]*domain.BrandKit),
		campaigns:  make(map[uuid.UUID]*domain.Campaign),
		assets:     make(map[uuid.UUID]*domain.Asset),
	}
}

func (s *Storage) Create(ctx context.Context, w *domain.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	cp := *w
	s.workspaces[w.ID] = &cp
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workspaces[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (s *Storage) List(ctx context.Context) ([]*domain.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Workspace, 0, len(s.workspaces))
	for _, w := range s.workspaces {
		cp := *w
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Storage) Update(ctx context.Context, w *domain.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[w.ID]; !ok {
		return sql.ErrNoRows
	}
	w.UpdatedAt = time.Now().UTC()
	cp := *w
	s.workspaces[w.ID] = &cp
	return nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, id)
	delete(s.brandKits, id)
	return nil
}

// BrandKits returns the brand kit repository view of the store.
func (s *Storage) BrandKits() *BrandKitStore { return &BrandKitStore{s: s} }

// Campaigns returns the campaign repository view of the store.
func (s *Storage) Campaigns() *CampaignStore { return &CampaignStore{s: s} }

// Assets returns the asset repository view of the store.
func (s *Storage) Assets() *AssetStore { return &AssetStore{s: s} }

// BrandKitStore implements storage.BrandKitRepository.
type BrandKitStore struct{ s *Storage }

func (b *BrandKitStore) Upsert(ctx context.Context, kit *domain.BrandKit) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	now := time.Now().UTC()
	if kit.CreatedAt.IsZero() {
		kit.CreatedAt = now
	}
	kit.UpdatedAt = now
	cp := *kit
	b.s.brandKits[kit.WorkspaceID] = &cp
	return nil
}

func (b *BrandKitStore) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.BrandKit, error) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	kit, ok := b.s.brandKits[workspaceID]
	if !ok {
		return nil, nil
	}
	cp := *kit
	return &cp, nil
}

// CampaignStore implements storage.CampaignRepository.
type CampaignStore struct{ s *Storage }

func (c *CampaignStore) Create(ctx context.Context, cam *domain.Campaign) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	now := time.Now().UTC()
	cam.CreatedAt = now
	cam.UpdatedAt = now
	cp := *cam
	c.s.campaigns[cam.ID] = &cp
	return nil
}

func (c *CampaignStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	cam, ok := c.s.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *cam
	return &cp, nil
}

func (c *CampaignStore) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Campaign, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()
	var out []*domain.Campaign
	for _, cam := range c.s.campaigns {
		if cam.WorkspaceID == workspaceID {
			cp := *cam
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (c *CampaignStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CampaignStatus) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cam, ok := c.s.campaigns[id]
	if !ok {
		return sql.ErrNoRows
	}
	cam.Status = status
	cam.UpdatedAt = time.Now().UTC()
	return nil
}

// AssetStore implements storage.AssetRepository.
type AssetStore struct{ s *Storage }

func (a *AssetStore) Create(ctx context.Context, asset *domain.Asset) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	asset.CreatedAt = time.Now().UTC()
	cp := *asset
	a.s.assets[asset.ID] = &cp
	return nil
}

func (a *AssetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	asset, ok := a.s.assets[id]
	if !ok {
		return nil, nil
	}
	cp := *asset
	return &cp, nil
}

func (a *AssetStore) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*domain.Asset, error) {
	a.s.mu.RLock()
	defer a.s.mu.RUnlock()
	var out []*domain.Asset
	for _, asset := range a.s.assets {
		if asset.CampaignID == campaignID {
			cp := *asset
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (a *AssetStore) UpdateLicenseState(ctx context.Context, id uuid.UUID, state domain.LicenseState) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	asset, ok := a.s.assets[id]
	if !ok {
		return sql.ErrNoRows
	}
	asset.LicenseState = state
	return nil
}
