package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/core/domain"
)

// AssetRepo implements storage.AssetRepository using PostgreSQL.
type AssetRepo struct {
	db *DB
}

// NewAssetRepo creates a new PostgreSQL asset repository.
func NewAssetRepo(db *DB) *AssetRepo {
	return &AssetRepo{db: db}
}

func (r *AssetRepo) Create(ctx context.Context, a *domain.Asset) error {
	a.CreatedAt = time.Now().UTC()
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO assets (id, campaign_id, kind, content, provider, license_state, created_at)
		VALUES (:id, :campaign_id, :kind, :content, :provider, :license_state, :created_at)`, a)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

func (r *AssetRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	var a domain.Asset
	err := r.db.GetContext(ctx, &a, `SELECT * FROM assets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &a, nil
}

func (r *AssetRepo) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]*domain.Asset, error) {
	var out []*domain.Asset
	err := r.db.SelectContext(ctx, &out, `
		SELECT * FROM assets WHERE campaign_id = $1 ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return out, nil
}

func (r *AssetRepo) UpdateLicenseState(ctx context.Context, id uuid.UUID, state domain.LicenseState) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE assets SET license_state = $1 WHERE id = $2`, state, id)
	if err != nil {
		return fmt.Errorf("failed to update license state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
