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

// CampaignRepo implements storage.CampaignRepository using PostgreSQL.
type CampaignRepo struct {
	db *DB
}

// NewCampaignRepo creates a new PostgreSQL campaign repository.
func NewCampaignRepo(db *DB) *CampaignRepo {
	return &CampaignRepo{db: db}
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO campaigns (id, workspace_id, name, objective, status, created_at, updated_at)
		VALUES (:id, :workspace_id, :name, :objective, :status, :created_at, :updated_at)`, c)
	if err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.db.GetContext(ctx, &c, `SELECT * FROM campaigns WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return &c, nil
}

func (r *CampaignRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Campaign, error) {
	var out []*domain.Campaign
	err := r.db.SelectContext(ctx, &out, `
		SELECT * FROM campaigns WHERE workspace_id = $1 ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return out, nil
}

func (r *CampaignRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CampaignStatus) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE campaigns SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
