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

// BrandKitRepo implements storage.BrandKitRepository using PostgreSQL.
type BrandKitRepo struct {
	db *DB
}

// NewBrandKitRepo creates a new PostgreSQL brand kit repository.
func NewBrandKitRepo(db *DB) *BrandKitRepo {
	return &BrandKitRepo{db: db}
}

// Upsert saves the workspace's single brand kit, replacing any existing one.
func (r *BrandKitRepo) Upsert(ctx context.Context, b *domain.BrandKit) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO brand_kits (id, workspace_id, voice, palette, keywords, created_at, updated_at)
		VALUES (:id, :workspace_id, :voice, :palette, :keywords, :created_at, :updated_at)
		ON CONFLICT (workspace_id) DO UPDATE SET
			voice = EXCLUDED.voice,
			palette = EXCLUDED.palette,
			keywords = EXCLUDED.keywords,
			updated_at = EXCLUDED.updated_at`, b)
	if err != nil {
		return fmt.Errorf("failed to upsert brand kit: %w", err)
	}
	return nil
}

func (r *BrandKitRepo) GetByWorkspace(ctx context.Context, workspaceID uuid.UUID) (*domain.BrandKit, error) {
	var b domain.BrandKit
	err := r.db.GetContext(ctx, &b, `SELECT * FROM brand_kits WHERE workspace_id = $1`, workspaceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand kit: %w", err)
	}
	return &b, nil
}
