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

// WorkspaceRepo implements storage.WorkspaceRepository using PostgreSQL.
type WorkspaceRepo struct {
	db *DB
}

// NewWorkspaceRepo creates a new PostgreSQL workspace repository.
func NewWorkspaceRepo(db *DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

func (r *WorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) error {
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO workspaces (id, name, tier, created_at, updated_at)
		VALUES (:id, :name, :tier, :created_at, :updated_at)`, w)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *WorkspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	var w domain.Workspace
	err := r.db.GetContext(ctx, &w, `SELECT * FROM workspaces WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &w, nil
}

func (r *WorkspaceRepo) List(ctx context.Context) ([]*domain.Workspace, error) {
	var out []*domain.Workspace
	if err := r.db.SelectContext(ctx, &out, `SELECT * FROM workspaces ORDER BY created_at`); err != nil {
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}
	return out, nil
}

func (r *WorkspaceRepo) Update(ctx context.Context, w *domain.Workspace) error {
	w.UpdatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE workspaces SET name = :name, tier = :tier, updated_at = :updated_at
		WHERE id = :id`, w)
	if err != nil {
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *WorkspaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}
