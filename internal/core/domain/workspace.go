package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/resilience/apperr"
)

// Workspace is the tenant root. Every brand kit, campaign, and asset
// belongs to exactly one workspace.
type Workspace struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	Tier      string    `db:"tier"       json:"tier"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

var validTiers = map[string]bool{
	"basic":      true,
	"standard":   true,
	"premium":    true,
	"enterprise": true,
}

// Validate checks the workspace's invariants and returns a taxonomy
// validation error listing each violated field.
func (w *Workspace) Validate() error {
	var fields []string
	if strings.TrimSpace(w.Name) == "" {
		fields = append(fields, "name: must not be empty")
	}
	if len(w.Name) > 120 {
		fields = append(fields, "name: must be at most 120 characters")
	}
	if !validTiers[w.Tier] {
		fields = append(fields, "tier: must be one of basic, standard, premium, enterprise")
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
