package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/resilience/apperr"
)

// BrandKit captures a workspace's voice and visual identity; its fields
// feed prompt assembly for generated content.
type BrandKit struct {
	ID          uuid.UUID `db:"id"           json:"id"`
	WorkspaceID uuid.UUID `db:"workspace_id" json:"workspaceId"`
	Voice       string    `db:"voice"        json:"voice"`   // e.g. "playful", "formal"
	Palette     string    `db:"palette"      json:"palette"` // comma-separated hex colors
	Keywords    string    `db:"keywords"     json:"keywords"`
	CreatedAt   time.Time `db:"created_at"   json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updatedAt"`
}

func (b *BrandKit) Validate() error {
	var fields []string
	if b.WorkspaceID == uuid.Nil {
		fields = append(fields, "workspaceId: required")
	}
	if strings.TrimSpace(b.Voice) == "" {
		fields = append(fields, "voice: must not be empty")
	}
	for _, c := range strings.Split(b.Palette, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if !strings.HasPrefix(c, "#") || (len(c) != 4 && len(c) != 7) {
			fields = append(fields, "palette: "+c+" is not a hex color")
		}
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
