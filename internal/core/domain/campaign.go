package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/craftly/craftd/internal/resilience/apperr"
)

type CampaignStatus string

const (
	CampaignDraft    CampaignStatus = "draft"
	CampaignActive   CampaignStatus = "active"
	CampaignArchived CampaignStatus = "archived"
)

// Campaign groups generated assets under one marketing objective.
type Campaign struct {
	ID          uuid.UUID      `db:"id"           json:"id"`
	WorkspaceID uuid.UUID      `db:"workspace_id" json:"workspaceId"`
	Name        string         `db:"name"         json:"name"`
	Objective   string         `db:"objective"    json:"objective"`
	Status      CampaignStatus `db:"status"       json:"status"`
	CreatedAt   time.Time      `db:"created_at"   json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at"   json:"updatedAt"`
}

func (c *Campaign) Validate() error {
	var fields []string
	if c.WorkspaceID == uuid.Nil {
		fields = append(fields, "workspaceId: required")
	}
	if strings.TrimSpace(c.Name) == "" {
		fields = append(fields, "name: must not be empty")
	}
	switch c.Status {
	case CampaignDraft, CampaignActive, CampaignArchived:
	default:
		fields = append(fields, "status: must be one of draft, active, archived")
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}
