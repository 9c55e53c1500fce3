package domain

import (
	"time"

	"github.com/google/uuid"
)

type AssetKind string

const (
	AssetCaption AssetKind = "caption"
	AssetImage   AssetKind = "image"
)

type LicenseState string

const (
	LicenseUnchecked LicenseState = "unchecked"
	LicenseCleared   LicenseState = "cleared"
	LicenseFlagged   LicenseState = "flagged"
)

// Asset is one generated piece of content. Content holds the caption
// text for captions and the rendered image URL for images.
type Asset struct {
	ID           uuid.UUID    `db:"id"            json:"id"`
	CampaignID   uuid.UUID    `db:"campaign_id"   json:"campaignId"`
	Kind         AssetKind    `db:"kind"          json:"kind"`
	Content      string       `db:"content"       json:"content"`
	Provider     string       `db:"provider"      json:"provider"`
	LicenseState LicenseState `db:"license_state" json:"licenseState"`
	CreatedAt    time.Time    `db:"created_at"    json:"createdAt"`
}
