package models

import "time"

// Asset event types published on the asset_events queue.
const (
	AssetOrphaned  = "asset.orphaned"
	AccountDeleted = "account.deleted"
)

// AssetEvent describes a change in the lifecycle of stored images.
type AssetEvent struct {
	Type       string    `json:"type"`
	Folder     string    `json:"folder,omitempty"`
	Name       string    `json:"name,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
