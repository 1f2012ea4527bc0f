package model

import (
	"encoding/json"
	"time"
)

// Activity is an append-only audit entry.
type Activity struct {
	ID        int64           `json:"id"`
	ItemID    *int64          `json:"item_id,omitempty"`
	Action    string          `json:"action"`
	UserID    *int64          `json:"user_id,omitempty"`
	OldValues json.RawMessage `json:"old_values,omitempty"`
	NewValues json.RawMessage `json:"new_values,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	// Joined fields (not always populated).
	ItemName string `json:"item_name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Activity actions.
const (
	ActionCreate           = "create"
	ActionUpdate           = "update"
	ActionDelete           = "delete"
	ActionCheckout         = "checkout"
	ActionCheckin          = "checkin"
	ActionDispose          = "dispose"
	ActionMaintenanceStart = "maintenance_start"
	ActionMaintenanceEnd   = "maintenance_end"
)
