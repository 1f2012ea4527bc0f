package model

import "time"

// Category groups items, e.g. "Monitors".
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes the inventory by status.
type Stats struct {
	TotalItems        int             `json:"total_items"`
	Available         int             `json:"available"`
	Assigned          int             `json:"assigned"`
	Maintenance       int             `json:"maintenance"`
	Retired           int             `json:"retired"`
	CategoryBreakdown []CategoryCount `json:"category_breakdown"`
	RecentActivity    []Activity      `json:"recent_activity"`
}
