package models

import "time"

// Complaint priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Complaint statuses.
const (
	ComplaintOpen       = "open"
	ComplaintInProgress = "in_progress"
	ComplaintResolved   = "resolved"
	ComplaintClosed     = "closed"
)

// Complaint is raised by a client or guard against another party at a site.
type Complaint struct {
	ID                int64     `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Description       *string   `db:"description" json:"description,omitempty"`
	Priority          string    `db:"priority" json:"priority"`
	Status            string    `db:"status" json:"status"`
	ReportedByID      int64     `db:"reported_by_id" json:"reported_by_id"`
	AgainstID         *int64    `db:"against_id" json:"against_id,omitempty"`
	SiteID            *int64    `db:"site_id" json:"site_id,omitempty"`
	IsVisibleToClient bool      `db:"is_visible_to_client" json:"is_visible_to_client"`
	IsVisibleToGuard  bool      `db:"is_visible_to_guard" json:"is_visible_to_guard"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// EntityID implements Identifiable.
func (c Complaint) EntityID() int64 { return c.ID }
