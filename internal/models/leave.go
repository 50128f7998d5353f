package models

import "time"

// Leave statuses.
const (
	LeavePending   = "pending"
	LeaveApproved  = "approved"
	LeaveRejected  = "rejected"
	LeaveCancelled = "cancelled"
)

// Leave is a guard's request for time off.
type Leave struct {
	ID        int64         `db:"id" json:"id"`
	GuardID   int64         `db:"guard_id" json:"guard_id"`
	LeaveType string        `db:"leave_type" json:"leave_type"`
	StartDate string        `db:"start_date" json:"start_date"`
	EndDate   string        `db:"end_date" json:"end_date"`
	Reason    *string       `db:"reason" json:"reason,omitempty"`
	Status    string        `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
	Guard     *GuardSummary `db:"-" json:"guard,omitempty"`
}

// EntityID implements Identifiable.
func (l Leave) EntityID() int64 { return l.ID }
