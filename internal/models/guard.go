package models

import "time"

// Guard statuses.
const (
	GuardStatusActive    = "active"
	GuardStatusInactive  = "inactive"
	GuardStatusSuspended = "suspended"
)

// GuardType classifies guards (armed, unarmed, supervisor, ...).
type GuardType struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EntityID implements Identifiable.
func (g GuardType) EntityID() int64 { return g.ID }

// Guard is a security guard on the workforce roster.
type Guard struct {
	ID          int64         `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Email       *string       `db:"email" json:"email,omitempty"`
	Phone       string        `db:"phone" json:"phone"`
	NationalID  *string       `db:"national_id" json:"national_id,omitempty"`
	GuardTypeID *int64        `db:"guard_type_id" json:"guard_type_id,omitempty"`
	Address     *string       `db:"address" json:"address,omitempty"`
	DateOfBirth *string       `db:"date_of_birth" json:"date_of_birth,omitempty"`
	JoinedOn    *string       `db:"joined_on" json:"joined_on,omitempty"`
	Status      string        `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
	GuardType   *NamedSummary `db:"-" json:"guard_type,omitempty"`
}

// EntityID implements Identifiable.
func (g Guard) EntityID() int64 { return g.ID }
