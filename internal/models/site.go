package models

import "time"

// Site is a client premises guarded by the workforce.
type Site struct {
	ID             int64         `db:"id" json:"id"`
	ClientID       int64         `db:"client_id" json:"client_id"`
	Name           string        `db:"name" json:"name"`
	Address        string        `db:"address" json:"address"`
	City           *string       `db:"city" json:"city,omitempty"`
	Latitude       *float64      `db:"latitude" json:"latitude,omitempty"`
	Longitude      *float64      `db:"longitude" json:"longitude,omitempty"`
	RequiredGuards int           `db:"required_guards" json:"required_guards"`
	Status         string        `db:"status" json:"status"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
	Client         *NamedSummary `db:"-" json:"client,omitempty"`
}

// EntityID implements Identifiable.
func (s Site) EntityID() int64 { return s.ID }

// SiteLocation is a post inside a site (gate, lobby, parking).
type SiteLocation struct {
	ID          int64     `db:"id" json:"id"`
	SiteID      int64     `db:"site_id" json:"site_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Latitude    *float64  `db:"latitude" json:"latitude,omitempty"`
	Longitude   *float64  `db:"longitude" json:"longitude,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// EntityID implements Identifiable.
func (l SiteLocation) EntityID() int64 { return l.ID }
