package models

import "time"

// Duty statuses.
const (
	DutyStatusScheduled = "scheduled"
	DutyStatusActive    = "active"
	DutyStatusCompleted = "completed"
	DutyStatusCancelled = "cancelled"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendanceLate    = "late"
	AttendanceAbsent  = "absent"
)

// DutyTimeType names a shift window such as Day or Night.
type DutyTimeType struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EntityID implements Identifiable.
func (d DutyTimeType) EntityID() int64 { return d.ID }

// Duty is a scheduled guarding shift at a site.
type Duty struct {
	ID             int64         `db:"id" json:"id"`
	Title          string        `db:"title" json:"title"`
	SiteID         int64         `db:"site_id" json:"site_id"`
	SiteLocationID *int64        `db:"site_location_id" json:"site_location_id,omitempty"`
	DutyTimeTypeID *int64        `db:"duty_time_type_id" json:"duty_time_type_id,omitempty"`
	StartDate      string        `db:"start_date" json:"start_date"`
	EndDate        *string       `db:"end_date" json:"end_date,omitempty"`
	StartTime      string        `db:"start_time" json:"start_time"`
	EndTime        string        `db:"end_time" json:"end_time"`
	RequiredGuards int           `db:"required_guards" json:"required_guards"`
	Status         string        `db:"status" json:"status"`
	Notes          *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
	Site           *SiteSummary  `db:"-" json:"site,omitempty"`
	SiteLocation   *NamedSummary `db:"-" json:"site_location,omitempty"`
}

// EntityID implements Identifiable.
func (d Duty) EntityID() int64 { return d.ID }

// GuardAssignment places a guard on a duty.
type GuardAssignment struct {
	ID         int64         `db:"id" json:"id"`
	GuardID    int64         `db:"guard_id" json:"guard_id"`
	DutyID     int64         `db:"duty_id" json:"duty_id"`
	AssignedOn string        `db:"assigned_on" json:"assigned_on"`
	Status     string        `db:"status" json:"status"`
	Notes      *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
	Guard      *GuardSummary `db:"-" json:"guard,omitempty"`
	Duty       *DutySummary  `db:"-" json:"duty,omitempty"`
}

// EntityID implements Identifiable.
func (a GuardAssignment) EntityID() int64 { return a.ID }

// DutyAttendance records a guard checking in and out of a duty on a day.
type DutyAttendance struct {
	ID             int64         `db:"id" json:"id"`
	GuardID        int64         `db:"guard_id" json:"guard_id"`
	DutyID         int64         `db:"duty_id" json:"duty_id"`
	AttendanceDate string        `db:"attendance_date" json:"attendance_date"`
	CheckInAt      *time.Time    `db:"check_in_at" json:"check_in_at,omitempty"`
	CheckOutAt     *time.Time    `db:"check_out_at" json:"check_out_at,omitempty"`
	Status         string        `db:"status" json:"status"`
	Notes          *string       `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
	Guard          *GuardSummary `db:"-" json:"guard,omitempty"`
	Duty           *DutySummary  `db:"-" json:"duty,omitempty"`
}

// EntityID implements Identifiable.
func (a DutyAttendance) EntityID() int64 { return a.ID }

// DutyStatusReport is a periodic "all clear" or incident report filed by a guard on duty.
type DutyStatusReport struct {
	ID         int64         `db:"id" json:"id"`
	GuardID    int64         `db:"guard_id" json:"guard_id"`
	DutyID     int64         `db:"duty_id" json:"duty_id"`
	Status     string        `db:"status" json:"status"`
	Message    *string       `db:"message" json:"message,omitempty"`
	ReportedAt time.Time     `db:"reported_at" json:"reported_at"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
	Guard      *GuardSummary `db:"-" json:"guard,omitempty"`
	Duty       *DutySummary  `db:"-" json:"duty,omitempty"`
}

// EntityID implements Identifiable.
func (r DutyStatusReport) EntityID() int64 { return r.ID }
