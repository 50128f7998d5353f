package dto

// DutyTimeTypeInput is the create/edit payload for a shift window.
type DutyTimeTypeInput struct {
	Name      string `json:"name" form:"name" validate:"required,max=100"`
	StartTime string `json:"start_time" form:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" form:"end_time" validate:"required,datetime=15:04"`
}

// DutyInput is the create/edit payload for a duty.
type DutyInput struct {
	Title          string  `json:"title" form:"title" validate:"required,max=150"`
	SiteID         int64   `json:"site_id" form:"site_id" validate:"required,gt=0"`
	SiteLocationID *int64  `json:"site_location_id" form:"site_location_id" validate:"omitempty,gt=0"`
	DutyTimeTypeID *int64  `json:"duty_time_type_id" form:"duty_time_type_id" validate:"omitempty,gt=0"`
	StartDate      string  `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        *string `json:"end_date" form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	StartTime      string  `json:"start_time" form:"start_time" validate:"required,datetime=15:04"`
	EndTime        string  `json:"end_time" form:"end_time" validate:"required,datetime=15:04"`
	RequiredGuards int     `json:"required_guards" form:"required_guards" validate:"required,gte=1,lte=100"`
	Status         string  `json:"status" form:"status" validate:"required,oneof=scheduled active completed cancelled"`
	Notes          *string `json:"notes" form:"notes" validate:"omitempty,max=1000"`
}

// GuardAssignmentInput places a guard on a duty.
type GuardAssignmentInput struct {
	GuardID    int64   `json:"guard_id" form:"guard_id" validate:"required,gt=0"`
	DutyID     int64   `json:"duty_id" form:"duty_id" validate:"required,gt=0"`
	AssignedOn string  `json:"assigned_on" form:"assigned_on" validate:"required,datetime=2006-01-02"`
	Status     string  `json:"status" form:"status" validate:"required,oneof=assigned released"`
	Notes      *string `json:"notes" form:"notes" validate:"omitempty,max=1000"`
}

// DutyAttendanceInput records attendance for a guard on a duty day.
type DutyAttendanceInput struct {
	GuardID        int64   `json:"guard_id" form:"guard_id" validate:"required,gt=0"`
	DutyID         int64   `json:"duty_id" form:"duty_id" validate:"required,gt=0"`
	AttendanceDate string  `json:"attendance_date" form:"attendance_date" validate:"required,datetime=2006-01-02"`
	CheckInAt      *string `json:"check_in_at" form:"check_in_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	CheckOutAt     *string `json:"check_out_at" form:"check_out_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Status         string  `json:"status" form:"status" validate:"required,oneof=present late absent"`
	Notes          *string `json:"notes" form:"notes" validate:"omitempty,max=1000"`
}

// DutyStatusReportInput files a status report for a duty.
type DutyStatusReportInput struct {
	GuardID    int64   `json:"guard_id" form:"guard_id" validate:"required,gt=0"`
	DutyID     int64   `json:"duty_id" form:"duty_id" validate:"required,gt=0"`
	Status     string  `json:"status" form:"status" validate:"required,oneof=all_clear incident emergency"`
	Message    *string `json:"message" form:"message" validate:"omitempty,max=2000"`
	ReportedAt *string `json:"reported_at" form:"reported_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
