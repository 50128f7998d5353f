package dto

// LeaveInput is the create/edit payload for a leave request.
type LeaveInput struct {
	GuardID   int64   `json:"guard_id" form:"guard_id" validate:"required,gt=0"`
	LeaveType string  `json:"leave_type" form:"leave_type" validate:"required,oneof=annual sick casual unpaid"`
	StartDate string  `json:"start_date" form:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" form:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    *string `json:"reason" form:"reason" validate:"omitempty,max=1000"`
	Status    string  `json:"status" form:"status" validate:"required,oneof=pending approved rejected cancelled"`
}
