package dto

// GuardTypeInput is the create/edit payload for a guard type.
type GuardTypeInput struct {
	Name        string  `json:"name" form:"name" validate:"required,max=100"`
	Description *string `json:"description" form:"description" validate:"omitempty,max=500"`
	IsActive    bool    `json:"is_active" form:"is_active"`
}

// GuardInput is the create/edit payload for a guard.
type GuardInput struct {
	Name        string  `json:"name" form:"name" validate:"required,max=150"`
	Email       *string `json:"email" form:"email" validate:"omitempty,email,max=150"`
	Phone       string  `json:"phone" form:"phone" validate:"required,min=7,max=20"`
	NationalID  *string `json:"national_id" form:"national_id" validate:"omitempty,max=50"`
	GuardTypeID *int64  `json:"guard_type_id" form:"guard_type_id" validate:"omitempty,gt=0"`
	Address     *string `json:"address" form:"address" validate:"omitempty,max=255"`
	DateOfBirth *string `json:"date_of_birth" form:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	JoinedOn    *string `json:"joined_on" form:"joined_on" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" form:"status" validate:"required,oneof=active inactive suspended"`
}
