package dto

// ClientInput is the create/edit payload for a client.
type ClientInput struct {
	Name          string  `json:"name" form:"name" validate:"required,max=150"`
	ContactPerson *string `json:"contact_person" form:"contact_person" validate:"omitempty,max=150"`
	Email         *string `json:"email" form:"email" validate:"omitempty,email,max=150"`
	Phone         *string `json:"phone" form:"phone" validate:"omitempty,min=7,max=20"`
	Address       *string `json:"address" form:"address" validate:"omitempty,max=255"`
	Status        string  `json:"status" form:"status" validate:"required,oneof=active inactive"`
}

// ContactInput is the create/edit payload for a client contact.
type ContactInput struct {
	ClientID    int64   `json:"client_id" form:"client_id" validate:"required,gt=0"`
	Name        string  `json:"name" form:"name" validate:"required,max=150"`
	Email       *string `json:"email" form:"email" validate:"omitempty,email,max=150"`
	Phone       *string `json:"phone" form:"phone" validate:"omitempty,min=7,max=20"`
	Designation *string `json:"designation" form:"designation" validate:"omitempty,max=100"`
	IsPrimary   bool    `json:"is_primary" form:"is_primary"`
}
