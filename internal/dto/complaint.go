package dto

// ComplaintInput is the create/edit payload for a complaint.
type ComplaintInput struct {
	Title             string  `json:"title" form:"title" validate:"required,max=200"`
	Description       *string `json:"description" form:"description" validate:"omitempty,max=2000"`
	Priority          string  `json:"priority" form:"priority" validate:"required,oneof=low medium high urgent"`
	Status            string  `json:"status" form:"status" validate:"required,oneof=open in_progress resolved closed"`
	ReportedByID      int64   `json:"reported_by_id" form:"reported_by_id" validate:"required,gt=0"`
	AgainstID         *int64  `json:"against_id" form:"against_id" validate:"omitempty,gt=0"`
	SiteID            *int64  `json:"site_id" form:"site_id" validate:"omitempty,gt=0"`
	IsVisibleToClient bool    `json:"is_visible_to_client" form:"is_visible_to_client"`
	IsVisibleToGuard  bool    `json:"is_visible_to_guard" form:"is_visible_to_guard"`
}
