package dto

// SiteInput is the create/edit payload for a site.
type SiteInput struct {
	ClientID       int64    `json:"client_id" form:"client_id" validate:"required,gt=0"`
	Name           string   `json:"name" form:"name" validate:"required,max=150"`
	Address        string   `json:"address" form:"address" validate:"required,max=255"`
	City           *string  `json:"city" form:"city" validate:"omitempty,max=100"`
	Latitude       *float64 `json:"latitude" form:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" form:"longitude" validate:"omitempty,longitude"`
	RequiredGuards int      `json:"required_guards" form:"required_guards" validate:"gte=0,lte=500"`
	Status         string   `json:"status" form:"status" validate:"required,oneof=active inactive"`
}

// SiteLocationInput is the create/edit payload for a post inside a site.
type SiteLocationInput struct {
	SiteID      int64    `json:"site_id" form:"site_id" validate:"required,gt=0"`
	Name        string   `json:"name" form:"name" validate:"required,max=150"`
	Description *string  `json:"description" form:"description" validate:"omitempty,max=500"`
	Latitude    *float64 `json:"latitude" form:"latitude" validate:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude" form:"longitude" validate:"omitempty,longitude"`
	IsActive    bool     `json:"is_active" form:"is_active"`
}
