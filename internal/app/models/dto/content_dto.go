package dto

// CreateEventRequest creates an event. New events are always active.
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,max=255" example:"Annual Reunion"`
	Description string `json:"description"`
	EventType   string `json:"event_type" binding:"max=64" example:"reunion"`
	Date        string `json:"date" binding:"max=32" example:"2025-12-20"`
	Time        string `json:"time" binding:"max=32" example:"18:00"`
	Location    string `json:"location" binding:"max=255" example:"School Auditorium"`
	ImageURL    string `json:"image_url"`
}

// UpdateEventRequest changes only the fields present in the request
type UpdateEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	EventType   *string `json:"event_type" binding:"omitempty,max=64"`
	Date        *string `json:"date" binding:"omitempty,max=32"`
	Time        *string `json:"time" binding:"omitempty,max=32"`
	Location    *string `json:"location" binding:"omitempty,max=255"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
}

// CreateSpotlightRequest creates a spotlight entry. New entries are always featured.
type CreateSpotlightRequest struct {
	Name        string `json:"name" binding:"required,max=255" example:"Dr. Meera Iyer"`
	Batch       string `json:"batch" binding:"max=16" example:"2005"`
	Profession  string `json:"profession" binding:"max=255" example:"Cardiologist"`
	Achievement string `json:"achievement"`
	Category    string `json:"category" binding:"required" example:"doctor"`
	ImageURL    string `json:"image_url"`
}

// UpdateSpotlightRequest changes only the fields present in the request
type UpdateSpotlightRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Batch       *string `json:"batch" binding:"omitempty,max=16"`
	Profession  *string `json:"profession" binding:"omitempty,max=255"`
	Achievement *string `json:"achievement"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	IsFeatured  *bool   `json:"is_featured"`
}
