package models

import "time"

// Spotlight is a curated alumni showcase entry, independent of alumni records
type Spotlight struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Batch       string            `json:"batch"`
	Profession  string            `json:"profession"`
	Achievement string            `json:"achievement"`
	Category    SpotlightCategory `json:"category"`
	ImageURL    string            `json:"image_url"`
	IsFeatured  bool              `json:"is_featured"`
	CreatedAt   time.Time         `json:"created_at"`
}
