package models

// AlumniStatus is the approval state of an alumni registration
type AlumniStatus string

const (
	StatusPending  AlumniStatus = "pending"
	StatusApproved AlumniStatus = "approved"
	StatusRejected AlumniStatus = "rejected"
)

// Valid reports whether s is a known status
func (s AlumniStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// RoleType defines the admin account role
type RoleType string

const (
	RoleAdmin RoleType = "admin"
)

// SpotlightCategory groups spotlight entries on the public page
type SpotlightCategory string

const (
	CategoryDoctor       SpotlightCategory = "doctor"
	CategoryFounder      SpotlightCategory = "founder"
	CategoryCivilServant SpotlightCategory = "civil_servant"
	CategoryCreator      SpotlightCategory = "creator"
	CategoryCorporate    SpotlightCategory = "corporate"
)

// SpotlightCategories lists every accepted category
var SpotlightCategories = []SpotlightCategory{
	CategoryDoctor,
	CategoryFounder,
	CategoryCivilServant,
	CategoryCreator,
	CategoryCorporate,
}

// Valid reports whether c is one of SpotlightCategories
func (c SpotlightCategory) Valid() bool {
	for _, known := range SpotlightCategories {
		if c == known {
			return true
		}
	}
	return false
}

// NotificationType classifies in-app notifications
type NotificationType string

const (
	NotificationRegistration NotificationType = "registration"
)
