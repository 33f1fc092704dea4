package dto

import (
	"time"

	"github.com/eldenheights/ehsas/internal/app/models"
)

// RegisterAlumniRequest is the public registration form
type RegisterAlumniRequest struct {
	FirstName        string `json:"first_name" binding:"max=100" example:"Asha"`
	LastName         string `json:"last_name" binding:"max=100" example:"Rao"`
	Email            string `json:"email" binding:"required,max=255" example:"asha@example.com"`
	Mobile           string `json:"mobile" binding:"max=32" example:"+91 98765 43210"`
	YearOfJoining    int    `json:"year_of_joining" example:"2008"`
	YearOfLeaving    int    `json:"year_of_leaving" binding:"required" example:"2020"`
	ClassOfJoining   string `json:"class_of_joining" binding:"max=32"`
	LastClassStudied string `json:"last_class_studied" binding:"max=32"`
	LastHouse        string `json:"last_house" binding:"max=64"`
	FullAddress      string `json:"full_address" binding:"max=1000"`
	City             string `json:"city" binding:"max=100" example:"Pune"`
	Pincode          string `json:"pincode" binding:"max=16"`
	State            string `json:"state" binding:"max=100"`
	Country          string `json:"country" binding:"max=100" example:"India"`
	Profession       string `json:"profession" binding:"max=255" example:"Software Engineer"`
	Organization     string `json:"organization" binding:"max=255"`
}

// RegisterAlumniResponse is returned after a successful registration
type RegisterAlumniResponse struct {
	ID        string `json:"id"`
	Message   string `json:"message" example:"Registration submitted successfully. You will receive confirmation once approved."`
	EmailSent bool   `json:"email_sent"`
}

// ReviewResponse is returned after approving or rejecting a registration
type ReviewResponse struct {
	Message   string `json:"message" example:"Alumni approved with EHSAS ID: EH200001"`
	EhsasID   string `json:"ehsas_id,omitempty" example:"EH200001"`
	EmailSent bool   `json:"email_sent"`
}

// DirectoryQuery holds the public directory filters
type DirectoryQuery struct {
	Batch      string `form:"batch"`
	Profession string `form:"profession"`
	City       string `form:"city"`
}

// PublicAlumni is the directory view of an approved record. Contact and
// address details are never exposed.
type PublicAlumni struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	YearOfJoining int        `json:"year_of_joining"`
	YearOfLeaving int        `json:"year_of_leaving"`
	LastHouse     string     `json:"last_house"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Country       string     `json:"country"`
	Profession    string     `json:"profession"`
	Organization  string     `json:"organization"`
	EhsasID       string     `json:"ehsas_id"`
	ApprovedAt    *time.Time `json:"approved_at"`
}

// NewPublicAlumni converts an alumni record to its directory view
func NewPublicAlumni(a *models.Alumni) PublicAlumni {
	p := PublicAlumni{
		ID:            a.ID,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		YearOfJoining: a.YearOfJoining,
		YearOfLeaving: a.YearOfLeaving,
		LastHouse:     a.LastHouse,
		City:          a.City,
		State:         a.State,
		Country:       a.Country,
		Profession:    a.Profession,
		Organization:  a.Organization,
		ApprovedAt:    a.ApprovedAt,
	}
	if a.EhsasID != nil {
		p.EhsasID = *a.EhsasID
	}
	return p
}
