package models

import "time"

// Alumni is a registration record and, once approved, a directory entry
type Alumni struct {
	ID               string       `json:"id"`
	FirstName        string       `json:"first_name"`
	LastName         string       `json:"last_name"`
	Email            string       `json:"email"`
	Mobile           string       `json:"mobile"`
	YearOfJoining    int          `json:"year_of_joining"`
	YearOfLeaving    int          `json:"year_of_leaving"`
	ClassOfJoining   string       `json:"class_of_joining"`
	LastClassStudied string       `json:"last_class_studied"`
	LastHouse        string       `json:"last_house"`
	FullAddress      string       `json:"full_address"`
	City             string       `json:"city"`
	Pincode          string       `json:"pincode"`
	State            string       `json:"state"`
	Country          string       `json:"country"`
	Profession       string       `json:"profession"`
	Organization     string       `json:"organization"`
	Status           AlumniStatus `json:"status"`
	EhsasID          *string      `json:"ehsas_id"`
	CreatedAt        time.Time    `json:"created_at"`
	ApprovedAt       *time.Time   `json:"approved_at"`
}

// FullName joins first and last name
func (a *Alumni) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// AlumniFilter holds the equality filters pushed down to the store
type AlumniFilter struct {
	Status        *AlumniStatus
	YearOfLeaving *int
}

// BatchCount is the number of approved alumni in one batch
type BatchCount struct {
	Batch int `json:"batch"`
	Count int `json:"count"`
}
