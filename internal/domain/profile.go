package domain

import (
	"time"

	"github.com/google/uuid"
)

// WorkerProfile is the contractor-side profile shown in the directory and admin table.
type WorkerProfile struct {
	ProfileID       uuid.UUID
	UserID          uuid.UUID
	FirstName       string
	LastName        string
	DisplayName     string
	Bio             string
	Phone           string
	Suburb          string
	Postcode        string
	ABN             string
	YearsExperience int
	HourlyRateCents int
	Verified        bool
	VerifiedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// FullName concatenates the legal name parts for admin views.
func (p WorkerProfile) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// ClientProfile holds care-recipient registration data.
type ClientProfile struct {
	ProfileID     uuid.UUID
	UserID        uuid.UUID
	FirstName     string
	LastName      string
	Phone         string
	Suburb        string
	Postcode      string
	CareNeeds     []string
	FundingSource string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CoordinatorProfile holds support-coordinator registration data.
// Coordinators register on behalf of an organization and arrange care for clients.
type CoordinatorProfile struct {
	ProfileID        uuid.UUID
	UserID           uuid.UUID
	FirstName        string
	LastName         string
	Phone            string
	OrganizationName string
	OrganizationABN  string
	PositionTitle    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
