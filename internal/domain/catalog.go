package domain

import (
	"time"

	"github.com/google/uuid"
)

// ServiceCategory is a top-level care service grouping, e.g. "Personal Care".
type ServiceCategory struct {
	CategoryID uuid.UUID
	Slug       string
	Name       string
	SortOrder  int
}

// ServiceSubcategory is a bookable service under a category, e.g. "Overnight Care".
// Workers select subcategories; the requirement matrix hangs off both levels.
type ServiceSubcategory struct {
	SubcategoryID uuid.UUID
	CategoryID    uuid.UUID
	Slug          string
	Name          string
	SortOrder     int
}

// WorkerService links a worker to a subcategory they offer.
type WorkerService struct {
	WorkerServiceID uuid.UUID
	UserID          uuid.UUID
	SubcategoryID   uuid.UUID
	AddedAt         time.Time
}
