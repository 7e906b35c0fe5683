package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus is the review lifecycle of one uploaded verification document.
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// RequirementScope says which workers a document requirement applies to.
type RequirementScope string

const (
	// ScopeBase requirements apply to every worker regardless of services.
	ScopeBase RequirementScope = "base"
	// ScopeCategory requirements apply when the worker offers any subcategory of the category.
	ScopeCategory RequirementScope = "category"
	// ScopeSubcategory requirements apply when the worker offers the exact subcategory.
	ScopeSubcategory RequirementScope = "subcategory"
)

// DocumentType is a canonical compliance document kind, e.g. police check.
type DocumentType struct {
	DocumentTypeID uuid.UUID
	Code           string
	Name           string
	CreatedAt      time.Time
}

// DocumentTypeAlias maps a legacy upload code to its canonical document type.
// Older uploads carry retired codes; the engine resolves them through this table.
type DocumentTypeAlias struct {
	AliasID   uuid.UUID
	Alias     string
	Canonical string
	CreatedAt time.Time
}

// DocumentRequirement is one row of the admin-configured requirement matrix.
// Rows sharing a non-empty GroupKey form an at-least-one-of group.
type DocumentRequirement struct {
	RequirementID    uuid.UUID
	Scope            RequirementScope
	CategoryID       *uuid.UUID
	SubcategoryID    *uuid.UUID
	DocumentTypeCode string
	GroupKey         string
	CreatedAt        time.Time
}

// VerificationDocument is one uploaded compliance document and its review state.
type VerificationDocument struct {
	DocumentID      uuid.UUID
	UserID          uuid.UUID
	DocumentType    string
	FileKey         string
	FileName        string
	ContentType     string
	SizeBytes       int64
	Status          DocumentStatus
	RejectionReason string
	ExpiresAt       *time.Time
	UploadedAt      time.Time
	ReviewedAt      *time.Time
	ReviewedBy      *uuid.UUID
}

// Expired reports whether the document is past its expiry at the given time.
func (d VerificationDocument) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && d.ExpiresAt.Before(now)
}
