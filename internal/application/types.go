package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
)

// RequestMeta carries transport metadata the service records against
// sessions and login attempts.
type RequestMeta struct {
	IPAddress  string
	UserAgent  string
	DeviceName string
	DeviceOS   string
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	SessionID   uuid.UUID    `json:"session_id"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=128"`
	NewPassword     string `json:"new_password" validate:"required,max=128"`
}

type SessionResponse struct {
	SessionID      uuid.UUID `json:"session_id"`
	DeviceName     string    `json:"device_name"`
	DeviceOS       string    `json:"device_os"`
	IPAddress      string    `json:"ip_address"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	Current        bool      `json:"current"`
}

type LoginAttemptResponse struct {
	AttemptAt     time.Time `json:"attempt_at"`
	IPAddress     string    `json:"ip_address"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	DeviceName    string    `json:"device_name,omitempty"`
}

// Wizard step payloads. Each is decoded strictly from the submitted raw
// body, validated, and stored back into the draft unmodified.

type AccountStep struct {
	Email          string `json:"email" validate:"required,email,max=255"`
	Password       string `json:"password" validate:"required,max=128"`
	AcceptedTerms  bool   `json:"accepted_terms" validate:"eq=true"`
	MarketingOptIn bool   `json:"marketing_opt_in"`
}

type PersonalStep struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Phone     string `json:"phone" validate:"required,max=20"`
}

type AddressStep struct {
	Suburb   string `json:"suburb" validate:"required,max=100"`
	Postcode string `json:"postcode" validate:"required,len=4"`
}

type CareNeedsStep struct {
	CareNeeds     []string `json:"care_needs" validate:"required,min=1,max=20,dive,required,max=100"`
	FundingSource string   `json:"funding_source" validate:"required,oneof=ndis home_care_package private insurance other"`
}

type OrganizationStep struct {
	OrganizationName string `json:"organization_name" validate:"required,max=200"`
	OrganizationABN  string `json:"organization_abn" validate:"required"`
	PositionTitle    string `json:"position_title" validate:"required,max=100"`
}

type ServicesStep struct {
	SubcategoryIDs  []string `json:"subcategory_ids" validate:"required,min=1,max=50,dive,uuid"`
	ABN             string   `json:"abn" validate:"omitempty"`
	YearsExperience int      `json:"years_experience" validate:"gte=0,lte=60"`
	DisplayName     string   `json:"display_name" validate:"omitempty,max=100"`
}

type WizardStepState struct {
	Step      domain.WizardStep `json:"step"`
	Completed bool              `json:"completed"`
}

type WizardStateResponse struct {
	Token     string            `json:"token"`
	Role      domain.Role       `json:"role"`
	Steps     []WizardStepState `json:"steps"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type CompleteWizardResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

type UpdateWorkerProfileRequest struct {
	DisplayName     *string `json:"display_name" validate:"omitempty,max=100"`
	Bio             *string `json:"bio" validate:"omitempty,max=1000"`
	Phone           *string `json:"phone" validate:"omitempty,max=20"`
	Suburb          *string `json:"suburb" validate:"omitempty,max=100"`
	Postcode        *string `json:"postcode" validate:"omitempty,len=4"`
	ABN             *string `json:"abn" validate:"omitempty"`
	YearsExperience *int    `json:"years_experience" validate:"omitempty,gte=0,lte=60"`
	HourlyRateCents *int    `json:"hourly_rate_cents" validate:"omitempty,gte=0,lte=100000"`
}

type WorkerProfileResponse struct {
	UserID          uuid.UUID  `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	DisplayName     string     `json:"display_name"`
	Bio             string     `json:"bio"`
	Phone           string     `json:"phone"`
	Suburb          string     `json:"suburb"`
	Postcode        string     `json:"postcode"`
	ABN             string     `json:"abn"`
	YearsExperience int        `json:"years_experience"`
	HourlyRateCents int        `json:"hourly_rate_cents"`
	Verified        bool       `json:"verified"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type ReplaceServicesRequest struct {
	SubcategoryIDs []string `json:"subcategory_ids" validate:"required,min=1,max=50,dive,uuid"`
}

type SubcategoryResponse struct {
	SubcategoryID uuid.UUID `json:"subcategory_id"`
	CategoryID    uuid.UUID `json:"category_id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
}

type CategoryResponse struct {
	CategoryID    uuid.UUID             `json:"category_id"`
	Slug          string                `json:"slug"`
	Name          string                `json:"name"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}

type SetupStepResponse struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Detail    string `json:"detail,omitempty"`
}

type SetupProgressResponse struct {
	Steps            []SetupStepResponse     `json:"steps"`
	PercentComplete  int                     `json:"percent_complete"`
	ComplianceStatus domain.ComplianceStatus `json:"compliance_status"`
	Verified         bool                    `json:"verified"`
}

type DocumentResponse struct {
	DocumentID      uuid.UUID             `json:"document_id"`
	DocumentType    string                `json:"document_type"`
	FileName        string                `json:"file_name"`
	ContentType     string                `json:"content_type"`
	SizeBytes       int64                 `json:"size_bytes"`
	Status          domain.DocumentStatus `json:"status"`
	RejectionReason string                `json:"rejection_reason,omitempty"`
	ExpiresAt       *time.Time            `json:"expires_at,omitempty"`
	UploadedAt      time.Time             `json:"uploaded_at"`
	ReviewedAt      *time.Time            `json:"reviewed_at,omitempty"`
}

// UploadDocumentParams carries an upload after the transport layer has read
// the multipart form. Content stays in memory; the size cap is enforced first.
type UploadDocumentParams struct {
	DocumentType string
	FileName     string
	ContentType  string
	Content      []byte
	ExpiresAt    *time.Time
}

type RequirementResultResponse struct {
	GroupKey      string                   `json:"group_key,omitempty"`
	DocumentTypes []string                 `json:"document_types"`
	Status        domain.RequirementStatus `json:"status"`
	Detail        string                   `json:"detail,omitempty"`
	Document      *DocumentResponse        `json:"document,omitempty"`
}

type ComplianceReportResponse struct {
	Status               domain.ComplianceStatus     `json:"status"`
	Requirements         []RequirementResultResponse `json:"requirements"`
	MissingDocumentTypes []string                    `json:"missing_document_types"`
	SatisfiedCount       int                         `json:"satisfied_count"`
	PendingCount         int                         `json:"pending_count"`
	ActionRequiredCount  int                         `json:"action_required_count"`
	MissingCount         int                         `json:"missing_count"`
}

type DirectoryQuery struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Suburb        string
	Limit         int
	Offset        int
}

type DirectoryWorkerResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Bio             string    `json:"bio"`
	Suburb          string    `json:"suburb"`
	YearsExperience int       `json:"years_experience"`
	HourlyRateCents int       `json:"hourly_rate_cents"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
}

type DirectoryResponse struct {
	Workers []DirectoryWorkerResponse `json:"workers"`
	Total   int64                     `json:"total"`
	Limit   int                       `json:"limit"`
	Offset  int                       `json:"offset"`
}

// AdminWorkersQuery is the parsed admin workers-table query string.
type AdminWorkersQuery struct {
	Search           string
	CategoryID       *uuid.UUID
	SubcategoryID    *uuid.UUID
	Verified         *bool
	Active           *bool
	ComplianceStatus string
	SortBy           string
	Limit            int
	Offset           int
}

type AdminWorkerItem struct {
	UserID           uuid.UUID               `json:"user_id"`
	FullName         string                  `json:"full_name"`
	Email            string                  `json:"email"`
	Suburb           string                  `json:"suburb"`
	Active           bool                    `json:"active"`
	Verified         bool                    `json:"verified"`
	ComplianceStatus domain.ComplianceStatus `json:"compliance_status"`
	PendingDocuments int                     `json:"pending_documents"`
	CreatedAt        time.Time               `json:"created_at"`
}

type AdminWorkersResponse struct {
	Workers []AdminWorkerItem `json:"workers"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

type AdminWorkerDetailResponse struct {
	Profile    WorkerProfileResponse    `json:"profile"`
	Email      string                   `json:"email"`
	Active     bool                     `json:"active"`
	Services   []SubcategoryResponse    `json:"services"`
	Documents  []DocumentResponse       `json:"documents"`
	Compliance ComplianceReportResponse `json:"compliance"`
}

type ReviewDocumentRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Reason   string `json:"reason" validate:"max=500"`
}

type PendingDocumentItem struct {
	Document   DocumentResponse `json:"document"`
	WorkerName string           `json:"worker_name"`
	UserID     uuid.UUID        `json:"user_id"`
}

type PendingDocumentsResponse struct {
	Documents []PendingDocumentItem `json:"documents"`
	Total     int64                 `json:"total"`
	Limit     int                   `json:"limit"`
	Offset    int                   `json:"offset"`
}

type CreateRequirementRequest struct {
	Scope            string  `json:"scope" validate:"required,oneof=base category subcategory"`
	CategoryID       *string `json:"category_id" validate:"omitempty,uuid"`
	SubcategoryID    *string `json:"subcategory_id" validate:"omitempty,uuid"`
	DocumentTypeCode string  `json:"document_type_code" validate:"required,max=64"`
	GroupKey         string  `json:"group_key" validate:"omitempty,max=64"`
}

type RequirementResponse struct {
	RequirementID    uuid.UUID               `json:"requirement_id"`
	Scope            domain.RequirementScope `json:"scope"`
	CategoryID       *uuid.UUID              `json:"category_id,omitempty"`
	SubcategoryID    *uuid.UUID              `json:"subcategory_id,omitempty"`
	DocumentTypeCode string                  `json:"document_type_code"`
	GroupKey         string                  `json:"group_key,omitempty"`
	CreatedAt        time.Time               `json:"created_at"`
}

type CreateDocumentTypeRequest struct {
	Code string `json:"code" validate:"required,max=64"`
	Name string `json:"name" validate:"required,max=200"`
}

type DocumentTypeResponse struct {
	DocumentTypeID uuid.UUID `json:"document_type_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateAliasRequest struct {
	Alias     string `json:"alias" validate:"required,max=64"`
	Canonical string `json:"canonical" validate:"required,max=64"`
}

type AliasResponse struct {
	AliasID   uuid.UUID `json:"alias_id"`
	Alias     string    `json:"alias"`
	Canonical string    `json:"canonical"`
	CreatedAt time.Time `json:"created_at"`
}
