package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
)

// WorkerProfileParams is the worker slice of a registration completion.
type WorkerProfileParams struct {
	FirstName       string
	LastName        string
	DisplayName     string
	Phone           string
	Suburb          string
	Postcode        string
	ABN             string
	YearsExperience int
	SubcategoryIDs  []uuid.UUID
}

// ClientProfileParams is the client slice of a registration completion.
type ClientProfileParams struct {
	FirstName     string
	LastName      string
	Phone         string
	Suburb        string
	Postcode      string
	CareNeeds     []string
	FundingSource string
}

// CoordinatorProfileParams is the coordinator slice of a registration completion.
type CoordinatorProfileParams struct {
	FirstName        string
	LastName         string
	Phone            string
	OrganizationName string
	OrganizationABN  string
	PositionTitle    string
}

// CreateUserTxParams captures atomic registration-completion inputs.
// Exactly one of the profile params is set, matching the account role.
type CreateUserTxParams struct {
	Email        string
	PasswordHash string
	Role         domain.Role
	RegisteredAt time.Time

	Worker      *WorkerProfileParams
	Client      *ClientProfileParams
	Coordinator *CoordinatorProfileParams
}

// UserRepository defines persistence operations for account identities.
// The transactional create enforces user+profile+outbox consistency.
type UserRepository interface {
	CreateWithProfileTx(ctx context.Context, params CreateUserTxParams, outboxEvent OutboxEvent) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error
	Deactivate(ctx context.Context, userID uuid.UUID, deactivatedAt time.Time) error
}

// SessionCreateParams captures metadata required to create a session record.
type SessionCreateParams struct {
	UserID         uuid.UUID
	DeviceName     string
	DeviceOS       string
	IPAddress      string
	UserAgent      string
	ExpiresAt      time.Time
	LastActivityAt time.Time
}

// SessionRepository manages persistent session lifecycle.
type SessionRepository interface {
	Create(ctx context.Context, params SessionCreateParams) (domain.Session, error)
	GetByID(ctx context.Context, sessionID uuid.UUID) (domain.Session, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Session, error)
	TouchActivity(ctx context.Context, sessionID uuid.UUID, touchedAt time.Time) error
	RevokeByID(ctx context.Context, sessionID uuid.UUID, revokedAt time.Time) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID, revokedAt time.Time) error
}

// LoginAttemptRepository stores login outcomes used by lockout and audit.
type LoginAttemptRepository interface {
	Insert(ctx context.Context, attempt domain.LoginAttempt) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.LoginAttempt, error)
}

// UpdateWorkerProfileParams carries partial worker-profile updates.
// Nil pointers leave the column untouched.
type UpdateWorkerProfileParams struct {
	UserID          uuid.UUID
	DisplayName     *string
	Bio             *string
	Phone           *string
	Suburb          *string
	Postcode        *string
	ABN             *string
	YearsExperience *int
	HourlyRateCents *int
	UpdatedAt       time.Time
}

// WorkerProfileRepository owns contractor profile rows.
type WorkerProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.WorkerProfile, error)
	Update(ctx context.Context, params UpdateWorkerProfileParams) (domain.WorkerProfile, error)
	SetVerified(ctx context.Context, userID uuid.UUID, verified bool, at time.Time) error
}

// ClientProfileRepository owns care-recipient profile rows.
type ClientProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.ClientProfile, error)
}

// CoordinatorProfileRepository owns support-coordinator profile rows.
type CoordinatorProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (domain.CoordinatorProfile, error)
}

// CatalogRepository exposes the service taxonomy and worker service selections.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]domain.ServiceCategory, error)
	ListSubcategories(ctx context.Context) ([]domain.ServiceSubcategory, error)
	GetSubcategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.ServiceSubcategory, error)
	ListWorkerSubcategories(ctx context.Context, userID uuid.UUID) ([]domain.ServiceSubcategory, error)
	ReplaceWorkerServices(ctx context.Context, userID uuid.UUID, subcategoryIDs []uuid.UUID, now time.Time) error
}

// CreateDocumentParams captures one verification-document upload.
// DocumentID is assigned by the caller so the stored row matches the
// blob key minted for the file.
type CreateDocumentParams struct {
	DocumentID   uuid.UUID
	UserID       uuid.UUID
	DocumentType string
	FileKey      string
	FileName     string
	ContentType  string
	SizeBytes    int64
	ExpiresAt    *time.Time
	UploadedAt   time.Time
}

// ReviewDocumentParams captures one admin review decision.
type ReviewDocumentParams struct {
	DocumentID      uuid.UUID
	Status          domain.DocumentStatus
	RejectionReason string
	ReviewedBy      uuid.UUID
	ReviewedAt      time.Time
}

// DocumentRepository owns verification-document rows.
type DocumentRepository interface {
	Create(ctx context.Context, params CreateDocumentParams) (domain.VerificationDocument, error)
	GetByID(ctx context.Context, documentID uuid.UUID) (domain.VerificationDocument, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.VerificationDocument, error)
	ListByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]domain.VerificationDocument, error)
	Delete(ctx context.Context, documentID uuid.UUID) error
	Review(ctx context.Context, params ReviewDocumentParams) (domain.VerificationDocument, error)
	ListPending(ctx context.Context, limit, offset int) ([]domain.VerificationDocument, int64, error)
}

// CreateRequirementParams captures one requirement-matrix row.
type CreateRequirementParams struct {
	Scope            domain.RequirementScope
	CategoryID       *uuid.UUID
	SubcategoryID    *uuid.UUID
	DocumentTypeCode string
	GroupKey         string
	CreatedAt        time.Time
}

// RequirementRepository owns the admin-configured requirement matrix.
type RequirementRepository interface {
	ListRequirements(ctx context.Context) ([]domain.DocumentRequirement, error)
	CreateRequirement(ctx context.Context, params CreateRequirementParams) (domain.DocumentRequirement, error)
	DeleteRequirement(ctx context.Context, requirementID uuid.UUID) error
	ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error)
	CreateDocumentType(ctx context.Context, code, name string, at time.Time) (domain.DocumentType, error)
	AliasMap(ctx context.Context) (map[string]string, error)
	CreateAlias(ctx context.Context, alias, canonical string, at time.Time) (domain.DocumentTypeAlias, error)
}

// AdminWorkerFilter narrows the admin workers table.
type AdminWorkerFilter struct {
	Search        string
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Verified      *bool
	Active        *bool
	SortBy        string
	Limit         int
	Offset        int
}

// DirectoryFilter narrows the public verified-worker directory.
type DirectoryFilter struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Suburb        string
	Limit         int
	Offset        int
}

// WorkerRow joins account and profile fields for list views.
type WorkerRow struct {
	Profile domain.WorkerProfile
	Email   string
	Active  bool
}

// WorkerReadRepository serves the admin table and the public directory.
// Separate from WorkerProfileRepository so list queries can join freely.
type WorkerReadRepository interface {
	AdminListWorkers(ctx context.Context, filter AdminWorkerFilter) ([]WorkerRow, int64, error)
	DirectoryWorkers(ctx context.Context, filter DirectoryFilter) ([]WorkerRow, int64, error)
}

// OutboxEvent is the write-side event payload prior to storage.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	FirstSeenAt    time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls publish-retry workflow for domain events.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}

// IdempotencyRecord tracks a previously accepted mutating request.
type IdempotencyRecord struct {
	Key          string
	RequestHash  string
	Status       string
	ResponseCode int
	ResponseBody []byte
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IdempotencyRepository enforces idempotent mutation semantics.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	Reserve(ctx context.Context, key, requestHash string, expiresAt time.Time) error
	Complete(ctx context.Context, key string, responseCode int, responseBody []byte, at time.Time) error
}
