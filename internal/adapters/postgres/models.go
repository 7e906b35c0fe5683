package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID       uuid.UUID  `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email"`
	PasswordHash string     `gorm:"column:password_hash"`
	Role         string     `gorm:"column:role"`
	IsActive     bool       `gorm:"column:is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
}

func (userModel) TableName() string { return "users" }

type sessionModel struct {
	SessionID      uuid.UUID  `gorm:"column:session_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"column:user_id"`
	DeviceName     string     `gorm:"column:device_name"`
	DeviceOS       string     `gorm:"column:device_os"`
	IPAddress      *string    `gorm:"column:ip_address"`
	UserAgent      string     `gorm:"column:user_agent"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	LastActivityAt time.Time  `gorm:"column:last_activity_at"`
	ExpiresAt      time.Time  `gorm:"column:expires_at"`
	RevokedAt      *time.Time `gorm:"column:revoked_at"`
}

func (sessionModel) TableName() string { return "sessions" }

type loginAttemptModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	UserID        *uuid.UUID `gorm:"column:user_id"`
	AttemptAt     time.Time  `gorm:"column:attempt_at"`
	IPAddress     *string    `gorm:"column:ip_address"`
	Status        string     `gorm:"column:status"`
	FailureReason string     `gorm:"column:failure_reason"`
	DeviceName    string     `gorm:"column:device_name"`
	DeviceOS      string     `gorm:"column:device_os"`
	UserAgent     string     `gorm:"column:user_agent"`
}

func (loginAttemptModel) TableName() string { return "login_attempts" }

type workerProfileModel struct {
	ProfileID       uuid.UUID  `gorm:"column:profile_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID  `gorm:"column:user_id"`
	FirstName       string     `gorm:"column:first_name"`
	LastName        string     `gorm:"column:last_name"`
	DisplayName     string     `gorm:"column:display_name"`
	Bio             string     `gorm:"column:bio"`
	Phone           string     `gorm:"column:phone"`
	Suburb          string     `gorm:"column:suburb"`
	Postcode        string     `gorm:"column:postcode"`
	ABN             string     `gorm:"column:abn"`
	YearsExperience int        `gorm:"column:years_experience"`
	HourlyRateCents int        `gorm:"column:hourly_rate_cents"`
	Verified        bool       `gorm:"column:verified"`
	VerifiedAt      *time.Time `gorm:"column:verified_at"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
	DeletedAt       *time.Time `gorm:"column:deleted_at"`
}

func (workerProfileModel) TableName() string { return "worker_profiles" }

type clientProfileModel struct {
	ProfileID     uuid.UUID `gorm:"column:profile_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id"`
	FirstName     string    `gorm:"column:first_name"`
	LastName      string    `gorm:"column:last_name"`
	Phone         string    `gorm:"column:phone"`
	Suburb        string    `gorm:"column:suburb"`
	Postcode      string    `gorm:"column:postcode"`
	CareNeeds     string    `gorm:"column:care_needs;type:jsonb"`
	FundingSource string    `gorm:"column:funding_source"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (clientProfileModel) TableName() string { return "client_profiles" }

type coordinatorProfileModel struct {
	ProfileID        uuid.UUID `gorm:"column:profile_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"column:user_id"`
	FirstName        string    `gorm:"column:first_name"`
	LastName         string    `gorm:"column:last_name"`
	Phone            string    `gorm:"column:phone"`
	OrganizationName string    `gorm:"column:organization_name"`
	OrganizationABN  string    `gorm:"column:organization_abn"`
	PositionTitle    string    `gorm:"column:position_title"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (coordinatorProfileModel) TableName() string { return "coordinator_profiles" }

type serviceCategoryModel struct {
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug       string    `gorm:"column:slug"`
	Name       string    `gorm:"column:name"`
	SortOrder  int       `gorm:"column:sort_order"`
}

func (serviceCategoryModel) TableName() string { return "service_categories" }

type serviceSubcategoryModel struct {
	SubcategoryID uuid.UUID `gorm:"column:subcategory_id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    uuid.UUID `gorm:"column:category_id"`
	Slug          string    `gorm:"column:slug"`
	Name          string    `gorm:"column:name"`
	SortOrder     int       `gorm:"column:sort_order"`
}

func (serviceSubcategoryModel) TableName() string { return "service_subcategories" }

type workerServiceModel struct {
	WorkerServiceID uuid.UUID `gorm:"column:worker_service_id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID `gorm:"column:user_id"`
	SubcategoryID   uuid.UUID `gorm:"column:subcategory_id"`
	AddedAt         time.Time `gorm:"column:added_at"`
}

func (workerServiceModel) TableName() string { return "worker_services" }

type documentTypeModel struct {
	DocumentTypeID uuid.UUID `gorm:"column:document_type_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string    `gorm:"column:code"`
	Name           string    `gorm:"column:name"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (documentTypeModel) TableName() string { return "document_types" }

type documentTypeAliasModel struct {
	AliasID   uuid.UUID `gorm:"column:alias_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Alias     string    `gorm:"column:alias"`
	Canonical string    `gorm:"column:canonical"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (documentTypeAliasModel) TableName() string { return "document_type_aliases" }

type documentRequirementModel struct {
	RequirementID    uuid.UUID  `gorm:"column:requirement_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Scope            string     `gorm:"column:scope"`
	CategoryID       *uuid.UUID `gorm:"column:category_id"`
	SubcategoryID    *uuid.UUID `gorm:"column:subcategory_id"`
	DocumentTypeCode string     `gorm:"column:document_type_code"`
	GroupKey         string     `gorm:"column:group_key"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

func (documentRequirementModel) TableName() string { return "document_requirements" }

type verificationDocumentModel struct {
	DocumentID      uuid.UUID  `gorm:"column:document_id;type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"column:user_id"`
	DocumentType    string     `gorm:"column:document_type"`
	FileKey         string     `gorm:"column:file_key"`
	FileName        string     `gorm:"column:file_name"`
	ContentType     string     `gorm:"column:content_type"`
	SizeBytes       int64      `gorm:"column:size_bytes"`
	Status          string     `gorm:"column:status"`
	RejectionReason string     `gorm:"column:rejection_reason"`
	ExpiresAt       *time.Time `gorm:"column:expires_at"`
	UploadedAt      time.Time  `gorm:"column:uploaded_at"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
	ReviewedBy      *uuid.UUID `gorm:"column:reviewed_by"`
}

func (verificationDocumentModel) TableName() string { return "verification_documents" }

type outboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	FirstSeenAt    time.Time  `gorm:"column:first_seen_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (outboxModel) TableName() string { return "marketplace_outbox" }

type idempotencyModel struct {
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash    string    `gorm:"column:request_hash"`
	Status         string    `gorm:"column:status"`
	ResponseCode   int       `gorm:"column:response_code"`
	ResponseBody   *string   `gorm:"column:response_body;type:jsonb"`
	ExpiresAt      time.Time `gorm:"column:expires_at"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyModel) TableName() string { return "marketplace_idempotency" }
