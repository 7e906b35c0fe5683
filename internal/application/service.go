package application

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

type Config struct {
	TokenTTL             time.Duration
	SessionTTL           time.Duration
	SessionAbsoluteTTL   time.Duration
	FailedLoginThreshold int
	LockoutDuration      time.Duration
	WizardTTL            time.Duration
	IdempotencyTTL       time.Duration
	MaxDocumentBytes     int64
	DirectoryPageLimit   int
}

type Service struct {
	cfg           Config
	users         ports.UserRepository
	sessions      ports.SessionRepository
	loginAttempts ports.LoginAttemptRepository
	workers       ports.WorkerProfileRepository
	clients       ports.ClientProfileRepository
	coordinators  ports.CoordinatorProfileRepository
	catalog       ports.CatalogRepository
	documents     ports.DocumentRepository
	requirements  ports.RequirementRepository
	workerReads   ports.WorkerReadRepository
	outbox        ports.OutboxRepository
	idempotency   ports.IdempotencyRepository
	lockouts      ports.LockoutStore
	revocations   ports.SessionRevocationStore
	wizards       ports.WizardStore
	blobs         ports.BlobStore
	hasher        ports.PasswordHasher
	tokenSigner   ports.TokenSigner
	validate      *validator.Validate
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Users         ports.UserRepository
	Sessions      ports.SessionRepository
	LoginAttempts ports.LoginAttemptRepository
	Workers       ports.WorkerProfileRepository
	Clients       ports.ClientProfileRepository
	Coordinators  ports.CoordinatorProfileRepository
	Catalog       ports.CatalogRepository
	Documents     ports.DocumentRepository
	Requirements  ports.RequirementRepository
	WorkerReads   ports.WorkerReadRepository
	Outbox        ports.OutboxRepository
	Idempotency   ports.IdempotencyRepository
	Lockouts      ports.LockoutStore
	Revocations   ports.SessionRevocationStore
	Wizards       ports.WizardStore
	Blobs         ports.BlobStore
	Hasher        ports.PasswordHasher
	TokenSigner   ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.WizardTTL <= 0 {
		cfg.WizardTTL = 48 * time.Hour
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = 7 * 24 * time.Hour
	}
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 10 * 1024 * 1024
	}
	if cfg.DirectoryPageLimit <= 0 {
		cfg.DirectoryPageLimit = 50
	}
	return &Service{
		cfg:           cfg,
		users:         deps.Users,
		sessions:      deps.Sessions,
		loginAttempts: deps.LoginAttempts,
		workers:       deps.Workers,
		clients:       deps.Clients,
		coordinators:  deps.Coordinators,
		catalog:       deps.Catalog,
		documents:     deps.Documents,
		requirements:  deps.Requirements,
		workerReads:   deps.WorkerReads,
		outbox:        deps.Outbox,
		idempotency:   deps.Idempotency,
		lockouts:      deps.Lockouts,
		revocations:   deps.Revocations,
		wizards:       deps.Wizards,
		blobs:         deps.Blobs,
		hasher:        deps.Hasher,
		tokenSigner:   deps.TokenSigner,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}

// ValidateToken checks signature, revocation markers and the backing session row.
// The session row stays source of truth; the JWT alone never grants access.
func (s *Service) ValidateToken(ctx context.Context, token string) (ports.AuthClaims, error) {
	claims, err := s.tokenSigner.ParseAndValidate(token)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	if revoked, _ := s.revocations.IsRevoked(ctx, claims.SessionID); revoked {
		return ports.AuthClaims{}, domain.ErrSessionRevoked
	}
	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	if session.UserID != claims.UserID {
		return ports.AuthClaims{}, domain.ErrUnauthorized
	}
	if session.RevokedAt != nil {
		return ports.AuthClaims{}, domain.ErrSessionRevoked
	}
	if session.ExpiresAt.Before(s.nowFn()) {
		return ports.AuthClaims{}, domain.ErrSessionExpired
	}
	if s.cfg.SessionAbsoluteTTL > 0 && session.CreatedAt.Add(s.cfg.SessionAbsoluteTTL).Before(s.nowFn()) {
		return ports.AuthClaims{}, domain.ErrSessionExpired
	}
	return claims, nil
}

// PublicJWKs exposes the verification keys for downstream consumers.
func (s *Service) PublicJWKs() ([]map[string]any, error) {
	return s.tokenSigner.PublicJWKs()
}
