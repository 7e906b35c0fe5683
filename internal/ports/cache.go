package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
)

// LockoutState is the current lockout envelope for a login key.
// It is cache-backed to avoid hot writes on every failed login.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// LockoutStore handles short-lived brute-force protection state.
type LockoutStore interface {
	Get(ctx context.Context, key string) (LockoutState, error)
	RecordFailure(ctx context.Context, key string, now time.Time, threshold int, lockoutWindow time.Duration) (LockoutState, error)
	Clear(ctx context.Context, key string) error
}

// SessionRevocationStore keeps revocation markers with token-aligned TTL.
// This allows immediate logout semantics without token introspection on every call.
type SessionRevocationStore interface {
	MarkRevoked(ctx context.Context, sessionID uuid.UUID, expiresAt time.Time) error
	IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// WizardStore persists in-flight registration drafts under the wizard token.
// Drafts are cache-only: an abandoned wizard leaves no database rows behind.
type WizardStore interface {
	Put(ctx context.Context, token string, draft domain.RegistrationDraft, ttl time.Duration) error
	Get(ctx context.Context, token string) (*domain.RegistrationDraft, error)
	Delete(ctx context.Context, token string) error
}
