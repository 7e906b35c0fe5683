package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the account role assigned at registration time.
type Role string

const (
	RoleClient      Role = "client"
	RoleCoordinator Role = "coordinator"
	RoleWorker      Role = "worker"
	RoleAdmin       Role = "admin"
)

// ValidRegistrationRole reports whether a wizard may be started for the role.
// Admin accounts are provisioned out of band, never through the public wizard.
func ValidRegistrationRole(r Role) bool {
	switch r {
	case RoleClient, RoleCoordinator, RoleWorker:
		return true
	default:
		return false
	}
}

// User is the canonical account identity aggregate.
// It keeps only auth-relevant state; role profiles carry everything else.
type User struct {
	UserID       uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session models a login session.
// Persisted separately to support per-device revocation and session history.
type Session struct {
	SessionID      uuid.UUID
	UserID         uuid.UUID
	DeviceName     string
	DeviceOS       string
	IPAddress      string
	UserAgent      string
	CreatedAt      time.Time
	LastActivityAt time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
}

// LoginAttempt records authentication outcomes for audit and lockout controls.
type LoginAttempt struct {
	ID            int64
	UserID        *uuid.UUID
	AttemptAt     time.Time
	IPAddress     string
	Status        string
	FailureReason string
	DeviceName    string
	DeviceOS      string
	UserAgent     string
}
