package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountLocked signals temporary lockout after repeated failed attempts.
	ErrAccountLocked       = errors.New("account locked")
	ErrSessionRevoked      = errors.New("session revoked")
	ErrSessionExpired      = errors.New("session expired")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("conflict")
	ErrIdempotencyConflict = errors.New("idempotency conflict")
	// ErrWizardExpired is returned when a registration draft token is unknown or past TTL.
	// Distinct from ErrNotFound so the client can restart the wizard instead of retrying.
	ErrWizardExpired = errors.New("registration draft expired")
	// ErrWizardIncomplete is returned when completion is requested with steps still missing.
	ErrWizardIncomplete = errors.New("registration steps incomplete")
	// ErrDocumentLocked prevents deleting a document an admin has already approved.
	ErrDocumentLocked = errors.New("approved document cannot be removed")
)
