package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

const (
	attemptSuccess = "success"
	attemptFailure = "failure"
	attemptLocked  = "locked"
)

// Login authenticates credentials, enforces lockout, creates a session row
// and issues an access token bound to it.
func (s *Service) Login(ctx context.Context, req LoginRequest, meta RequestMeta) (LoginResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return LoginResponse{}, err
	}
	email := normalizeEmail(req.Email)
	lockKey := "login:" + email

	state, err := s.lockouts.Get(ctx, lockKey)
	if err == nil && state.LockedUntil != nil && state.LockedUntil.After(s.nowFn()) {
		s.recordAttempt(ctx, nil, meta, attemptLocked, "account locked")
		return LoginResponse{}, domain.ErrAccountLocked
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn a compare so missing accounts cost the same as wrong passwords.
			_ = s.hasher.Compare("$2a$12$invalidinvalidinvalidinvalidinvalidinvalidinvalidinva", req.Password)
			s.recordFailure(ctx, nil, lockKey, meta, "unknown email")
			return LoginResponse{}, domain.ErrInvalidCredentials
		}
		return LoginResponse{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive || user.DeletedAt != nil {
		s.recordFailure(ctx, &user.UserID, lockKey, meta, "account inactive")
		return LoginResponse{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordFailure(ctx, &user.UserID, lockKey, meta, "wrong password")
		return LoginResponse{}, domain.ErrInvalidCredentials
	}

	_ = s.lockouts.Clear(ctx, lockKey)

	now := s.nowFn()
	session, err := s.sessions.Create(ctx, ports.SessionCreateParams{
		UserID:         user.UserID,
		DeviceName:     meta.DeviceName,
		DeviceOS:       meta.DeviceOS,
		IPAddress:      meta.IPAddress,
		UserAgent:      meta.UserAgent,
		ExpiresAt:      now.Add(s.cfg.SessionTTL),
		LastActivityAt: now,
	})
	if err != nil {
		return LoginResponse{}, fmt.Errorf("create session: %w", err)
	}

	claims := ports.AuthClaims{
		UserID:    user.UserID,
		Email:     user.Email,
		Role:      string(user.Role),
		SessionID: session.SessionID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}
	token, err := s.tokenSigner.Sign(claims)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	s.recordAttempt(ctx, &user.UserID, meta, attemptSuccess, "")
	return LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt,
		SessionID:   session.SessionID,
		User:        toUserResponse(user),
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, userID *uuid.UUID, lockKey string, meta RequestMeta, reason string) {
	s.recordAttempt(ctx, userID, meta, attemptFailure, reason)
	_, _ = s.lockouts.RecordFailure(ctx, lockKey, s.nowFn(), s.cfg.FailedLoginThreshold, s.cfg.LockoutDuration)
}

// Logout revokes the calling session both in Postgres and in the cache so the
// in-flight token dies immediately.
func (s *Service) Logout(ctx context.Context, claims ports.AuthClaims) error {
	now := s.nowFn()
	if err := s.sessions.RevokeByID(ctx, claims.SessionID, now); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if err := s.revocations.MarkRevoked(ctx, claims.SessionID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("mark session revoked: %w", err)
	}
	return nil
}

// LogoutAll revokes every session the user holds. The caller's own cached
// marker is set so their current token stops working without a DB roundtrip.
func (s *Service) LogoutAll(ctx context.Context, claims ports.AuthClaims) error {
	now := s.nowFn()
	if err := s.sessions.RevokeAllByUser(ctx, claims.UserID, now); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if err := s.revocations.MarkRevoked(ctx, claims.SessionID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("mark session revoked: %w", err)
	}
	return nil
}

// RevokeSession revokes one of the caller's other sessions by id.
func (s *Service) RevokeSession(ctx context.Context, claims ports.AuthClaims, sessionID uuid.UUID) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load session: %w", err)
	}
	if session.UserID != claims.UserID {
		return domain.ErrForbidden
	}
	now := s.nowFn()
	if err := s.sessions.RevokeByID(ctx, sessionID, now); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if err := s.revocations.MarkRevoked(ctx, sessionID, session.ExpiresAt); err != nil {
		return fmt.Errorf("mark session revoked: %w", err)
	}
	return nil
}

// ListSessions returns the user's sessions, newest first, flagging the current one.
func (s *Service) ListSessions(ctx context.Context, claims ports.AuthClaims, limit, offset int) ([]SessionResponse, error) {
	limit, offset = clampPage(limit, offset, 20, 100)
	sessions, err := s.sessions.ListByUser(ctx, claims.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, SessionResponse{
			SessionID:      sess.SessionID,
			DeviceName:     sess.DeviceName,
			DeviceOS:       sess.DeviceOS,
			IPAddress:      sess.IPAddress,
			CreatedAt:      sess.CreatedAt,
			LastActivityAt: sess.LastActivityAt,
			ExpiresAt:      sess.ExpiresAt,
			Current:        sess.SessionID == claims.SessionID,
		})
	}
	return out, nil
}

// ListLoginHistory returns the user's recent login attempts, newest first.
func (s *Service) ListLoginHistory(ctx context.Context, claims ports.AuthClaims, limit, offset int) ([]LoginAttemptResponse, error) {
	limit, offset = clampPage(limit, offset, 20, 100)
	attempts, err := s.loginAttempts.ListByUser(ctx, claims.UserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list login attempts: %w", err)
	}
	out := make([]LoginAttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, LoginAttemptResponse{
			AttemptAt:     a.AttemptAt,
			IPAddress:     a.IPAddress,
			Status:        a.Status,
			FailureReason: a.FailureReason,
			DeviceName:    a.DeviceName,
		})
	}
	return out, nil
}

// ChangePassword verifies the current password, stores the new hash and
// revokes every other session.
func (s *Service) ChangePassword(ctx context.Context, claims ports.AuthClaims, req ChangePasswordRequest) error {
	if err := s.checkStruct(req); err != nil {
		return err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.CurrentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	now := s.nowFn()
	if err := s.users.UpdatePassword(ctx, user.UserID, hash, now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.sessions.RevokeAllByUser(ctx, user.UserID, now); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	// Keep the caller logged in on a fresh session boundary: their current
	// session is gone too, matching the password-rotation everywhere rule.
	if err := s.revocations.MarkRevoked(ctx, claims.SessionID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("mark session revoked: %w", err)
	}
	return nil
}

// CurrentUser resolves the authenticated account.
func (s *Service) CurrentUser(ctx context.Context, claims ports.AuthClaims) (UserResponse, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return UserResponse{}, fmt.Errorf("load user: %w", err)
	}
	return toUserResponse(user), nil
}

// TouchSession bumps last-activity; called by the HTTP layer after auth.
func (s *Service) TouchSession(ctx context.Context, sessionID uuid.UUID) {
	_ = s.sessions.TouchActivity(ctx, sessionID, s.nowFn())
}
