package application

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func randomHex(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	return hex.EncodeToString(buf)
}

func hashRequest(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// decodeStrict rejects unknown fields and trailing JSON values.
func decodeStrict(raw []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: body must contain a single JSON value", domain.ErrInvalidInput)
	}
	return nil
}

// checkStruct runs tag validation and folds the first failure into ErrInvalidInput.
func (s *Service) checkStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: field %s failed %s validation", domain.ErrInvalidInput, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, r)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, nil
}

// newOutboxEvent marshals the payload into a ready-to-enqueue outbox event.
func newOutboxEvent(eventType, partitionKey string, payload any, at time.Time) (ports.OutboxEvent, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ports.OutboxEvent{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      body,
		OccurredAt:   at,
	}, nil
}

// beginIdempotent reserves the idempotency key, replaying a stored response
// when the same request was already completed. A differing request hash under
// the same key is a client bug and is refused.
func (s *Service) beginIdempotent(ctx context.Context, key, requestHash string) (replay []byte, proceed bool, err error) {
	if key == "" {
		return nil, true, nil
	}
	now := s.nowFn()
	existing, err := s.idempotency.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if existing != nil && existing.ExpiresAt.After(now) {
		if existing.RequestHash != requestHash {
			return nil, false, domain.ErrIdempotencyConflict
		}
		if existing.Status == "COMPLETED" {
			return existing.ResponseBody, false, nil
		}
		return nil, false, fmt.Errorf("%w: request with this idempotency key is in flight", domain.ErrConflict)
	}
	if err := s.idempotency.Reserve(ctx, key, requestHash, now.Add(s.cfg.IdempotencyTTL)); err != nil {
		return nil, false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return nil, true, nil
}

func (s *Service) finishIdempotent(ctx context.Context, key string, code int, body any) {
	if key == "" {
		return
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return
	}
	_ = s.idempotency.Complete(ctx, key, code, encoded, s.nowFn())
}

func (s *Service) recordAttempt(ctx context.Context, userID *uuid.UUID, meta RequestMeta, status, reason string) {
	_ = s.loginAttempts.Insert(ctx, domain.LoginAttempt{
		UserID:        userID,
		AttemptAt:     s.nowFn(),
		IPAddress:     meta.IPAddress,
		Status:        status,
		FailureReason: reason,
		DeviceName:    meta.DeviceName,
		DeviceOS:      meta.DeviceOS,
		UserAgent:     meta.UserAgent,
	})
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func toDocumentResponse(d domain.VerificationDocument) DocumentResponse {
	return DocumentResponse{
		DocumentID:      d.DocumentID,
		DocumentType:    d.DocumentType,
		FileName:        d.FileName,
		ContentType:     d.ContentType,
		SizeBytes:       d.SizeBytes,
		Status:          d.Status,
		RejectionReason: d.RejectionReason,
		ExpiresAt:       d.ExpiresAt,
		UploadedAt:      d.UploadedAt,
		ReviewedAt:      d.ReviewedAt,
	}
}

func toWorkerProfileResponse(p domain.WorkerProfile) WorkerProfileResponse {
	return WorkerProfileResponse{
		UserID:          p.UserID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		DisplayName:     p.DisplayName,
		Bio:             p.Bio,
		Phone:           p.Phone,
		Suburb:          p.Suburb,
		Postcode:        p.Postcode,
		ABN:             p.ABN,
		YearsExperience: p.YearsExperience,
		HourlyRateCents: p.HourlyRateCents,
		Verified:        p.Verified,
		VerifiedAt:      p.VerifiedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toSubcategoryResponses(subs []domain.ServiceSubcategory) []SubcategoryResponse {
	out := make([]SubcategoryResponse, 0, len(subs))
	for _, sc := range subs {
		out = append(out, SubcategoryResponse{
			SubcategoryID: sc.SubcategoryID,
			CategoryID:    sc.CategoryID,
			Slug:          sc.Slug,
			Name:          sc.Name,
		})
	}
	return out
}

func toComplianceResponse(report domain.ComplianceReport) ComplianceReportResponse {
	reqs := make([]RequirementResultResponse, 0, len(report.Requirements))
	for _, r := range report.Requirements {
		item := RequirementResultResponse{
			GroupKey:      r.GroupKey,
			DocumentTypes: r.DocumentTypes,
			Status:        r.Status,
			Detail:        r.Detail,
		}
		if r.Document != nil {
			doc := toDocumentResponse(*r.Document)
			item.Document = &doc
		}
		reqs = append(reqs, item)
	}
	missing := report.MissingDocumentTypes()
	if missing == nil {
		missing = []string{}
	}
	return ComplianceReportResponse{
		Status:               report.Status,
		Requirements:         reqs,
		MissingDocumentTypes: missing,
		SatisfiedCount:       report.SatisfiedCount,
		PendingCount:         report.PendingCount,
		ActionRequiredCount:  report.ActionRequiredCount,
		MissingCount:         report.MissingCount,
	}
}

func clampPage(limit, offset, defaultLimit, maxLimit int) (int, int) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
