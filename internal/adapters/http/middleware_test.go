package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carebridge/marketplace/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: bad postcode", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrAccountLocked, http.StatusTooManyRequests, "ACCOUNT_LOCKED"},
		{domain.ErrSessionExpired, http.StatusUnauthorized, "SESSION_EXPIRED"},
		{domain.ErrSessionRevoked, http.StatusUnauthorized, "SESSION_REVOKED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrWizardExpired, http.StatusGone, "WIZARD_EXPIRED"},
		{domain.ErrWizardIncomplete, http.StatusUnprocessableEntity, "WIZARD_INCOMPLETE"},
		{domain.ErrDocumentLocked, http.StatusConflict, "DOCUMENT_LOCKED"},
		{domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("database down"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, code, _ := mapDomainError(tc.err)
		if status != tc.status || code != tc.code {
			t.Fatalf("%v: got %d %s, want %d %s", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()

	var seen string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestIDFromContext(r.Context())
	}))

	// Caller-supplied id passes through.
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen != "req-123" || rec.Header().Get("X-Request-Id") != "req-123" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-Id"))
	}

	// Missing id gets generated.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if seen == "" || rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("request id not generated")
	}
}

func TestBearerTokenFromHeader(t *testing.T) {
	t.Parallel()

	if _, err := bearerTokenFromHeader(""); err == nil {
		t.Fatalf("empty header accepted")
	}
	if _, err := bearerTokenFromHeader("Basic abc"); err == nil {
		t.Fatalf("non-bearer scheme accepted")
	}
	if _, err := bearerTokenFromHeader("Bearer "); err == nil {
		t.Fatalf("blank token accepted")
	}
	token, err := bearerTokenFromHeader("Bearer abc.def.ghi")
	if err != nil || token != "abc.def.ghi" {
		t.Fatalf("bearer token not extracted: %q %v", token, err)
	}
}

func TestRecoverMiddlewareWritesEnvelope(t *testing.T) {
	t.Parallel()

	handler := recoverMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected json error body, got %q", got)
	}
}
