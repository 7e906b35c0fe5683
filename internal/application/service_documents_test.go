package application_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/application"
	"github.com/carebridge/marketplace/internal/domain"
)

func TestUploadDocumentStoresFileAndMetadata(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	claims := f.seedWorker("jane@example.com")

	doc, err := f.service.UploadDocument(ctx, claims, application.UploadDocumentParams{
		DocumentType: "Police Check",
		FileName:     "police-check.pdf",
		ContentType:  "application/pdf",
		Content:      []byte("%PDF-1.7 fake"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if doc.Status != domain.DocumentStatusPending {
		t.Fatalf("fresh upload must be pending, got %s", doc.Status)
	}
	if doc.DocumentType != "police_check" {
		t.Fatalf("document type not normalized: %s", doc.DocumentType)
	}

	stored, err := f.documents.GetByID(ctx, doc.DocumentID)
	if err != nil {
		t.Fatalf("stored row missing: %v", err)
	}
	wantKey := fmt.Sprintf("verification-documents/%s/%s", claims.UserID, doc.DocumentID)
	if stored.FileKey != wantKey {
		t.Fatalf("file key %q does not match stored document id, want %q", stored.FileKey, wantKey)
	}
	body, contentType, err := f.blobs.Get(ctx, stored.FileKey)
	if err != nil {
		t.Fatalf("blob missing under file key %q: %v", stored.FileKey, err)
	}
	defer body.Close()
	data, _ := io.ReadAll(body)
	if string(data) != "%PDF-1.7 fake" || contentType != "application/pdf" {
		t.Fatalf("stored blob mismatch: %q %q", data, contentType)
	}

	types := f.outbox.eventTypes()
	if len(types) != 1 || types[0] != "document.uploaded" {
		t.Fatalf("expected document.uploaded event, got %v", types)
	}
}

func TestUploadDocumentRejectsBadInput(t *testing.T) {
	t.Parallel()

	f := newFixtureWithConfig(func() application.Config {
		cfg := defaultTestConfig()
		cfg.MaxDocumentBytes = 16
		return cfg
	}())
	ctx := context.Background()
	claims := f.seedWorker("jane@example.com")

	cases := map[string]application.UploadDocumentParams{
		"empty file": {
			DocumentType: "police_check",
			FileName:     "doc.pdf",
			ContentType:  "application/pdf",
		},
		"oversize file": {
			DocumentType: "police_check",
			FileName:     "doc.pdf",
			ContentType:  "application/pdf",
			Content:      make([]byte, 32),
		},
		"disallowed content type": {
			DocumentType: "police_check",
			FileName:     "doc.zip",
			ContentType:  "application/zip",
			Content:      []byte("zip"),
		},
		"blank document type": {
			DocumentType: "   ",
			FileName:     "doc.pdf",
			ContentType:  "application/pdf",
			Content:      []byte("pdf"),
		},
	}
	for name, params := range cases {
		if _, err := f.service.UploadDocument(ctx, claims, params); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected rejection, got %v", name, err)
		}
	}

	past := time.Now().UTC().Add(-time.Hour)
	_, err := f.service.UploadDocument(ctx, claims, application.UploadDocumentParams{
		DocumentType: "police_check",
		FileName:     "doc.pdf",
		ContentType:  "application/pdf",
		Content:      []byte("pdf"),
		ExpiresAt:    &past,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("past expiry accepted: %v", err)
	}

	if got := f.outbox.eventTypes(); len(got) != 0 {
		t.Fatalf("rejected uploads must not emit events: %v", got)
	}
}

func TestDeleteDocumentRules(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	owner := f.seedWorker("owner@example.com")
	other := f.seedWorker("other@example.com")
	admin := f.seedUser("admin@example.com", domain.RoleAdmin)

	doc, err := f.service.UploadDocument(ctx, owner, application.UploadDocumentParams{
		DocumentType: "police_check",
		FileName:     "doc.pdf",
		ContentType:  "application/pdf",
		Content:      []byte("pdf"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := f.service.DeleteDocument(ctx, other, doc.DocumentID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign delete allowed: %v", err)
	}
	if err := f.service.DeleteDocument(ctx, owner, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown document: %v", err)
	}

	if _, err := f.service.AdminReviewDocument(ctx, admin, doc.DocumentID, application.ReviewDocumentRequest{Decision: "approve"}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := f.service.DeleteDocument(ctx, owner, doc.DocumentID); !errors.Is(err, domain.ErrDocumentLocked) {
		t.Fatalf("approved document delete must be locked: %v", err)
	}

	pending, err := f.service.UploadDocument(ctx, owner, application.UploadDocumentParams{
		DocumentType: "first_aid",
		FileName:     "first-aid.pdf",
		ContentType:  "application/pdf",
		Content:      []byte("pdf"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if err := f.service.DeleteDocument(ctx, owner, pending.DocumentID); err != nil {
		t.Fatalf("pending delete failed: %v", err)
	}
	stored, _ := f.documents.GetByID(ctx, doc.DocumentID)
	if _, _, err := f.blobs.Get(ctx, stored.FileKey); err != nil {
		t.Fatalf("approved document blob must survive: %v", err)
	}
}

func TestOpenDocumentFileOwnerOrAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	owner := f.seedWorker("owner@example.com")
	other := f.seedWorker("other@example.com")
	admin := f.seedUser("admin@example.com", domain.RoleAdmin)

	doc, err := f.service.UploadDocument(ctx, owner, application.UploadDocumentParams{
		DocumentType: "police_check",
		FileName:     "doc.pdf",
		ContentType:  "application/pdf",
		Content:      []byte("pdf-bytes"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if _, err := f.service.OpenDocumentFile(ctx, other, doc.DocumentID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("foreign read allowed: %v", err)
	}

	file, err := f.service.OpenDocumentFile(ctx, owner, doc.DocumentID)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	data, _ := io.ReadAll(file.Body)
	file.Body.Close()
	if string(data) != "pdf-bytes" || file.FileName != "doc.pdf" {
		t.Fatalf("unexpected file payload: %q %q", data, file.FileName)
	}

	adminFile, err := f.service.OpenDocumentFile(ctx, admin, doc.DocumentID)
	if err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	adminFile.Body.Close()
}

func TestListDocumentsNewestFirst(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	claims := f.seedWorker("jane@example.com")

	for _, docType := range []string{"police_check", "first_aid"} {
		if _, err := f.service.UploadDocument(ctx, claims, application.UploadDocumentParams{
			DocumentType: docType,
			FileName:     docType + ".pdf",
			ContentType:  "application/pdf",
			Content:      []byte("pdf"),
		}); err != nil {
			t.Fatalf("upload %s failed: %v", docType, err)
		}
	}

	docs, err := f.service.ListDocuments(ctx, claims)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}
