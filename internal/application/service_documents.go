package application

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

var allowedDocumentContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

// UploadDocument stores a verification document: bytes to the blob store,
// metadata row to Postgres. A failed row insert cleans the blob back up.
func (s *Service) UploadDocument(ctx context.Context, claims ports.AuthClaims, params UploadDocumentParams) (DocumentResponse, error) {
	docType := domain.NormalizeDocumentTypeCode(params.DocumentType)
	if err := domain.ValidateDocumentTypeCode(docType); err != nil {
		return DocumentResponse{}, err
	}
	if len(params.Content) == 0 {
		return DocumentResponse{}, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	if int64(len(params.Content)) > s.cfg.MaxDocumentBytes {
		return DocumentResponse{}, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrInvalidInput, s.cfg.MaxDocumentBytes)
	}
	contentType := strings.ToLower(strings.TrimSpace(params.ContentType))
	if !allowedDocumentContentTypes[contentType] {
		return DocumentResponse{}, fmt.Errorf("%w: content type %q not allowed", domain.ErrInvalidInput, params.ContentType)
	}
	fileName := path.Base(strings.TrimSpace(params.FileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return DocumentResponse{}, fmt.Errorf("%w: file name required", domain.ErrInvalidInput)
	}
	now := s.nowFn()
	if params.ExpiresAt != nil && params.ExpiresAt.Before(now) {
		return DocumentResponse{}, fmt.Errorf("%w: expiry date is in the past", domain.ErrInvalidInput)
	}

	documentID := uuid.New()
	fileKey := fmt.Sprintf("verification-documents/%s/%s", claims.UserID, documentID)
	if err := s.blobs.Put(ctx, fileKey, contentType, params.Content); err != nil {
		return DocumentResponse{}, fmt.Errorf("store file: %w", err)
	}

	doc, err := s.documents.Create(ctx, ports.CreateDocumentParams{
		DocumentID:   documentID,
		UserID:       claims.UserID,
		DocumentType: docType,
		FileKey:      fileKey,
		FileName:     fileName,
		ContentType:  contentType,
		SizeBytes:    int64(len(params.Content)),
		ExpiresAt:    params.ExpiresAt,
		UploadedAt:   now,
	})
	if err != nil {
		_ = s.blobs.Delete(ctx, fileKey)
		return DocumentResponse{}, fmt.Errorf("create document: %w", err)
	}

	event, eerr := newOutboxEvent("document.uploaded", claims.UserID.String(), map[string]any{
		"document_id":   doc.DocumentID,
		"user_id":       claims.UserID,
		"document_type": docType,
	}, now)
	if eerr == nil {
		_ = s.outbox.Enqueue(ctx, event)
	}
	return toDocumentResponse(doc), nil
}

// ListDocuments returns the caller's uploads, newest first.
func (s *Service) ListDocuments(ctx context.Context, claims ports.AuthClaims) ([]DocumentResponse, error) {
	docs, err := s.documents.ListByUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return out, nil
}

// DeleteDocument removes one of the caller's own documents and its file.
// Approved documents are locked; replacing one means uploading a newer file.
func (s *Service) DeleteDocument(ctx context.Context, claims ports.AuthClaims, documentID uuid.UUID) error {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load document: %w", err)
	}
	if doc.UserID != claims.UserID {
		return domain.ErrForbidden
	}
	if doc.Status == domain.DocumentStatusApproved {
		return domain.ErrDocumentLocked
	}
	if err := s.documents.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	_ = s.blobs.Delete(ctx, doc.FileKey)
	return nil
}

// OpenDocumentFile streams a document's bytes for its owner or an admin.
func (s *Service) OpenDocumentFile(ctx context.Context, claims ports.AuthClaims, documentID uuid.UUID) (ports.DocumentFile, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ports.DocumentFile{}, domain.ErrNotFound
		}
		return ports.DocumentFile{}, fmt.Errorf("load document: %w", err)
	}
	if doc.UserID != claims.UserID && claims.Role != string(domain.RoleAdmin) {
		return ports.DocumentFile{}, domain.ErrForbidden
	}
	body, contentType, err := s.blobs.Get(ctx, doc.FileKey)
	if err != nil {
		return ports.DocumentFile{}, fmt.Errorf("open file: %w", err)
	}
	if contentType == "" {
		contentType = doc.ContentType
	}
	return ports.DocumentFile{
		Body:        body,
		ContentType: contentType,
		FileName:    doc.FileName,
		SizeBytes:   doc.SizeBytes,
	}, nil
}
