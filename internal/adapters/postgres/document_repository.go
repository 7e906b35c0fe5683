package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

type documentRepository struct {
	db *gorm.DB
}

func (r *documentRepository) Create(ctx context.Context, params ports.CreateDocumentParams) (domain.VerificationDocument, error) {
	rec := verificationDocumentModel{
		DocumentID:   params.DocumentID,
		UserID:       params.UserID,
		DocumentType: params.DocumentType,
		FileKey:      params.FileKey,
		FileName:     params.FileName,
		ContentType:  params.ContentType,
		SizeBytes:    params.SizeBytes,
		Status:       string(domain.DocumentStatusPending),
		ExpiresAt:    params.ExpiresAt,
		UploadedAt:   params.UploadedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.VerificationDocument{}, err
	}
	return toDomainDocument(rec), nil
}

func (r *documentRepository) GetByID(ctx context.Context, documentID uuid.UUID) (domain.VerificationDocument, error) {
	var rec verificationDocumentModel
	if err := r.db.WithContext(ctx).Where("document_id = ?", documentID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.VerificationDocument{}, domain.ErrNotFound
		}
		return domain.VerificationDocument{}, err
	}
	return toDomainDocument(rec), nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.VerificationDocument, error) {
	var rows []verificationDocumentModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("uploaded_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.VerificationDocument, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainDocument(row))
	}
	return result, nil
}

func (r *documentRepository) ListByUsers(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID][]domain.VerificationDocument, error) {
	out := make(map[uuid.UUID][]domain.VerificationDocument, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []verificationDocumentModel
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("uploaded_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], toDomainDocument(row))
	}
	return out, nil
}

func (r *documentRepository) Delete(ctx context.Context, documentID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&verificationDocumentModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepository) Review(ctx context.Context, params ports.ReviewDocumentParams) (domain.VerificationDocument, error) {
	res := r.db.WithContext(ctx).
		Model(&verificationDocumentModel{}).
		Where("document_id = ?", params.DocumentID).
		Where("status = ?", string(domain.DocumentStatusPending)).
		Updates(map[string]any{
			"status":           string(params.Status),
			"rejection_reason": params.RejectionReason,
			"reviewed_by":      params.ReviewedBy,
			"reviewed_at":      params.ReviewedAt,
		})
	if res.Error != nil {
		return domain.VerificationDocument{}, res.Error
	}
	if res.RowsAffected == 0 {
		// Either unknown id or already reviewed; let the caller distinguish.
		var exists int64
		if err := r.db.WithContext(ctx).Model(&verificationDocumentModel{}).Where("document_id = ?", params.DocumentID).Count(&exists).Error; err != nil {
			return domain.VerificationDocument{}, err
		}
		if exists == 0 {
			return domain.VerificationDocument{}, domain.ErrNotFound
		}
		return domain.VerificationDocument{}, domain.ErrConflict
	}
	return r.GetByID(ctx, params.DocumentID)
}

func (r *documentRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.VerificationDocument, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&verificationDocumentModel{}).
		Where("status = ?", string(domain.DocumentStatusPending))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []verificationDocumentModel
	if err := query.
		Order("uploaded_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	result := make([]domain.VerificationDocument, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainDocument(row))
	}
	return result, total, nil
}
