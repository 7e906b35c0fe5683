package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

type requirementRepository struct {
	db *gorm.DB
}

func (r *requirementRepository) ListRequirements(ctx context.Context) ([]domain.DocumentRequirement, error) {
	var rows []documentRequirementModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.DocumentRequirement, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainRequirement(row))
	}
	return result, nil
}

func (r *requirementRepository) CreateRequirement(ctx context.Context, params ports.CreateRequirementParams) (domain.DocumentRequirement, error) {
	rec := documentRequirementModel{
		Scope:            string(params.Scope),
		CategoryID:       params.CategoryID,
		SubcategoryID:    params.SubcategoryID,
		DocumentTypeCode: params.DocumentTypeCode,
		GroupKey:         params.GroupKey,
		CreatedAt:        params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.DocumentRequirement{}, domain.ErrConflict
		}
		return domain.DocumentRequirement{}, err
	}
	return toDomainRequirement(rec), nil
}

func (r *requirementRepository) DeleteRequirement(ctx context.Context, requirementID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("requirement_id = ?", requirementID).Delete(&documentRequirementModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *requirementRepository) ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error) {
	var rows []documentTypeModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.DocumentType, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainDocumentType(row))
	}
	return result, nil
}

func (r *requirementRepository) CreateDocumentType(ctx context.Context, code, name string, at time.Time) (domain.DocumentType, error) {
	rec := documentTypeModel{
		Code:      code,
		Name:      name,
		CreatedAt: at,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.DocumentType{}, domain.ErrConflict
		}
		return domain.DocumentType{}, err
	}
	return toDomainDocumentType(rec), nil
}

func (r *requirementRepository) AliasMap(ctx context.Context) (map[string]string, error) {
	var rows []documentTypeAliasModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Alias] = row.Canonical
	}
	return out, nil
}

func (r *requirementRepository) CreateAlias(ctx context.Context, alias, canonical string, at time.Time) (domain.DocumentTypeAlias, error) {
	rec := documentTypeAliasModel{
		Alias:     alias,
		Canonical: canonical,
		CreatedAt: at,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.DocumentTypeAlias{}, domain.ErrConflict
		}
		return domain.DocumentTypeAlias{}, err
	}
	return toDomainAlias(rec), nil
}
