package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/domain"
)

type catalogRepository struct {
	db *gorm.DB
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]domain.ServiceCategory, error) {
	var rows []serviceCategoryModel
	if err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ServiceCategory, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainCategory(row))
	}
	return result, nil
}

func (r *catalogRepository) ListSubcategories(ctx context.Context) ([]domain.ServiceSubcategory, error) {
	var rows []serviceSubcategoryModel
	if err := r.db.WithContext(ctx).Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ServiceSubcategory, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainSubcategory(row))
	}
	return result, nil
}

func (r *catalogRepository) GetSubcategoriesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.ServiceSubcategory, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []serviceSubcategoryModel
	if err := r.db.WithContext(ctx).Where("subcategory_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ServiceSubcategory, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainSubcategory(row))
	}
	return result, nil
}

func (r *catalogRepository) ListWorkerSubcategories(ctx context.Context, userID uuid.UUID) ([]domain.ServiceSubcategory, error) {
	var rows []serviceSubcategoryModel
	if err := r.db.WithContext(ctx).
		Model(&serviceSubcategoryModel{}).
		Joins("JOIN worker_services ON worker_services.subcategory_id = service_subcategories.subcategory_id").
		Where("worker_services.user_id = ?", userID).
		Order("service_subcategories.sort_order ASC, service_subcategories.name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.ServiceSubcategory, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainSubcategory(row))
	}
	return result, nil
}

func (r *catalogRepository) ReplaceWorkerServices(ctx context.Context, userID uuid.UUID, subcategoryIDs []uuid.UUID, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&workerServiceModel{}).Error; err != nil {
			return err
		}
		for _, subID := range subcategoryIDs {
			rec := workerServiceModel{
				UserID:        userID,
				SubcategoryID: subID,
				AddedAt:       now,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
