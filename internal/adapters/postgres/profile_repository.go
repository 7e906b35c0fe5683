package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

type workerProfileRepository struct {
	db *gorm.DB
}

func (r *workerProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.WorkerProfile, error) {
	var rec workerProfileModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("deleted_at IS NULL").
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.WorkerProfile{}, domain.ErrNotFound
		}
		return domain.WorkerProfile{}, err
	}
	return toDomainWorkerProfile(rec), nil
}

func (r *workerProfileRepository) Update(ctx context.Context, params ports.UpdateWorkerProfileParams) (domain.WorkerProfile, error) {
	updates := map[string]any{"updated_at": params.UpdatedAt}
	if params.DisplayName != nil {
		updates["display_name"] = *params.DisplayName
	}
	if params.Bio != nil {
		updates["bio"] = *params.Bio
	}
	if params.Phone != nil {
		updates["phone"] = *params.Phone
	}
	if params.Suburb != nil {
		updates["suburb"] = *params.Suburb
	}
	if params.Postcode != nil {
		updates["postcode"] = *params.Postcode
	}
	if params.ABN != nil {
		updates["abn"] = *params.ABN
	}
	if params.YearsExperience != nil {
		updates["years_experience"] = *params.YearsExperience
	}
	if params.HourlyRateCents != nil {
		updates["hourly_rate_cents"] = *params.HourlyRateCents
	}

	res := r.db.WithContext(ctx).
		Model(&workerProfileModel{}).
		Where("user_id = ?", params.UserID).
		Where("deleted_at IS NULL").
		Updates(updates)
	if res.Error != nil {
		return domain.WorkerProfile{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.WorkerProfile{}, domain.ErrNotFound
	}
	return r.GetByUserID(ctx, params.UserID)
}

func (r *workerProfileRepository) SetVerified(ctx context.Context, userID uuid.UUID, verified bool, at time.Time) error {
	updates := map[string]any{
		"verified":   verified,
		"updated_at": at,
	}
	if verified {
		updates["verified_at"] = at
	} else {
		updates["verified_at"] = nil
	}
	res := r.db.WithContext(ctx).
		Model(&workerProfileModel{}).
		Where("user_id = ?", userID).
		Where("deleted_at IS NULL").
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type clientProfileRepository struct {
	db *gorm.DB
}

func (r *clientProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.ClientProfile, error) {
	var rec clientProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ClientProfile{}, domain.ErrNotFound
		}
		return domain.ClientProfile{}, err
	}
	return toDomainClientProfile(rec), nil
}

type coordinatorProfileRepository struct {
	db *gorm.DB
}

func (r *coordinatorProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (domain.CoordinatorProfile, error) {
	var rec coordinatorProfileModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CoordinatorProfile{}, domain.ErrNotFound
		}
		return domain.CoordinatorProfile{}, err
	}
	return toDomainCoordinatorProfile(rec), nil
}
