package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

type userRepository struct {
	db *gorm.DB
}

// CreateWithProfileTx inserts the user, its role profile, any initial service
// selection and the registration outbox event in one transaction. The outbox
// payload is stamped with the generated user_id before insert.
func (r *userRepository) CreateWithProfileTx(ctx context.Context, params ports.CreateUserTxParams, outboxEvent ports.OutboxEvent) (domain.User, error) {
	var result domain.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := userModel{
			Email:        params.Email,
			PasswordHash: params.PasswordHash,
			Role:         string(params.Role),
			IsActive:     true,
			CreatedAt:    params.RegisteredAt,
			UpdatedAt:    params.RegisteredAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		switch {
		case params.Worker != nil:
			p := params.Worker
			profile := workerProfileModel{
				UserID:          rec.UserID,
				FirstName:       p.FirstName,
				LastName:        p.LastName,
				DisplayName:     p.DisplayName,
				Phone:           p.Phone,
				Suburb:          p.Suburb,
				Postcode:        p.Postcode,
				ABN:             p.ABN,
				YearsExperience: p.YearsExperience,
				CreatedAt:       params.RegisteredAt,
				UpdatedAt:       params.RegisteredAt,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
			for _, subID := range p.SubcategoryIDs {
				svc := workerServiceModel{
					UserID:        rec.UserID,
					SubcategoryID: subID,
					AddedAt:       params.RegisteredAt,
				}
				if err := tx.Create(&svc).Error; err != nil {
					return err
				}
			}
		case params.Client != nil:
			p := params.Client
			needs, err := json.Marshal(p.CareNeeds)
			if err != nil {
				return fmt.Errorf("marshal care needs: %w", err)
			}
			profile := clientProfileModel{
				UserID:        rec.UserID,
				FirstName:     p.FirstName,
				LastName:      p.LastName,
				Phone:         p.Phone,
				Suburb:        p.Suburb,
				Postcode:      p.Postcode,
				CareNeeds:     string(needs),
				FundingSource: p.FundingSource,
				CreatedAt:     params.RegisteredAt,
				UpdatedAt:     params.RegisteredAt,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		case params.Coordinator != nil:
			p := params.Coordinator
			profile := coordinatorProfileModel{
				UserID:           rec.UserID,
				FirstName:        p.FirstName,
				LastName:         p.LastName,
				Phone:            p.Phone,
				OrganizationName: p.OrganizationName,
				OrganizationABN:  p.OrganizationABN,
				PositionTitle:    p.PositionTitle,
				CreatedAt:        params.RegisteredAt,
				UpdatedAt:        params.RegisteredAt,
			}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: registration requires a role profile", domain.ErrInvalidInput)
		}

		payload := outboxEvent.Payload
		if len(payload) == 0 {
			payload = []byte(`{}`)
		}
		var payloadObj map[string]any
		if err := json.Unmarshal(payload, &payloadObj); err == nil {
			payloadObj["user_id"] = rec.UserID.String()
			if adjusted, mErr := json.Marshal(payloadObj); mErr == nil {
				payload = adjusted
			}
		}

		outbox := outboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: rec.UserID.String(),
			Payload:      string(payload),
			CreatedAt:    outboxEvent.OccurredAt,
			FirstSeenAt:  outboxEvent.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}

		result = toDomainUser(rec)
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return result, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Deactivate(ctx context.Context, userID uuid.UUID, deactivatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"is_active":  false,
			"deleted_at": deactivatedAt,
			"updated_at": deactivatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
