package postgres

import (
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/domain"
)

func toDomainUser(row userModel) domain.User {
	return domain.User{
		UserID:       row.UserID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		IsActive:     row.IsActive,
		DeletedAt:    row.DeletedAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainSession(row sessionModel) domain.Session {
	ip := ""
	if row.IPAddress != nil {
		ip = *row.IPAddress
	}
	return domain.Session{
		SessionID:      row.SessionID,
		UserID:         row.UserID,
		DeviceName:     row.DeviceName,
		DeviceOS:       row.DeviceOS,
		IPAddress:      ip,
		UserAgent:      row.UserAgent,
		CreatedAt:      row.CreatedAt,
		LastActivityAt: row.LastActivityAt,
		ExpiresAt:      row.ExpiresAt,
		RevokedAt:      row.RevokedAt,
	}
}

func toDomainLoginAttempt(row loginAttemptModel) domain.LoginAttempt {
	ip := ""
	if row.IPAddress != nil {
		ip = *row.IPAddress
	}
	return domain.LoginAttempt{
		ID:            row.ID,
		UserID:        row.UserID,
		AttemptAt:     row.AttemptAt,
		IPAddress:     ip,
		Status:        row.Status,
		FailureReason: row.FailureReason,
		DeviceName:    row.DeviceName,
		DeviceOS:      row.DeviceOS,
		UserAgent:     row.UserAgent,
	}
}

func toDomainWorkerProfile(row workerProfileModel) domain.WorkerProfile {
	return domain.WorkerProfile{
		ProfileID:       row.ProfileID,
		UserID:          row.UserID,
		FirstName:       row.FirstName,
		LastName:        row.LastName,
		DisplayName:     row.DisplayName,
		Bio:             row.Bio,
		Phone:           row.Phone,
		Suburb:          row.Suburb,
		Postcode:        row.Postcode,
		ABN:             row.ABN,
		YearsExperience: row.YearsExperience,
		HourlyRateCents: row.HourlyRateCents,
		Verified:        row.Verified,
		VerifiedAt:      row.VerifiedAt,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
		DeletedAt:       row.DeletedAt,
	}
}

func toDomainClientProfile(row clientProfileModel) domain.ClientProfile {
	var needs []string
	if row.CareNeeds != "" {
		_ = json.Unmarshal([]byte(row.CareNeeds), &needs)
	}
	return domain.ClientProfile{
		ProfileID:     row.ProfileID,
		UserID:        row.UserID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		Phone:         row.Phone,
		Suburb:        row.Suburb,
		Postcode:      row.Postcode,
		CareNeeds:     needs,
		FundingSource: row.FundingSource,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func toDomainCoordinatorProfile(row coordinatorProfileModel) domain.CoordinatorProfile {
	return domain.CoordinatorProfile{
		ProfileID:        row.ProfileID,
		UserID:           row.UserID,
		FirstName:        row.FirstName,
		LastName:         row.LastName,
		Phone:            row.Phone,
		OrganizationName: row.OrganizationName,
		OrganizationABN:  row.OrganizationABN,
		PositionTitle:    row.PositionTitle,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func toDomainCategory(row serviceCategoryModel) domain.ServiceCategory {
	return domain.ServiceCategory{
		CategoryID: row.CategoryID,
		Slug:       row.Slug,
		Name:       row.Name,
		SortOrder:  row.SortOrder,
	}
}

func toDomainSubcategory(row serviceSubcategoryModel) domain.ServiceSubcategory {
	return domain.ServiceSubcategory{
		SubcategoryID: row.SubcategoryID,
		CategoryID:    row.CategoryID,
		Slug:          row.Slug,
		Name:          row.Name,
		SortOrder:     row.SortOrder,
	}
}

func toDomainDocument(row verificationDocumentModel) domain.VerificationDocument {
	return domain.VerificationDocument{
		DocumentID:      row.DocumentID,
		UserID:          row.UserID,
		DocumentType:    row.DocumentType,
		FileKey:         row.FileKey,
		FileName:        row.FileName,
		ContentType:     row.ContentType,
		SizeBytes:       row.SizeBytes,
		Status:          domain.DocumentStatus(row.Status),
		RejectionReason: row.RejectionReason,
		ExpiresAt:       row.ExpiresAt,
		UploadedAt:      row.UploadedAt,
		ReviewedAt:      row.ReviewedAt,
		ReviewedBy:      row.ReviewedBy,
	}
}

func toDomainRequirement(row documentRequirementModel) domain.DocumentRequirement {
	return domain.DocumentRequirement{
		RequirementID:    row.RequirementID,
		Scope:            domain.RequirementScope(row.Scope),
		CategoryID:       row.CategoryID,
		SubcategoryID:    row.SubcategoryID,
		DocumentTypeCode: row.DocumentTypeCode,
		GroupKey:         row.GroupKey,
		CreatedAt:        row.CreatedAt,
	}
}

func toDomainDocumentType(row documentTypeModel) domain.DocumentType {
	return domain.DocumentType{
		DocumentTypeID: row.DocumentTypeID,
		Code:           row.Code,
		Name:           row.Name,
		CreatedAt:      row.CreatedAt,
	}
}

func toDomainAlias(row documentTypeAliasModel) domain.DocumentTypeAlias {
	return domain.DocumentTypeAlias{
		AliasID:   row.AliasID,
		Alias:     row.Alias,
		Canonical: row.Canonical,
		CreatedAt: row.CreatedAt,
	}
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
