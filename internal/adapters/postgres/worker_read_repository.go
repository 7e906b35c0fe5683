package postgres

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/carebridge/marketplace/internal/ports"
)

type workerReadRepository struct {
	db *gorm.DB
}

type workerRowModel struct {
	workerProfileModel
	Email    string `gorm:"column:email"`
	IsActive bool   `gorm:"column:is_active"`
}

var adminSortColumns = map[string]string{
	"created_at": "worker_profiles.created_at DESC",
	"name":       "worker_profiles.last_name ASC, worker_profiles.first_name ASC",
	"suburb":     "worker_profiles.suburb ASC, worker_profiles.last_name ASC",
	"verified":   "worker_profiles.verified DESC, worker_profiles.created_at DESC",
}

func (r *workerReadRepository) AdminListWorkers(ctx context.Context, filter ports.AdminWorkerFilter) ([]ports.WorkerRow, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&workerProfileModel{}).
		Select("worker_profiles.*, users.email, users.is_active").
		Joins("JOIN users ON users.user_id = worker_profiles.user_id").
		Where("worker_profiles.deleted_at IS NULL")

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(worker_profiles.first_name) LIKE ? OR LOWER(worker_profiles.last_name) LIKE ? OR LOWER(worker_profiles.display_name) LIKE ? OR LOWER(users.email) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Verified != nil {
		query = query.Where("worker_profiles.verified = ?", *filter.Verified)
	}
	if filter.Active != nil {
		query = query.Where("users.is_active = ?", *filter.Active)
	}
	if filter.SubcategoryID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM worker_services ws WHERE ws.user_id = worker_profiles.user_id AND ws.subcategory_id = ?)",
			*filter.SubcategoryID,
		)
	} else if filter.CategoryID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM worker_services ws JOIN service_subcategories sc ON sc.subcategory_id = ws.subcategory_id WHERE ws.user_id = worker_profiles.user_id AND sc.category_id = ?)",
			*filter.CategoryID,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order, ok := adminSortColumns[filter.SortBy]
	if !ok {
		order = adminSortColumns["created_at"]
	}

	var rows []workerRowModel
	if err := query.
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toWorkerRows(rows), total, nil
}

func (r *workerReadRepository) DirectoryWorkers(ctx context.Context, filter ports.DirectoryFilter) ([]ports.WorkerRow, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&workerProfileModel{}).
		Select("worker_profiles.*, users.email, users.is_active").
		Joins("JOIN users ON users.user_id = worker_profiles.user_id").
		Where("worker_profiles.deleted_at IS NULL").
		Where("worker_profiles.verified = TRUE").
		Where("users.is_active = TRUE")

	if suburb := strings.TrimSpace(filter.Suburb); suburb != "" {
		query = query.Where("LOWER(worker_profiles.suburb) = ?", strings.ToLower(suburb))
	}
	if filter.SubcategoryID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM worker_services ws WHERE ws.user_id = worker_profiles.user_id AND ws.subcategory_id = ?)",
			*filter.SubcategoryID,
		)
	} else if filter.CategoryID != nil {
		query = query.Where(
			"EXISTS (SELECT 1 FROM worker_services ws JOIN service_subcategories sc ON sc.subcategory_id = ws.subcategory_id WHERE ws.user_id = worker_profiles.user_id AND sc.category_id = ?)",
			*filter.CategoryID,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []workerRowModel
	if err := query.
		Order("worker_profiles.verified_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toWorkerRows(rows), total, nil
}

func toWorkerRows(rows []workerRowModel) []ports.WorkerRow {
	result := make([]ports.WorkerRow, 0, len(rows))
	for _, row := range rows {
		result = append(result, ports.WorkerRow{
			Profile: toDomainWorkerProfile(row.workerProfileModel),
			Email:   row.Email,
			Active:  row.IsActive,
		})
	}
	return result
}
