package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

// GetWorkerProfile returns the caller's contractor profile.
func (s *Service) GetWorkerProfile(ctx context.Context, claims ports.AuthClaims) (WorkerProfileResponse, error) {
	profile, err := s.workers.GetByUserID(ctx, claims.UserID)
	if err != nil {
		return WorkerProfileResponse{}, fmt.Errorf("load worker profile: %w", err)
	}
	return toWorkerProfileResponse(profile), nil
}

// UpdateWorkerProfile applies a partial profile update. Nil fields stay untouched.
func (s *Service) UpdateWorkerProfile(ctx context.Context, claims ports.AuthClaims, req UpdateWorkerProfileRequest) (WorkerProfileResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return WorkerProfileResponse{}, err
	}
	if req.Phone != nil {
		if err := domain.ValidatePhone(*req.Phone); err != nil {
			return WorkerProfileResponse{}, err
		}
	}
	if req.Postcode != nil {
		if err := domain.ValidatePostcode(*req.Postcode); err != nil {
			return WorkerProfileResponse{}, err
		}
	}
	if req.ABN != nil && *req.ABN != "" {
		if err := domain.ValidateABN(*req.ABN); err != nil {
			return WorkerProfileResponse{}, err
		}
	}
	if req.Bio != nil {
		if err := domain.ValidateBio(*req.Bio); err != nil {
			return WorkerProfileResponse{}, err
		}
	}
	profile, err := s.workers.Update(ctx, ports.UpdateWorkerProfileParams{
		UserID:          claims.UserID,
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		Phone:           req.Phone,
		Suburb:          req.Suburb,
		Postcode:        req.Postcode,
		ABN:             req.ABN,
		YearsExperience: req.YearsExperience,
		HourlyRateCents: req.HourlyRateCents,
		UpdatedAt:       s.nowFn(),
	})
	if err != nil {
		return WorkerProfileResponse{}, fmt.Errorf("update worker profile: %w", err)
	}
	return toWorkerProfileResponse(profile), nil
}

// ListCatalog returns the full service taxonomy grouped by category.
func (s *Service) ListCatalog(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	subcategories, err := s.catalog.ListSubcategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	byCategory := make(map[uuid.UUID][]SubcategoryResponse)
	for _, sc := range subcategories {
		byCategory[sc.CategoryID] = append(byCategory[sc.CategoryID], SubcategoryResponse{
			SubcategoryID: sc.SubcategoryID,
			CategoryID:    sc.CategoryID,
			Slug:          sc.Slug,
			Name:          sc.Name,
		})
	}
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		subs := byCategory[c.CategoryID]
		if subs == nil {
			subs = []SubcategoryResponse{}
		}
		out = append(out, CategoryResponse{
			CategoryID:    c.CategoryID,
			Slug:          c.Slug,
			Name:          c.Name,
			Subcategories: subs,
		})
	}
	return out, nil
}

// ListWorkerServices returns the caller's selected subcategories.
func (s *Service) ListWorkerServices(ctx context.Context, claims ports.AuthClaims) ([]SubcategoryResponse, error) {
	subs, err := s.catalog.ListWorkerSubcategories(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("list worker services: %w", err)
	}
	return toSubcategoryResponses(subs), nil
}

// ReplaceWorkerServices swaps the caller's service selection wholesale.
// Compliance is re-derived on the next read; changing services can move a
// verified worker back to incomplete when new requirements become applicable.
func (s *Service) ReplaceWorkerServices(ctx context.Context, claims ports.AuthClaims, req ReplaceServicesRequest) ([]SubcategoryResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return nil, err
	}
	ids, err := parseUUIDs(req.SubcategoryIDs)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubcategoriesExist(ctx, ids); err != nil {
		return nil, err
	}
	if err := s.catalog.ReplaceWorkerServices(ctx, claims.UserID, ids, s.nowFn()); err != nil {
		return nil, fmt.Errorf("replace worker services: %w", err)
	}
	subs, err := s.catalog.ListWorkerSubcategories(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("list worker services: %w", err)
	}
	return toSubcategoryResponses(subs), nil
}

// WorkerCompliance evaluates the caller's document compliance.
func (s *Service) WorkerCompliance(ctx context.Context, claims ports.AuthClaims) (ComplianceReportResponse, error) {
	report, err := s.complianceFor(ctx, claims.UserID)
	if err != nil {
		return ComplianceReportResponse{}, err
	}
	return toComplianceResponse(report), nil
}

// SetupProgress summarizes how far the caller is through account setup:
// profile basics, at least one service, and document compliance.
func (s *Service) SetupProgress(ctx context.Context, claims ports.AuthClaims) (SetupProgressResponse, error) {
	profile, err := s.workers.GetByUserID(ctx, claims.UserID)
	if err != nil {
		return SetupProgressResponse{}, fmt.Errorf("load worker profile: %w", err)
	}
	subs, err := s.catalog.ListWorkerSubcategories(ctx, claims.UserID)
	if err != nil {
		return SetupProgressResponse{}, fmt.Errorf("list worker services: %w", err)
	}
	report, err := s.complianceReport(ctx, claims.UserID, subs)
	if err != nil {
		return SetupProgressResponse{}, err
	}

	profileDone := profile.Bio != "" && profile.HourlyRateCents > 0
	profileDetail := ""
	if !profileDone {
		profileDetail = "add a bio and an hourly rate"
	}
	servicesDone := len(subs) > 0
	servicesDetail := ""
	if !servicesDone {
		servicesDetail = "select at least one service"
	}
	complianceDone := report.Status == domain.ComplianceComplete
	complianceDetail := ""
	if !complianceDone {
		if missing := report.MissingDocumentTypes(); len(missing) > 0 {
			complianceDetail = fmt.Sprintf("%d document(s) outstanding", len(missing))
		} else {
			complianceDetail = "documents awaiting review"
		}
	}

	steps := []SetupStepResponse{
		{Name: "profile", Completed: profileDone, Detail: profileDetail},
		{Name: "services", Completed: servicesDone, Detail: servicesDetail},
		{Name: "compliance", Completed: complianceDone, Detail: complianceDetail},
	}
	done := 0
	for _, step := range steps {
		if step.Completed {
			done++
		}
	}
	return SetupProgressResponse{
		Steps:            steps,
		PercentComplete:  done * 100 / len(steps),
		ComplianceStatus: report.Status,
		Verified:         profile.Verified,
	}, nil
}

// Directory lists verified workers for the public browse page.
func (s *Service) Directory(ctx context.Context, q DirectoryQuery) (DirectoryResponse, error) {
	limit, offset := clampPage(q.Limit, q.Offset, 20, s.cfg.DirectoryPageLimit)
	rows, total, err := s.workerReads.DirectoryWorkers(ctx, ports.DirectoryFilter{
		CategoryID:    q.CategoryID,
		SubcategoryID: q.SubcategoryID,
		Suburb:        q.Suburb,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return DirectoryResponse{}, fmt.Errorf("list directory workers: %w", err)
	}
	workers := make([]DirectoryWorkerResponse, 0, len(rows))
	for _, row := range rows {
		workers = append(workers, DirectoryWorkerResponse{
			UserID:          row.Profile.UserID,
			DisplayName:     row.Profile.DisplayName,
			Bio:             row.Profile.Bio,
			Suburb:          row.Profile.Suburb,
			YearsExperience: row.Profile.YearsExperience,
			HourlyRateCents: row.Profile.HourlyRateCents,
			VerifiedAt:      row.Profile.VerifiedAt,
		})
	}
	return DirectoryResponse{Workers: workers, Total: total, Limit: limit, Offset: offset}, nil
}

// complianceFor loads the worker's selections and evaluates the engine.
func (s *Service) complianceFor(ctx context.Context, userID uuid.UUID) (domain.ComplianceReport, error) {
	subs, err := s.catalog.ListWorkerSubcategories(ctx, userID)
	if err != nil {
		return domain.ComplianceReport{}, fmt.Errorf("list worker services: %w", err)
	}
	return s.complianceReport(ctx, userID, subs)
}

func (s *Service) complianceReport(ctx context.Context, userID uuid.UUID, subs []domain.ServiceSubcategory) (domain.ComplianceReport, error) {
	requirements, err := s.requirements.ListRequirements(ctx)
	if err != nil {
		return domain.ComplianceReport{}, fmt.Errorf("list requirements: %w", err)
	}
	aliases, err := s.requirements.AliasMap(ctx)
	if err != nil {
		return domain.ComplianceReport{}, fmt.Errorf("load alias map: %w", err)
	}
	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return domain.ComplianceReport{}, fmt.Errorf("list documents: %w", err)
	}
	return domain.EvaluateCompliance(domain.ComplianceInput{
		Subcategories: subs,
		Requirements:  requirements,
		Aliases:       aliases,
		Documents:     docs,
		Now:           s.nowFn(),
	}), nil
}
