package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/domain"
	"github.com/carebridge/marketplace/internal/ports"
)

// complianceScanCap bounds how many rows the admin table scans when filtering
// by a computed compliance status. Compliance is derived per worker, so the
// filter cannot be pushed into SQL.
const complianceScanCap = 500

// AdminListWorkers serves the back-office workers table with filters, sorting
// and pagination. Compliance status is computed per row from the engine.
func (s *Service) AdminListWorkers(ctx context.Context, q AdminWorkersQuery) (AdminWorkersResponse, error) {
	limit, offset := clampPage(q.Limit, q.Offset, 25, 100)

	filter := ports.AdminWorkerFilter{
		Search:        strings.TrimSpace(q.Search),
		CategoryID:    q.CategoryID,
		SubcategoryID: q.SubcategoryID,
		Verified:      q.Verified,
		Active:        q.Active,
		SortBy:        q.SortBy,
		Limit:         limit,
		Offset:        offset,
	}
	complianceFilter := domain.ComplianceStatus(strings.TrimSpace(q.ComplianceStatus))
	if complianceFilter != "" {
		// Pull a bounded superset and page in memory after evaluation.
		filter.Limit = complianceScanCap
		filter.Offset = 0
	}

	rows, total, err := s.workerReads.AdminListWorkers(ctx, filter)
	if err != nil {
		return AdminWorkersResponse{}, fmt.Errorf("list workers: %w", err)
	}

	items, err := s.buildAdminItems(ctx, rows)
	if err != nil {
		return AdminWorkersResponse{}, err
	}

	if complianceFilter != "" {
		filtered := items[:0]
		for _, item := range items {
			if item.ComplianceStatus == complianceFilter {
				filtered = append(filtered, item)
			}
		}
		total = int64(len(filtered))
		if offset >= len(filtered) {
			filtered = nil
		} else {
			end := offset + limit
			if end > len(filtered) {
				end = len(filtered)
			}
			filtered = filtered[offset:end]
		}
		items = filtered
	}
	if items == nil {
		items = []AdminWorkerItem{}
	}
	return AdminWorkersResponse{Workers: items, Total: total, Limit: limit, Offset: offset}, nil
}

// buildAdminItems evaluates compliance for a page of workers with batched
// document and service loads instead of per-row queries.
func (s *Service) buildAdminItems(ctx context.Context, rows []ports.WorkerRow) ([]AdminWorkerItem, error) {
	if len(rows) == 0 {
		return []AdminWorkerItem{}, nil
	}
	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.Profile.UserID)
	}
	docsByUser, err := s.documents.ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	requirements, err := s.requirements.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	aliases, err := s.requirements.AliasMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("load alias map: %w", err)
	}

	now := s.nowFn()
	items := make([]AdminWorkerItem, 0, len(rows))
	for _, row := range rows {
		subs, err := s.catalog.ListWorkerSubcategories(ctx, row.Profile.UserID)
		if err != nil {
			return nil, fmt.Errorf("list worker services: %w", err)
		}
		docs := docsByUser[row.Profile.UserID]
		report := domain.EvaluateCompliance(domain.ComplianceInput{
			Subcategories: subs,
			Requirements:  requirements,
			Aliases:       aliases,
			Documents:     docs,
			Now:           now,
		})
		pending := 0
		for _, d := range docs {
			if d.Status == domain.DocumentStatusPending {
				pending++
			}
		}
		items = append(items, AdminWorkerItem{
			UserID:           row.Profile.UserID,
			FullName:         row.Profile.FullName(),
			Email:            row.Email,
			Suburb:           row.Profile.Suburb,
			Active:           row.Active,
			Verified:         row.Profile.Verified,
			ComplianceStatus: report.Status,
			PendingDocuments: pending,
			CreatedAt:        row.Profile.CreatedAt,
		})
	}
	return items, nil
}

// AdminWorkerDetail is the full back-office view of one worker.
func (s *Service) AdminWorkerDetail(ctx context.Context, userID uuid.UUID) (AdminWorkerDetailResponse, error) {
	profile, err := s.workers.GetByUserID(ctx, userID)
	if err != nil {
		return AdminWorkerDetailResponse{}, fmt.Errorf("load worker profile: %w", err)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return AdminWorkerDetailResponse{}, fmt.Errorf("load user: %w", err)
	}
	subs, err := s.catalog.ListWorkerSubcategories(ctx, userID)
	if err != nil {
		return AdminWorkerDetailResponse{}, fmt.Errorf("list worker services: %w", err)
	}
	docs, err := s.documents.ListByUser(ctx, userID)
	if err != nil {
		return AdminWorkerDetailResponse{}, fmt.Errorf("list documents: %w", err)
	}
	report, err := s.complianceReport(ctx, userID, subs)
	if err != nil {
		return AdminWorkerDetailResponse{}, err
	}

	docResponses := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		docResponses = append(docResponses, toDocumentResponse(d))
	}
	return AdminWorkerDetailResponse{
		Profile:    toWorkerProfileResponse(profile),
		Email:      user.Email,
		Active:     user.IsActive,
		Services:   toSubcategoryResponses(subs),
		Documents:  docResponses,
		Compliance: toComplianceResponse(report),
	}, nil
}

// AdminDeactivateUser disables an account and revokes its live sessions.
// Login and the public directory respect the active flag immediately.
func (s *Service) AdminDeactivateUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		return fmt.Errorf("%w: account already deactivated", domain.ErrConflict)
	}
	now := s.nowFn()
	if err := s.users.Deactivate(ctx, userID, now); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if err := s.sessions.RevokeAllByUser(ctx, userID, now); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	if event, eerr := newOutboxEvent("user.deactivated", userID.String(), map[string]any{
		"user_id": userID,
		"email":   user.Email,
	}, now); eerr == nil {
		_ = s.outbox.Enqueue(ctx, event)
	}
	return nil
}

// AdminPendingDocuments lists the review queue, oldest upload first.
func (s *Service) AdminPendingDocuments(ctx context.Context, limit, offset int) (PendingDocumentsResponse, error) {
	limit, offset = clampPage(limit, offset, 25, 100)
	docs, total, err := s.documents.ListPending(ctx, limit, offset)
	if err != nil {
		return PendingDocumentsResponse{}, fmt.Errorf("list pending documents: %w", err)
	}
	items := make([]PendingDocumentItem, 0, len(docs))
	for _, d := range docs {
		name := ""
		if profile, perr := s.workers.GetByUserID(ctx, d.UserID); perr == nil {
			name = profile.FullName()
		}
		items = append(items, PendingDocumentItem{
			Document:   toDocumentResponse(d),
			WorkerName: name,
			UserID:     d.UserID,
		})
	}
	return PendingDocumentsResponse{Documents: items, Total: total, Limit: limit, Offset: offset}, nil
}

// AdminReviewDocument applies an approve/reject decision, emits the review
// event and re-runs the engine. A worker whose report lands on complete is
// marked verified; one that falls out of complete loses the flag.
func (s *Service) AdminReviewDocument(ctx context.Context, claims ports.AuthClaims, documentID uuid.UUID, req ReviewDocumentRequest) (DocumentResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return DocumentResponse{}, err
	}
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DocumentResponse{}, domain.ErrNotFound
		}
		return DocumentResponse{}, fmt.Errorf("load document: %w", err)
	}
	if doc.Status != domain.DocumentStatusPending {
		return DocumentResponse{}, fmt.Errorf("%w: document already reviewed", domain.ErrConflict)
	}

	status := domain.DocumentStatusApproved
	reason := ""
	if req.Decision == "reject" {
		status = domain.DocumentStatusRejected
		reason = strings.TrimSpace(req.Reason)
		if reason == "" {
			return DocumentResponse{}, fmt.Errorf("%w: rejection requires a reason", domain.ErrInvalidInput)
		}
	}

	now := s.nowFn()
	reviewed, err := s.documents.Review(ctx, ports.ReviewDocumentParams{
		DocumentID:      documentID,
		Status:          status,
		RejectionReason: reason,
		ReviewedBy:      claims.UserID,
		ReviewedAt:      now,
	})
	if err != nil {
		return DocumentResponse{}, fmt.Errorf("review document: %w", err)
	}

	eventType := "document.approved"
	if status == domain.DocumentStatusRejected {
		eventType = "document.rejected"
	}
	if event, eerr := newOutboxEvent(eventType, doc.UserID.String(), map[string]any{
		"document_id":   documentID,
		"user_id":       doc.UserID,
		"document_type": doc.DocumentType,
		"reviewed_by":   claims.UserID,
		"reason":        reason,
	}, now); eerr == nil {
		_ = s.outbox.Enqueue(ctx, event)
	}

	if err := s.reconcileVerification(ctx, doc.UserID); err != nil {
		return DocumentResponse{}, err
	}
	return toDocumentResponse(reviewed), nil
}

// reconcileVerification keeps the worker's verified flag in lockstep with the
// engine verdict after any review decision.
func (s *Service) reconcileVerification(ctx context.Context, userID uuid.UUID) error {
	report, err := s.complianceFor(ctx, userID)
	if err != nil {
		return err
	}
	profile, err := s.workers.GetByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load worker profile: %w", err)
	}
	complete := report.Status == domain.ComplianceComplete
	if complete == profile.Verified {
		return nil
	}
	now := s.nowFn()
	if err := s.workers.SetVerified(ctx, userID, complete, now); err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	eventType := "worker.verified"
	if !complete {
		eventType = "worker.verification_revoked"
	}
	if event, eerr := newOutboxEvent(eventType, userID.String(), map[string]any{
		"user_id":           userID,
		"compliance_status": report.Status,
	}, now); eerr == nil {
		_ = s.outbox.Enqueue(ctx, event)
	}
	return nil
}

// AdminListRequirements returns the configured requirement matrix.
func (s *Service) AdminListRequirements(ctx context.Context) ([]RequirementResponse, error) {
	reqs, err := s.requirements.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	out := make([]RequirementResponse, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, RequirementResponse{
			RequirementID:    r.RequirementID,
			Scope:            r.Scope,
			CategoryID:       r.CategoryID,
			SubcategoryID:    r.SubcategoryID,
			DocumentTypeCode: r.DocumentTypeCode,
			GroupKey:         r.GroupKey,
			CreatedAt:        r.CreatedAt,
		})
	}
	return out, nil
}

// AdminCreateRequirement adds a matrix row after checking scope references.
func (s *Service) AdminCreateRequirement(ctx context.Context, req CreateRequirementRequest) (RequirementResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return RequirementResponse{}, err
	}
	code := domain.NormalizeDocumentTypeCode(req.DocumentTypeCode)
	if err := domain.ValidateDocumentTypeCode(code); err != nil {
		return RequirementResponse{}, err
	}

	scope := domain.RequirementScope(req.Scope)
	params := ports.CreateRequirementParams{
		Scope:            scope,
		DocumentTypeCode: code,
		GroupKey:         strings.TrimSpace(req.GroupKey),
		CreatedAt:        s.nowFn(),
	}
	switch scope {
	case domain.ScopeBase:
		if req.CategoryID != nil || req.SubcategoryID != nil {
			return RequirementResponse{}, fmt.Errorf("%w: base requirements take no category or subcategory", domain.ErrInvalidInput)
		}
	case domain.ScopeCategory:
		if req.CategoryID == nil {
			return RequirementResponse{}, fmt.Errorf("%w: category requirements need category_id", domain.ErrInvalidInput)
		}
		id, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return RequirementResponse{}, fmt.Errorf("%w: invalid category_id", domain.ErrInvalidInput)
		}
		if err := s.checkCategoryExists(ctx, id); err != nil {
			return RequirementResponse{}, err
		}
		params.CategoryID = &id
	case domain.ScopeSubcategory:
		if req.SubcategoryID == nil {
			return RequirementResponse{}, fmt.Errorf("%w: subcategory requirements need subcategory_id", domain.ErrInvalidInput)
		}
		id, err := uuid.Parse(*req.SubcategoryID)
		if err != nil {
			return RequirementResponse{}, fmt.Errorf("%w: invalid subcategory_id", domain.ErrInvalidInput)
		}
		if err := s.checkSubcategoriesExist(ctx, []uuid.UUID{id}); err != nil {
			return RequirementResponse{}, err
		}
		params.SubcategoryID = &id
	}

	created, err := s.requirements.CreateRequirement(ctx, params)
	if err != nil {
		return RequirementResponse{}, fmt.Errorf("create requirement: %w", err)
	}
	return RequirementResponse{
		RequirementID:    created.RequirementID,
		Scope:            created.Scope,
		CategoryID:       created.CategoryID,
		SubcategoryID:    created.SubcategoryID,
		DocumentTypeCode: created.DocumentTypeCode,
		GroupKey:         created.GroupKey,
		CreatedAt:        created.CreatedAt,
	}, nil
}

// AdminDeleteRequirement removes a matrix row. Worker reports pick the change
// up on their next evaluation.
func (s *Service) AdminDeleteRequirement(ctx context.Context, requirementID uuid.UUID) error {
	if err := s.requirements.DeleteRequirement(ctx, requirementID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete requirement: %w", err)
	}
	return nil
}

// AdminListDocumentTypes returns the canonical document type registry.
func (s *Service) AdminListDocumentTypes(ctx context.Context) ([]DocumentTypeResponse, error) {
	types, err := s.requirements.ListDocumentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list document types: %w", err)
	}
	out := make([]DocumentTypeResponse, 0, len(types))
	for _, t := range types {
		out = append(out, DocumentTypeResponse{
			DocumentTypeID: t.DocumentTypeID,
			Code:           t.Code,
			Name:           t.Name,
			CreatedAt:      t.CreatedAt,
		})
	}
	return out, nil
}

// AdminCreateDocumentType registers a canonical document type.
func (s *Service) AdminCreateDocumentType(ctx context.Context, req CreateDocumentTypeRequest) (DocumentTypeResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return DocumentTypeResponse{}, err
	}
	code := domain.NormalizeDocumentTypeCode(req.Code)
	if err := domain.ValidateDocumentTypeCode(code); err != nil {
		return DocumentTypeResponse{}, err
	}
	created, err := s.requirements.CreateDocumentType(ctx, code, strings.TrimSpace(req.Name), s.nowFn())
	if err != nil {
		return DocumentTypeResponse{}, fmt.Errorf("create document type: %w", err)
	}
	return DocumentTypeResponse{
		DocumentTypeID: created.DocumentTypeID,
		Code:           created.Code,
		Name:           created.Name,
		CreatedAt:      created.CreatedAt,
	}, nil
}

// AdminCreateAlias maps a legacy upload code onto a canonical type. Aliases
// must resolve to a real type and must not introduce cycles.
func (s *Service) AdminCreateAlias(ctx context.Context, req CreateAliasRequest) (AliasResponse, error) {
	if err := s.checkStruct(req); err != nil {
		return AliasResponse{}, err
	}
	alias := domain.NormalizeDocumentTypeCode(req.Alias)
	canonical := domain.NormalizeDocumentTypeCode(req.Canonical)
	if err := domain.ValidateDocumentTypeCode(alias); err != nil {
		return AliasResponse{}, err
	}
	if err := domain.ValidateDocumentTypeCode(canonical); err != nil {
		return AliasResponse{}, err
	}
	if alias == canonical {
		return AliasResponse{}, fmt.Errorf("%w: alias cannot point to itself", domain.ErrInvalidInput)
	}
	aliases, err := s.requirements.AliasMap(ctx)
	if err != nil {
		return AliasResponse{}, fmt.Errorf("load alias map: %w", err)
	}
	// Walk the existing chain from the canonical side; reaching the new
	// alias again would close a cycle.
	current := canonical
	for i := 0; i < 10; i++ {
		next, ok := aliases[current]
		if !ok {
			break
		}
		if next == alias {
			return AliasResponse{}, fmt.Errorf("%w: alias would form a cycle", domain.ErrInvalidInput)
		}
		current = next
	}
	created, err := s.requirements.CreateAlias(ctx, alias, canonical, s.nowFn())
	if err != nil {
		return AliasResponse{}, fmt.Errorf("create alias: %w", err)
	}
	return AliasResponse{
		AliasID:   created.AliasID,
		Alias:     created.Alias,
		Canonical: created.Canonical,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (s *Service) checkCategoryExists(ctx context.Context, id uuid.UUID) error {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	for _, c := range categories {
		if c.CategoryID == id {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown category id", domain.ErrInvalidInput)
}
