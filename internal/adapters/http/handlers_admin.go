package http

import (
	"net/http"
	"strings"

	"github.com/carebridge/marketplace/internal/application"
)

func (h *Handler) adminListWorkers(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseUUIDQuery(r, "category_id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_list_workers", err)
		return
	}
	subcategoryID, err := parseUUIDQuery(r, "subcategory_id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_list_workers", err)
		return
	}
	verified, err := parseBoolQuery(r, "verified")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_list_workers", err)
		return
	}
	active, err := parseBoolQuery(r, "active")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_list_workers", err)
		return
	}

	q := application.AdminWorkersQuery{
		Search:           strings.TrimSpace(r.URL.Query().Get("search")),
		CategoryID:       categoryID,
		SubcategoryID:    subcategoryID,
		Verified:         verified,
		Active:           active,
		ComplianceStatus: strings.TrimSpace(r.URL.Query().Get("compliance_status")),
		SortBy:           strings.TrimSpace(r.URL.Query().Get("sort_by")),
		Limit:            parseIntDefault(r.URL.Query().Get("limit"), 20),
		Offset:           parseIntDefault(r.URL.Query().Get("offset"), 0),
	}

	res, err := h.service.AdminListWorkers(r.Context(), q)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_workers", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminWorkerDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_worker_detail", err)
		return
	}

	res, err := h.service.AdminWorkerDetail(r.Context(), userID)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_worker_detail", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminDeactivateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_deactivate_user", err)
		return
	}

	if err := h.service.AdminDeactivateUser(r.Context(), userID); err != nil {
		writeMappedError(r.Context(), w, "admin_deactivate_user", err)
		return
	}
	writeMessage(w, http.StatusOK, "account deactivated")
}

func (h *Handler) adminPendingDocuments(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)
	offset := parseIntDefault(r.URL.Query().Get("offset"), 0)

	res, err := h.service.AdminPendingDocuments(r.Context(), limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_pending_documents", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminReviewDocument(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	documentID, err := parseUUIDParam(r, "document_id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_review_document", err)
		return
	}

	var req application.ReviewDocumentRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_review_document", err)
		return
	}

	res, err := h.service.AdminReviewDocument(r.Context(), claims, documentID, req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_review_document", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) adminListRequirements(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.AdminListRequirements(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_requirements", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"requirements": res})
}

func (h *Handler) adminCreateRequirement(w http.ResponseWriter, r *http.Request) {
	var req application.CreateRequirementRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_create_requirement", err)
		return
	}

	res, err := h.service.AdminCreateRequirement(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_create_requirement", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) adminDeleteRequirement(w http.ResponseWriter, r *http.Request) {
	requirementID, err := parseUUIDParam(r, "requirement_id")
	if err != nil {
		writeValidationError(r.Context(), w, "admin_delete_requirement", err)
		return
	}

	if err := h.service.AdminDeleteRequirement(r.Context(), requirementID); err != nil {
		writeMappedError(r.Context(), w, "admin_delete_requirement", err)
		return
	}
	writeMessage(w, http.StatusOK, "requirement removed")
}

func (h *Handler) adminListDocumentTypes(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.AdminListDocumentTypes(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "admin_list_document_types", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"document_types": res})
}

func (h *Handler) adminCreateDocumentType(w http.ResponseWriter, r *http.Request) {
	var req application.CreateDocumentTypeRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_create_document_type", err)
		return
	}

	res, err := h.service.AdminCreateDocumentType(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_create_document_type", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) adminCreateAlias(w http.ResponseWriter, r *http.Request) {
	var req application.CreateAliasRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "admin_create_alias", err)
		return
	}

	res, err := h.service.AdminCreateAlias(r.Context(), req)
	if err != nil {
		writeMappedError(r.Context(), w, "admin_create_alias", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}
