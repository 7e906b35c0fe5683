package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/carebridge/marketplace/internal/application"
)

// Multipart parse caps. The application enforces the exact per-document
// size limit; these only bound transport memory.
const (
	maxUploadBytes  = 12 << 20
	maxUploadMemory = 4 << 20
)

func (h *Handler) getWorkerProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	res, err := h.service.GetWorkerProfile(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "get_worker_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) updateWorkerProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	var req application.UpdateWorkerProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "update_worker_profile", err)
		return
	}

	res, err := h.service.UpdateWorkerProfile(r.Context(), claims, req)
	if err != nil {
		writeMappedError(r.Context(), w, "update_worker_profile", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListCatalog(r.Context())
	if err != nil {
		writeMappedError(r.Context(), w, "list_catalog", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"categories": res})
}

func (h *Handler) listWorkerServices(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	res, err := h.service.ListWorkerServices(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "list_worker_services", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"services": res})
}

func (h *Handler) replaceWorkerServices(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	var req application.ReplaceServicesRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "replace_worker_services", err)
		return
	}

	res, err := h.service.ReplaceWorkerServices(r.Context(), claims, req)
	if err != nil {
		writeMappedError(r.Context(), w, "replace_worker_services", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"services": res})
}

func (h *Handler) workerCompliance(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	res, err := h.service.WorkerCompliance(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "worker_compliance", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) setupProgress(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	res, err := h.service.SetupProgress(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "setup_progress", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	res, err := h.service.ListDocuments(r.Context(), claims)
	if err != nil {
		writeMappedError(r.Context(), w, "list_documents", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"documents": res})
}

func (h *Handler) uploadDocument(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeValidationError(r.Context(), w, "upload_document", errors.New("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeValidationError(r.Context(), w, "upload_document", errors.New("file field is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeValidationError(r.Context(), w, "upload_document", errors.New("unable to read file"))
		return
	}

	expiresAt, err := parseExpiryField(r.FormValue("expires_at"))
	if err != nil {
		writeValidationError(r.Context(), w, "upload_document", err)
		return
	}

	params := application.UploadDocumentParams{
		DocumentType: r.FormValue("document_type"),
		FileName:     header.Filename,
		ContentType:  contentTypeOf(header.Header.Get("Content-Type")),
		Content:      content,
		ExpiresAt:    expiresAt,
	}

	res, err := h.service.UploadDocument(r.Context(), claims, params)
	if err != nil {
		writeMappedError(r.Context(), w, "upload_document", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	documentID, err := parseUUIDParam(r, "document_id")
	if err != nil {
		writeValidationError(r.Context(), w, "delete_document", err)
		return
	}

	if err := h.service.DeleteDocument(r.Context(), claims, documentID); err != nil {
		writeMappedError(r.Context(), w, "delete_document", err)
		return
	}
	writeMessage(w, http.StatusOK, "document removed")
}

func (h *Handler) downloadDocument(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
		return
	}

	documentID, err := parseUUIDParam(r, "document_id")
	if err != nil {
		writeValidationError(r.Context(), w, "download_document", err)
		return
	}

	doc, err := h.service.OpenDocumentFile(r.Context(), claims, documentID)
	if err != nil {
		writeMappedError(r.Context(), w, "download_document", err)
		return
	}
	defer doc.Body.Close()

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.FileName}))
	if doc.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(doc.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, doc.Body)
}

func (h *Handler) directoryWorkers(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseUUIDQuery(r, "category_id")
	if err != nil {
		writeValidationError(r.Context(), w, "directory_workers", err)
		return
	}
	subcategoryID, err := parseUUIDQuery(r, "subcategory_id")
	if err != nil {
		writeValidationError(r.Context(), w, "directory_workers", err)
		return
	}

	q := application.DirectoryQuery{
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Suburb:        strings.TrimSpace(r.URL.Query().Get("suburb")),
		Limit:         parseIntDefault(r.URL.Query().Get("limit"), 20),
		Offset:        parseIntDefault(r.URL.Query().Get("offset"), 0),
	}

	res, err := h.service.Directory(r.Context(), q)
	if err != nil {
		writeMappedError(r.Context(), w, "directory_workers", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func parseExpiryField(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New("expires_at must be RFC 3339 or YYYY-MM-DD")
	}
	return &t, nil
}

func contentTypeOf(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.TrimSpace(header)
	}
	return mediaType
}
