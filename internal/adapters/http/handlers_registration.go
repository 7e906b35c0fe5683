package http

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/carebridge/marketplace/internal/domain"
)

// Step payloads are passed through raw so the application layer can decode
// strictly against the role-specific step schema.
const maxStepBodyBytes = 64 << 10

func (h *Handler) startWizard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "start_wizard", err)
		return
	}

	role := domain.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !domain.ValidRegistrationRole(role) {
		writeValidationError(r.Context(), w, "start_wizard", errors.New("role must be one of client, coordinator, worker"))
		return
	}

	res, err := h.service.StartWizard(r.Context(), role)
	if err != nil {
		writeMappedError(r.Context(), w, "start_wizard", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}

func (h *Handler) getWizard(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetWizard(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeMappedError(r.Context(), w, "get_wizard", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) submitStep(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	step := domain.WizardStep(chi.URLParam(r, "step"))

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxStepBodyBytes))
	if err != nil {
		writeValidationError(r.Context(), w, "submit_wizard_step", err)
		return
	}

	res, err := h.service.SubmitStep(r.Context(), token, step, raw)
	if err != nil {
		writeMappedError(r.Context(), w, "submit_wizard_step", err)
		return
	}
	writeSuccess(w, http.StatusOK, res)
}

func (h *Handler) abandonWizard(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AbandonWizard(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeMappedError(r.Context(), w, "abandon_wizard", err)
		return
	}
	writeMessage(w, http.StatusOK, "registration draft discarded")
}

func (h *Handler) completeWizard(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))

	res, err := h.service.CompleteWizard(r.Context(), token, idempotencyKey)
	if err != nil {
		writeMappedError(r.Context(), w, "complete_wizard", err)
		return
	}
	writeSuccess(w, http.StatusCreated, res)
}
