package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/carebridge/marketplace/internal/application"
	"github.com/carebridge/marketplace/internal/domain"
)

// Handler is the HTTP adapter entrypoint for marketplace use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to the application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers all marketplace HTTP routes and the middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(metricsMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/.well-known/jwks.json", handler.jwks)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", handler.login)

		r.Post("/registration/wizard", handler.startWizard)
		r.Get("/registration/wizard/{token}", handler.getWizard)
		r.Put("/registration/wizard/{token}/steps/{step}", handler.submitStep)
		r.Delete("/registration/wizard/{token}", handler.abandonWizard)
		r.Post("/registration/wizard/{token}/complete", handler.completeWizard)

		r.Get("/catalog", handler.listCatalog)
		r.Get("/directory/workers", handler.directoryWorkers)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Get("/auth/me", handler.currentUser)
			r.Post("/auth/logout", handler.logout)
			r.Post("/auth/logout-all", handler.logoutAll)
			r.Post("/auth/password", handler.changePassword)
			r.Get("/auth/sessions", handler.listSessions)
			r.Delete("/auth/sessions/{session_id}", handler.revokeSession)
			r.Get("/auth/login-history", handler.loginHistory)

			r.Route("/workers/me", func(r chi.Router) {
				r.Use(handler.requireRole(string(domain.RoleWorker)))
				r.Get("/profile", handler.getWorkerProfile)
				r.Patch("/profile", handler.updateWorkerProfile)
				r.Get("/services", handler.listWorkerServices)
				r.Put("/services", handler.replaceWorkerServices)
				r.Get("/compliance", handler.workerCompliance)
				r.Get("/setup-progress", handler.setupProgress)
				r.Get("/documents", handler.listDocuments)
				r.Post("/documents", handler.uploadDocument)
				r.Delete("/documents/{document_id}", handler.deleteDocument)
				r.Get("/documents/{document_id}/file", handler.downloadDocument)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(handler.requireRole(string(domain.RoleAdmin)))
				r.Get("/workers", handler.adminListWorkers)
				r.Get("/workers/{user_id}", handler.adminWorkerDetail)
				r.Post("/workers/{user_id}/deactivate", handler.adminDeactivateUser)
				r.Get("/documents/pending", handler.adminPendingDocuments)
				r.Post("/documents/{document_id}/review", handler.adminReviewDocument)
				r.Get("/documents/{document_id}/file", handler.downloadDocument)
				r.Get("/requirements", handler.adminListRequirements)
				r.Post("/requirements", handler.adminCreateRequirement)
				r.Delete("/requirements/{requirement_id}", handler.adminDeleteRequirement)
				r.Get("/document-types", handler.adminListDocumentTypes)
				r.Post("/document-types", handler.adminCreateDocumentType)
				r.Post("/document-aliases", handler.adminCreateAlias)
			})
		})
	})

	return r
}
