package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/justicelink/case-management/internal/auth"
	"github.com/justicelink/case-management/internal/cases"
	"github.com/justicelink/case-management/internal/document"
	"github.com/justicelink/case-management/internal/transport/middleware"
	"github.com/justicelink/case-management/internal/transport/swagger"
	"github.com/justicelink/case-management/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, caseHandler *cases.Handler, documentHandler *document.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", authHandler.Register)
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
					pr.Get("/users/search", userHandler.SearchUsers)
					pr.Get("/user/{id}", userHandler.GetUser)
				}

				if caseHandler != nil {
					pr.Post("/cases", caseHandler.CreateCase) // POST /cases
					pr.Get("/cases", caseHandler.ListCases)   // GET /cases

					pr.Route("/case/{id}", func(cr chi.Router) {
						cr.Get("/", caseHandler.GetCase)
						cr.Put("/status", caseHandler.UpdateStatus)
						cr.Post("/grant-access", caseHandler.GrantAccess)
						cr.Get("/permissions", caseHandler.ListCollaborators)
						cr.Get("/summary", caseHandler.Summarize)

						if documentHandler != nil {
							cr.Post("/upload", documentHandler.Upload)
							cr.Get("/documents", documentHandler.ListByCase)
						}
					})
				}

				if documentHandler != nil {
					pr.Get("/document/{id}/download", documentHandler.Download)
				}
			})
		}
	})
}
