package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/mfauzirh/workforce-management/internal/auth"
	"github.com/mfauzirh/workforce-management/internal/core/datamodel/role"
	"github.com/mfauzirh/workforce-management/internal/transport/middleware"
	"github.com/mfauzirh/workforce-management/internal/transport/swagger"
)

// RegisterAllRoutes mounts the authorization engine's HTTP surface. The
// scheduling/seat/leave/task modules register their own routes elsewhere and
// consume the same guards (RequireAuth + RequirePermission/RequireRole).
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
		})

		// Everything below requires a verified token.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.RequireAuth)

			pr.Get("/users/me", authHandler.Me)

			pr.Route("/roles", func(rr chi.Router) {
				rr.With(authHandler.RequirePermission(auth.ResourceRoles, role.ActionView)).
					Get("/", authHandler.ListRoles)
				rr.With(authHandler.RequirePermission(auth.ResourceRoles, role.ActionView)).
					Get("/{id}", authHandler.GetRole)

				// Permission content mutation is admin-only, role-gated on
				// top of authentication.
				rr.With(authHandler.RequireRole(auth.RoleAdmin)).
					Put("/{id}/permissions", authHandler.UpdateRolePermissions)
			})

			pr.With(authHandler.RequirePermission(auth.ResourceRoles, role.ActionView)).
				Get("/permissions/catalog", authHandler.GetPermissionCatalog)
		})
	})
}
