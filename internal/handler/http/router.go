package http

import (
	"log/slog"

	"github.com/anpk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/anpk/attendance-backend-go/internal/handler/http/response"
	"github.com/anpk/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Attendance AttendanceHandler
	Correction CorrectionHandler
	Employee   EmployeeHandler
	Site       SiteHandler
	Report     ReportHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	r.NotFound(response.EndpointNotFound)
	r.MethodNotAllowed(response.MethodNotAllowed)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/me", h.Auth.Me)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/me", h.Attendance.ListMine)
				r.Get("/me/{attendanceID}", h.Attendance.GetMine)
				r.Get("/photos/*", h.Attendance.Photo)
			})

			r.Route("/correction-requests", func(r chi.Router) {
				r.Post("/", h.Correction.Create)
				r.Get("/", h.Correction.List)
				r.Route("/{requestID}", func(r chi.Router) {
					r.Get("/", h.Correction.Get)
					r.Patch("/cancel", h.Correction.Cancel)
					r.Patch("/approve", h.Correction.Approve)
					r.Patch("/reject", h.Correction.Reject)
				})
			})

			// Admin and manager routes; the services check roles and site scope
			// against the live employee directory.
			r.Route("/admin", func(r chi.Router) {
				r.Route("/employees", func(r chi.Router) {
					r.Get("/", h.Employee.List)
					r.Post("/", h.Employee.Create)
					r.Patch("/{userID}", h.Employee.Update)
				})

				r.Route("/sites", func(r chi.Router) {
					r.Get("/", h.Site.List)
					r.Post("/", h.Site.Create)
					r.Patch("/{siteID}", h.Site.Update)
				})

				r.Route("/managers/{managerID}/sites", func(r chi.Router) {
					r.Get("/", h.Site.ListManagerSites)
					r.Put("/{siteID}", h.Site.AssignManager)
					r.Delete("/{siteID}", h.Site.UnassignManager)
				})

				r.Route("/attendance/report", func(r chi.Router) {
					r.Get("/", h.Report.SiteReport)
					r.Get("/export", h.Report.ExportSiteReport)
				})
			})
		})
	})
	return r
}
