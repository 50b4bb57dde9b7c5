package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the chi router for the whole API surface (spec §6).
func NewRouter(s *Server) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Handle("/metrics", s.metrics.Handler())

	loginLimiter := newIPRateLimiter(s.cfg.RateLimit.LoginPerMinute)
	registerLimiter := newIPRateLimiter(s.cfg.RateLimit.RegistrationPerMinute)
	auth := authenticator(s.jwt)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(registerLimiter.middleware).Post("/register", s.handleRegisterUser)
			r.With(loginLimiter.middleware).Post("/login", s.handleLogin)
			r.With(auth).Get("/me", s.handleMe)
		})

		r.Route("/competitions", func(r chi.Router) {
			r.Get("/", s.handleListCompetitions)
			r.Get("/{id}", s.handleGetCompetition)
			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", s.handleCreateCompetition)
				r.Put("/{id}", s.handleUpdateCompetition)
				r.Delete("/{id}", s.handleDeleteCompetition)
				r.Post("/{id}/open-registration", s.handleOpenRegistration)
				r.Post("/{id}/start", s.handleStartCompetition)
				r.Post("/{id}/start-checking", s.handleStartChecking)
				r.Post("/{id}/publish", s.handlePublishCompetition)
			})
			r.Route("/{competition_id}/rooms", func(r chi.Router) {
				r.Use(auth)
				r.Get("/", s.handleListRooms)
				r.Post("/", s.handleCreateRoom)
			})
		})

		r.Route("/registrations", func(r chi.Router) {
			r.Use(auth)
			r.With(registerLimiter.middleware).Post("/", s.handleCreateRegistration)
			r.Get("/", s.handleListMyRegistrations)
			r.Get("/{id}", s.handleGetRegistration)
			r.Post("/{id}/refresh-token", s.handleRefreshToken)
		})

		r.Route("/admission", func(r chi.Router) {
			r.Use(auth)
			r.Post("/verify", s.handleVerifyAdmission)
			r.Post("/{registration_id}/approve", s.handleApproveAdmission)
			r.Get("/sheets/{attempt_id}/download", s.handleDownloadSheet)
		})

		r.Route("/scans", func(r chi.Router) {
			r.Use(auth)
			r.Post("/upload", s.handleUploadScan)
			r.Get("/", s.handleListScans)
			r.Get("/{id}", s.handleGetScan)
			r.Get("/{id}/image", s.handleGetScanImage)
			r.Post("/{id}/verify", s.handleVerifyScan)
			r.Post("/attempts/{attempt_id}/apply-score", s.handleApplyScore)
		})

		r.Route("/invigilator", func(r chi.Router) {
			r.Use(auth)
			r.Post("/events", s.handleRecordEvent)
			r.Post("/extra-sheet", s.handleIssueExtraSheet)
			r.Get("/attempt/{id}/events", s.handleListAttemptEvents)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth)
			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Post("/", s.handleCreateUser)
				r.Get("/{id}", s.handleGetUser)
				r.Put("/{id}", s.handleUpdateUser)
				r.Delete("/{id}", s.handleDeleteUser)
			})
			r.Get("/audit-log", s.handleAuditLog)
			r.Get("/statistics", s.handleStatistics)
			r.Post("/registrations", s.handleBulkRegistrations)
		})

		r.Get("/results/{competition_id}", s.handleResults)

		r.Route("/institutions", func(r chi.Router) {
			r.Get("/", s.handleListInstitutions)
			r.Get("/search", s.handleSearchInstitutions)
			r.With(auth).Post("/", s.handleCreateInstitution)
		})

		r.Route("/participants", func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", s.handleGetMyParticipant)
			r.Put("/me", s.handleUpdateMyParticipant)
			r.Get("/{id}/documents", s.handleListDocuments)
			r.Post("/{id}/documents", s.handleUploadDocument)
		})
	})

	return r
}
