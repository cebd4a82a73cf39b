package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.Metrics != nil {
		r.Use(s.metricsMiddleware)
	}

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		if s.RateLimiter != nil {
			r.Use(s.RateLimiter.Middleware)
		}

		r.Get("/categories", s.handleCategories)
		r.Get("/profiles", s.handleProfiles)
		r.Post("/profiles", s.handleCreateProfile)
		r.Post("/profiles/{id}/select", s.handleSelectProfile)
		r.Delete("/profiles/{id}", s.handleDeleteProfile)

		r.Group(func(r chi.Router) {
			r.Use(s.profileMiddleware)

			r.Get("/profile", s.handleCurrentProfile)
			r.Get("/dashboard", s.handleDashboard)

			r.Route("/practice", func(r chi.Router) {
				r.Get("/", s.handlePracticeState)
				r.Post("/mode", s.handleSelectMode)
				r.Post("/custom", s.handleOpenCustomBuilder)
				r.Post("/start", s.handleStart)
				r.Get("/question", s.handleQuestion)
				r.Post("/answer", s.handleAnswer)
				r.Post("/next", s.handleNext)
				r.Post("/previous", s.handlePrevious)
				r.Post("/flags/{n}", s.handleToggleFlag)
				r.Post("/finish", s.handleFinish)
				r.Post("/exit", s.handleExit)
				r.Post("/history/open", s.handleOpenHistory)
				r.Post("/history/close", s.handleCloseHistory)
			})

			r.Get("/history", s.handleHistory)
			r.Get("/history/stats", s.handleHistoryStats)
			r.Get("/history/{id}", s.handleHistoryRecord)

			r.Route("/study-plans", func(r chi.Router) {
				r.Get("/", s.handleStudyPlans)
				r.Post("/assessment", s.handleSubmitAssessment)
				r.Get("/progress", s.handlePlanProgress)
				r.Get("/calendar", s.handleCalendar)
				r.Post("/tasks/{id}/toggle", s.handleToggleTask)
				r.Post("/{id}/select", s.handleSelectPlan)
				r.Post("/{id}/customize", s.handleCustomizePlan)
			})
			r.Get("/countdown", s.handleCountdown)

			r.Get("/resources", s.handleResources)
			r.Get("/resources/{id}", s.handleResource)
			r.Get("/library", s.handleLibrary)
			r.Put("/library/{id}", s.handleSaveResource)
			r.Delete("/library/{id}", s.handleRemoveResource)
		})
	})

	return r
}
