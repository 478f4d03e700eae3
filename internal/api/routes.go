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

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleStartSession)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Delete("/sessions/{id}", s.handleAbandonSession)
		r.Post("/sessions/{id}/answers", s.handleSubmitAnswer)
		r.Post("/sessions/{id}/pause", s.handlePauseSession)
		r.Post("/sessions/{id}/resume", s.handleResumeSession)
		r.Post("/sessions/{id}/finish", s.handleFinishSession)
		r.Post("/sessions/{id}/recover", s.handleRecoverSession)
		r.Post("/sessions/{id}/time", s.handleAdjustTime)

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/records", s.handlePersonalBests)
		r.Get("/records/{mode}/{difficulty}", s.handlePersonalBest)
		r.Get("/stats", s.handleStats)
	})

	return r
}
