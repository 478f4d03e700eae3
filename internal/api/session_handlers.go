package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghelleks/botany-battle-sub000/internal/errors"
	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
	"github.com/ghelleks/botany-battle-sub000/internal/services"
)

type startSessionRequest struct {
	Mode       models.Mode       `json:"mode"`
	Difficulty models.Difficulty `json:"difficulty"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("starting session")

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.GameService.StartSession(r.Context(), req.Mode, req.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, view)
}

// handleGetSession returns the live session view. If the countdown
// expired since the last poll, the completed result comes back instead.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, result, err := s.GameService.GetSession(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if result != nil {
		respondJSON(w, r, http.StatusOK, result)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := logger.FromContext(r.Context())
	log.Debug("submitting answer: session_id=%s", id)

	var sub services.AnswerSubmission
	if err := decodeJSON(r, &sub); err != nil {
		handleError(w, r, err)
		return
	}
	if sub.PlantID == "" {
		handleError(w, r, errors.NewValidationError("plant_id", "cannot be empty"))
		return
	}

	view, result, err := s.GameService.SubmitAnswer(r.Context(), id, sub)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if result != nil {
		respondJSON(w, r, http.StatusOK, result)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.GameService.PauseSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.GameService.ResumeSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	result, err := s.GameService.FinishSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleAbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := s.GameService.AbandonSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecoverSession rebuilds a session from its persisted timer
// checkpoint after an app restart.
func (s *Server) handleRecoverSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.GameService.RecoverSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, view)
}

type adjustTimeRequest struct {
	// AddSeconds extends the countdown; non-positive values are ignored.
	AddSeconds *float64 `json:"add_seconds"`
	// SetRemaining overrides the remaining time; 0 forces expiry.
	SetRemaining *float64 `json:"set_remaining"`
}

func (s *Server) handleAdjustTime(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req adjustTimeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	switch {
	case req.AddSeconds != nil:
		view, err := s.GameService.AddTime(r.Context(), id, *req.AddSeconds)
		if err != nil {
			handleError(w, r, err)
			return
		}
		respondJSON(w, r, http.StatusOK, view)
	case req.SetRemaining != nil:
		view, result, err := s.GameService.SetTimeRemaining(r.Context(), id, *req.SetRemaining)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if result != nil {
			respondJSON(w, r, http.StatusOK, result)
			return
		}
		respondJSON(w, r, http.StatusOK, view)
	default:
		handleError(w, r, errors.NewBadRequestError("either add_seconds or set_remaining is required"))
	}
}
