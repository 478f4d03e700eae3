package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghelleks/botany-battle-sub000/internal/logger"
	"github.com/ghelleks/botany-battle-sub000/internal/models"
)

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	mode := models.Mode(r.URL.Query().Get("mode"))
	difficulty := models.Difficulty(r.URL.Query().Get("difficulty"))

	limit := s.LeaderboardLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n > 0 && n < limit {
			limit = n
		}
	}
	log.Debug("loading leaderboard: mode=%s, difficulty=%s, limit=%d", mode, difficulty, limit)

	records, err := s.GameService.Leaderboard(r.Context(), mode, difficulty, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"mode":       mode,
		"difficulty": difficulty,
		"entries":    records,
	})
}

func (s *Server) handlePersonalBests(w http.ResponseWriter, r *http.Request) {
	records, err := s.GameService.PersonalBests(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"records": records})
}

// handlePersonalBest returns the stored best for one (mode, difficulty)
// pair; a missing record responds with null rather than 404, since a
// first play has no prior best.
func (s *Server) handlePersonalBest(w http.ResponseWriter, r *http.Request) {
	mode := models.Mode(chi.URLParam(r, "mode"))
	difficulty := models.Difficulty(chi.URLParam(r, "difficulty"))

	rec, err := s.GameService.PersonalBest(r.Context(), mode, difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"record": rec})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.GameService.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, stats)
}
