package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/word-engine/internal/daily"
)

func (s *Server) mountDaily() {
	// GET /daily/leaderboard?date=YYYY-MM-DD&limit=N (date defaults to today, UTC)
	s.r.Get("/daily/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		if date == "" {
			date = daily.DateKey(time.Now())
		} else if _, err := time.Parse(time.DateOnly, date); err != nil {
			writeError(w, http.StatusBadRequest, "bad_date")
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		rows, err := s.d.Daily.Leaderboard(r.Context(), date, limit)
		if err != nil {
			log.Error().Err(err).Str("date", date).Msg("leaderboard")
			writeError(w, http.StatusInternalServerError, "internal")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": date, "entries": rows})
	})
}
