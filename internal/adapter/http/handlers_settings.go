package adapthttp

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"moodtrack/internal/app"
	"moodtrack/internal/domain"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	settings, err := s.settings.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleSettingsReminder(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}
	var body struct {
		Enabled bool                  `json:"enabled"`
		Time    *domain.ScheduledTime `json:"time"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	upd, err := s.settings.UpdateReminder(r.Context(), r.PathValue("category"), body.Enabled, body.Time)
	switch {
	case errors.Is(err, app.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil && upd.Result == nil:
		writeError(w, http.StatusInternalServerError, err)
		return
	case err != nil:
		// Preferences are saved and the daily repeat may be armed; surface the
		// partial result alongside the error.
		s.log.Error("reminder applied with errors", zap.String("category", r.PathValue("category")), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error(), "result": upd.Result, "advisory": upd.Advisory})
		return
	}
	writeJSON(w, http.StatusOK, upd)
}

func (s *Server) handleSettingsIngest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPut) {
		return
	}
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.settings.SetIngest(r.Context(), body.Enabled); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": body.Enabled})
}
