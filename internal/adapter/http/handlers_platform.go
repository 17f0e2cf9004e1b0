package adapthttp

import (
	"net/http"

	"go.uber.org/zap"

	"moodtrack/internal/adapter/platform"
)

func (s *Server) permissionsBody() map[string]any {
	return map[string]any{
		"apiLevel":  s.gate.APILevel(),
		"grants":    s.gate.Grants(),
		"effective": s.settings.Permissions(),
	}
}

// PUT simulates the user toggling grants in system settings.
func (s *Server) handlePermissions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if r.Method == http.MethodPut {
		var body platform.Grants
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.gate.Set(body)
		s.log.Info("permission grants changed",
			zap.Bool("exact_alarms", body.ExactAlarms),
			zap.Bool("notifications", body.Notifications),
			zap.Bool("fine_location", body.FineLocation),
			zap.Bool("coarse_location", body.CoarseLocation),
		)
	}
	writeJSON(w, http.StatusOK, s.permissionsBody())
}

func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	if r.Method == http.MethodPut {
		var body platform.ConditionsSnapshot
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.conditions.Set(body)
	}
	writeJSON(w, http.StatusOK, s.conditions.Snapshot())
}

func (s *Server) handleAlarms(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.alarms.Registrations()})
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.notifications.List()})
}
