package adapthttp

import (
	"net/http"
)

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		s.handleActivitiesRecent(w, r)
		return
	}
	var body struct {
		Kind        string `json:"kind"`
		Mood        int    `json:"mood"`
		Intensity   int    `json:"intensity"`
		DurationMin int    `json:"durationMin"`
		Note        string `json:"note"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.activities.RecordActivity(r.Context(), body.Kind, body.Mood, body.Intensity, body.DurationMin, body.Note)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleActivitiesRecent(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	limit := intQuery(r, "limit", 20)
	items, err := s.activities.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleActivitiesUndoLast(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	undone, id, err := s.activities.UndoLast(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"undone": undone, "id": id})
}

func (s *Server) handleInsightsDaily(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	days := intQuery(r, "days", 30)
	points, err := s.insights.GetDaily(r.Context(), days)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"today": points[len(points)-1].Day,
		"items": points,
	})
}
