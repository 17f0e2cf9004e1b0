package adapthttp

import "net/http"

func (s *Server) handleIngestRecent(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	limit := intQuery(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}
	items, err := s.ingest.ListRecentIngestRecords(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
