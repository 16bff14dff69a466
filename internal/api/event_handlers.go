package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// @Summary      Activity journal
// @Description  Returns events recorded for the authenticated user, newest first, starting after `since`.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        since  query  int  false  "Return events with ID greater than this"
// @Success      200  {array}  database.Event
// @Router       /events [get]
func (s *Server) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var sinceID int64
	if v := r.URL.Query().Get("since"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid since parameter, must be a number", http.StatusBadRequest)
			return
		}
		sinceID = parsed
	}

	events, err := s.store.GetEventsSince(r.Context(), claims.UserID, sinceID)
	if err != nil {
		http.Error(w, "Failed to list events", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}
