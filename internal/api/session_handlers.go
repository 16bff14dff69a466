package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// @Summary      List active sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Session
// @Router       /sessions [get]
func (s *Server) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sessions, err := s.store.ListSessionsForUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessions)
}

// @Summary      Revoke a session
// @Tags         sessions
// @Security     BearerAuth
// @Param        sessionId  path  string  true  "Session ID"
// @Success      204  {null}    nil "No Content"
// @Failure      400  {string}  string "Invalid session ID"
// @Router       /sessions/{sessionId} [delete]
func (s *Server) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		http.Error(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteSessionByID(r.Context(), sessionID, claims.UserID); err != nil {
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Revoke all sessions
// @Description  Logs the user out everywhere by deleting every refresh session.
// @Tags         sessions
// @Security     BearerAuth
// @Success      204  {null}  nil "No Content"
// @Router       /sessions [delete]
func (s *Server) DeleteAllSessionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	if err := s.store.DeleteAllSessionsForUser(r.Context(), claims.UserID); err != nil {
		http.Error(w, "Failed to delete sessions", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
