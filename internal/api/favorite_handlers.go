package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"archiwum-zwojow/internal/database"
)

// @Summary      List favorite scrolls
// @Tags         favorites
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Scroll
// @Router       /favorites [get]
func (s *Server) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	scrolls, err := s.store.ListFavorites(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to list favorites", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scrolls)
}

// @Summary      Add a favorite
// @Tags         favorites
// @Security     BearerAuth
// @Param        scrollId  path  int  true  "Scroll ID"
// @Success      201  {null}    nil "Created"
// @Failure      404  {string}  string "Scroll not found"
// @Failure      409  {string}  string "Already a favorite"
// @Router       /scrolls/{scrollId}/favorite [post]
func (s *Server) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	scrollID, err := parseScrollID(r)
	if err != nil {
		http.Error(w, "Invalid scroll ID", http.StatusBadRequest)
		return
	}

	if err := s.store.AddFavorite(r.Context(), claims.UserID, scrollID); err != nil {
		switch {
		case errors.Is(err, database.ErrScrollNotFound):
			http.Error(w, "Scroll not found", http.StatusNotFound)
		case errors.Is(err, database.ErrFavoriteAlreadyExists):
			http.Error(w, "Scroll is already a favorite", http.StatusConflict)
		default:
			http.Error(w, "Failed to add favorite", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// @Summary      Remove a favorite
// @Tags         favorites
// @Security     BearerAuth
// @Param        scrollId  path  int  true  "Scroll ID"
// @Success      204  {null}    nil "No Content"
// @Failure      404  {string}  string "Favorite not found"
// @Router       /scrolls/{scrollId}/favorite [delete]
func (s *Server) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	scrollID, err := parseScrollID(r)
	if err != nil {
		http.Error(w, "Invalid scroll ID", http.StatusBadRequest)
		return
	}

	removed, err := s.store.RemoveFavorite(r.Context(), claims.UserID, scrollID)
	if err != nil {
		http.Error(w, "Failed to remove favorite", http.StatusInternalServerError)
		return
	}
	if !removed {
		http.Error(w, "Favorite not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
