package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"archiwum-zwojow/internal/services"

	"github.com/go-chi/chi/v5"
)

// @Summary      Current user
// @Description  Returns the profile of the authenticated user together with their scrolls.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {string}  string "Unauthorized"
// @Router       /me [get]
func (s *Server) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	user, err := s.users.FindByID(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Failed to retrieve user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	scrolls, err := s.store.GetScrollsByOwner(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve scrolls", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"scrolls": scrolls,
	})
}

// @Summary      Public profile
// @Description  Returns another user's profile and their scrolls.
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path  int  true  "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {string}  string "User not found"
// @Router       /users/{userId} [get]
func (s *Server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	user, err := s.users.FindByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	scrolls, err := s.store.GetScrollsByOwner(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve scrolls", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user":    user,
		"scrolls": scrolls,
	})
}

type updateProfileRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Emoji     string `json:"emoji"`
	Password  string `json:"password"`
}

// @Summary      Update own profile
// @Description  Updates contact data, emoji and optionally the account password.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile  body  updateProfileRequest  true  "Profile fields"
// @Success      200  {object}  models.User
// @Failure      400  {string}  string "Validation error"
// @Router       /me/profile [put]
func (s *Server) UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.users.UpdateProfile(r.Context(), claims.UserID, services.UpdateProfileParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Emoji:     req.Emoji,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case services.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrUserNotFound):
			http.Error(w, "User not found", http.StatusNotFound)
		default:
			log.Printf("ERROR: failed to update profile of user %d: %v", claims.UserID, err)
			http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
