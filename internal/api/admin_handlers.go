package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"archiwum-zwojow/internal/services"

	"github.com/go-chi/chi/v5"
)

// @Summary      List users
// @Description  Returns every user with the number of scrolls they own.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   database.UserWithScrollCount
// @Failure      403  {string}  string "Forbidden"
// @Router       /admin/users [get]
func (s *Server) AdminListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListWithScrollCounts(r.Context())
	if err != nil {
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// @Summary      Search users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  query  string  true  "Username substring"
// @Success      200  {array}  database.UserWithScrollCount
// @Router       /admin/users/search [get]
func (s *Server) AdminSearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.SearchByUsername(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		http.Error(w, "Failed to search users", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

type addUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"isAdmin"`
}

// @Summary      Add a user
// @Description  Creates an account from the admin panel, optionally with admin rights.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user  body  addUserRequest  true  "New account"
// @Success      201  {object}  models.User
// @Failure      400  {string}  string "Validation error"
// @Router       /admin/users [post]
func (s *Server) AdminAddUserHandler(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.users.AddUser(r.Context(), services.AddUserParams{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		if services.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: failed to add user: %v", err)
		http.Error(w, "Failed to add user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// @Summary      Delete a user
// @Description  Removes the account together with its scrolls and sessions.
// @Tags         admin
// @Security     BearerAuth
// @Param        userId  path  int  true  "User ID"
// @Success      204  {null}    nil "No Content"
// @Failure      404  {string}  string "User not found"
// @Router       /admin/users/{userId} [delete]
func (s *Server) AdminDeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := s.users.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: failed to delete user %d: %v", userID, err)
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Grant admin rights
// @Tags         admin
// @Security     BearerAuth
// @Param        userId  path  int  true  "User ID"
// @Success      204  {null}    nil "No Content"
// @Failure      404  {string}  string "User not found"
// @Router       /admin/users/{userId}/promote [post]
func (s *Server) AdminPromoteUserHandler(w http.ResponseWriter, r *http.Request) {
	s.adminSetRole(w, r, s.users.Promote)
}

// @Summary      Revoke admin rights
// @Tags         admin
// @Security     BearerAuth
// @Param        userId  path  int  true  "User ID"
// @Success      204  {null}    nil "No Content"
// @Failure      404  {string}  string "User not found"
// @Router       /admin/users/{userId}/demote [post]
func (s *Server) AdminDemoteUserHandler(w http.ResponseWriter, r *http.Request) {
	s.adminSetRole(w, r, s.users.Demote)
}

func (s *Server) adminSetRole(w http.ResponseWriter, r *http.Request, change func(ctx context.Context, id int64) error) {
	userID, err := parseUserID(r)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := change(r.Context(), userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: failed to change role of user %d: %v", userID, err)
		http.Error(w, "Failed to change user role", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Download statistics
// @Description  Lists scrolls ordered by download count; `sort` may be `asc` or `desc`.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        sort  query  string  false  "asc or desc"
// @Success      200  {array}  models.Scroll
// @Router       /admin/statistics [get]
func (s *Server) AdminStatisticsHandler(w http.ResponseWriter, r *http.Request) {
	scrolls, err := s.scrolls.ListByDownloads(r.Context(), r.URL.Query().Get("sort"))
	if err != nil {
		http.Error(w, "Failed to list statistics", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scrolls)
}

// @Summary      Increase a download counter
// @Tags         admin
// @Security     BearerAuth
// @Param        scrollId  path  int  true  "Scroll ID"
// @Success      204  {null}    nil "No Content"
// @Failure      404  {string}  string "Scroll not found"
// @Router       /admin/scrolls/{scrollId}/downloads/increase [post]
func (s *Server) AdminIncreaseDownloadsHandler(w http.ResponseWriter, r *http.Request) {
	s.adminAdjustDownloads(w, r, 1)
}

// @Summary      Decrease a download counter
// @Description  The counter never drops below zero.
// @Tags         admin
// @Security     BearerAuth
// @Param        scrollId  path  int  true  "Scroll ID"
// @Success      204  {null}    nil "No Content"
// @Failure      404  {string}  string "Scroll not found"
// @Router       /admin/scrolls/{scrollId}/downloads/decrease [post]
func (s *Server) AdminDecreaseDownloadsHandler(w http.ResponseWriter, r *http.Request) {
	s.adminAdjustDownloads(w, r, -1)
}

func (s *Server) adminAdjustDownloads(w http.ResponseWriter, r *http.Request, delta int64) {
	scrollID, err := parseScrollID(r)
	if err != nil {
		http.Error(w, "Invalid scroll ID", http.StatusBadRequest)
		return
	}

	if err := s.scrolls.AdjustDownloads(r.Context(), scrollID, delta); err != nil {
		if errors.Is(err, services.ErrScrollNotFound) {
			http.Error(w, "Scroll not found", http.StatusNotFound)
			return
		}
		log.Printf("ERROR: failed to adjust downloads of scroll %d: %v", scrollID, err)
		http.Error(w, "Failed to adjust downloads", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
}
