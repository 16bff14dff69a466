package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"archiwum-zwojow/internal/auth"
	"archiwum-zwojow/internal/database"
	"archiwum-zwojow/internal/services"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type RegisterRequest struct {
	Username  string `json:"username" example:"jan kowalski"`
	Password  string `json:"password" example:"password123"`
	Email     string `json:"email,omitempty" example:"jan@example.com"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty" example:"0412345678"`
	Emoji     string `json:"emoji,omitempty" example:"📜"`
}

// @Summary      Register a new account
// @Description  Creates a user account. The password is stored as a bcrypt hash.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        registerRequest  body  RegisterRequest  true  "Account details"
// @Success      201  {object}  models.User
// @Failure      400  {string}  string "Validation error"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterParams{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Emoji:     req.Emoji,
	})
	if err != nil {
		if services.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: registration failed: %v", err)
		http.Error(w, "Failed to register", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

type LoginRequest struct {
	Username string `json:"username" example:"admin"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9...."`
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
}

// @Summary      Logs a user in
// @Description  Authenticates a user and returns a short-lived access token and a long-lived refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest   body      LoginRequest  true  "Login Credentials"
// @Success      200            {object}  TokenResponse
// @Failure      400            {string}  string "Invalid request body"
// @Failure      401            {string}  string "Invalid username or password"
// @Failure      500            {string}  string "Internal Server Error"
// @Router       /auth/login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		http.Error(w, "Invalid username or password", http.StatusUnauthorized)
		return
	}

	accessToken, err := auth.GenerateJWT(user, s.config.JWT.Secret)
	if err != nil {
		http.Error(w, "Failed to generate access token", http.StatusInternalServerError)
		return
	}

	generateID, err := nanoid.Standard(40)
	if err != nil {
		log.Printf("CRITICAL: Failed to initialize nanoid generator: %v", err)
		http.Error(w, "Internal server error (token generation)", http.StatusInternalServerError)
		return
	}
	refreshToken := generateID()
	expiresAt := time.Now().Add(24 * time.Hour)

	sessionParams := database.CreateSessionParams{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: refreshToken,
		UserAgent:    r.UserAgent(),
		ClientIP:     r.RemoteAddr,
		ExpiresAt:    expiresAt,
	}

	err = s.store.CreateSession(r.Context(), sessionParams)
	if err != nil {
		log.Printf("ERROR: Failed to create session for user %d: %v", user.ID, err)
		http.Error(w, "Failed to process login session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// @Summary      Logs a user out
// @Description  Deletes the refresh session identified by the given refresh token.
// @Tags         auth
// @Accept       json
// @Success      204  {null}    nil "No Content"
// @Failure      400  {string}  string "Invalid request body or missing token"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /auth/logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteSessionByRefreshToken(r.Context(), req.RefreshToken); err != nil {
		log.Printf("ERROR: Failed to delete session on logout: %v", err)
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"V1StGXR8_Z5jdHi6B-myT78q_Z5jdHi6B-myT78q"`
}

// @Summary      Refresh access token
// @Description  Provides a new access token and refresh token in exchange for a valid refresh token. Implements refresh token rotation.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refreshTokenRequest   body      RefreshTokenRequest  true  "Refresh Token"
// @Success      200                   {object}  TokenResponse
// @Failure      400                   {string}  string "Invalid request body or missing token"
// @Failure      401                   {string}  string "Invalid or expired refresh token"
// @Failure      500                   {string}  string "Internal Server Error"
// @Router       /auth/refresh [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		http.Error(w, "Refresh token is required", http.StatusBadRequest)
		return
	}

	var newAccessToken, newRefreshToken string

	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		user, err := q.GetUserByRefreshToken(r.Context(), req.RefreshToken)
		if err != nil {
			return err
		}
		if user == nil {
			return errors.New("invalid or expired refresh token")
		}

		if err := q.DeleteSessionByRefreshToken(r.Context(), req.RefreshToken); err != nil {
			return err
		}

		newAccessToken, err = auth.GenerateJWT(user, s.config.JWT.Secret)
		if err != nil {
			return err
		}

		generateID, err := nanoid.Standard(40)
		if err != nil {
			return err
		}
		newRefreshToken = generateID()
		sessionParams := database.CreateSessionParams{
			ID:           uuid.New(),
			UserID:       user.ID,
			RefreshToken: newRefreshToken,
			UserAgent:    r.UserAgent(),
			ClientIP:     r.RemoteAddr,
			ExpiresAt:    time.Now().Add(24 * time.Hour),
		}
		return q.CreateSession(r.Context(), sessionParams)
	})

	if txErr != nil {
		if txErr.Error() == "invalid or expired refresh token" {
			http.Error(w, txErr.Error(), http.StatusUnauthorized)
		} else {
			log.Printf("ERROR: Refresh token transaction failed: %v", txErr)
			http.Error(w, "Failed to refresh token", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(TokenResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
	})
}
