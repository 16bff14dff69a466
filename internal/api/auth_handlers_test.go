package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"archiwum-zwojow/internal/models"

	"github.com/stretchr/testify/require"
)

func TestAPI_AuthFlow(t *testing.T) {
	// Rejestracja.
	registerBody, _ := json.Marshal(RegisterRequest{
		Username: "auth flow user",
		Password: "password1234",
		Email:    "authflow@example.com",
	})
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RegisterHandler).ServeHTTP(rr,
		httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(registerBody)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, "auth flow user", created.Username)
	// Hash hasła nie wycieka w JSON.
	require.NotContains(t, rr.Body.String(), "password_hash")

	// Logowanie.
	loginBody, _ := json.Marshal(LoginRequest{Username: "auth flow user", Password: "password1234"})
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginHandler).ServeHTTP(rr,
		httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(loginBody)))
	require.Equal(t, http.StatusOK, rr.Code)

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	// Rotacja refresh tokena.
	refreshBody, _ := json.Marshal(RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.RefreshTokenHandler).ServeHTTP(rr,
		httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewReader(refreshBody)))
	require.Equal(t, http.StatusOK, rr.Code)

	var rotated TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rotated))
	require.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	// Stary refresh token jest już spalony.
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.RefreshTokenHandler).ServeHTTP(rr,
		httptest.NewRequest("POST", "/api/v1/auth/refresh", bytes.NewReader(refreshBody)))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	// Wylogowanie nowym tokenem.
	logoutBody, _ := json.Marshal(LogoutRequest{RefreshToken: rotated.RefreshToken})
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.LogoutHandler).ServeHTTP(rr,
		httptest.NewRequest("POST", "/api/v1/auth/logout", bytes.NewReader(logoutBody)))
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAPI_Login_WrongPassword(t *testing.T) {
	loginBody, _ := json.Marshal(LoginRequest{Username: "api test user", Password: "zle haslo"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.LoginHandler).ServeHTTP(rr,
		httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(loginBody)))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAPI_Register_Validation(t *testing.T) {
	registerBody, _ := json.Marshal(RegisterRequest{Username: "krotki", Password: "abc"})
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.RegisterHandler).ServeHTTP(rr,
		httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(registerBody)))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Password")
}
