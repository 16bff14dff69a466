package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"archiwum-zwojow/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestAPI_FavoriteLifecycle(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Zwoj Ulubiony", testUserClaims.UserID, "")

	router := chi.NewRouter()
	router.Post("/api/v1/scrolls/{scrollId}/favorite", testServer.AddFavoriteHandler)
	router.Delete("/api/v1/scrolls/{scrollId}/favorite", testServer.RemoveFavoriteHandler)

	url := fmt.Sprintf("/api/v1/scrolls/%d/favorite", scroll.ID)
	req := httptest.NewRequest("POST", url, nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	// Drugi raz: konflikt.
	req = httptest.NewRequest("POST", url, nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusConflict, rr.Code)

	req = httptest.NewRequest("GET", "/api/v1/favorites", nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	rr = httptest.NewRecorder()
	http.HandlerFunc(testServer.ListFavoritesHandler).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var favorites []models.Scroll
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &favorites))
	found := false
	for _, f := range favorites {
		if f.ID == scroll.ID {
			found = true
			break
		}
	}
	require.True(t, found, "Expected the scroll among favorites")

	req = httptest.NewRequest("DELETE", url, nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	// Skasowane: 404.
	req = httptest.NewRequest("DELETE", url, nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_MeHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/v1/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	rr := httptest.NewRecorder()
	http.HandlerFunc(testServer.MeHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		User    models.User     `json:"user"`
		Scrolls []models.Scroll `json:"scrolls"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, testUserClaims.UserID, resp.User.ID)
	require.NotNil(t, resp.Scrolls)
}
