package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"archiwum-zwojow/internal/database"
	"archiwum-zwojow/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// Funkcja pomocnicza do tworzenia zwojów w testach API.
func createTestScrollAPI(t *testing.T, name string, ownerID int64, password string) *models.Scroll {
	scroll, err := testServer.store.CreateScroll(context.Background(), database.CreateScrollParams{
		OwnerID:  ownerID,
		Name:     name,
		Content:  []byte("zawartość zwoju"),
		FileName: "zwoj.txt",
		MimeType: "text/plain",
		Password: password,
	})
	require.NoError(t, err)
	return scroll
}

func multipartScrollBody(t *testing.T, name, fileName, content string) (*bytes.Buffer, string) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("name", name))
	if fileName != "" {
		part, err := writer.CreateFormFile("contentFile", fileName)
		require.NoError(t, err)
		part.Write([]byte(content))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestAPI_CreateScroll_Success(t *testing.T) {
	body, contentType := multipartScrollBody(t, "API Zwoj Sukces", "sukces.txt", "to jest zawartość zwoju")
	req := httptest.NewRequest("POST", "/api/v1/scrolls", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	http.HandlerFunc(testServer.CreateScrollHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var created models.Scroll
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, "API Zwoj Sukces", created.Name)
	require.Equal(t, testUserClaims.UserID, created.OwnerID)
	require.Equal(t, int64(0), created.Downloads)
}

func TestAPI_CreateScroll_EmptyName(t *testing.T) {
	body, contentType := multipartScrollBody(t, "   ", "plik.txt", "treść")
	req := httptest.NewRequest("POST", "/api/v1/scrolls", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	http.HandlerFunc(testServer.CreateScrollHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Name is empty")
}

func TestAPI_CreateScroll_MissingFile(t *testing.T) {
	body, contentType := multipartScrollBody(t, "API Zwoj Bez Pliku", "", "")
	req := httptest.NewRequest("POST", "/api/v1/scrolls", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	http.HandlerFunc(testServer.CreateScrollHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "File is empty")
}

func TestAPI_CreateScroll_NameConflict(t *testing.T) {
	createTestScrollAPI(t, "API Zwoj Konfliktowy", testUserClaims.UserID, "")

	body, contentType := multipartScrollBody(t, "api zwoj konfliktowy", "plik.txt", "treść")
	req := httptest.NewRequest("POST", "/api/v1/scrolls", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	http.HandlerFunc(testServer.CreateScrollHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Contains(t, rr.Body.String(), "Name already exists")
}

func TestAPI_ListScrolls(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Zwoj Na Liste", testUserClaims.UserID, "")

	req := httptest.NewRequest("GET", "/api/v1/scrolls", nil)
	rr := httptest.NewRecorder()

	http.HandlerFunc(testServer.ListScrollsHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var scrolls []models.Scroll
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &scrolls))

	found := false
	for _, s := range scrolls {
		if s.ID == scroll.ID {
			found = true
			break
		}
	}
	require.True(t, found, "Expected the created scroll in the listing")
}

func TestAPI_UpdateScroll_Rename(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Stara Nazwa", testUserClaims.UserID, "")

	body, contentType := multipartScrollBody(t, "API Nowa Nazwa", "", "")
	url := fmt.Sprintf("/api/v1/scrolls/%d", scroll.ID)
	req := httptest.NewRequest("PATCH", url, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()

	router := chi.NewRouter()
	router.With(testServer.AuthMiddleware).Patch("/api/v1/scrolls/{scrollId}", testServer.UpdateScrollHandler)
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	updated, err := testServer.store.GetScrollByID(context.Background(), scroll.ID)
	require.NoError(t, err)
	require.Equal(t, "API Nowa Nazwa", updated.Name)

	// Brak nowego pliku zostawia starą treść.
	withContent, err := testServer.store.GetScrollWithContent(context.Background(), scroll.ID)
	require.NoError(t, err)
	require.Equal(t, []byte("zawartość zwoju"), withContent.Content)
}

func TestAPI_UpdateScroll_NotOwner(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Cudzy Zwoj", testAdminClaims.UserID, "")

	body, contentType := multipartScrollBody(t, "API Przejeta Nazwa", "", "")
	url := fmt.Sprintf("/api/v1/scrolls/%d", scroll.ID)
	req := httptest.NewRequest("PATCH", url, body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()

	router := chi.NewRouter()
	router.Patch("/api/v1/scrolls/{scrollId}", testServer.UpdateScrollHandler)
	req = req.WithContext(context.WithValue(req.Context(), userContextKey, testUserClaims))
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusForbidden, rr.Code)

	unchanged, err := testServer.store.GetScrollByID(context.Background(), scroll.ID)
	require.NoError(t, err)
	require.Equal(t, "API Cudzy Zwoj", unchanged.Name)
}

func TestAPI_DeleteScroll(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Zwoj Do Usuniecia", testUserClaims.UserID, "")

	url := fmt.Sprintf("/api/v1/scrolls/%d", scroll.ID)
	req := httptest.NewRequest("DELETE", url, nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	rr := httptest.NewRecorder()

	router := chi.NewRouter()
	router.With(testServer.AuthMiddleware).Delete("/api/v1/scrolls/{scrollId}", testServer.DeleteScrollHandler)
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)

	gone, err := testServer.store.GetScrollByID(context.Background(), scroll.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	// Powtórne usunięcie to nadal 204.
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("DELETE", url, nil)
	req.Header.Set("Authorization", "Bearer "+testUserToken)
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAPI_DownloadScroll(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Zwoj Do Pobrania", testUserClaims.UserID, "")

	url := fmt.Sprintf("/api/v1/scrolls/%d/download", scroll.ID)
	req := httptest.NewRequest("GET", url, nil)
	rr := httptest.NewRecorder()

	router := chi.NewRouter()
	router.Get("/api/v1/scrolls/{scrollId}/download", testServer.DownloadScrollHandler)
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "zawartość zwoju", rr.Body.String())
	require.Contains(t, rr.Header().Get("Content-Disposition"), "attachment; filename=\"zwoj.txt\"")
	require.Equal(t, "text/plain", rr.Header().Get("Content-Type"))

	current, err := testServer.store.GetScrollByID(context.Background(), scroll.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), current.Downloads)
}

func TestAPI_DownloadScroll_PasswordGate(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Zwoj Chroniony", testUserClaims.UserID, "sezamie")

	router := chi.NewRouter()
	router.Get("/api/v1/scrolls/{scrollId}/download", testServer.DownloadScrollHandler)

	// Złe hasło.
	url := fmt.Sprintf("/api/v1/scrolls/%d/download?password=abrakadabra", scroll.ID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", url, nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "Wrong password")

	current, err := testServer.store.GetScrollByID(context.Background(), scroll.ID)
	require.NoError(t, err)
	require.Equal(t, int64(0), current.Downloads)

	// Dobre hasło.
	url = fmt.Sprintf("/api/v1/scrolls/%d/download?password=sezamie", scroll.ID)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", url, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	// Nieistniejący zwój.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/scrolls/999999/download", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAPI_SearchScrolls(t *testing.T) {
	scroll := createTestScrollAPI(t, "API Zwoj Wyszukiwany", testUserClaims.UserID, "")

	router := chi.NewRouter()
	router.Get("/api/v1/scrolls/search", testServer.SearchScrollsHandler)

	// scrollId ma pierwszeństwo przed nazwą.
	url := fmt.Sprintf("/api/v1/scrolls/search?scrollId=%d&name=niepasujaca", scroll.ID)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", url, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var results []models.Scroll
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 1)
	require.Equal(t, scroll.ID, results[0].ID)

	// Bez filtrów: pusta lista.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/scrolls/search", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, "[]", rr.Body.String())

	// Zepsuta data.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/scrolls/search?startDate=wczoraj", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
