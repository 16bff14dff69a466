package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"archiwum-zwojow/internal/services"

	"github.com/go-chi/chi/v5"
)

// Format dat w wyszukiwarce, zgodny z formularzem klienta.
const searchTimeLayout = "2006-01-02T15:04"

// @Summary      List all scrolls
// @Description  Returns metadata of every scroll in the archive. The listing is public.
// @Tags         scrolls
// @Produce      json
// @Success      200  {array}   models.Scroll
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /scrolls [get]
func (s *Server) ListScrollsHandler(w http.ResponseWriter, r *http.Request) {
	scrolls, err := s.scrolls.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to list scrolls", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scrolls)
}

// @Summary      Upload a new scroll
// @Description  Creates a scroll from a multipart form (fields: name, contentFile, password?). The authenticated user becomes the owner.
// @Tags         scrolls
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name         formData  string  true   "Unique scroll name"
// @Param        contentFile  formData  file    true   "Scroll content"
// @Param        password     formData  string  false  "Optional download password"
// @Success      201  {object}  models.Scroll
// @Failure      400  {string}  string "Validation error"
// @Failure      401  {string}  string "Unauthorized"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /scrolls [post]
func (s *Server) CreateScrollHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<30)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	owner, err := s.users.FindByID(r.Context(), claims.UserID)
	if err != nil || owner == nil {
		http.Error(w, "Failed to resolve current user", http.StatusUnauthorized)
		return
	}

	var content []byte
	var fileName, mimeType string

	file, handler, err := r.FormFile("contentFile")
	if err == nil {
		defer file.Close()
		content, err = io.ReadAll(file)
		if err != nil {
			http.Error(w, "Error reading the file", http.StatusBadRequest)
			return
		}
		fileName = handler.Filename
		mimeType = handler.Header.Get("Content-Type")
	} else if !errors.Is(err, http.ErrMissingFile) {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}

	scroll, err := s.scrolls.Create(r.Context(), services.CreateScrollParams{
		Owner:    owner,
		Name:     r.FormValue("name"),
		Content:  content,
		FileName: fileName,
		MimeType: mimeType,
		Password: r.FormValue("password"),
	})
	if err != nil {
		if services.IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("ERROR: failed to create scroll: %v", err)
		http.Error(w, "Failed to create scroll", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(scroll)
}

// @Summary      Get scroll metadata
// @Tags         scrolls
// @Produce      json
// @Security     BearerAuth
// @Param        scrollId  path      int  true  "Scroll ID"
// @Success      200  {object}  models.Scroll
// @Failure      404  {string}  string "Scroll not found"
// @Router       /scrolls/{scrollId} [get]
func (s *Server) GetScrollHandler(w http.ResponseWriter, r *http.Request) {
	scrollID, err := parseScrollID(r)
	if err != nil {
		http.Error(w, "Invalid scroll ID", http.StatusBadRequest)
		return
	}

	scroll, err := s.scrolls.Get(r.Context(), scrollID)
	if err != nil {
		if errors.Is(err, services.ErrScrollNotFound) {
			http.Error(w, "Scroll not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to retrieve scroll", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scroll)
}

// @Summary      Edit a scroll
// @Description  Updates name, content and/or download password (multipart form: name, contentFile?, password?). Owner only; a missing contentFile keeps the stored content.
// @Tags         scrolls
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        scrollId     path      int     true   "Scroll ID"
// @Param        name         formData  string  true   "Scroll name"
// @Param        contentFile  formData  file    false  "Replacement content"
// @Param        password     formData  string  false  "New download password; empty clears it"
// @Success      200  {object}  models.Scroll
// @Failure      400  {string}  string "Validation error"
// @Failure      403  {string}  string "Not the owner"
// @Failure      404  {string}  string "Scroll not found"
// @Router       /scrolls/{scrollId} [patch]
func (s *Server) UpdateScrollHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	scrollID, err := parseScrollID(r)
	if err != nil {
		http.Error(w, "Invalid scroll ID", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<30)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Error parsing multipart form", http.StatusBadRequest)
		return
	}

	params := services.EditScrollParams{
		ScrollID:     scrollID,
		ActingUserID: claims.UserID,
		Name:         r.FormValue("name"),
	}

	file, handler, err := r.FormFile("contentFile")
	if err == nil {
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			http.Error(w, "Error reading the file", http.StatusBadRequest)
			return
		}
		params.Content = content
		params.FileName = handler.Filename
		params.MimeType = handler.Header.Get("Content-Type")
	} else if !errors.Is(err, http.ErrMissingFile) {
		http.Error(w, "Error retrieving the file", http.StatusBadRequest)
		return
	}

	if _, ok := r.MultipartForm.Value["password"]; ok {
		password := r.FormValue("password")
		params.Password = &password
	}

	scroll, err := s.scrolls.Edit(r.Context(), params)
	if err != nil {
		switch {
		case services.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrScrollNotFound):
			http.Error(w, "Scroll not found", http.StatusNotFound)
		case errors.Is(err, services.ErrNotOwner):
			http.Error(w, "Only the owner may edit this scroll", http.StatusForbidden)
		default:
			log.Printf("ERROR: failed to edit scroll %d: %v", scrollID, err)
			http.Error(w, "Failed to edit scroll", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scroll)
}

// @Summary      Delete a scroll
// @Description  Permanently removes a scroll. A missing or non-owned scroll is a silent no-op.
// @Tags         scrolls
// @Security     BearerAuth
// @Param        scrollId  path  int  true  "Scroll ID"
// @Success      204  {null}    nil "No Content"
// @Failure      400  {string}  string "Invalid scroll ID"
// @Router       /scrolls/{scrollId} [delete]
func (s *Server) DeleteScrollHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	scrollID, err := parseScrollID(r)
	if err != nil {
		http.Error(w, "Invalid scroll ID", http.StatusBadRequest)
		return
	}

	if err := s.scrolls.Delete(r.Context(), scrollID, claims.UserID); err != nil {
		log.Printf("ERROR: failed to delete scroll %d: %v", scrollID, err)
		http.Error(w, "Failed to delete scroll", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Download scroll content
// @Description  Streams the scroll content. A password-protected scroll requires the matching `password` query parameter. Each successful download increments the counter by one.
// @Tags         scrolls
// @Produce      application/octet-stream
// @Param        scrollId  path   int     true   "Scroll ID"
// @Param        password  query  string  false  "Download password"
// @Success      200  {file}    binary
// @Failure      401  {string}  string "Wrong password"
// @Failure      404  {string}  string "Scroll not found"
// @Router       /scrolls/{scrollId}/download [get]
func (s *Server) DownloadScrollHandler(w http.ResponseWriter, r *http.Request) {
	scrollID, err := parseScrollID(r)
	if err != nil {
		http.Error(w, "Invalid scroll ID", http.StatusBadRequest)
		return
	}

	scroll, err := s.scrolls.Download(r.Context(), scrollID, r.URL.Query().Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrScrollNotFound):
			http.Error(w, "Scroll not found", http.StatusNotFound)
		case errors.Is(err, services.ErrWrongPassword):
			http.Error(w, "Wrong password", http.StatusUnauthorized)
		default:
			log.Printf("ERROR: failed to download scroll %d: %v", scrollID, err)
			http.Error(w, "Failed to download scroll", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+scroll.FileName+"\"")
	if scroll.MimeType != "" {
		w.Header().Set("Content-Type", scroll.MimeType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(scroll.Content)))

	w.Write(scroll.Content)
}

// @Summary      Search scrolls
// @Description  Filters take precedence instead of combining: scrollId wins over everything, then uploaderId, then name substring, then the creation date range (both bounds required). No filters mean an empty result.
// @Tags         scrolls
// @Produce      json
// @Param        uploaderId  query  int     false  "Owner user ID"
// @Param        scrollId    query  int     false  "Exact scroll ID"
// @Param        name        query  string  false  "Name substring (case-insensitive)"
// @Param        startDate   query  string  false  "Creation range start (2006-01-02T15:04)"
// @Param        endDate     query  string  false  "Creation range end (2006-01-02T15:04)"
// @Success      200  {array}   models.Scroll
// @Failure      400  {string}  string "Malformed filter"
// @Router       /scrolls/search [get]
func (s *Server) SearchScrollsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	params := services.SearchScrollsParams{Name: query.Get("name")}

	if v := query.Get("uploaderId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid uploaderId, must be a number", http.StatusBadRequest)
			return
		}
		params.OwnerID = &id
	}

	if v := query.Get("scrollId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "Invalid scrollId, must be a number", http.StatusBadRequest)
			return
		}
		params.ScrollID = &id
	}

	if v := query.Get("startDate"); v != "" {
		start, err := time.ParseInLocation(searchTimeLayout, v, time.Local)
		if err != nil {
			http.Error(w, "Invalid startDate, expected format 2006-01-02T15:04", http.StatusBadRequest)
			return
		}
		params.Start = &start
	}

	if v := query.Get("endDate"); v != "" {
		end, err := time.ParseInLocation(searchTimeLayout, v, time.Local)
		if err != nil {
			http.Error(w, "Invalid endDate, expected format 2006-01-02T15:04", http.StatusBadRequest)
			return
		}
		params.End = &end
	}

	scrolls, err := s.scrolls.Search(r.Context(), params)
	if err != nil {
		http.Error(w, "Failed to search scrolls", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(scrolls)
}

func parseScrollID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "scrollId"), 10, 64)
}
