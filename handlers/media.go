package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/fengwang001/plant-version-app/services"
	"github.com/go-chi/chi/v5"
)

// multipart memory threshold; larger bodies spill to temp files
const multipartMaxMemory = 32 << 20

// MediaHandler serves the media file surfaces: presigned and direct uploads,
// listing, and deletion.
type MediaHandler struct {
	Media *services.MediaService
}

func NewMediaHandler(media *services.MediaService) *MediaHandler {
	return &MediaHandler{Media: media}
}

type PresignPayload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	FilePurpose string `json:"file_purpose"`
	FileSize    int64  `json:"file_size"`
}

func (h *MediaHandler) Presign(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var payload PresignPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	result, err := h.Media.Presign(r.Context(), user.ID, payload.Filename, payload.ContentType, payload.FilePurpose, payload.FileSize)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *MediaHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var meta services.UploadMeta
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	file, err := h.Media.ConfirmUpload(user.ID, chi.URLParam(r, "file_id"), meta)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

// Upload accepts a multipart form with a "file" part and a "file_purpose"
// field and stores the bytes through the application server.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "file part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	purpose := r.FormValue("file_purpose")

	saved, err := h.Media.UploadDirect(r.Context(), user.ID, header.Filename, contentType, purpose, data)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	skip, limit := paginationParams(r)
	files, err := h.Media.List(user.ID, r.URL.Query().Get("file_purpose"), skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}

func (h *MediaHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	file, err := h.Media.Get(user.ID, chi.URLParam(r, "file_id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	if err := h.Media.Delete(r.Context(), user.ID, chi.URLParam(r, "file_id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "media file deleted"})
}

// paginationParams parses skip/limit query parameters with service-side
// defaults for anything missing or malformed.
func paginationParams(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return skip, limit
}
