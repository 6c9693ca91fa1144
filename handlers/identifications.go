package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/fengwang001/plant-version-app/services"
	"github.com/go-chi/chi/v5"
)

// IdentificationHandler serves the identify-from-photo pipeline and the
// caller's identification history.
type IdentificationHandler struct {
	Identifications *services.IdentificationService
}

func NewIdentificationHandler(identifications *services.IdentificationService) *IdentificationHandler {
	return &IdentificationHandler{Identifications: identifications}
}

// Identify accepts a multipart form with an "image" part and optional
// latitude/longitude/location_name fields.
func (h *IdentificationHandler) Identify(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	if err := r.ParseMultipartForm(multipartMaxMemory); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "image part is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "failed to read image")
		return
	}

	req := services.IdentificationRequest{
		UserID:      user.ID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Image:       data,
	}
	if v := r.FormValue("latitude"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			req.Latitude = &lat
		}
	}
	if v := r.FormValue("longitude"); v != "" {
		if long, err := strconv.ParseFloat(v, 64); err == nil {
			req.Longitude = &long
		}
	}
	if v := r.FormValue("location_name"); v != "" {
		req.LocationName = &v
	}

	result, err := h.Identifications.Identify(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *IdentificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	skip, limit := paginationParams(r)
	identifications, err := h.Identifications.ListForUser(user.ID, skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, identifications)
}

func (h *IdentificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	ident, err := h.Identifications.GetForUser(user.ID, chi.URLParam(r, "identification_id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ident)
}

func (h *IdentificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	if err := h.Identifications.DeleteForUser(user.ID, chi.URLParam(r, "identification_id")); err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "identification deleted"})
}

type FeedbackPayload struct {
	Feedback string  `json:"feedback"`
	Notes    *string `json:"notes"`
}

func (h *IdentificationHandler) SetFeedback(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var payload FeedbackPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	ident, err := h.Identifications.SetFeedback(user.ID, chi.URLParam(r, "identification_id"), payload.Feedback, payload.Notes)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ident)
}
