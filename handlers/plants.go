package handlers

import (
	"net/http"
	"strconv"

	"github.com/fengwang001/plant-version-app/services"
	"github.com/go-chi/chi/v5"
)

// PlantHandler serves the encyclopedia read surfaces.
type PlantHandler struct {
	Plants *services.PlantService
}

func NewPlantHandler(plants *services.PlantService) *PlantHandler {
	return &PlantHandler{Plants: plants}
}

func (h *PlantHandler) Get(w http.ResponseWriter, r *http.Request) {
	plant, err := h.Plants.GetDetail(chi.URLParam(r, "plant_id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plant)
}

func (h *PlantHandler) Search(w http.ResponseWriter, r *http.Request) {
	skip, limit := paginationParams(r)
	plants, err := h.Plants.Search(r.URL.Query().Get("q"), skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

func (h *PlantHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	plants, err := h.Plants.Featured(limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plants)
}

func (h *PlantHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rankings, err := h.Plants.Popular(limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	type popularEntry struct {
		ID                  string  `json:"id"`
		ScientificName      string  `json:"scientific_name"`
		CommonName          string  `json:"common_name"`
		PrimaryImageURL     *string `json:"primary_image_url,omitempty"`
		ViewCount           int     `json:"view_count"`
		IdentificationCount int     `json:"identification_count"`
	}
	entries := make([]popularEntry, 0, len(rankings))
	for _, ranking := range rankings {
		entry := popularEntry{
			ID:                  ranking.ID,
			ScientificName:      ranking.ScientificName,
			CommonName:          ranking.CommonName,
			ViewCount:           ranking.ViewCount,
			IdentificationCount: ranking.IdentificationCount,
		}
		if ranking.PrimaryImageURL.Valid {
			entry.PrimaryImageURL = &ranking.PrimaryImageURL.String
		}
		entries = append(entries, entry)
	}
	writeJSON(w, http.StatusOK, entries)
}
