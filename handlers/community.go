package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fengwang001/plant-version-app/services"
	"github.com/go-chi/chi/v5"
)

// CommunityHandler serves the community post surfaces.
type CommunityHandler struct {
	Community *services.CommunityService
}

func NewCommunityHandler(community *services.CommunityService) *CommunityHandler {
	return &CommunityHandler{Community: community}
}

func (h *CommunityHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	var input services.PostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	post, err := h.Community.CreatePost(user.ID, input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *CommunityHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Community.GetPost(chi.URLParam(r, "post_id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *CommunityHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	skip, limit := paginationParams(r)
	posts, err := h.Community.ListPublic(skip, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
