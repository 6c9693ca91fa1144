package handlers

import (
	"net/http"

	"github.com/fengwang001/plant-version-app/services"
)

// SubscriptionHandler serves plan status and credit balances.
type SubscriptionHandler struct {
	Subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Subscriptions: subscriptions}
}

func (h *SubscriptionHandler) Status(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}

	status, err := h.Subscriptions.Status(user.ID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
