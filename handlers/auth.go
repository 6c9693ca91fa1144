package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fengwang001/plant-version-app/auth"
	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/services"
)

// AuthHandler serves registration, the four login methods, and token refresh.
type AuthHandler struct {
	Users  *services.UserService
	Tokens *auth.TokenManager
}

func NewAuthHandler(users *services.UserService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

// LoginResponse is returned by every login method and by refresh.
type LoginResponse struct {
	auth.TokenPair
	User *models.User `json:"user"`
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, status int, user *models.User) {
	pair, err := h.Tokens.IssuePair(user.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "failed to issue tokens")
		return
	}
	writeJSON(w, status, LoginResponse{TokenPair: *pair, User: user})
}

type RegisterPayload struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	user, err := h.Users.RegisterWithEmail(payload.Email, payload.Password, payload.FullName)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	h.respondWithTokens(w, http.StatusCreated, user)
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	user, err := h.Users.AuthenticateEmail(payload.Email, payload.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	h.respondWithTokens(w, http.StatusOK, user)
}

type AppleLoginPayload struct {
	IdentityToken string  `json:"identity_token"`
	Email         *string `json:"email"`
	FullName      *string `json:"full_name"`
}

func (h *AuthHandler) LoginApple(w http.ResponseWriter, r *http.Request) {
	var payload AppleLoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	user, err := h.Users.AuthenticateApple(payload.IdentityToken, payload.Email, payload.FullName)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	h.respondWithTokens(w, http.StatusOK, user)
}

type GoogleLoginPayload struct {
	IDToken string `json:"id_token"`
}

func (h *AuthHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	var payload GoogleLoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	user, err := h.Users.AuthenticateGoogle(payload.IDToken)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	h.respondWithTokens(w, http.StatusOK, user)
}

type GuestLoginPayload struct {
	DeviceID   string `json:"device_id"`
	DeviceType string `json:"device_type"`
}

func (h *AuthHandler) LoginGuest(w http.ResponseWriter, r *http.Request) {
	var payload GuestLoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	user, err := h.Users.AuthenticateGuest(payload.DeviceID, payload.DeviceType)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	h.respondWithTokens(w, http.StatusOK, user)
}

type RefreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a fresh pair. Access tokens are
// rejected; only tokens carrying the refresh type claim are accepted.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var payload RefreshPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, "validation_error", "invalid request payload")
		return
	}

	claims, err := h.Tokens.Verify(payload.RefreshToken)
	if err != nil || !claims.IsRefresh() {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token")
		return
	}

	user, err := h.Users.GetActive(claims.Subject)
	if err != nil {
		// the subject was deleted or deactivated after the token was issued
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "invalid refresh token")
		return
	}
	h.respondWithTokens(w, http.StatusOK, user)
}

// Logout is client-side token disposal; there is no server-side revocation list.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}
