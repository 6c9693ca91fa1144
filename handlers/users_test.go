package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileMergesUserWithStats(t *testing.T) {
	_, users, user := newAuthFixture(t)
	handler := NewUserHandler(users)

	req := httptest.NewRequest("GET", "/api/v1/users/me/profile", nil)
	ctx := context.WithValue(req.Context(), UserContextKey, user)
	rec := httptest.NewRecorder()
	handler.Profile(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "id")
	require.Contains(t, body, "stats")

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(body["stats"], &stats))
	assert.Contains(t, stats, "identification_count")
	assert.Contains(t, stats, "is_premium")
}

func TestProfileRequiresContextUser(t *testing.T) {
	_, users, _ := newAuthFixture(t)
	handler := NewUserHandler(users)

	req := httptest.NewRequest("GET", "/api/v1/users/me/profile", nil)
	rec := httptest.NewRecorder()
	handler.Profile(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
