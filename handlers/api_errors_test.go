package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/fengwang001/plant-version-app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: bad size", services.ErrValidation), 400, "validation_error"},
		{fmt.Errorf("%w: bad password", services.ErrUnauthorized), 401, "unauthorized"},
		{fmt.Errorf("%w: not yours", services.ErrForbidden), 403, "forbidden"},
		{fmt.Errorf("%w: gone", services.ErrNotFound), 404, "not_found"},
		{fmt.Errorf("%w: nothing recognized", services.ErrNoMatch), 422, "no_match"},
		{errors.New("database exploded"), 500, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.wantCode, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteServiceError(rec, tc.err)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body APIErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tc.wantCode, body.Errors[0].Code)

			if tc.wantStatus == 500 {
				// internal detail never leaks
				assert.NotContains(t, body.Errors[0].Detail, "exploded")
			}
		})
	}
}
