package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sufragio/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantDesc   bool
	}{
		{
			name:       "validation error carries description",
			err:        dErrors.New(dErrors.CodeValidation, "region does not exist"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
			wantDesc:   true,
		},
		{
			name:       "conflict",
			err:        dErrors.New(dErrors.CodeConflict, "already voted for this office"),
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
			wantDesc:   true,
		},
		{
			name:       "timeout maps to service unavailable",
			err:        dErrors.New(dErrors.CodeTimeout, "identity registry did not respond in time"),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "timeout",
			wantDesc:   true,
		},
		{
			name:       "internal error hides description",
			err:        dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to record vote"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantDesc:   false,
		},
		{
			name:       "plain error defaults to internal",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantDesc:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["error"])
			_, hasDesc := body["error_description"]
			assert.Equal(t, tt.wantDesc, hasDesc)
		})
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		CandidateID int64 `json:"candidate_id"`
	}

	t.Run("valid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(`{"candidate_id": 7}`))
		got, ok := Decode[payload](rr, req)
		require.True(t, ok)
		assert.Equal(t, int64(7), got.CandidateID)
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(`{"candidate": 7}`))
		_, ok := Decode[payload](rr, req)
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/votes", strings.NewReader(`{`))
		_, ok := Decode[payload](rr, req)
		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
