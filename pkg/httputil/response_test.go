package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		data := map[string]string{"foo": "bar"}

		WriteJSON(rec, http.StatusOK, data)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var result map[string]string
		err := json.Unmarshal(rec.Body.Bytes(), &result)
		require.NoError(t, err)
		assert.Equal(t, "bar", result["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteProblem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		write      func(w http.ResponseWriter)
		wantStatus int
		wantType   string
		wantDetail string
	}{
		{
			name: "explicit problem",
			write: func(w http.ResponseWriter) {
				WriteProblem(w, Problem{Type: "not_acceptable", Title: "Not Acceptable", Status: http.StatusNotAcceptable})
			},
			wantStatus: http.StatusNotAcceptable,
			wantType:   "not_acceptable",
		},
		{
			name: "zero status defaults to 500",
			write: func(w http.ResponseWriter) {
				WriteProblem(w, Problem{Type: "boom", Title: "Boom"})
			},
			wantStatus: http.StatusInternalServerError,
			wantType:   "boom",
		},
		{
			name:       "not found",
			write:      func(w http.ResponseWriter) { WriteNotFound(w, "route_not_found", "no route for /x") },
			wantStatus: http.StatusNotFound,
			wantType:   "route_not_found",
			wantDetail: "no route for /x",
		},
		{
			name:       "method not allowed",
			write:      func(w http.ResponseWriter) { WriteMethodNotAllowed(w, "method_not_allowed", "DELETE /todos") },
			wantStatus: http.StatusMethodNotAllowed,
			wantType:   "method_not_allowed",
			wantDetail: "DELETE /todos",
		},
		{
			name:       "internal error",
			write:      func(w http.ResponseWriter) { WriteInternalError(w, "internal", "generator failed") },
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal",
			wantDetail: "generator failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, ProblemContentType, rec.Header().Get("Content-Type"))

			var p Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
			assert.Equal(t, tt.wantType, p.Type)
			assert.Equal(t, tt.wantStatus, p.Status)
			assert.Equal(t, tt.wantDetail, p.Detail)
			assert.NotEmpty(t, p.Title)
		})
	}
}
