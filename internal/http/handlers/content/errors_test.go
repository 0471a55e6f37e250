package content

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/movie-gateway/internal/tmdb"
)

func TestWriteError(t *testing.T) {
	statusErr := fmt.Errorf("tmdb.Category: %w", &tmdb.StatusError{StatusCode: 503, Body: []byte(`{"status_message":"internal"}`)})

	tests := []struct {
		name       string
		err        error
		passStatus bool
		wantCode   int
		wantBody   string
	}{
		{"invalid category", tmdb.ErrInvalidCategory, true, http.StatusBadRequest, `{"message":"Invalid category type"}`},
		{"invalid page", tmdb.ErrInvalidPage, true, http.StatusBadRequest, `{"message":"Invalid page number"}`},
		{"invalid id", tmdb.ErrInvalidID, false, http.StatusBadRequest, `{"message":"Invalid movie id"}`},
		{"timeout", fmt.Errorf("wrap: %w", tmdb.ErrTimeout), false, http.StatusGatewayTimeout, `{"message":"Gateway Timeout - TMDB too slow"}`},
		{"status passthrough", statusErr, true, http.StatusBadGateway, `{"message":"TMDB API Error","upstreamStatus":503}`},
		{"status without passthrough", statusErr, false, http.StatusInternalServerError, `{"message":"Internal Server Error"}`},
		{"unavailable", tmdb.ErrUnavailable, true, http.StatusInternalServerError, `{"message":"Internal Server Error"}`},
		{"missing credential", tmdb.ErrMissingCredential, true, http.StatusInternalServerError, `{"message":"Internal Server Error"}`},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(rec, req, log, tt.err, tt.passStatus)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.NotContains(t, rec.Body.String(), "status_message")
		})
	}
}
