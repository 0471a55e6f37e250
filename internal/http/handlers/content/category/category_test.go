package category

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/movie-gateway/internal/models"
	"github.com/magabrotheeeer/movie-gateway/internal/tmdb"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Category(ctx context.Context, category string, page int) (*models.Listing, error) {
	args := m.Called(ctx, category, page)
	l, _ := args.Get(0).(*models.Listing)
	return l, args.Error(1)
}

func newRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/category/{type}", New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc).ServeHTTP)
	return r
}

func TestCategoryHandler_ServeHTTP(t *testing.T) {
	listing := &models.Listing{
		Content:    []json.RawMessage{json.RawMessage(`{"id":16}`)},
		Page:       2,
		TotalPages: 40,
	}

	tests := []struct {
		name       string
		path       string
		setupMock  func(m *ServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "default page",
			path: "/api/category/anime",
			setupMock: func(m *ServiceMock) {
				m.On("Category", mock.Anything, "anime", 1).Return(listing, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"content":[{"id":16}],"page":2,"totalPages":40}`,
		},
		{
			name: "explicit page",
			path: "/api/category/tv?page=2",
			setupMock: func(m *ServiceMock) {
				m.On("Category", mock.Anything, "tv", 2).Return(listing, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"content":[{"id":16}],"page":2,"totalPages":40}`,
		},
		{
			name:       "bogus category",
			path:       "/api/category/bogus",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid category type"}`,
		},
		{
			name:       "bogus category with bad page",
			path:       "/api/category/bogus?page=x",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid category type"}`,
		},
		{
			name:       "non numeric page",
			path:       "/api/category/movies?page=abc",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid page number"}`,
		},
		{
			name:       "page out of range",
			path:       "/api/category/movies?page=501",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid page number"}`,
		},
		{
			name: "timeout",
			path: "/api/category/popular",
			setupMock: func(m *ServiceMock) {
				m.On("Category", mock.Anything, "popular", 1).Return(nil, tmdb.ErrTimeout).Once()
			},
			wantStatus: http.StatusGatewayTimeout,
			wantBody:   `{"message":"Gateway Timeout - TMDB too slow"}`,
		},
		{
			name: "upstream status",
			path: "/api/category/upcoming",
			setupMock: func(m *ServiceMock) {
				m.On("Category", mock.Anything, "upcoming", 1).
					Return(nil, &tmdb.StatusError{StatusCode: 401, Body: []byte(`{"status_message":"Invalid API key"}`)}).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"message":"TMDB API Error","upstreamStatus":401}`,
		},
		{
			name: "unreachable",
			path: "/api/category/top_rated",
			setupMock: func(m *ServiceMock) {
				m.On("Category", mock.Anything, "top_rated", 1).Return(nil, tmdb.ErrUnavailable).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal Server Error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.setupMock != nil {
				tt.setupMock(svc)
			}

			rec := httptest.NewRecorder()
			newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			if tt.setupMock == nil {
				svc.AssertNotCalled(t, "Category", mock.Anything, mock.Anything, mock.Anything)
			} else {
				svc.AssertExpectations(t)
			}
		})
	}
}

func TestCategoryHandler_LogsSupportedCategories(t *testing.T) {
	var logs strings.Builder
	svc := new(ServiceMock)
	r := chi.NewRouter()
	r.Get("/api/category/{type}", New(slog.New(slog.NewTextHandler(&logs, nil)), svc).ServeHTTP)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/category/cartoons", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, logs.String(), "op=handlers.content.category")
	assert.Contains(t, logs.String(), "category=cartoons")
	for _, c := range tmdb.Categories() {
		assert.Contains(t, logs.String(), string(c))
	}
	svc.AssertNotCalled(t, "Category", mock.Anything, mock.Anything, mock.Anything)
}
