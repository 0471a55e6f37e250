package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/movie-gateway/internal/cache"
	"github.com/magabrotheeeer/movie-gateway/internal/metrics"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
	"github.com/magabrotheeeer/movie-gateway/internal/services/catalog"
	"github.com/magabrotheeeer/movie-gateway/internal/tmdb"
)

type UpstreamMock struct {
	mock.Mock
}

func (m *UpstreamMock) Search(ctx context.Context, query string) (*models.Listing, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *UpstreamMock) raw(method string, ctx context.Context, id string) (json.RawMessage, error) {
	args := m.MethodCalled(method, ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *UpstreamMock) Movie(ctx context.Context, id string) (json.RawMessage, error) {
	return m.raw("Movie", ctx, id)
}

func (m *UpstreamMock) Videos(ctx context.Context, id string) (json.RawMessage, error) {
	return m.raw("Videos", ctx, id)
}

func (m *UpstreamMock) Recommendations(ctx context.Context, id string) (json.RawMessage, error) {
	return m.raw("Recommendations", ctx, id)
}

func (m *UpstreamMock) Category(ctx context.Context, category tmdb.Category, page int) (*models.Listing, error) {
	args := m.Called(ctx, category, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Listing), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func listing(id string) *models.Listing {
	return &models.Listing{
		Content:    []json.RawMessage{json.RawMessage(`{"id":` + id + `}`)},
		Page:       1,
		TotalPages: 10,
	}
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestService_CategoryCachesWithinFreshness(t *testing.T) {
	clk := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	up := new(UpstreamMock)
	up.On("Category", mock.Anything, tmdb.CategoryMovies, 1).Return(listing("1"), nil).Once()
	up.On("Category", mock.Anything, tmdb.CategoryMovies, 1).Return(listing("2"), nil).Once()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	svc := catalog.New(up, cache.NewMemory(5*time.Minute, cache.WithClock(clk.Now)), m, discardLogger())
	ctx := context.Background()

	first, err := svc.Category(ctx, "movies", 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(first.Content[0]))

	clk.Advance(4 * time.Minute)
	cached, err := svc.Category(ctx, "movies", 1)
	require.NoError(t, err)
	assert.Equal(t, first, cached)

	clk.Advance(2 * time.Minute)
	refreshed, err := svc.Category(ctx, "movies", 1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":2}`, string(refreshed.Content[0]))

	up.AssertNumberOfCalls(t, "Category", 2)
	expected := `
# HELP movie_gateway_category_cache_lookups_total Category cache lookups by result.
# TYPE movie_gateway_category_cache_lookups_total counter
movie_gateway_category_cache_lookups_total{result="hit"} 1
movie_gateway_category_cache_lookups_total{result="miss"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"movie_gateway_category_cache_lookups_total"))
}

func TestService_CategoryKeysArePerPage(t *testing.T) {
	up := new(UpstreamMock)
	up.On("Category", mock.Anything, tmdb.CategoryTV, 1).Return(listing("1"), nil).Once()
	up.On("Category", mock.Anything, tmdb.CategoryTV, 2).Return(listing("2"), nil).Once()
	svc := catalog.New(up, cache.NewMemory(time.Minute), nil, discardLogger())

	_, err := svc.Category(context.Background(), "tv", 1)
	require.NoError(t, err)
	_, err = svc.Category(context.Background(), "tv", 2)
	require.NoError(t, err)
	up.AssertExpectations(t)
}

func TestService_CategoryInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		category string
		page     int
		wantErr  error
	}{
		{"unknown category", "bogus", 1, tmdb.ErrInvalidCategory},
		{"zero page", "movies", 0, tmdb.ErrInvalidPage},
		{"page too large", "movies", 501, tmdb.ErrInvalidPage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := new(UpstreamMock)
			svc := catalog.New(up, cache.NewMemory(time.Minute), nil, discardLogger())

			_, err := svc.Category(context.Background(), tt.category, tt.page)
			require.ErrorIs(t, err, tt.wantErr)
			up.AssertNotCalled(t, "Category", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestService_CategoryErrorsAreNotCached(t *testing.T) {
	up := new(UpstreamMock)
	up.On("Category", mock.Anything, tmdb.CategoryAnime, 1).Return(nil, tmdb.ErrTimeout).Once()
	up.On("Category", mock.Anything, tmdb.CategoryAnime, 1).Return(listing("16"), nil).Once()
	c := cache.NewMemory(time.Minute)
	svc := catalog.New(up, c, nil, discardLogger())

	_, err := svc.Category(context.Background(), "anime", 1)
	require.ErrorIs(t, err, tmdb.ErrTimeout)
	assert.Equal(t, 0, c.Len())

	got, err := svc.Category(context.Background(), "anime", 1)
	require.NoError(t, err)
	assert.Len(t, got.Content, 1)
	up.AssertExpectations(t)
}

type blockingUpstream struct {
	UpstreamMock
	calls   atomic.Int32
	release chan struct{}
}

func (b *blockingUpstream) Category(_ context.Context, _ tmdb.Category, _ int) (*models.Listing, error) {
	b.calls.Add(1)
	<-b.release
	return listing("7"), nil
}

func TestService_CategoryCoalescesConcurrentMisses(t *testing.T) {
	up := &blockingUpstream{release: make(chan struct{})}
	svc := catalog.New(up, cache.NewMemory(time.Minute), nil, discardLogger())

	const callers = 10
	var wg sync.WaitGroup
	results := make([]*models.Listing, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l, err := svc.Category(context.Background(), "popular", 3)
			assert.NoError(t, err)
			results[i] = l
		}()
	}

	require.Eventually(t, func() bool { return up.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(up.release)
	wg.Wait()

	assert.Equal(t, int32(1), up.calls.Load())
	for _, l := range results {
		require.NotNil(t, l)
		assert.JSONEq(t, `{"id":7}`, string(l.Content[0]))
	}
}

func TestService_PassThrough(t *testing.T) {
	up := new(UpstreamMock)
	up.On("Search", mock.Anything, "matrix").Return(listing("603"), nil).Once()
	up.On("Movie", mock.Anything, "603").Return(json.RawMessage(`{"id":603}`), nil).Once()
	up.On("Videos", mock.Anything, "603").Return(json.RawMessage(`{"results":[]}`), nil).Once()
	up.On("Recommendations", mock.Anything, "603").Return(nil, errors.New("boom")).Once()
	svc := catalog.New(up, cache.NewMemory(time.Minute), nil, discardLogger())
	ctx := context.Background()

	l, err := svc.Search(ctx, "matrix")
	require.NoError(t, err)
	assert.Len(t, l.Content, 1)

	movie, err := svc.Movie(ctx, "603")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":603}`, string(movie))

	videos, err := svc.Videos(ctx, "603")
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[]}`, string(videos))

	_, err = svc.Recommendations(ctx, "603")
	assert.EqualError(t, err, "boom")
	up.AssertExpectations(t)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 1, false},
		{"1", 1, false},
		{"2", 2, false},
		{"500", 500, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"501", 0, true},
		{"abc", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := catalog.ParsePage(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, tmdb.ErrInvalidPage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
