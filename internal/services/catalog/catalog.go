// Package catalog объединяет клиент TMDB и кеш выдачи по категориям.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/magabrotheeeer/movie-gateway/internal/cache"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/metrics"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
	"github.com/magabrotheeeer/movie-gateway/internal/tmdb"
)

// Upstream описывает операции клиента метаданных фильмов.
type Upstream interface {
	Search(ctx context.Context, query string) (*models.Listing, error)
	Movie(ctx context.Context, id string) (json.RawMessage, error)
	Videos(ctx context.Context, id string) (json.RawMessage, error)
	Recommendations(ctx context.Context, id string) (json.RawMessage, error)
	Category(ctx context.Context, category tmdb.Category, page int) (*models.Listing, error)
}

// Service отдаёт каталог, кешируя выдачу по категориям.
type Service struct {
	upstream Upstream
	cache    cache.Cache
	metrics  *metrics.Metrics
	log      *slog.Logger
	group    singleflight.Group
}

// New создаёт сервис каталога.
func New(upstream Upstream, c cache.Cache, m *metrics.Metrics, log *slog.Logger) *Service {
	return &Service{
		upstream: upstream,
		cache:    c,
		metrics:  m,
		log:      log,
	}
}

// Category возвращает страницу категории из кеша или из TMDB.
//
// Одновременные промахи по одному ключу объединяются в один запрос к TMDB,
// отмена запроса ведущего вызова не прерывает общую загрузку. Ошибки не кешируются.
func (s *Service) Category(ctx context.Context, rawCategory string, page int) (*models.Listing, error) {
	const op = "catalog.Category"

	category, err := tmdb.ParseCategory(rawCategory)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if page < 1 || page > tmdb.MaxPage {
		return nil, fmt.Errorf("%s: %w", op, tmdb.ErrInvalidPage)
	}

	key := cache.Key(string(category), page)
	if listing, ok := s.cache.Get(ctx, key); ok {
		s.metrics.CacheHit()
		return listing, nil
	}
	s.metrics.CacheMiss()

	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (any, error) {
		listing, err := s.upstream.Category(fetchCtx, category, page)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Put(fetchCtx, key, listing); err != nil {
			s.log.Warn("failed to store category page",
				slog.String("key", key), sl.Err(err))
		}
		return listing, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return v.(*models.Listing), nil
}

// Search ищет фильмы по тексту.
func (s *Service) Search(ctx context.Context, query string) (*models.Listing, error) {
	return s.upstream.Search(ctx, query)
}

// Movie возвращает детали фильма.
func (s *Service) Movie(ctx context.Context, id string) (json.RawMessage, error) {
	return s.upstream.Movie(ctx, id)
}

// Videos возвращает трейлеры и ролики фильма.
func (s *Service) Videos(ctx context.Context, id string) (json.RawMessage, error) {
	return s.upstream.Videos(ctx, id)
}

// Recommendations возвращает похожие фильмы.
func (s *Service) Recommendations(ctx context.Context, id string) (json.RawMessage, error) {
	return s.upstream.Recommendations(ctx, id)
}

// ParsePage разбирает номер страницы из строки запроса. Пустое значение означает первую страницу.
func ParsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 || page > tmdb.MaxPage {
		return 0, tmdb.ErrInvalidPage
	}
	return page, nil
}
