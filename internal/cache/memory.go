package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/magabrotheeeer/movie-gateway/internal/models"
)

// DefaultMaxEntries ёмкость кеша, если она не задана.
const DefaultMaxEntries = 1024

type memoryEntry struct {
	listing   *models.Listing
	fetchedAt time.Time
}

// Memory потокобезопасный кеш в памяти процесса.
//
// Ёмкость ограничена: при переполнении вытесняется давно не использованная
// запись. Свежесть считается по часам кеша, а не по времени вытеснения.
type Memory struct {
	entries    *lru.Cache[string, memoryEntry]
	freshness  time.Duration
	maxEntries int
	now        func() time.Time
}

// Option настраивает Memory.
type Option func(*Memory)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.now = now
	}
}

// WithMaxEntries ограничивает число записей. Ноль или отрицательное значение
// означает DefaultMaxEntries.
func WithMaxEntries(n int) Option {
	return func(m *Memory) {
		m.maxEntries = n
	}
}

// NewMemory создаёт кеш с окном свежести freshness.
func NewMemory(freshness time.Duration, opts ...Option) *Memory {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	m := &Memory{
		freshness: freshness,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.maxEntries <= 0 {
		m.maxEntries = DefaultMaxEntries
	}
	// lru.New возвращает ошибку только для неположительного размера.
	m.entries, _ = lru.New[string, memoryEntry](m.maxEntries)
	return m
}

// Get возвращает свежую запись по ключу.
func (m *Memory) Get(_ context.Context, key string) (*models.Listing, bool) {
	e, ok := m.entries.Get(key)
	if !ok || m.now().Sub(e.fetchedAt) >= m.freshness {
		return nil, false
	}
	return e.listing, true
}

// Put сохраняет запись, перезаписывая прежнюю.
func (m *Memory) Put(_ context.Context, key string, listing *models.Listing) error {
	m.entries.Add(key, memoryEntry{listing: listing, fetchedAt: m.now()})
	return nil
}

// Len возвращает число записей, включая устаревшие.
func (m *Memory) Len() int {
	return m.entries.Len()
}
