// Package cache реализует кеш ответов по категориям каталога.
//
// Запись считается свежей, пока её возраст меньше окна свежести. Устаревшие
// записи не удаляются заранее, а перезаписываются при следующей загрузке.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/magabrotheeeer/movie-gateway/internal/models"
)

// DefaultFreshness окно свежести записи.
const DefaultFreshness = 5 * time.Minute

// Cache контракт кеша выдачи по категориям.
//
// Get возвращает запись только если она свежая. Put перезаписывает запись
// безусловно и фиксирует текущее время как время загрузки.
type Cache interface {
	Get(ctx context.Context, key string) (*models.Listing, bool)
	Put(ctx context.Context, key string, listing *models.Listing) error
}

// Key строит ключ кеша из категории и номера страницы.
func Key(category string, page int) string {
	return category + "-" + strconv.Itoa(page)
}
