// Package jwt реализует выпуск и проверку подписанных токенов сессии.
//
// Maker выпускает HS256-токен с идентификатором пользователя и сроком жизни,
// ParseToken проверяет подпись, формат и срок действия.
package jwt

import (
	"errors"
	"time"
)

// DefaultTTL срок жизни токена сессии.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken возвращается для токенов с неверной подписью,
// повреждённым содержимым или истёкшим сроком.
var ErrInvalidToken = errors.New("invalid token")

// ErrEmptySecret возвращается конструктором при пустом ключе подписи.
var ErrEmptySecret = errors.New("jwt secret is empty")

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	GenerateToken(userID string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte           // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration    // Время жизни токена.
	now       func() time.Time // Источник времени.
}

// Option настраивает MakerImpl.
type Option func(*MakerImpl)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *MakerImpl) {
		m.now = now
	}
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
// Нулевой TTL заменяется на DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration, opts ...Option) (*MakerImpl, error) {
	if secretKey == "" {
		return nil, ErrEmptySecret
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	m := &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL возвращает срок жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
