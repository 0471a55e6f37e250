// Package services содержит логику бизнес-уровня для регистрации, входа
// и определения текущего пользователя по токену сессии.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/movie-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/password"
	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/models"
	"github.com/magabrotheeeer/movie-gateway/internal/storage/repository"
)

var (
	// ErrEmailTaken почта уже зарегистрирована.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials пользователь с таким логином не найден.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidPassword пароль не совпадает с сохранённым хэшем.
	ErrInvalidPassword = errors.New("invalid password")
	// ErrUserNotFound токен валиден, но пользователь удалён.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken токен отсутствует, повреждён или истёк.
	ErrInvalidToken = jwt.ErrInvalidToken
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя по почте.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByLogin ищет пользователя по имени или почте.
	GetUserByLogin(ctx context.Context, identifier string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Publisher получает события о новых пользователях.
type Publisher interface {
	PublishUserRegistered(ctx context.Context, event models.UserRegistered) error
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users     UserRepository
	jwtMaker  jwt.Maker
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

// Option настраивает AuthService.
type Option func(*AuthService)

// WithPublisher включает публикацию событий о регистрации.
func WithPublisher(p Publisher) Option {
	return func(s *AuthService) {
		s.publisher = p
	}
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger, opts ...Option) *AuthService {
	s := &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup регистрирует пользователя и выпускает для него токен сессии.
//
// Сначала проверяется почта, затем имя. Пароль хэшируется только после
// прохождения обеих проверок.
func (s *AuthService) Signup(ctx context.Context, username, email, rawPassword string) (*models.User, string, error) {
	const op = "services.AuthService.Signup"

	if err := s.ensureFree(ctx, op, s.users.GetUserByEmail, email, ErrEmailTaken); err != nil {
		return nil, "", err
	}
	if err := s.ensureFree(ctx, op, s.users.GetUserByUsername, username, ErrUsernameTaken); err != nil {
		return nil, "", err
	}

	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		UUID:         uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.publishRegistered(ctx, user)
	return user, token, nil
}

func (s *AuthService) ensureFree(ctx context.Context, op string,
	lookup func(context.Context, string) (*models.User, error), key string, taken error) error {
	_, err := lookup(ctx, key)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", op, taken)
	case errors.Is(err, repository.ErrUserNotFound):
		return nil
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func (s *AuthService) publishRegistered(ctx context.Context, user *models.User) {
	if s.publisher == nil {
		return
	}
	event := models.UserRegistered{
		UserID:       user.UUID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishUserRegistered(ctx, event); err != nil {
		s.log.Warn("failed to publish user registered event",
			slog.String("user_id", user.UUID), sl.Err(err))
	}
}

// Login проверяет пароль пользователя и генерирует JWT.
// Логином может быть имя пользователя или почта.
func (s *AuthService) Login(ctx context.Context, identifier, rawPassword string) (*models.User, string, error) {
	const op = "services.AuthService.Login"

	user, err := s.users.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if !password.Verify(rawPassword, user.PasswordHash) {
		return nil, "", fmt.Errorf("%s: %w", op, ErrInvalidPassword)
	}
	token, err := s.jwtMaker.GenerateToken(user.UUID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// CurrentUser проверяет JWT и возвращает пользователя, которому он выдан.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	const op = "services.AuthService.CurrentUser"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
