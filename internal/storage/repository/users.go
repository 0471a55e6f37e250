package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/movie-gateway/internal/models"
)

const uniqueViolation = "23505"

const selectUser = `SELECT uid, username, email, password_hash, created_at FROM users`

// CreateUser сохраняет нового пользователя и возвращает его с присвоенным ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (uid, username, email, password_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		user.UUID, user.Username, user.Email, user.PasswordHash).Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по почте.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "storage.GetUserByEmail", selectUser+` WHERE email = $1`, email)
}

// GetUserByUsername возвращает пользователя по имени.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "storage.GetUserByUsername", selectUser+` WHERE username = $1`, username)
}

// GetUserByLogin возвращает пользователя, у которого имя или почта совпадают с identifier.
// Совпадение по имени имеет приоритет.
func (s *Storage) GetUserByLogin(ctx context.Context, identifier string) (*models.User, error) {
	return s.getUser(ctx, "storage.GetUserByLogin",
		selectUser+` WHERE username = $1 OR email = $1 ORDER BY (username = $1) DESC LIMIT 1`, identifier)
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	return s.getUser(ctx, "storage.GetUser", selectUser+` WHERE uid = $1`, userUID)
}

func (s *Storage) getUser(ctx context.Context, op, query string, arg string) (*models.User, error) {
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&u.UUID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
