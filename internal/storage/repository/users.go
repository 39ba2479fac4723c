package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gitaprawira/pos-api/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его ID.
//
// Конфликт уникальности по username или email транслируется в
// models.ErrUsernameTaken / models.ErrEmailTaken: уникальные ограничения
// базы — последняя линия защиты от гонки двух одновременных регистраций.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "repository.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (username, email, password_hash, role, enabled,
			      account_non_expired, account_non_locked, credentials_non_expired)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.Enabled,
		user.AccountNonExpired, user.AccountNonLocked, user.CredentialsNonExpired).Scan(&newID); err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case "users_username_key":
				return 0, fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
			case "users_email_key":
				return 0, fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
			}
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "repository.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, email, password_hash, role, enabled,
			      account_non_expired, account_non_locked, credentials_non_expired, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Enabled, &u.AccountNonExpired, &u.AccountNonLocked,
		&u.CredentialsNonExpired, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "repository.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, email, password_hash, role, enabled,
			      account_non_expired, account_non_locked, credentials_non_expired, created_at
			  FROM users
			  WHERE id = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, id)

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Enabled, &u.AccountNonExpired, &u.AccountNonLocked,
		&u.CredentialsNonExpired, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ExistsByUsername сообщает, занято ли имя пользователя.
func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const op = "repository.ExistsByUsername"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsByEmail сообщает, используется ли электронная почта.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "repository.ExistsByEmail"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
