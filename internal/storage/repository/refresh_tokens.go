package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gitaprawira/pos-api/internal/models"
)

// CreateRefreshToken сохраняет новый refresh-токен и возвращает его ID.
// Дедупликации нет: каждый вход создаёт отдельную строку, что позволяет
// пользователю держать несколько активных сессий.
func (s *Storage) CreateRefreshToken(ctx context.Context, token models.RefreshToken) (int64, error) {
	const op = "repository.CreateRefreshToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO refresh_tokens (token, user_id, expiry_date, revoked)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		token.Token, token.UserID, token.ExpiryDate, token.Revoked).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetRefreshToken возвращает refresh-токен по его строке.
func (s *Storage) GetRefreshToken(ctx context.Context, tokenStr string) (*models.RefreshToken, error) {
	const op = "repository.GetRefreshToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, token, user_id, expiry_date, revoked
			  FROM refresh_tokens
			  WHERE token = $1`
	t := &models.RefreshToken{}
	row := s.DB.QueryRowContext(ctx, query, tokenStr)

	if err := row.Scan(&t.ID, &t.Token, &t.UserID, &t.ExpiryDate, &t.Revoked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrRefreshTokenNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DeleteRefreshToken удаляет refresh-токен по его строке.
func (s *Storage) DeleteRefreshToken(ctx context.Context, tokenStr string) error {
	const op = "repository.DeleteRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token = $1`, tokenStr); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RevokeAllUserTokens помечает все токены пользователя отозванными и
// возвращает количество затронутых строк.
func (s *Storage) RevokeAllUserTokens(ctx context.Context, userID int64) (int64, error) {
	const op = "repository.RevokeAllUserTokens"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// DeleteAllUserTokens удаляет все токены пользователя и возвращает
// количество удалённых строк. Вызывается при выходе из системы.
func (s *Storage) DeleteAllUserTokens(ctx context.Context, userID int64) (int64, error) {
	const op = "repository.DeleteAllUserTokens"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// DeleteExpiredAndRevoked удаляет все токены, срок действия которых истёк
// к моменту now либо которые были отозваны. Вызывается планировщиком.
func (s *Storage) DeleteExpiredAndRevoked(ctx context.Context, now time.Time) (int64, error) {
	const op = "repository.DeleteExpiredAndRevoked"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expiry_date < $1 OR revoked = TRUE`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
