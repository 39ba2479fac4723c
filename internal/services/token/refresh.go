// Package services содержит бизнес-логику жизненного цикла refresh-токенов:
// выдачу, проверку, отзыв и очистку.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gitaprawira/pos-api/internal/lib/sl"
	"github.com/gitaprawira/pos-api/internal/models"
)

// TokenRepository описывает контракт для работы с refresh-токенами в базе данных.
type TokenRepository interface {
	// CreateRefreshToken сохраняет новый токен и возвращает его ID.
	CreateRefreshToken(ctx context.Context, token models.RefreshToken) (int64, error)
	// GetRefreshToken возвращает токен по его строке или ErrRefreshTokenNotFound.
	GetRefreshToken(ctx context.Context, tokenStr string) (*models.RefreshToken, error)
	// DeleteRefreshToken удаляет токен по его строке.
	DeleteRefreshToken(ctx context.Context, tokenStr string) error
	// RevokeAllUserTokens помечает все токены пользователя отозванными.
	RevokeAllUserTokens(ctx context.Context, userID int64) (int64, error)
	// DeleteAllUserTokens удаляет все токены пользователя.
	DeleteAllUserTokens(ctx context.Context, userID int64) (int64, error)
	// DeleteExpiredAndRevoked удаляет истёкшие и отозванные токены.
	DeleteExpiredAndRevoked(ctx context.Context, now time.Time) (int64, error)
}

// RefreshTokenService управляет жизненным циклом refresh-токенов.
// Токен проходит состояния ACTIVE -> EXPIRED | REVOKED | DELETED,
// терминальные состояния окончательны.
type RefreshTokenService struct {
	repo       TokenRepository
	refreshTTL time.Duration
	log        *slog.Logger
	nowFunc    func() time.Time // переопределяется в тестах для контроля времени
}

// NewRefreshTokenService создает новый экземпляр RefreshTokenService.
func NewRefreshTokenService(repo TokenRepository, refreshTTL time.Duration, log *slog.Logger) *RefreshTokenService {
	return &RefreshTokenService{
		repo:       repo,
		refreshTTL: refreshTTL,
		log:        log,
		nowFunc:    time.Now,
	}
}

// Create генерирует криптографически случайную непрозрачную строку и
// сохраняет токен со сроком действия now + refreshTTL. Каждый вызов
// создаёт отдельную строку: пользователь может держать несколько сессий.
func (s *RefreshTokenService) Create(ctx context.Context, userID int64) (*models.RefreshToken, error) {
	const op = "token.Create"

	token := models.RefreshToken{
		Token:      uuid.NewString(),
		UserID:     userID,
		ExpiryDate: s.nowFunc().Add(s.refreshTTL),
		Revoked:    false,
	}
	id, err := s.repo.CreateRefreshToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token.ID = id

	s.log.Debug("refresh token created", slog.Int64("user_id", userID))
	return &token, nil
}

// FindByToken возвращает токен по его строке.
func (s *RefreshTokenService) FindByToken(ctx context.Context, tokenStr string) (*models.RefreshToken, error) {
	const op = "token.FindByToken"
	token, err := s.repo.GetRefreshToken(ctx, tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// VerifyValid проверяет, что токен активен. Истёкший токен удаляется из
// хранилища как побочный эффект и возвращается ErrRefreshTokenExpired;
// отозванный токен остаётся в хранилище и возвращается
// ErrRefreshTokenRevoked.
func (s *RefreshTokenService) VerifyValid(ctx context.Context, token *models.RefreshToken) error {
	const op = "token.VerifyValid"

	if token.IsExpired(s.nowFunc()) {
		if err := s.repo.DeleteRefreshToken(ctx, token.Token); err != nil {
			s.log.Error("failed to delete expired refresh token", sl.Err(err))
		}
		return fmt.Errorf("%s: %w", op, models.ErrRefreshTokenExpired)
	}
	if token.Revoked {
		return fmt.Errorf("%s: %w", op, models.ErrRefreshTokenRevoked)
	}
	return nil
}

// RevokeAll помечает все токены пользователя отозванными. Используется
// для принудительного завершения всех сессий.
func (s *RefreshTokenService) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	const op = "token.RevokeAll"
	affected, err := s.repo.RevokeAllUserTokens(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("revoked all refresh tokens", slog.Int64("user_id", userID), slog.Int64("count", affected))
	return affected, nil
}

// DeleteAll удаляет все токены пользователя. Вызывается при выходе из системы.
func (s *RefreshTokenService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	const op = "token.DeleteAll"
	affected, err := s.repo.DeleteAllUserTokens(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("deleted all refresh tokens", slog.Int64("user_id", userID), slog.Int64("count", affected))
	return affected, nil
}

// CleanupExpired удаляет истёкшие и отозванные токены и возвращает
// количество удалённых строк. Предназначен для периодического вызова
// планировщиком.
func (s *RefreshTokenService) CleanupExpired(ctx context.Context) (int64, error) {
	const op = "token.CleanupExpired"
	affected, err := s.repo.DeleteExpiredAndRevoked(ctx, s.nowFunc())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}
