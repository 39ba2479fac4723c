// Package services содержит бизнес-логику регистрации, аутентификации
// и обновления сессий пользователей.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gitaprawira/pos-api/internal/lib/jwt"
	"github.com/gitaprawira/pos-api/internal/lib/password"
	"github.com/gitaprawira/pos-api/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByUsername возвращает пользователя или ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByID возвращает пользователя или ErrUserNotFound.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// ExistsByUsername проверяет занятость имени пользователя.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// ExistsByEmail проверяет занятость адреса электронной почты.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenManager описывает операции с refresh-токенами,
// нужные сценариям аутентификации.
type RefreshTokenManager interface {
	Create(ctx context.Context, userID int64) (*models.RefreshToken, error)
	FindByToken(ctx context.Context, tokenStr string) (*models.RefreshToken, error)
	VerifyValid(ctx context.Context, token *models.RefreshToken) error
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}

// AuthService реализует сценарии регистрации, входа, обновления
// access-токена и выхода из системы.
type AuthService struct {
	users  UserRepository
	tokens RefreshTokenManager
	maker  jwt.Maker
	log    *slog.Logger
}

// New создает новый экземпляр AuthService.
func New(users UserRepository, tokens RefreshTokenManager, maker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		maker:  maker,
		log:    log,
	}
}

// Register создает нового пользователя и сразу выдает ему пару токенов.
// Пустая роль трактуется как staff, неизвестная роль отклоняется.
// Занятые имя или почта возвращают ErrUsernameTaken и ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, username, email, pass, role string) (*models.AuthResult, error) {
	const op = "auth.Register"

	if role == "" {
		role = models.RoleStaff
	}
	if !models.ValidRole(role) {
		return nil, fmt.Errorf("%s: unknown role %q", op, role)
	}

	taken, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUsernameTaken)
	}

	taken, err = s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, models.ErrEmailTaken)
	}

	hash, err := password.GetHash(pass)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:              username,
		Email:                 email,
		PasswordHash:          hash,
		Role:                  role,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		// Гонка между проверкой и вставкой разрешается ограничением
		// уникальности, репозиторий возвращает те же ошибки.
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.ID = id

	s.log.Info("user registered", slog.String("username", username), slog.String("role", role))
	return s.issueTokens(ctx, &user, op)
}

// Login проверяет учетные данные и выдает пару токенов. Несуществующий
// пользователь, неверный пароль и заблокированная учетная запись
// неразличимы для клиента: во всех случаях возвращается ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, username, pass string) (*models.AuthResult, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrBadCredentials)
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrBadCredentials)
	}
	if err := password.CompareHash(pass, user.PasswordHash); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrBadCredentials)
	}

	s.log.Info("user logged in", slog.String("username", username))
	return s.issueTokens(ctx, user, op)
}

// GetCurrentUser возвращает профиль пользователя по имени из access-токена.
func (s *AuthService) GetCurrentUser(ctx context.Context, username string) (*models.UserResult, error) {
	const op = "auth.GetCurrentUser"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.UserResult{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}

// Refresh обменивает действующий refresh-токен на новый access-токен.
// Строка refresh-токена не ротируется и возвращается клиенту без изменений.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	const op = "auth.Refresh"

	token, err := s.tokens.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.tokens.VerifyValid(ctx, token); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUserByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	accessToken, err := s.maker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Debug("access token refreshed", slog.String("username", user.Username))
	return &models.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: token.Token,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}

// Logout удаляет все refresh-токены пользователя, завершая все его сессии.
func (s *AuthService) Logout(ctx context.Context, username string) error {
	const op = "auth.Logout"

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.tokens.DeleteAll(ctx, user.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged out", slog.String("username", username))
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User, op string) (*models.AuthResult, error) {
	accessToken, err := s.maker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refreshToken, err := s.tokens.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}
