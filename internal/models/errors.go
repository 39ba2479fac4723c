package models

import "errors"

// Ошибки бизнес-уровня. Репозитории и сервисы возвращают их обёрнутыми
// через fmt.Errorf("%s: %w", op, err), обработчики различают их через
// errors.Is и выбирают HTTP-статус.
var (
	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrEmailTaken — электронная почта уже используется.
	ErrEmailTaken = errors.New("email is already in use")
	// ErrBadCredentials — неверное имя пользователя или пароль.
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")

	// ErrRefreshTokenNotFound — refresh-токен не найден в хранилище.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrRefreshTokenExpired — срок действия refresh-токена истёк.
	ErrRefreshTokenExpired = errors.New("refresh token was expired")
	// ErrRefreshTokenRevoked — refresh-токен был отозван.
	ErrRefreshTokenRevoked = errors.New("refresh token was revoked")

	// ErrProductNotFound — товар не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrSKUTaken — товар с таким артикулом уже существует.
	ErrSKUTaken = errors.New("product sku is already taken")
)
