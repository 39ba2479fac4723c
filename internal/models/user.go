// Package models содержит доменные модели системы точки продаж:
// пользователей, refresh-токены и товары, а также общие ошибки
// бизнес-уровня. Структуры используются в бизнес‑логике и при
// работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID                    int64     // Уникальный идентификатор пользователя
	Username              string    // Имя пользователя (уникальное)
	Email                 string    // Электронная почта (уникальная)
	PasswordHash          string    // Хэш пароля пользователя
	Role                  string    // Роль пользователя: admin, manager или staff
	Enabled               bool      // Учётная запись активна
	AccountNonExpired     bool      // Срок действия учётной записи не истёк
	AccountNonLocked      bool      // Учётная запись не заблокирована
	CredentialsNonExpired bool      // Срок действия пароля не истёк
	CreatedAt             time.Time // Дата создания учётной записи
}

// IsActive сообщает, может ли пользователь проходить аутентификацию.
// Все четыре статусных флага должны быть выставлены.
func (u *User) IsActive() bool {
	return u.Enabled && u.AccountNonExpired && u.AccountNonLocked && u.CredentialsNonExpired
}

// ValidRole проверяет, что строка является одной из известных ролей.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// AuthResult возвращается сервисом аутентификации после регистрации,
// входа или обновления токена.
type AuthResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

// UserResult — безопасная проекция пользователя без хэша пароля.
type UserResult struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
