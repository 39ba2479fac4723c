package models

import "time"

// RefreshToken представляет непрозрачный токен обновления, выданный
// пользователю при входе или регистрации. Токен хранится в базе и
// действует до истечения срока или отзыва. У одного пользователя может
// быть несколько активных токенов (несколько устройств).
type RefreshToken struct {
	ID         int64     // Уникальный идентификатор записи
	Token      string    // Случайная непрозрачная строка (уникальная)
	UserID     int64     // Владелец токена
	ExpiryDate time.Time // Момент истечения срока действия
	Revoked    bool      // Признак принудительного отзыва
}

// IsExpired сообщает, истёк ли срок действия токена на момент now.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiryDate)
}
