package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitaprawira/pos-api/internal/models"
)

func TestStorage_RefreshTokenLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "cashier", "cashier@example.com", models.RoleStaff)

	expiry := time.Now().Add(time.Hour).UTC()
	tokenStr := factory.CreateRefreshToken(t, userID, expiry, false)

	token, err := storage.GetRefreshToken(context.Background(), tokenStr)
	require.NoError(t, err)
	assert.Equal(t, userID, token.UserID)
	assert.False(t, token.Revoked)
	assert.WithinDuration(t, expiry, token.ExpiryDate, time.Second)

	require.NoError(t, storage.DeleteRefreshToken(context.Background(), tokenStr))

	_, err = storage.GetRefreshToken(context.Background(), tokenStr)
	assert.ErrorIs(t, err, models.ErrRefreshTokenNotFound)
}

func TestStorage_RevokeAllUserTokens(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "cashier", "cashier@example.com", models.RoleStaff)
	otherID := factory.CreateUser(t, "other", "other@example.com", models.RoleStaff)

	expiry := time.Now().Add(time.Hour)
	first := factory.CreateRefreshToken(t, userID, expiry, false)
	second := factory.CreateRefreshToken(t, userID, expiry, false)
	foreign := factory.CreateRefreshToken(t, otherID, expiry, false)

	affected, err := storage.RevokeAllUserTokens(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	for _, tokenStr := range []string{first, second} {
		token, err := storage.GetRefreshToken(context.Background(), tokenStr)
		require.NoError(t, err)
		assert.True(t, token.Revoked)
	}

	// Чужие токены не затронуты
	token, err := storage.GetRefreshToken(context.Background(), foreign)
	require.NoError(t, err)
	assert.False(t, token.Revoked)
}

func TestStorage_DeleteAllUserTokens(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "cashier", "cashier@example.com", models.RoleStaff)

	expiry := time.Now().Add(time.Hour)
	factory.CreateRefreshToken(t, userID, expiry, false)
	factory.CreateRefreshToken(t, userID, expiry, false)

	affected, err := storage.DeleteAllUserTokens(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	affected, err = storage.DeleteAllUserTokens(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestStorage_DeleteExpiredAndRevoked(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "cashier", "cashier@example.com", models.RoleStaff)

	now := time.Now()
	expired := factory.CreateRefreshToken(t, userID, now.Add(-time.Hour), false)
	revoked := factory.CreateRefreshToken(t, userID, now.Add(time.Hour), true)
	active := factory.CreateRefreshToken(t, userID, now.Add(time.Hour), false)

	affected, err := storage.DeleteExpiredAndRevoked(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	_, err = storage.GetRefreshToken(context.Background(), expired)
	assert.ErrorIs(t, err, models.ErrRefreshTokenNotFound)
	_, err = storage.GetRefreshToken(context.Background(), revoked)
	assert.ErrorIs(t, err, models.ErrRefreshTokenNotFound)

	_, err = storage.GetRefreshToken(context.Background(), active)
	assert.NoError(t, err)
}

func TestStorage_DeleteUserCascadesTokens(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "cashier", "cashier@example.com", models.RoleStaff)
	tokenStr := factory.CreateRefreshToken(t, userID, time.Now().Add(time.Hour), false)

	_, err := storage.DB.Exec(`DELETE FROM users WHERE id = $1`, userID)
	require.NoError(t, err)

	_, err = storage.GetRefreshToken(context.Background(), tokenStr)
	assert.ErrorIs(t, err, models.ErrRefreshTokenNotFound)
}
