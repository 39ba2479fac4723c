package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gitaprawira/pos-api/internal/migrations"
	"github.com/gitaprawira/pos-api/internal/models"
)

// setupTestDatabase поднимает контейнер PostgreSQL, применяет миграции
// и возвращает готовое хранилище.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db, migrationsPath))

	storage := &Storage{DB: db}
	cleanup := func() {
		_ = db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его ID
func (f *TestDataFactory) CreateUser(t *testing.T, username, email, role string) int64 {
	t.Helper()
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Username:              username,
		Email:                 email,
		PasswordHash:          "hashedpassword",
		Role:                  role,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	})
	require.NoError(t, err)
	return id
}

// CreateRefreshToken создает тестовый refresh-токен и возвращает его строку
func (f *TestDataFactory) CreateRefreshToken(t *testing.T, userID int64, expiryDate time.Time, revoked bool) string {
	t.Helper()
	tokenStr := uuid.NewString()
	_, err := f.storage.CreateRefreshToken(context.Background(), models.RefreshToken{
		Token:      tokenStr,
		UserID:     userID,
		ExpiryDate: expiryDate,
		Revoked:    false,
	})
	require.NoError(t, err)
	if revoked {
		_, err := f.storage.DB.Exec(`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1`, tokenStr)
		require.NoError(t, err)
	}
	return tokenStr
}

// CreateProduct создает тестовый товар и возвращает его ID
func (f *TestDataFactory) CreateProduct(t *testing.T, sku, name string, price float64, stock int) int64 {
	t.Helper()
	id, err := f.storage.CreateProduct(context.Background(), models.Product{
		SKU:           sku,
		Name:          name,
		Price:         price,
		StockQuantity: stock,
	})
	require.NoError(t, err)
	return id
}
