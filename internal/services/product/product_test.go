package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gitaprawira/pos-api/internal/cache"
	"github.com/gitaprawira/pos-api/internal/models"
)

// Мок для ProductRepository
type ProductRepoMock struct {
	mock.Mock
}

func (m *ProductRepoMock) CreateProduct(ctx context.Context, product models.Product) (int64, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepoMock) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepoMock) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *ProductRepoMock) UpdateProduct(ctx context.Context, id int64, product models.Product) (int64, error) {
	args := m.Called(ctx, id, product)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepoMock) FindLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func setupService(t *testing.T, repo *ProductRepoMock) (*ProductService, *cache.Cache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := &cache.Cache{
		Db: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	return New(repo, c, slog.New(slog.DiscardHandler)), c
}

func espresso() *models.Product {
	return &models.Product{
		ID:            1,
		SKU:           "COF-001",
		Name:          "Espresso Beans 1kg",
		Price:         17.50,
		StockQuantity: 40,
	}
}

func TestProductService_Create(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	input := models.Product{SKU: "COF-001", Name: "Espresso Beans 1kg", Price: 17.50, StockQuantity: 40}
	repo.On("CreateProduct", mock.Anything, input).Return(int64(1), nil).Once()

	product, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	repo.AssertExpectations(t)
}

func TestProductService_Create_SKUTaken(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	repo.On("CreateProduct", mock.Anything, mock.Anything).
		Return(int64(0), models.ErrSKUTaken).Once()

	_, err := svc.Create(context.Background(), models.Product{SKU: "COF-001"})
	assert.ErrorIs(t, err, models.ErrSKUTaken)
}

func TestProductService_GetByID_CachesResult(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	// База опрашивается один раз, второе чтение идет из кеша.
	repo.On("GetProductByID", mock.Anything, int64(1)).Return(espresso(), nil).Once()

	first, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestProductService_GetBySKU_CachesResult(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	repo.On("GetProductBySKU", mock.Anything, "COF-001").Return(espresso(), nil).Once()

	first, err := svc.GetBySKU(context.Background(), "COF-001")
	require.NoError(t, err)
	second, err := svc.GetBySKU(context.Background(), "COF-001")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	repo.AssertExpectations(t)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	repo.On("GetProductByID", mock.Anything, int64(404)).
		Return(nil, models.ErrProductNotFound).Once()

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestProductService_List(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	expected := []*models.Product{espresso()}
	repo.On("ListProducts", mock.Anything, 20, 0).Return(expected, nil).Once()

	products, err := svc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, products)
}

func TestProductService_Update_InvalidatesCache(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	repo.On("GetProductByID", mock.Anything, int64(1)).Return(espresso(), nil)

	// Прогреваем кеш.
	_, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	updated := models.Product{SKU: "COF-001", Name: "Espresso Beans 1kg", Price: 19.00, StockQuantity: 35}
	repo.On("UpdateProduct", mock.Anything, int64(1), updated).Return(int64(1), nil).Once()

	result, err := svc.Update(context.Background(), 1, updated)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ID)
	assert.Equal(t, 19.00, result.Price)

	// После инвалидации чтение снова идет в базу.
	_, err = svc.GetByID(context.Background(), 1)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetProductByID", 3)
}

func TestProductService_Update_NotFound(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	repo.On("GetProductByID", mock.Anything, int64(404)).
		Return(nil, models.ErrProductNotFound).Once()

	_, err := svc.Update(context.Background(), 404, models.Product{SKU: "COF-404"})
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestProductService_Update_SKUTaken(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	repo.On("GetProductByID", mock.Anything, int64(1)).Return(espresso(), nil).Once()
	repo.On("UpdateProduct", mock.Anything, int64(1), mock.Anything).
		Return(int64(0), models.ErrSKUTaken).Once()

	_, err := svc.Update(context.Background(), 1, models.Product{SKU: "COF-002"})
	assert.ErrorIs(t, err, models.ErrSKUTaken)
}

func TestProductService_Delete_InvalidatesCache(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, c := setupService(t, repo)

	repo.On("GetProductByID", mock.Anything, int64(1)).Return(espresso(), nil).Once()

	_, err := svc.GetByID(context.Background(), 1)
	require.NoError(t, err)

	repo.On("DeleteProduct", mock.Anything, int64(1)).Return(int64(1), nil).Once()
	repo.On("GetProductByID", mock.Anything, int64(1)).Return(espresso(), nil).Once()

	err = svc.Delete(context.Background(), 1)
	require.NoError(t, err)

	var cached models.Product
	found, err := c.Get("product:1", &cached)
	require.NoError(t, err)
	assert.False(t, found)
	repo.AssertExpectations(t)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	repo.On("GetProductByID", mock.Anything, int64(404)).
		Return(nil, models.ErrProductNotFound).Once()

	err := svc.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestProductService_FindLowStock(t *testing.T) {
	repo := new(ProductRepoMock)
	svc, _ := setupService(t, repo)

	low := espresso()
	low.StockQuantity = 2
	repo.On("FindLowStock", mock.Anything, 5).Return([]*models.Product{low}, nil).Once()

	products, err := svc.FindLowStock(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 2, products[0].StockQuantity)
}
