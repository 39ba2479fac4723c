// Package services содержит бизнес-логику каталога товаров: CRUD-операции
// со сквозным чтением через кеш и поиск позиций с низким остатком.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gitaprawira/pos-api/internal/lib/sl"
	"github.com/gitaprawira/pos-api/internal/models"
)

const cacheTTL = 5 * time.Minute

// ProductRepository описывает контракт для работы с товарами в базе данных.
type ProductRepository interface {
	CreateProduct(ctx context.Context, product models.Product) (int64, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*models.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, product models.Product) (int64, error)
	DeleteProduct(ctx context.Context, id int64) (int64, error)
	FindLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
}

// ProductCache описывает операции кеширования карточек товаров.
type ProductCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ProductService реализует операции каталога товаров.
type ProductService struct {
	repo  ProductRepository
	cache ProductCache
	log   *slog.Logger
}

// New создает новый экземпляр ProductService.
func New(repo ProductRepository, cache ProductCache, log *slog.Logger) *ProductService {
	return &ProductService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func idKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func skuKey(sku string) string {
	return fmt.Sprintf("product:sku:%s", sku)
}

// Create сохраняет новый товар. Конфликт по артикулу возвращает ErrSKUTaken.
func (s *ProductService) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	const op = "product.Create"

	id, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	product.ID = id

	s.log.Info("product created", slog.Int64("id", id), slog.String("sku", product.SKU))
	return &product, nil
}

// GetByID возвращает товар по ID, сначала заглядывая в кеш.
// Ошибки кеша не фатальны, запрос уходит в базу.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	const op = "product.GetByID"

	var cached models.Product
	found, err := s.cache.Get(idKey(id), &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(idKey(id), product, cacheTTL); err != nil {
		s.log.Warn("cache set failed", sl.Err(err))
	}
	return product, nil
}

// GetBySKU возвращает товар по артикулу, сначала заглядывая в кеш.
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	const op = "product.GetBySKU"

	var cached models.Product
	found, err := s.cache.Get(skuKey(sku), &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(skuKey(sku), product, cacheTTL); err != nil {
		s.log.Warn("cache set failed", sl.Err(err))
	}
	return product, nil
}

// List возвращает страницу каталога. Списки не кешируются.
func (s *ProductService) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	const op = "product.List"

	products, err := s.repo.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// Update обновляет товар по ID и инвалидирует его записи в кеше.
// Несуществующий товар возвращает ErrProductNotFound.
func (s *ProductService) Update(ctx context.Context, id int64, product models.Product) (*models.Product, error) {
	const op = "product.Update"

	// Старый артикул нужен для инвалидации, если он изменился.
	old, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	affected, err := s.repo.UpdateProduct(ctx, id, product)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
	}

	s.invalidate(id, old.SKU)
	if product.SKU != old.SKU {
		s.invalidate(id, product.SKU)
	}

	product.ID = id
	s.log.Info("product updated", slog.Int64("id", id), slog.String("sku", product.SKU))
	return &product, nil
}

// Delete удаляет товар по ID и инвалидирует его записи в кеше.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	const op = "product.Delete"

	old, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
	}

	s.invalidate(id, old.SKU)
	s.log.Info("product deleted", slog.Int64("id", id))
	return nil
}

// FindLowStock возвращает товары с остатком не выше threshold.
func (s *ProductService) FindLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	const op = "product.FindLowStock"

	products, err := s.repo.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *ProductService) invalidate(id int64, sku string) {
	if err := s.cache.Invalidate(idKey(id)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
	if err := s.cache.Invalidate(skuKey(sku)); err != nil {
		s.log.Warn("cache invalidate failed", sl.Err(err))
	}
}
