package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gitaprawira/pos-api/internal/models"
)

// CreateProduct сохраняет новый товар и возвращает его ID.
// Конфликт уникальности по артикулу транслируется в models.ErrSKUTaken.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (int64, error) {
	const op = "repository.CreateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO products (sku, name, price, stock_quantity)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		product.SKU, product.Name, product.Price, product.StockQuantity).Scan(&newID); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "products_sku_key" {
			return 0, fmt.Errorf("%s: %w", op, models.ErrSKUTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProductByID возвращает товар по его ID.
func (s *Storage) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	const op = "repository.GetProductByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sku, name, price, stock_quantity
			  FROM products
			  WHERE id = $1`
	p := &models.Product{}
	row := s.DB.QueryRowContext(ctx, query, id)

	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.StockQuantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetProductBySKU возвращает товар по его артикулу.
func (s *Storage) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	const op = "repository.GetProductBySKU"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sku, name, price, stock_quantity
			  FROM products
			  WHERE sku = $1`
	p := &models.Product{}
	row := s.DB.QueryRowContext(ctx, query, sku)

	if err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.StockQuantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrProductNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProducts возвращает список товаров с пагинацией.
func (s *Storage) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	const op = "repository.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sku, name, price, stock_quantity
			  FROM products
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.StockQuantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct обновляет товар по ID и возвращает количество обновлённых строк.
func (s *Storage) UpdateProduct(ctx context.Context, id int64, product models.Product) (int64, error) {
	const op = "repository.UpdateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET sku = $1, name = $2, price = $3, stock_quantity = $4
			  WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query,
		product.SKU, product.Name, product.Price, product.StockQuantity, id)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "products_sku_key" {
			return 0, fmt.Errorf("%s: %w", op, models.ErrSKUTaken)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// DeleteProduct удаляет товар по ID и возвращает количество удалённых строк.
func (s *Storage) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	const op = "repository.DeleteProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// FindLowStock возвращает товары, остаток которых не превышает threshold.
func (s *Storage) FindLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	const op = "repository.FindLowStock"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, sku, name, price, stock_quantity
			  FROM products
			  WHERE stock_quantity <= $1
			  ORDER BY stock_quantity`
	rows, err := s.DB.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var p models.Product
		if err = rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.StockQuantity); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
