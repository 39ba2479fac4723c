package models

// Product представляет товар на складе точки продаж.
type Product struct {
	ID            int64   `json:"id"`             // Уникальный идентификатор товара
	SKU           string  `json:"sku"`            // Артикул товара (уникальный)
	Name          string  `json:"name"`           // Название товара
	Price         float64 `json:"price"`          // Цена за единицу
	StockQuantity int     `json:"stock_quantity"` // Количество на складе
}

// DummyProduct используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Product.
type DummyProduct struct {
	SKU           string  `json:"sku" validate:"required"`            // Артикул
	Name          string  `json:"name" validate:"required"`           // Название
	Price         float64 `json:"price" validate:"required,gt=0"`     // Цена (>0)
	StockQuantity *int    `json:"stock_quantity" validate:"required,gte=0"` // Количество (>=0)
}
