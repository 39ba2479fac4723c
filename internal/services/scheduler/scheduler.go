// Package services содержит фоновый планировщик: периодическую очистку
// refresh-токенов и рассылку уведомлений о низких остатках товаров.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gitaprawira/pos-api/internal/lib/rabbitmq"
	"github.com/gitaprawira/pos-api/internal/lib/sl"
	"github.com/gitaprawira/pos-api/internal/models"
)

// TokenCleaner удаляет истёкшие и отозванные refresh-токены.
type TokenCleaner interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// LowStockFinder возвращает товары с остатком не выше порога.
type LowStockFinder interface {
	FindLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
}

// Publisher публикует сообщения в брокер.
type Publisher interface {
	Publish(exchange, routingKey string, message any) error
}

// LowStockAlert — сообщение о товаре с низким остатком.
type LowStockAlert struct {
	ProductID     int64     `json:"product_id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	StockQuantity int       `json:"stock_quantity"`
	Threshold     int       `json:"threshold"`
	DetectedAt    time.Time `json:"detected_at"`
}

// SchedulerService запускает периодические фоновые задачи.
type SchedulerService struct {
	tokens    TokenCleaner
	products  LowStockFinder
	publisher Publisher
	log       *slog.Logger

	cleanupInterval   time.Duration
	lowStockInterval  time.Duration
	lowStockThreshold int
	nowFunc           func() time.Time
}

// New создает новый экземпляр SchedulerService.
func New(tokens TokenCleaner, products LowStockFinder, publisher Publisher, log *slog.Logger,
	cleanupInterval, lowStockInterval time.Duration, lowStockThreshold int) *SchedulerService {
	return &SchedulerService{
		tokens:            tokens,
		products:          products,
		publisher:         publisher,
		log:               log,
		cleanupInterval:   cleanupInterval,
		lowStockInterval:  lowStockInterval,
		lowStockThreshold: lowStockThreshold,
		nowFunc:           time.Now,
	}
}

// Run крутит обе задачи до отмены контекста. Каждая задача выполняется
// один раз при старте, затем по своему интервалу.
func (s *SchedulerService) Run(ctx context.Context) error {
	cleanupTicker := time.NewTicker(s.cleanupInterval)
	defer cleanupTicker.Stop()
	lowStockTicker := time.NewTicker(s.lowStockInterval)
	defer lowStockTicker.Stop()

	if err := s.RunTokenCleanup(ctx); err != nil {
		s.log.Error("token cleanup failed", sl.Err(err))
	}
	if err := s.RunLowStockScan(ctx); err != nil {
		s.log.Error("low stock scan failed", sl.Err(err))
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-cleanupTicker.C:
			if err := s.RunTokenCleanup(ctx); err != nil {
				s.log.Error("token cleanup failed", sl.Err(err))
			}
		case <-lowStockTicker.C:
			if err := s.RunLowStockScan(ctx); err != nil {
				s.log.Error("low stock scan failed", sl.Err(err))
			}
		}
	}
}

// RunTokenCleanup однократно удаляет истёкшие и отозванные токены.
func (s *SchedulerService) RunTokenCleanup(ctx context.Context) error {
	const op = "scheduler.RunTokenCleanup"

	deleted, err := s.tokens.CleanupExpired(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("expired refresh tokens removed", slog.Int64("count", deleted))
	return nil
}

// RunLowStockScan однократно ищет товары с низким остатком и публикует
// уведомление по каждому найденному.
func (s *SchedulerService) RunLowStockScan(ctx context.Context) error {
	const op = "scheduler.RunLowStockScan"

	products, err := s.products.FindLowStock(ctx, s.lowStockThreshold)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	now := s.nowFunc()
	for _, p := range products {
		alert := LowStockAlert{
			ProductID:     p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			StockQuantity: p.StockQuantity,
			Threshold:     s.lowStockThreshold,
			DetectedAt:    now,
		}
		if err := s.publisher.Publish(rabbitmq.InventoryExchange, "low_stock", alert); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("low stock detected",
			slog.String("sku", p.SKU),
			slog.Int("stock_quantity", p.StockQuantity))
	}
	return nil
}
