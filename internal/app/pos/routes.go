// Package pos предоставляет маршруты приложения точки продаж.
package pos

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/gitaprawira/pos-api/internal/http/handlers/auth/login"
	"github.com/gitaprawira/pos-api/internal/http/handlers/auth/logout"
	"github.com/gitaprawira/pos-api/internal/http/handlers/auth/me"
	"github.com/gitaprawira/pos-api/internal/http/handlers/auth/refresh"
	"github.com/gitaprawira/pos-api/internal/http/handlers/auth/register"
	"github.com/gitaprawira/pos-api/internal/http/handlers/health"
	productcreate "github.com/gitaprawira/pos-api/internal/http/handlers/product/create"
	productlist "github.com/gitaprawira/pos-api/internal/http/handlers/product/list"
	productread "github.com/gitaprawira/pos-api/internal/http/handlers/product/read"
	productreadsku "github.com/gitaprawira/pos-api/internal/http/handlers/product/readsku"
	productremove "github.com/gitaprawira/pos-api/internal/http/handlers/product/remove"
	productupdate "github.com/gitaprawira/pos-api/internal/http/handlers/product/update"
	"github.com/gitaprawira/pos-api/internal/http/middlewarectx"
	"github.com/gitaprawira/pos-api/internal/lib/jwt"
	"github.com/gitaprawira/pos-api/internal/models"
	authservice "github.com/gitaprawira/pos-api/internal/services/auth"
	productservice "github.com/gitaprawira/pos-api/internal/services/product"
	"github.com/gitaprawira/pos-api/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, maker jwt.Maker,
	authService *authservice.AuthService, productService *productservice.ProductService,
	db *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(50), 100))

			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)
			r.Get("/auth/me", me.New(logger, authService).ServeHTTP)

			// Чтение каталога доступно всем ролям
			r.Get("/products", productlist.New(logger, productService).ServeHTTP)
			r.Get("/products/{id}", productread.New(logger, productService).ServeHTTP)
			r.Get("/products/sku/{sku}", productreadsku.New(logger, productService).ServeHTTP)

			// Создание и обновление требуют роли admin или manager
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin, models.RoleManager))
				r.Post("/products", productcreate.New(logger, productService).ServeHTTP)
				r.Put("/products/{id}", productupdate.New(logger, productService).ServeHTTP)
			})

			// Удаление требует роли admin
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Delete("/products/{id}", productremove.New(logger, productService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
