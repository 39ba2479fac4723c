// Package readsku реализует HTTP-обработчик получения товара по артикулу.
package readsku

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/gitaprawira/pos-api/internal/http/response"
	"github.com/gitaprawira/pos-api/internal/lib/sl"
	"github.com/gitaprawira/pos-api/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения товара по артикулу.
type Service interface {
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
}

// Handler управляет HTTP-запросами на чтение товара по артикулу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить товар по артикулу
// @Description Возвращает карточку товара по его артикулу.
// @Tags Products
// @Produce  json
// @Security BearerAuth
// @Param sku path string true "Артикул товара"
// @Success 200 {object} models.Product "Карточка товара"
// @Failure 400 {object} response.ErrorResponse "Пустой артикул"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products/sku/{sku} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.readsku"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sku := chi.URLParam(r, "sku")
	if sku == "" {
		log.Error("missing sku in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing sku in url"))
		return
	}

	product, err := h.service.GetBySKU(r.Context(), sku)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			log.Error("product not found", slog.String("sku", sku))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("product not found"))
			return
		}
		log.Error("failed to read product", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read product"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(product))
}
