// Package checkout реализует оформление заказа и журнал заказов посетителя.
//
// Оформление проходит весь конвейер заказа: создание записи журнала,
// генерацию файлов, очистку корзины и синхронизацию покупателя с CRM.
// Ошибка синхронизации не отменяет заказ, а возвращается в поле apiError.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/middlewarectx"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/response"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
)

// Session операции заказа одного посетителя.
type Session interface {
	Checkout(ctx context.Context, buyer models.Buyer) (*models.Order, error)
	Orders(ctx context.Context) []models.Order
}

// Sessions возвращает сессию по идентификатору.
type Sessions func(id string) Session

// Request данные покупателя из формы оформления.
type Request struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,contains=@"`
}

// Handler оформляет заказ из текущей корзины.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Description Создает заказ из корзины, генерирует файлы для каждой позиции и очищает корзину.
// @Description Пустой email заменяется адресом подписчика, непустой должен содержать @.
// @Tags Orders
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Param request body Request true "Покупатель"
// @Success 200 {object} response.Response{data=models.Order}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Корзина пуста"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, ok := middlewarectx.SessionID(r.Context())
	if !ok {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session"))
		return
	}

	order, err := h.sessions(id).Checkout(r.Context(), models.Buyer{Name: req.Name, Email: req.Email})
	if errors.Is(err, storefront.ErrInvalidEmail) {
		log.Warn("checkout with invalid email")
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("email must contain @"))
		return
	}
	if errors.Is(err, storefront.ErrEmptyCart) {
		log.Warn("checkout with empty cart")
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("cart is empty"))
		return
	}
	if err != nil {
		log.Error("failed to checkout", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not place order"))
		return
	}

	log.Info("order placed", slog.String("order_id", order.ID), slog.Int("items", len(order.Items)))
	render.JSON(w, r, response.OKWithData(order))
}

// OrdersHandler отдаёт журнал заказов.
type OrdersHandler struct {
	log      *slog.Logger
	sessions Sessions
}

// NewOrders создает OrdersHandler.
func NewOrders(log *slog.Logger, sessions Sessions) *OrdersHandler {
	return &OrdersHandler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Журнал заказов
// @Tags Orders
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Success 200 {object} response.Response{data=[]models.Order}
// @Router /orders [get]
func (h *OrdersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.checkout.orders"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.SessionID(r.Context())
	if !ok {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session"))
		return
	}

	orders := h.sessions(id).Orders(r.Context())
	log.Debug("orders listed", slog.Int("count", len(orders)))
	render.JSON(w, r, response.OKWithData(orders))
}
