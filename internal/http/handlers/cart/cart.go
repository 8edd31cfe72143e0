// Package cart реализует HTTP-обработчики корзины посетителя.
//
// Корзина хранится в сессии, идентификатор которой кладёт в контекст
// middlewarectx.SessionMiddleware. Позиции адресуются индексом, так как
// один продукт может лежать в корзине несколько раз.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/middlewarectx"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/response"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
)

// Session операции корзины одного посетителя.
type Session interface {
	Cart(ctx context.Context) models.Cart
	AddToCart(ctx context.Context, productID string) (models.Cart, error)
	RemoveFromCart(ctx context.Context, index int) (models.Cart, error)
}

// Sessions возвращает сессию по идентификатору.
type Sessions func(id string) Session

// AddRequest тело запроса на добавление в корзину.
type AddRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// ViewHandler показывает корзину.
type ViewHandler struct {
	log      *slog.Logger
	sessions Sessions
}

// NewView создает ViewHandler.
func NewView(log *slog.Logger, sessions Sessions) *ViewHandler {
	return &ViewHandler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Корзина
// @Description Возвращает позиции корзины, их количество и сумму.
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Success 200 {object} response.Response{data=models.Cart}
// @Router /cart [get]
func (h *ViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.view"
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

	render.JSON(w, r, response.OKWithData(h.sessions(id).Cart(r.Context())))
}

// AddHandler добавляет продукт в корзину.
type AddHandler struct {
	log      *slog.Logger
	sessions Sessions
	validate *validator.Validate
}

// NewAdd создает AddHandler.
func NewAdd(log *slog.Logger, sessions Sessions) *AddHandler {
	return &AddHandler{log: log, sessions: sessions, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Добавить в корзину
// @Description Добавляет продукт каталога в конец корзины. Повторное добавление создаёт ещё одну позицию.
// @Tags Cart
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Param request body AddRequest true "Продукт"
// @Success 200 {object} response.Response{data=models.Cart}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Продукт не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /cart [post]
func (h *AddHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.add"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req AddRequest
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

	c, err := h.sessions(id).AddToCart(r.Context(), req.ProductID)
	if errors.Is(err, storefront.ErrProductNotFound) {
		log.Warn("unknown product", slog.String("product_id", req.ProductID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}
	if err != nil {
		log.Error("failed to add to cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not add to cart"))
		return
	}

	log.Info("product added to cart", slog.String("product_id", req.ProductID), slog.Int("count", c.Count))
	render.JSON(w, r, response.OKWithData(c))
}

// RemoveHandler удаляет позицию корзины по индексу.
type RemoveHandler struct {
	log      *slog.Logger
	sessions Sessions
}

// NewRemove создает RemoveHandler.
func NewRemove(log *slog.Logger, sessions Sessions) *RemoveHandler {
	return &RemoveHandler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Удалить из корзины
// @Tags Cart
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Param index path int true "Позиция в корзине, с нуля"
// @Success 200 {object} response.Response{data=models.Cart}
// @Failure 400 {object} response.ErrorResponse "Некорректный индекс"
// @Failure 404 {object} response.ErrorResponse "Позиции нет"
// @Router /cart/{index} [delete]
func (h *RemoveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cart.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		log.Error("invalid index format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid index"))
		return
	}

	id, ok := middlewarectx.SessionID(r.Context())
	if !ok {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session"))
		return
	}

	c, err := h.sessions(id).RemoveFromCart(r.Context(), index)
	if errors.Is(err, storefront.ErrCartIndex) {
		log.Warn("cart index out of range", slog.Int("index", index))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("cart item not found"))
		return
	}
	if err != nil {
		log.Error("failed to remove from cart", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove from cart"))
		return
	}

	log.Info("cart item removed", slog.Int("index", index))
	render.JSON(w, r, response.OKWithData(c))
}
