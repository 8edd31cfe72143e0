// Package subscribe реализует подписку посетителя, просмотр её состояния и смену уровня.
package subscribe

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

// Session операции подписки одного посетителя.
type Session interface {
	Subscribe(ctx context.Context, req storefront.SubscribeRequest) (*storefront.SubscribeResult, error)
	Subscription(ctx context.Context) (*storefront.Subscription, error)
	UpgradeTier(ctx context.Context, next models.Tier) (*storefront.Subscription, error)
}

// Sessions возвращает сессию по идентификатору.
type Sessions func(id string) Session

// Request форма подписки. Пустой tier означает basic.
type Request struct {
	Email     string `json:"email" validate:"required,contains=@"`
	FirstName string `json:"first_name,omitempty"`
	Tier      string `json:"tier,omitempty" validate:"omitempty,oneof=basic premium"`
}

// Handler подписывает посетителя.
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
// @Summary Подписаться
// @Description Сохраняет подписчика, составляет план действий и руководство для уровня.
// @Description Ошибка синхронизации с CRM не отменяет подписку и возвращается в apiError.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Param request body Request true "Данные подписчика"
// @Success 200 {object} response.Response{data=storefront.SubscribeResult}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribe"
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

	res, err := h.sessions(id).Subscribe(r.Context(), storefront.SubscribeRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		Tier:      req.Tier,
	})
	switch {
	case errors.Is(err, storefront.ErrInvalidEmail), errors.Is(err, storefront.ErrInvalidTier):
		log.Warn("subscription rejected", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to subscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not subscribe"))
		return
	}

	log.Info("visitor subscribed", slog.String("tier", string(res.Subscriber.Tier)), slog.Bool("lead_synced", res.LeadSync.OK))
	render.JSON(w, r, response.OKWithData(res))
}
