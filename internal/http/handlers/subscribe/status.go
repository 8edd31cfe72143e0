package subscribe

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/middlewarectx"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/response"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
)

// StatusHandler отдаёт текущего подписчика и уровень.
type StatusHandler struct {
	log      *slog.Logger
	sessions Sessions
}

// NewStatus создает StatusHandler.
func NewStatus(log *slog.Logger, sessions Sessions) *StatusHandler {
	return &StatusHandler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Состояние подписки
// @Tags Subscription
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Success 200 {object} response.Response{data=storefront.Subscription}
// @Failure 409 {object} response.ErrorResponse "Посетитель не подписан"
// @Router /subscription [get]
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribe.status"
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

	sub, err := h.sessions(id).Subscription(r.Context())
	if errors.Is(err, storefront.ErrNotSubscribed) {
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("not subscribed"))
		return
	}
	if err != nil {
		log.Error("failed to load subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load subscription"))
		return
	}

	render.JSON(w, r, response.OKWithData(sub))
}
