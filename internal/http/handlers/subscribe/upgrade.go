package subscribe

import (
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

// UpgradeRequest целевой уровень.
type UpgradeRequest struct {
	Tier string `json:"tier" validate:"required,oneof=basic premium"`
}

// UpgradeHandler меняет уровень подписки.
type UpgradeHandler struct {
	log      *slog.Logger
	sessions Sessions
	validate *validator.Validate
}

// NewUpgrade создает UpgradeHandler.
func NewUpgrade(log *slog.Logger, sessions Sessions) *UpgradeHandler {
	return &UpgradeHandler{log: log, sessions: sessions, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Повысить уровень
// @Description Разрешён только переход basic -> premium. План действий не пересоставляется.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Param request body UpgradeRequest true "Уровень"
// @Success 200 {object} response.Response{data=storefront.Subscription}
// @Failure 409 {object} response.ErrorResponse "Переход запрещён или нет подписки"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /tier/upgrade [post]
func (h *UpgradeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscribe.upgrade"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req UpgradeRequest
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

	sub, err := h.sessions(id).UpgradeTier(r.Context(), models.Tier(req.Tier))
	switch {
	case errors.Is(err, storefront.ErrNotSubscribed):
		log.Warn("upgrade without subscription")
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("not subscribed"))
		return
	case errors.Is(err, storefront.ErrInvalidTransition):
		log.Warn("tier transition rejected", slog.String("tier", req.Tier))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("tier transition not allowed"))
		return
	case err != nil:
		log.Error("failed to upgrade tier", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not upgrade tier"))
		return
	}

	log.Info("tier upgraded", slog.String("tier", string(sub.Tier)))
	render.JSON(w, r, response.OKWithData(sub))
}
