// Package plan реализует HTTP-обработчики ежемесячного плана действий подписчика.
package plan

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/middlewarectx"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/response"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/services/storefront"
)

// Session операции плана одного посетителя.
type Session interface {
	Plan(ctx context.Context) (*storefront.PlanView, error)
	RegeneratePlan(ctx context.Context) (*models.ActionPlan, error)
	ToggleTask(ctx context.Context, taskID int) (*models.ActionPlan, error)
}

// Sessions возвращает сессию по идентификатору.
type Sessions func(id string) Session

// writeError переводит ошибку сервиса в HTTP-ответ.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, storefront.ErrNoPlan):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no action plan"))
	case errors.Is(err, storefront.ErrTaskNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("task not found"))
	case errors.Is(err, storefront.ErrNotSubscribed):
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("not subscribed"))
	default:
		log.Error("action plan operation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process action plan"))
	}
}

// GetHandler отдаёт текущий план.
type GetHandler struct {
	log      *slog.Logger
	sessions Sessions
}

// NewGet создает GetHandler.
func NewGet(log *slog.Logger, sessions Sessions) *GetHandler {
	return &GetHandler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary План действий
// @Description Возвращает план и признак stale, если план составлен в прошлом месяце.
// @Tags Plan
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Success 200 {object} response.Response{data=storefront.PlanView}
// @Failure 404 {object} response.ErrorResponse "Плана нет"
// @Router /plan [get]
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.get"
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

	view, err := h.sessions(id).Plan(r.Context())
	if err != nil {
		writeError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OKWithData(view))
}

// RegenerateHandler пересоставляет план для текущего уровня.
type RegenerateHandler struct {
	log      *slog.Logger
	sessions Sessions
}

// NewRegenerate создает RegenerateHandler.
func NewRegenerate(log *slog.Logger, sessions Sessions) *RegenerateHandler {
	return &RegenerateHandler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Пересоставить план
// @Tags Plan
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Success 200 {object} response.Response{data=models.ActionPlan}
// @Failure 409 {object} response.ErrorResponse "Посетитель не подписан"
// @Router /plan/regenerate [post]
func (h *RegenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.regenerate"
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

	p, err := h.sessions(id).RegeneratePlan(r.Context())
	if err != nil {
		writeError(w, r, log, err)
		return
	}
	log.Info("action plan regenerated", slog.String("tier", string(p.Tier)))
	render.JSON(w, r, response.OKWithData(p))
}

// ToggleHandler отмечает задачу выполненной или снимает отметку.
type ToggleHandler struct {
	log      *slog.Logger
	sessions Sessions
}

// NewToggle создает ToggleHandler.
func NewToggle(log *slog.Logger, sessions Sessions) *ToggleHandler {
	return &ToggleHandler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Переключить задачу
// @Tags Plan
// @Produce json
// @Param X-Session-ID header string false "Идентификатор сессии"
// @Param id path int true "Идентификатор задачи"
// @Success 200 {object} response.Response{data=models.ActionPlan}
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 404 {object} response.ErrorResponse "Плана или задачи нет"
// @Router /plan/tasks/{id}/toggle [post]
func (h *ToggleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.toggle"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	id, ok := middlewarectx.SessionID(r.Context())
	if !ok {
		log.Error("session id not found in context")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing session"))
		return
	}

	p, err := h.sessions(id).ToggleTask(r.Context(), taskID)
	if err != nil {
		writeError(w, r, log, err)
		return
	}
	log.Info("task toggled", slog.Int("task_id", taskID), slog.Int("completed", p.Stats.Completed))
	render.JSON(w, r, response.OKWithData(p))
}
