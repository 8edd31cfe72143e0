// Package download отдаёт сгенерированные файлы по ссылке и отзывает ссылки.
package download

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/artifact"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/response"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
)

// Service хранилище ссылок на файлы.
type Service interface {
	Download(ctx context.Context, handle string) (*artifact.Artifact, error)
	RevokeDownload(ctx context.Context, handle string) error
}

// GetHandler отдаёт файл целиком.
type GetHandler struct {
	log     *slog.Logger
	service Service
}

// NewGet создает GetHandler.
func NewGet(log *slog.Logger, service Service) *GetHandler {
	return &GetHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Скачать файл
// @Tags Downloads
// @Produce octet-stream
// @Param handle path string true "Ссылка на файл"
// @Success 200 {file} file
// @Failure 404 {object} response.ErrorResponse "Ссылка неизвестна или истекла"
// @Router /downloads/{handle} [get]
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.download.get"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	handle := chi.URLParam(r, "handle")
	a, err := h.service.Download(r.Context(), handle)
	if errors.Is(err, artifact.ErrNotFound) {
		log.Warn("download handle not found", slog.String("handle", handle))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("download not found"))
		return
	}
	if err != nil {
		log.Error("failed to load artifact", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load download"))
		return
	}

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Content)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Content); err != nil {
		log.Error("failed to write artifact", sl.Err(err))
		return
	}
	log.Debug("artifact served", slog.String("filename", a.Filename), slog.Int("bytes", len(a.Content)))
}

// RevokeHandler отзывает ссылку. Повторный отзыв не считается ошибкой.
type RevokeHandler struct {
	log     *slog.Logger
	service Service
}

// NewRevoke создает RevokeHandler.
func NewRevoke(log *slog.Logger, service Service) *RevokeHandler {
	return &RevokeHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отозвать ссылку на файл
// @Tags Downloads
// @Produce json
// @Param handle path string true "Ссылка на файл"
// @Success 200 {object} response.Response
// @Router /downloads/{handle} [delete]
func (h *RevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.download.revoke"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	handle := chi.URLParam(r, "handle")
	if err := h.service.RevokeDownload(r.Context(), handle); err != nil {
		log.Error("failed to revoke download", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not revoke download"))
		return
	}

	log.Info("download revoked", slog.String("handle", handle))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"revoked": handle,
	}))
}
