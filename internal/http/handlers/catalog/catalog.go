// Package catalog реализует HTTP-обработчики витрины: список продуктов и уровней подписки.
package catalog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/http/response"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// Service описывает источник каталога.
type Service interface {
	Products() []models.Product
	Tiers() []models.TierInfo
}

// ProductsHandler отдаёт каталог продуктов.
type ProductsHandler struct {
	log     *slog.Logger
	service Service
}

// NewProducts создает ProductsHandler.
func NewProducts(log *slog.Logger, service Service) *ProductsHandler {
	return &ProductsHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог продуктов
// @Description Возвращает все продукты витрины в порядке показа.
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Product}
// @Router /products [get]
func (h *ProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.products"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	products := h.service.Products()
	log.Debug("catalog listed", slog.Int("count", len(products)))
	render.JSON(w, r, response.OKWithData(products))
}

// TiersHandler отдаёт описания уровней подписки.
type TiersHandler struct {
	log     *slog.Logger
	service Service
}

// NewTiers создает TiersHandler.
func NewTiers(log *slog.Logger, service Service) *TiersHandler {
	return &TiersHandler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Уровни подписки
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response{data=[]models.TierInfo}
// @Router /tiers [get]
func (h *TiersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.tiers"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	tiers := h.service.Tiers()
	log.Debug("tiers listed", slog.Int("count", len(tiers)))
	render.JSON(w, r, response.OKWithData(tiers))
}
