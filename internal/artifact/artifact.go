// Package artifact генерирует скачиваемые файлы для купленных товаров
// и уровней подписки и выдаёт на них отзываемые ссылки.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// DownloadPath префикс URL скачивания артефакта.
const DownloadPath = "/api/v1/downloads/"

// ErrNotFound ссылка неизвестна, отозвана или истекла.
var ErrNotFound = errors.New("artifact not found")

// Artifact сгенерированный файл.
type Artifact struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Content     []byte    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Generator создаёт файл для товара.
type Generator interface {
	Generate(ctx context.Context, p models.Product) (*Artifact, error)
}

// URL возвращает путь скачивания по ссылке.
func URL(handle string) string {
	return DownloadPath + handle
}

// Download собирает запись о скачивании для позиции заказа.
func Download(productID, handle string, a *Artifact) models.Download {
	return models.Download{
		ProductID:   productID,
		Handle:      handle,
		URL:         URL(handle),
		Filename:    a.Filename,
		ContentType: a.ContentType,
	}
}

// New выбирает генератор по настройкам.
func New(cfg config.Artifacts, log *slog.Logger, m *metrics.Metrics) (Generator, error) {
	switch cfg.Strategy {
	case "", config.ArtifactText:
		return NewTextGenerator(m), nil
	case config.ArtifactPDF:
		var fetcher ImageFetcher
		if !cfg.SkipImages {
			fetcher = NewHTTPImageFetcher(cfg.ImageTimeout)
		}
		return NewPDFGenerator(fetcher, log, m), nil
	default:
		return nil, fmt.Errorf("artifact.New: unknown strategy %q", cfg.Strategy)
	}
}
