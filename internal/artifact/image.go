package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxImageSize ограничивает размер загружаемой обложки.
const maxImageSize = 5 << 20

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// DetectImageType определяет формат по сигнатуре, а не по заголовкам ответа:
// "PNG" для PNG-сигнатуры, иначе "JPG" (имена типов fpdf).
func DetectImageType(data []byte) string {
	if bytes.HasPrefix(data, pngSignature) {
		return "PNG"
	}
	return "JPG"
}

// ImageFetcher загружает обложку товара.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPImageFetcher загружает изображения по HTTP.
type HTTPImageFetcher struct {
	httpClient *http.Client
}

// NewHTTPImageFetcher создаёт загрузчик с таймаутом на запрос.
func NewHTTPImageFetcher(timeout time.Duration) *HTTPImageFetcher {
	return &HTTPImageFetcher{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch скачивает изображение целиком, но не больше maxImageSize.
func (f *HTTPImageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	const op = "artifact.HTTPImageFetcher.Fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(data) > maxImageSize {
		return nil, fmt.Errorf("%s: image larger than %d bytes", op, maxImageSize)
	}
	return data, nil
}
