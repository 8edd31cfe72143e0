package artifact

import (
	"context"
	"strings"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// TextGenerator собирает текстовый файл: заголовок, список пунктов и благодарность.
type TextGenerator struct {
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewTextGenerator создаёт текстовый генератор.
func NewTextGenerator(m *metrics.Metrics) *TextGenerator {
	return &TextGenerator{metrics: m, now: time.Now}
}

// Generate формирует текст для товара.
func (g *TextGenerator) Generate(_ context.Context, p models.Product) (*Artifact, error) {
	lines := []string{p.Title, "", "Included:"}
	for _, b := range p.Bullets {
		lines = append(lines, "- "+b)
	}
	lines = append(lines, "", "Thank you for purchasing!")

	body := p.Title + "\n\n" + strings.Join(lines, "\n") + "\n"
	g.metrics.Artifact(config.ArtifactText, true)
	return &Artifact{
		Filename:    p.ID + ".txt",
		ContentType: "text/plain; charset=utf-8",
		Content:     []byte(body),
		CreatedAt:   g.now().UTC(),
	}, nil
}
