package artifact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

const (
	pageWidth  = 600.0
	pageHeight = 800.0
	margin     = 50.0

	footerText = "Generated by Affiliate Launchpad"
)

// PDFGenerator рисует одностраничный PDF с обложкой товара.
// Если обложку не удалось получить или разобрать, документ собирается без неё.
type PDFGenerator struct {
	images  ImageFetcher
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewPDFGenerator создаёт генератор. images может быть nil: тогда обложки не загружаются.
func NewPDFGenerator(images ImageFetcher, log *slog.Logger, m *metrics.Metrics) *PDFGenerator {
	return &PDFGenerator{images: images, log: log, metrics: m, now: time.Now}
}

// Generate формирует PDF для товара.
func (g *PDFGenerator) Generate(ctx context.Context, p models.Product) (*Artifact, error) {
	const op = "artifact.PDFGenerator.Generate"

	pdf := newDocument(footerText)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	y := margin
	if g.drawCover(ctx, pdf, p) {
		y = margin + 270
	}

	pdf.SetXY(margin, y)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(pageWidth-2*margin, 28, tr(p.Title), "", "L", false)

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 18, "Included:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, b := range p.Bullets {
		pdf.SetX(margin + 10)
		pdf.MultiCell(pageWidth-2*margin-10, 16, tr("• "+b), "", "L", false)
	}

	pdf.Ln(18)
	pdf.SetFont("Helvetica", "I", 12)
	pdf.CellFormat(0, 16, "Thank you for purchasing!", "", 1, "L", false, 0, "")

	data, err := render(pdf)
	if err != nil {
		g.metrics.Artifact(config.ArtifactPDF, false)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	g.metrics.Artifact(config.ArtifactPDF, true)
	return &Artifact{
		Filename:    p.ID + ".pdf",
		ContentType: "application/pdf",
		Content:     data,
		CreatedAt:   g.now().UTC(),
	}, nil
}

// drawCover встраивает обложку и сообщает, удалось ли это.
func (g *PDFGenerator) drawCover(ctx context.Context, pdf *fpdf.Fpdf, p models.Product) bool {
	if g.images == nil || p.Image == "" {
		return false
	}
	log := g.log.With(slog.String("product_id", p.ID))

	data, err := g.images.Fetch(ctx, p.Image)
	if err != nil {
		log.Warn("cover image unavailable, rendering without it", sl.Err(err))
		g.metrics.CoverFallback()
		return false
	}
	imgType := DetectImageType(data)
	name := "cover-" + p.ID
	opts := fpdf.ImageOptions{ImageType: imgType, ReadDpi: false}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if !pdf.Ok() || info == nil {
		log.Warn("cover image could not be embedded, rendering without it", sl.Err(pdf.Error()))
		pdf.ClearError()
		g.metrics.CoverFallback()
		return false
	}

	// Вписываем в рамку 500x250 с сохранением пропорций.
	boxW, boxH := pageWidth-2*margin, 250.0
	w, h := info.Width(), info.Height()
	if w <= 0 || h <= 0 {
		pdf.ClearError()
		g.metrics.CoverFallback()
		return false
	}
	scale := boxW / w
	if h*scale > boxH {
		scale = boxH / h
	}
	pdf.ImageOptions(name, margin, margin, w*scale, h*scale, false, opts, 0, "")
	return pdf.Ok()
}

func newDocument(footer string) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetCreator("affiliate-launchpad", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 12, tr(footer), "", 0, "L", false, 0, "")
	})
	return pdf
}

func render(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
