package artifact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

const (
	guideTitle  = "Affiliate Marketing Success Guide"
	guideFooter = "Generated by Affiliate Launchpad • Your Success Starts Here"
)

var premiumGuide = []string{
	"PREMIUM AFFILIATE SUCCESS STRATEGIES:", "",
	"1. Advanced Revenue Optimization",
	"   • Multi-channel funnel strategies",
	"   • Advanced split testing methodologies",
	"   • Premium conversion tactics", "",
	"2. Data-Driven Decision Making",
	"   • Analytics setup and interpretation",
	"   • KPI tracking and optimization",
	"   • ROI maximization techniques", "",
	"3. Exclusive Network Access",
	"   • Premium member networking events",
	"   • 1-on-1 mentorship opportunities",
	"   • Insider industry connections", "",
	"4. Advanced Automation Systems",
	"   • Email sequence optimization",
	"   • Behavioral trigger campaigns",
	"   • Advanced customer segmentation", "",
	"Your Premium Benefits:",
	"+ Priority support (24h response)",
	"+ Monthly 1-on-1 mentorship calls",
	"+ Exclusive content library access",
	"+ Advanced analytics dashboard",
	"+ A/B testing tools", "",
	"Ready to 10x your affiliate income? Let's get started!",
}

var basicGuide = []string{
	"AFFILIATE MARKETING FUNDAMENTALS:", "",
	"1. Getting Started Right",
	"   • Choosing profitable niches",
	"   • Setting up tracking systems",
	"   • Building your first funnel", "",
	"2. Essential Tools & Resources",
	"   • Free traffic generation methods",
	"   • Content creation strategies",
	"   • Email list building basics", "",
	"3. Network Growth Strategies",
	"   • Connecting with other affiliates",
	"   • Sharing best practices",
	"   • Collaborative opportunities", "",
	"4. Monthly Action Plan",
	"   • Week 1: Setup and foundation",
	"   • Week 2: Content creation",
	"   • Week 3: Traffic generation",
	"   • Week 4: Optimization and scaling", "",
	"Your Starter Benefits:",
	"+ Access to affiliate network",
	"+ Monthly group coaching calls",
	"+ Basic analytics dashboard",
	"+ Resource library access", "",
	"Ready to upgrade to Premium for advanced features?",
}

// GuideGenerator рисует приветственное руководство для нового подписчика.
type GuideGenerator struct {
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewGuideGenerator создаёт генератор руководства.
func NewGuideGenerator(m *metrics.Metrics) *GuideGenerator {
	return &GuideGenerator{metrics: m, now: time.Now}
}

// GuideFilename имя файла руководства для уровня.
func GuideFilename(tier models.Tier) string {
	return "affiliate-success-guide-" + string(tier) + ".pdf"
}

// GuideLines возвращает текст руководства для уровня.
func GuideLines(tier models.Tier) []string {
	if tier == models.TierPremium {
		return premiumGuide
	}
	return basicGuide
}

// Generate формирует PDF руководства, адресованный name.
func (g *GuideGenerator) Generate(_ context.Context, name string, tier models.Tier) (*Artifact, error) {
	const op = "artifact.GuideGenerator.Generate"

	pdf := newDocument(guideFooter)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 51, 204)
	pdf.CellFormat(0, 30, guideTitle, "", 1, "L", false, 0, "")

	tierName := "Affiliate Launchpad"
	if info, ok := tier.Info(); ok {
		tierName = info.Name
	}
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 20, tr(fmt.Sprintf("Welcome to %s, %s!", tierName, name)), "", 1, "L", false, 0, "")
	pdf.Ln(14)

	for _, line := range GuideLines(tier) {
		heading := strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " ")
		switch {
		case heading:
			pdf.SetFont("Helvetica", "B", 14)
			pdf.SetTextColor(26, 26, 26)
		case strings.HasPrefix(line, "+"):
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(0, 153, 0)
		default:
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(26, 26, 26)
		}
		h := 15.0
		if heading {
			h = 20
		}
		pdf.CellFormat(0, h, tr(line), "", 1, "L", false, 0, "")
	}

	data, err := render(pdf)
	if err != nil {
		g.metrics.Artifact(config.ArtifactPDF, false)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	g.metrics.Artifact(config.ArtifactPDF, true)
	return &Artifact{
		Filename:    GuideFilename(tier),
		ContentType: "application/pdf",
		Content:     data,
		CreatedAt:   g.now().UTC(),
	}, nil
}
