package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// StaticGenerator выдаёт фиксированный список задач после искусственной задержки.
type StaticGenerator struct {
	delay   time.Duration
	metrics *metrics.Metrics
}

// NewStaticGenerator создаёт генератор; delay 0 отключает задержку.
func NewStaticGenerator(delay time.Duration, m *metrics.Metrics) *StaticGenerator {
	return &StaticGenerator{delay: delay, metrics: m}
}

// Generate ждёт delay и возвращает план. Отмена ctx прерывает ожидание.
func (g *StaticGenerator) Generate(ctx context.Context, tier models.Tier, now time.Time) (*models.ActionPlan, error) {
	const op = "plan.StaticGenerator.Generate"

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		}
	}

	g.metrics.PlanGenerated(string(tier))
	return build(tier, now, Tasks(tier)), nil
}
