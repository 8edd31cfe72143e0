// Package plan генерирует ежемесячный план действий партнёра.
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/month"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// Generator создаёт план для уровня подписки на месяц, в который попадает now.
type Generator interface {
	Generate(ctx context.Context, tier models.Tier, now time.Time) (*models.ActionPlan, error)
}

var baseTasks = []models.Task{
	{ID: 1, Week: 1, Task: "Set up your affiliate dashboard and tracking tools", Priority: models.PriorityHigh},
	{ID: 2, Week: 1, Task: "Research and select your first 3 affiliate programs", Priority: models.PriorityHigh},
	{ID: 3, Week: 1, Task: "Create social media profiles for affiliate marketing", Priority: models.PriorityMedium},
	{ID: 4, Week: 2, Task: "Write your first product review or comparison article", Priority: models.PriorityHigh},
	{ID: 5, Week: 2, Task: "Create 5 social media posts promoting affiliate products", Priority: models.PriorityMedium},
	{ID: 6, Week: 2, Task: "Join 2 affiliate marketing communities for networking", Priority: models.PriorityLow},
	{ID: 7, Week: 3, Task: "Launch your first email campaign to subscribers", Priority: models.PriorityHigh},
	{ID: 8, Week: 3, Task: "Experiment with 2 traffic sources (SEO, ads, or social)", Priority: models.PriorityHigh},
	{ID: 9, Week: 3, Task: "Analyze your first week of traffic and conversion data", Priority: models.PriorityMedium},
	{ID: 10, Week: 4, Task: "Optimize top-performing content based on analytics", Priority: models.PriorityHigh},
	{ID: 11, Week: 4, Task: "Scale successful campaigns with increased budget/effort", Priority: models.PriorityMedium},
	{ID: 12, Week: 4, Task: "Document lessons learned and plan next month", Priority: models.PriorityMedium},
}

var premiumTasks = []models.Task{
	{ID: 13, Week: 1, Task: "Schedule your 1-on-1 mentorship call", Priority: models.PriorityHigh},
	{ID: 14, Week: 2, Task: "Set up A/B tests for your top 3 landing pages", Priority: models.PriorityHigh},
	{ID: 15, Week: 3, Task: "Build custom automation workflow for email sequences", Priority: models.PriorityMedium},
	{ID: 16, Week: 4, Task: "Review advanced analytics and create custom reports", Priority: models.PriorityHigh},
}

// Tasks возвращает свежую копию стандартного списка задач для уровня:
// 12 базовых и ещё 4 для premium.
func Tasks(tier models.Tier) []models.Task {
	tasks := make([]models.Task, 0, len(baseTasks)+len(premiumTasks))
	tasks = append(tasks, baseTasks...)
	if tier == models.TierPremium {
		tasks = append(tasks, premiumTasks...)
	}
	return tasks
}

// build собирает план с невыполненными задачами и пересчитанной статистикой.
func build(tier models.Tier, now time.Time, tasks []models.Task) *models.ActionPlan {
	for i := range tasks {
		tasks[i].Completed = false
	}
	p := &models.ActionPlan{
		Month:       month.Label(now),
		Tier:        tier,
		Generated:   now,
		LastUpdated: now,
		Tasks:       tasks,
	}
	p.Recompute()
	return p
}

// New выбирает генератор по настройкам.
func New(cfg config.ActionPlan, log *slog.Logger, m *metrics.Metrics) (Generator, error) {
	static := NewStaticGenerator(cfg.Delay, m)
	switch cfg.Generator {
	case "", config.PlanStatic:
		return static, nil
	case config.PlanService:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("plan.New: %s generator requires an endpoint", config.PlanService)
		}
		client := &http.Client{Timeout: cfg.Timeout}
		return NewServiceGenerator(cfg, client, log, m), nil
	default:
		return nil, fmt.Errorf("plan.New: unknown generator %q", cfg.Generator)
	}
}
