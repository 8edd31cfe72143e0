package storefront

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/month"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// PlanView план и признак того, что он составлен в одном из прошлых месяцев.
type PlanView struct {
	*models.ActionPlan
	Stale        bool `json:"stale"`
	MonthsBehind int  `json:"monthsBehind,omitempty"` // Сколько календарных месяцев прошло с составления
}

func (s *Session) loadPlan(ctx context.Context) (*models.ActionPlan, error) {
	var p models.ActionPlan
	if !s.load(ctx, KeyActionPlan, &p) {
		return nil, ErrNoPlan
	}
	return &p, nil
}

// Plan возвращает текущий план.
func (s *Session) Plan(ctx context.Context) (*PlanView, error) {
	const op = "storefront.Plan"
	p, err := s.loadPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.svc.deps.Now()
	view := &PlanView{ActionPlan: p, Stale: !month.Same(p.Generated, now)}
	if behind := month.Between(p.Generated, now); behind > 0 {
		view.MonthsBehind = behind
	}
	return view, nil
}

// RegeneratePlan составляет новый план для текущего уровня, отметки выполнения сбрасываются.
func (s *Session) RegeneratePlan(ctx context.Context) (*models.ActionPlan, error) {
	const op = "storefront.RegeneratePlan"
	tier, err := s.currentTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, err := s.svc.deps.Plans.Generate(ctx, tier, s.svc.deps.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.save(ctx, KeyActionPlan, p)
	s.log.Info("action plan regenerated", slog.String("tier", string(tier)), slog.Int("tasks", len(p.Tasks)))
	return p, nil
}

// ToggleTask инвертирует отметку выполнения задачи и пересчитывает статистику.
func (s *Session) ToggleTask(ctx context.Context, taskID int) (*models.ActionPlan, error) {
	const op = "storefront.ToggleTask"
	p, err := s.loadPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !p.Toggle(taskID, s.svc.deps.Now().UTC()) {
		return nil, fmt.Errorf("%s: %d: %w", op, taskID, ErrTaskNotFound)
	}
	s.save(ctx, KeyActionPlan, p)
	return p, nil
}
