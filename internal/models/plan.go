package models

import (
	"math"
	"time"
)

// Приоритеты задач плана.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task задача ежемесячного плана.
type Task struct {
	ID        int    `json:"id"`
	Week      int    `json:"week"` // Неделя месяца, 1–4
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
	Priority  string `json:"priority"`
}

// PlanStats агрегаты плана. Инвариант: Progress == round(100 * Completed / Total).
type PlanStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Progress  int `json:"progress"`
}

// ActionPlan ежемесячный план действий подписчика.
type ActionPlan struct {
	Month       string    `json:"month"`
	Tier        Tier      `json:"tier"`
	Generated   time.Time `json:"generated"`
	LastUpdated time.Time `json:"lastUpdated"`
	Tasks       []Task    `json:"tasks"`
	Stats       PlanStats `json:"stats"`
}

// Recompute пересчитывает агрегаты по задачам.
func (p *ActionPlan) Recompute() {
	completed := 0
	for _, t := range p.Tasks {
		if t.Completed {
			completed++
		}
	}
	total := len(p.Tasks)
	progress := 0
	if total > 0 {
		progress = int(math.Round(100 * float64(completed) / float64(total)))
	}
	p.Stats = PlanStats{Total: total, Completed: completed, Progress: progress}
}

// Toggle инвертирует флаг выполнения задачи и пересчитывает агрегаты.
// Возвращает false, если задачи с таким id нет.
func (p *ActionPlan) Toggle(taskID int, now time.Time) bool {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			p.Tasks[i].Completed = !p.Tasks[i].Completed
			p.LastUpdated = now
			p.Recompute()
			return true
		}
	}
	return false
}
