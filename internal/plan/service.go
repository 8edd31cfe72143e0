package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// ServiceGenerator запрашивает план у внешнего сервиса в формате chat completions.
// При любой ошибке сервиса возвращается стандартный список задач.
type ServiceGenerator struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewServiceGenerator создаёт генератор поверх httpClient.
func NewServiceGenerator(cfg config.ActionPlan, httpClient *http.Client, log *slog.Logger, m *metrics.Metrics) *ServiceGenerator {
	return &ServiceGenerator{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: httpClient,
		log:        log,
		metrics:    m,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type generatedPlan struct {
	Tasks []struct {
		Week     int    `json:"week"`
		Task     string `json:"task"`
		Priority string `json:"priority"`
	} `json:"tasks"`
}

const systemPrompt = "You are an affiliate marketing coach. Reply with JSON of the form " +
	`{"tasks":[{"week":1,"task":"...","priority":"high|medium|low"}]}` +
	" containing a four-week action plan."

// Generate запрашивает план; ошибки сервиса логируются и заменяются стандартным планом.
func (g *ServiceGenerator) Generate(ctx context.Context, tier models.Tier, now time.Time) (*models.ActionPlan, error) {
	tasks, err := g.request(ctx, tier, now)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("plan.ServiceGenerator.Generate: %w", ctxErr)
		}
		g.log.Warn("plan service unavailable, using standard tasks",
			slog.String("tier", string(tier)), sl.Err(err))
		tasks = Tasks(tier)
	}
	g.metrics.PlanGenerated(string(tier))
	return build(tier, now, tasks), nil
}

func (g *ServiceGenerator) request(ctx context.Context, tier models.Tier, now time.Time) ([]models.Task, error) {
	const op = "plan.ServiceGenerator.request"

	want := len(Tasks(tier))
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf(
				"Create %d tasks for a %s tier affiliate for %d %s.",
				want, tier, now.Year(), now.Month())},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("%s: empty choices", op)
	}
	return parseTasks(chat.Choices[0].Message.Content)
}

// parseTasks проверяет ответ сервиса и нумерует задачи по порядку.
func parseTasks(content string) ([]models.Task, error) {
	var gp generatedPlan
	if err := json.Unmarshal([]byte(content), &gp); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(gp.Tasks) == 0 {
		return nil, errors.New("plan has no tasks")
	}

	tasks := make([]models.Task, 0, len(gp.Tasks))
	for i, t := range gp.Tasks {
		text := strings.TrimSpace(t.Task)
		if text == "" {
			return nil, fmt.Errorf("task %d is empty", i+1)
		}
		if t.Week < 1 || t.Week > 4 {
			return nil, fmt.Errorf("task %d has week %d outside 1..4", i+1, t.Week)
		}
		priority := strings.ToLower(t.Priority)
		switch priority {
		case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		default:
			priority = models.PriorityMedium
		}
		tasks = append(tasks, models.Task{ID: i + 1, Week: t.Week, Task: text, Priority: priority})
	}
	return tasks, nil
}
