package plan

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

var testNow = time.Date(2026, time.October, 15, 9, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTasks(t *testing.T) {
	basic := Tasks(models.TierBasic)
	premium := Tasks(models.TierPremium)

	require.Len(t, basic, 12)
	require.Len(t, premium, 16)
	assert.Equal(t, basic, premium[:12])
	for i, task := range premium {
		assert.Equal(t, i+1, task.ID)
		assert.GreaterOrEqual(t, task.Week, 1)
		assert.LessOrEqual(t, task.Week, 4)
		assert.False(t, task.Completed)
	}

	// Копия не должна разделять память с шаблоном.
	basic[0].Completed = true
	assert.False(t, Tasks(models.TierBasic)[0].Completed)
}

func TestStaticGenerator_Generate(t *testing.T) {
	tests := []struct {
		name  string
		tier  models.Tier
		total int
	}{
		{name: "basic", tier: models.TierBasic, total: 12},
		{name: "premium", tier: models.TierPremium, total: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewStaticGenerator(0, nil)
			p, err := g.Generate(context.Background(), tt.tier, testNow)
			require.NoError(t, err)

			assert.Equal(t, "October 2026", p.Month)
			assert.Equal(t, tt.tier, p.Tier)
			assert.Equal(t, testNow, p.Generated)
			assert.Equal(t, testNow, p.LastUpdated)
			assert.Len(t, p.Tasks, tt.total)
			assert.Equal(t, models.PlanStats{Total: tt.total, Completed: 0, Progress: 0}, p.Stats)
		})
	}
}

func TestStaticGenerator_Deterministic(t *testing.T) {
	g := NewStaticGenerator(0, nil)
	a, err := g.Generate(context.Background(), models.TierPremium, testNow)
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), models.TierPremium, testNow)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStaticGenerator_DelayHonoursContext(t *testing.T) {
	g := NewStaticGenerator(time.Hour, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	p, err := g.Generate(ctx, models.TierBasic, testNow)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStaticGenerator_Delay(t *testing.T) {
	g := NewStaticGenerator(20*time.Millisecond, nil)
	start := time.Now()
	_, err := g.Generate(context.Background(), models.TierBasic, testNow)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func chatReply(t *testing.T, content string) []byte {
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

func newServiceGenerator(url string) *ServiceGenerator {
	cfg := config.ActionPlan{Endpoint: url, APIKey: "plan-key", Model: "test-model"}
	return NewServiceGenerator(cfg, &http.Client{Timeout: time.Second}, discardLogger(), nil)
}

func TestServiceGenerator_UsesServiceTasks(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer plan-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write(chatReply(t, `{"tasks":[
			{"week":1,"task":"  Pick a niche ","priority":"HIGH"},
			{"week":2,"task":"Write a review","priority":"urgent"}
		]}`))
	}))
	defer srv.Close()

	p, err := newServiceGenerator(srv.URL).Generate(context.Background(), models.TierBasic, testNow)
	require.NoError(t, err)

	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Contains(t, got.Messages[1].Content, "12 tasks")

	require.Len(t, p.Tasks, 2)
	assert.Equal(t, models.Task{ID: 1, Week: 1, Task: "Pick a niche", Priority: models.PriorityHigh}, p.Tasks[0])
	assert.Equal(t, models.Task{ID: 2, Week: 2, Task: "Write a review", Priority: models.PriorityMedium}, p.Tasks[1])
	assert.Equal(t, 2, p.Stats.Total)
	assert.Equal(t, "October 2026", p.Month)
}

func TestServiceGenerator_FallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("<html>"))
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "empty task list",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(chatReply(t, `{"tasks":[]}`))
			},
		},
		{
			name: "week out of range",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write(chatReply(t, `{"tasks":[{"week":7,"task":"x","priority":"low"}]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			p, err := newServiceGenerator(srv.URL).Generate(context.Background(), models.TierPremium, testNow)
			require.NoError(t, err)
			assert.Equal(t, Tasks(models.TierPremium), p.Tasks)
			assert.Equal(t, 16, p.Stats.Total)
		})
	}
}

func TestServiceGenerator_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(chatReply(t, `{"tasks":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newServiceGenerator(srv.URL).Generate(ctx, models.TierBasic, testNow)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	g, err := New(config.ActionPlan{Generator: config.PlanStatic}, discardLogger(), nil)
	require.NoError(t, err)
	assert.IsType(t, &StaticGenerator{}, g)

	g, err = New(config.ActionPlan{Generator: config.PlanService, Endpoint: "http://plans.test"}, discardLogger(), nil)
	require.NoError(t, err)
	assert.IsType(t, &ServiceGenerator{}, g)

	_, err = New(config.ActionPlan{Generator: config.PlanService}, discardLogger(), nil)
	assert.Error(t, err)

	_, err = New(config.ActionPlan{Generator: "oracle"}, discardLogger(), nil)
	assert.Error(t, err)
}
