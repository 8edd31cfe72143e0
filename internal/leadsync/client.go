// Package leadsync реализует клиент внешнего сервиса email-рассылок:
// один POST-запрос на добавление подписчика в список с тегами.
// Клиент не повторяет запросы и не возвращает ошибок: результат
// описывается структурой Result, решение о показе ошибки принимает вызывающий.
package leadsync

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// Source значение поля source в теле запроса.
const Source = "affiliate-launchpad"

// ReasonConfigMissing причина пропуска запроса в демо-режиме.
const ReasonConfigMissing = "config_missing"

// Теги, которыми помечаются подписчики.
const (
	TagLead  = "affiliate-lead"
	TagBuyer = "buyer"
)

// Result итог попытки синхронизации.
type Result struct {
	OK     bool           `json:"ok"`
	Status int            `json:"status,omitempty"`
	Body   map[string]any `json:"body,omitempty"`
	Reason string         `json:"reason,omitempty"` // config_missing или текст сетевой ошибки
}

// ConfigMissing сообщает, что запрос не выполнялся из-за отсутствия настроек.
func (r Result) ConfigMissing() bool {
	return r.Reason == ReasonConfigMissing
}

type subscriberRequest struct {
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	Tags      []string `json:"tags"`
	Source    string   `json:"source"`
}

// Client клиент сервиса рассылок.
type Client struct {
	endpoint   string
	apiKey     string
	listID     string
	httpClient *http.Client
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// NewClient создаёт клиент по настройкам. Отсутствие настроек не ошибка:
// такой клиент работает в демо-режиме.
func NewClient(cfg config.LeadSync, log *slog.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		listID:     cfg.ListID,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		metrics:    m,
	}
}

// Configured сообщает, будет ли клиент выполнять сетевые запросы.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.apiKey != "" && c.listID != ""
}

func (c *Client) newRequest(ctx context.Context, body any) (*http.Request, error) {
	u := c.endpoint + "/lists/" + url.PathEscape(c.listID) + "/subscribers"
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Sync добавляет подписчика в список с тегами. Выполняет не более одного запроса.
func (c *Client) Sync(ctx context.Context, sub models.LeadSubscriber, tags []string) Result {
	const op = "leadsync.Sync"
	log := c.log.With(sl.Op(op))

	if !c.Configured() {
		log.Warn("lead sync details missing; skipping API call")
		c.metrics.LeadSync(ReasonConfigMissing)
		return Result{OK: false, Reason: ReasonConfigMissing}
	}

	req, err := c.newRequest(ctx, subscriberRequest{
		Email:     sub.Email,
		FirstName: sub.FirstName,
		Tags:      uniqueTags(tags),
		Source:    Source,
	})
	if err != nil {
		log.Error("failed to build request", sl.Err(err))
		c.metrics.LeadSync("failed")
		return Result{OK: false, Reason: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("lead sync request failed", sl.Err(err))
		c.metrics.LeadSync("failed")
		return Result{OK: false, Reason: err.Error()}
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	result := Result{OK: ok, Status: resp.StatusCode, Body: decodeBody(resp.Body)}
	if ok {
		c.metrics.LeadSync("ok")
		log.Info("subscriber synced", slog.Int("status", resp.StatusCode))
	} else {
		c.metrics.LeadSync("failed")
		log.Warn("lead sync rejected", slog.Int("status", resp.StatusCode))
	}
	return result
}

// decodeBody разбирает JSON-ответ; при любой ошибке возвращает пустой объект.
func decodeBody(r io.Reader) map[string]any {
	body := map[string]any{}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

// uniqueTags убирает повторы, сохраняя порядок. nil превращается в пустой список.
func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
