// Package metrics содержит Prometheus-метрики витрины.
// Все методы безопасны для nil-получателя: компоненты можно создавать без метрик.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "launchpad"

// Metrics набор коллекторов сервиса.
type Metrics struct {
	checkouts       *prometheus.CounterVec
	leadSync        *prometheus.CounterVec
	artifacts       *prometheus.CounterVec
	coverFallbacks  prometheus.Counter
	planGenerations *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkouts_total",
			Help:      "Checkout attempts by outcome.",
		}, []string{"outcome"}),
		leadSync: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_sync_total",
			Help:      "Lead sync attempts by result.",
		}, []string{"result"}),
		artifacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifacts_total",
			Help:      "Generated artifacts by strategy and result.",
		}, []string{"strategy", "result"}),
		coverFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cover_image_fallbacks_total",
			Help:      "Documents rendered without their cover image.",
		}),
		planGenerations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_generations_total",
			Help:      "Action plans generated by tier.",
		}, []string{"tier"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.checkouts, m.leadSync, m.artifacts, m.coverFallbacks, m.planGenerations, m.httpDuration)
	return m
}

// Checkout учитывает попытку оформления заказа.
func (m *Metrics) Checkout(outcome string) {
	if m == nil {
		return
	}
	m.checkouts.WithLabelValues(outcome).Inc()
}

// LeadSync учитывает результат синхронизации подписчика.
func (m *Metrics) LeadSync(result string) {
	if m == nil {
		return
	}
	m.leadSync.WithLabelValues(result).Inc()
}

// Artifact учитывает сгенерированный артефакт.
func (m *Metrics) Artifact(strategy string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.artifacts.WithLabelValues(strategy, result).Inc()
}

// CoverFallback учитывает документ без обложки.
func (m *Metrics) CoverFallback() {
	if m == nil {
		return
	}
	m.coverFallbacks.Inc()
}

// PlanGenerated учитывает генерацию плана.
func (m *Metrics) PlanGenerated(tier string) {
	if m == nil {
		return
	}
	m.planGenerations.WithLabelValues(tier).Inc()
}

// ObserveHTTP записывает длительность HTTP-запроса.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
