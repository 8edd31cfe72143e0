package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/config"
)

// Ключи маршрутизации событий.
const (
	KeyOrderPlaced       = "order.placed"
	KeySubscriberCreated = "subscriber.created"
)

// OrderPlaced событие оформленного заказа.
type OrderPlaced struct {
	OrderID    string    `json:"order_id"`
	Email      string    `json:"email"`
	ProductIDs []string  `json:"product_ids"`
	Total      float64   `json:"total"`
	APIError   string    `json:"api_error,omitempty"`
	Date       time.Time `json:"date"`
}

// SubscriberCreated событие новой подписки.
type SubscriberCreated struct {
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	Tier       string    `json:"tier"`
	LeadSynced bool      `json:"lead_synced"`
	Date       time.Time `json:"date"`
}

// Channel часть *amqp.Channel, нужная издателю.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher публикует события в обменник в формате JSON.
type Publisher struct {
	ch       Channel
	conn     *amqp.Connection
	exchange string
}

// NewPublisher создаёт издателя поверх открытого канала.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Dial подключается к брокеру по настройкам и готовит обменник.
func Dial(cfg config.RabbitMQ, retries int, delay time.Duration) (*Publisher, error) {
	const op = "events.Dial"
	conn, err := Connect(cfg.URL, retries, delay)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	ch, err := SetupChannel(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	p := NewPublisher(ch, cfg.Exchange)
	p.conn = conn
	return p, nil
}

// Publish сериализует payload и отправляет его с ключом routingKey.
func (p *Publisher) Publish(_ context.Context, routingKey string, payload any) error {
	const op = "events.Publisher.Publish"
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал и соединение.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NopPublisher используется, когда брокер не настроен.
type NopPublisher struct {
	Log *slog.Logger
}

// Publish только пишет событие в отладочный лог.
func (p NopPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	if p.Log != nil {
		p.Log.Debug("event publishing disabled", slog.String("routing_key", routingKey))
	}
	return nil
}

// Close ничего не делает.
func (NopPublisher) Close() error { return nil }
