package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/artifact"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/events"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/leadsync"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// Checkout оформляет заказ из текущей корзины. Этапы выполняются по порядку
// и не откатываются: файлы, журнал заказов, синхронизация покупателя, очистка корзины.
// Ошибка синхронизации не отменяет заказ и попадает в поле APIError.
func (s *Session) Checkout(ctx context.Context, buyer models.Buyer) (*models.Order, error) {
	const op = "storefront.Checkout"
	log := s.log.With(sl.Op(op))
	m := s.svc.deps.Metrics

	buyer.Email = strings.TrimSpace(buyer.Email)
	if buyer.Email != "" && !strings.Contains(buyer.Email, "@") {
		m.Checkout("rejected")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}

	items := s.cartItems(ctx)
	if len(items) == 0 {
		m.Checkout("rejected")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%s: order id: %w", op, err)
	}

	buyer.Name = strings.TrimSpace(buyer.Name)
	if buyer.Name == "" {
		buyer.Name = "Anonymous"
	}
	if buyer.Email == "" {
		var sub models.Subscriber
		if s.load(ctx, KeySubscribed, &sub) {
			buyer.Email = sub.Email
		}
	}

	order := &models.Order{
		ID:        "ORD-" + id.String(),
		Items:     items,
		Buyer:     buyer,
		Date:      s.svc.deps.Now().UTC(),
		Downloads: make([]models.Download, 0, len(items)),
	}
	log = log.With(slog.String("order_id", order.ID))

	for _, item := range items {
		order.Downloads = append(order.Downloads, s.download(ctx, log, item))
	}

	var history []models.Order
	s.load(ctx, KeyOrders, &history)
	history = append(history, *order)
	s.save(ctx, KeyOrders, history)

	if buyer.Email == "" {
		log.Debug("buyer has no email, lead sync skipped")
	} else {
		res := s.svc.deps.LeadSync.Sync(ctx,
			models.LeadSubscriber{Email: buyer.Email, FirstName: buyer.Name},
			[]string{leadsync.TagBuyer})
		if apiErr := buyerAPIError(res); apiErr != "" {
			order.APIError = apiErr
			history[len(history)-1].APIError = apiErr
			s.save(ctx, KeyOrders, history)
		}
	}

	s.remove(ctx, KeyCart)

	s.publish(ctx, events.KeyOrderPlaced, events.OrderPlaced{
		OrderID:    order.ID,
		Email:      buyer.Email,
		ProductIDs: productIDs(items),
		Total:      models.NewCart(items).Total,
		APIError:   order.APIError,
		Date:       order.Date,
	})

	if order.APIError != "" {
		m.Checkout("placed_with_api_error")
	} else {
		m.Checkout("placed")
	}
	log.Info("order placed", slog.Int("items", len(items)), slog.String("api_error", order.APIError))
	return order, nil
}

// download генерирует и регистрирует файл позиции; ошибка помечает позицию, но не прерывает заказ.
func (s *Session) download(ctx context.Context, log *slog.Logger, item models.CartItem) models.Download {
	a, err := s.svc.deps.Artifacts.Generate(ctx, item)
	if err != nil {
		log.Warn("artifact generation failed", slog.String("product_id", item.ID), sl.Err(err))
		return models.Download{ProductID: item.ID, Error: err.Error()}
	}
	handle, err := s.svc.deps.Registry.Put(ctx, a)
	if err != nil {
		log.Warn("artifact registration failed", slog.String("product_id", item.ID), sl.Err(err))
		return models.Download{ProductID: item.ID, Filename: a.Filename, ContentType: a.ContentType, Error: err.Error()}
	}
	return artifact.Download(item.ID, handle, a)
}

// buyerAPIError переводит результат синхронизации покупателя в текст для заказа.
// Отсутствие настроек штатный режим и ошибкой не считается.
func buyerAPIError(res leadsync.Result) string {
	switch {
	case res.OK, res.ConfigMissing():
		return ""
	case res.Status == 0:
		return APIErrorBuyerFailed
	default:
		return APIErrorBuyerRejected
	}
}

func productIDs(items []models.CartItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

// Orders возвращает журнал заказов в порядке оформления.
func (s *Session) Orders(ctx context.Context) []models.Order {
	var history []models.Order
	if !s.load(ctx, KeyOrders, &history) || history == nil {
		return []models.Order{}
	}
	return history
}
