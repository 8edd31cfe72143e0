package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/artifact"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/events"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/leadsync"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
)

// SubscribeRequest данные формы подписки.
type SubscribeRequest struct {
	Email     string
	FirstName string
	Tier      string
}

// SubscribeResult итог подписки.
type SubscribeResult struct {
	Subscriber     models.Subscriber  `json:"subscriber"`
	Plan           *models.ActionPlan `json:"plan"`
	Guide          models.Download    `json:"guide"`
	LeadMagnetLink string             `json:"leadMagnetLink,omitempty"` // Только при успешной синхронизации
	LeadSync       leadsync.Result    `json:"leadSync"`
	APIError       string             `json:"apiError,omitempty"`
}

// Subscription текущее состояние подписки.
type Subscription struct {
	Subscriber models.Subscriber `json:"subscriber"`
	Tier       models.Tier       `json:"tier"`
}

// Subscribe подписывает посетителя. Некорректный email отклоняется до любых изменений.
// Синхронизация с CRM, руководство, письмо и событие выполняются по возможности.
func (s *Session) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error) {
	const op = "storefront.Subscribe"
	log := s.log.With(sl.Op(op))

	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidEmail)
	}
	tier, err := models.ParseTier(req.Tier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidTier, err)
	}
	firstName := strings.TrimSpace(req.FirstName)
	now := s.svc.deps.Now().UTC()

	res := s.svc.deps.LeadSync.Sync(ctx,
		models.LeadSubscriber{Email: email, FirstName: firstName},
		[]string{leadsync.TagLead})

	sub := models.Subscriber{Email: email, FirstName: firstName, Tier: tier, Date: now}
	s.save(ctx, KeySubscribed, sub)
	s.save(ctx, KeyCurrentTier, tier)

	plan, err := s.svc.deps.Plans.Generate(ctx, tier, now)
	if err != nil {
		return nil, fmt.Errorf("%s: generate plan: %w", op, err)
	}
	s.save(ctx, KeyActionPlan, plan)

	result := &SubscribeResult{
		Subscriber: sub,
		Plan:       plan,
		Guide:      s.guide(ctx, log, firstName, tier),
		LeadSync:   res,
	}
	switch {
	case res.OK:
		result.LeadMagnetLink = s.svc.deps.LeadMagnetLink
	case !res.ConfigMissing():
		result.APIError = APIErrorSubscribe
	}

	if s.svc.deps.Mailer != nil {
		if err := s.svc.deps.Mailer.SendWelcome(ctx, sub, s.svc.deps.LeadMagnetLink); err != nil {
			log.Warn("failed to send welcome email", sl.Err(err))
		}
	}
	s.publish(ctx, events.KeySubscriberCreated, events.SubscriberCreated{
		Email:      sub.Email,
		FirstName:  sub.FirstName,
		Tier:       string(sub.Tier),
		LeadSynced: res.OK,
		Date:       sub.Date,
	})

	log.Info("subscriber created", slog.String("tier", string(tier)), slog.Bool("lead_synced", res.OK))
	return result, nil
}

// guide генерирует приветственное руководство; ошибка помечает ссылку, но не отменяет подписку.
func (s *Session) guide(ctx context.Context, log *slog.Logger, name string, tier models.Tier) models.Download {
	productID := "guide-" + string(tier)
	a, err := s.svc.deps.Guides.Generate(ctx, name, tier)
	if err != nil {
		log.Warn("guide generation failed", sl.Err(err))
		return models.Download{ProductID: productID, Error: err.Error()}
	}
	handle, err := s.svc.deps.Registry.Put(ctx, a)
	if err != nil {
		log.Warn("guide registration failed", sl.Err(err))
		return models.Download{ProductID: productID, Filename: a.Filename, ContentType: a.ContentType, Error: err.Error()}
	}
	return artifact.Download(productID, handle, a)
}

// currentTier возвращает сохранённый уровень или ErrNotSubscribed.
func (s *Session) currentTier(ctx context.Context) (models.Tier, error) {
	var tier models.Tier
	if !s.load(ctx, KeyCurrentTier, &tier) || !tier.Valid() {
		return "", ErrNotSubscribed
	}
	return tier, nil
}

// Subscription возвращает подписчика и текущий уровень.
func (s *Session) Subscription(ctx context.Context) (*Subscription, error) {
	const op = "storefront.Subscription"
	var sub models.Subscriber
	if !s.load(ctx, KeySubscribed, &sub) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotSubscribed)
	}
	tier, err := s.currentTier(ctx)
	if errors.Is(err, ErrNotSubscribed) {
		tier = sub.Tier
	}
	if tier == "" {
		tier = models.TierBasic
	}
	return &Subscription{Subscriber: sub, Tier: tier}, nil
}

// UpgradeTier переводит подписчика на уровень next. Разрешён только переход basic -> premium.
func (s *Session) UpgradeTier(ctx context.Context, next models.Tier) (*Subscription, error) {
	const op = "storefront.UpgradeTier"

	current, err := s.currentTier(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !current.CanUpgradeTo(next) {
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, current, next, ErrInvalidTransition)
	}

	s.save(ctx, KeyCurrentTier, next)
	var sub models.Subscriber
	if s.load(ctx, KeySubscribed, &sub) {
		sub.Tier = next
		s.save(ctx, KeySubscribed, sub)
	}
	s.log.Info("tier upgraded", slog.String("from", string(current)), slog.String("to", string(next)))
	return &Subscription{Subscriber: sub, Tier: next}, nil
}
