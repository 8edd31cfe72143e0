// Package storefront реализует бизнес-логику витрины: корзину, оформление
// заказа, подписку, уровни и план действий. Состояние каждого посетителя
// хранится в своём пространстве ключей хранилища.
package storefront

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/artifact"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/leadsync"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/lib/sl"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/metrics"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/models"
	"github.com/magabrotheeeer/affiliate-launchpad/internal/storage"
)

// Ключи состояния посетителя.
const (
	KeyCart        = "al_cart"
	KeyOrders      = "al_orders"
	KeySubscribed  = "al_subscribed"
	KeyCurrentTier = "al_current_tier"
	KeyActionPlan  = "al_action_plan"
)

// Сообщения о некритичных ошибках синхронизации с CRM.
const (
	APIErrorBuyerRejected = "Could not tag buyer in SendShark."
	APIErrorBuyerFailed   = "SendShark error during purchase."
	APIErrorSubscribe     = "Subscription failed. Please try again later."
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartIndex         = errors.New("cart index out of range")
	ErrInvalidEmail      = errors.New("email must contain @")
	ErrInvalidTier       = errors.New("unknown tier")
	ErrInvalidTransition = errors.New("tier transition not allowed")
	ErrNotSubscribed     = errors.New("not subscribed")
	ErrNoPlan            = errors.New("no action plan")
	ErrTaskNotFound      = errors.New("task not found")
)

// ArtifactGenerator создаёт файл для купленного товара.
type ArtifactGenerator interface {
	Generate(ctx context.Context, p models.Product) (*artifact.Artifact, error)
}

// GuideGenerator создаёт приветственное руководство подписчика.
type GuideGenerator interface {
	Generate(ctx context.Context, name string, tier models.Tier) (*artifact.Artifact, error)
}

// Registry выдаёт ссылки на сгенерированные файлы.
type Registry interface {
	Put(ctx context.Context, a *artifact.Artifact) (string, error)
	Get(ctx context.Context, handle string) (*artifact.Artifact, error)
	Revoke(ctx context.Context, handle string) error
}

// LeadSyncer передаёт подписчика во внешний сервис рассылок.
type LeadSyncer interface {
	Sync(ctx context.Context, sub models.LeadSubscriber, tags []string) leadsync.Result
}

// PlanGenerator создаёт ежемесячный план.
type PlanGenerator interface {
	Generate(ctx context.Context, tier models.Tier, now time.Time) (*models.ActionPlan, error)
}

// Mailer отправляет приветственное письмо.
type Mailer interface {
	SendWelcome(ctx context.Context, sub models.Subscriber, leadMagnetLink string) error
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// Deps зависимости сервиса. Mailer, Publisher, Metrics и Now необязательны.
type Deps struct {
	Store          *storage.Adapter
	Catalog        []models.Product
	Artifacts      ArtifactGenerator
	Guides         GuideGenerator
	Registry       Registry
	LeadSync       LeadSyncer
	Plans          PlanGenerator
	Mailer         Mailer
	Publisher      Publisher
	LeadMagnetLink string
	Log            *slog.Logger
	Metrics        *metrics.Metrics
	Now            func() time.Time
}

// Service сервис витрины.
type Service struct {
	deps Deps
}

// New создаёт сервис.
func New(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{deps: d}
}

// Products возвращает каталог.
func (s *Service) Products() []models.Product {
	out := make([]models.Product, len(s.deps.Catalog))
	copy(out, s.deps.Catalog)
	return out
}

// Tiers возвращает описания уровней подписки.
func (s *Service) Tiers() []models.TierInfo {
	return models.Tiers()
}

func (s *Service) product(id string) (models.Product, bool) {
	for _, p := range s.deps.Catalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Download возвращает файл по ссылке.
func (s *Service) Download(ctx context.Context, handle string) (*artifact.Artifact, error) {
	return s.deps.Registry.Get(ctx, handle)
}

// RevokeDownload отзывает ссылку на файл.
func (s *Service) RevokeDownload(ctx context.Context, handle string) error {
	return s.deps.Registry.Revoke(ctx, handle)
}

// Session возвращает представление сервиса для посетителя id.
func (s *Service) Session(id string) *Session {
	return &Session{
		svc:   s,
		id:    id,
		store: s.deps.Store.WithPrefix("session:" + id + ":"),
		log:   s.deps.Log.With(sl.Session(id)),
	}
}

// Session операции одного посетителя.
type Session struct {
	svc   *Service
	id    string
	store *storage.Adapter
	log   *slog.Logger
}

// ID идентификатор сессии.
func (s *Session) ID() string {
	return s.id
}

// Products возвращает каталог.
func (s *Session) Products() []models.Product {
	return s.svc.Products()
}

// Tiers возвращает описания уровней подписки.
func (s *Session) Tiers() []models.TierInfo {
	return s.svc.Tiers()
}

// load читает значение; ошибка хранилища логируется и трактуется как отсутствие значения.
func (s *Session) load(ctx context.Context, key string, dst any) bool {
	found, err := s.store.Load(ctx, key, dst)
	if err != nil {
		s.log.Warn("failed to read state, using empty value", slog.String("key", key), sl.Err(err))
		return false
	}
	return found
}

// save пишет значение; ошибка записи не прерывает операцию.
func (s *Session) save(ctx context.Context, key string, v any) {
	if err := s.store.Save(ctx, key, v); err != nil {
		s.log.Warn("failed to persist state, continuing in memory", slog.String("key", key), sl.Err(err))
	}
}

func (s *Session) remove(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		s.log.Warn("failed to remove state", slog.String("key", key), sl.Err(err))
	}
}

func (s *Session) publish(ctx context.Context, key string, payload any) {
	if s.svc.deps.Publisher == nil {
		return
	}
	if err := s.svc.deps.Publisher.Publish(ctx, key, payload); err != nil {
		s.log.Warn("failed to publish event", slog.String("routing_key", key), sl.Err(err))
	}
}
