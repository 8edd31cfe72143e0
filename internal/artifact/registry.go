package artifact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry выдаёт ссылки на сгенерированные артефакты.
// Ссылка живёт до истечения TTL или до явного отзыва.
type Registry interface {
	Put(ctx context.Context, a *Artifact) (string, error)
	Get(ctx context.Context, handle string) (*Artifact, error)
	Revoke(ctx context.Context, handle string) error
}

type memoryEntry struct {
	artifact  *Artifact
	expiresAt time.Time
}

// MemoryRegistry хранит артефакты в памяти процесса.
// Просроченные записи удаляются при каждом обращении.
type MemoryRegistry struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEntry
}

// NewMemoryRegistry создаёт реестр; ttl <= 0 означает бессрочные ссылки.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]memoryEntry),
	}
}

// Put регистрирует артефакт и возвращает новую ссылку.
func (r *MemoryRegistry) Put(_ context.Context, a *Artifact) (string, error) {
	handle := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()

	entry := memoryEntry{artifact: a}
	if r.ttl > 0 {
		entry.expiresAt = r.now().Add(r.ttl)
	}
	r.items[handle] = entry
	return handle, nil
}

// Get возвращает артефакт или ErrNotFound.
func (r *MemoryRegistry) Get(_ context.Context, handle string) (*Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()

	entry, ok := r.items[handle]
	if !ok {
		return nil, ErrNotFound
	}
	return entry.artifact, nil
}

// Revoke отзывает ссылку. Повторный отзыв ошибкой не считается.
func (r *MemoryRegistry) Revoke(_ context.Context, handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, handle)
	r.sweep()
	return nil
}

// Len число живых ссылок.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	return len(r.items)
}

func (r *MemoryRegistry) sweep() {
	now := r.now()
	for h, e := range r.items {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(r.items, h)
		}
	}
}

// JSONCache хранилище с временем жизни ключей, например *cache.Cache.
type JSONCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisRegistry хранит артефакты в Redis; истечение обеспечивает TTL ключа.
type RedisRegistry struct {
	cache  JSONCache
	ttl    time.Duration
	prefix string
}

// NewRedisRegistry создаёт реестр поверх кеша.
func NewRedisRegistry(c JSONCache, ttl time.Duration) *RedisRegistry {
	return &RedisRegistry{cache: c, ttl: ttl, prefix: "artifact:"}
}

// Put сохраняет артефакт под новой ссылкой.
func (r *RedisRegistry) Put(ctx context.Context, a *Artifact) (string, error) {
	const op = "artifact.RedisRegistry.Put"
	handle := uuid.NewString()
	if err := r.cache.Set(ctx, r.prefix+handle, a, r.ttl); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return handle, nil
}

// Get читает артефакт по ссылке.
func (r *RedisRegistry) Get(ctx context.Context, handle string) (*Artifact, error) {
	const op = "artifact.RedisRegistry.Get"
	var a Artifact
	found, err := r.cache.Get(ctx, r.prefix+handle, &a)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &a, nil
}

// Revoke удаляет ссылку. Отсутствие ключа ошибкой не считается.
func (r *RedisRegistry) Revoke(ctx context.Context, handle string) error {
	const op = "artifact.RedisRegistry.Revoke"
	if err := r.cache.Delete(ctx, r.prefix+handle); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
