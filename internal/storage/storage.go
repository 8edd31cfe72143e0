// Package storage содержит адаптер постоянного хранилища: чтение и запись
// структурированных значений (корзина, журнал заказов, подписчик, план)
// в виде JSON поверх подключаемого бэкенда ключ-значение.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound возвращается бэкендом, если ключ отсутствует.
var ErrNotFound = errors.New("key not found")

// KV описывает бэкенд ключ-значение. Реализации должны быть безопасны
// для конкурентного использования.
type KV interface {
	// Read возвращает значение по ключу или ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// Write сохраняет значение по ключу, перезаписывая предыдущее.
	Write(ctx context.Context, key string, value []byte) error
	// Delete удаляет ключ; отсутствие ключа ошибкой не считается.
	Delete(ctx context.Context, key string) error
}

// Adapter сериализует значения в JSON и пишет их в KV.
// Все ключи получают префикс пространства имён.
type Adapter struct {
	kv     KV
	prefix string
}

// NewAdapter создаёт адаптер без префикса.
func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// WithPrefix возвращает адаптер над тем же бэкендом с дополнительным префиксом ключей.
func (a *Adapter) WithPrefix(prefix string) *Adapter {
	return &Adapter{kv: a.kv, prefix: a.prefix + prefix}
}

// Key возвращает полный ключ с учётом префикса.
func (a *Adapter) Key(key string) string {
	return a.prefix + key
}

// Read возвращает сериализованное значение; ok=false, если ключа нет.
func (a *Adapter) Read(ctx context.Context, key string) (string, bool, error) {
	const op = "storage.Adapter.Read"
	raw, err := a.kv.Read(ctx, a.Key(key))
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return string(raw), true, nil
}

// Write сохраняет сериализованное значение.
func (a *Adapter) Write(ctx context.Context, key, value string) error {
	const op = "storage.Adapter.Write"
	if err := a.kv.Write(ctx, a.Key(key), []byte(value)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load читает значение по ключу и декодирует его в dst.
func (a *Adapter) Load(ctx context.Context, key string, dst any) (bool, error) {
	const op = "storage.Adapter.Load"
	raw, ok, err := a.Read(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("%s: decode %s: %w", op, key, err)
	}
	return true, nil
}

// Save кодирует v в JSON и сохраняет по ключу.
func (a *Adapter) Save(ctx context.Context, key string, v any) error {
	const op = "storage.Adapter.Save"
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: encode %s: %w", op, key, err)
	}
	return a.Write(ctx, key, string(data))
}

// Remove удаляет ключ.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	const op = "storage.Adapter.Remove"
	if err := a.kv.Delete(ctx, a.Key(key)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
