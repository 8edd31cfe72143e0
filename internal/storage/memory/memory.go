// Package memory реализует хранилище ключ-значение в памяти процесса.
// Используется в тестах и в демо-режиме без внешних зависимостей.
package memory

import (
	"context"
	"sync"

	"github.com/magabrotheeeer/affiliate-launchpad/internal/storage"
)

// Store потокобезопасная map ключ -> значение.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Read возвращает копию значения или storage.ErrNotFound.
func (s *Store) Read(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Write сохраняет копию значения.
func (s *Store) Write(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete удаляет ключ.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len возвращает количество ключей.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
