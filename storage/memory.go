package storage

import (
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned by Set when a write would push the store past
// its byte quota.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// KV is a string key-value store scoped to one browser session.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// Memory is an in-memory KV with a byte quota counted over keys and values.
// A quota of zero or less means unlimited.
type Memory struct {
	quota int
	mu    sync.RWMutex
	data  map[string]string
	used  int
}

func NewMemory(quota int) *Memory {
	return &Memory{quota: quota, data: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		used -= len(key) + len(old)
	}
	if m.quota > 0 && used > m.quota {
		return ErrQuotaExceeded
	}
	m.data[key] = value
	m.used = used
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.used -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

// Used reports the bytes currently held.
func (m *Memory) Used() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.used
}
