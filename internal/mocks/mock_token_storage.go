package mocks

import (
	"sync"
)

// MockTokenStorage implements domain.TokenStorage for testing.
// Default behavior is an in-memory map; individual methods can be overridden
// through the Func fields to simulate storage failures.
type MockTokenStorage struct {
	mu     sync.Mutex
	values map[string]string

	StoreStringFunc func(key, value string) error
	GetStringFunc   func(key string) (string, bool, error)
	RemoveFunc      func(key string) error
	ContainsFunc    func(key string) (bool, error)
	ClearAllFunc    func() error
}

// NewMockTokenStorage creates a new MockTokenStorage with default behaviors.
func NewMockTokenStorage() *MockTokenStorage {
	return &MockTokenStorage{values: make(map[string]string)}
}

func (m *MockTokenStorage) StoreString(key, value string) error {
	if m.StoreStringFunc != nil {
		return m.StoreStringFunc(key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockTokenStorage) GetString(key string) (string, bool, error) {
	if m.GetStringFunc != nil {
		return m.GetStringFunc(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockTokenStorage) Remove(key string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *MockTokenStorage) Contains(key string) (bool, error) {
	if m.ContainsFunc != nil {
		return m.ContainsFunc(key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok, nil
}

func (m *MockTokenStorage) ClearAll() error {
	if m.ClearAllFunc != nil {
		return m.ClearAllFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}
