package mocks

import (
	"sync"
	"time"

	"github.com/guyghost/wakeve-auth/domain"
)

// MockMetricsCollector implements domain.MetricsCollector for testing.
// Counters are plain fields guarded by a mutex so tests can assert on them.
type MockMetricsCollector struct {
	mu                 sync.Mutex
	Logins             int
	FailedLogins       int
	OAuthExchanges     int
	Refreshes          int
	Revocations        int
	BlacklistHits      int
	BlacklistMisses    int
	BlacklistEvictions int
	LoginLatencies     []time.Duration
}

// NewMockMetricsCollector creates a new MockMetricsCollector.
func NewMockMetricsCollector() *MockMetricsCollector {
	return &MockMetricsCollector{}
}

func (m *MockMetricsCollector) RecordLogin(provider domain.AuthMethod, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.Logins++
	} else {
		m.FailedLogins++
	}
}

func (m *MockMetricsCollector) RecordOAuthExchange(provider domain.AuthMethod, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OAuthExchanges++
}

func (m *MockMetricsCollector) RecordRefresh(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes++
}

func (m *MockMetricsCollector) RecordRevocation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Revocations++
}

func (m *MockMetricsCollector) RecordBlacklistHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BlacklistHits++
}

func (m *MockMetricsCollector) RecordBlacklistMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BlacklistMisses++
}

func (m *MockMetricsCollector) RecordBlacklistEviction() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.BlacklistEvictions++
}

func (m *MockMetricsCollector) ObserveLoginLatency(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoginLatencies = append(m.LoginLatencies, d)
}
