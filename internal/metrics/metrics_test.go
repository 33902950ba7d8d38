package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/guyghost/wakeve-auth/domain"
)

func TestCollector_RecordsAndServes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(domain.AuthMethodGoogle, true)
	c.RecordLogin(domain.AuthMethodEmail, false)
	c.RecordOAuthExchange(domain.AuthMethodGoogle, true)
	c.RecordRefresh(true)
	c.RecordRevocation()
	c.RecordBlacklistHit()
	c.RecordBlacklistMiss()
	c.RecordBlacklistEviction()
	c.ObserveLoginLatency(120 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, metric := range []string{
		`wakeve_auth_logins_total{provider="GOOGLE",success="true"} 1`,
		`wakeve_auth_logins_total{provider="EMAIL",success="false"} 1`,
		"wakeve_auth_revocations_total 1",
		"wakeve_auth_blacklist_cache_hits_total 1",
		"wakeve_auth_blacklist_cache_misses_total 1",
		"wakeve_auth_blacklist_cache_evictions_total 1",
		"wakeve_auth_login_latency_seconds_count 1",
	} {
		if !strings.Contains(string(body), metric) {
			t.Errorf("scrape output missing %q", metric)
		}
	}
}

func TestCollector_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering the same collector twice should panic")
		}
	}()
	NewCollector(reg)
}
