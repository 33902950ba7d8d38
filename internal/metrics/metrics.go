// Package metrics collects and exposes Prometheus metrics for the
// authentication flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/guyghost/wakeve-auth/domain"
)

// Collector implements domain.MetricsCollector on Prometheus.
type Collector struct {
	logins         *prometheus.CounterVec
	oauthExchanges *prometheus.CounterVec
	refreshes      *prometheus.CounterVec
	revocations    prometheus.Counter
	blacklistHits  prometheus.Counter
	blacklistMiss  prometheus.Counter
	blacklistEvict prometheus.Counter
	loginLatency   prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with the given
// registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wakeve_auth_logins_total",
			Help: "Login attempts by provider and outcome.",
		}, []string{"provider", "success"}),
		oauthExchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wakeve_auth_oauth_exchanges_total",
			Help: "OAuth authorization-code exchanges by provider and outcome.",
		}, []string{"provider", "success"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wakeve_auth_refreshes_total",
			Help: "Token refreshes by outcome.",
		}, []string{"success"}),
		revocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakeve_auth_revocations_total",
			Help: "Session revocations.",
		}),
		blacklistHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakeve_auth_blacklist_cache_hits_total",
			Help: "Blacklist lookups answered from the cache.",
		}),
		blacklistMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakeve_auth_blacklist_cache_misses_total",
			Help: "Blacklist lookups that fell through to the session store.",
		}),
		blacklistEvict: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wakeve_auth_blacklist_cache_evictions_total",
			Help: "Blacklist cache entries dropped for capacity or staleness.",
		}),
		loginLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wakeve_auth_login_latency_seconds",
			Help:    "End-to-end login latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.logins,
		c.oauthExchanges,
		c.refreshes,
		c.revocations,
		c.blacklistHits,
		c.blacklistMiss,
		c.blacklistEvict,
		c.loginLatency,
	)

	return c
}

func (c *Collector) RecordLogin(provider domain.AuthMethod, success bool) {
	c.logins.WithLabelValues(string(provider), strconv.FormatBool(success)).Inc()
}

func (c *Collector) RecordOAuthExchange(provider domain.AuthMethod, success bool) {
	c.oauthExchanges.WithLabelValues(string(provider), strconv.FormatBool(success)).Inc()
}

func (c *Collector) RecordRefresh(success bool) {
	c.refreshes.WithLabelValues(strconv.FormatBool(success)).Inc()
}

func (c *Collector) RecordRevocation() {
	c.revocations.Inc()
}

func (c *Collector) RecordBlacklistHit() {
	c.blacklistHits.Inc()
}

func (c *Collector) RecordBlacklistMiss() {
	c.blacklistMiss.Inc()
}

func (c *Collector) RecordBlacklistEviction() {
	c.blacklistEvict.Inc()
}

func (c *Collector) ObserveLoginLatency(d time.Duration) {
	c.loginLatency.Observe(d.Seconds())
}

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var _ domain.MetricsCollector = (*Collector)(nil)
