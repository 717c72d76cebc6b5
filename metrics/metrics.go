// Package metrics exposes prometheus counters for the auth lifecycle.
// Register once at startup with MustRegister; the engine and workers
// increment them directly.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	RefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_refreshes_total",
			Help: "Total number of access-token refresh attempts.",
		},
		[]string{"result"},
	)

	LogoutsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_logouts_total",
			Help: "Total number of logout operations.",
		},
	)

	SessionsRevokedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sessions_revoked_total",
			Help: "Total number of sessions revoked.",
		},
		[]string{"reason"},
	)

	TokensBlacklistedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_tokens_blacklisted_total",
			Help: "Total number of access tokens added to the blacklist.",
		},
	)

	SessionsReapedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_sessions_reaped_total",
			Help: "Total number of expired session rows deleted by the reaper.",
		},
	)
)

// MustRegister registers all collectors on reg. Call once per process.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		LoginsTotal,
		RefreshesTotal,
		LogoutsTotal,
		SessionsRevokedTotal,
		TokensBlacklistedTotal,
		SessionsReapedTotal,
	)
}
