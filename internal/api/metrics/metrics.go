// Package metrics defines and registers the custom Prometheus metrics of the
// news management API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Collectors are registered with the default registry through promauto when
// the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "news"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts bearer tokens refused by the Auth middleware.
// Label:
//   - reason: "missing", "malformed", "expired" or "invalid_signature"
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_rejections_total",
		Help:      "Total number of rejected bearer tokens, by reason.",
	},
	[]string{"reason"},
)

// AuthorizationDenialsTotal counts valid tokens whose role is not allowed on a route.
// Label:
//   - role: the role label carried by the token
var AuthorizationDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denials_total",
		Help:      "Total number of requests denied by the role gate.",
	},
	[]string{"role"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// ArticleWritesTotal counts successful article mutations.
// Label:
//   - op: "create", "update", "delete" or "replay"
var ArticleWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "article_writes_total",
		Help:      "Total number of news article writes, by operation.",
	},
	[]string{"op"},
)

// DeletesBlockedTotal counts deletes refused by the referential-integrity guard.
// Label:
//   - resource: "account" or "category"
var DeletesBlockedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deletes_blocked_total",
		Help:      "Total number of deletes blocked by referencing news articles.",
	},
	[]string{"resource"},
)

// ReportDuration measures how long building a report takes.
var ReportDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of report aggregation.",
		Buckets:   prometheus.DefBuckets,
	},
)
