// Package metrics exposes prometheus collectors for the authentication flow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "oauthgate"

var (
	// LoginsTotal counts completed authentication flows by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Authentication flows by outcome.",
	}, []string{"outcome"})

	// PrincipalsCreatedTotal counts first-time logins that created a principal.
	PrincipalsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "principals_created_total",
		Help:      "Principals created on first login.",
	})

	// UpsertConflictsTotal counts inserts that lost a race and fell back to update.
	UpsertConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_upsert_conflicts_total",
		Help:      "Concurrent first-login inserts resolved by the update path.",
	})

	// SessionValidationsTotal counts session validations by result.
	SessionValidationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Session validations by result.",
	}, []string{"result"})

	// AuditWriteFailuresTotal counts swallowed audit append failures.
	AuditWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Login events that could not be written.",
	})

	// SessionsSweptTotal counts expired session rows removed by the sweeper.
	SessionsSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_swept_total",
		Help:      "Expired sessions removed by the background sweeper.",
	})
)

// Outcome and result label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
