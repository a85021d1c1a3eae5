// Package metrics exposes Prometheus counters for identity requests and token refreshes.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels
const (
	OutcomeOK             = "ok"
	OutcomeAuthError      = "auth_error"
	OutcomeTransportError = "transport_error"
	OutcomeMalformed      = "malformed_response"
)

// Collectors groups the counters a Session reports to. A nil *Collectors is valid and records nothing.
type Collectors struct {
	Requests  *prometheus.CounterVec
	Refreshes *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is non-nil.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Subsystem: "session",
			Name:      "requests_total",
			Help:      "Identity endpoint requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "identity",
			Subsystem: "session",
			Name:      "refreshes_total",
			Help:      "Access token refreshes by outcome.",
		}, []string{"outcome"}),
	}
	if reg == nil {
		return c, nil
	}
	for _, col := range []prometheus.Collector{c.Requests, c.Refreshes} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collectors) ObserveRequest(op, outcome string) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(op, outcome).Inc()
}

func (c *Collectors) ObserveRefresh(outcome string) {
	if c == nil {
		return
	}
	c.Refreshes.WithLabelValues(outcome).Inc()
}
