package gate

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gate's Prometheus collectors.
type Metrics struct {
	decisions     *prometheus.CounterVec
	counterErrors *prometheus.CounterVec
}

// NewMetrics creates the gate collectors and registers them with reg.
// A nil reg leaves them unregistered. Collectors already registered under
// the same names are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "entitlement",
				Subsystem: "gate",
				Name:      "decisions_total",
				Help:      "Total number of gate decisions by action, plan and outcome.",
			},
			[]string{"action", "plan", "allowed", "reason", "retryable"},
		),
		counterErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "entitlement",
				Subsystem: "gate",
				Name:      "counter_errors_total",
				Help:      "Total number of usage count lookups that failed.",
			},
			[]string{"resource"},
		),
	}
	if reg == nil {
		return m, nil
	}

	var err error
	m.decisions, err = register(reg, m.decisions)
	if err != nil {
		return nil, err
	}
	m.counterErrors, err = register(reg, m.counterErrors)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func register(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}

func (m *Metrics) observe(a Action, d Decision) {
	m.decisions.WithLabelValues(
		string(a),
		string(d.Plan),
		strconv.FormatBool(d.Allowed),
		string(d.Reason),
		strconv.FormatBool(d.Retryable),
	).Inc()
}
