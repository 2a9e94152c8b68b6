package gate

import "github.com/prometheus/client_golang/prometheus"

func (m *Metrics) Decisions() *prometheus.CounterVec { return m.decisions }

func (m *Metrics) CounterErrors() *prometheus.CounterVec { return m.counterErrors }
