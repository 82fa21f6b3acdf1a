package reporter

import (
	"time"

	"github.com/tarmac-project/logreport/metrics"
)

const (
	metricDispatched = "logreport_dispatched_total"
	metricFailed     = "logreport_failed_total"
	metricInflight   = "logreport_inflight"
	metricLatency    = "logreport_send_seconds"
)

// stats forwards dispatch events to the metrics capability. A nil *stats
// records nothing.
type stats struct {
	dispatched *metrics.Counter
	failed     *metrics.Counter
	inflight   *metrics.Gauge
	latency    *metrics.Histogram
}

func newStats(m metrics.Client) (*stats, error) {
	if m == nil {
		return nil, nil
	}

	var (
		s   stats
		err error
	)
	if s.dispatched, err = m.NewCounter(metricDispatched); err != nil {
		return nil, err
	}
	if s.failed, err = m.NewCounter(metricFailed); err != nil {
		return nil, err
	}
	if s.inflight, err = m.NewGauge(metricInflight); err != nil {
		return nil, err
	}
	if s.latency, err = m.NewHistogram(metricLatency); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *stats) started() {
	if s == nil {
		return
	}
	s.dispatched.Inc()
	s.inflight.Inc()
}

func (s *stats) finished(d time.Duration, err error) {
	if s == nil {
		return
	}
	s.inflight.Dec()
	s.latency.Observe(d.Seconds())
	if err != nil {
		s.failed.Inc()
	}
}
