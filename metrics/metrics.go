package metrics

import (
	"errors"
	"regexp"

	"github.com/tarmac-project/logreport"
	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "metrics"
	fnCounter      = "counter"
	fnGauge        = "gauge"
	fnHistogram    = "histogram"
	actionInc      = "inc"
	actionDec      = "dec"
)

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:][a-zA-Z0-9_:]*$`)
)

// HostCall defines the waPC host function signature used by metrics operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Client defines the metrics capability interface.
type Client interface {
	// NewCounter creates a named counter metric handle.
	NewCounter(name string) (*Counter, error)

	// NewGauge creates a named gauge metric handle.
	NewGauge(name string) (*Gauge, error)

	// NewHistogram creates a named histogram metric handle.
	NewHistogram(name string) (*Histogram, error)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig logreport.RuntimeConfig

	// HostCall overrides the waPC host function used for metrics operations.
	HostCall HostCall
}

// HostMetrics is the metrics capability client implementation.
type HostMetrics struct {
	runtime  logreport.RuntimeConfig
	hostCall HostCall
}

// handle is shared by all metric kinds.
type handle struct {
	name      string
	namespace string
	hostCall  HostCall
}

// vtMessage is satisfied by the generated metrics payloads.
type vtMessage interface {
	MarshalVT() ([]byte, error)
}

func (h handle) emit(fn string, msg vtMessage) {
	payload, err := msg.MarshalVT()
	if err != nil {
		return
	}
	_, _ = h.hostCall(h.namespace, capabilityName, fn, payload)
}

// Counter is a named counter metric handle.
type Counter struct{ handle }

// Gauge is a named gauge metric handle.
type Gauge struct{ handle }

// Histogram is a named histogram metric handle.
type Histogram struct{ handle }

var _ Client = (*HostMetrics)(nil)

// New creates a metrics client with namespace defaults and optional host-call override.
func New(config Config) (*HostMetrics, error) {
	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &HostMetrics{runtime: config.SDKConfig.WithDefaults(), hostCall: hostCall}, nil
}

func (c *HostMetrics) handle(name string) (handle, error) {
	if !isMetricNameValid.MatchString(name) {
		return handle{}, ErrInvalidMetricName
	}
	return handle{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// NewCounter creates a named counter metric handle.
func (c *HostMetrics) NewCounter(name string) (*Counter, error) {
	h, err := c.handle(name)
	if err != nil {
		return nil, err
	}
	return &Counter{h}, nil
}

// NewGauge creates a named gauge metric handle.
func (c *HostMetrics) NewGauge(name string) (*Gauge, error) {
	h, err := c.handle(name)
	if err != nil {
		return nil, err
	}
	return &Gauge{h}, nil
}

// NewHistogram creates a named histogram metric handle.
func (c *HostMetrics) NewHistogram(name string) (*Histogram, error) {
	h, err := c.handle(name)
	if err != nil {
		return nil, err
	}
	return &Histogram{h}, nil
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.emit(fnCounter, &proto.MetricsCounter{Name: c.name})
}

// Inc increments the gauge by one.
func (g *Gauge) Inc() {
	g.emit(fnGauge, &proto.MetricsGauge{Name: g.name, Action: actionInc})
}

// Dec decrements the gauge by one.
func (g *Gauge) Dec() {
	g.emit(fnGauge, &proto.MetricsGauge{Name: g.name, Action: actionDec})
}

// Observe records a value for the histogram.
func (h *Histogram) Observe(value float64) {
	h.emit(fnHistogram, &proto.MetricsHistogram{Name: h.name, Value: value})
}
