package reporter

import (
	"errors"
	"reflect"
	"time"

	"github.com/tarmac-project/logreport"
	"github.com/tarmac-project/logreport/exception"
	"github.com/tarmac-project/logreport/logging"
	"github.com/tarmac-project/logreport/metrics"
	"github.com/tarmac-project/logreport/transport"
)

// ErrNoErrorMessage is the failure of ReportNativeError when the value carries
// no readable message. Its text is part of the public contract.
var ErrNoErrorMessage = errors.New("Could not get error message")

// ErrNilTransport is wrapped in a *ConfigurationError when Config.Transport
// holds a nil pointer.
var ErrNilTransport = errors.New("transport is a nil pointer")

// ConfigurationError is returned by New when the transport cannot be set up
// from the given endpoint and token.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return e.Err.Error() }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Config configures a Client.
type Config struct {
	// Endpoint is the base URL of the collector.
	Endpoint string

	// Token authenticates every report.
	Token string

	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig logreport.RuntimeConfig

	// HostCall overrides the waPC host function for the default transport,
	// logger and metrics.
	HostCall func(string, string, string, []byte) ([]byte, error)

	// Compress enables zstd request bodies on the default transport.
	Compress bool

	// Insecure skips TLS verification on the default transport.
	Insecure bool

	// Transport replaces the default host transport. Endpoint and Token are
	// not used when it is set. A typed nil (such as a nil *HostTransport)
	// is rejected with ErrNilTransport.
	Transport transport.Transport

	// Logger receives the client's own trace output. Defaults to the host
	// logging capability.
	Logger logging.Client

	// Metrics, when set, receives dispatch counters and send latency.
	Metrics metrics.Client
}

// Client reports events to the collector. It is safe for concurrent use; all
// of its fields are set once by New and only read afterwards.
type Client struct {
	transport transport.Transport
	stats     *stats
}

// New builds a Client. A transport that rejects the endpoint or token results
// in a *ConfigurationError.
func New(cfg Config) (*Client, error) {
	runtime := cfg.SDKConfig.WithDefaults()

	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{SDKConfig: runtime, HostCall: cfg.HostCall})
		if err != nil {
			return nil, err
		}
	}
	logger.Info("Initializing reporter on " + cfg.Endpoint)

	t := cfg.Transport
	if t != nil && isNilPointer(t) {
		return nil, &ConfigurationError{Err: ErrNilTransport}
	}
	if t == nil {
		ht, err := transport.New(cfg.Token, cfg.Endpoint, transport.Config{
			SDKConfig: runtime,
			HostCall:  cfg.HostCall,
			Compress:  cfg.Compress,
			Insecure:  cfg.Insecure,
		})
		if err != nil {
			return nil, &ConfigurationError{Err: err}
		}
		t = ht
	}

	s, err := newStats(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	return &Client{transport: t, stats: s}, nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

// ReportCustom sends a record with a caller-chosen level. The level is not
// checked against the Severity names.
func (c *Client) ReportCustom(level, message string, stackTrace logreport.StackTrace) *Result {
	return c.dispatch(logreport.NewRecord(level, message, stackTrace))
}

// ReportNativeError sends an "Error" record built from an exception-like
// value. Without a readable message it fails with ErrNoErrorMessage at once
// and nothing is sent.
func (c *Client) ReportNativeError(v exception.Value) *Result {
	rec, err := exception.FromValue(v)
	if err != nil {
		return resolved(ErrNoErrorMessage)
	}
	return c.dispatch(rec)
}

// ReportLevel is ReportCustom with the canonical name of level.
func (c *Client) ReportLevel(level logreport.Severity, message string, stackTrace logreport.StackTrace) *Result {
	return c.ReportCustom(level.String(), message, stackTrace)
}

// dispatch sends rec on its own goroutine. The transport's error is handed
// back unchanged.
func (c *Client) dispatch(rec logreport.Record) *Result {
	r := newResult()
	c.stats.started()

	go func() {
		start := time.Now()
		err := c.transport.Send(rec)
		c.stats.finished(time.Since(start), err)
		r.resolve(err)
	}()

	return r
}
