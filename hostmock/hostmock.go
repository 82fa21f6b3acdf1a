package hostmock

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnexpectedNamespace is returned when the namespace is not as expected.
	ErrUnexpectedNamespace = errors.New("unexpected namespace")

	// ErrUnexpectedCapability is returned when the capability is not as expected.
	ErrUnexpectedCapability = errors.New("unexpected capability")

	// ErrUnexpectedFunction is returned when the function is not as expected.
	ErrUnexpectedFunction = errors.New("unexpected function")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Call is one recorded host invocation.
type Call struct {
	Namespace  string
	Capability string
	Function   string
	Payload    []byte
}

// Config represents the configuration for creating a Mock instance.
//
// Empty Expected* fields act as wildcards.
type Config struct {
	// ExpectedNamespace defines the namespace expected in the host call.
	ExpectedNamespace string

	// ExpectedCapability defines the capability expected in the host call.
	ExpectedCapability string

	// ExpectedFunction defines the function name expected in the host call.
	ExpectedFunction string

	// Error is the error to return if the mock is configured to fail.
	Error error

	// PayloadValidator validates the payload passed to the host call.
	PayloadValidator func([]byte) error

	// Response defines the response to return for the host call.
	Response func() []byte

	// Fail indicates whether the mock should return an error.
	Fail bool
}

// Mock simulates the waPC host. It is safe for concurrent use.
type Mock struct {
	cfg Config

	mu    sync.Mutex
	calls []Call
}

// New creates a new instance of the Mock based on the provided Config.
func New(config Config) (*Mock, error) {
	return &Mock{cfg: config}, nil
}

// Calls returns a copy of every invocation seen so far, in arrival order.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	for i, c := range m.calls {
		c.Payload = append([]byte(nil), c.Payload...)
		out[i] = c
	}
	return out
}

// HostCall simulates a host call, validating inputs and returning a response or error.
func (m *Mock) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{
		Namespace:  namespace,
		Capability: capability,
		Function:   function,
		Payload:    append([]byte(nil), payload...),
	})
	m.mu.Unlock()

	if m.cfg.Fail {
		if m.cfg.Error != nil {
			return nil, m.cfg.Error
		}
		return nil, ErrOperationFailed
	}

	if err := expect(ErrUnexpectedNamespace, "namespace", m.cfg.ExpectedNamespace, namespace); err != nil {
		return nil, err
	}
	if err := expect(ErrUnexpectedCapability, "capability", m.cfg.ExpectedCapability, capability); err != nil {
		return nil, err
	}
	if err := expect(ErrUnexpectedFunction, "function", m.cfg.ExpectedFunction, function); err != nil {
		return nil, err
	}

	if m.cfg.PayloadValidator != nil {
		if err := m.cfg.PayloadValidator(payload); err != nil {
			return nil, err
		}
	}

	if m.cfg.Response != nil {
		return m.cfg.Response(), nil
	}

	return nil, nil
}

func expect(sentinel error, what, want, got string) error {
	if want == "" || want == got {
		return nil
	}
	return fmt.Errorf("%w: expected %s %s, got %s", sentinel, what, want, got)
}
