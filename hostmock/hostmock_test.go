package hostmock

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

var ErrMockError = errors.New("Mock error")

func TestHostMock(t *testing.T) {
	okResponse := func() []byte { return []byte("ok") }

	tt := []struct {
		name       string
		cfg        Config
		namespace  string
		capability string
		function   string
		payload    []byte
		want       []byte
		wantErr    error
	}{
		{
			name: "Routed call returns response",
			cfg: Config{
				ExpectedNamespace:  "tarmac",
				ExpectedCapability: "httpclient",
				ExpectedFunction:   "call",
				PayloadValidator:   func(_ []byte) error { return nil },
				Response:           okResponse,
			},
			namespace:  "tarmac",
			capability: "httpclient",
			function:   "call",
			payload:    []byte("payload"),
			want:       []byte("ok"),
		},
		{
			name:       "Fail with custom error",
			cfg:        Config{Fail: true, Error: ErrMockError, Response: okResponse},
			namespace:  "tarmac",
			capability: "httpclient",
			function:   "call",
			wantErr:    ErrMockError,
		},
		{
			name:       "Fail with default error",
			cfg:        Config{Fail: true},
			namespace:  "tarmac",
			capability: "logging",
			function:   "Info",
			wantErr:    ErrOperationFailed,
		},
		{
			name:       "Wildcard routing",
			cfg:        Config{},
			namespace:  "anything",
			capability: "metrics",
			function:   "counter",
		},
		{
			name: "Validator rejects payload",
			cfg: Config{
				PayloadValidator: func(p []byte) error {
					if len(p) == 0 {
						return ErrMockError
					}
					return nil
				},
				Response: okResponse,
			},
			namespace:  "tarmac",
			capability: "httpclient",
			function:   "call",
			payload:    []byte(""),
			wantErr:    ErrMockError,
		},
		{
			name:       "Unexpected Namespace",
			cfg:        Config{ExpectedNamespace: "expected"},
			namespace:  "tarmac",
			capability: "httpclient",
			function:   "call",
			wantErr:    ErrUnexpectedNamespace,
		},
		{
			name:       "Unexpected Capability",
			cfg:        Config{ExpectedCapability: "httpclient"},
			namespace:  "tarmac",
			capability: "kvstore",
			function:   "call",
			wantErr:    ErrUnexpectedCapability,
		},
		{
			name:       "Unexpected Function",
			cfg:        Config{ExpectedFunction: "call"},
			namespace:  "tarmac",
			capability: "httpclient",
			function:   "get",
			wantErr:    ErrUnexpectedFunction,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			mock, err := New(tc.cfg)
			if err != nil {
				t.Fatalf("New Mock instance creation failed: %v", err)
			}

			got, err := mock.HostCall(tc.namespace, tc.capability, tc.function, tc.payload)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Mock call returned unexpected error: got %v, want %v", err, tc.wantErr)
			}

			if !bytes.Equal(got, tc.want) {
				t.Fatalf("Mock call returned unexpected response: got %v, want %v", got, tc.want)
			}

			calls := mock.Calls()
			if len(calls) != 1 {
				t.Fatalf("expected 1 recorded call, got %d", len(calls))
			}
			if calls[0].Capability != tc.capability || calls[0].Function != tc.function {
				t.Fatalf("recorded call mismatch: %+v", calls[0])
			}
		})
	}
}

func TestHostMockConcurrentCalls(t *testing.T) {
	mock, err := New(Config{})
	if err != nil {
		t.Fatalf("New Mock instance creation failed: %v", err)
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = mock.HostCall("tarmac", "httpclient", "call", []byte("x"))
		}()
	}
	wg.Wait()

	if got := len(mock.Calls()); got != 20 {
		t.Fatalf("expected 20 recorded calls, got %d", got)
	}
}

func TestCallsReturnsCopy(t *testing.T) {
	mock, _ := New(Config{})
	_, _ = mock.HostCall("tarmac", "logging", "Info", []byte("a"))

	calls := mock.Calls()
	calls[0].Payload[0] = 'z'

	if got := mock.Calls()[0].Payload; string(got) != "a" {
		t.Fatalf("expected recorded payload to be unaffected, got %q", got)
	}
}
