/*
Package hostmock provides a pretend waPC host for tests.

It lets a test check exactly what a capability client sends to the host
(namespace, capability, function and payload) and script what comes back,
without a real runtime.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "httpclient",
	  ExpectedFunction:   "call",
	  PayloadValidator: func(p []byte) error {
	    // Unmarshal and assert fields here
	    return nil
	  },
	  Response: func() []byte { return okResponse },
	})

	client, _ := httpclient.New(httpclient.Config{HostCall: m.HostCall})

Behavior

  - Every call is recorded, including failing ones; Calls returns them in order.
  - If Fail is true, HostCall returns Error, or ErrOperationFailed when Error is nil.
  - Otherwise the Expected* fields are enforced (empty means any value), then
    PayloadValidator runs. Response, when set, provides the returned bytes.
*/
package hostmock
