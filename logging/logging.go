package logging

import (
	"github.com/tarmac-project/logreport"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const capabilityName = "logging"

// Client writes the SDK's own trace output through the host logging capability.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig logreport.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall func(string, string, string, []byte) ([]byte, error)
}

type client struct {
	runtime  logreport.RuntimeConfig
	hostCall func(string, string, string, []byte) ([]byte, error)
}

// New creates a Client that emits logs through the configured host capability.
func New(cfg Config) (Client, error) {
	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &client{
		runtime:  cfg.SDKConfig.WithDefaults(),
		hostCall: hostCall,
	}, nil
}

func (c *client) Info(message string)  { c.log("Info", message) }
func (c *client) Warn(message string)  { c.log("Warn", message) }
func (c *client) Error(message string) { c.log("Error", message) }
func (c *client) Debug(message string) { c.log("Debug", message) }
func (c *client) Trace(message string) { c.log("Trace", message) }

// log is best-effort: a failing host call must not affect the caller.
func (c *client) log(fn string, message string) {
	_, _ = c.hostCall(c.runtime.Namespace, capabilityName, fn, []byte(message))
}
