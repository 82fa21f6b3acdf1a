package bridge

import (
	"errors"
	"fmt"

	"github.com/tarmac-project/logreport"
	"github.com/tarmac-project/logreport/exception"
	"github.com/tarmac-project/logreport/reporter"
	"github.com/valyala/fastjson"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// Names of the guest functions exposed to the host.
const (
	FnReportCustom      = "reportCustom"
	FnReportNativeError = "reportNativeError"
	FnReportLevel       = "reportLevel"
)

var (
	// ErrClientNil is returned by Register when no reporter is configured.
	ErrClientNil = errors.New("reporter client cannot be nil")

	// ErrInvalidPayload is returned to the host for payloads that cannot be decoded.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Config controls which reporter the guest functions use and how they are registered.
type Config struct {
	// Client handles every report.
	Client *reporter.Client

	// Register overrides wapc.RegisterFunction.
	Register func(name string, fn func([]byte) ([]byte, error))
}

// Bridge holds the guest functions bound to one reporter.
type Bridge struct {
	client *reporter.Client
}

// Register binds the three report functions to cfg.Client and registers them with waPC.
func Register(cfg Config) (*Bridge, error) {
	if cfg.Client == nil {
		return nil, ErrClientNil
	}

	register := cfg.Register
	if register == nil {
		register = func(name string, fn func([]byte) ([]byte, error)) {
			wapc.RegisterFunction(name, fn)
		}
	}

	b := &Bridge{client: cfg.Client}
	register(FnReportCustom, b.ReportCustom)
	register(FnReportNativeError, b.ReportNativeError)
	register(FnReportLevel, b.ReportLevel)

	return b, nil
}

// ReportCustom handles {"level","message","stackTrace"?} with any level name.
func (b *Bridge) ReportCustom(payload []byte) ([]byte, error) {
	level, message, st, err := decodeReport(payload)
	if err != nil {
		return nil, err
	}
	return nil, b.client.ReportCustom(level, message, st).Wait()
}

// ReportLevel handles the same document as ReportCustom but requires a
// canonical severity name.
func (b *Bridge) ReportLevel(payload []byte) ([]byte, error) {
	name, message, st, err := decodeReport(payload)
	if err != nil {
		return nil, err
	}
	level, err := logreport.ParseSeverity(name)
	if err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	return nil, b.client.ReportLevel(level, message, st).Wait()
}

// ReportNativeError handles a JSON exception object with "message" and "stack".
func (b *Bridge) ReportNativeError(payload []byte) ([]byte, error) {
	v, err := exception.ParseJSON(payload)
	if err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	return nil, b.client.ReportNativeError(v).Wait()
}

func decodeReport(payload []byte) (level, message string, st logreport.StackTrace, err error) {
	v, err := fastjson.ParseBytes(payload)
	if err != nil {
		return "", "", st, errors.Join(ErrInvalidPayload, err)
	}

	level, err = requiredString(v, "level")
	if err != nil {
		return "", "", st, err
	}
	message, err = requiredString(v, "message")
	if err != nil {
		return "", "", st, err
	}

	switch s := v.Get("stackTrace"); {
	case s == nil || s.Type() == fastjson.TypeNull:
	case s.Type() == fastjson.TypeString:
		st = logreport.WithStackTrace(string(s.GetStringBytes()))
	default:
		return "", "", st, fmt.Errorf("%w: stackTrace must be a string", ErrInvalidPayload)
	}

	return level, message, st, nil
}

func requiredString(v *fastjson.Value, key string) (string, error) {
	f := v.Get(key)
	if f == nil || f.Type() != fastjson.TypeString {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidPayload, key)
	}
	return string(f.GetStringBytes()), nil
}
