package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/tarmac-project/logreport"
	"github.com/tarmac-project/logreport/httpclient"
	"github.com/valyala/fastjson"
)

// LogPath is appended to the endpoint to form the collector URL.
const LogPath = "/log"

var (
	// ErrInvalidEndpoint is returned by New for endpoints that are not absolute http(s) URLs.
	ErrInvalidEndpoint = errors.New("endpoint must be an absolute http or https URL")

	// ErrMissingToken is returned by New when no authentication token is given.
	ErrMissingToken = errors.New("authentication token is required")

	// ErrRejected means the collector answered with a non-2xx status.
	ErrRejected = errors.New("collector rejected the log record")
)

// Transport delivers a single record to the collector.
type Transport interface {
	Send(rec logreport.Record) error
}

// Config holds the optional knobs of a HostTransport.
type Config struct {
	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig logreport.RuntimeConfig

	// HostCall overrides the waPC host function used for HTTP requests.
	HostCall func(string, string, string, []byte) ([]byte, error)

	// HTTP replaces the host HTTP client entirely. HostCall is ignored when set.
	HTTP httpclient.Doer

	// Compress sends bodies zstd-compressed with Content-Encoding: zstd.
	Compress bool

	// Insecure asks the host to skip TLS verification towards the collector.
	Insecure bool
}

// HostTransport posts records as JSON to the collector through the host HTTP capability.
type HostTransport struct {
	url     string
	token   string
	http    httpclient.Doer
	encoder *zstd.Encoder
}

var _ Transport = (*HostTransport)(nil)

// New validates the endpoint and token and binds them to a HostTransport.
func New(token, endpoint string, cfg Config) (*HostTransport, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Join(ErrInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	if token == "" {
		return nil, ErrMissingToken
	}

	t := &HostTransport{
		url:   strings.TrimRight(endpoint, "/") + LogPath,
		token: token,
		http:  cfg.HTTP,
	}

	if t.http == nil {
		hc, err := httpclient.New(httpclient.Config{
			SDKConfig:          cfg.SDKConfig,
			InsecureSkipVerify: cfg.Insecure,
			HostCall:           cfg.HostCall,
		})
		if err != nil {
			return nil, err
		}
		t.http = hc
	}

	if cfg.Compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		t.encoder = enc
	}

	return t, nil
}

// URL returns the collector URL records are posted to.
func (t *HostTransport) URL() string { return t.url }

// Send performs exactly one POST for rec. Errors are returned as they occur;
// there is no retry.
func (t *HostTransport) Send(rec logreport.Record) error {
	body := Encode(rec)

	req, err := httpclient.NewRequest(http.MethodPost, t.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if t.encoder != nil {
		body = t.encoder.EncodeAll(body, nil)
		req.Header.Set("Content-Encoding", "zstd")
	}
	req.Body = io.NopCloser(bytes.NewReader(body))

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	if resp.Body != nil {
		_ = resp.Body.Close()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrRejected, resp.StatusCode)
	}

	return nil
}

// Encode renders rec as the collector's JSON document. stackTrace is omitted
// when the record has none.
func Encode(rec logreport.Record) []byte {
	var a fastjson.Arena

	o := a.NewObject()
	o.Set("errorLevel", a.NewString(rec.Level()))
	o.Set("message", a.NewString(rec.Message()))
	if st, ok := rec.StackTrace().Get(); ok {
		o.Set("stackTrace", a.NewString(st))
	}

	return o.MarshalTo(nil)
}
