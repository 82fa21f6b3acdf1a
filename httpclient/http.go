package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tarmac-project/logreport"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "httpclient"
	fnCall         = "call"
)

// Doer sends a prepared Request through the host.
type Doer interface {
	Do(req *Request) (*Response, error)
}

// Config configures the HTTP client behavior and host integration.
//
// SDKConfig supplies the namespace used when making waPC host calls; an empty
// Namespace falls back to logreport.DefaultNamespace. HostCall lets tests inject
// a custom host function; when nil, the client uses wapc.HostCall.
type Config struct {
	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig logreport.RuntimeConfig
	// InsecureSkipVerify disables TLS verification when supported.
	InsecureSkipVerify bool
	// HostCall overrides the waPC host function used for requests.
	HostCall func(string, string, string, []byte) ([]byte, error)
}

// HTTPClient implements Doer using waPC host calls.
type HTTPClient struct {
	cfg      Config
	hostCall func(string, string, string, []byte) ([]byte, error)
}

var _ Doer = (*HTTPClient)(nil)

// Response represents an HTTP response returned by the host.
type Response struct {
	// Status is the HTTP status text (e.g., "OK").
	Status string
	// StatusCode is the numeric HTTP status code (e.g., 200).
	StatusCode int
	// Header contains response headers.
	Header http.Header
	// Body is the response payload stream. It is nil for empty bodies.
	Body io.ReadCloser
}

// Request represents an HTTP request to be sent by the client.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   io.ReadCloser
}

var (
	// ErrInvalidURL indicates a malformed or unsupported URL.
	ErrInvalidURL = errors.New("invalid URL provided")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to create request")

	// ErrReadBody wraps failures while reading a request body stream.
	ErrReadBody = errors.New("failed to read request body")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")

	// ErrInvalidMethod indicates an HTTP method not permitted by NewRequest.
	ErrInvalidMethod = errors.New("invalid HTTP method")

	// ErrNilRequest indicates Do received a nil Request pointer.
	ErrNilRequest = errors.New("request is nil")
)

const (
	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

// New creates a new HTTP client with the provided configuration.
func New(config Config) (*HTTPClient, error) {
	hc := &HTTPClient{cfg: config, hostCall: wapc.HostCall}
	hc.cfg.SDKConfig = config.SDKConfig.WithDefaults()
	if config.HostCall != nil {
		hc.hostCall = config.HostCall
	}
	return hc, nil
}

// Do sends req through the host and returns the response.
func (c *HTTPClient) Do(req *Request) (*Response, error) {
	if req == nil {
		return &Response{}, ErrNilRequest
	}

	// Validate the URL before touching the body stream.
	if req.URL == nil || req.URL.Host == "" {
		return &Response{}, ErrInvalidURL
	}

	var body []byte
	if req.Body != nil {
		defer func() { _ = req.Body.Close() }()
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return &Response{}, errors.Join(ErrReadBody, err)
		}
	}

	pbReq := &proto.HTTPClient{
		Method:   req.Method,
		Url:      req.URL.String(),
		Insecure: c.cfg.InsecureSkipVerify,
		Body:     body,
		Headers:  make(map[string]*proto.Header, len(req.Header)),
	}
	for key, values := range req.Header {
		pbReq.Headers[key] = &proto.Header{Values: values}
	}

	return c.call(pbReq)
}

// call marshals the protobuf request, performs the host call and decodes the reply.
func (c *HTTPClient) call(req *proto.HTTPClient) (*Response, error) {
	b, err := req.MarshalVT()
	if err != nil {
		return &Response{}, errors.Join(ErrMarshalRequest, err)
	}

	resp, err := c.hostCall(c.cfg.SDKConfig.Namespace, capabilityName, fnCall, b)
	if err != nil {
		return &Response{}, errors.Join(logreport.ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if err := r.UnmarshalVT(resp); err != nil {
		return &Response{}, errors.Join(ErrUnmarshalResponse, err)
	}

	if err := checkStatus(r.GetStatus()); err != nil {
		return &Response{}, err
	}

	code := int(r.GetCode())
	out := &Response{
		Status:     http.StatusText(code),
		StatusCode: code,
		Header:     make(http.Header, len(r.GetHeaders())),
	}
	for name, header := range r.GetHeaders() {
		out.Header[name] = header.GetValues()
	}
	if b := r.GetBody(); len(b) > 0 {
		out.Body = io.NopCloser(bytes.NewReader(b))
	}

	return out, nil
}

// checkStatus interprets the host's own status, which is separate from the
// HTTP status of the remote server.
func checkStatus(status *sdkproto.Status) error {
	if status == nil {
		return logreport.ErrHostResponseInvalid
	}

	switch code := status.GetCode(); code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return errors.Join(logreport.ErrHostError, errors.New(detail))
	default:
		return errors.Join(
			logreport.ErrHostResponseInvalid,
			fmt.Errorf("unexpected host status code %d", code),
		)
	}
}

// NewRequest creates a Request for Do.
func NewRequest(method, urlString string, body io.Reader) (*Request, error) {
	if !isValidMethod(method) {
		return nil, ErrInvalidMethod
	}

	parsed, err := url.Parse(urlString)
	if err != nil || parsed == nil || parsed.Host == "" {
		return nil, ErrInvalidURL
	}

	req := &Request{
		Method: method,
		URL:    parsed,
		Header: make(http.Header),
	}
	if body != nil {
		req.Body = io.NopCloser(body)
	}

	return req, nil
}

func isValidMethod(method string) bool {
	switch method {
	case http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodConnect,
		http.MethodOptions,
		http.MethodTrace:
		return true
	default:
		return false
	}
}
