package transport

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/tarmac-project/logreport"
	"github.com/tarmac-project/logreport/hostmock"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"
	"github.com/valyala/fastjson"
)

func collectorReply(code int32) func() []byte {
	return func() []byte {
		resp := &proto.HTTPClientResponse{
			Status: &sdkproto.Status{Status: "OK", Code: 200},
			Code:   code,
		}
		b, _ := resp.MarshalVT()
		return b
	}
}

// requestValidator decodes the host payload and hands it to check.
func requestValidator(check func(req *proto.HTTPClient) error) func([]byte) error {
	return func(p []byte) error {
		var req proto.HTTPClient
		if err := req.UnmarshalVT(p); err != nil {
			return fmt.Errorf("could not unmarshal payload: %w", err)
		}
		return check(&req)
	}
}

func header(req *proto.HTTPClient, name string) string {
	h := req.GetHeaders()[name]
	if h == nil || len(h.GetValues()) == 0 {
		return ""
	}
	return h.GetValues()[0]
}

func TestNew(t *testing.T) {
	tt := []struct {
		name     string
		token    string
		endpoint string
		wantURL  string
		wantErr  error
	}{
		{"Valid https", "secret", "https://collector.example.com", "https://collector.example.com/log", nil},
		{"Trailing slash", "secret", "http://collector.example.com/api/", "http://collector.example.com/api/log", nil},
		{"Missing scheme", "secret", "collector.example.com", "", ErrInvalidEndpoint},
		{"Unsupported scheme", "secret", "ftp://collector.example.com", "", ErrInvalidEndpoint},
		{"Malformed", "secret", "http://[::1", "", ErrInvalidEndpoint},
		{"Empty endpoint", "secret", "", "", ErrInvalidEndpoint},
		{"Missing token", "", "https://collector.example.com", "", ErrMissingToken},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := New(tc.token, tc.endpoint, Config{})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err == nil && tr.URL() != tc.wantURL {
				t.Fatalf("expected URL %q, got %q", tc.wantURL, tr.URL())
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tt := []struct {
		name      string
		rec       logreport.Record
		wantStack bool
	}{
		{"With stack", logreport.NewRecord("Error", "boom", logreport.WithStackTrace("at foo\nat bar")), true},
		{"Empty stack present", logreport.NewRecord("Error", "boom", logreport.WithStackTrace("")), true},
		{"Without stack", logreport.NewRecord("Warning", `disk "low"`, logreport.NoStackTrace), false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			v, err := fastjson.ParseBytes(Encode(tc.rec))
			if err != nil {
				t.Fatalf("encoded record is not valid JSON: %v", err)
			}
			if got := string(v.GetStringBytes("errorLevel")); got != tc.rec.Level() {
				t.Fatalf("level mismatch: %q", got)
			}
			if got := string(v.GetStringBytes("message")); got != tc.rec.Message() {
				t.Fatalf("message mismatch: %q", got)
			}
			if got := v.Exists("stackTrace"); got != tc.wantStack {
				t.Fatalf("stackTrace presence: want %v, got %v", tc.wantStack, got)
			}
			if tc.wantStack {
				want, _ := tc.rec.StackTrace().Get()
				if got := string(v.GetStringBytes("stackTrace")); got != want {
					t.Fatalf("stackTrace mismatch: %q", got)
				}
			}
		})
	}
}

func TestSend(t *testing.T) {
	rec := logreport.NewRecord("Error", "boom", logreport.WithStackTrace("at foo"))

	t.Run("Posts JSON with credentials", func(t *testing.T) {
		mock, _ := hostmock.New(hostmock.Config{
			ExpectedNamespace:  logreport.DefaultNamespace,
			ExpectedCapability: "httpclient",
			ExpectedFunction:   "call",
			PayloadValidator: requestValidator(func(req *proto.HTTPClient) error {
				if req.GetMethod() != http.MethodPost {
					return fmt.Errorf("method mismatch: %s", req.GetMethod())
				}
				if req.GetUrl() != "https://collector.example.com/log" {
					return fmt.Errorf("url mismatch: %s", req.GetUrl())
				}
				if got := header(req, "Authorization"); got != "Bearer secret" {
					return fmt.Errorf("authorization mismatch: %q", got)
				}
				if got := header(req, "Content-Type"); got != "application/json" {
					return fmt.Errorf("content type mismatch: %q", got)
				}
				if _, err := uuid.Parse(header(req, "X-Request-Id")); err != nil {
					return fmt.Errorf("request id is not a uuid: %w", err)
				}
				if string(req.GetBody()) != string(Encode(rec)) {
					return fmt.Errorf("body mismatch: %q", req.GetBody())
				}
				if req.GetInsecure() {
					return errors.New("insecure should default to false")
				}
				return nil
			}),
			Response: collectorReply(http.StatusOK),
		})

		tr, err := New("secret", "https://collector.example.com", Config{HostCall: mock.HostCall})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if err := tr.Send(rec); err != nil {
			t.Fatalf("Send returned error: %v", err)
		}
		if n := len(mock.Calls()); n != 1 {
			t.Fatalf("expected exactly one host call, got %d", n)
		}
	})

	t.Run("Compressed body", func(t *testing.T) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			t.Fatalf("zstd reader: %v", err)
		}
		defer dec.Close()

		mock, _ := hostmock.New(hostmock.Config{
			PayloadValidator: requestValidator(func(req *proto.HTTPClient) error {
				if got := header(req, "Content-Encoding"); got != "zstd" {
					return fmt.Errorf("content encoding mismatch: %q", got)
				}
				plain, err := dec.DecodeAll(req.GetBody(), nil)
				if err != nil {
					return err
				}
				if string(plain) != string(Encode(rec)) {
					return fmt.Errorf("decompressed body mismatch: %q", plain)
				}
				return nil
			}),
			Response: collectorReply(http.StatusAccepted),
		})

		tr, err := New("secret", "https://collector.example.com", Config{HostCall: mock.HostCall, Compress: true})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if err := tr.Send(rec); err != nil {
			t.Fatalf("Send returned error: %v", err)
		}
	})

	t.Run("Insecure is forwarded", func(t *testing.T) {
		mock, _ := hostmock.New(hostmock.Config{
			PayloadValidator: requestValidator(func(req *proto.HTTPClient) error {
				if !req.GetInsecure() {
					return errors.New("expected insecure request")
				}
				return nil
			}),
			Response: collectorReply(http.StatusOK),
		})

		tr, err := New("secret", "https://collector.example.com", Config{HostCall: mock.HostCall, Insecure: true})
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		if err := tr.Send(rec); err != nil {
			t.Fatalf("Send returned error: %v", err)
		}
	})

	t.Run("Collector rejects", func(t *testing.T) {
		mock, _ := hostmock.New(hostmock.Config{Response: collectorReply(http.StatusUnauthorized)})
		tr, _ := New("secret", "https://collector.example.com", Config{HostCall: mock.HostCall})

		err := tr.Send(rec)
		if !errors.Is(err, ErrRejected) {
			t.Fatalf("expected ErrRejected, got %v", err)
		}
	})

	t.Run("Host failure passes through", func(t *testing.T) {
		mock, _ := hostmock.New(hostmock.Config{Fail: true})
		tr, _ := New("secret", "https://collector.example.com", Config{HostCall: mock.HostCall})

		err := tr.Send(rec)
		if !errors.Is(err, logreport.ErrHostCall) || !errors.Is(err, hostmock.ErrOperationFailed) {
			t.Fatalf("expected host call failure, got %v", err)
		}
		if n := len(mock.Calls()); n != 1 {
			t.Fatalf("expected no retry, got %d host calls", n)
		}
	})
}
