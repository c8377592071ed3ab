package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Transport performs one request/response exchange bounded by Options.
type Transport interface {
	RoundTrip(ctx context.Context, req *Request, opts Options) (*Response, error)
}

// Unwrapper is implemented by decorator transports that can expose their
// delegate. Target resolution unwraps decorators when a fixed URL makes
// load balancing unnecessary.
type Unwrapper interface {
	Unwrap() Transport
}

// UnwrapAll peels every decorator layer off t and returns the innermost
// transport.
func UnwrapAll(t Transport) Transport {
	for {
		u, ok := t.(Unwrapper)
		if !ok {
			return t
		}
		t = u.Unwrap()
	}
}

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// TLS overrides the TLS client configuration.
	TLS *tls.Config
	// EnableHTTP2 negotiates HTTP/2 on TLS connections.
	EnableHTTP2 bool
	// MaxIdleConns caps the connection pool. Zero means the net/http default.
	MaxIdleConns int
}

// HTTPTransport is the default Transport over net/http. A single
// underlying connection pool is shared by all calls; per-call timeouts
// come from the Options resolved for the owning client.
type HTTPTransport struct {
	rt *http.Transport
}

type connectTimeoutKey struct{}

// NewHTTP creates an HTTP transport.
func NewHTTP(cfg HTTPConfig) (*HTTPTransport, error) {
	rt := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.TLS != nil {
		rt.TLSClientConfig = cfg.TLS
	}
	if cfg.MaxIdleConns > 0 {
		rt.MaxIdleConns = cfg.MaxIdleConns
	}

	dialer := &net.Dialer{Timeout: defaultConnectTimeout}
	rt.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := *dialer
		if t, ok := ctx.Value(connectTimeoutKey{}).(time.Duration); ok && t > 0 {
			d.Timeout = t
		}
		return d.DialContext(ctx, network, addr)
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(rt); err != nil {
			return nil, fmt.Errorf("transport: configure http2: %w", err)
		}
	}

	return &HTTPTransport{rt: rt}, nil
}

// MustHTTP creates an HTTP transport with defaults and panics on error.
// Convenient for registering the baseline transport capability.
func MustHTTP() *HTTPTransport {
	t, err := NewHTTP(HTTPConfig{})
	if err != nil {
		panic(err)
	}
	return t
}

// RoundTrip executes one exchange.
func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request, opts Options) (*Response, error) {
	if opts.ConnectTimeout > 0 {
		ctx = context.WithValue(ctx, connectTimeoutKey{}, opts.ConnectTimeout)
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("transport: create request: %w", err)
	}
	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	// One http.Client per call so read timeout and redirect policy follow
	// the resolved per-client options while the pool stays shared.
	client := &http.Client{
		Transport: t.rt,
		Timeout:   opts.ReadTimeout,
	}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("transport: %s %s timed out: %w", req.Method, req.URL, err)
		}
		return nil, fmt.Errorf("transport: %s %s: %w", req.Method, req.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
