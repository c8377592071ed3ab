package transport

import (
	"net/http"
	"net/url"
	"time"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultReadTimeout    = 60 * time.Second
)

// Request describes one outbound exchange. The URL is absolute: target
// resolution has already bound the base address.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// URL is the absolute request URL without query parameters.
	URL string
	// Header carries request headers.
	Header http.Header
	// Query carries URL query parameters.
	Query url.Values
	// Body is the encoded request body, nil when absent.
	Body []byte
}

// NewRequest creates a request with initialized header and query maps.
func NewRequest(method, rawURL string) *Request {
	return &Request{
		Method: method,
		URL:    rawURL,
		Header: make(http.Header),
		Query:  make(url.Values),
	}
}

// Response is the result of one exchange.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Header carries the response headers.
	Header http.Header
	// Body is the full response body.
	Body []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Options bound one exchange. They are resolved per client from layered
// configuration and are fixed for the client's lifetime.
type Options struct {
	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration
	// ReadTimeout bounds the whole exchange after the connection is up.
	ReadTimeout time.Duration
	// FollowRedirects enables automatic redirect following.
	FollowRedirects bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout:  defaultConnectTimeout,
		ReadTimeout:     defaultReadTimeout,
		FollowRedirects: true,
	}
}
