package transport

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/crypto/sha3"
)

// Interceptor mutates an outbound request before the exchange. A client's
// interceptor chain is the priority-ordered union of every instance
// visible from its capability scope plus any property-configured ones.
type Interceptor interface {
	Apply(ctx context.Context, req *Request) error
}

// InterceptorFunc adapts a function to the Interceptor interface.
type InterceptorFunc func(ctx context.Context, req *Request) error

// Apply implements Interceptor.
func (f InterceptorFunc) Apply(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// HeaderInterceptor adds static headers to every request. Existing values
// for the same key are kept; the static values are appended.
type HeaderInterceptor struct {
	Headers map[string][]string
}

// Apply implements Interceptor.
func (h *HeaderInterceptor) Apply(_ context.Context, req *Request) error {
	for k, vs := range h.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return nil
}

// QueryInterceptor adds static query parameters to every request.
type QueryInterceptor struct {
	Params map[string][]string
}

// Apply implements Interceptor.
func (q *QueryInterceptor) Apply(_ context.Context, req *Request) error {
	for k, vs := range q.Params {
		for _, v := range vs {
			req.Query.Add(k, v)
		}
	}
	return nil
}

// RequestIDHeader is the header set by RequestIDInterceptor.
const RequestIDHeader = "X-Request-Id"

// RequestIDInterceptor stamps each request with a fresh UUID unless the
// caller already set one.
type RequestIDInterceptor struct{}

// Apply implements Interceptor.
func (RequestIDInterceptor) Apply(_ context.Context, req *Request) error {
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	return nil
}

// JWTAuthInterceptor mints a short-lived HS256 bearer token per request.
type JWTAuthInterceptor struct {
	// Secret signs the token.
	Secret []byte
	// Issuer is the iss claim.
	Issuer string
	// Subject is the sub claim.
	Subject string
	// TTL bounds token validity. Defaults to one minute.
	TTL time.Duration
}

// Apply implements Interceptor.
func (j *JWTAuthInterceptor) Apply(_ context.Context, req *Request) error {
	ttl := j.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    j.Issuer,
		Subject:   j.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return fmt.Errorf("transport: sign bearer token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+signed)
	return nil
}

// ContentDigestHeader is the header set by DigestInterceptor.
const ContentDigestHeader = "X-Content-Digest"

// DigestInterceptor adds a SHA3-256 digest of the request body so servers
// can verify payload integrity. Requests without a body are left alone.
type DigestInterceptor struct{}

// Apply implements Interceptor.
func (DigestInterceptor) Apply(_ context.Context, req *Request) error {
	if len(req.Body) == 0 {
		return nil
	}
	sum := sha3.Sum256(req.Body)
	req.Header.Set(ContentDigestHeader, "sha3-256="+hex.EncodeToString(sum[:]))
	return nil
}

// TracingInterceptor injects the active trace context into the request
// headers using the global OpenTelemetry propagator.
type TracingInterceptor struct{}

// Apply implements Interceptor.
func (TracingInterceptor) Apply(ctx context.Context, req *Request) error {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return nil
}
