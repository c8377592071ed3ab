package transport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kbukum/clientkit/discovery"
	"github.com/kbukum/clientkit/logger"
)

// LoadBalanced decorates a Transport with per-call endpoint resolution.
// Requests carry a logical service name as their URL host; the decorator
// rewrites it to a concrete instance before delegating. It exposes the
// delegate via Unwrap so fixed-URL clients can bypass it.
type LoadBalanced struct {
	delegate Transport
	resolver discovery.EndpointResolver
	log      *logger.Logger
}

// NewLoadBalanced creates the decorator.
func NewLoadBalanced(delegate Transport, resolver discovery.EndpointResolver) *LoadBalanced {
	return &LoadBalanced{
		delegate: delegate,
		resolver: resolver,
		log:      logger.WithComponent("transport.loadbalanced"),
	}
}

// Unwrap returns the delegate transport.
func (lb *LoadBalanced) Unwrap() Transport { return lb.delegate }

// RoundTrip resolves the logical host and delegates the exchange.
func (lb *LoadBalanced) RoundTrip(ctx context.Context, req *Request, opts Options) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, fmt.Errorf("transport: parse url %q: %w", req.URL, err)
	}

	inst, err := lb.resolver.Resolve(ctx, u.Hostname())
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %q: %w", u.Hostname(), err)
	}

	resolved := *u
	resolved.Host = inst.HostPort()

	lb.log.Debug("endpoint resolved", logger.Fields(
		"service", u.Hostname(),
		"instance", inst.HostPort(),
	))

	rewritten := *req
	rewritten.URL = resolved.String()
	return lb.delegate.RoundTrip(ctx, &rewritten, opts)
}

// Compile-time checks.
var (
	_ Transport = (*LoadBalanced)(nil)
	_ Unwrapper = (*LoadBalanced)(nil)
)
