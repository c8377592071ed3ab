package client

import (
	"github.com/kbukum/clientkit/codec"
	"github.com/kbukum/clientkit/contract"
	"github.com/kbukum/clientkit/logger"
	"github.com/kbukum/clientkit/resilience"
	"github.com/kbukum/clientkit/transport"
)

// PropagationPolicy says how transport failures surface to callers.
type PropagationPolicy int

const (
	// PropagateNone wraps transport failures in an invocation error.
	PropagateNone PropagationPolicy = iota
	// PropagateUnwrap surfaces the underlying cause directly.
	PropagateUnwrap
)

// ParsePropagation maps the property value to a policy.
func ParsePropagation(s string) (PropagationPolicy, bool) {
	switch s {
	case "none", "":
		return PropagateNone, true
	case "unwrap":
		return PropagateUnwrap, true
	}
	return PropagateNone, false
}

// EffectiveConfig is the merged configuration for one client. Nil fields
// mean "use the assembler's built-in default". It is computed once per
// client construction and discarded after assembly.
type EffectiveConfig struct {
	LogLevel     *logger.RequestLevel
	Retryer      resilience.Retryer
	ErrorDecoder codec.ErrorDecoder
	Options      *transport.Options
	QueryEncoder codec.QueryEncoder
	Encoder      codec.Encoder
	Decoder      codec.Decoder
	Contract     contract.Contract
	Decode404    *bool
	Propagation  *PropagationPolicy

	// scopeInterceptors and propInterceptors are kept apart so the union
	// rule holds under both precedence orders: scope-sourced first by
	// priority, property-sourced appended.
	scopeInterceptors []transport.Interceptor
	propInterceptors  []transport.Interceptor
}

// Interceptors returns the final chain: scope-sourced by priority, then
// property-sourced in record order.
func (c *EffectiveConfig) Interceptors() []transport.Interceptor {
	out := make([]transport.Interceptor, 0, len(c.scopeInterceptors)+len(c.propInterceptors))
	out = append(out, c.scopeInterceptors...)
	out = append(out, c.propInterceptors...)
	return out
}
