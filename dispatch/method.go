package dispatch

import (
	"context"
	"strings"
)

// Method identifies one operation of a client interface by name and
// parameter type names. Two methods with the same name but different
// parameter lists are distinct.
type Method struct {
	// Name is the method name, e.g. "GetOrder".
	Name string
	// Params are the parameter type names in declaration order.
	Params []string
}

// Key returns the table key, e.g. "GetOrder(string,int)".
func (m Method) Key() string {
	return m.Name + "(" + strings.Join(m.Params, ",") + ")"
}

// CircuitKey returns the circuit breaker name for this method on the
// given interface, e.g. "OrderService#GetOrder(string,int)". Methods
// sharing a key share breaker state.
func (m Method) CircuitKey(iface string) string {
	return iface + "#" + m.Key()
}

// Handler executes one client method.
type Handler interface {
	Invoke(ctx context.Context, args []any) (any, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, args []any) (any, error)

// Invoke implements Handler.
func (f HandlerFunc) Invoke(ctx context.Context, args []any) (any, error) {
	return f(ctx, args)
}
