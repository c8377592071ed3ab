package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	kiterrors "github.com/kbukum/clientkit/errors"
	"github.com/kbukum/clientkit/logger"
)

// Identity method names intercepted before table lookup.
const (
	MethodString = "String"
	MethodEqual  = "Equal"
	MethodHash   = "Hash"
)

// ErrUnknownMethod is returned when a call names a method the client
// does not declare.
var ErrUnknownMethod = errors.New("dispatch: unknown method")

// CircuitBreaker guards one circuit. Satisfied by resilience.CircuitBreaker.
type CircuitBreaker interface {
	Run(task func() (any, error)) (any, error)
	RunWithFallback(task func() (any, error), fallback func(error) (any, error)) (any, error)
}

// BreakerFactory hands out breakers by circuit name.
type BreakerFactory interface {
	Create(name string) CircuitBreaker
}

// FallbackFactory builds a fallback table from the error that triggered
// the fallback, so handlers can inspect the cause.
type FallbackFactory interface {
	Create(cause error) *Table
}

// Config assembles a Dispatcher.
type Config struct {
	// Target is the resolved client destination.
	Target Target
	// Table maps method identities to handlers. Required.
	Table *Table
	// Breakers enables circuit breaking when set.
	Breakers BreakerFactory
	// Fallback is a static fallback table. Mutually exclusive with
	// FallbackFactory, and requires Breakers.
	Fallback *Table
	// FallbackFactory builds cause-aware fallback tables. Mutually
	// exclusive with Fallback, and requires Breakers.
	FallbackFactory FallbackFactory
	// Logger receives per-call failure logs. Optional.
	Logger *logger.Logger
}

// Dispatcher executes calls for one client. It is immutable after
// construction and safe for concurrent use.
type Dispatcher struct {
	target   Target
	table    *Table
	breakers BreakerFactory
	fallback *Table
	factory  FallbackFactory
	log      *logger.Logger
	metrics  *callMetrics
}

// NewDispatcher validates the config and builds a dispatcher. When a
// static fallback table is given, every primary method must have a
// fallback handler; missing routes fail construction rather than the
// first degraded call.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Table == nil {
		return nil, fmt.Errorf("dispatch: table is required")
	}
	if cfg.Fallback != nil && cfg.FallbackFactory != nil {
		return nil, fmt.Errorf("dispatch: fallback and fallback factory are mutually exclusive")
	}
	if (cfg.Fallback != nil || cfg.FallbackFactory != nil) && cfg.Breakers == nil {
		return nil, fmt.Errorf("dispatch: fallback requires a breaker factory")
	}
	if cfg.Fallback != nil {
		for _, m := range cfg.Table.Methods() {
			if _, ok := cfg.Fallback.Lookup(m); !ok {
				return nil, fmt.Errorf("dispatch: fallback table missing method %s", m.Key())
			}
		}
	}

	metrics, err := newCallMetrics()
	if err != nil {
		return nil, fmt.Errorf("dispatch: init metrics: %w", err)
	}

	log := cfg.Logger
	if log != nil {
		log = log.WithClient(cfg.Target.Name)
	}

	return &Dispatcher{
		target:   cfg.Target,
		table:    cfg.Table,
		breakers: cfg.Breakers,
		fallback: cfg.Fallback,
		factory:  cfg.FallbackFactory,
		log:      log,
		metrics:  metrics,
	}, nil
}

// Target returns the dispatcher's resolved target.
func (d *Dispatcher) Target() Target { return d.target }

// Methods returns the dispatchable methods.
func (d *Dispatcher) Methods() []Method { return d.table.Methods() }

// Equal reports whether both dispatchers address the same target.
func (d *Dispatcher) Equal(other *Dispatcher) bool {
	return other != nil && d.target.Equal(other.target)
}

// Hash returns a stable hash derived from the target.
func (d *Dispatcher) Hash() uint64 { return d.target.Hash() }

// String renders the target.
func (d *Dispatcher) String() string { return d.target.String() }

// Invoke executes the method with the given arguments. Identity methods
// are answered from the target without touching the handler table.
func (d *Dispatcher) Invoke(ctx context.Context, m Method, args []any) (any, error) {
	if result, ok := d.invokeIdentity(m, args); ok {
		return result, nil
	}

	handler, ok := d.table.Lookup(m)
	if !ok {
		return nil, kiterrors.Invocation(d.target.Name, m.Key(),
			fmt.Errorf("%w: %s", ErrUnknownMethod, m.Key()))
	}

	start := time.Now()
	task := func() (any, error) { return handler.Invoke(ctx, args) }

	if d.breakers == nil {
		result, err := task()
		d.observe(ctx, m, err, "", start)
		return result, err
	}

	cb := d.breakers.Create(d.circuitName(m))
	if d.fallback == nil && d.factory == nil {
		result, err := cb.Run(task)
		d.observe(ctx, m, err, "", start)
		return result, err
	}

	fellBack := false
	result, err := cb.RunWithFallback(task, func(cause error) (any, error) {
		fellBack = true
		return d.invokeFallback(ctx, m, args, cause)
	})
	outcome := ""
	if fellBack {
		outcome = "fallback"
	}
	d.observe(ctx, m, err, outcome, start)
	return result, err
}

// circuitName keys the breaker per declaration name and method, so two
// differently-named declarations sharing an interface never share
// breaker state.
func (d *Dispatcher) circuitName(m Method) string {
	return d.target.Name + ":" + m.CircuitKey(d.target.Iface)
}

// invokeIdentity answers String/Equal/Hash calls from the target.
func (d *Dispatcher) invokeIdentity(m Method, args []any) (any, bool) {
	switch {
	case m.Name == MethodString && len(m.Params) == 0:
		return d.String(), true
	case m.Name == MethodHash && len(m.Params) == 0:
		return d.Hash(), true
	case m.Name == MethodEqual && len(args) == 1:
		other, ok := args[0].(*Dispatcher)
		return ok && d.Equal(other), true
	}
	return nil, false
}

func (d *Dispatcher) invokeFallback(ctx context.Context, m Method, args []any, cause error) (any, error) {
	table := d.fallback
	if d.factory != nil {
		table = d.factory.Create(cause)
	}
	handler, ok := table.Lookup(m)
	if !ok {
		return nil, kiterrors.FallbackInvocation(m.Key(),
			fmt.Errorf("%w: no fallback for %s: %w", ErrUnknownMethod, m.Key(), cause))
	}

	result, err := handler.Invoke(ctx, args)
	if err != nil {
		return nil, kiterrors.FallbackInvocation(m.Key(), err)
	}
	return result, nil
}

func (d *Dispatcher) observe(ctx context.Context, m Method, err error, outcome string, start time.Time) {
	if outcome == "" {
		outcome = "ok"
		if err != nil {
			outcome = "error"
		}
	}
	d.metrics.record(ctx, d.target, m, outcome, start)

	if err != nil && d.log != nil {
		d.log.Debug("client call failed", logger.Fields(
			logger.FieldMethod, m.Key(),
			logger.FieldTarget, d.target.URL,
			logger.FieldError, err.Error(),
		))
	}
}
