package client

import (
	"github.com/kbukum/clientkit/capability"
	"github.com/kbukum/clientkit/codec"
	"github.com/kbukum/clientkit/contract"
	"github.com/kbukum/clientkit/dispatch"
	"github.com/kbukum/clientkit/errors"
	"github.com/kbukum/clientkit/logger"
	"github.com/kbukum/clientkit/resilience"
	"github.com/kbukum/clientkit/transport"
)

// Factory builds dispatchers from declarations. One factory serves the
// whole process; concurrent construction of different declarations is
// safe.
type Factory struct {
	provider *capability.Provider
	props    *Properties
	breakers dispatch.BreakerFactory
	log      *logger.Logger
}

// FactoryOption customizes a Factory.
type FactoryOption func(*Factory)

// WithProperties sets the property config source.
func WithProperties(props *Properties) FactoryOption {
	return func(f *Factory) { f.props = props }
}

// WithBreakers enables circuit breaking for every built client.
func WithBreakers(bf dispatch.BreakerFactory) FactoryOption {
	return func(f *Factory) { f.breakers = bf }
}

// WithBreakerFactory enables circuit breaking backed by the resilience
// package's breaker factory.
func WithBreakerFactory(bf *resilience.BreakerFactory) FactoryOption {
	return func(f *Factory) { f.breakers = breakerAdapter{bf} }
}

// WithLogger sets the factory's own logger.
func WithLogger(log *logger.Logger) FactoryOption {
	return func(f *Factory) { f.log = log }
}

// breakerAdapter narrows *resilience.BreakerFactory to the dispatch
// interface.
type breakerAdapter struct{ f *resilience.BreakerFactory }

func (a breakerAdapter) Create(name string) dispatch.CircuitBreaker {
	return a.f.Create(name)
}

// NewFactory creates a factory over the capability provider and installs
// the built-in defaults into the provider's default scope.
func NewFactory(provider *capability.Provider, opts ...FactoryOption) *Factory {
	f := &Factory{
		provider: provider,
		log:      logger.WithComponent("client.factory"),
	}
	for _, opt := range opts {
		opt(f)
	}
	RegisterDefaults(provider.Default())
	return f
}

// Provider returns the factory's capability provider.
func (f *Factory) Provider() *capability.Provider { return f.provider }

// Client resolves, assembles and targets the declaration and returns
// its dispatcher. Construction failures are fatal and never retried
// here; callers may re-run construction.
func (f *Factory) Client(decl Declaration) (*dispatch.Dispatcher, error) {
	if err := decl.Validate(); err != nil {
		return nil, err
	}

	scope := f.provider.Scope(decl.ScopeID)
	cfg, decl := Resolve(decl, f.props, scope)

	a, err := assemble(decl, cfg, scope)
	if err != nil {
		return nil, err
	}

	tr, ok := lookupCap[transport.Transport](scope, decl.InheritParentScope)
	if !ok {
		tr = transport.MustHTTP()
	}

	targeter, err := uniqueCap[Targeter](scope, decl.InheritParentScope)
	if err != nil {
		return nil, err
	}
	target, tr, err := targeter.Target(decl, tr)
	if err != nil {
		return nil, err
	}

	entries := make(map[dispatch.Method]dispatch.Handler, len(decl.Methods))
	for _, spec := range decl.Methods {
		md, err := a.Contract.Parse(spec)
		if err != nil {
			return nil, errors.InvalidDeclaration(decl.Name, err)
		}
		entries[md.Method] = newMethodHandler(a, target, tr, md)
	}

	d, err := dispatch.NewDispatcher(dispatch.Config{
		Target:          target,
		Table:           dispatch.NewTable(entries),
		Breakers:        f.breakers,
		Fallback:        decl.Fallback,
		FallbackFactory: decl.FallbackFactory,
		Logger:          a.Log,
	})
	if err != nil {
		return nil, err
	}

	f.log.Info("client built", logger.Fields(
		logger.FieldClient, decl.Name,
		logger.FieldTarget, target.URL,
		"methods", len(decl.Methods),
	))
	return d, nil
}

// RegisterDefaults installs the built-in capabilities into a scope:
// JSON codecs, the default contract, the query encoder, the standard
// targeter and the global-logger factory. Existing registrations under
// the same names are replaced.
func RegisterDefaults(scope *capability.Scope) {
	scope.Register("logger-factory", DefaultLoggerFactory{})
	scope.Register("json-encoder", codec.JSONEncoder{})
	scope.Register("json-decoder", codec.JSONDecoder{})
	scope.Register("default-contract", contract.Default{})
	scope.Register("query-encoder", codec.MapQueryEncoder{})
	scope.Register("targeter", DefaultTargeter{})
}
