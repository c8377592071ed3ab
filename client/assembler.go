package client

import (
	"github.com/kbukum/clientkit/capability"
	"github.com/kbukum/clientkit/codec"
	"github.com/kbukum/clientkit/contract"
	"github.com/kbukum/clientkit/logger"
	"github.com/kbukum/clientkit/resilience"
	"github.com/kbukum/clientkit/transport"
)

// LoggerFactory hands each client its own logger. A required capability.
type LoggerFactory interface {
	Logger(client string) *logger.Logger
}

// DefaultLoggerFactory derives client loggers from the global logger.
type DefaultLoggerFactory struct{}

// Logger implements LoggerFactory.
func (DefaultLoggerFactory) Logger(client string) *logger.Logger {
	return logger.GetGlobalLogger().WithClient(client)
}

// Customizer mutates the assembled graph after all configuration is
// applied. Instances are applied in ascending registration priority;
// on conflicting mutations the last applied wins.
type Customizer interface {
	Customize(a *Assembled)
}

// Assembled is the client object graph ready for target binding.
type Assembled struct {
	Log          *logger.Logger
	LogLevel     logger.RequestLevel
	Encoder      codec.Encoder
	Decoder      codec.Decoder
	Contract     contract.Contract
	ErrorDecoder codec.ErrorDecoder
	Retryer      resilience.Retryer
	Options      transport.Options
	Interceptors []transport.Interceptor
	QueryEncoder codec.QueryEncoder
	Decode404    bool
	Propagation  PropagationPolicy
}

// assemble consumes the effective configuration and the capability
// scope. Logger factory, encoder, decoder and contract are required;
// every other capability has a built-in default.
func assemble(decl Declaration, cfg EffectiveConfig, scope *capability.Scope) (*Assembled, error) {
	inherit := decl.InheritParentScope

	logs, err := uniqueCap[LoggerFactory](scope, inherit)
	if err != nil {
		return nil, err
	}

	a := &Assembled{
		Log:          logs.Logger(decl.Name),
		Options:      decl.Options(),
		Interceptors: cfg.Interceptors(),
		Retryer:      resilience.NoRetryer{},
		QueryEncoder: codec.MapQueryEncoder{},
	}

	if a.Encoder = cfg.Encoder; a.Encoder == nil {
		if a.Encoder, err = uniqueCap[codec.Encoder](scope, inherit); err != nil {
			return nil, err
		}
	}
	if a.Decoder = cfg.Decoder; a.Decoder == nil {
		if a.Decoder, err = uniqueCap[codec.Decoder](scope, inherit); err != nil {
			return nil, err
		}
	}
	if a.Contract = cfg.Contract; a.Contract == nil {
		if a.Contract, err = uniqueCap[contract.Contract](scope, inherit); err != nil {
			return nil, err
		}
	}

	if cfg.LogLevel != nil {
		a.LogLevel = *cfg.LogLevel
	}
	if cfg.Retryer != nil {
		a.Retryer = cfg.Retryer
	}
	if cfg.Options != nil {
		a.Options = *cfg.Options
	}
	if cfg.QueryEncoder != nil {
		a.QueryEncoder = cfg.QueryEncoder
	}
	if cfg.Decode404 != nil {
		a.Decode404 = *cfg.Decode404
	}
	if cfg.Propagation != nil {
		a.Propagation = *cfg.Propagation
	}

	a.ErrorDecoder = cfg.ErrorDecoder
	if a.ErrorDecoder == nil {
		if factory, ok := lookupCap[codec.ErrorDecoderFactory](scope, inherit); ok {
			a.ErrorDecoder = factory.Create(decl.Iface)
		}
	}
	if a.ErrorDecoder == nil {
		a.ErrorDecoder = codec.DefaultErrorDecoder{}
	}

	var customizers []Customizer
	if inherit {
		customizers = capability.AllOrdered[Customizer](scope)
	} else {
		customizers = capability.AllOrderedLocal[Customizer](scope)
	}
	for _, c := range customizers {
		c.Customize(a)
	}

	return a, nil
}

// uniqueCap honors the declaration's inheritance flag.
func uniqueCap[T any](scope *capability.Scope, inherit bool) (T, error) {
	if inherit {
		return capability.Unique[T](scope)
	}
	return capability.UniqueLocal[T](scope)
}
