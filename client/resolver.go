package client

import (
	"github.com/kbukum/clientkit/capability"
	"github.com/kbukum/clientkit/codec"
	"github.com/kbukum/clientkit/contract"
	"github.com/kbukum/clientkit/logger"
	"github.com/kbukum/clientkit/resilience"
	"github.com/kbukum/clientkit/transport"
)

// Resolve merges property-sourced and scope-sourced configuration into
// the effective configuration for one client. It is a pure function:
// the updated declaration (request options resolved from the scope feed
// back into its timeout and redirect fields) is returned, never written
// in place.
//
// Precedence, per field, controlled by props.PreferProperties:
//   - preferred: scope values first, then the default record, then the
//     client record — later sources overwrite fields they define.
//   - not preferred: default record, then client record, then scope
//     values — scope-sourced capabilities take final authority.
//
// Interceptors are exempt: the chain is always the union of the
// scope-sourced instances (priority order) and the property-named ones.
// The declaration's own Decode404 flag applies regardless of source.
func Resolve(decl Declaration, props *Properties, scope *capability.Scope) (EffectiveConfig, Declaration) {
	var cfg EffectiveConfig

	if props != nil && props.PreferProperties {
		decl = applyScope(&cfg, decl, scope)
		applyRecord(&cfg, &decl, props.Default(), scope, decl.InheritParentScope)
		applyRecord(&cfg, &decl, props.Get(decl.ScopeID), scope, decl.InheritParentScope)
	} else {
		if props != nil {
			applyRecord(&cfg, &decl, props.Default(), scope, decl.InheritParentScope)
			applyRecord(&cfg, &decl, props.Get(decl.ScopeID), scope, decl.InheritParentScope)
		}
		decl = applyScope(&cfg, decl, scope)
	}

	if decl.Decode404 {
		yes := true
		cfg.Decode404 = &yes
	}
	return cfg, decl
}

// applyScope overwrites fields for which the scope has a capability and
// threads the request-options feedback through the returned declaration.
func applyScope(cfg *EffectiveConfig, decl Declaration, scope *capability.Scope) Declaration {
	if scope == nil {
		return decl
	}
	inherit := decl.InheritParentScope

	if level, ok := lookupCap[logger.RequestLevel](scope, inherit); ok {
		cfg.LogLevel = &level
	}
	if retryer, ok := lookupCap[resilience.Retryer](scope, inherit); ok {
		cfg.Retryer = retryer
	}
	if ed, ok := lookupCap[codec.ErrorDecoder](scope, inherit); ok {
		cfg.ErrorDecoder = ed
	}
	if opts, ok := lookupCap[transport.Options](scope, inherit); ok {
		cfg.Options = &opts
		decl.ConnectTimeout = opts.ConnectTimeout
		decl.ReadTimeout = opts.ReadTimeout
		decl.FollowRedirects = opts.FollowRedirects
	}
	if qe, ok := lookupCap[codec.QueryEncoder](scope, inherit); ok {
		cfg.QueryEncoder = qe
	}

	if inherit {
		cfg.scopeInterceptors = capability.AllOrdered[transport.Interceptor](scope)
	} else {
		cfg.scopeInterceptors = capability.AllOrderedLocal[transport.Interceptor](scope)
	}
	return decl
}

// applyRecord overwrites fields the record defines. Capability-valued
// fields are resolved by registration name against the scope; unknown
// names contribute nothing.
func applyRecord(cfg *EffectiveConfig, decl *Declaration, rec *Config, scope *capability.Scope, inherit bool) {
	if rec == nil {
		return
	}

	if rec.LogLevel != nil {
		level := logger.ParseRequestLevel(*rec.LogLevel)
		cfg.LogLevel = &level
	}
	if rec.ConnectTimeout != nil {
		decl.ConnectTimeout = *rec.ConnectTimeout
	}
	if rec.ReadTimeout != nil {
		decl.ReadTimeout = *rec.ReadTimeout
	}
	if rec.FollowRedirects != nil {
		decl.FollowRedirects = *rec.FollowRedirects
	}
	if rec.ConnectTimeout != nil || rec.ReadTimeout != nil || rec.FollowRedirects != nil {
		opts := decl.Options()
		cfg.Options = &opts
	}
	if rec.Retryer != nil {
		if retryer, ok := namedCap[resilience.Retryer](scope, *rec.Retryer, inherit); ok {
			cfg.Retryer = retryer
		}
	}
	if rec.ErrorDecoder != nil {
		if ed, ok := namedCap[codec.ErrorDecoder](scope, *rec.ErrorDecoder, inherit); ok {
			cfg.ErrorDecoder = ed
		}
	}
	if rec.Encoder != nil {
		if enc, ok := namedCap[codec.Encoder](scope, *rec.Encoder, inherit); ok {
			cfg.Encoder = enc
		}
	}
	if rec.Decoder != nil {
		if dec, ok := namedCap[codec.Decoder](scope, *rec.Decoder, inherit); ok {
			cfg.Decoder = dec
		}
	}
	if rec.Contract != nil {
		if ct, ok := namedCap[contract.Contract](scope, *rec.Contract, inherit); ok {
			cfg.Contract = ct
		}
	}
	if rec.QueryEncoder != nil {
		if qe, ok := namedCap[codec.QueryEncoder](scope, *rec.QueryEncoder, inherit); ok {
			cfg.QueryEncoder = qe
		}
	}
	if rec.Decode404 != nil {
		cfg.Decode404 = rec.Decode404
	}
	if rec.Propagation != nil {
		if policy, ok := ParsePropagation(*rec.Propagation); ok {
			cfg.Propagation = &policy
		}
	}

	for _, name := range rec.Interceptors {
		if ic, ok := namedCap[transport.Interceptor](scope, name, inherit); ok {
			cfg.propInterceptors = append(cfg.propInterceptors, ic)
		}
	}
	if len(rec.DefaultRequestHeaders) > 0 {
		cfg.propInterceptors = append(cfg.propInterceptors,
			&transport.HeaderInterceptor{Headers: rec.DefaultRequestHeaders})
	}
	if len(rec.DefaultQueryParameters) > 0 {
		cfg.propInterceptors = append(cfg.propInterceptors,
			&transport.QueryInterceptor{Params: rec.DefaultQueryParameters})
	}
}

// lookupCap honors the declaration's inheritance flag.
func lookupCap[T any](scope *capability.Scope, inherit bool) (T, bool) {
	if inherit {
		return capability.Lookup[T](scope)
	}
	return capability.LookupLocal[T](scope)
}

// namedCap resolves a capability by registration name, restricted to the
// local scope when inheritance is off.
func namedCap[T any](scope *capability.Scope, name string, inherit bool) (T, bool) {
	if scope == nil {
		var zero T
		return zero, false
	}
	if !inherit {
		return capability.NamedLocal[T](scope, name)
	}
	return capability.Named[T](scope, name)
}
