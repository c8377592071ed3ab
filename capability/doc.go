// Package capability implements named, hierarchical capability scopes.
//
// Each logical client owns one Scope, created lazily by a Provider and
// chained to a shared default scope. Capabilities (encoders, decoders,
// interceptors, retry policies, transports, ...) are registered into a
// scope by identity name and resolved by type with generic accessors.
// Every accessor has an ancestor-including and an ancestor-excluding
// variant so a client can opt out of inheriting shared configuration.
//
//	provider := capability.NewProvider()
//	provider.Default().Register("json", codec.JSONEncoder{})
//
//	scope := provider.Scope("orders")
//	enc, err := capability.Unique[codec.Encoder](scope)
package capability
