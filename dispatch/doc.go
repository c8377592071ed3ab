// Package dispatch executes calls against a typed remote-call client.
// A client is a fixed table of method handlers keyed by method identity
// (name plus parameter type names). The Dispatcher routes each call
// through an optional per-method circuit breaker, falls back to an
// alternate handler table on failure, and intercepts the identity
// methods String, Equal and Hash so client values behave like ordinary
// comparable objects.
package dispatch
