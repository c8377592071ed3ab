// Package resilience provides the fault-tolerance capabilities consumed
// by generated clients: a circuit breaker with a per-circuit-name factory
// and a retry policy. The dispatcher keys one breaker per interface
// method; the retry policy wraps individual exchanges inside a method
// handler.
package resilience
