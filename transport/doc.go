// Package transport defines the request/response exchange layer used by
// generated clients.
//
// A Transport performs one exchange bounded by per-client Options. The
// HTTP implementation is the default; a load-balancing decorator wraps any
// Transport and rewrites logical service names to concrete endpoints
// resolved through the discovery package. Decorators expose their delegate
// via Unwrap so target resolution can bypass load balancing when a fixed
// URL is declared.
//
// Interceptors mutate outbound requests before the exchange: request IDs,
// bearer tokens, content digests, trace propagation, or static headers.
package transport
