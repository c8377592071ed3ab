// Package discovery resolves logical service names to concrete endpoints.
//
// clientkit treats the load balancer as an opaque collaborator: the
// load-balancing transport decorator asks an EndpointResolver for one
// instance per call and never sees the selection algorithm. The static
// provider included here serves fixed instance lists with round-robin or
// random selection, which is enough for local development and tests.
package discovery
