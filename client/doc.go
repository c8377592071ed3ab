// Package client builds typed remote-call clients from declarations.
// A Declaration names the interface, the logical client name and its
// method specs; the factory resolves the effective configuration from
// layered sources (capability scopes plus property records), assembles
// the client object graph, binds the network target (fixed URL or
// load-balanced logical name) and hands back a dispatch.Dispatcher
// ready for invocation.
package client
