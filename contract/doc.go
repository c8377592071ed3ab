// Package contract turns declared method specifications into the
// metadata a client factory needs to build request handlers: the HTTP
// verb, the path template, and how each parameter position maps onto
// the request (path variable, query parameter, header, body or query
// map). The default contract validates placeholder/parameter agreement
// and normalizes verbs and paths.
package contract
