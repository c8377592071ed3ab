// Package codec defines the pluggable encode/decode capabilities consumed
// by generated clients: request body encoding, response body decoding,
// error decoding for non-2xx responses, and query-map encoding. JSON
// implementations are the registered defaults.
package codec
