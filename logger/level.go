package logger

import "strings"

// RequestLevel controls how much of each remote call a client logs.
// It is resolved per client as a capability or from property config.
type RequestLevel int

const (
	// RequestLevelNone logs nothing per call.
	RequestLevelNone RequestLevel = iota
	// RequestLevelBasic logs method, target and response status with timing.
	RequestLevelBasic
	// RequestLevelHeaders additionally logs request and response headers.
	RequestLevelHeaders
	// RequestLevelFull additionally logs request and response bodies.
	RequestLevelFull
)

// String returns the level name.
func (l RequestLevel) String() string {
	switch l {
	case RequestLevelNone:
		return "none"
	case RequestLevelBasic:
		return "basic"
	case RequestLevelHeaders:
		return "headers"
	case RequestLevelFull:
		return "full"
	default:
		return "unknown"
	}
}

// ParseRequestLevel converts a property value into a RequestLevel.
// Unknown values map to RequestLevelNone.
func ParseRequestLevel(s string) RequestLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basic":
		return RequestLevelBasic
	case "headers":
		return RequestLevelHeaders
	case "full":
		return RequestLevelFull
	default:
		return RequestLevelNone
	}
}
