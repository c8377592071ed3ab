package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/kbukum/clientkit/transport"
)

// Encoder converts a method argument into a request body.
type Encoder interface {
	// Encode returns the body bytes and the content type to send.
	Encode(v any) (body []byte, contentType string, err error)
}

// Decoder converts a successful response into a method result.
type Decoder interface {
	Decode(resp *transport.Response, out any) error
}

// ErrorDecoder converts a non-2xx response into an error. The method name
// identifies the failing call for diagnostics.
type ErrorDecoder interface {
	Decode(method string, resp *transport.Response) error
}

// ErrorDecoderFactory synthesizes an ErrorDecoder for a declared interface
// type. Consulted by the assembler only when no ErrorDecoder is configured.
type ErrorDecoderFactory interface {
	Create(iface string) ErrorDecoder
}

// QueryEncoder expands a query-map argument into URL parameters.
type QueryEncoder interface {
	Encode(v any) (url.Values, error)
}

// --- JSON defaults ---

// JSONEncoder encodes bodies as JSON. Raw []byte and string values pass
// through unencoded.
type JSONEncoder struct{}

// Encode implements Encoder.
func (JSONEncoder) Encode(v any) ([]byte, string, error) {
	switch b := v.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "application/octet-stream", nil
	case string:
		return []byte(b), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("codec: encode body: %w", err)
		}
		return data, "application/json", nil
	}
}

// JSONDecoder decodes JSON response bodies.
type JSONDecoder struct{}

// Decode implements Decoder. A nil out or an empty body is a no-op so
// void methods and empty results need no special casing.
func (JSONDecoder) Decode(resp *transport.Response, out any) error {
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if raw, ok := out.(*[]byte); ok {
		*raw = resp.Body
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("codec: decode body: %w", err)
	}
	return nil
}

// StatusError is the default error produced for non-2xx responses.
type StatusError struct {
	// Method is the failing call.
	Method string
	// StatusCode is the HTTP status code.
	StatusCode int
	// Body is the raw response body.
	Body []byte
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("codec: %s returned HTTP %d", e.Method, e.StatusCode)
}

// DefaultErrorDecoder turns every non-2xx response into a *StatusError.
type DefaultErrorDecoder struct{}

// Decode implements ErrorDecoder.
func (DefaultErrorDecoder) Decode(method string, resp *transport.Response) error {
	return &StatusError{Method: method, StatusCode: resp.StatusCode, Body: resp.Body}
}

// MapQueryEncoder expands maps into query parameters. Structs are passed
// through a JSON round trip, so field tags control parameter names.
type MapQueryEncoder struct{}

// Encode implements QueryEncoder.
func (MapQueryEncoder) Encode(v any) (url.Values, error) {
	out := make(url.Values)
	switch m := v.(type) {
	case nil:
		return out, nil
	case url.Values:
		for k, vs := range m {
			out[k] = append(out[k], vs...)
		}
	case map[string][]string:
		for k, vs := range m {
			out[k] = append(out[k], vs...)
		}
	case map[string]string:
		for k, val := range m {
			out.Set(k, val)
		}
	case map[string]any:
		for k, val := range m {
			out.Set(k, fmt.Sprintf("%v", val))
		}
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codec: encode query map: %w", err)
		}
		var generic map[string]any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("codec: query map must be a map or struct: %w", err)
		}
		for k, val := range generic {
			out.Set(k, fmt.Sprintf("%v", val))
		}
	}
	return out, nil
}
