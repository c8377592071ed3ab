package contract

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/kbukum/clientkit/dispatch"
)

// ParamKind says how a method parameter contributes to the request.
type ParamKind int

const (
	// KindPath substitutes the argument into a {name} path placeholder.
	KindPath ParamKind = iota
	// KindQuery appends the argument as a query parameter.
	KindQuery
	// KindHeader sets the argument as a request header.
	KindHeader
	// KindBody encodes the argument as the request body.
	KindBody
	// KindQueryMap expands a map argument into query parameters.
	KindQueryMap
)

// String returns the kind name.
func (k ParamKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindQuery:
		return "query"
	case KindHeader:
		return "header"
	case KindBody:
		return "body"
	case KindQueryMap:
		return "querymap"
	default:
		return "unknown"
	}
}

// Param declares one method parameter.
type Param struct {
	// Name is the path placeholder, query parameter or header name.
	// Unused for body and query-map parameters.
	Name string
	// Kind says how the argument is applied to the request.
	Kind ParamKind
	// Type is the parameter type name used for method identity,
	// e.g. "string". Defaults to "any".
	Type string
}

// MethodSpec declares one client method.
type MethodSpec struct {
	// Name is the method name, e.g. "GetOrder".
	Name string
	// Verb is the HTTP method. Defaults to GET.
	Verb string
	// Path is the request path template relative to the target base URL,
	// with {name} placeholders, e.g. "/orders/{id}".
	Path string
	// Params declare the method parameters in call order.
	Params []Param
	// Headers are static headers sent on every call of this method.
	Headers http.Header
	// NewResult allocates the value the response body decodes into, e.g.
	// func() any { return new(Order) }. Nil for void methods.
	NewResult func() any
}

// Metadata is the parsed form of a MethodSpec.
type Metadata struct {
	// Method is the dispatch identity derived from name and param types.
	Method dispatch.Method
	// Verb is the normalized HTTP method.
	Verb string
	// Path is the normalized path template.
	Path string
	// PathParams maps placeholder names to argument positions.
	PathParams map[string]int
	// QueryParams maps query parameter names to argument positions.
	QueryParams map[string]int
	// HeaderParams maps header names to argument positions.
	HeaderParams map[string]int
	// BodyIndex is the body argument position, or -1.
	BodyIndex int
	// QueryMapIndex is the query-map argument position, or -1.
	QueryMapIndex int
	// Headers are the static headers declared on the method.
	Headers http.Header
	// NewResult allocates the decode target, nil for void methods.
	NewResult func() any
}

// Contract parses method specs. Registered as a capability so scopes can
// swap in alternate declaration styles.
type Contract interface {
	Parse(spec MethodSpec) (*Metadata, error)
}

var placeholderPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

var allowedVerbs = map[string]bool{
	http.MethodGet: true, http.MethodHead: true, http.MethodPost: true,
	http.MethodPut: true, http.MethodPatch: true, http.MethodDelete: true,
	http.MethodOptions: true, http.MethodTrace: true,
}

// Default is the standard contract.
type Default struct{}

// Parse implements Contract.
func (Default) Parse(spec MethodSpec) (*Metadata, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("contract: method name is required")
	}

	verb := strings.ToUpper(spec.Verb)
	if verb == "" {
		verb = http.MethodGet
	}
	if !allowedVerbs[verb] {
		return nil, fmt.Errorf("contract: %s: invalid HTTP verb %q", spec.Name, spec.Verb)
	}

	path := spec.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	md := &Metadata{
		Verb:          verb,
		Path:          path,
		PathParams:    make(map[string]int),
		QueryParams:   make(map[string]int),
		HeaderParams:  make(map[string]int),
		BodyIndex:     -1,
		QueryMapIndex: -1,
		Headers:       spec.Headers,
		NewResult:     spec.NewResult,
	}

	types := make([]string, 0, len(spec.Params))
	for i, p := range spec.Params {
		typ := p.Type
		if typ == "" {
			typ = "any"
		}
		types = append(types, typ)

		switch p.Kind {
		case KindPath:
			if p.Name == "" {
				return nil, fmt.Errorf("contract: %s: path parameter %d needs a name", spec.Name, i)
			}
			if _, dup := md.PathParams[p.Name]; dup {
				return nil, fmt.Errorf("contract: %s: duplicate path parameter %q", spec.Name, p.Name)
			}
			md.PathParams[p.Name] = i
		case KindQuery:
			if p.Name == "" {
				return nil, fmt.Errorf("contract: %s: query parameter %d needs a name", spec.Name, i)
			}
			md.QueryParams[p.Name] = i
		case KindHeader:
			if p.Name == "" {
				return nil, fmt.Errorf("contract: %s: header parameter %d needs a name", spec.Name, i)
			}
			md.HeaderParams[p.Name] = i
		case KindBody:
			if md.BodyIndex >= 0 {
				return nil, fmt.Errorf("contract: %s: multiple body parameters", spec.Name)
			}
			md.BodyIndex = i
		case KindQueryMap:
			if md.QueryMapIndex >= 0 {
				return nil, fmt.Errorf("contract: %s: multiple query-map parameters", spec.Name)
			}
			md.QueryMapIndex = i
		default:
			return nil, fmt.Errorf("contract: %s: parameter %d has unknown kind", spec.Name, i)
		}
	}
	md.Method = dispatch.Method{Name: spec.Name, Params: types}

	placeholders := make(map[string]bool)
	for _, match := range placeholderPattern.FindAllStringSubmatch(path, -1) {
		placeholders[match[1]] = true
	}
	for name := range placeholders {
		if _, ok := md.PathParams[name]; !ok {
			return nil, fmt.Errorf("contract: %s: placeholder {%s} has no path parameter", spec.Name, name)
		}
	}
	for name := range md.PathParams {
		if !placeholders[name] {
			return nil, fmt.Errorf("contract: %s: path parameter %q has no placeholder", spec.Name, name)
		}
	}

	return md, nil
}

// ExpandPath substitutes path arguments into the template.
func (m *Metadata) ExpandPath(args []any) (string, error) {
	if len(m.PathParams) == 0 {
		return m.Path, nil
	}
	var expandErr error
	expanded := placeholderPattern.ReplaceAllStringFunc(m.Path, func(match string) string {
		name := match[1 : len(match)-1]
		idx, ok := m.PathParams[name]
		if !ok || idx >= len(args) {
			expandErr = fmt.Errorf("contract: no argument for placeholder {%s}", name)
			return match
		}
		return fmt.Sprintf("%v", args[idx])
	})
	return expanded, expandErr
}
