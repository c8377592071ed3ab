package client

import (
	"strings"

	"github.com/kbukum/clientkit/dispatch"
	"github.com/kbukum/clientkit/errors"
	"github.com/kbukum/clientkit/transport"
)

// DefaultScheme prefixes logical names and scheme-less URLs.
const DefaultScheme = "http://"

// Targeter decides the effective base address for a declaration and
// binds the transport accordingly. A required capability so scopes can
// swap in alternate targeting policies.
type Targeter interface {
	Target(decl Declaration, tr transport.Transport) (dispatch.Target, transport.Transport, error)
}

// DefaultTargeter implements the standard rules.
//
// Without a fixed URL the logical client name becomes the base address
// and requests go through load balancing: the scope's transport must be
// a load-balancing decorator (one exposing Unwrap), otherwise the
// declaration is a fatal misconfiguration. With a fixed URL the
// decorator layers are unwrapped so the call bypasses load balancing
// even when a balancing transport is in scope.
type DefaultTargeter struct{}

// Target implements Targeter.
func (DefaultTargeter) Target(decl Declaration, tr transport.Transport) (dispatch.Target, transport.Transport, error) {
	suffix := CleanPath(decl.Path)

	if decl.URL == "" {
		url := decl.Name
		if !schemeQualified(url) {
			url = DefaultScheme + url
		}
		if _, ok := tr.(transport.Unwrapper); !ok {
			return dispatch.Target{}, nil, errors.NoLoadBalancer(decl.Name)
		}
		return dispatch.Target{Iface: decl.Iface, Name: decl.Name, URL: url + suffix}, tr, nil
	}

	url := decl.URL
	if !schemeQualified(url) {
		url = DefaultScheme + url
	}
	return dispatch.Target{Iface: decl.Iface, Name: decl.Name, URL: url + suffix},
		transport.UnwrapAll(tr), nil
}

// CleanPath normalizes a path suffix: trim whitespace, enforce a single
// leading slash, strip the trailing slash. Idempotent, so reapplication
// never changes the result.
func CleanPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	if path == "/" {
		return ""
	}
	return path
}

func schemeQualified(s string) bool {
	return strings.Contains(s, "://")
}
