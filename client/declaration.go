package client

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/clientkit/contract"
	"github.com/kbukum/clientkit/dispatch"
	"github.com/kbukum/clientkit/errors"
	"github.com/kbukum/clientkit/transport"
)

var validate = validator.New()

// Declaration identifies one remote-client contract. It is immutable
// once handed to the factory; the resolver returns updated copies
// rather than mutating in place.
type Declaration struct {
	// Iface is the declared interface name, e.g. "OrderService".
	Iface string `validate:"required"`
	// Name is the logical client name, e.g. "orders". Load-balanced
	// targets resolve it through service discovery.
	Name string `validate:"required"`
	// ScopeID selects the capability scope. Distinct from Name so
	// several declarations can share one scope. Defaults to Name.
	ScopeID string
	// URL pins the client to a fixed endpoint, bypassing load balancing.
	URL string
	// Path is a suffix appended to the resolved base address.
	Path string
	// Decode404 decodes 404 responses as empty results instead of errors.
	Decode404 bool
	// InheritParentScope lets capability lookups fall back to the shared
	// default scope. Set by NewDeclaration; disable explicitly to pin a
	// client to its own scope.
	InheritParentScope bool
	// Fallback is a static table invoked when a guarded call fails.
	Fallback *dispatch.Table
	// FallbackFactory builds a fallback table per failure. Mutually
	// exclusive with Fallback.
	FallbackFactory dispatch.FallbackFactory
	// ConnectTimeout bounds connection establishment.
	ConnectTimeout time.Duration
	// ReadTimeout bounds the whole exchange.
	ReadTimeout time.Duration
	// FollowRedirects enables automatic redirect following.
	FollowRedirects bool
	// Methods declare the client's operations.
	Methods []contract.MethodSpec
}

// NewDeclaration creates a declaration with the standard defaults:
// scope id equal to the name, parent-scope inheritance on, and the
// default request options.
func NewDeclaration(iface, name string, methods ...contract.MethodSpec) Declaration {
	opts := transport.DefaultOptions()
	return Declaration{
		Iface:              iface,
		Name:               name,
		ScopeID:            name,
		InheritParentScope: true,
		ConnectTimeout:     opts.ConnectTimeout,
		ReadTimeout:        opts.ReadTimeout,
		FollowRedirects:    opts.FollowRedirects,
		Methods:            methods,
	}
}

// Validate checks the declaration invariants: required fields, and at
// most one fallback mode.
func (d Declaration) Validate() error {
	if d.ScopeID == "" {
		return errors.InvalidDeclaration(d.Name, fmt.Errorf("scope id is required"))
	}
	if d.Fallback != nil && d.FallbackFactory != nil {
		return errors.InvalidDeclaration(d.Name,
			fmt.Errorf("fallback and fallback factory are mutually exclusive"))
	}
	if err := validate.Struct(d); err != nil {
		return errors.InvalidDeclaration(d.Name, err)
	}
	return nil
}

// Options returns the declaration's request options.
func (d Declaration) Options() transport.Options {
	return transport.Options{
		ConnectTimeout:  d.ConnectTimeout,
		ReadTimeout:     d.ReadTimeout,
		FollowRedirects: d.FollowRedirects,
	}
}

// Equal compares the identifying and configuration fields; method specs
// and fallback instances do not participate.
func (d Declaration) Equal(other Declaration) bool {
	return d.Iface == other.Iface &&
		d.Name == other.Name &&
		d.ScopeID == other.ScopeID &&
		d.URL == other.URL &&
		d.Path == other.Path &&
		d.Decode404 == other.Decode404 &&
		d.InheritParentScope == other.InheritParentScope &&
		d.ConnectTimeout == other.ConnectTimeout &&
		d.ReadTimeout == other.ReadTimeout &&
		d.FollowRedirects == other.FollowRedirects
}

// Hash returns a stable hash over the fields Equal compares.
func (d Declaration) Hash() uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%t|%t|%d|%d|%t",
		d.Iface, d.Name, d.ScopeID, d.URL, d.Path,
		d.Decode404, d.InheritParentScope,
		d.ConnectTimeout, d.ReadTimeout, d.FollowRedirects)
	return h.Sum64()
}

// String renders the declaration for logs.
func (d Declaration) String() string {
	return fmt.Sprintf("Declaration{iface=%s, name=%s, scope=%s, url=%s, path=%s}",
		d.Iface, d.Name, d.ScopeID, d.URL, d.Path)
}
