package capability

import (
	"reflect"
	"sort"
	"sync"

	"github.com/kbukum/clientkit/errors"
)

// Registration is one capability instance held by a scope.
type Registration struct {
	// Name is the stable identity of the instance within its scope.
	Name string
	// Priority orders instances when a consumer wants all of a type.
	// Lower values come first.
	Priority int
	// Value is the capability instance.
	Value any
}

// Scope is a named container of capability instances, optionally chained
// to an ancestor scope.
type Scope struct {
	name   string
	parent *Scope

	mu      sync.RWMutex
	entries []Registration
}

// NewScope creates a standalone scope. Most callers obtain scopes from a
// Provider instead.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{name: name, parent: parent}
}

// Name returns the scope name.
func (s *Scope) Name() string { return s.name }

// Parent returns the ancestor scope, or nil for a root scope.
func (s *Scope) Parent() *Scope { return s.parent }

// RegisterOption customizes a registration.
type RegisterOption func(*Registration)

// WithPriority sets the ordering priority of a registration.
func WithPriority(p int) RegisterOption {
	return func(r *Registration) { r.Priority = p }
}

// Register adds a capability instance to the scope under the given
// identity name. Registering the same name twice replaces the earlier
// instance.
func (s *Scope) Register(name string, value any, opts ...RegisterOption) {
	reg := Registration{Name: name, Value: value}
	for _, opt := range opts {
		opt(&reg)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.entries {
		if existing.Name == name {
			s.entries[i] = reg
			return
		}
	}
	s.entries = append(s.entries, reg)
}

// snapshot copies the entry list out so accessors never hold the scope
// lock while caller code runs.
func (s *Scope) snapshot() []Registration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Registration, len(s.entries))
	copy(out, s.entries)
	return out
}

// matches collects registrations of type T in this scope only.
func matches[T any](s *Scope) []Registration {
	var out []Registration
	for _, reg := range s.snapshot() {
		if _, ok := reg.Value.(T); ok {
			out = append(out, reg)
		}
	}
	return out
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Unique returns the single instance of T visible from the scope,
// searching ancestors when the scope itself has none. A scope with more
// than one local instance is ambiguous even when ancestors are ignored.
func Unique[T any](s *Scope) (T, error) {
	return unique[T](s, true)
}

// UniqueLocal is Unique restricted to the named scope, ignoring ancestors.
func UniqueLocal[T any](s *Scope) (T, error) {
	return unique[T](s, false)
}

func unique[T any](s *Scope, ancestors bool) (T, error) {
	var zero T
	for cur := s; cur != nil; cur = cur.parent {
		found := matches[T](cur)
		switch len(found) {
		case 0:
			if !ancestors {
				return zero, errors.CapabilityNotFound(s.name, typeName[T]())
			}
			continue
		case 1:
			return found[0].Value.(T), nil
		default:
			return zero, errors.AmbiguousCapability(cur.name, typeName[T](), len(found))
		}
	}
	return zero, errors.CapabilityNotFound(s.name, typeName[T]())
}

// Lookup returns the single instance of T visible from the scope, or
// false when none is registered. Ambiguity still fails via Unique's
// contract, so Lookup prefers the nearest scope's sole instance.
func Lookup[T any](s *Scope) (T, bool) {
	return lookup[T](s, true)
}

// LookupLocal is Lookup restricted to the named scope, ignoring ancestors.
func LookupLocal[T any](s *Scope) (T, bool) {
	return lookup[T](s, false)
}

func lookup[T any](s *Scope, ancestors bool) (T, bool) {
	var zero T
	for cur := s; cur != nil; cur = cur.parent {
		found := matches[T](cur)
		if len(found) > 0 {
			return found[0].Value.(T), true
		}
		if !ancestors {
			break
		}
	}
	return zero, false
}

// Named returns the instance of T registered under the identity name,
// searching ancestors. Absent or differently-typed registrations report
// false.
func Named[T any](s *Scope, name string) (T, bool) {
	return named[T](s, name, true)
}

// NamedLocal is Named restricted to the named scope, ignoring ancestors.
func NamedLocal[T any](s *Scope, name string) (T, bool) {
	return named[T](s, name, false)
}

func named[T any](s *Scope, name string, ancestors bool) (T, bool) {
	var zero T
	for cur := s; cur != nil; cur = cur.parent {
		for _, reg := range cur.snapshot() {
			if reg.Name != name {
				continue
			}
			if v, ok := reg.Value.(T); ok {
				return v, true
			}
			return zero, false
		}
		if !ancestors {
			break
		}
	}
	return zero, false
}

// All returns every visible instance of T keyed by identity name.
// Entries in a nearer scope shadow same-named entries in ancestors.
func All[T any](s *Scope) map[string]T {
	return all[T](s, true)
}

// AllLocal is All restricted to the named scope, ignoring ancestors.
func AllLocal[T any](s *Scope) map[string]T {
	return all[T](s, false)
}

func all[T any](s *Scope, ancestors bool) map[string]T {
	out := make(map[string]T)
	for cur := s; cur != nil; cur = cur.parent {
		for _, reg := range matches[T](cur) {
			if _, shadowed := out[reg.Name]; !shadowed {
				out[reg.Name] = reg.Value.(T)
			}
		}
		if !ancestors {
			break
		}
	}
	return out
}

// AllOrdered returns every visible instance of T sorted by ascending
// priority, ties broken by identity name for stable output.
func AllOrdered[T any](s *Scope) []T {
	return allOrdered[T](s, true)
}

// AllOrderedLocal is AllOrdered restricted to the named scope.
func AllOrderedLocal[T any](s *Scope) []T {
	return allOrdered[T](s, false)
}

func allOrdered[T any](s *Scope, ancestors bool) []T {
	var regs []Registration
	seen := make(map[string]bool)
	for cur := s; cur != nil; cur = cur.parent {
		for _, reg := range matches[T](cur) {
			if !seen[reg.Name] {
				seen[reg.Name] = true
				regs = append(regs, reg)
			}
		}
		if !ancestors {
			break
		}
	}
	sort.SliceStable(regs, func(i, j int) bool {
		if regs[i].Priority != regs[j].Priority {
			return regs[i].Priority < regs[j].Priority
		}
		return regs[i].Name < regs[j].Name
	})
	out := make([]T, len(regs))
	for i, reg := range regs {
		out[i] = reg.Value.(T)
	}
	return out
}
