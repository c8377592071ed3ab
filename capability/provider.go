package capability

import (
	"sort"
	"sync"

	"github.com/kbukum/clientkit/logger"
)

// Provider creates and caches one Scope per client name. All scopes share
// a default parent scope holding process-wide capabilities.
type Provider struct {
	mu           sync.RWMutex
	scopes       map[string]*Scope
	defaultScope *Scope
}

// DefaultScopeName is the name of the shared parent scope.
const DefaultScopeName = "default"

// NewProvider creates a provider with an empty default scope.
func NewProvider() *Provider {
	return &Provider{
		scopes:       make(map[string]*Scope),
		defaultScope: NewScope(DefaultScopeName, nil),
	}
}

// Default returns the shared parent scope.
func (p *Provider) Default() *Scope {
	return p.defaultScope
}

// Scope returns the scope for the given client name, creating it on first
// access. Concurrent first access yields exactly one instance: losers of
// the construction race receive the winner's scope.
func (p *Provider) Scope(name string) *Scope {
	p.mu.RLock()
	s, ok := p.scopes[name]
	p.mu.RUnlock()
	if ok {
		return s
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.scopes[name]; ok {
		return s
	}
	s = NewScope(name, p.defaultScope)
	p.scopes[name] = s
	logger.Debug("capability scope created", logger.Fields(logger.FieldClient, name))
	return s
}

// Names returns the names of all created scopes, sorted.
func (p *Provider) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.scopes))
	for name := range p.scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
