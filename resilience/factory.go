package resilience

import (
	"sync"
)

// BreakerFactory hands out circuit breakers keyed by circuit name. The
// same name always yields the same breaker, so every call site sharing a
// circuit shares its state.
type BreakerFactory struct {
	config BreakerConfig

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerFactory creates a factory producing breakers with the given
// configuration. A zero config falls back to DefaultBreakerConfig.
func NewBreakerFactory(config BreakerConfig) *BreakerFactory {
	if config.MaxFailures <= 0 && config.Timeout <= 0 && config.HalfOpenMaxCalls <= 0 {
		config = DefaultBreakerConfig()
	}
	return &BreakerFactory{
		config:   config,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Create returns the breaker for the circuit name, constructing it on
// first use.
func (f *BreakerFactory) Create(name string) *CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	if cb, ok := f.breakers[name]; ok {
		return cb
	}
	cb := NewCircuitBreaker(name, f.config)
	f.breakers[name] = cb
	return cb
}

// Names returns the circuit names created so far.
func (f *BreakerFactory) Names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(f.breakers))
	for name := range f.breakers {
		names = append(names, name)
	}
	return names
}
