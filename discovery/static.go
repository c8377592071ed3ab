package discovery

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// Strategy selects among the instances of one service.
type Strategy string

const (
	// StrategyRoundRobin cycles through instances in order.
	StrategyRoundRobin Strategy = "round_robin"
	// StrategyRandom picks a uniformly random instance.
	StrategyRandom Strategy = "random"
)

// StaticEndpoint declares one fixed instance for the static resolver.
type StaticEndpoint struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Address string `yaml:"address" mapstructure:"address"`
	Port    int    `yaml:"port" mapstructure:"port"`
}

// StaticResolver resolves service names against a fixed instance list.
// Useful for local development and tests.
type StaticResolver struct {
	strategy Strategy

	mu        sync.Mutex
	instances map[string][]ServiceInstance
	next      map[string]int
}

// NewStaticResolver creates a resolver pre-populated from static config.
func NewStaticResolver(endpoints []StaticEndpoint, strategy Strategy) *StaticResolver {
	if strategy == "" {
		strategy = StrategyRoundRobin
	}
	r := &StaticResolver{
		strategy:  strategy,
		instances: make(map[string][]ServiceInstance),
		next:      make(map[string]int),
	}
	for _, ep := range endpoints {
		r.instances[ep.Name] = append(r.instances[ep.Name], ServiceInstance{
			ID:      uuid.NewString(),
			Name:    ep.Name,
			Address: ep.Address,
			Port:    ep.Port,
		})
	}
	return r
}

// Add registers another instance for a service at runtime.
func (r *StaticResolver) Add(ep StaticEndpoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances[ep.Name] = append(r.instances[ep.Name], ServiceInstance{
		ID:      uuid.NewString(),
		Name:    ep.Name,
		Address: ep.Address,
		Port:    ep.Port,
	})
}

// Resolve selects one instance by the configured strategy.
func (r *StaticResolver) Resolve(_ context.Context, serviceName string) (ServiceInstance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.instances[serviceName]
	if len(list) == 0 {
		return ServiceInstance{}, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceName)
	}

	switch r.strategy {
	case StrategyRandom:
		return list[rand.Intn(len(list))], nil
	default:
		i := r.next[serviceName] % len(list)
		r.next[serviceName] = i + 1
		return list[i], nil
	}
}

// Compile-time check.
var _ EndpointResolver = (*StaticResolver)(nil)
