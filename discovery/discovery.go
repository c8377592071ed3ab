package discovery

import (
	"context"
	"errors"
	"fmt"
)

// ErrServiceNotFound indicates no instance is known for a service name.
var ErrServiceNotFound = errors.New("discovery: service not found")

// ServiceInstance is one resolvable endpoint of a logical service.
type ServiceInstance struct {
	// ID uniquely identifies the instance.
	ID string
	// Name is the logical service name.
	Name string
	// Address is the host or IP of the instance.
	Address string
	// Port is the instance port.
	Port int
}

// HostPort returns the dialable "host:port" form of the instance.
func (s ServiceInstance) HostPort() string {
	if s.Port <= 0 {
		return s.Address
	}
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// EndpointResolver selects one instance of a logical service per call.
type EndpointResolver interface {
	// Resolve returns the instance the next request should go to.
	Resolve(ctx context.Context, serviceName string) (ServiceInstance, error)
}
