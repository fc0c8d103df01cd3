package discovery

import (
	"fmt"
	"log"
	"strconv"

	"github.com/hashicorp/consul/api"
)

// ServiceRegistry handles service registration with Consul
type ServiceRegistry struct {
	client      *api.Client
	serviceName string
	serviceID   string
	servicePort string
	tags        []string
}

// NewServiceRegistry creates a new service registry
func NewServiceRegistry(consulAddress, serviceName, serviceID, servicePort string, tags ...string) (*ServiceRegistry, error) {
	config := api.DefaultConfig()
	config.Address = consulAddress

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	return &ServiceRegistry{
		client:      client,
		serviceName: serviceName,
		serviceID:   serviceID,
		servicePort: servicePort,
		tags:        tags,
	}, nil
}

// Registration builds the agent registration, health checked through /health
func (sr *ServiceRegistry) Registration() (*api.AgentServiceRegistration, error) {
	port, err := strconv.Atoi(sr.servicePort)
	if err != nil {
		return nil, fmt.Errorf("invalid port: %s: %w", sr.servicePort, err)
	}

	return &api.AgentServiceRegistration{
		ID:   sr.serviceID,
		Name: sr.serviceName,
		Port: port,
		Tags: sr.tags,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.serviceName, sr.servicePort),
			Interval: "10s",
			Timeout:  "5s",
		},
	}, nil
}

// Register registers the service with Consul
func (sr *ServiceRegistry) Register() error {
	registration, err := sr.Registration()
	if err != nil {
		return err
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	log.Printf("Service %s registered with Consul", sr.serviceName)
	return nil
}

// Deregister deregisters the service from Consul
func (sr *ServiceRegistry) Deregister() error {
	if err := sr.client.Agent().ServiceDeregister(sr.serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	log.Printf("Service %s deregistered from Consul", sr.serviceName)
	return nil
}
