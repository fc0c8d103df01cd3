package discovery

import (
	"reflect"
	"testing"
)

func TestRegistration(t *testing.T) {
	registry, err := NewServiceRegistry("localhost:8500", "geopost-service", "geopost-service-1", "8080", "geo", "posts")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	registration, err := registry.Registration()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if registration.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", registration.Port)
	}
	if !reflect.DeepEqual(registration.Tags, []string{"geo", "posts"}) {
		t.Errorf("Unexpected tags %v", registration.Tags)
	}
	if registration.Check.HTTP != "http://geopost-service:8080/health" {
		t.Errorf("Unexpected health check %s", registration.Check.HTTP)
	}
}

func TestRegistrationInvalidPort(t *testing.T) {
	registry, err := NewServiceRegistry("localhost:8500", "geopost-service", "geopost-service-1", "http")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := registry.Registration(); err == nil {
		t.Error("Expected an error for a non-numeric port")
	}
}
