package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusDisabled  HealthStatus = "disabled"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed handle owner: a database pool, a cache
// client. Bootstrap starts components and attaches what they open into the
// container.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start opens the underlying resource.
	Start(ctx context.Context) error

	// Stop releases the resource.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description is a one-line summary a component reports about itself.
type Description struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Details string `json:"details,omitempty"`
}

// Describable is optionally implemented by components to describe their
// configuration for the startup summary and the admin API.
type Describable interface {
	Describe() Description
}

// Overall folds individual results into one status. Disabled components do
// not count against the aggregate.
func Overall(results []Health) HealthStatus {
	status := StatusHealthy
	for _, h := range results {
		switch h.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
