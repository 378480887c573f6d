package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/container/logger"
)

// StopTimeout bounds how long a single component may take to stop.
const StopTimeout = 10 * time.Second

// componentEntry holds a component and its started state.
type componentEntry struct {
	component Component
	started   bool
}

// Registry manages component lifecycle with deterministic ordering.
// Components are started in registration order and stopped in reverse order.
type Registry struct {
	entries []*componentEntry
	lookup  map[string]*componentEntry
	log     *logger.Logger
	mu      sync.RWMutex
}

// NewRegistry creates a new component registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make([]*componentEntry, 0),
		lookup:  make(map[string]*componentEntry),
		log:     logger.WithComponent("component"),
	}
}

// WithLogger replaces the registry's logger.
func (r *Registry) WithLogger(l *logger.Logger) *Registry {
	r.log = l
	return r
}

// Register adds a component. Register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.lookup[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}

	entry := &componentEntry{component: c}
	r.entries = append(r.entries, entry)
	r.lookup[name] = entry

	r.log.Debug("Component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// Start starts a single registered component. Starting an already started
// component is a no-op.
func (r *Registry) Start(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.lookup[name]
	if !ok {
		return fmt.Errorf("component %s not registered", name)
	}
	return r.start(ctx, entry)
}

func (r *Registry) start(ctx context.Context, entry *componentEntry) error {
	if entry.started {
		return nil
	}
	name := entry.component.Name()
	if err := entry.component.Start(ctx); err != nil {
		fields := logger.ErrorFields("start", err)
		fields[logger.FieldComponent] = name
		r.log.Error("Component start failed", fields)
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	entry.started = true
	r.log.Debug("Component started", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts all components in registration order and stops at the
// first failure.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("Starting all components", logger.Fields("count", len(r.entries)))
	for _, entry := range r.entries {
		if err := r.start(ctx, entry); err != nil {
			return err
		}
	}
	r.log.Info("All components started")
	return nil
}

// StopAll stops started components in reverse registration order. Every
// component gets a stop attempt; errors are joined.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		entry := r.entries[i]
		if !entry.started {
			continue
		}

		name := entry.component.Name()
		stopCtx, cancel := context.WithTimeout(ctx, StopTimeout)
		if err := entry.component.Stop(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop %s: %w", name, err))
			fields := logger.ErrorFields("stop", err)
			fields[logger.FieldComponent] = name
			r.log.Error("Component stop failed", fields)
		} else {
			r.log.Info("Component stopped", logger.Fields(logger.FieldComponent, name))
		}
		entry.started = false
		cancel()
	}

	return errors.Join(errs...)
}

// HealthAll returns health status for all registered components in
// registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.entries))
	for _, entry := range r.entries {
		results = append(results, entry.component.Health(ctx))
	}
	return results
}

// Describe collects descriptions from components implementing Describable.
func (r *Registry) Describe() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Description
	for _, entry := range r.entries {
		if d, ok := entry.component.(Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = entry.component.Name()
			}
			out = append(out, desc)
		}
	}
	return out
}

// Get returns a registered component by name, or nil if not found.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if entry, exists := r.lookup[name]; exists {
		return entry.component
	}
	return nil
}

// All returns all registered components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Component, 0, len(r.entries))
	for _, entry := range r.entries {
		result = append(result, entry.component)
	}
	return result
}
