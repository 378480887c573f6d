package container

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kbukum/container/errors"
	"github.com/kbukum/container/logger"
)

// EntryInfo describes a registered instance without exposing it.
type EntryInfo struct {
	Key        string    `json:"key"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Type       string    `json:"type"`
	AttachedAt time.Time `json:"attached_at"`
}

type record struct {
	value      any
	attachedAt time.Time
}

// Registry maps keys to previously constructed instances. The first instance
// attached at a key is kept; later attaches at the same key are discarded.
// A Registry is safe for concurrent use.
type Registry struct {
	id      string
	mu      sync.RWMutex
	entries map[Key]*record
	log     *logger.Logger
	metrics *metrics
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the process-wide registry, creating it on first call.
// Prefer New plus explicit passing where the caller controls construction.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	o := resolveOptions(opts)
	id := uuid.NewString()
	log := o.log.WithFields(logger.Fields(logger.FieldRegistry, id))
	return &Registry{
		id:      id,
		entries: make(map[Key]*record),
		log:     log,
		metrics: newMetrics(o.meter, log),
	}
}

// ID returns the unique identifier of this registry instance.
func (r *Registry) ID() string { return r.id }

// Get returns the instance stored under the effective key: "db_<name>" for a
// database, "cache_<name>" for a cache, the bare name for an object.
func (r *Registry) Get(key string) (any, error) {
	r.mu.RLock()
	k, rec, ok := r.lookup(key)
	r.mu.RUnlock()

	r.metrics.lookup(k.Category, ok)
	if !ok {
		return nil, apperrors.NotFound("instance", key)
	}
	return rec.value, nil
}

// lookup resolves a raw effective key. On a miss it returns the last
// candidate, which names the category the prefix implies. Callers hold r.mu.
func (r *Registry) lookup(raw string) (Key, *record, bool) {
	candidates := keysFor(raw)
	for _, k := range candidates {
		if rec, ok := r.entries[k]; ok {
			return k, rec, true
		}
	}
	return candidates[len(candidates)-1], nil, false
}

func info(k Key, rec *record) EntryInfo {
	return EntryInfo{
		Key:        k.String(),
		Name:       k.Name,
		Category:   k.Category.String(),
		Type:       fmt.Sprintf("%T", rec.value),
		AttachedAt: rec.attachedAt,
	}
}

// GetKey returns the instance stored under k.
func (r *Registry) GetKey(k Key) (any, error) {
	r.mu.RLock()
	rec, ok := r.entries[k]
	r.mu.RUnlock()

	r.metrics.lookup(k.Category, ok)
	if !ok {
		return nil, apperrors.NotFound("instance", k.String())
	}
	return rec.value, nil
}

// GetDatabase returns the database attached under name.
func (r *Registry) GetDatabase(name string) (DatabaseHandle, error) {
	v, err := r.GetKey(DatabaseKey(name))
	if err != nil {
		return nil, err
	}
	return v.(DatabaseHandle), nil
}

// GetCache returns the cache attached under name.
func (r *Registry) GetCache(name string) (CacheHandle, error) {
	v, err := r.GetKey(CacheKey(name))
	if err != nil {
		return nil, err
	}
	return v.(CacheHandle), nil
}

// Attach stores e under key within e's category and returns the registry for
// chaining. If the key is already taken the call does nothing: the existing
// instance stays and e is dropped. Any string is a valid key, "" included.
func (r *Registry) Attach(key string, e Entry) (*Registry, error) {
	if err := e.validate(); err != nil {
		return r, err
	}

	k := Key{Category: e.category, Name: key}
	fields := logger.Fields(logger.FieldKey, k.String(), logger.FieldType, fmt.Sprintf("%T", e.value))

	r.mu.Lock()
	if _, exists := r.entries[k]; exists {
		r.mu.Unlock()
		r.metrics.attach(k.Category, false)
		r.log.Debug("Key already attached, instance discarded", fields)
		return r, nil
	}
	r.entries[k] = &record{value: e.value, attachedAt: time.Now()}
	r.mu.Unlock()

	r.metrics.attach(k.Category, true)
	r.log.Debug("Instance attached", fields)
	return r, nil
}

// AttachAs checks instance against the capability required by category and
// attaches it. On failure the registry is left unchanged.
func (r *Registry) AttachAs(key string, instance any, category Category) (*Registry, error) {
	e, err := NewEntry(category, instance)
	if err != nil {
		return r, err
	}
	return r.Attach(key, e)
}

// MustAttach is like Attach but panics on an invalid key or entry.
func (r *Registry) MustAttach(key string, e Entry) *Registry {
	if _, err := r.Attach(key, e); err != nil {
		panic(fmt.Sprintf("container: attach %s: %v", key, err))
	}
	return r
}

// Detach removes the entry whose effective key equals key, so a database
// attached as "primary" is detached with "db_primary". Missing keys are
// ignored.
func (r *Registry) Detach(key string) *Registry {
	r.mu.Lock()
	k, _, ok := r.lookup(key)
	if ok {
		delete(r.entries, k)
	}
	r.mu.Unlock()

	if ok {
		r.metrics.detach(k.Category)
		r.log.Debug("Instance detached", logger.Fields(logger.FieldKey, k.String()))
	}
	return r
}

// DetachKey removes the entry stored under k, if any.
func (r *Registry) DetachKey(k Key) *Registry {
	r.mu.Lock()
	_, ok := r.entries[k]
	delete(r.entries, k)
	r.mu.Unlock()

	if ok {
		r.metrics.detach(k.Category)
		r.log.Debug("Instance detached", logger.Fields(logger.FieldKey, k.String()))
	}
	return r
}

// Has reports whether an entry exists under the effective key.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, _, ok := r.lookup(key)
	return ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries describes every entry, ordered by effective key then category.
func (r *Registry) Entries() []EntryInfo {
	r.mu.RLock()
	result := make([]EntryInfo, 0, len(r.entries))
	for k, rec := range r.entries {
		result = append(result, info(k, rec))
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].Category < result[j].Category
	})
	return result
}

// Entry describes the entry stored under the effective key.
func (r *Registry) Entry(key string) (EntryInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, rec, ok := r.lookup(key)
	if !ok {
		return EntryInfo{}, apperrors.NotFound("instance", key)
	}
	return info(k, rec), nil
}
