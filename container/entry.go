package container

import (
	"context"
	"fmt"
	"reflect"
	"time"

	apperrors "github.com/kbukum/container/errors"
)

// DatabaseHandle is the capability required of database entries: something
// that owns a connection. *sql.DB and *database.DB satisfy it.
type DatabaseHandle interface {
	PingContext(ctx context.Context) error
	Close() error
}

// CacheHandle is the capability required of cache entries. *redis.Client
// satisfies it.
type CacheHandle interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Entry is an instance tagged with its category. Construct it with Object,
// Database or Cache so the payload is checked before it reaches a registry.
type Entry struct {
	category Category
	value    any
}

// Object wraps an arbitrary object-like value: a non-nil pointer, struct,
// map, slice, func, chan or interface value. Scalars are rejected.
func Object(v any) (Entry, error) {
	if !objectLike(v) {
		return Entry{}, apperrors.InvalidArgument("instance",
			fmt.Sprintf("%T is not an object", v))
	}
	return Entry{category: CategoryObject, value: v}, nil
}

// Database wraps a database handle.
func Database(h DatabaseHandle) Entry {
	return Entry{category: CategoryDatabase, value: nilIfNil(h)}
}

// Cache wraps a cache handle.
func Cache(h CacheHandle) Entry {
	return Entry{category: CategoryCache, value: nilIfNil(h)}
}

// NewEntry checks instance against the capability of category and wraps it.
func NewEntry(category Category, instance any) (Entry, error) {
	switch category {
	case CategoryObject:
		return Object(instance)
	case CategoryDatabase:
		h, ok := instance.(DatabaseHandle)
		if !ok || isNil(h) {
			return Entry{}, apperrors.InvalidArgument("instance",
				fmt.Sprintf("%T does not implement DatabaseHandle", instance))
		}
		return Database(h), nil
	case CategoryCache:
		h, ok := instance.(CacheHandle)
		if !ok || isNil(h) {
			return Entry{}, apperrors.InvalidArgument("instance",
				fmt.Sprintf("%T does not implement CacheHandle", instance))
		}
		return Cache(h), nil
	}
	return Entry{}, apperrors.InvalidArgument("category", fmt.Sprintf("unknown category %s", category))
}

// Category returns the entry's category.
func (e Entry) Category() Category { return e.category }

// Value returns the wrapped instance.
func (e Entry) Value() any { return e.value }

func (e Entry) validate() error {
	if !e.category.valid() {
		return apperrors.InvalidArgument("category", fmt.Sprintf("unknown category %s", e.category))
	}
	if e.value == nil {
		return apperrors.InvalidArgument("instance", fmt.Sprintf("nil %s instance", e.category))
	}
	return nil
}

func objectLike(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan,
		reflect.Interface, reflect.UnsafePointer:
		return !rv.IsNil()
	case reflect.Struct, reflect.Array:
		return true
	default:
		// Invalid (untyped nil), bool, numeric and string kinds.
		return false
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func nilIfNil(v any) any {
	if isNil(v) {
		return nil
	}
	return v
}
