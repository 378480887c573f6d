package container

import (
	"fmt"

	apperrors "github.com/kbukum/container/errors"
)

// Resolve fetches the instance at the effective key and asserts it to T.
//
//	db, err := container.Resolve[*database.DB](reg, "db_primary")
func Resolve[T any](r *Registry, key string) (T, error) {
	var zero T
	v, err := r.Get(key)
	if err != nil {
		return zero, err
	}
	result, ok := v.(T)
	if !ok {
		return zero, apperrors.InvalidArgument("type",
			fmt.Sprintf("instance %s is %T, expected %T", key, v, zero))
	}
	return result, nil
}

// MustResolve is like Resolve but panics on error. Use it in wiring code where
// a missing dependency is a programming error.
func MustResolve[T any](r *Registry, key string) T {
	result, err := Resolve[T](r, key)
	if err != nil {
		panic(fmt.Sprintf("container: failed to resolve %s: %v", key, err))
	}
	return result
}

// TryResolve returns the instance and true, or the zero value and false when
// the key is missing or holds another type.
func TryResolve[T any](r *Registry, key string) (T, bool) {
	result, err := Resolve[T](r, key)
	return result, err == nil
}
