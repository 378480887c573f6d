package container

import (
	"fmt"
	"strings"

	apperrors "github.com/kbukum/container/errors"
)

// Category classifies a registered instance. It decides which capability an
// instance must satisfy and namespaces its key.
type Category int

const (
	CategoryObject Category = iota
	CategoryDatabase
	CategoryCache
)

// String returns the category name used as the effective-key prefix.
func (c Category) String() string {
	switch c {
	case CategoryObject:
		return "object"
	case CategoryDatabase:
		return "db"
	case CategoryCache:
		return "cache"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// prefix is prepended to names of this category to form the effective key.
// Objects are stored under their bare name.
func (c Category) prefix() string {
	if c == CategoryObject {
		return ""
	}
	return c.String() + "_"
}

func (c Category) valid() bool {
	return c == CategoryObject || c == CategoryDatabase || c == CategoryCache
}

// ParseCategory parses "object", "db" (or "database") and "cache".
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "object":
		return CategoryObject, nil
	case "db", "database":
		return CategoryDatabase, nil
	case "cache":
		return CategoryCache, nil
	}
	return CategoryObject, apperrors.InvalidArgument("category", fmt.Sprintf("unknown category %q", s))
}
