package container

import "strings"

// Key is the composite key an entry is stored under. Two entries with the same
// name but different categories never collide.
type Key struct {
	Category Category
	Name     string
}

// ObjectKey returns the key of a plain object entry.
func ObjectKey(name string) Key { return Key{Category: CategoryObject, Name: name} }

// DatabaseKey returns the key of a database entry.
func DatabaseKey(name string) Key { return Key{Category: CategoryDatabase, Name: name} }

// CacheKey returns the key of a cache entry.
func CacheKey(name string) Key { return Key{Category: CategoryCache, Name: name} }

// String returns the effective key: "db_<name>", "cache_<name>" or the bare
// name for objects.
func (k Key) String() string {
	return k.Category.prefix() + k.Name
}

// keysFor lists the keys whose effective form equals raw, in lookup order.
// An object named exactly raw wins over a categorized entry decoded from the
// prefix.
func keysFor(raw string) []Key {
	keys := []Key{ObjectKey(raw)}
	for _, c := range []Category{CategoryDatabase, CategoryCache} {
		if name, ok := strings.CutPrefix(raw, c.prefix()); ok {
			keys = append(keys, Key{Category: c, Name: name})
		}
	}
	return keys
}
