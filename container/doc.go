// Package container provides a registry of named, already-constructed
// instances: plain objects, database handles and cache handles.
//
// Entries are stored under a composite Key of category and name. Their
// effective string form is "db_<name>" for databases, "cache_<name>" for
// caches and the bare name for objects, and Get/Detach accept that form.
// The first instance attached at a key wins; later attaches are silently
// discarded so an early primary connection cannot be replaced.
//
// # Usage
//
//	reg := container.New()
//	reg.MustAttach("primary", container.Database(db)).
//	    MustAttach("sessions", container.Cache(redisClient))
//
//	db, err := reg.GetDatabase("primary")
//	reg.Detach("db_primary")
//
// The registry never constructs, starts or closes instances; callers own
// their lifecycle.
package container
