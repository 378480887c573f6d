package container

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/kbukum/container/errors"
	"github.com/kbukum/container/logger"
)

type fakeDB struct{ name string }

func (f *fakeDB) PingContext(context.Context) error { return nil }
func (f *fakeDB) Close() error                      { return nil }

type fakeCache struct {
	data map[string]string
}

func newFakeCache() *fakeCache { return &fakeCache{data: map[string]string{}} }

func (f *fakeCache) Get(_ context.Context, key string) (string, error) { return f.data[key], nil }
func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}
func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type service struct{ name string }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return New(WithLogger(logger.Nop()))
}

func TestGetMissingKeyIsNotFound(t *testing.T) {
	r := newTestRegistry(t)
	for _, key := range []string{"x", "db_x", "cache_x", ""} {
		_, err := r.Get(key)
		if !apperrors.IsNotFound(err) {
			t.Errorf("Get(%q): expected NOT_FOUND, got %v", key, err)
		}
	}
}

func TestAttachObjectThenGet(t *testing.T) {
	r := newTestRegistry(t)
	svc := &service{name: "mailer"}

	if _, err := r.AttachAs("mailer", svc, CategoryObject); err != nil {
		t.Fatalf("AttachAs failed: %v", err)
	}
	got, err := r.Get("mailer")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != svc {
		t.Errorf("expected the attached instance, got %v", got)
	}
}

func TestAttachDatabaseIsPrefixed(t *testing.T) {
	r := newTestRegistry(t)
	db := &fakeDB{name: "a"}

	r.MustAttach("primary", Database(db))

	got, err := r.Get("db_primary")
	if err != nil {
		t.Fatalf("Get(db_primary) failed: %v", err)
	}
	if got != db {
		t.Error("Get(db_primary) returned a different instance")
	}
	h, err := r.GetDatabase("primary")
	if err != nil {
		t.Fatalf("GetDatabase failed: %v", err)
	}
	if h != db {
		t.Error("GetDatabase returned a different instance")
	}
	if _, err := r.Get("primary"); !apperrors.IsNotFound(err) {
		t.Errorf("bare name should not resolve a database, got %v", err)
	}
}

func TestAttachCacheIsPrefixed(t *testing.T) {
	r := newTestRegistry(t)
	c := newFakeCache()

	if _, err := r.AttachAs("sessions", c, CategoryCache); err != nil {
		t.Fatalf("AttachAs failed: %v", err)
	}
	got, err := r.Get("cache_sessions")
	if err != nil || got != c {
		t.Fatalf("Get(cache_sessions) = %v, %v", got, err)
	}
	h, err := r.GetCache("sessions")
	if err != nil || h != c {
		t.Fatalf("GetCache = %v, %v", h, err)
	}
}

func TestGetDatabaseAndCacheMissing(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.GetDatabase("nope"); !apperrors.IsNotFound(err) {
		t.Errorf("GetDatabase: expected NOT_FOUND, got %v", err)
	}
	if _, err := r.GetCache("nope"); !apperrors.IsNotFound(err) {
		t.Errorf("GetCache: expected NOT_FOUND, got %v", err)
	}
}

func TestFirstWriteWins(t *testing.T) {
	r := newTestRegistry(t)
	first, second := &service{name: "v1"}, &service{name: "v2"}

	r.AttachAs("svc", first, CategoryObject)
	r.AttachAs("svc", second, CategoryObject)

	got, _ := r.Get("svc")
	if got != first {
		t.Errorf("expected first instance to be kept, got %v", got)
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", r.Len())
	}
}

func TestDuplicateAttachIsNotAnError(t *testing.T) {
	r := newTestRegistry(t)
	r.MustAttach("primary", Database(&fakeDB{}))
	if _, err := r.Attach("primary", Database(&fakeDB{})); err != nil {
		t.Errorf("duplicate attach should be a no-op, got %v", err)
	}
}

func TestDuplicateAttachIsLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", buf)
	r := New(WithLogger(log))

	r.MustAttach("primary", Database(&fakeDB{}))
	r.MustAttach("primary", Database(&fakeDB{}))

	if !strings.Contains(buf.String(), "instance discarded") {
		t.Errorf("expected discard to be logged, got %q", buf.String())
	}
}

func TestAttachRejectsNonObject(t *testing.T) {
	r := newTestRegistry(t)
	var nilPtr *service

	tests := []struct {
		name     string
		instance any
	}{
		{"nil", nil},
		{"int", 42},
		{"string", "hello"},
		{"bool", true},
		{"float", 1.5},
		{"typed nil pointer", nilPtr},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.AttachAs("x", tc.instance, CategoryObject)
			if !apperrors.IsInvalidArgument(err) {
				t.Errorf("expected INVALID_ARGUMENT, got %v", err)
			}
		})
	}
	if r.Len() != 0 {
		t.Errorf("store should be unchanged, has %d entries", r.Len())
	}
}

func TestObjectAcceptsObjectLikeValues(t *testing.T) {
	tests := []struct {
		name     string
		instance any
	}{
		{"pointer", &service{}},
		{"struct", service{}},
		{"map", map[string]int{}},
		{"slice", []string{}},
		{"func", func() {}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Object(tc.instance); err != nil {
				t.Errorf("Object(%T) failed: %v", tc.instance, err)
			}
		})
	}
}

func TestAttachRejectsNonDatabaseHandle(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.AttachAs("x", &service{}, CategoryDatabase)
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
	var nilDB *fakeDB
	if _, err := r.AttachAs("x", nilDB, CategoryDatabase); !apperrors.IsInvalidArgument(err) {
		t.Errorf("typed nil handle: expected INVALID_ARGUMENT, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("store should be unchanged, has %d entries", r.Len())
	}
}

func TestAttachRejectsNonCacheHandle(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.AttachAs("x", &fakeDB{}, CategoryCache)
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestAttachRejectsNilHandleEntry(t *testing.T) {
	r := newTestRegistry(t)
	var nilDB *fakeDB
	if _, err := r.Attach("x", Database(nilDB)); !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
	if _, err := r.Attach("x", Entry{}); !apperrors.IsInvalidArgument(err) {
		t.Errorf("zero entry: expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestAttachAcceptsEmptyKey(t *testing.T) {
	r := newTestRegistry(t)
	obj := &service{name: "anonymous"}
	db := &fakeDB{}

	if _, err := r.AttachAs("", obj, CategoryObject); err != nil {
		t.Fatalf("object at empty key: %v", err)
	}
	if _, err := r.Attach("", Database(db)); err != nil {
		t.Fatalf("database at empty key: %v", err)
	}

	if got, err := r.Get(""); err != nil || got != obj {
		t.Errorf("Get(\"\") = %v, %v; want the object", got, err)
	}
	if got, err := r.Get("db_"); err != nil || got != db {
		t.Errorf("Get(\"db_\") = %v, %v; want the database", got, err)
	}
	if got, err := r.GetDatabase(""); err != nil || got != db {
		t.Errorf("GetDatabase(\"\") = %v, %v; want the database", got, err)
	}

	r.Detach("db_")
	if r.Has("db_") {
		t.Error("expected db_ detached")
	}
	if !r.Has("") {
		t.Error("expected the object at the empty key to remain")
	}
}

func TestAttachAsUnknownCategory(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.AttachAs("x", &service{}, Category(9)); !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestMustAttachPanicsOnInvalidEntry(t *testing.T) {
	r := newTestRegistry(t)
	defer func() {
		if rec := recover(); rec == nil {
			t.Error("expected MustAttach to panic")
		}
	}()
	r.MustAttach("x", Cache(nil))
}

func TestAttachChains(t *testing.T) {
	r := newTestRegistry(t)
	r.MustAttach("primary", Database(&fakeDB{})).
		MustAttach("sessions", Cache(newFakeCache()))

	if r.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", r.Len())
	}
	same, err := r.Attach("other", Database(&fakeDB{}))
	if err != nil || same != r {
		t.Errorf("Attach should return the receiver, got %p, %v", same, err)
	}
}

func TestDetach(t *testing.T) {
	r := newTestRegistry(t)
	r.AttachAs("svc", &service{}, CategoryObject)

	if r.Detach("svc") != r {
		t.Error("Detach should return the receiver")
	}
	if _, err := r.Get("svc"); !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND after detach, got %v", err)
	}
	r.Detach("svc")
	r.Detach("never-attached")
}

func TestDetachTakesEffectiveKey(t *testing.T) {
	r := newTestRegistry(t)
	r.MustAttach("primary", Database(&fakeDB{}))

	r.Detach("primary")
	if !r.Has("db_primary") {
		t.Fatal("bare name must not detach a database entry")
	}
	r.Detach("db_primary")
	if r.Has("db_primary") {
		t.Error("expected db_primary to be detached")
	}
}

func TestDetachKey(t *testing.T) {
	r := newTestRegistry(t)
	r.MustAttach("sessions", Cache(newFakeCache()))

	r.DetachKey(CacheKey("sessions"))
	if _, err := r.GetCache("sessions"); !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	r.DetachKey(CacheKey("sessions"))
}

func TestCategoriesDoNotCollide(t *testing.T) {
	r := newTestRegistry(t)
	obj := &service{name: "literal db_x"}
	db := &fakeDB{name: "x"}

	r.AttachAs("db_x", obj, CategoryObject)
	r.MustAttach("x", Database(db))

	if r.Len() != 2 {
		t.Fatalf("expected both entries to be stored, got %d", r.Len())
	}
	got, _ := r.Get("db_x")
	if got != obj {
		t.Error("Get(db_x) should prefer the object literally named db_x")
	}
	h, _ := r.GetDatabase("x")
	if h != db {
		t.Error("GetDatabase(x) should return the database")
	}

	r.Detach("db_x")
	if _, err := r.GetDatabase("x"); err != nil {
		t.Errorf("detaching the object must leave the database, got %v", err)
	}
	got, _ = r.Get("db_x")
	if got != db {
		t.Error("with the object gone, db_x should resolve the database")
	}
}

func TestDefaultIsSingleton(t *testing.T) {
	a := Default()
	b := Default()
	if a != b {
		t.Fatal("Default should return the same instance")
	}

	key := "default-singleton-test"
	t.Cleanup(func() { a.Detach(key) })
	a.AttachAs(key, &service{}, CategoryObject)
	if !b.Has(key) {
		t.Error("state attached through one reference should be visible through the other")
	}
}

func TestNewRegistriesAreIndependent(t *testing.T) {
	a, b := newTestRegistry(t), newTestRegistry(t)
	a.AttachAs("svc", &service{}, CategoryObject)
	if b.Has("svc") {
		t.Error("registries created with New must not share state")
	}
	if a.ID() == b.ID() || a.ID() == "" {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID(), b.ID())
	}
}

func TestPrimaryDatabaseScenario(t *testing.T) {
	r := newTestRegistry(t)
	handleA, handleB := &fakeDB{name: "A"}, &fakeDB{name: "B"}

	r.AttachAs("primary", handleA, CategoryDatabase)
	got, err := r.GetDatabase("primary")
	if err != nil || got != handleA {
		t.Fatalf("expected handle A, got %v, %v", got, err)
	}

	r.AttachAs("primary", handleB, CategoryDatabase)
	got, _ = r.GetDatabase("primary")
	if got != handleA {
		t.Fatal("second attach must not replace handle A")
	}

	r.Detach("db_primary")
	if _, err := r.GetDatabase("primary"); !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND after detach, got %v", err)
	}
}

func TestConcurrentAttachStoresOne(t *testing.T) {
	r := newTestRegistry(t)
	handles := make([]*fakeDB, 32)
	for i := range handles {
		handles[i] = &fakeDB{}
	}

	var wg sync.WaitGroup
	for _, h := range handles {
		wg.Add(1)
		go func(h *fakeDB) {
			defer wg.Done()
			r.MustAttach("primary", Database(h))
			r.Get("db_primary")
		}(h)
	}
	wg.Wait()

	if r.Len() != 1 {
		t.Fatalf("expected exactly one entry, got %d", r.Len())
	}
	got, _ := r.GetDatabase("primary")
	found := false
	for _, h := range handles {
		if got == h {
			found = true
		}
	}
	if !found {
		t.Error("stored handle should be one of the attached handles")
	}
}

func TestEntries(t *testing.T) {
	r := newTestRegistry(t)
	r.MustAttach("sessions", Cache(newFakeCache())).
		MustAttach("primary", Database(&fakeDB{}))
	r.AttachAs("mailer", &service{}, CategoryObject)

	entries := r.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantKeys := []string{"cache_sessions", "db_primary", "mailer"}
	for i, want := range wantKeys {
		if entries[i].Key != want {
			t.Errorf("entries[%d].Key = %q, want %q", i, entries[i].Key, want)
		}
	}
	if entries[1].Category != "db" || entries[1].Name != "primary" {
		t.Errorf("unexpected db entry: %+v", entries[1])
	}
	if entries[2].Type != "*container.service" {
		t.Errorf("unexpected type %q", entries[2].Type)
	}
	if entries[0].AttachedAt.IsZero() {
		t.Error("expected AttachedAt to be set")
	}
}

func TestEntryLookup(t *testing.T) {
	r := newTestRegistry(t)
	r.MustAttach("primary", Database(&fakeDB{}))

	info, err := r.Entry("db_primary")
	if err != nil {
		t.Fatalf("Entry failed: %v", err)
	}
	if info.Category != "db" || info.Type != "*container.fakeDB" {
		t.Errorf("unexpected info: %+v", info)
	}
	if _, err := r.Entry("db_missing"); !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func mustObject(t *testing.T, v any) Entry {
	t.Helper()
	e, err := Object(v)
	if err != nil {
		t.Fatalf("Object(%T): %v", v, err)
	}
	return e
}

func TestRawKeyAccessorsAgree(t *testing.T) {
	r := newTestRegistry(t)
	obj := &service{name: "literal"}
	db := &fakeDB{name: "x"}
	r.MustAttach("db_x", mustObject(t, obj))
	r.MustAttach("x", Database(db))
	r.MustAttach("sessions", Cache(newFakeCache()))

	tests := []struct {
		raw      string
		found    bool
		category string
		key      string
	}{
		{"db_x", true, "object", "db_x"},
		{"cache_sessions", true, "cache", "cache_sessions"},
		{"sessions", false, "", ""},
		{"db_missing", false, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			_, getErr := r.Get(tc.raw)
			info, entryErr := r.Entry(tc.raw)
			has := r.Has(tc.raw)

			if has != tc.found || (getErr == nil) != tc.found || (entryErr == nil) != tc.found {
				t.Fatalf("Has=%v Get err=%v Entry err=%v, want found=%v", has, getErr, entryErr, tc.found)
			}
			if !tc.found {
				return
			}
			if info.Category != tc.category || info.Key != tc.key {
				t.Errorf("Entry(%q) = %+v, want category %s key %s", tc.raw, info, tc.category, tc.key)
			}
		})
	}

	// The object shadows the database for the raw form; Detach removes it first.
	r.Detach("db_x")
	if got, err := r.Get("db_x"); err != nil || got != db {
		t.Errorf("after detaching the object, db_x should reach the database, got %v, %v", got, err)
	}
}
