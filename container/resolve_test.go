package container

import (
	"testing"

	apperrors "github.com/kbukum/container/errors"
)

func TestResolve(t *testing.T) {
	r := newTestRegistry(t)
	db := &fakeDB{name: "primary"}
	r.MustAttach("primary", Database(db))
	r.AttachAs("mailer", &service{name: "smtp"}, CategoryObject)

	got, err := Resolve[*fakeDB](r, "db_primary")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got != db {
		t.Error("Resolve returned a different instance")
	}

	h, err := Resolve[DatabaseHandle](r, "db_primary")
	if err != nil || h != db {
		t.Errorf("Resolve to interface = %v, %v", h, err)
	}

	svc, err := Resolve[*service](r, "mailer")
	if err != nil || svc.name != "smtp" {
		t.Errorf("Resolve object = %v, %v", svc, err)
	}
}

func TestResolveErrors(t *testing.T) {
	r := newTestRegistry(t)
	r.AttachAs("mailer", &service{}, CategoryObject)

	if _, err := Resolve[*service](r, "missing"); !apperrors.IsNotFound(err) {
		t.Errorf("missing key: expected NOT_FOUND, got %v", err)
	}
	if _, err := Resolve[*fakeDB](r, "mailer"); !apperrors.IsInvalidArgument(err) {
		t.Errorf("wrong type: expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestMustResolvePanics(t *testing.T) {
	r := newTestRegistry(t)
	defer func() {
		if rec := recover(); rec == nil {
			t.Error("expected MustResolve to panic on a missing key")
		}
	}()
	MustResolve[*service](r, "missing")
}

func TestTryResolve(t *testing.T) {
	r := newTestRegistry(t)
	c := newFakeCache()
	r.MustAttach("sessions", Cache(c))

	if got, ok := TryResolve[*fakeCache](r, "cache_sessions"); !ok || got != c {
		t.Errorf("TryResolve = %v, %v", got, ok)
	}
	if got, ok := TryResolve[*fakeCache](r, "cache_other"); ok || got != nil {
		t.Errorf("TryResolve on missing key = %v, %v", got, ok)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"object", CategoryObject, false},
		{"db", CategoryDatabase, false},
		{"Database", CategoryDatabase, false},
		{" cache ", CategoryCache, false},
		{"queue", CategoryObject, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseCategory(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseCategory(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Errorf("ParseCategory(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{ObjectKey("mailer"), "mailer"},
		{DatabaseKey("primary"), "db_primary"},
		{CacheKey("sessions"), "cache_sessions"},
	}
	for _, tc := range tests {
		if got := tc.key.String(); got != tc.want {
			t.Errorf("%+v.String() = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestKeysFor(t *testing.T) {
	tests := []struct {
		raw  string
		want []Key
	}{
		{"mailer", []Key{ObjectKey("mailer")}},
		{"db_primary", []Key{ObjectKey("db_primary"), DatabaseKey("primary")}},
		{"cache_s", []Key{ObjectKey("cache_s"), CacheKey("s")}},
		{"db_", []Key{ObjectKey("db_"), DatabaseKey("")}},
	}
	for _, tc := range tests {
		got := keysFor(tc.raw)
		if len(got) != len(tc.want) {
			t.Errorf("keysFor(%q) = %v, want %v", tc.raw, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("keysFor(%q)[%d] = %v, want %v", tc.raw, i, got[i], tc.want[i])
			}
		}
	}
}
