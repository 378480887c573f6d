package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/container/container"
	apperrors "github.com/kbukum/container/errors"
	"github.com/kbukum/container/logger"
)

var _ container.CacheHandle = (*Client)(nil)

func testConfig(mini *miniredis.Miniredis) Config {
	return Config{Name: "sessions", Enabled: true, Addr: mini.Addr()}
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)

	client, err := New(testConfig(mini), logger.Nop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mini
}

func TestClientSetGetDel(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := client.Set(ctx, "user:1", "alice", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, err := client.Get(ctx, "user:1")
	if err != nil || got != "alice" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if n, _ := client.Exists(ctx, "user:1", "user:2"); n != 1 {
		t.Errorf("expected 1 existing key, got %d", n)
	}

	if err := client.Del(ctx, "user:1", "user:2"); err != nil {
		t.Fatalf("Del failed: %v", err)
	}
	if mini.Exists("user:1") {
		t.Error("expected key to be deleted")
	}
}

func TestClientGetMissIsNotFound(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := client.Get(context.Background(), "missing")
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestClientSetTTL(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	client.Set(ctx, "token", "abc", time.Minute)
	if ttl := mini.TTL("token"); ttl != time.Minute {
		t.Errorf("expected 1m ttl, got %v", ttl)
	}
	mini.FastForward(2 * time.Minute)
	if _, err := client.Get(ctx, "token"); !apperrors.IsNotFound(err) {
		t.Errorf("expected expired key to be NOT_FOUND, got %v", err)
	}
}

func TestClientPingFailure(t *testing.T) {
	client, mini := newTestClient(t)
	mini.Close()

	err := client.Ping(context.Background())
	if !apperrors.HasCode(err, apperrors.ErrCodeConnectionFailed) {
		t.Errorf("expected CONNECTION_FAILED, got %v", err)
	}
}

func TestClientCloseIsIdempotent(t *testing.T) {
	client, _ := newTestClient(t)
	if err := client.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
	var nilClient *Client
	if err := nilClient.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestClientUnwrap(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	if err := client.Unwrap().HSet(ctx, "h", "f", "v").Err(); err != nil {
		t.Fatalf("HSet through Unwrap: %v", err)
	}
	if v := client.Unwrap().HGet(ctx, "h", "f").Val(); v != "v" {
		t.Errorf("expected v, got %q", v)
	}
}

func TestNewRejectsDisabledAndInvalid(t *testing.T) {
	if _, err := New(Config{Name: "off"}, logger.Nop()); !apperrors.HasCode(err, apperrors.ErrCodeServiceUnavailable) {
		t.Errorf("disabled: expected SERVICE_UNAVAILABLE, got %v", err)
	}
	_, err := New(Config{Name: "bad", Enabled: true, Addr: "no-port"}, logger.Nop())
	if !apperrors.IsInvalidArgument(err) {
		t.Errorf("bad addr: expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Name: "sessions", Enabled: true, Addr: "localhost:6379", MinIdleConns: 50}
	cfg.ApplyDefaults()
	if cfg.PoolSize != 10 || cfg.MaxRetries != 3 || cfg.DialTimeout != "5s" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.MinIdleConns != cfg.PoolSize {
		t.Errorf("expected min idle clamped to pool size, got %d", cfg.MinIdleConns)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg.ReadTimeout = "later"
	if err := cfg.Validate(); !apperrors.IsInvalidArgument(err) {
		t.Errorf("bad timeout: expected INVALID_ARGUMENT, got %v", err)
	}
}
