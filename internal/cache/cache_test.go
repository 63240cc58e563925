package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vestra-shop/internal/config"
	"github.com/vestra-shop/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled redis failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	var dest map[string]string
	hit, err := GetJSON(context.Background(), "any", &dest)
	if err != nil || hit {
		t.Fatalf("disabled GetJSON hit=%v err=%v", hit, err)
	}
	if err := SetJSON(context.Background(), "any", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("disabled SetJSON should be noop: %v", err)
	}
	if err := Ping(context.Background()); err != nil {
		t.Fatalf("disabled Ping should be noop: %v", err)
	}
}

func TestOTPKeyNormalizesEmail(t *testing.T) {
	redisPrefix = "vs"
	got := OTPKey("password_reset", "  Alice@Example.COM ")
	if got != "vs:otp:password_reset:alice@example.com" {
		t.Fatalf("unexpected otp key: %s", got)
	}
}

func TestOTPStoreWithoutRedis(t *testing.T) {
	store := NewOTPStoreWithClient(nil)
	if err := store.Save(context.Background(), "password_reset", "a@b.c", "hash", time.Minute); !errors.Is(err, ErrOTPStoreDisabled) {
		t.Fatalf("expected ErrOTPStoreDisabled, got %v", err)
	}
	if _, _, err := store.Get(context.Background(), "password_reset", "a@b.c"); !errors.Is(err, ErrOTPStoreDisabled) {
		t.Fatalf("expected ErrOTPStoreDisabled, got %v", err)
	}
}

func TestBuildUserAuthState(t *testing.T) {
	if BuildUserAuthState(nil) != nil {
		t.Fatalf("nil user should produce nil state")
	}
	state := BuildUserAuthState(&models.User{ID: 7, Email: "ops@vestra.local", Role: "admin", Status: "active"})
	if state.UserID != 7 || state.Role != "admin" || state.Email != "ops@vestra.local" {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.Version != authStateVersion || !state.Active() {
		t.Fatalf("expected current active snapshot: %+v", state)
	}
	state.Status = "disabled"
	if state.Active() {
		t.Fatalf("disabled snapshot should not be active")
	}
	var missing *UserAuthState
	if missing.Active() {
		t.Fatalf("nil snapshot should not be active")
	}
}

func TestRedisOptionsDefaults(t *testing.T) {
	opts, prefix := redisOptions(&config.RedisConfig{Prefix: " shop: ", DB: 3})
	if opts.Addr != "127.0.0.1:6379" || opts.DB != 3 {
		t.Fatalf("unexpected options: addr=%s db=%d", opts.Addr, opts.DB)
	}
	if prefix != "shop" {
		t.Fatalf("expected trimmed prefix, got %q", prefix)
	}
	if opts.DialTimeout != redisDialTimeout || opts.ReadTimeout != redisIOTimeout {
		t.Fatalf("timeouts not applied: %+v", opts)
	}

	_, prefix = redisOptions(&config.RedisConfig{Host: "cache", Port: 6390})
	if prefix != defaultKeyPrefix {
		t.Fatalf("expected default prefix, got %q", prefix)
	}
}

func TestBuildKey(t *testing.T) {
	redisPrefix = "vs"
	if got := buildKey(" auth:user:1 "); got != "vs:auth:user:1" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey(""); got != "vs" {
		t.Fatalf("empty key should map to prefix, got %s", got)
	}
}
