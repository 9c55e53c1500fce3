package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Minute)
	val, ok := m.Get(ctx, "k")
	if !ok {
		t.Fatal("Expected hit within TTL")
	}
	if string(val) != "v" {
		t.Errorf("Expected v, got %s", val)
	}
}

func TestMemory_ExpiryIsAMiss(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	m.Set(ctx, "k", []byte("v"), 100*time.Millisecond)

	m.now = func() time.Time { return now.Add(200 * time.Millisecond) }
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("Expected miss after TTL elapsed")
	}
}

func TestMemory_AbsentKeyIsAMiss(t *testing.T) {
	m := NewMemory()
	if _, ok := m.Get(context.Background(), "nope"); ok {
		t.Error("Expected miss for absent key")
	}
}

func TestMemory_NonPositiveTTLNotStored(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Set(ctx, "k", []byte("v"), 0)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("Zero TTL must not store an entry")
	}
}

func TestMemory_Sweep(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	m.Set(ctx, "old", []byte("1"), 10*time.Millisecond)
	m.Set(ctx, "live", []byte("2"), time.Hour)

	m.now = func() time.Time { return now.Add(time.Minute) }
	if removed := m.Sweep(); removed != 1 {
		t.Errorf("Expected 1 entry swept, got %d", removed)
	}
	if m.Len() != 1 {
		t.Errorf("Expected 1 entry remaining, got %d", m.Len())
	}
}

func TestKey_Deterministic(t *testing.T) {
	type in struct {
		Prompt string
		Model  string
	}
	a := Key("caption", in{Prompt: "hello", Model: "m"})
	b := Key("caption", in{Prompt: "hello", Model: "m"})
	if a != b {
		t.Errorf("Identical inputs must produce identical keys: %s vs %s", a, b)
	}

	c := Key("caption", in{Prompt: "other", Model: "m"})
	if a == c {
		t.Error("Different inputs must produce different keys")
	}

	d := Key("image", in{Prompt: "hello", Model: "m"})
	if a == d {
		t.Error("Different prefixes must produce different keys")
	}
}

// failingKV simulates an unreachable Redis backend.
type failingKV struct{}

func (failingKV) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingKV) SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return errors.New("connection refused")
}

func TestRedis_BackendFailureDegradesToMiss(t *testing.T) {
	r := NewRedis(failingKV{}, nil)
	ctx := context.Background()

	// Neither call may panic or surface the backend error.
	r.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok := r.Get(ctx, "k"); ok {
		t.Error("Backend failure must behave as a miss")
	}
}

// mapKV is a working in-memory stand-in for the Redis client.
type mapKV struct {
	data map[string][]byte
}

func (m *mapKV) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := m.data[key]
	return val, ok, nil
}

func (m *mapKV) SetBytes(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	m.data[key] = val
	return nil
}

func TestRedis_RoundTrip(t *testing.T) {
	r := NewRedis(&mapKV{data: map[string][]byte{}}, nil)
	ctx := context.Background()

	r.Set(ctx, "k", []byte("v"), time.Minute)
	val, ok := r.Get(ctx, "k")
	if !ok || string(val) != "v" {
		t.Errorf("Expected hit with v, got %q ok=%v", val, ok)
	}
}
