package cache

import (
	"context"
	"testing"
	"time"
)

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache(4, time.Minute)
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Fatalf("Get on empty cache hit")
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set = %v", err)
	}
	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
}

func TestLRUCacheInvalidatePrefix(t *testing.T) {
	c := NewLRUCache(16, time.Minute)
	ctx := context.Background()
	keys := []string{
		"avail:a1:2030-06-03:10:00-12:00:-:-",
		"avail:a1:2030-06-03:14:00-16:00:2:1",
		"avail:a1:2030-06-04:10:00-12:00:-:-",
		"avail:a2:2030-06-03:10:00-12:00:-:-",
	}
	for _, k := range keys {
		_ = c.Set(ctx, k, []byte("x"), 0)
	}
	if err := c.Invalidate(ctx, "avail:a1:2030-06-03:"); err != nil {
		t.Fatalf("Invalidate = %v", err)
	}
	for i, k := range keys {
		_, ok, _ := c.Get(ctx, k)
		if wantKept := i >= 2; ok != wantKept {
			t.Fatalf("key %s present = %v, want %v", k, ok, wantKept)
		}
	}
}

func TestLRUCacheExpires(t *testing.T) {
	c := NewLRUCache(4, 20*time.Millisecond)
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), 0)
	time.Sleep(60 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("entry outlived its TTL")
	}
}

func TestNoopCache(t *testing.T) {
	var c CandidateCache = NoopCache{}
	ctx := context.Background()
	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("NoopCache stored a value")
	}
}
