package cache

import (
	"testing"
	"time"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := NewTTLCache()

	c.Set("offers:123", []string{"a", "b"}, time.Minute)

	value, found := c.Get("offers:123")
	if !found {
		t.Fatal("expected cache hit")
	}
	offers, ok := value.([]string)
	if !ok || len(offers) != 2 {
		t.Errorf("unexpected cached value: %v", value)
	}

	if _, found := c.Get("offers:missing"); found {
		t.Error("expected miss for absent key")
	}
}

func TestTTLCache_Expiry(t *testing.T) {
	c := NewTTLCache()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cur := base
	c.now = func() time.Time { return cur }

	c.Set("k", "v", 30*time.Second)

	cur = base.Add(29 * time.Second)
	if _, found := c.Get("k"); !found {
		t.Error("entry expired too early")
	}

	cur = base.Add(31 * time.Second)
	if _, found := c.Get("k"); found {
		t.Error("entry should have expired")
	}

	// Clean reaps it for real.
	if c.Size() != 1 {
		t.Fatalf("expected 1 stored item, got %d", c.Size())
	}
	c.Clean()
	if c.Size() != 0 {
		t.Errorf("expected 0 items after Clean, got %d", c.Size())
	}
}

func TestTTLCache_DeleteAndClear(t *testing.T) {
	c := NewTTLCache()

	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Error("deleted key should be absent")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("expected empty cache after Clear, got %d items", c.Size())
	}
}
