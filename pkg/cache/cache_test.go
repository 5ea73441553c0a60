package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](time.Minute)
	defer c.Close()

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit on empty cache")
	}

	c.Set("k", "v")
	got, ok := c.Get("k")
	if !ok || got != "v" {
		t.Errorf("Get = %q, %v", got, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Error("entry survived Delete")
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](10 * time.Millisecond)
	defer c.Close()

	c.Set("k", 1)
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry returned")
	}
}
