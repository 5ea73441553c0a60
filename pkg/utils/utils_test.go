package utils

import (
	"strings"
	"testing"
)

func TestGenerateResourceIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateResourceID()
		if !strings.HasPrefix(id, "res_") {
			t.Fatalf("unexpected prefix: %s", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

func TestGenerateRequestIDShape(t *testing.T) {
	id := GenerateRequestID()
	if !strings.HasPrefix(id, "req_") {
		t.Errorf("unexpected prefix: %s", id)
	}
	if id == GenerateRequestID() {
		t.Error("request ids should not collide")
	}
}
