package cache

import (
	"testing"
)

func TestBuildRouteKey(t *testing.T) {
	key := BuildRouteKey("1001", "2003")
	expected := "route:mc:1001:2003"
	if key != expected {
		t.Errorf("BuildRouteKey() = %v, want %v", key, expected)
	}
}

func TestBuildCheckpointRouteKey(t *testing.T) {
	key := BuildCheckpointRouteKey("1001", "checkpoint-7", "2003")
	expected := "route:mc2:1001:checkpoint-7:2003"
	if key != expected {
		t.Errorf("BuildCheckpointRouteKey() = %v, want %v", key, expected)
	}
}

func TestBuildCheckpointRouteKey_DistinctFromPlainRoute(t *testing.T) {
	plain := BuildRouteKey("1001", "2003")
	viaCheckpoint := BuildCheckpointRouteKey("1001", "checkpoint-7", "2003")
	if plain == viaCheckpoint {
		t.Error("MC and MC2 keys for the same origin/destination must not collide")
	}
}

func TestQuickHash(t *testing.T) {
	data := []byte("test data")
	hash := QuickHash(data)

	if len(hash) != 64 { // SHA256 hex = 64 chars
		t.Errorf("QuickHash length = %d, want 64", len(hash))
	}

	// Same data should produce same hash
	hash2 := QuickHash(data)
	if hash != hash2 {
		t.Error("same data should produce same hash")
	}
}

func TestShortHash(t *testing.T) {
	data := []byte("test data")
	hash := ShortHash(data)

	if len(hash) != 16 {
		t.Errorf("ShortHash length = %d, want 16", len(hash))
	}
}
