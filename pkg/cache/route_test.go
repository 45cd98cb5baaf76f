package cache

import (
	"context"
	"testing"
	"time"
)

func TestRouteCache_RouteRoundTrips(t *testing.T) {
	rc := NewRouteCache(NewMemoryCache(DefaultOptions()), time.Minute)
	ctx := context.Background()

	_, found, err := rc.GetRoute(ctx, "1001", "2003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected miss before Set")
	}

	if err := rc.SetRoute(ctx, "1001", "2003", &CachedRoute{LengthM: 1234.5}); err != nil {
		t.Fatalf("SetRoute failed: %v", err)
	}

	got, found, err := rc.GetRoute(ctx, "1001", "2003")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !found {
		t.Fatal("expected hit after Set")
	}
	if got.LengthM != 1234.5 {
		t.Errorf("expected LengthM 1234.5, got %f", got.LengthM)
	}
}

func TestRouteCache_CheckpointRouteIsDistinctFromPlainRoute(t *testing.T) {
	rc := NewRouteCache(NewMemoryCache(DefaultOptions()), time.Minute)
	ctx := context.Background()

	if err := rc.SetRoute(ctx, "1001", "2003", &CachedRoute{LengthM: 100}); err != nil {
		t.Fatalf("SetRoute failed: %v", err)
	}
	if err := rc.SetCheckpointRoute(ctx, "1001", "checkpoint-7", "2003", &CachedRoute{LengthM: 250, SenseCode: "2-2"}); err != nil {
		t.Fatalf("SetCheckpointRoute failed: %v", err)
	}

	plain, found, _ := rc.GetRoute(ctx, "1001", "2003")
	if !found || plain.LengthM != 100 {
		t.Fatalf("expected plain route untouched, got %+v found=%v", plain, found)
	}

	viaCheckpoint, found, _ := rc.GetCheckpointRoute(ctx, "1001", "checkpoint-7", "2003")
	if !found || viaCheckpoint.SenseCode != "2-2" {
		t.Fatalf("expected checkpoint route with sense code, got %+v found=%v", viaCheckpoint, found)
	}
}
