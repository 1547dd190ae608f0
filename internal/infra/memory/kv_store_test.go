package memory

import (
	"context"
	"testing"
)

func TestKVStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	if _, ok, err := store.Get(ctx, "profile:p1:candies"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "profile:p1:candies", "12"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Get(ctx, "profile:p1:candies")
	if err != nil || !ok || v != "12" {
		t.Fatalf("get = %q %v %v", v, ok, err)
	}
	if err := store.Delete(ctx, "profile:p1:candies"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}
