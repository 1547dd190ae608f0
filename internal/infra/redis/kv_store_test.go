package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"

	"rights-arcade/internal/app"
)

func TestKVStoreBacksProgress(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	progress := app.NewProgressStore(NewKVStore(newClient(mr)), nil)

	if _, err := progress.AddCurrency(ctx, "p1", 7); err != nil {
		t.Fatalf("add currency: %v", err)
	}
	if got, _ := mr.Get("profile:p1:candies"); got != "7" {
		t.Fatalf("expected candies=7 in redis, got %q", got)
	}

	mr.Set("profile:p1:totalScore", "abc")
	rec := progress.Load(ctx, "p1")
	if rec.Currency != 7 || rec.TotalScore != 0 {
		t.Fatalf("unexpected record %+v", rec)
	}

	kv := NewKVStore(newClient(mr))
	if err := kv.Delete(ctx, "profile:p1:candies"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := kv.Get(ctx, "profile:p1:candies"); ok || err != nil {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
}
