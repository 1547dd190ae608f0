package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"rights-arcade/internal/app"
	"rights-arcade/internal/domain"
	"rights-arcade/internal/infra/memory"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute)
	catalogs := memory.NewCatalogRepository(memory.NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
		"rights-quiz": sampleCatalog(),
	}), time.Minute)
	games := app.NewGameService(store, catalogs, app.NewProgressStore(memory.NewKVStore(), nil),
		[]domain.ModeSpec{{ID: "rights-quiz", Kind: domain.KindQuiz, SampleSize: 1}}, time.Second)

	view, err := games.Start(ctx, "p1", "rights-quiz")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	key := "arcade:session:" + view.ID
	if !mr.Exists(key) {
		t.Fatalf("expected redis key to be set")
	}
	if got, _ := mr.Get(key); got != "p1:rights-quiz" {
		t.Fatalf("unexpected liveness value %q", got)
	}

	games.End(ctx, view.ID)
	if mr.Exists(key) {
		t.Fatalf("expected redis key to be removed")
	}
}
