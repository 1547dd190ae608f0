package memory

import (
	"context"
	"testing"
	"time"

	"rights-arcade/internal/app"
	"rights-arcade/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore()
	modes := []domain.ModeSpec{{ID: "rights-quiz", Kind: domain.KindQuiz, SampleSize: 1}}
	catalogs := NewCatalogRepository(NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
		"rights-quiz": sampleCatalog(),
	}), time.Minute)
	progress := app.NewProgressStore(NewKVStore(), nil)
	games := app.NewGameService(store, catalogs, progress, modes, time.Second)

	view, err := games.Start(ctx, "p1", "rights-quiz")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, ok := store.Get(view.ID); !ok {
		t.Fatalf("expected session present")
	}
	if store.Len() != 1 {
		t.Fatalf("expected one session, got %d", store.Len())
	}

	if err := games.Abandon(ctx, view.ID); err != nil {
		t.Fatalf("abandon: %v", err)
	}
	if _, ok := store.Get(view.ID); ok {
		t.Fatalf("expected session removed after abandon")
	}
}
