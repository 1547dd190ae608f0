package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"rights-arcade/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
			"rights-quiz": sampleCatalog(),
		}),
	}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background(), "rights-quiz"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls.Load())
	}

	got, err := repo.GetCatalog(context.Background(), "rights-quiz")
	if err != nil {
		t.Fatalf("get catalog 2: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls.Load())
	}
	if len(got.Entities) != 1 || got.Entities[0].ID != "q1" {
		t.Fatalf("unexpected catalog %+v", got)
	}
}

func TestCatalogRepositoryExpires(t *testing.T) {
	loader := &countingLoader{
		CatalogLoader: NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
			"rights-quiz": sampleCatalog(),
		}),
	}
	repo := NewCatalogRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetCatalog(context.Background(), "rights-quiz")
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetCatalog(context.Background(), "rights-quiz")
	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls.Load())
	}
}

func TestCatalogRepositoryUnknownMode(t *testing.T) {
	repo := NewCatalogRepository(NewStaticCatalogLoader(nil), time.Minute)
	_, err := repo.GetCatalog(context.Background(), "nope")
	if !errors.Is(err, domain.ErrCatalogNotFound) {
		t.Fatalf("expected catalog not found, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	calls atomic.Int32
}

func (l *countingLoader) LoadCatalog(ctx context.Context, mode domain.ModeID) (domain.Catalog, error) {
	l.calls.Add(1)
	return l.CatalogLoader.LoadCatalog(ctx, mode)
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		Mode: "rights-quiz",
		Entities: []domain.Entity{
			{
				ID:           "q1",
				Kind:         domain.KindQuiz,
				Prompt:       "Which helpline number is dedicated to children in distress?",
				Options:      []string{"100", "101", "1098", "112"},
				CorrectIndex: 2,
			},
		},
	}
}
