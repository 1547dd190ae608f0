package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"rights-arcade/internal/domain"
	"rights-arcade/internal/infra/memory"
)

func TestCatalogRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
			"rights-quiz": sampleCatalog(),
		}),
	}
	repo := NewCatalogRepository(client, loader, time.Minute)

	got, err := repo.GetCatalog(context.Background(), "rights-quiz")
	if err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("catalog:rights-quiz") {
		t.Fatalf("expected catalog cached in redis")
	}
	if ttl := mr.TTL("catalog:rights-quiz"); ttl < time.Minute {
		t.Fatalf("expected ttl of at least a minute, got %v", ttl)
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetCatalog(context.Background(), "rights-quiz")
	if err != nil {
		t.Fatalf("get cached catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Entities[0].Prompt != got.Entities[0].Prompt || cached.Entities[0].CorrectIndex != 2 {
		t.Fatalf("cached catalog differs: %+v", cached)
	}
}

func TestCatalogRepositoryIgnoresCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("catalog:rights-quiz", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := &countingLoader{
		CatalogLoader: memory.NewStaticCatalogLoader(map[domain.ModeID]domain.Catalog{
			"rights-quiz": sampleCatalog(),
		}),
	}
	repo := NewCatalogRepository(newClient(mr), loader, time.Minute)

	if _, err := repo.GetCatalog(context.Background(), "rights-quiz"); err != nil {
		t.Fatalf("get catalog: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected fallback to loader, calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.CatalogLoader
	calls int
}

func (l *countingLoader) LoadCatalog(ctx context.Context, mode domain.ModeID) (domain.Catalog, error) {
	l.calls++
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

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
