package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"rights-arcade/internal/domain"
	"rights-arcade/internal/infra/memory"
)

// CatalogRepository caches catalogs in Redis as JSON and falls back to a loader on cache miss.
// Catalogs are stored as: SET catalog:{mode} {json} EX ttl
type CatalogRepository struct {
	client *redis.Client
	loader memory.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewCatalogRepository(client *redis.Client, loader memory.CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, mode domain.ModeID) (domain.Catalog, error) {
	if catalog, ok := r.cached(ctx, mode); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(string(mode), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.cached(ctx, mode); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx, mode)
		if err != nil {
			return domain.Catalog{}, err
		}

		data, err := json.Marshal(catalog)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := r.client.Set(ctx, r.key(mode), data, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache catalog %s: %v", mode, err)
		}
		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) cached(ctx context.Context, mode domain.ModeID) (domain.Catalog, bool) {
	raw, err := r.client.Get(ctx, r.key(mode)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("read cached catalog %s: %v", mode, err)
		}
		return domain.Catalog{}, false
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		log.Printf("decode cached catalog %s: %v", mode, err)
		return domain.Catalog{}, false
	}
	return catalog, true
}

func (r *CatalogRepository) key(mode domain.ModeID) string {
	return "catalog:" + string(mode)
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
