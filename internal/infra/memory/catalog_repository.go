package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"rights-arcade/internal/domain"
)

// CatalogLoader fetches mode content from a backing store (built-in data, Postgres).
type CatalogLoader interface {
	LoadCatalog(ctx context.Context, mode domain.ModeID) (domain.Catalog, error)
}

// CatalogRepository caches catalogs with TTL to avoid repeated loads.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[domain.ModeID]cachedCatalog
}

type cachedCatalog struct {
	catalog   domain.Catalog
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.ModeID]cachedCatalog),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, mode domain.ModeID) (domain.Catalog, error) {
	if catalog, ok := r.cached(mode); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(string(mode), func() (interface{}, error) {
		if catalog, ok := r.cached(mode); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx, mode)
		if err != nil {
			return domain.Catalog{}, err
		}

		r.mu.Lock()
		r.cache[mode] = cachedCatalog{
			catalog:   catalog,
			expiresAt: r.clock().Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

func (r *CatalogRepository) cached(mode domain.ModeID) (domain.Catalog, bool) {
	now := r.clock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	if entry, ok := r.cache[mode]; ok && entry.expiresAt.After(now) {
		return entry.catalog, true
	}
	return domain.Catalog{}, false
}

// StaticCatalogLoader serves catalogs from an in-memory map (built-in content, tests).
type StaticCatalogLoader struct {
	catalogs map[domain.ModeID]domain.Catalog
}

func NewStaticCatalogLoader(catalogs map[domain.ModeID]domain.Catalog) *StaticCatalogLoader {
	return &StaticCatalogLoader{catalogs: catalogs}
}

func (l *StaticCatalogLoader) LoadCatalog(_ context.Context, mode domain.ModeID) (domain.Catalog, error) {
	if catalog, ok := l.catalogs[mode]; ok {
		return catalog, nil
	}
	return domain.Catalog{}, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, mode)
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
