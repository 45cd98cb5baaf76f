package cache

import (
	"context"
	"encoding/json"
	"time"
)

// RouteCache memoizes MC/MC2 shortest-path results keyed by origin/destination
// pair (or origin/checkpoint/destination triple); the pipeline driver passes
// zone and checkpoint identifiers, not graph node IDs. The road network is immutable for
// the duration of a run, so repeated OD rows sharing an origin, a
// destination, or a checkpoint are safe to serve from cache instead of
// re-running Dijkstra.
type RouteCache struct {
	cache      Cache
	defaultTTL time.Duration
}

// CachedRoute is the cached shape of a single shortest-path result.
type CachedRoute struct {
	LengthM   float64  `json:"length_m"`
	SenseCode string   `json:"sense_code,omitempty"`
	Path      []string `json:"path,omitempty"`
}

// NewRouteCache создаёт кэш для результатов MC/MC2
func NewRouteCache(cache Cache, defaultTTL time.Duration) *RouteCache {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &RouteCache{cache: cache, defaultTTL: defaultTTL}
}

// GetRoute возвращает кэшированный результат MC для пары origin/destination.
func (rc *RouteCache) GetRoute(ctx context.Context, origin, destination string) (*CachedRoute, bool, error) {
	return rc.get(ctx, BuildRouteKey(origin, destination))
}

// SetRoute сохраняет результат MC.
func (rc *RouteCache) SetRoute(ctx context.Context, origin, destination string, route *CachedRoute) error {
	return rc.set(ctx, BuildRouteKey(origin, destination), route)
}

// GetCheckpointRoute возвращает кэшированный результат MC2.
func (rc *RouteCache) GetCheckpointRoute(ctx context.Context, origin, checkpoint, destination string) (*CachedRoute, bool, error) {
	return rc.get(ctx, BuildCheckpointRouteKey(origin, checkpoint, destination))
}

// SetCheckpointRoute сохраняет результат MC2.
func (rc *RouteCache) SetCheckpointRoute(ctx context.Context, origin, checkpoint, destination string, route *CachedRoute) error {
	return rc.set(ctx, BuildCheckpointRouteKey(origin, checkpoint, destination), route)
}

func (rc *RouteCache) get(ctx context.Context, key string) (*CachedRoute, bool, error) {
	data, err := rc.cache.Get(ctx, key)
	if err != nil {
		if err == ErrKeyNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}

	var route CachedRoute
	if err := json.Unmarshal(data, &route); err != nil {
		// Повреждённый кэш — удаляем, ошибку удаления игнорируем намеренно
		_ = rc.cache.Delete(ctx, key) //nolint:errcheck // best effort cleanup
		return nil, false, nil
	}
	return &route, true, nil
}

func (rc *RouteCache) set(ctx context.Context, key string, route *CachedRoute) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return rc.cache.Set(ctx, key, data, rc.defaultTTL)
}
