package adminsync

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"eduexpress-backend/internal/model"
)

const (
	DefaultListTTL   = 5 * time.Minute
	DefaultStatusTTL = time.Hour
)

// State is the lifecycle of one cached collection.
type State int

const (
	StateEmpty State = iota
	StateFresh
	StateStale
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	default:
		return "empty"
	}
}

// Fetcher loads admin data from the backend.
type Fetcher interface {
	// FetchList returns every record of collection, or only those updated after
	// updatedSince when it is non-zero.
	FetchList(ctx context.Context, collection string, updatedSince time.Time) ([]json.RawMessage, error)
	FetchStatus(ctx context.Context, collection string, since time.Time) (model.SyncStatus, error)
}

// Config tunes expiry. Zero values fall back to the defaults.
type Config struct {
	ListTTL   time.Duration
	StatusTTL time.Duration
	Now       func() time.Time
}

// ListResult is a cached or freshly fetched list.
type ListResult struct {
	Items     []json.RawMessage
	FromCache bool
	SyncedAt  time.Time
}

type listEntry struct {
	items    []json.RawMessage
	syncedAt time.Time
}

type statusEntry struct {
	status    model.SyncStatus
	fetchedAt time.Time
}

// Cache keeps admin list data and sync status per collection with time based expiry.
// A failed refresh never discards what is already cached.
type Cache struct {
	fetcher   Fetcher
	listTTL   time.Duration
	statusTTL time.Duration
	now       func() time.Time
	log       *zap.Logger

	flight singleflight.Group

	mu       sync.Mutex
	lists    map[string]listEntry
	statuses map[string]statusEntry
}

// NewCache creates an empty Cache over fetcher.
func NewCache(fetcher Fetcher, cfg Config, log *zap.Logger) *Cache {
	if cfg.ListTTL <= 0 {
		cfg.ListTTL = DefaultListTTL
	}
	if cfg.StatusTTL <= 0 {
		cfg.StatusTTL = DefaultStatusTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Cache{
		fetcher:   fetcher,
		listTTL:   cfg.ListTTL,
		statusTTL: cfg.StatusTTL,
		now:       cfg.Now,
		log:       log,
		lists:     map[string]listEntry{},
		statuses:  map[string]statusEntry{},
	}
}

// State reports whether collection is empty, fresh or stale right now.
func (c *Cache) State(collection string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.lists[collection]
	if !ok {
		return StateEmpty
	}
	if c.expired(entry.syncedAt, c.listTTL) {
		return StateStale
	}
	return StateFresh
}

// GetCachedList serves collection from cache while fresh and refetches it otherwise.
// On fetch failure the previous data, if any, is returned together with the error.
func (c *Cache) GetCachedList(ctx context.Context, collection string) (ListResult, error) {
	c.mu.Lock()
	entry, ok := c.lists[collection]
	c.mu.Unlock()

	if ok && !c.expired(entry.syncedAt, c.listTTL) {
		return entry.result(true), nil
	}
	return c.refresh(ctx, collection)
}

// ForceSync refetches collection regardless of its state and drops its cached status.
func (c *Cache) ForceSync(ctx context.Context, collection string) (ListResult, error) {
	res, err := c.refresh(ctx, collection)
	if err == nil {
		c.mu.Lock()
		delete(c.statuses, collection)
		c.mu.Unlock()
	}
	return res, err
}

// IncrementalSync fetches records changed since the last sync and merges them by id.
// An empty collection is fully fetched instead.
func (c *Cache) IncrementalSync(ctx context.Context, collection string) (ListResult, error) {
	c.mu.Lock()
	entry, ok := c.lists[collection]
	c.mu.Unlock()
	if !ok {
		return c.ForceSync(ctx, collection)
	}

	started := c.now()
	v, err, _ := c.flight.Do("delta:"+collection, func() (any, error) {
		return c.fetcher.FetchList(ctx, collection, entry.syncedAt)
	})
	if err != nil {
		c.log.Warn("incremental sync failed", zap.String("collection", collection), zap.Error(err))
		return entry.result(true), err
	}

	changed := v.([]json.RawMessage)
	c.mu.Lock()
	defer c.mu.Unlock()
	// Another refresh may have landed while fetching.
	if current, ok := c.lists[collection]; ok {
		entry = current
	}
	merged := listEntry{items: mergeByID(entry.items, changed), syncedAt: started}
	c.lists[collection] = merged
	if len(changed) > 0 {
		delete(c.statuses, collection)
	}
	return merged.result(false), nil
}

// SyncStatus returns the backend's view of how far the cached copy lags. The status
// is cached for the status TTL unless force is set.
func (c *Cache) SyncStatus(ctx context.Context, collection string, force bool) (model.SyncStatus, bool, error) {
	c.mu.Lock()
	cached, ok := c.statuses[collection]
	since := c.lists[collection].syncedAt
	c.mu.Unlock()

	if ok && !force && !c.expired(cached.fetchedAt, c.statusTTL) {
		return cached.status, true, nil
	}

	fetchedAt := c.now()
	status, err := c.fetcher.FetchStatus(ctx, collection, since)
	if err != nil {
		c.log.Warn("sync status failed", zap.String("collection", collection), zap.Error(err))
		return cached.status, ok, err
	}

	c.mu.Lock()
	c.statuses[collection] = statusEntry{status: status, fetchedAt: fetchedAt}
	c.mu.Unlock()
	return status, false, nil
}

// Clear empties one collection.
func (c *Cache) Clear(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.lists, collection)
	delete(c.statuses, collection)
}

// ClearAll empties every collection.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = map[string]listEntry{}
	c.statuses = map[string]statusEntry{}
}

func (c *Cache) refresh(ctx context.Context, collection string) (ListResult, error) {
	started := c.now()
	v, err, _ := c.flight.Do("list:"+collection, func() (any, error) {
		return c.fetcher.FetchList(ctx, collection, time.Time{})
	})
	if err != nil {
		c.log.Warn("list sync failed", zap.String("collection", collection), zap.Error(err))
		c.mu.Lock()
		previous, ok := c.lists[collection]
		c.mu.Unlock()
		if !ok {
			return ListResult{}, err
		}
		return previous.result(true), err
	}

	entry := listEntry{items: v.([]json.RawMessage), syncedAt: started}
	c.mu.Lock()
	c.lists[collection] = entry
	c.mu.Unlock()
	return entry.result(false), nil
}

func (c *Cache) expired(at time.Time, ttl time.Duration) bool {
	return c.now().Sub(at) >= ttl
}

func (e listEntry) result(fromCache bool) ListResult {
	items := make([]json.RawMessage, len(e.items))
	copy(items, e.items)
	return ListResult{Items: items, FromCache: fromCache, SyncedAt: e.syncedAt}
}

// mergeByID replaces records of current that appear in changed and appends the rest.
func mergeByID(current, changed []json.RawMessage) []json.RawMessage {
	index := make(map[string]int, len(current))
	merged := make([]json.RawMessage, len(current), len(current)+len(changed))
	copy(merged, current)
	for i, item := range merged {
		if id := recordID(item); id != "" {
			index[id] = i
		}
	}
	for _, item := range changed {
		id := recordID(item)
		if i, ok := index[id]; ok && id != "" {
			merged[i] = item
			continue
		}
		if id != "" {
			index[id] = len(merged)
		}
		merged = append(merged, item)
	}
	return merged
}

func recordID(raw json.RawMessage) string {
	var rec struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ""
	}
	return rec.ID
}
