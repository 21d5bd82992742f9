package cache

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// AutocompleteCache keeps autocomplete name lists per normalized term.
// Eviction is based on LRU and LFU policies; entries also expire after a TTL.
type AutocompleteCache interface {
	Get(term string) ([]string, error)
	// Generation identifies the current index contents. Read it before querying
	// and hand it to Put so that results older than the last Clear are dropped.
	Generation() uint64
	Put(term string, names []string, generation uint64) error
	// Clear drops every entry, called whenever the index contents change.
	Clear()
}

type AutocompleteCacheImpl struct {
	cache      *ristretto.Cache
	ttl        time.Duration
	mu         sync.RWMutex
	generation uint64
}

func NewAutocompleteCacheImpl(cache *ristretto.Cache, ttl time.Duration) *AutocompleteCacheImpl {
	return &AutocompleteCacheImpl{
		cache: cache,
		ttl:   ttl,
	}
}

// NewRistretto sizes a ristretto cache for roughly maxEntries term lists.
func NewRistretto(maxEntries int64) (*ristretto.Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create autocomplete cache: %w", err)
	}
	return c, nil
}

func (ac *AutocompleteCacheImpl) Get(term string) ([]string, error) {
	value, found := ac.cache.Get(cacheKey(term))
	if !found {
		return nil, ErrKeyNotFound
	}
	typedValue, ok := value.([]string)
	if !ok {
		return nil, fmt.Errorf("value not of expected type %T returned from cache when getting", value)
	}
	return typedValue, nil
}

func (ac *AutocompleteCacheImpl) Generation() uint64 {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return ac.generation
}

func (ac *AutocompleteCacheImpl) Put(term string, names []string, generation uint64) error {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	if generation != ac.generation {
		return ErrStaleGeneration
	}
	set := ac.cache.SetWithTTL(cacheKey(term), names, 1, ac.ttl)
	if !set {
		return ErrSetFailed
	}
	return nil
}

func (ac *AutocompleteCacheImpl) Clear() {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	ac.generation++
	ac.cache.Clear()
}

// Wait blocks until buffered writes are applied.
func (ac *AutocompleteCacheImpl) Wait() {
	ac.cache.Wait()
}

// the autocomplete analyzers lowercase, so case does not change the result
func cacheKey(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

var (
	ErrKeyNotFound = errors.New("key not found within the cache")
	ErrSetFailed   = errors.New("failed to set value in cache")
	// ErrStaleGeneration is returned by Put for a result computed before the last Clear.
	ErrStaleGeneration = errors.New("cache was cleared after the value was computed")
)
