package entity

import (
	"fmt"
)

// emptyValue marks a slot that was computed and found absent, so that it is
// not computed again.
type emptyValue struct{}

// LazyCache memoizes computed relations of a single record. A slot is in one
// of three states: uncomputed, empty or holding a value.
//
// A LazyCache is not safe for concurrent mutation; a record shared between
// goroutines needs external synchronization.
type LazyCache struct {
	entries map[string]any
}

// Cached is implemented by records that own a LazyCache. Embedding Entity
// provides it.
type Cached interface {
	LazyCache() *LazyCache
}

func (c *LazyCache) get(key string) (any, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *LazyCache) set(key string, v any) {
	if c.entries == nil {
		c.entries = make(map[string]any)
	}
	c.entries[key] = v
}

func (c *LazyCache) setEmpty(key string) {
	c.set(key, emptyValue{})
}

// Populated reports whether key was computed, including as empty.
func (c *LazyCache) Populated(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Clear returns key to the uncomputed state.
func (c *LazyCache) Clear(key string) {
	delete(c.entries, key)
}

// Reset clears every slot.
func (c *LazyCache) Reset() {
	c.entries = nil
}

// Len returns the number of computed slots.
func (c *LazyCache) Len() int {
	return len(c.entries)
}

// LazyLoad returns the slot key of record, running compute on the first call
// only. compute reports whether a value was found; a missing value is cached
// as empty and returned as (zero, false, nil) from then on. Errors from
// compute are returned and nothing is cached.
func LazyLoad[T any](record Cached, key string, compute func() (T, bool, error)) (T, bool, error) {
	var zero T
	cache := record.LazyCache()

	if v, ok := cache.get(key); ok {
		if _, empty := v.(emptyValue); empty {
			return zero, false, nil
		}
		typed, ok := v.(T)
		if !ok {
			return zero, false, fmt.Errorf("entity: lazy slot %q holds %T, not %T", key, v, zero)
		}
		return typed, true, nil
	}

	v, found, err := compute()
	if err != nil {
		return zero, false, err
	}
	if !found {
		cache.setEmpty(key)
		return zero, false, nil
	}
	cache.set(key, v)
	return v, true, nil
}

// ClearLazyLoad returns the slot key of record to the uncomputed state.
func ClearLazyLoad(record Cached, key string) {
	record.LazyCache().Clear(key)
}
