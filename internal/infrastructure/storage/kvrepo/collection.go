// Package kvrepo implements the domain repositories on top of a
// kvstore.Store: each collection lives in memory and is written back as one
// JSON array under its key after every change.
package kvrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"kls/internal/core/apperror"
	"kls/internal/core/id"
	"kls/internal/core/kvstore"
	"kls/internal/infrastructure/storage/codec"
	"kls/pkg/logger"
)

// Collection is a write-through snapshot of one key.
//
// Reads serve copies from memory. Writes change memory first and then save
// the whole array; a failed save is reported as a persistence error while
// the in-memory change stays.
type Collection[T any] struct {
	store      kvstore.Store
	codec      *codec.Codec
	key        string
	legacyKeys []string
	idOf       func(T) id.ID
	clone      func(T) T

	mu     sync.RWMutex
	items  []T
	loaded bool
}

// NewCollection creates a collection stored under key. legacyKeys are read
// (in order) when key itself is missing.
func NewCollection[T any](store kvstore.Store, c *codec.Codec, key string, idOf func(T) id.ID, clone func(T) T, legacyKeys ...string) *Collection[T] {
	return &Collection[T]{
		store:      store,
		codec:      c,
		key:        key,
		legacyKeys: legacyKeys,
		idOf:       idOf,
		clone:      clone,
	}
}

// Key returns the storage key.
func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	items, err := c.read(ctx)
	if err != nil {
		return err
	}
	c.items = items
	c.loaded = true
	return nil
}

func (c *Collection[T]) read(ctx context.Context) ([]T, error) {
	for _, key := range append([]string{c.key}, c.legacyKeys...) {
		stored, err := c.store.Get(ctx, key)
		if errors.Is(err, kvstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", key, err)
		}

		raw, err := c.codec.Decode(stored)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		if key != c.key {
			logger.Warn(ctx, "loaded collection from legacy key", "key", c.key, "legacy_key", key)
		}
		return items, nil
	}
	return []T{}, nil
}

// flush writes the current items. Caller holds the write lock.
func (c *Collection[T]) flush(ctx context.Context) error {
	raw, err := json.Marshal(c.items)
	if err != nil {
		return apperror.NewPersistence(c.key, fmt.Errorf("marshal: %w", err))
	}
	if err := c.store.Put(ctx, c.key, c.codec.Encode(raw)); err != nil {
		logger.Warn(ctx, "persist collection failed", "key", c.key, "error", err)
		return apperror.NewPersistence(c.key, err)
	}
	return nil
}

// All returns copies of every item in insertion order.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	for i, it := range c.items {
		out[i] = c.clone(it)
	}
	return out, nil
}

// Find returns a copy of the first item matching pred.
func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	if err := c.ensureLoaded(ctx); err != nil {
		return zero, false, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if pred(it) {
			return c.clone(it), true, nil
		}
	}
	return zero, false, nil
}

// Get finds an item by id.
func (c *Collection[T]) Get(ctx context.Context, itemID id.ID) (T, bool, error) {
	return c.Find(ctx, func(it T) bool { return c.idOf(it) == itemID })
}

// Insert appends a copy of item.
func (c *Collection[T]) Insert(ctx context.Context, item T) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, c.clone(item))
	return c.flush(ctx)
}

// Replace swaps the stored item with the same id for a copy of item.
func (c *Collection[T]) Replace(ctx context.Context, item T) (bool, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if c.idOf(it) == c.idOf(item) {
			c.items[i] = c.clone(item)
			return true, c.flush(ctx)
		}
	}
	return false, nil
}

// Remove drops the item with itemID.
func (c *Collection[T]) Remove(ctx context.Context, itemID id.ID) (bool, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if c.idOf(it) == itemID {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true, c.flush(ctx)
		}
	}
	return false, nil
}

// Len returns the number of loaded items.
func (c *Collection[T]) Len(ctx context.Context) (int, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items), nil
}
