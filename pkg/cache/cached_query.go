// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/roleadmin/pkg/log"
	"golang.org/x/sync/singleflight"
)

type QueryFunc[T any] func(ctx context.Context) (T, error)

type KeyFunc func(params ...any) string

// CachedQuery is a cache-aside wrapper around a query. Concurrent misses for
// the same key share one query.
type CachedQuery[T any] struct {
	cache     ICache
	keyFunc   KeyFunc
	queryFunc QueryFunc[T]
	ttl       time.Duration
	logPrefix string
	group     singleflight.Group
}

type CachedQueryOption[T any] func(*CachedQuery[T])

func WithTTL[T any](ttl time.Duration) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		if ttl > 0 {
			cq.ttl = ttl
		}
	}
}

func WithLogPrefix[T any](prefix string) CachedQueryOption[T] {
	return func(cq *CachedQuery[T]) {
		cq.logPrefix = prefix
	}
}

func NewCachedQuery[T any](
	cache ICache,
	keyFunc KeyFunc,
	queryFunc QueryFunc[T],
	opts ...CachedQueryOption[T],
) *CachedQuery[T] {
	cq := &CachedQuery[T]{
		cache:     cache,
		keyFunc:   keyFunc,
		queryFunc: queryFunc,
		ttl:       1 * time.Hour,
		logPrefix: "[CachedQuery]",
	}

	for _, opt := range opts {
		opt(cq)
	}

	return cq
}

// StaticKey is a KeyFunc for queries without parameters.
func StaticKey(key string) KeyFunc {
	return func(...any) string {
		return key
	}
}

func (cq *CachedQuery[T]) Get(ctx context.Context, params ...any) (T, error) {
	var zero T
	cacheKey := cq.keyFunc(params...)

	if result, ok := cq.lookup(ctx, cacheKey); ok {
		return result, nil
	}

	v, err, _ := cq.group.Do(cacheKey, func() (any, error) {
		log.Debugw(cq.logPrefix+" cache miss, querying from database", "key", cacheKey)
		result, err := cq.queryFunc(ctx)
		if err != nil {
			return zero, err
		}
		cq.store(ctx, cacheKey, result)
		return result, nil
	})
	if err != nil {
		return zero, fmt.Errorf("failed to query from database: %w", err)
	}
	return v.(T), nil
}

func (cq *CachedQuery[T]) lookup(ctx context.Context, cacheKey string) (T, bool) {
	var result T
	if cq.cache == nil {
		return result, false
	}

	cacheData, err := cq.cache.Get(ctx, cacheKey).Result()
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Warnw(cq.logPrefix+" cache get error", "key", cacheKey, "error", err)
		}
		return result, false
	}

	if err := sonic.UnmarshalString(cacheData, &result); err != nil {
		log.Warnw(cq.logPrefix+" failed to unmarshal cached data", "key", cacheKey, "error", err)
		return result, false
	}
	log.Debugw(cq.logPrefix+" cache hit", "key", cacheKey)
	return result, true
}

func (cq *CachedQuery[T]) store(ctx context.Context, cacheKey string, result T) {
	if cq.cache == nil {
		return
	}
	cacheData, err := sonic.MarshalString(result)
	if err != nil {
		log.Warnw(cq.logPrefix+" failed to marshal result for caching", "key", cacheKey, "error", err)
		return
	}
	if err := cq.cache.Set(ctx, cacheKey, cacheData, cq.ttl).Err(); err != nil {
		log.Warnw(cq.logPrefix+" failed to cache result", "key", cacheKey, "error", err)
		return
	}
	log.Debugw(cq.logPrefix+" cached result", "key", cacheKey)
}

func (cq *CachedQuery[T]) Invalidate(ctx context.Context, params ...any) error {
	if cq.cache == nil {
		return nil
	}
	cacheKey := cq.keyFunc(params...)
	if err := cq.cache.Del(ctx, cacheKey).Err(); err != nil {
		log.Warnw(cq.logPrefix+" failed to invalidate cache", "key", cacheKey, "error", err)
		return err
	}
	log.Debugw(cq.logPrefix+" cache invalidated", "key", cacheKey)
	return nil
}
