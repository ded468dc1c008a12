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
	"time"

	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/redis/go-redis/v9"
)

// DefaultMaxLocalTTL bounds how long a replica may keep serving a local copy
// after another replica deleted or rewrote the key in the remote tier.
const DefaultMaxLocalTTL = 5 * time.Second

type HybridCacheConfig struct {
	LocalTTLRatio float64       // Ratio of remote TTL for local cache (0.0-1.0)
	MaxLocalTTL   time.Duration // Upper bound for any local entry, default DefaultMaxLocalTTL
}

// ttlReader is implemented by remotes that can report a key's remaining TTL.
type ttlReader interface {
	PTTL(ctx context.Context, key string) *redis.DurationCmd
}

// HybridCache reads through a local FastCache in front of a remote cache and
// writes to both. Remote failures degrade to local-only operation.
//
// Del only reaches the local tier of the calling process, so other replicas
// may serve a deleted value for at most MaxLocalTTL.
type HybridCache struct {
	local  *FastCache
	remote ICache
	config HybridCacheConfig
}

func NewHybridCache(local *FastCache, remote ICache, config HybridCacheConfig) *HybridCache {
	if config.MaxLocalTTL <= 0 {
		config.MaxLocalTTL = DefaultMaxLocalTTL
	}
	return &HybridCache{
		local:  local,
		remote: remote,
		config: config,
	}
}

func (hc *HybridCache) localTTL(ttl time.Duration) time.Duration {
	if hc.config.LocalTTLRatio > 0 && hc.config.LocalTTLRatio < 1.0 {
		ttl = time.Duration(float64(ttl) * hc.config.LocalTTLRatio)
	}
	if ttl <= 0 || ttl > hc.config.MaxLocalTTL {
		return hc.config.MaxLocalTTL
	}
	return ttl
}

// localCopyTTL returns how long a value just read from the remote tier may be
// kept locally. ok is false when the key is already gone remotely.
func (hc *HybridCache) localCopyTTL(ctx context.Context, key string) (ttl time.Duration, ok bool) {
	r, can := hc.remote.(ttlReader)
	if !can {
		return hc.config.MaxLocalTTL, true
	}
	ttl, err := r.PTTL(ctx, key).Result()
	if err != nil {
		log.Warnw("hybrid cache remote pttl failed", "key", key, "error", err)
		return hc.config.MaxLocalTTL, true
	}
	switch {
	case ttl == -2:
		return 0, false
	case ttl <= 0:
		// no expiry on the remote key
		return hc.config.MaxLocalTTL, true
	}
	return hc.localTTL(ttl), true
}

func (hc *HybridCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := hc.local.Get(ctx, key)
	if cmd.Err() == nil {
		log.Debugw("hybrid cache hit (local)", "key", key)
		return cmd
	}

	remoteCmd := hc.remote.Get(ctx, key)
	switch err := remoteCmd.Err(); {
	case err == nil:
		log.Debugw("hybrid cache hit (remote)", "key", key)
		if ttl, ok := hc.localCopyTTL(ctx, key); ok {
			hc.local.Set(ctx, key, remoteCmd.Val(), ttl)
		}
		return remoteCmd
	case !errors.Is(err, redis.Nil):
		log.Warnw("hybrid cache remote get failed", "key", key, "error", err)
	}
	return cmd
}

func (hc *HybridCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := hc.local.Set(ctx, key, value, hc.localTTL(expiration))
	if cmd.Err() != nil {
		return cmd
	}
	if err := hc.remote.Set(ctx, key, value, expiration).Err(); err != nil {
		log.Warnw("hybrid cache remote set failed", "key", key, "error", err)
	}
	return cmd
}

func (hc *HybridCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := hc.local.Del(ctx, keys...)
	remoteCmd := hc.remote.Del(ctx, keys...)
	if err := remoteCmd.Err(); err != nil {
		log.Warnw("hybrid cache remote del failed", "keys", keys, "error", err)
		return cmd
	}
	if remoteCmd.Val() > cmd.Val() {
		return remoteCmd
	}
	return cmd
}
