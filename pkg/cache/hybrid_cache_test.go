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
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHybridCache_WritesBothTiers(t *testing.T) {
	local := NewFastCache(FastCacheConfig{})
	remote := newMockCache()
	hc := NewHybridCache(local, remote, HybridCacheConfig{LocalTTLRatio: 0.5})
	ctx := context.Background()

	require.NoError(t, hc.Set(ctx, "k", "v", time.Minute).Err())

	assert.Equal(t, "v", local.Get(ctx, "k").Val())
	assert.Equal(t, "v", remote.Get(ctx, "k").Val())
}

func TestHybridCache_ReadsThroughRemote(t *testing.T) {
	local := NewFastCache(FastCacheConfig{})
	remote := newMockCache()
	hc := NewHybridCache(local, remote, HybridCacheConfig{})
	ctx := context.Background()

	remote.Set(ctx, "k", "remote-value", time.Minute)

	val, err := hc.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "remote-value", val)

	// populated locally on the way back
	assert.Equal(t, "remote-value", local.Get(ctx, "k").Val())
}

func TestHybridCache_Miss(t *testing.T) {
	hc := NewHybridCache(NewFastCache(FastCacheConfig{}), newMockCache(), HybridCacheConfig{})

	_, err := hc.Get(context.Background(), "absent").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestHybridCache_RemoteDown(t *testing.T) {
	local := NewFastCache(FastCacheConfig{})
	remote := newMockCache()
	remote.err = errors.New("connection refused")
	hc := NewHybridCache(local, remote, HybridCacheConfig{})
	ctx := context.Background()

	require.NoError(t, hc.Set(ctx, "k", "v", time.Minute).Err())

	val, err := hc.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	assert.Equal(t, int64(1), hc.Del(ctx, "k").Val())
	_, err = hc.Get(ctx, "k").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// newReplica returns a HybridCache whose local tier follows clock.
func newReplica(remote ICache, clock *fakeClock, conf HybridCacheConfig) *HybridCache {
	local := NewFastCache(FastCacheConfig{})
	local.now = clock.Now
	return NewHybridCache(local, remote, conf)
}

// remoteOnly hides PTTL from the hybrid cache.
type remoteOnly struct{ ICache }

func TestHybridCache_ReplicaSeesRemoteDelete(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	remote := newMockCache()
	remote.now = clock.Now
	conf := HybridCacheConfig{LocalTTLRatio: 0.5}
	a := newReplica(remote, clock, conf)
	b := newReplica(remote, clock, conf)
	ctx := context.Background()

	require.NoError(t, a.Set(ctx, "roles", "old", 2*time.Second).Err())

	val, err := b.Get(ctx, "roles").Result()
	require.NoError(t, err)
	assert.Equal(t, "old", val)

	a.Del(ctx, "roles")
	_, err = a.Get(ctx, "roles").Result()
	assert.ErrorIs(t, err, redis.Nil)

	// b holds its copy for half of the remaining remote TTL
	clock.Advance(time.Second + time.Millisecond)
	_, err = b.Get(ctx, "roles").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestHybridCache_LocalCopyCappedByMaxLocalTTL(t *testing.T) {
	tests := []struct {
		name   string
		remote func(*mockCache) ICache
		ttl    time.Duration
	}{
		{name: "long remote ttl", remote: func(m *mockCache) ICache { return m }, ttl: time.Hour},
		{name: "no remote expiry", remote: func(m *mockCache) ICache { return m }, ttl: 0},
		{name: "remote without pttl", remote: func(m *mockCache) ICache { return remoteOnly{m} }, ttl: time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
			mock := newMockCache()
			mock.now = clock.Now
			remote := tt.remote(mock)
			conf := HybridCacheConfig{LocalTTLRatio: 0.2, MaxLocalTTL: 3 * time.Second}
			a := newReplica(remote, clock, conf)
			b := newReplica(remote, clock, conf)
			ctx := context.Background()

			require.NoError(t, a.Set(ctx, "roles", "old", tt.ttl).Err())
			require.Equal(t, "old", b.Get(ctx, "roles").Val())

			a.Del(ctx, "roles")

			clock.Advance(2 * time.Second)
			assert.Equal(t, "old", b.Get(ctx, "roles").Val(), "within the local bound")

			clock.Advance(time.Second)
			_, err := b.Get(ctx, "roles").Result()
			assert.ErrorIs(t, err, redis.Nil)
		})
	}
}

func TestHybridCache_DefaultMaxLocalTTL(t *testing.T) {
	hc := NewHybridCache(NewFastCache(FastCacheConfig{}), newMockCache(), HybridCacheConfig{})
	assert.Equal(t, DefaultMaxLocalTTL, hc.config.MaxLocalTTL)
	assert.Equal(t, DefaultMaxLocalTTL, hc.localTTL(time.Hour))
	assert.Equal(t, time.Second, hc.localTTL(time.Second))
}
