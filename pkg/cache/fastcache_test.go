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
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastCache_Set_Get(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	defer cache.Clear()

	ctx := context.Background()

	require.Equal(t, "OK", cache.Set(ctx, "test_key", "test_value", time.Hour).Val())

	val, err := cache.Get(ctx, "test_key").Result()
	require.NoError(t, err)
	assert.Equal(t, "test_value", val)
}

func TestFastCache_Miss(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{})

	_, err := cache.Get(context.Background(), "absent").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestFastCache_Expiration(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{MaxBytes: 1024 * 1024})
	now := time.Now()
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	cache.Set(ctx, "expire_key", "expire_value", 100*time.Millisecond)

	val, err := cache.Get(ctx, "expire_key").Result()
	require.NoError(t, err)
	assert.Equal(t, "expire_value", val)

	now = now.Add(150 * time.Millisecond)

	_, err = cache.Get(ctx, "expire_key").Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestFastCache_NoExpiration(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{})
	now := time.Now()
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	cache.Set(ctx, "k", "v", 0)
	now = now.Add(24 * time.Hour)

	val, err := cache.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestFastCache_SetStruct(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "data", TestData{ID: 7, Name: "seven"}, time.Minute).Err())

	val, err := cache.Get(ctx, "data").Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"seven"}`, val)
}

func TestFastCache_Del(t *testing.T) {
	cache := NewFastCache(FastCacheConfig{})
	ctx := context.Background()

	cache.Set(ctx, "a", "1", time.Minute)
	cache.Set(ctx, "b", "2", time.Minute)

	assert.Equal(t, int64(2), cache.Del(ctx, "a", "b", "c").Val())

	_, err := cache.Get(ctx, "a").Result()
	assert.ErrorIs(t, err, redis.Nil)
}
