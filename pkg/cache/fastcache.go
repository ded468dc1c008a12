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
	"encoding/binary"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

type FastCacheConfig struct {
	MaxBytes int // Maximum bytes for fastcache, default 16MB
}

// FastCache is an in-process ICache. Each entry is stored with an 8 byte
// big-endian expiry (unix nanos, 0 = never) in front of the value, so expired
// entries are dropped lazily on read.
type FastCache struct {
	cache *fastcache.Cache
	now   func() time.Time
}

const expiryLen = 8

func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		now:   time.Now,
	}
}

func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)

	raw, ok := fc.cache.HasGet(nil, []byte(key))
	if !ok || len(raw) < expiryLen {
		cmd.SetErr(redis.Nil)
		return cmd
	}

	if exp := int64(binary.BigEndian.Uint64(raw[:expiryLen])); exp != 0 && fc.now().UnixNano() >= exp {
		fc.cache.Del([]byte(key))
		cmd.SetErr(redis.Nil)
		return cmd
	}

	cmd.SetVal(string(raw[expiryLen:]))
	return cmd
}

func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	var exp int64
	if expiration > 0 {
		exp = fc.now().Add(expiration).UnixNano()
	}

	entry := make([]byte, expiryLen+len(valueBytes))
	binary.BigEndian.PutUint64(entry[:expiryLen], uint64(exp))
	copy(entry[expiryLen:], valueBytes)
	fc.cache.Set([]byte(key), entry)

	cmd.SetVal("OK")
	return cmd
}

func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")

	var count int64
	for _, key := range keys {
		if fc.cache.Has([]byte(key)) {
			fc.cache.Del([]byte(key))
			count++
		}
	}

	cmd.SetVal(count)
	return cmd
}

func (fc *FastCache) Clear() {
	fc.cache.Reset()
}

func (fc *FastCache) Stats() fastcache.Stats {
	var stats fastcache.Stats
	fc.cache.UpdateStats(&stats)
	return stats
}
