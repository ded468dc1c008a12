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
	"github.com/google/wire"
)

const defaultLocalMaxBytes = 32 * 1024 * 1024

var ProviderSet = wire.NewSet(ProvideICache)

// ProvideICache returns an in-process cache when redis is not configured and
// a hybrid local+redis cache otherwise.
func ProvideICache(conf Redis) (ICache, func(), error) {
	local := NewFastCache(FastCacheConfig{MaxBytes: defaultLocalMaxBytes})
	if !conf.Enabled() {
		return local, func() { local.Clear() }, nil
	}

	client, err := NewRedis(conf)
	if err != nil {
		return nil, nil, err
	}
	hybrid := NewHybridCache(local, NewRedisCache(client), HybridCacheConfig{
		LocalTTLRatio: 0.2,
		MaxLocalTTL:   DefaultMaxLocalTTL,
	})
	return hybrid, func() { _ = client.Close() }, nil
}
