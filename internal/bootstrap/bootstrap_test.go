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

package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arcade/roleadmin/internal/engine/repo"
	"github.com/go-arcade/roleadmin/internal/engine/service"
	"github.com/go-arcade/roleadmin/pkg/cache"
	"github.com/go-arcade/roleadmin/pkg/database"
	"github.com/go-arcade/roleadmin/pkg/metrics"
)

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()

	m, err := database.NewManager(database.Database{
		Type:   database.DriverSQLite,
		SQLite: database.SQLiteConfig{Path: filepath.Join(t.TempDir(), "nested", "roleadmin.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	db := database.NewDatabaseAdapter(m)
	services := service.NewServices(db, cache.NewFastCache(cache.FastCacheConfig{}), repo.NewRepositories(db), metrics.NewRoleMetrics(), service.RoleConfig{})
	app := &App{Services: services}

	require.NoError(t, Migrate(ctx, app))
	first, err := services.Role.SelectDefaultRole(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, service.DefaultRoleName, first.Name)

	require.NoError(t, Migrate(ctx, app))
	second, err := services.Role.SelectDefaultRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.RoleId, second.RoleId)

	options, err := services.Role.RoleSelectUse(ctx)
	require.NoError(t, err)
	assert.Len(t, options, 1)
}
