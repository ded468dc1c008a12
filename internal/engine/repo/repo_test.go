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

package repo

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/go-arcade/roleadmin/internal/engine/model"
	"github.com/go-arcade/roleadmin/pkg/database"
)

func newTestRepos(t *testing.T) (*Repositories, database.IDatabase) {
	t.Helper()
	m, err := database.NewManager(database.Database{
		Type:   database.DriverSQLite,
		SQLite: database.SQLiteConfig{Path: filepath.Join(t.TempDir(), "repo.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	require.NoError(t, database.AutoMigrate(m.DB()))

	db := database.NewDatabaseAdapter(m)
	return NewRepositories(db), db
}

func createPerm(t *testing.T, repos *Repositories, key string, typ int) uint64 {
	t.Helper()
	p := &model.Permission{Name: key, PermKey: key, Type: typ}
	require.NoError(t, repos.Permission.CreatePermission(context.Background(), p))
	return p.PermId
}

func TestRoleRepo_FindReturnsNilWhenAbsent(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	role, err := repos.Role.FindRoleById(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, role)

	role, err = repos.Role.FindRoleByName(ctx, "x")
	assert.NoError(t, err)
	assert.Nil(t, role)

	role, err = repos.Role.FindDefaultRole(ctx)
	assert.NoError(t, err)
	assert.Nil(t, role)

	role, err = repos.Role.FindRoleByUserId(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, role)
}

func TestRoleRepo_DefaultFlag(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	a := &model.Role{Name: "a", IsDefault: model.RoleDefaultOn}
	b := &model.Role{Name: "b"}
	require.NoError(t, repos.Role.CreateRole(ctx, a))
	require.NoError(t, repos.Role.CreateRole(ctx, b))

	require.NoError(t, repos.Role.ClearDefault(ctx))
	rows, err := repos.Role.MarkDefault(ctx, b.RoleId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	def, err := repos.Role.FindDefaultRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, b.RoleId, def.RoleId)

	rows, err = repos.Role.MarkDefault(ctx, 9999)
	require.NoError(t, err)
	assert.Zero(t, rows)

	// no-op outside mysql
	assert.NoError(t, repos.Role.LockRoles(ctx))
}

func TestRoleRepo_DuplicateName(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Role.CreateRole(ctx, &model.Role{Name: "dup"}))
	err := repos.Role.CreateRole(ctx, &model.Role{Name: "dup"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPermissionRepo_RolePermissions(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	menu := createPerm(t, repos, "menu", model.PermTypeMenu)
	b1 := createPerm(t, repos, "b1", model.PermTypeButton)
	b2 := createPerm(t, repos, "b2", model.PermTypeButton)

	existing, err := repos.Permission.ExistingPermIds(ctx, []uint64{menu, b1, 9999})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{menu, b1}, existing)

	r1 := &model.Role{Name: "r1"}
	r2 := &model.Role{Name: "r2"}
	require.NoError(t, repos.Role.CreateRole(ctx, r1))
	require.NoError(t, repos.Role.CreateRole(ctx, r2))

	require.NoError(t, repos.Permission.AddRolePermissions(ctx, r1.RoleId, []uint64{menu, b1}))
	require.NoError(t, repos.Permission.AddRolePermissions(ctx, r2.RoleId, []uint64{b2}))

	grouped, err := repos.Permission.GetRolePermIdsByType(ctx, []uint64{r1.RoleId, r2.RoleId}, model.PermTypeButton)
	require.NoError(t, err)
	assert.Equal(t, map[uint64][]uint64{r1.RoleId: {b1}, r2.RoleId: {b2}}, grouped)

	require.NoError(t, repos.Permission.SetRolePermissions(ctx, r1.RoleId, []uint64{b2}))
	ids, err := repos.Permission.GetRolePermIds(ctx, r1.RoleId)
	require.NoError(t, err)
	assert.Equal(t, []uint64{b2}, ids)

	require.NoError(t, repos.Permission.SetRolePermissions(ctx, r1.RoleId, nil))
	ids, err = repos.Permission.GetRolePermIds(ctx, r1.RoleId)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRoleRepo_QuotaQueries(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	send := createPerm(t, repos, model.PermEmailSend, model.PermTypeButton)
	r1 := &model.Role{Name: "r1", SendType: model.SendTypeCount, SendCount: 3}
	r2 := &model.Role{Name: "r2", SendType: model.SendTypeDay, SendCount: 7}
	require.NoError(t, repos.Role.CreateRole(ctx, r1))
	require.NoError(t, repos.Role.CreateRole(ctx, r2))
	require.NoError(t, repos.Permission.AddRolePermissions(ctx, r1.RoleId, []uint64{send}))
	require.NoError(t, repos.Permission.AddRolePermissions(ctx, r2.RoleId, []uint64{send}))

	quotas, err := repos.Role.ListQuotaByPermKey(ctx, []uint64{r2.RoleId}, model.PermEmailSend)
	require.NoError(t, err)
	assert.Equal(t, []model.RoleQuota{{RoleId: r2.RoleId, SendType: model.SendTypeDay, SendCount: 7}}, quotas)

	quotas, err = repos.Role.ListQuotaByPermKey(ctx, nil, model.PermEmailSend)
	require.NoError(t, err)
	assert.Empty(t, quotas)

	ids, err := repos.Role.ListRoleIdsByPermKeyAndSendType(ctx, model.PermEmailSend, model.SendTypeCount)
	require.NoError(t, err)
	assert.Equal(t, []uint64{r1.RoleId}, ids)
}

func TestUserRepo_ReassignRoleIsIdempotent(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	from := &model.Role{Name: "from"}
	to := &model.Role{Name: "to"}
	require.NoError(t, repos.Role.CreateRole(ctx, from))
	require.NoError(t, repos.Role.CreateRole(ctx, to))
	require.NoError(t, repos.User.CreateUser(ctx, &model.User{Email: "a@x.com", RoleId: from.RoleId}))
	require.NoError(t, repos.User.CreateUser(ctx, &model.User{Email: "b@x.com", RoleId: from.RoleId}))

	moved, err := repos.User.ReassignRole(ctx, from.RoleId, to.RoleId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	moved, err = repos.User.ReassignRole(ctx, from.RoleId, to.RoleId)
	require.NoError(t, err)
	assert.Zero(t, moved)

	n, err := repos.User.CountUsersByRoleId(ctx, to.RoleId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUserRepo_GetUser(t *testing.T) {
	repos, _ := newTestRepos(t)
	ctx := context.Background()

	role := &model.Role{Name: "member"}
	require.NoError(t, repos.Role.CreateRole(ctx, role))
	user := &model.User{Email: "a@x.com", RoleId: role.RoleId}
	require.NoError(t, repos.User.CreateUser(ctx, user))

	got, err := repos.User.GetUser(ctx, user.UserId)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.com", got.Email)

	missing, err := repos.User.GetUser(ctx, user.UserId+100)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositories_WithTxRollsBack(t *testing.T) {
	repos, db := newTestRepos(t)
	ctx := context.Background()

	err := db.Database().Transaction(func(tx *gorm.DB) error {
		txRepos := repos.WithTx(tx)
		if err := txRepos.Role.CreateRole(ctx, &model.Role{Name: "temp"}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	role, err := repos.Role.FindRoleByName(ctx, "temp")
	require.NoError(t, err)
	assert.Nil(t, role)
}
