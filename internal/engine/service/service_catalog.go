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

package service

import (
	"context"
	"slices"

	"gorm.io/gorm"

	"github.com/go-arcade/roleadmin/internal/engine/model"
	"github.com/go-arcade/roleadmin/internal/engine/repo"
	"github.com/go-arcade/roleadmin/pkg/database"
	"github.com/go-arcade/roleadmin/pkg/log"
)

const DefaultRoleName = "普通用户"

// CatalogService writes the permission catalog and the initial default role.
// It only runs from the migrate command.
type CatalogService struct {
	db    database.IDatabase
	repos *repo.Repositories
}

func NewCatalogService(db database.IDatabase, repos *repo.Repositories) *CatalogService {
	return &CatalogService{db: db, repos: repos}
}

// Migrate creates or updates the registered tables.
func (cs *CatalogService) Migrate(ctx context.Context) error {
	return database.AutoMigrate(cs.db.Database().WithContext(ctx))
}

// Seed writes seeds into an empty catalog and reports how many permissions
// were created. A non-empty catalog is left alone.
func (cs *CatalogService) Seed(ctx context.Context, seeds []model.PermissionSeed) (int, error) {
	count, err := cs.repos.Permission.CountPermissions(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Infow("permission catalog already seeded", "count", count)
		return 0, nil
	}

	created := 0
	err = cs.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		perms := cs.repos.Permission.WithTx(tx)
		for i, menu := range seeds {
			parent := &model.Permission{Name: menu.Name, PermKey: menu.PermKey, Type: model.PermTypeMenu, Sort: i}
			if err := perms.CreatePermission(ctx, parent); err != nil {
				return err
			}
			created++
			for j, button := range menu.Buttons {
				child := &model.Permission{
					Name:    button.Name,
					PermKey: button.PermKey,
					Pid:     parent.PermId,
					Type:    model.PermTypeButton,
					Sort:    j,
				}
				if err := perms.CreatePermission(ctx, child); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Infow("permission catalog seeded", "count", created)
	return created, nil
}

// EnsureDefaultRole creates a default role holding permKeys when no role is
// marked default. The existing default role is returned otherwise.
func (cs *CatalogService) EnsureDefaultRole(ctx context.Context, name string, permKeys []string) (*model.Role, error) {
	if def, err := cs.repos.Role.FindDefaultRole(ctx); err != nil || def != nil {
		return def, err
	}

	perms, err := cs.repos.Permission.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	permIds := make([]uint64, 0, len(permKeys))
	for _, perm := range perms {
		if slices.Contains(permKeys, perm.PermKey) {
			permIds = append(permIds, perm.PermId)
		}
	}

	role := &model.Role{
		Name:      name,
		IsDefault: model.RoleDefaultOn,
		SendType:  model.SendTypeCount,
	}
	err = cs.db.Database().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := cs.repos.WithTx(tx)
		existing, err := repos.Role.FindRoleByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			// promote the role that already carries the name
			role = existing
			if err := repos.Role.ClearDefault(ctx); err != nil {
				return err
			}
			_, err = repos.Role.MarkDefault(ctx, existing.RoleId)
			role.IsDefault = model.RoleDefaultOn
			return err
		}
		if err := repos.Role.CreateRole(ctx, role); err != nil {
			return err
		}
		return repos.Permission.AddRolePermissions(ctx, role.RoleId, permIds)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("default role ensured", "roleId", role.RoleId, "name", role.Name)
	return role, nil
}
