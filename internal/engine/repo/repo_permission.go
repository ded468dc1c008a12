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

	"github.com/go-arcade/roleadmin/internal/engine/model"
	"github.com/go-arcade/roleadmin/pkg/database"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type IPermissionRepository interface {
	WithTx(tx *gorm.DB) IPermissionRepository

	CreatePermission(ctx context.Context, perm *model.Permission) error
	CountPermissions(ctx context.Context) (int64, error)
	ListPermissions(ctx context.Context) ([]model.Permission, error)
	// ExistingPermIds returns the subset of permIds present in the catalog
	ExistingPermIds(ctx context.Context, permIds []uint64) ([]uint64, error)

	GetRolePermIds(ctx context.Context, roleId uint64) ([]uint64, error)
	// GetRolePermIdsByType groups linked permission ids of the given type by role
	GetRolePermIdsByType(ctx context.Context, roleIds []uint64, permType int) (map[uint64][]uint64, error)
	AddRolePermissions(ctx context.Context, roleId uint64, permIds []uint64) error
	RemoveAllRolePermissions(ctx context.Context, roleId uint64) error
	// SetRolePermissions replaces the permission set of a role
	SetRolePermissions(ctx context.Context, roleId uint64, permIds []uint64) error
}

type PermissionRepo struct {
	database.IDatabase
}

func NewPermissionRepo(db database.IDatabase) IPermissionRepository {
	return &PermissionRepo{
		IDatabase: db,
	}
}

func (r *PermissionRepo) WithTx(tx *gorm.DB) IPermissionRepository {
	return &PermissionRepo{IDatabase: database.NewGormDB(tx)}
}

func (r *PermissionRepo) db(ctx context.Context) *gorm.DB {
	return r.Database().WithContext(ctx)
}

func (r *PermissionRepo) CreatePermission(ctx context.Context, perm *model.Permission) error {
	return errors.Wrap(r.db(ctx).Create(perm).Error, "create permission")
}

func (r *PermissionRepo) CountPermissions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db(ctx).Model(&model.Permission{}).Count(&count).Error
	return count, errors.Wrap(err, "count permissions")
}

func (r *PermissionRepo) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	err := r.db(ctx).Order("pid ASC, sort ASC, perm_id ASC").Find(&perms).Error
	return perms, errors.Wrap(err, "list permissions")
}

func (r *PermissionRepo) ExistingPermIds(ctx context.Context, permIds []uint64) ([]uint64, error) {
	existing := make([]uint64, 0, len(permIds))
	if len(permIds) == 0 {
		return existing, nil
	}
	err := r.db(ctx).Model(&model.Permission{}).
		Where("perm_id IN ?", permIds).
		Pluck("perm_id", &existing).Error
	return existing, errors.Wrap(err, "check permission ids")
}

func (r *PermissionRepo) GetRolePermIds(ctx context.Context, roleId uint64) ([]uint64, error) {
	permIds := make([]uint64, 0)
	err := r.db(ctx).Model(&model.RolePermission{}).
		Where("role_id = ?", roleId).
		Order("perm_id ASC").
		Pluck("perm_id", &permIds).Error
	return permIds, errors.Wrapf(err, "get permissions of role %d", roleId)
}

func (r *PermissionRepo) GetRolePermIdsByType(ctx context.Context, roleIds []uint64, permType int) (map[uint64][]uint64, error) {
	grouped := make(map[uint64][]uint64, len(roleIds))
	if len(roleIds) == 0 {
		return grouped, nil
	}

	var links []model.RolePermission
	err := r.db(ctx).Table("t_role_perm rp").
		Select("rp.role_id, rp.perm_id").
		Joins("JOIN t_perm p ON p.perm_id = rp.perm_id").
		Where("rp.role_id IN ? AND p.type = ?", roleIds, permType).
		Order("rp.role_id ASC, rp.perm_id ASC").
		Scan(&links).Error
	if err != nil {
		return nil, errors.Wrap(err, "get role permissions by type")
	}

	for _, link := range links {
		grouped[link.RoleId] = append(grouped[link.RoleId], link.PermId)
	}
	return grouped, nil
}

func (r *PermissionRepo) AddRolePermissions(ctx context.Context, roleId uint64, permIds []uint64) error {
	if len(permIds) == 0 {
		return nil
	}
	links := make([]model.RolePermission, 0, len(permIds))
	for _, permId := range permIds {
		links = append(links, model.RolePermission{RoleId: roleId, PermId: permId})
	}
	return errors.Wrapf(r.db(ctx).Create(&links).Error, "add permissions to role %d", roleId)
}

func (r *PermissionRepo) RemoveAllRolePermissions(ctx context.Context, roleId uint64) error {
	err := r.db(ctx).Where("role_id = ?", roleId).Delete(&model.RolePermission{}).Error
	return errors.Wrapf(err, "remove permissions of role %d", roleId)
}

// SetRolePermissions must run inside the caller's transaction so the
// delete and insert are observed together.
func (r *PermissionRepo) SetRolePermissions(ctx context.Context, roleId uint64, permIds []uint64) error {
	if err := r.RemoveAllRolePermissions(ctx, roleId); err != nil {
		return err
	}
	return r.AddRolePermissions(ctx, roleId, permIds)
}
