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
	"gorm.io/gorm/clause"
)

type IRoleRepository interface {
	WithTx(tx *gorm.DB) IRoleRepository

	CreateRole(ctx context.Context, role *model.Role) error
	// FindRoleById returns nil when the role does not exist
	FindRoleById(ctx context.Context, roleId uint64) (*model.Role, error)
	FindRoleByName(ctx context.Context, name string) (*model.Role, error)
	FindDefaultRole(ctx context.Context) (*model.Role, error)
	FindRoleByUserId(ctx context.Context, userId uint64) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	ListRoleOptions(ctx context.Context) ([]model.RoleOption, error)
	ListQuotaByPermKey(ctx context.Context, roleIds []uint64, permKey string) ([]model.RoleQuota, error)
	ListRoleIdsByPermKeyAndSendType(ctx context.Context, permKey, sendType string) ([]uint64, error)
	UpdateRole(ctx context.Context, roleId uint64, updates map[string]any) error
	ClearDefault(ctx context.Context) error
	MarkDefault(ctx context.Context, roleId uint64) (int64, error)
	DeleteRole(ctx context.Context, roleId uint64) error
	// LockRoles takes row locks on the role table where the store supports them
	LockRoles(ctx context.Context) error
}

type RoleRepo struct {
	database.IDatabase
}

func NewRoleRepo(db database.IDatabase) IRoleRepository {
	return &RoleRepo{
		IDatabase: db,
	}
}

func (r *RoleRepo) WithTx(tx *gorm.DB) IRoleRepository {
	return &RoleRepo{IDatabase: database.NewGormDB(tx)}
}

func (r *RoleRepo) db(ctx context.Context) *gorm.DB {
	return r.Database().WithContext(ctx)
}

func (r *RoleRepo) CreateRole(ctx context.Context, role *model.Role) error {
	if err := r.db(ctx).Create(role).Error; err != nil {
		return errors.Wrap(err, "create role")
	}
	return nil
}

func (r *RoleRepo) findOne(tx *gorm.DB) (*model.Role, error) {
	var role model.Role
	err := tx.Take(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *RoleRepo) FindRoleById(ctx context.Context, roleId uint64) (*model.Role, error) {
	role, err := r.findOne(r.db(ctx).Where("role_id = ?", roleId))
	return role, errors.Wrapf(err, "find role %d", roleId)
}

func (r *RoleRepo) FindRoleByName(ctx context.Context, name string) (*model.Role, error) {
	role, err := r.findOne(r.db(ctx).Where("name = ?", name))
	return role, errors.Wrap(err, "find role by name")
}

func (r *RoleRepo) FindDefaultRole(ctx context.Context) (*model.Role, error) {
	role, err := r.findOne(r.db(ctx).Where("is_default = ?", model.RoleDefaultOn).Order("role_id ASC"))
	return role, errors.Wrap(err, "find default role")
}

func (r *RoleRepo) FindRoleByUserId(ctx context.Context, userId uint64) (*model.Role, error) {
	var roles []model.Role
	err := r.db(ctx).Table("t_user u").
		Select("r.*").
		Joins("JOIN t_role r ON r.role_id = u.role_id").
		Where("u.user_id = ?", userId).
		Limit(1).
		Find(&roles).Error
	if err != nil {
		return nil, errors.Wrapf(err, "find role of user %d", userId)
	}
	if len(roles) == 0 {
		return nil, nil
	}
	return &roles[0], nil
}

func (r *RoleRepo) ListRoles(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := r.db(ctx).Order("sort ASC, role_id ASC").Find(&roles).Error; err != nil {
		return nil, errors.Wrap(err, "list roles")
	}
	return roles, nil
}

func (r *RoleRepo) ListRoleOptions(ctx context.Context) ([]model.RoleOption, error) {
	options := make([]model.RoleOption, 0)
	err := r.db(ctx).Model(&model.Role{}).
		Select("role_id", "name").
		Order("sort ASC, role_id ASC").
		Find(&options).Error
	if err != nil {
		return nil, errors.Wrap(err, "list role options")
	}
	return options, nil
}

func (r *RoleRepo) ListQuotaByPermKey(ctx context.Context, roleIds []uint64, permKey string) ([]model.RoleQuota, error) {
	quotas := make([]model.RoleQuota, 0)
	if len(roleIds) == 0 {
		return quotas, nil
	}
	err := database.ReadDB(r.db(ctx)).Table("t_perm p").
		Select("r.role_id, r.send_type, r.send_count").
		Joins("JOIN t_role_perm rp ON rp.perm_id = p.perm_id").
		Joins("JOIN t_role r ON r.role_id = rp.role_id").
		Where("p.perm_key = ? AND r.role_id IN ?", permKey, roleIds).
		Order("r.role_id ASC").
		Scan(&quotas).Error
	if err != nil {
		return nil, errors.Wrap(err, "list quota by perm key")
	}
	return quotas, nil
}

func (r *RoleRepo) ListRoleIdsByPermKeyAndSendType(ctx context.Context, permKey, sendType string) ([]uint64, error) {
	roleIds := make([]uint64, 0)
	err := database.ReadDB(r.db(ctx)).Table("t_perm p").
		Joins("JOIN t_role_perm rp ON rp.perm_id = p.perm_id").
		Joins("JOIN t_role r ON r.role_id = rp.role_id").
		Where("p.perm_key = ? AND r.send_type = ?", permKey, sendType).
		Order("r.role_id ASC").
		Pluck("r.role_id", &roleIds).Error
	if err != nil {
		return nil, errors.Wrap(err, "list role ids by perm key and send type")
	}
	return roleIds, nil
}

func (r *RoleRepo) UpdateRole(ctx context.Context, roleId uint64, updates map[string]any) error {
	err := r.db(ctx).Model(&model.Role{}).Where("role_id = ?", roleId).Updates(updates).Error
	return errors.Wrapf(err, "update role %d", roleId)
}

func (r *RoleRepo) ClearDefault(ctx context.Context) error {
	err := r.db(ctx).Model(&model.Role{}).
		Where("is_default <> ?", model.RoleDefaultOff).
		Update("is_default", model.RoleDefaultOff).Error
	return errors.Wrap(err, "clear default role")
}

func (r *RoleRepo) MarkDefault(ctx context.Context, roleId uint64) (int64, error) {
	result := r.db(ctx).Model(&model.Role{}).
		Where("role_id = ?", roleId).
		Update("is_default", model.RoleDefaultOn)
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "mark role %d default", roleId)
	}
	return result.RowsAffected, nil
}

func (r *RoleRepo) DeleteRole(ctx context.Context, roleId uint64) error {
	err := r.db(ctx).Where("role_id = ?", roleId).Delete(&model.Role{}).Error
	return errors.Wrapf(err, "delete role %d", roleId)
}

func (r *RoleRepo) LockRoles(ctx context.Context) error {
	db := r.db(ctx)
	if db.Dialector.Name() != database.DriverMySQL {
		return nil
	}
	var ids []uint64
	err := db.Model(&model.Role{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("role_id", &ids).Error
	return errors.Wrap(err, "lock roles")
}
