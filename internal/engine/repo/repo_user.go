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

// IUserRepository is the part of the account directory the role manager
// depends on.
type IUserRepository interface {
	WithTx(tx *gorm.DB) IUserRepository

	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, userId uint64) (*model.User, error)
	CountUsersByRoleId(ctx context.Context, roleId uint64) (int64, error)
	// ReassignRole moves every user of fromRoleId to toRoleId and reports how
	// many rows moved. Running it twice moves nothing the second time.
	ReassignRole(ctx context.Context, fromRoleId, toRoleId uint64) (int64, error)
}

type UserRepo struct {
	database.IDatabase
}

func NewUserRepo(db database.IDatabase) IUserRepository {
	return &UserRepo{
		IDatabase: db,
	}
}

func (r *UserRepo) WithTx(tx *gorm.DB) IUserRepository {
	return &UserRepo{IDatabase: database.NewGormDB(tx)}
}

func (r *UserRepo) db(ctx context.Context) *gorm.DB {
	return r.Database().WithContext(ctx)
}

func (r *UserRepo) CreateUser(ctx context.Context, user *model.User) error {
	return errors.Wrap(r.db(ctx).Create(user).Error, "create user")
}

func (r *UserRepo) GetUser(ctx context.Context, userId uint64) (*model.User, error) {
	var user model.User
	err := r.db(ctx).Where("user_id = ?", userId).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get user %d", userId)
	}
	return &user, nil
}

func (r *UserRepo) CountUsersByRoleId(ctx context.Context, roleId uint64) (int64, error) {
	var count int64
	err := r.db(ctx).Model(&model.User{}).Where("role_id = ?", roleId).Count(&count).Error
	return count, errors.Wrapf(err, "count users of role %d", roleId)
}

func (r *UserRepo) ReassignRole(ctx context.Context, fromRoleId, toRoleId uint64) (int64, error) {
	result := r.db(ctx).Model(&model.User{}).
		Where("role_id = ?", fromRoleId).
		Update("role_id", toRoleId)
	if result.Error != nil {
		return 0, errors.Wrapf(result.Error, "reassign users from role %d to %d", fromRoleId, toRoleId)
	}
	return result.RowsAffected, nil
}
