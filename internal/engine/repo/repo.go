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
	"github.com/go-arcade/roleadmin/pkg/database"
	"gorm.io/gorm"
)

type Repositories struct {
	Role       IRoleRepository
	Permission IPermissionRepository
	User       IUserRepository
}

func NewRepositories(db database.IDatabase) *Repositories {
	return &Repositories{
		Role:       NewRoleRepo(db),
		Permission: NewPermissionRepo(db),
		User:       NewUserRepo(db),
	}
}

// WithTx binds every repository to the same transaction handle.
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	return &Repositories{
		Role:       r.Role.WithTx(tx),
		Permission: r.Permission.WithTx(tx),
		User:       r.User.WithTx(tx),
	}
}
