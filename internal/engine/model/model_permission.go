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

package model

const (
	PermTypeMenu   = 1 // 菜单
	PermTypeButton = 2 // 按钮
)

const (
	// ========== 邮件权限 ==========
	PermEmailSend   = "email:send"   // 发送邮件
	PermEmailDelete = "email:delete" // 删除邮件

	// ========== 邮箱账号权限 ==========
	PermAccountQuery  = "account:query"  // 查看邮箱
	PermAccountAdd    = "account:add"    // 添加邮箱
	PermAccountDelete = "account:delete" // 删除邮箱

	// ========== 用户权限 ==========
	PermUserQuery   = "user:query"    // 查看用户
	PermUserAdd     = "user:add"      // 添加用户
	PermUserSetType = "user:set-type" // 修改用户角色
	PermUserDelete  = "user:delete"   // 删除用户

	// ========== 角色权限 ==========
	PermRoleQuery  = "role:query"  // 查看角色
	PermRoleSet    = "role:set"    // 新增/修改角色
	PermRoleDelete = "role:delete" // 删除角色
)

// Permission is a catalog entry. Menus group buttons through Pid.
type Permission struct {
	PermId  uint64 `gorm:"column:perm_id;primaryKey;autoIncrement" json:"permId"`
	Name    string `gorm:"column:name;type:varchar(64);not null" json:"name"`
	PermKey string `gorm:"column:perm_key;type:varchar(64);index" json:"permKey"`
	Pid     uint64 `gorm:"column:pid;not null;default:0" json:"pid"`
	Type    int    `gorm:"column:type;not null" json:"type"` // 1: menu, 2: button
	Sort    int    `gorm:"column:sort;not null;default:0" json:"sort"`
}

func (Permission) TableName() string {
	return "t_perm"
}

type PermissionSeed struct {
	Name    string
	PermKey string
	Buttons []PermissionSeed
}

// DefaultCatalog is written by the migrate command on an empty catalog.
var DefaultCatalog = []PermissionSeed{
	{Name: "邮件", Buttons: []PermissionSeed{
		{Name: "发送邮件", PermKey: PermEmailSend},
		{Name: "删除邮件", PermKey: PermEmailDelete},
	}},
	{Name: "邮箱", Buttons: []PermissionSeed{
		{Name: "查看邮箱", PermKey: PermAccountQuery},
		{Name: "添加邮箱", PermKey: PermAccountAdd},
		{Name: "删除邮箱", PermKey: PermAccountDelete},
	}},
	{Name: "用户", Buttons: []PermissionSeed{
		{Name: "查看用户", PermKey: PermUserQuery},
		{Name: "添加用户", PermKey: PermUserAdd},
		{Name: "修改用户角色", PermKey: PermUserSetType},
		{Name: "删除用户", PermKey: PermUserDelete},
	}},
	{Name: "角色", Buttons: []PermissionSeed{
		{Name: "查看角色", PermKey: PermRoleQuery},
		{Name: "新增修改角色", PermKey: PermRoleSet},
		{Name: "删除角色", PermKey: PermRoleDelete},
	}},
}

// DefaultRolePermKeys are granted to the role created when no default role exists.
var DefaultRolePermKeys = []string{
	PermEmailSend,
	PermEmailDelete,
	PermAccountQuery,
	PermAccountAdd,
	PermAccountDelete,
}
