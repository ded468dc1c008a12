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

import "github.com/go-arcade/roleadmin/pkg/util"

const (
	RoleDefaultOff = 0
	RoleDefaultOn  = 1
)

// send quota modes
const (
	SendTypeCount = "count" // 总数限制
	SendTypeDay   = "day"   // 每日限制
)

type Role struct {
	RoleId      uint64 `gorm:"column:role_id;primaryKey;autoIncrement" json:"roleId"`
	Name        string `gorm:"column:name;type:varchar(64);not null;uniqueIndex:uk_role_name" json:"name"`
	Description string `gorm:"column:description;type:varchar(255)" json:"description"`
	Sort        int    `gorm:"column:sort;not null;default:0" json:"sort"`
	IsDefault   int    `gorm:"column:is_default;not null;default:0;index" json:"isDefault"` // 0: normal, 1: default role
	SendType    string `gorm:"column:send_type;type:varchar(16);not null;default:count" json:"sendType"`
	SendCount   int    `gorm:"column:send_count;not null;default:0" json:"sendCount"`
	BanEmail    string `gorm:"column:ban_email;type:text" json:"banEmail"`      // comma-joined
	UserId      uint64 `gorm:"column:user_id;not null;default:0" json:"userId"` // creator
	BaseModel
}

func (Role) TableName() string {
	return "t_role"
}

func (r *Role) BanEmails() []string {
	return util.SplitList(r.BanEmail)
}

type AddRoleReq struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sort        int      `json:"sort"`
	SendType    string   `json:"sendType"`
	SendCount   int      `json:"sendCount"`
	BanEmail    []string `json:"banEmail"`
	PermIds     []uint64 `json:"permIds"`
}

// SetRoleReq replaces a role's attributes and its permission set.
// Nil pointer fields are left unchanged. IsDefault is accepted for
// compatibility with clients that echo the whole role back, but is never applied.
type SetRoleReq struct {
	RoleId      uint64   `json:"roleId"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Sort        *int     `json:"sort,omitempty"`
	SendType    *string  `json:"sendType,omitempty"`
	SendCount   *int     `json:"sendCount,omitempty"`
	BanEmail    []string `json:"banEmail"`
	PermIds     []uint64 `json:"permIds"`
	IsDefault   *int     `json:"isDefault,omitempty"`
}

// RoleView is a role as listed to administrators.
type RoleView struct {
	Role
	BanEmail []string `json:"banEmail"`
	PermIds  []uint64 `json:"permIds"`
}

// RoleOption is the minimal projection used by role pickers.
type RoleOption struct {
	RoleId uint64 `gorm:"column:role_id" json:"roleId"`
	Name   string `gorm:"column:name" json:"name"`
}

// RoleQuota is the send policy of a role that holds a given permission.
type RoleQuota struct {
	RoleId    uint64 `gorm:"column:role_id" json:"roleId"`
	SendType  string `gorm:"column:send_type" json:"sendType"`
	SendCount int    `gorm:"column:send_count" json:"sendCount"`
}
