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

// User is the slice of the account directory the role manager touches:
// the role reference of each account.
type User struct {
	UserId uint64 `gorm:"column:user_id;primaryKey;autoIncrement" json:"userId"`
	Email  string `gorm:"column:email;type:varchar(128);not null;uniqueIndex" json:"email"`
	RoleId uint64 `gorm:"column:role_id;not null;default:0;index" json:"roleId"`
	BaseModel
}

func (User) TableName() string {
	return "t_user"
}
