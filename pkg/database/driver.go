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

package database

import (
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DialectorFunc func(dsn string) gorm.Dialector

var (
	driversMu sync.RWMutex
	drivers   = map[string]DialectorFunc{}
)

func init() {
	Register(DriverMySQL, mysql.Open)
	Register(DriverSQLite, sqlite.Open)
}

// Register makes a gorm dialector available under name.
func Register(name string, open DialectorFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	drivers[name] = open
}

func Dialector(name string) (DialectorFunc, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	open, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", name)
	}
	return open, nil
}
