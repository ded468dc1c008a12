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
	"time"

	"gorm.io/gorm"
)

const (
	dataTablePrefix = "t_"
)

type DatabaseSourceConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	// Primary and Replicas for DBResolver support
	// If Primary is empty, use Host/Port/User/Password/DBName as the default source
	// If Replicas is empty, no read-write separation will be configured
	Primary  []DatabaseSourceConfig `mapstructure:"primary"`
	Replicas []DatabaseSourceConfig `mapstructure:"replicas"`
}

type SQLiteConfig struct {
	// Path of the database file, e.g. ./data/roleadmin.db
	Path string `mapstructure:"path"`
}

type Database struct {
	// Type selects the registered driver: mysql or sqlite
	Type         string `mapstructure:"type"`
	OutPut       bool   `mapstructure:"output"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
	MaxIdleConns int    `mapstructure:"maxIdleConns"`
	MaxLifetime  int    `mapstructure:"maxLifeTime"`
	MaxIdleTime  int    `mapstructure:"maxIdleTime"`
	// TraceSQL records the rendered statement on database spans
	TraceSQL bool `mapstructure:"traceSQL"`

	MySQL  MySQLConfig  `mapstructure:"mysql"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

func (d Database) driver() string {
	if d.Type == "" {
		return DriverMySQL
	}
	return d.Type
}

func (d Database) dsn() (string, error) {
	switch d.driver() {
	case DriverMySQL:
		m := d.MySQL
		if m.Host == "" || m.User == "" || m.DBName == "" {
			return "", fmt.Errorf("incomplete mysql config: host, user, and dbname are required")
		}
		port := m.Port
		if port == "" {
			port = "3306"
		}
		return buildMySQLDSN(m.User, m.Password, m.Host, port, m.DBName), nil
	case DriverSQLite:
		if d.SQLite.Path == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		return d.SQLite.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", d.Type)
	}
}

func GetConnMaxLifetime(maxLifetime int) time.Duration {
	if maxLifetime > 0 {
		return time.Duration(maxLifetime) * time.Second
	}
	return 300 * time.Second // Default 5 minutes
}

func GetConnMaxIdleTime(maxIdleTime int) time.Duration {
	if maxIdleTime > 0 {
		return time.Duration(maxIdleTime) * time.Second
	}
	return 60 * time.Second // Default 1 minute
}

func buildMySQLDSN(user, password, host, port, db string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, db)
}

func buildDialectors(configs []DatabaseSourceConfig) ([]gorm.Dialector, error) {
	if len(configs) == 0 {
		return nil, nil
	}
	dialectors := make([]gorm.Dialector, 0, len(configs))
	for _, c := range configs {
		if c.Host == "" || c.User == "" || c.DBName == "" {
			return nil, fmt.Errorf("incomplete database source config: host, user, and dbname are required")
		}
		port := c.Port
		if port == "" {
			port = "3306"
		}
		open, err := Dialector(DriverMySQL)
		if err != nil {
			return nil, err
		}
		dialectors = append(dialectors, open(buildMySQLDSN(c.User, c.Password, c.Host, port, c.DBName)))
	}
	return dialectors, nil
}
