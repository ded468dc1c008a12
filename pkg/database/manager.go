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
	"os"
	"path/filepath"
	"time"

	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/go-arcade/roleadmin/pkg/trace/inject"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

type Manager interface {
	// DB returns the primary connection
	DB() *gorm.DB

	// Close closes all database connections
	Close() error
}

type managerImpl struct {
	db *gorm.DB
}

func (m *managerImpl) DB() *gorm.DB {
	return m.db
}

func (m *managerImpl) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", m.db.Dialector.Name(), err)
	}
	return nil
}

func NewManager(cfg Database) (Manager, error) {
	db, err := newConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", cfg.driver(), err)
	}
	if err := inject.RegisterGormPlugin(db, cfg.TraceSQL); err != nil {
		return nil, fmt.Errorf("failed to register trace plugin: %w", err)
	}
	log.Infow("database connected successfully", "driver", cfg.driver())
	return &managerImpl{db: db}, nil
}

func newGormConfig(cfg Database) *gorm.Config {
	logConfig := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Info,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	}

	var gormLogger gormlogger.Interface
	if cfg.OutPut {
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Info)
	} else {
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Error)
	}

	return &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
		// surfaces unique index violations as gorm.ErrDuplicatedKey
		TranslateError: true,
	}
}

func newConnection(cfg Database) (*gorm.DB, error) {
	dsn, err := cfg.dsn()
	if err != nil {
		return nil, err
	}
	open, err := Dialector(cfg.driver())
	if err != nil {
		return nil, err
	}
	if cfg.driver() == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
	}

	db, err := gorm.Open(open(dsn), newGormConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}

	if cfg.driver() == DriverMySQL {
		if err := useResolver(db, cfg); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if cfg.driver() == DriverSQLite {
		// single writer
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime))
	sqlDB.SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime))

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func useResolver(db *gorm.DB, cfg Database) error {
	hasPrimary := len(cfg.MySQL.Primary) > 0
	hasReplicas := len(cfg.MySQL.Replicas) > 0
	if !hasPrimary && !hasReplicas {
		return nil
	}

	resolverConfig := dbresolver.Config{
		TraceResolverMode: cfg.OutPut,
	}

	if hasPrimary {
		primaryDialectors, err := buildDialectors(cfg.MySQL.Primary)
		if err != nil {
			return fmt.Errorf("failed to build primary dialectors: %w", err)
		}
		resolverConfig.Sources = primaryDialectors
	}

	if hasReplicas {
		replicasDialectors, err := buildDialectors(cfg.MySQL.Replicas)
		if err != nil {
			return fmt.Errorf("failed to build replicas dialectors: %w", err)
		}
		resolverConfig.Replicas = replicasDialectors
	}

	err := db.Use(dbresolver.Register(resolverConfig).
		SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime)).
		SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime)).
		SetMaxIdleConns(cfg.MaxIdleConns).
		SetMaxOpenConns(cfg.MaxOpenConns))
	if err != nil {
		return fmt.Errorf("failed to register DBResolver plugin: %w", err)
	}

	log.Info("MySQL DBResolver registered (read-write separation enabled)")
	return nil
}
