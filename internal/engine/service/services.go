package service

import (
	"github.com/go-arcade/roleadmin/internal/engine/repo"
	"github.com/go-arcade/roleadmin/pkg/cache"
	"github.com/go-arcade/roleadmin/pkg/database"
	"github.com/go-arcade/roleadmin/pkg/metrics"
)

// Services 统一管理所有 service
type Services struct {
	Role    *RoleService
	Catalog *CatalogService
}

// NewServices 初始化所有 service
func NewServices(
	db database.IDatabase,
	icache cache.ICache,
	repos *repo.Repositories,
	roleMetrics *metrics.RoleMetrics,
	roleConf RoleConfig,
) *Services {
	return &Services{
		Role:    NewRoleService(db, repos, icache, roleMetrics, roleConf),
		Catalog: NewCatalogService(db, repos),
	}
}
