//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/go-arcade/roleadmin/internal/bootstrap"
	"github.com/go-arcade/roleadmin/internal/engine/config"
	"github.com/go-arcade/roleadmin/internal/engine/repo"
	"github.com/go-arcade/roleadmin/internal/engine/router"
	"github.com/go-arcade/roleadmin/internal/engine/service"
	"github.com/go-arcade/roleadmin/pkg/cache"
	"github.com/go-arcade/roleadmin/pkg/database"
	"github.com/go-arcade/roleadmin/pkg/http"
	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/go-arcade/roleadmin/pkg/metrics"
	"github.com/go-arcade/roleadmin/pkg/pprof"
	"github.com/go-arcade/roleadmin/pkg/shutdown"
	"github.com/go-arcade/roleadmin/pkg/trace"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		// 日志
		log.ProviderSet,
		// 链路追踪
		trace.ProviderSet,
		// 存储层
		database.ProviderSet,
		cache.ProviderSet,
		// 指标
		metrics.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 路由层
		http.ProviderSet,
		router.ProviderSet,
		shutdown.ProviderSet,
		// 调试
		pprof.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}
