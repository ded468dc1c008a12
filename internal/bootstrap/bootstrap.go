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

package bootstrap

import (
	"context"

	"github.com/gofiber/fiber/v2"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/go-arcade/roleadmin/internal/engine/config"
	"github.com/go-arcade/roleadmin/internal/engine/model"
	"github.com/go-arcade/roleadmin/internal/engine/router"
	"github.com/go-arcade/roleadmin/internal/engine/service"
	"github.com/go-arcade/roleadmin/pkg/http"
	"github.com/go-arcade/roleadmin/pkg/log"
	"github.com/go-arcade/roleadmin/pkg/pprof"
	"github.com/go-arcade/roleadmin/pkg/safe"
	"github.com/go-arcade/roleadmin/pkg/shutdown"
)

type App struct {
	HttpApp  *fiber.App
	HttpConf *http.Http
	Logger   *zap.Logger
	Services *service.Services
	Pprof    *pprof.Server
	Tracer   *sdktrace.TracerProvider
	Shutdown *shutdown.Manager
	AppConf  *config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *zap.Logger,
	services *service.Services,
	pprofServer *pprof.Server,
	tp *sdktrace.TracerProvider,
	appConf *config.AppConfig,
) (*App, func(), error) {
	app := &App{
		HttpApp:  rt.Router(),
		HttpConf: rt.Http,
		Logger:   logger,
		Services: services,
		Pprof:    pprofServer,
		Tracer:   tp,
		Shutdown: rt.Shutdown,
		AppConf:  appConf,
	}

	cleanup := func() {
		_ = logger.Sync()
	}

	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Migrate creates the tables, seeds the permission catalog when it is empty
// and makes sure a default role exists.
func Migrate(ctx context.Context, app *App) error {
	catalog := app.Services.Catalog
	if err := catalog.Migrate(ctx); err != nil {
		return err
	}

	seeded, err := catalog.Seed(ctx, model.DefaultCatalog)
	if err != nil {
		return err
	}

	role, err := catalog.EnsureDefaultRole(ctx, service.DefaultRoleName, model.DefaultRolePermKeys)
	if err != nil {
		return err
	}

	log.Infow("migration finished",
		"seededPermissions", seeded,
		"defaultRoleId", role.RoleId,
		"defaultRole", role.Name,
	)
	return nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	stopSignals := app.Shutdown.NotifySignals()
	defer stopSignals()

	if err := app.Pprof.Start(); err != nil {
		log.Warnw("pprof server not started", "error", err)
	}

	// start HTTP server (async)
	safe.Go("http", func() {
		addr := app.HttpConf.Addr()
		log.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			log.Errorw("HTTP listener failed", "address", addr, zap.Error(err))
			app.Shutdown.Shutdown("listener failed")
		}
	})

	// wait for exit signal
	<-app.Shutdown.Wait()
	log.Infow("shutting down gracefully...", "reason", app.Shutdown.Reason())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), app.HttpConf.ShutdownTimeoutDuration())
	defer shutdownCancel()
	if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	} else {
		log.Info("HTTP server shut down gracefully")
	}

	if err := app.Pprof.Stop(shutdownCtx); err != nil {
		log.Warnw("pprof server shutdown error", "error", err)
	}

	// close database, cache and logger
	cleanup()

	log.Info("Server shutdown complete")
}
