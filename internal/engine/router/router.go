package router

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/roleadmin/internal/engine/service"
	httpx "github.com/go-arcade/roleadmin/pkg/http"
	"github.com/go-arcade/roleadmin/pkg/http/middleware"
	"github.com/go-arcade/roleadmin/pkg/i18n"
	"github.com/go-arcade/roleadmin/pkg/metrics"
	"github.com/go-arcade/roleadmin/pkg/shutdown"
	"github.com/go-arcade/roleadmin/pkg/trace/inject"
	"github.com/go-arcade/roleadmin/pkg/version"
)

// Router wires the admin API onto the fiber app.
type Router struct {
	Http     *httpx.Http
	App      *fiber.App
	Services *service.Services
	Metrics  *metrics.Metrics
	Shutdown *shutdown.Manager
}

func NewRouter(
	httpConf *httpx.Http,
	app *fiber.App,
	services *service.Services,
	m *metrics.Metrics,
	sm *shutdown.Manager,
) *Router {
	return &Router{
		Http:     httpConf,
		App:      app,
		Services: services,
		Metrics:  m,
		Shutdown: sm,
	}
}

func (rt *Router) Router() *fiber.App {
	r := rt.App

	// panic recover
	r.Use(middleware.ExceptionMiddleware)

	r.Use(middleware.RequestMiddleware())
	r.Use(middleware.RealIPMiddleware())
	r.Use(inject.FiberMiddleware())
	r.Use(middleware.CorsMiddleware())
	r.Use(i18n.Middleware(rt.Http.DefaultLang))
	r.Use(middleware.AccessLogMiddleware(rt.Http))

	if rt.Metrics != nil && rt.Metrics.Enabled() {
		r.Get(rt.Metrics.Path(), rt.Metrics.Handler())
	}

	r.Get("/health", func(c *fiber.Ctx) error {
		// fail readiness while draining
		if rt.Shutdown != nil && rt.Shutdown.IsShuttingDown() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}
		return c.SendString("ok")
	})

	r.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	// admin api
	api := r.Group(rt.Http.ContextPath, middleware.UnifiedResponseMiddleware())
	rt.roleRouter(api)

	return r
}

// badRequest answers 400 with the localized badRequest message.
func badRequest(c *fiber.Ctx) error {
	c.Status(fiber.StatusBadRequest)
	return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, i18n.Message(c, "badRequest"), c.Path())
}

func parseUint(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
