package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arcade/roleadmin/internal/engine/consts"
	httpx "github.com/go-arcade/roleadmin/pkg/http"
	"github.com/go-arcade/roleadmin/pkg/log"
)

func newTestApp() *fiber.App {
	app := httpx.NewFiberApp(&httpx.Http{})
	app.Use(ExceptionMiddleware)
	app.Use(RequestMiddleware())
	app.Use(RealIPMiddleware())
	app.Use(AccessLogMiddleware(&httpx.Http{AccessLog: true}))
	app.Use(UnifiedResponseMiddleware())
	return app
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestRequestMiddleware(t *testing.T) {
	app := newTestApp()
	app.Get("/rid", func(c *fiber.Ctx) error {
		return c.SendString(log.RequestIdFrom(c.UserContext()))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/rid", nil)
	req.Header.Set(consts.HeaderRequestId, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "req-123", string(body))
	assert.Equal(t, "req-123", resp.Header.Get(consts.HeaderRequestId))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/rid", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(consts.HeaderRequestId), 36)

	// untrusted ids are replaced
	req = httptest.NewRequest(fiber.MethodGet, "/rid", nil)
	req.Header.Set(consts.HeaderRequestId, "bad id")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(consts.HeaderRequestId), 36)
}

func TestExceptionMiddleware(t *testing.T) {
	app := newTestApp()
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic(errors.New("boom"))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	out := decode(t, resp.Body)
	assert.Equal(t, float64(httpx.InternalError.Code), out["code"])
	assert.Equal(t, httpx.InternalError.Msg, out["errMsg"])
}

func TestUnifiedResponseMiddleware(t *testing.T) {
	app := newTestApp()
	app.Get("/detail", func(c *fiber.Ctx) error {
		c.Locals(consts.DETAIL, []string{"a", "b"})
		return nil
	})
	app.Post("/op", func(c *fiber.Ctx) error {
		c.Locals(consts.OPERATION, "")
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/detail", nil))
	require.NoError(t, err)
	out := decode(t, resp.Body)
	assert.Equal(t, float64(httpx.Success.Code), out["code"])
	assert.Equal(t, []any{"a", "b"}, out["detail"])

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/op", nil))
	require.NoError(t, err)
	out = decode(t, resp.Body)
	assert.Equal(t, httpx.Success.Msg, out["msg"])
	assert.NotContains(t, out, "detail")
}

func TestSkipAccessLog(t *testing.T) {
	assert.True(t, skipAccessLog("/health"))
	assert.True(t, skipAccessLog("/metrics"))
	assert.False(t, skipAccessLog("/api/v1/role/list"))
}
