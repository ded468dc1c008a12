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

package http

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-arcade/roleadmin/pkg/bizerr"
	"github.com/go-arcade/roleadmin/pkg/i18n"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, BadRequest.Code, CodeOf(bizerr.Validation(bizerr.KeyNotEmail)))
	assert.Equal(t, Conflict.Code, CodeOf(bizerr.Conflict(bizerr.KeyRoleNameExist)))
	assert.Equal(t, NotFound.Code, CodeOf(bizerr.NotFound(bizerr.KeyNotExist)))
	assert.Equal(t, PolicyViolation.Code, CodeOf(bizerr.Policy(bizerr.KeyDelDefRole)))
	assert.Equal(t, InternalError.Code, CodeOf(errors.New("x")))
}

func TestErrorHandler(t *testing.T) {
	app := NewFiberApp(&Http{})
	app.Use(i18n.Middleware("en"))
	app.Get("/policy", func(c *fiber.Ctx) error {
		return bizerr.Policy(bizerr.KeyDelDefRole)
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return errors.New("driver: bad connection")
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.ErrMethodNotAllowed
	})

	tests := []struct {
		path   string
		lang   string
		status int
		code   int
		msg    string
	}{
		{"/policy", "en", fiber.StatusUnprocessableEntity, PolicyViolation.Code, "The default role cannot be deleted"},
		{"/policy", "zh-CN", fiber.StatusUnprocessableEntity, PolicyViolation.Code, "默认身份不能删除"},
		{"/plain", "en", fiber.StatusInternalServerError, InternalError.Code, InternalError.Msg},
		{"/fiber", "en", fiber.StatusMethodNotAllowed, fiber.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.path+"_"+tt.lang, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			req.Header.Set(fiber.HeaderAcceptLanguage, tt.lang)
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var out ResponseErr
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.code, out.ErrCode)
			assert.Equal(t, tt.msg, out.ErrMsg)
			assert.Equal(t, tt.path, out.Path)
		})
	}
}

func TestHttp_SetDefaults(t *testing.T) {
	h := Http{Port: 9000}
	h.SetDefaults()

	assert.Equal(t, "0.0.0.0:9000", h.Addr())
	assert.Equal(t, "/api/v1", h.ContextPath)
	assert.Equal(t, 10, h.ShutdownTimeout)
}
