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

package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/roleadmin/internal/engine/consts"
	"github.com/go-arcade/roleadmin/pkg/http"
	"github.com/go-arcade/roleadmin/pkg/log"
)

// tips: 这里的路径是不需要记录日志的路径，url为端口后的全部路径
var excludedPaths = []string{
	"/health",
	"/metrics",
}

func AccessLogMiddleware(httpConfig *http.Http) fiber.Handler {
	if httpConfig != nil && !httpConfig.AccessLog {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		if skipAccessLog(c.Path()) {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		ip, _ := c.Locals(consts.LocalsIP).(string)
		if ip == "" {
			ip = c.IP()
		}
		log.WithContext(c.UserContext()).Infow("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"query", string(c.Request().URI().QueryString()),
			"status", c.Response().StatusCode(),
			"ip", ip,
			"user_agent", c.Get(fiber.HeaderUserAgent),
			"latency", time.Since(start).String(),
		)
		return err
	}
}

func skipAccessLog(path string) bool {
	for _, rule := range excludedPaths {
		if before, ok := strings.CutSuffix(rule, "/*"); ok {
			if strings.HasPrefix(path, before) {
				return true
			}
		} else if path == rule {
			return true
		}
	}
	return false
}
