package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/roleadmin/internal/engine/consts"
	httpx "github.com/go-arcade/roleadmin/pkg/http"
)

// UnifiedResponseMiddleware 统一响应拦截器
// c.Locals(consts.DETAIL, value) 用于设置响应数据
// c.Locals(consts.OPERATION, "") 用于只返回操作结果
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil
		}

		if detail := c.Locals(consts.DETAIL); detail != nil {
			return httpx.WithRepJSON(c, detail)
		}

		// 业务逻辑正确, 无响应数据, 只返回结果
		if c.Locals(consts.OPERATION) != nil {
			return httpx.WithRepNotDetail(c)
		}

		return nil
	}
}
