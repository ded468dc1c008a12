package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/roleadmin/internal/engine/consts"
	"github.com/go-arcade/roleadmin/pkg/id"
	"github.com/go-arcade/roleadmin/pkg/log"
)

// RequestMiddleware set request id
func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestId := c.Get(consts.HeaderRequestId)
		if !id.ValidRequestId(requestId) {
			requestId = id.NewRequestId()
		}
		c.Set(consts.HeaderRequestId, requestId)
		c.Locals(consts.LocalsRequestId, requestId)
		c.SetUserContext(log.ContextWithRequestId(c.UserContext(), requestId))
		return c.Next()
	}
}
