package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/go-arcade/roleadmin/pkg/bizerr"
	"github.com/go-arcade/roleadmin/pkg/i18n"
	"github.com/go-arcade/roleadmin/pkg/log"
)

type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

func (e ResponseErr) Error() string {
	if msg, ok := e.ErrMsg.(string); ok {
		return msg
	}
	return InternalError.Msg
}

// WithRepErrMsg 返回操作结果，返回结构体有path字段
func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithBizErr 将业务错误映射为 HTTP 状态码，并按请求语言返回本地化信息
func WithBizErr(c *fiber.Ctx, err error) error {
	status := bizerr.StatusCode(err)
	msg := InternalError.Msg
	if key := bizerr.KeyOf(err); key != "" {
		msg = i18n.Message(c, key)
	}
	if status >= fiber.StatusInternalServerError {
		log.WithContext(c.UserContext()).Errorw("request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(ResponseErr{
		ErrCode: CodeOf(err),
		ErrMsg:  msg,
		Path:    c.Path(),
	})
}

// ErrorHandler renders errors returned from handlers
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(ResponseErr{
			ErrCode: fe.Code,
			ErrMsg:  fe.Message,
			Path:    c.Path(),
		})
	}
	var re ResponseErr
	if errors.As(err, &re) {
		return c.Status(fiber.StatusBadRequest).JSON(ResponseErr{
			ErrCode: re.ErrCode,
			ErrMsg:  re.ErrMsg,
			Path:    c.Path(),
		})
	}
	return WithBizErr(c, err)
}
