package middleware

import (
	"github.com/gofiber/fiber/v3"

	"notekeeper/pkg/logger"
)

// NewRequestIDMiddleware берет идентификатор из X-Request-ID или генерирует новый
// и возвращает его в ответе.
func NewRequestIDMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := logger.NewRequestIDContext(ctx.Context(), ctx.Get(HeaderRequestID))
		requestID, _ := logger.GetRequestID(requestCtx)

		ctx.Locals(LocalUserContext, requestCtx)
		ctx.Set(HeaderRequestID, requestID)

		return ctx.Next()
	}
}
