// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

// Ключи значений в ctx.Locals.
const (
	LocalUserContext = "userContext"
	LocalSubject     = "subject"
)

// HeaderRequestID содержит идентификатор запроса.
const HeaderRequestID = "X-Request-ID"

// RequestContext возвращает контекст запроса, подготовленный middleware.
func RequestContext(ctx fiber.Ctx) context.Context {
	if userCtx, ok := ctx.Locals(LocalUserContext).(context.Context); ok {
		return userCtx
	}
	return ctx.Context()
}
