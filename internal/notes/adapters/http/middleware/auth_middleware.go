package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/ports/services"
	"notekeeper/pkg/logger"
)

// Константы для логирования.
const (
	LogAuthMiddleware = "auth middleware"

	ErrorNoAuthHeader       = "no authorization header provided"
	ErrorInvalidTokenFormat = "invalid token format"
	ErrorInvalidToken       = "invalid token"
	ErrorExpiredToken       = "token has expired"
)

const bearerPrefix = "Bearer "

type subjectKey struct{}

// SubjectFromContext возвращает субъект токена, сохраненный NewAuthMiddleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok
}

// NewAuthMiddleware проверяет bearer-токен в заголовке Authorization.
func NewAuthMiddleware(tokenService services.TokenService) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := RequestContext(ctx)
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))
		log.Debug(requestCtx, LogAuthMiddleware)

		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			log.Debug(requestCtx, ErrorNoAuthHeader)
			return unauthorized(ctx, ErrorNoAuthHeader)
		}

		token, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || token == "" {
			log.Debug(requestCtx, ErrorInvalidTokenFormat)
			return unauthorized(ctx, ErrorInvalidTokenFormat)
		}

		subject, err := tokenService.ValidateAccessToken(requestCtx, token)
		if err != nil {
			if errors.Is(err, services.ErrExpiredJWTToken) {
				return unauthorized(ctx, ErrorExpiredToken)
			}
			return unauthorized(ctx, ErrorInvalidToken)
		}

		requestCtx = context.WithValue(requestCtx, subjectKey{}, subject)
		ctx.Locals(LocalUserContext, requestCtx)
		ctx.Locals(LocalSubject, subject)

		return ctx.Next()
	}
}

func unauthorized(ctx fiber.Ctx, detail string) error {
	ctx.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"detail": detail,
	})
}
