// Package services defines service interfaces for the notes service.
package services

import (
	"context"
	"errors"
)

// TokenService проверяет access-токены и возвращает идентификатор субъекта.
type TokenService interface {
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}

// JWTErrors содержит ошибки, связанные с JWT токенами.
var (
	ErrInvalidJWTToken = errors.New("invalid JWT token")
	ErrExpiredJWTToken = errors.New("JWT token has expired")
)
