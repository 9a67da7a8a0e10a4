package logger

import (
	"context"

	"github.com/google/uuid"
)

// MaxRequestIDLength ограничивает длину идентификатора, пришедшего от клиента.
const MaxRequestIDLength = 128

type requestIDKey struct{}

// NewRequestIDContext кладет идентификатор запроса в контекст.
// Пустой или недопустимый идентификатор заменяется новым UUID.
func NewRequestIDContext(ctx context.Context, requestID string) context.Context {
	if !ValidRequestID(requestID) {
		requestID = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID извлекает идентификатор запроса из контекста.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// ValidRequestID допускает непустые строки до MaxRequestIDLength
// из букв, цифр и символов "-", "_", ".", ":".
func ValidRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
