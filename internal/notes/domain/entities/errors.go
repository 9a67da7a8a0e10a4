package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation позволяет распознать ValidationError через errors.Is.
var ErrValidation = errors.New("validation error")

// Reason описывает причину отказа по отдельному полю.
type Reason string

// Причины ошибок валидации.
const (
	ReasonMissing Reason = "missing"
	ReasonType    Reason = "type"
	ReasonValue   Reason = "value"
)

// Тексты ошибок по полям.
const (
	MsgFieldRequired = "field required"
	MsgNotString     = "must be a string"
	MsgNotInteger    = "must be an integer"
	MsgNotPositive   = "must be greater than 0"
	MsgInvalidBody   = "must be a JSON object"
)

// FieldError описывает ошибку одного поля.
type FieldError struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("field %q %s", e.Field, e.Message)
}

// ValidationError перечисляет все поля, не прошедшие проверку,
// в порядке их объявления.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError создает ошибку валидации для одного поля.
func NewValidationError(field string, reason Reason, message string) *ValidationError {
	e := &ValidationError{}
	e.add(field, reason, message)
	return e
}

func (e *ValidationError) add(field string, reason Reason, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason, Message: message})
}

// HasErrors сообщает, есть ли хотя бы одна ошибка.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Field возвращает ошибку для поля, если она есть.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.String())
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
