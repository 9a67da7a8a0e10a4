// Package entities defines the domain entities for the notes service.
package entities

import (
	"encoding/json"
	"math"
	"strconv"
)

// Имена полей заметки во входных данных.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
)

// NoteInput содержит данные, присланные клиентом для создания или обновления заметки.
type NoteInput struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// NoteRecord представляет сохраненную заметку с идентификатором,
// назначенным хранилищем.
type NoteRecord struct {
	ID        int64 `json:"id" yaml:"id"`
	NoteInput `yaml:",inline"`
}

// NewNoteRecord собирает запись из входных данных и идентификатора.
func NewNoteRecord(id int64, input NoteInput) NoteRecord {
	return NoteRecord{ID: id, NoteInput: input}
}

// Input возвращает поля записи без идентификатора.
func (r NoteRecord) Input() NoteInput {
	return r.NoteInput
}

// ValidateInput проверяет сырые данные и возвращает NoteInput.
// Поля title и description обязательны и должны быть строками.
// Значения возвращаются без изменений, лишние ключи игнорируются.
func ValidateInput(raw map[string]any) (NoteInput, error) {
	var errs ValidationError

	input := validateInputFields(raw, &errs)
	if errs.HasErrors() {
		return NoteInput{}, &errs
	}

	return input, nil
}

// ValidateRecord проверяет сырые данные и возвращает NoteRecord.
// Помимо полей NoteInput требуется целочисленный id.
func ValidateRecord(raw map[string]any) (NoteRecord, error) {
	var errs ValidationError

	id, _ := requireInt(raw, FieldID, &errs)
	input := validateInputFields(raw, &errs)
	if errs.HasErrors() {
		return NoteRecord{}, &errs
	}

	return NewNoteRecord(id, input), nil
}

func validateInputFields(raw map[string]any, errs *ValidationError) NoteInput {
	title, _ := requireString(raw, FieldTitle, errs)
	description, _ := requireString(raw, FieldDescription, errs)

	return NoteInput{Title: title, Description: description}
}

func requireString(raw map[string]any, field string, errs *ValidationError) (string, bool) {
	value, present := raw[field]
	if !present {
		errs.add(field, ReasonMissing, MsgFieldRequired)
		return "", false
	}

	s, ok := value.(string)
	if !ok {
		errs.add(field, ReasonType, MsgNotString)
		return "", false
	}

	return s, true
}

func requireInt(raw map[string]any, field string, errs *ValidationError) (int64, bool) {
	value, present := raw[field]
	if !present {
		errs.add(field, ReasonMissing, MsgFieldRequired)
		return 0, false
	}

	n, ok := coerceInt(value)
	if !ok {
		errs.add(field, ReasonType, MsgNotInteger)
		return 0, false
	}

	return n, true
}

// coerceInt приводит значение к int64. Допускаются целые типы Go,
// числа с плавающей точкой без дробной части, json.Number и десятичные строки.
func coerceInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return uintToInt64(uint64(v))
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return uintToInt64(v)
	case float32:
		return floatToInt64(float64(v))
	case float64:
		return floatToInt64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func uintToInt64(v uint64) (int64, bool) {
	if v > math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
