// Package notefile читает заметки из файлов JSON и YAML.
package notefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"notekeeper/internal/notes/domain/entities"
)

// Format задает формат файла заметки.
type Format string

// Поддерживаемые форматы.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Ошибки разбора документа.
var (
	// ErrNotObject возвращается, если документ не является объектом.
	ErrNotObject = errors.New("note document must be an object")
	// ErrTrailingData возвращается, если после JSON-объекта есть что-то кроме пробелов.
	ErrTrailingData = errors.New("unexpected data after JSON note")
)

// Константы для сообщений об ошибках.
const (
	ErrReadFile   = "failed to read note file"
	ErrDecodeJSON = "failed to decode JSON note"
	ErrDecodeYAML = "failed to decode YAML note"
)

// FormatFromPath определяет формат по расширению. Все, что не .json, читается как YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Decode разбирает документ в сырой объект для валидации.
// Числа JSON сохраняются как json.Number.
func Decode(data []byte, format Format) (map[string]any, error) {
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber()

		var raw any
		if err := decoder.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrDecodeJSON, err)
		}
		if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", ErrDecodeJSON, ErrTrailingData)
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, ErrNotObject
		}
		return fields, nil
	default:
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrDecodeYAML, err)
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			return nil, ErrNotObject
		}
		return fields, nil
	}
}

// ValidateFile читает файл и проверяет его как NoteInput
// или, при record, как NoteRecord.
func ValidateFile(path string, record bool) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrReadFile, err)
	}

	raw, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}

	if record {
		return entities.ValidateRecord(raw)
	}
	return entities.ValidateInput(raw)
}
