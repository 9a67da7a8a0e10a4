// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notekeeper/internal/notes/adapters/http/middleware"
	"notekeeper/internal/notes/app"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/api"
	"notekeeper/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"

	ErrMsgNoteNotFound   = "Note not found"
	ErrMsgInternalServer = "Internal Server Error"
)

// Места, к которым относятся ошибки валидации в ответе.
const (
	LocBody  = "body"
	LocPath  = "path"
	LocQuery = "query"
)

const paramID = "id"

// ErrorDetail описывает одну ошибку валидации в ответе 422.
type ErrorDetail struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	useCase api.NoteUseCase
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(useCase api.NoteUseCase) *Handler {
	return &Handler{
		useCase: useCase,
	}
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(requestCtx, LogHandlerCreateNote)

	input, err := decodeInput(ctx.Body())
	if err != nil {
		return handleError(ctx, LocBody, err)
	}

	record, err := h.useCase.CreateNote(requestCtx, input)
	if err != nil {
		log.Error(requestCtx, "failed to create note", zap.Error(err))
		return handleError(ctx, LocBody, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(record)
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(requestCtx, LogHandlerGetNote)

	id, err := parseID(ctx)
	if err != nil {
		return handleError(ctx, LocPath, err)
	}

	record, err := h.useCase.GetNote(requestCtx, id)
	if err != nil {
		return handleError(ctx, LocPath, err)
	}

	return ctx.JSON(record)
}

// ListNotes обрабатывает запрос на получение списка заметок с пагинацией.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(requestCtx, LogHandlerListNotes)

	var errs []ErrorDetail
	limit, ok := queryInt(ctx, "limit", app.DefaultListLimit)
	if !ok {
		errs = append(errs, integerDetail(LocQuery, "limit"))
	}
	offset, ok := queryInt(ctx, "offset", 0)
	if !ok {
		errs = append(errs, integerDetail(LocQuery, "offset"))
	}
	if len(errs) > 0 {
		return unprocessable(ctx, errs)
	}

	notes, err := h.useCase.ListNotes(requestCtx, limit, offset)
	if err != nil {
		log.Error(requestCtx, "failed to list notes", zap.Error(err))
		return handleError(ctx, LocQuery, err)
	}

	return ctx.JSON(notes)
}

// UpdateNote обрабатывает запрос на замену полей заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(requestCtx, LogHandlerUpdateNote)

	id, err := parseID(ctx)
	if err != nil {
		return handleError(ctx, LocPath, err)
	}

	input, err := decodeInput(ctx.Body())
	if err != nil {
		return handleError(ctx, LocBody, err)
	}

	record, err := h.useCase.UpdateNote(requestCtx, id, input)
	if err != nil {
		return handleError(ctx, LocPath, err)
	}

	return ctx.JSON(record)
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(requestCtx, LogHandlerDeleteNote)

	id, err := parseID(ctx)
	if err != nil {
		return handleError(ctx, LocPath, err)
	}

	record, err := h.useCase.DeleteNote(requestCtx, id)
	if err != nil {
		return handleError(ctx, LocPath, err)
	}

	return ctx.JSON(record)
}

// decodeInput разбирает тело запроса с сохранением чисел как json.Number
// и передает получившийся объект в ValidateInput.
func decodeInput(body []byte) (entities.NoteInput, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return entities.NoteInput{}, entities.NewValidationError(LocBody, entities.ReasonType, entities.MsgInvalidBody)
	}
	// После объекта допускаются только пробельные символы.
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return entities.NoteInput{}, entities.NewValidationError(LocBody, entities.ReasonType, entities.MsgInvalidBody)
	}

	fields, ok := raw.(map[string]any)
	if !ok {
		return entities.NoteInput{}, entities.NewValidationError(LocBody, entities.ReasonType, entities.MsgInvalidBody)
	}

	return entities.ValidateInput(fields)
}

func parseID(ctx fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params(paramID), 10, 64)
	if err != nil {
		return 0, entities.NewValidationError(entities.FieldID, entities.ReasonType, entities.MsgNotInteger)
	}
	return id, nil
}

func queryInt(ctx fiber.Ctx, key string, defaultValue int) (int, bool) {
	value := ctx.Query(key)
	if value == "" {
		return defaultValue, true
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}

func integerDetail(loc, field string) ErrorDetail {
	return ErrorDetail{
		Loc:  []string{loc, field},
		Msg:  entities.MsgNotInteger,
		Type: string(entities.ReasonType),
	}
}

// handleError переводит ошибки бизнес-логики в HTTP-ответы.
// loc указывает, к какой части запроса относятся ошибки валидации.
func handleError(ctx fiber.Ctx, loc string, err error) error {
	var vErr *entities.ValidationError
	switch {
	case errors.As(err, &vErr):
		return unprocessable(ctx, toDetails(loc, vErr))
	case errors.Is(err, app.ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": ErrMsgNoteNotFound,
		})
	default:
		if sendErr := ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"detail": ErrMsgInternalServer,
		}); sendErr != nil {
			return fmt.Errorf("error sending response: %w", sendErr)
		}
		return nil
	}
}

func toDetails(loc string, vErr *entities.ValidationError) []ErrorDetail {
	details := make([]ErrorDetail, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		path := []string{loc}
		if f.Field != loc {
			path = append(path, f.Field)
		}
		details = append(details, ErrorDetail{
			Loc:  path,
			Msg:  f.Message,
			Type: string(f.Reason),
		})
	}
	return details
}

func unprocessable(ctx fiber.Ctx, details []ErrorDetail) error {
	return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"detail": details,
	})
}
