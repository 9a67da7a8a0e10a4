// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/cache"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound = errors.New("note not found")
)

// Ограничения пагинации.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

const cacheKeyPrefix = "notes:"

// deletedMarker хранится в кэше вместо удаленной заметки до истечения TTL,
// чтобы параллельное чтение не вернуло в кэш старую запись.
const deletedMarker = "deleted"

// Сообщения логов.
const (
	msgCacheReadFailed   = "failed to read note from cache"
	msgCacheWriteFailed  = "failed to write note to cache"
	msgCacheDropFailed   = "failed to invalidate cached note"
	msgCacheDecodeFailed = "cached note is corrupted"
	msgCacheHit          = "note served from cache"
	msgNoteCreated       = "note created"
	msgNoteUpdated       = "note updated"
	msgNoteDeleted       = "note deleted"
)

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	noteRepo repositories.NoteRepository
	cache    cache.Cache
	cacheTTL time.Duration
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository, noteCache cache.Cache, cacheTTL time.Duration) *NoteUseCase {
	return &NoteUseCase{
		noteRepo: noteRepo,
		cache:    noteCache,
		cacheTTL: cacheTTL,
	}
}

// CacheKey возвращает ключ кэша для заметки.
func CacheKey(id int64) string {
	return cacheKeyPrefix + strconv.FormatInt(id, 10)
}

// CreateNote сохраняет заметку и возвращает ее с назначенным идентификатором.
func (uc *NoteUseCase) CreateNote(ctx context.Context, input entities.NoteInput) (entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.CreateNote"))

	record, err := uc.noteRepo.Create(ctx, input)
	if err != nil {
		return entities.NoteRecord{}, fmt.Errorf("failed to create note: %w", err)
	}

	log.Info(ctx, msgNoteCreated, zap.Int64("note_id", record.ID))
	return record, nil
}

// GetNote возвращает заметку по ID, сначала проверяя кэш.
func (uc *NoteUseCase) GetNote(ctx context.Context, id int64) (entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.GetNote"), zap.Int64("note_id", id))

	if err := validateID(id); err != nil {
		return entities.NoteRecord{}, err
	}

	if record, ok := uc.fromCache(ctx, id); ok {
		log.Debug(ctx, msgCacheHit)
		return record, nil
	}

	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return entities.NoteRecord{}, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return entities.NoteRecord{}, ErrNotFound
	}

	uc.fillCache(ctx, *note)
	return *note, nil
}

// ListNotes возвращает заметки в порядке возрастания ID.
func (uc *NoteUseCase) ListNotes(ctx context.Context, limit, offset int) ([]entities.NoteRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	notes, err := uc.noteRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, nil
}

// UpdateNote полностью заменяет поля заметки.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, id int64, input entities.NoteInput) (entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.UpdateNote"), zap.Int64("note_id", id))

	if err := validateID(id); err != nil {
		return entities.NoteRecord{}, err
	}

	record, err := uc.noteRepo.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return entities.NoteRecord{}, ErrNotFound
		}
		return entities.NoteRecord{}, fmt.Errorf("failed to update note: %w", err)
	}

	uc.storeCache(ctx, id, encodeRecord(record))
	log.Info(ctx, msgNoteUpdated)
	return record, nil
}

// DeleteNote удаляет заметку и возвращает ее последнее состояние.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, id int64) (entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteUseCase.DeleteNote"), zap.Int64("note_id", id))

	if err := validateID(id); err != nil {
		return entities.NoteRecord{}, err
	}

	record, err := uc.noteRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNoteNotFound) {
			return entities.NoteRecord{}, ErrNotFound
		}
		return entities.NoteRecord{}, fmt.Errorf("failed to delete note: %w", err)
	}

	uc.storeCache(ctx, id, deletedMarker)
	log.Info(ctx, msgNoteDeleted)
	return record, nil
}

func validateID(id int64) error {
	if id <= 0 {
		return entities.NewValidationError(entities.FieldID, entities.ReasonValue, entities.MsgNotPositive)
	}
	return nil
}

// Ошибки кэша только логируются: источником истины остается репозиторий.
func (uc *NoteUseCase) fromCache(ctx context.Context, id int64) (entities.NoteRecord, bool) {
	log := logger.Log(ctx).With(zap.Int64("note_id", id))

	data, err := uc.cache.Get(ctx, CacheKey(id))
	if err != nil {
		log.Warn(ctx, msgCacheReadFailed, zap.Error(err))
		return entities.NoteRecord{}, false
	}
	if data == "" || data == deletedMarker {
		return entities.NoteRecord{}, false
	}

	var record entities.NoteRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		log.Warn(ctx, msgCacheDecodeFailed, zap.Error(err))
		return entities.NoteRecord{}, false
	}

	return record, true
}

func encodeRecord(record entities.NoteRecord) string {
	data, _ := json.Marshal(record)
	return string(data)
}

// fillCache кладет прочитанную из репозитория запись, только если ключ свободен:
// запись, сделанная Update или Delete, не перетирается устаревшими данными.
func (uc *NoteUseCase) fillCache(ctx context.Context, record entities.NoteRecord) {
	if _, err := uc.cache.SetIfAbsent(ctx, CacheKey(record.ID), encodeRecord(record), uc.cacheTTL); err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheWriteFailed, zap.Int64("note_id", record.ID), zap.Error(err))
	}
}

// storeCache перезаписывает значение после изменения заметки.
// Если запись не удалась, ключ удаляется.
func (uc *NoteUseCase) storeCache(ctx context.Context, id int64, value string) {
	if err := uc.cache.Set(ctx, CacheKey(id), value, uc.cacheTTL); err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheWriteFailed, zap.Int64("note_id", id), zap.Error(err))
		uc.invalidate(ctx, id)
	}
}

func (uc *NoteUseCase) invalidate(ctx context.Context, id int64) {
	if err := uc.cache.Delete(ctx, CacheKey(id)); err != nil {
		logger.Log(ctx).Warn(ctx, msgCacheDropFailed, zap.Int64("note_id", id), zap.Error(err))
	}
}
