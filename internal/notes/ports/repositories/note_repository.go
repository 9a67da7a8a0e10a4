// Package repositories defines repository interfaces for the notes service.
package repositories

import (
	"context"
	"errors"

	"notekeeper/internal/notes/domain/entities"
)

// ErrNoteNotFound возвращается Update и Delete, когда заметки нет.
var ErrNoteNotFound = errors.New("note not found")

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
// Идентификаторы записей назначает хранилище.
type NoteRepository interface {
	Create(ctx context.Context, input entities.NoteInput) (entities.NoteRecord, error)
	GetByID(ctx context.Context, id int64) (*entities.NoteRecord, error)
	List(ctx context.Context, limit, offset int) ([]entities.NoteRecord, error)
	Update(ctx context.Context, id int64, input entities.NoteInput) (entities.NoteRecord, error)
	Delete(ctx context.Context, id int64) (entities.NoteRecord, error)
}
