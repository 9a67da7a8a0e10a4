// Package api определяет входные порты сервиса заметок.
package api

import (
	"context"

	"notekeeper/internal/notes/domain/entities"
)

// NoteUseCase определяет основной порт для операций с заметками.
type NoteUseCase interface {
	CreateNote(ctx context.Context, input entities.NoteInput) (entities.NoteRecord, error)
	GetNote(ctx context.Context, id int64) (entities.NoteRecord, error)
	ListNotes(ctx context.Context, limit, offset int) ([]entities.NoteRecord, error)
	UpdateNote(ctx context.Context, id int64, input entities.NoteInput) (entities.NoteRecord, error)
	DeleteNote(ctx context.Context, id int64) (entities.NoteRecord, error)
}
