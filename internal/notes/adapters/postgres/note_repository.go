// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// PgxPoolInterface описывает часть pgxpool.Pool, используемую репозиторием.
// Ему удовлетворяют *pgxpool.Pool и pgxmock.PgxPoolIface.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
}

// ErrNoteNotFound возвращается Update и Delete, когда заметки нет.
var ErrNoteNotFound = repositories.ErrNoteNotFound

// SQL-запросы репозитория.
const (
	queryCreate  = `INSERT INTO notes (title, description) VALUES ($1, $2) RETURNING id`
	queryGetByID = `SELECT id, title, description FROM notes WHERE id = $1`
	queryList    = `SELECT id, title, description FROM notes ORDER BY id ASC LIMIT $1 OFFSET $2`
	queryUpdate  = `UPDATE notes SET title = $1, description = $2 WHERE id = $3 RETURNING id, title, description`
	queryDelete  = `DELETE FROM notes WHERE id = $1 RETURNING id, title, description`
)

// NoteRepository реализует интерфейс repositories.NoteRepository.
type NoteRepository struct {
	pool PgxPoolInterface
}

// NewNoteRepository создает новый репозиторий заметок.
func NewNoteRepository(pool PgxPoolInterface) repositories.NoteRepository {
	return &NoteRepository{pool: pool}
}

// Create сохраняет новую заметку и возвращает ее с назначенным id.
func (r *NoteRepository) Create(ctx context.Context, input entities.NoteInput) (entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Create"))
	log.Debug(ctx, "creating new note")

	var id int64
	if err := r.pool.QueryRow(ctx, queryCreate, input.Title, input.Description).Scan(&id); err != nil {
		log.Error(ctx, "failed to create note", zap.Error(err))
		return entities.NoteRecord{}, fmt.Errorf("failed to create note: %w", err)
	}

	log.Debug(ctx, "note created", zap.Int64("noteID", id))
	return entities.NewNoteRecord(id, input), nil
}

// GetByID получает заметку по id. Отсутствующая заметка дает nil без ошибки.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.GetByID"))
	log.Debug(ctx, "getting note", zap.Int64("noteID", id))

	var note entities.NoteRecord
	err := r.pool.QueryRow(ctx, queryGetByID, id).Scan(&note.ID, &note.Title, &note.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", id))
			return nil, nil
		}
		log.Error(ctx, "failed to get note", zap.Error(err))
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return &note, nil
}

// List возвращает страницу заметок, упорядоченных по id.
func (r *NoteRepository) List(ctx context.Context, limit, offset int) ([]entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.List"))
	log.Debug(ctx, "listing notes", zap.Int("limit", limit), zap.Int("offset", offset))

	rows, err := r.pool.Query(ctx, queryList, limit, offset)
	if err != nil {
		log.Error(ctx, "failed to list notes", zap.Error(err))
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]entities.NoteRecord, 0)
	for rows.Next() {
		var note entities.NoteRecord
		if err := rows.Scan(&note.ID, &note.Title, &note.Description); err != nil {
			log.Error(ctx, "failed to scan note", zap.Error(err))
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return notes, nil
}

// Update полностью заменяет поля заметки.
func (r *NoteRepository) Update(ctx context.Context, id int64, input entities.NoteInput) (entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Update"))
	log.Debug(ctx, "updating note", zap.Int64("noteID", id))

	return r.returning(ctx, log, "update", queryUpdate, input.Title, input.Description, id)
}

// Delete удаляет заметку и возвращает ее последнее состояние.
func (r *NoteRepository) Delete(ctx context.Context, id int64) (entities.NoteRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteRepository.Delete"))
	log.Debug(ctx, "deleting note", zap.Int64("noteID", id))

	return r.returning(ctx, log, "delete", queryDelete, id)
}

func (r *NoteRepository) returning(
	ctx context.Context,
	log *logger.Logger,
	op, query string,
	args ...interface{},
) (entities.NoteRecord, error) {
	var note entities.NoteRecord
	err := r.pool.QueryRow(ctx, query, args...).Scan(&note.ID, &note.Title, &note.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found")
			return entities.NoteRecord{}, ErrNoteNotFound
		}
		log.Error(ctx, "failed to "+op+" note", zap.Error(err))
		return entities.NoteRecord{}, fmt.Errorf("failed to %s note: %w", op, err)
	}

	return note, nil
}
