package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

// entityPtr lets PgStore call the Entity methods declared on *T.
type entityPtr[T any] interface {
	*T
	models.Entity
}

// PgStore is the PostgreSQL implementation of interfaces.Store for any entity
// that describes its own table layout.
type PgStore[T any, PT entityPtr[T]] struct {
	table      string
	columns    []string
	selectCols string
	logger     *zap.Logger
}

var _ interfaces.Store[models.StoryNode] = (*PgStore[models.StoryNode, *models.StoryNode])(nil)

// NewPgStore builds a store for T.
func NewPgStore[T any, PT entityPtr[T]](logger *zap.Logger) *PgStore[T, PT] {
	var zero T
	shape := PT(&zero)
	cols := shape.Columns()
	return &PgStore[T, PT]{
		table:      shape.TableName(),
		columns:    cols,
		selectCols: "id, " + strings.Join(cols, ", "),
		logger:     logger.Named("PgStore").With(zap.String("table", shape.TableName())),
	}
}

// Get returns models.ErrNotFound when no record has the id.
func (s *PgStore[T, PT]) Get(ctx context.Context, querier interfaces.DBTX, id int64) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, s.selectCols, s.table)

	var out T
	if err := pgxscan.Get(ctx, querier, &out, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s %d", models.ErrNotFound, s.table, id)
		}
		s.logger.Error("Failed to get record", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("get %s %d: %w", s.table, id, err)
	}
	return &out, nil
}

// List returns all records ordered by id.
func (s *PgStore[T, PT]) List(ctx context.Context, querier interfaces.DBTX) ([]T, error) {
	return s.selectWhere(ctx, querier, "", "id")
}

// Exists reports whether a record with the id is present.
func (s *PgStore[T, PT]) Exists(ctx context.Context, querier interfaces.DBTX, id int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, s.table)

	var exists bool
	if err := querier.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s %d exists: %w", s.table, id, err)
	}
	return exists, nil
}

// Create inserts entity and sets its generated id.
func (s *PgStore[T, PT]) Create(ctx context.Context, querier interfaces.DBTX, entity *T) (*T, error) {
	e := PT(entity)
	placeholders := make([]string, len(s.columns))
	for i := range s.columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING id`,
		s.table, strings.Join(s.columns, ", "), strings.Join(placeholders, ", "))

	var id int64
	if err := querier.QueryRow(ctx, query, e.Values()...).Scan(&id); err != nil {
		s.logger.Error("Failed to insert record", zap.Error(err))
		return nil, fmt.Errorf("insert %s: %w", s.table, err)
	}
	e.SetID(id)
	s.logger.Debug("Record created", zap.Int64("id", id))
	return entity, nil
}

// Update overwrites every mutable column of the record with entity's id.
func (s *PgStore[T, PT]) Update(ctx context.Context, querier interfaces.DBTX, entity *T) (*T, error) {
	e := PT(entity)
	assignments := make([]string, len(s.columns))
	for i, col := range s.columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+2)
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, s.table, strings.Join(assignments, ", "))

	args := append([]any{e.GetID()}, e.Values()...)
	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		s.logger.Error("Failed to update record", zap.Int64("id", e.GetID()), zap.Error(err))
		return nil, fmt.Errorf("update %s %d: %w", s.table, e.GetID(), err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: %s %d", models.ErrNotFound, s.table, e.GetID())
	}
	return entity, nil
}

// Delete removes the record and returns it. A missing record yields nil, nil.
func (s *PgStore[T, PT]) Delete(ctx context.Context, querier interfaces.DBTX, id int64) (*T, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 RETURNING %s`, s.table, s.selectCols)

	var out T
	if err := pgxscan.Get(ctx, querier, &out, query, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug("Nothing to delete", zap.Int64("id", id))
			return nil, nil
		}
		s.logger.Error("Failed to delete record", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("delete %s %d: %w", s.table, id, err)
	}
	return &out, nil
}

// selectWhere lists records matching an optional WHERE clause.
func (s *PgStore[T, PT]) selectWhere(ctx context.Context, querier interfaces.DBTX, where, orderBy string, args ...any) ([]T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s`, s.selectCols, s.table)
	if where != "" {
		query += " WHERE " + where
	}
	if orderBy != "" {
		query += " ORDER BY " + orderBy
	}

	out := make([]T, 0)
	if err := pgxscan.Select(ctx, querier, &out, query, args...); err != nil {
		s.logger.Error("Failed to list records", zap.String("where", where), zap.Error(err))
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	return out, nil
}
