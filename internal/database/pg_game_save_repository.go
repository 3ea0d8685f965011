package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

const (
	gameSaveFields = `id, user_id, save_name, current_story_node_id, created_at, updated_at`

	insertGameSaveQuery = `
        INSERT INTO game_saves (user_id, save_name, current_story_node_id)
        VALUES ($1, $2, $3)
        RETURNING ` + gameSaveFields
	getGameSaveByIDQuery = `
        SELECT ` + gameSaveFields + `
        FROM game_saves
        WHERE id = $1`
	getLatestGameSaveByUserQuery = `
        SELECT ` + gameSaveFields + `
        FROM game_saves
        WHERE user_id = $1
        ORDER BY updated_at DESC, id DESC
        LIMIT 1`
	listGameSavesByUserQuery = `
        SELECT ` + gameSaveFields + `
        FROM game_saves
        WHERE user_id = $1
        ORDER BY updated_at DESC, id DESC`
	updateGameSavePositionQuery = `
        UPDATE game_saves SET
            current_story_node_id = $2,
            updated_at = clock_timestamp()
        WHERE id = $1
        RETURNING ` + gameSaveFields
	deleteGameSaveQuery       = `DELETE FROM game_saves WHERE id = $1 RETURNING ` + gameSaveFields
	countGameSavesAtNodeQuery = `SELECT COUNT(*) FROM game_saves WHERE current_story_node_id = $1`

	forUpdate = ` FOR UPDATE`
)

var _ interfaces.GameSaveRepository = (*pgGameSaveRepository)(nil)

type pgGameSaveRepository struct {
	logger *zap.Logger
}

// NewPgGameSaveRepository creates the game save repository.
func NewPgGameSaveRepository(logger *zap.Logger) interfaces.GameSaveRepository {
	return &pgGameSaveRepository{logger: logger.Named("PgGameSaveRepo")}
}

func (r *pgGameSaveRepository) Create(ctx context.Context, querier interfaces.DBTX, save *models.GameSave) (*models.GameSave, error) {
	log := r.logger.With(zap.Int64("userID", save.UserID), zap.Int64("nodeID", save.CurrentStoryNodeID))

	var created models.GameSave
	err := pgxscan.Get(ctx, querier, &created, insertGameSaveQuery, save.UserID, save.SaveName, save.CurrentStoryNodeID)
	if err != nil {
		log.Error("Failed to insert game save", zap.Error(err))
		return nil, fmt.Errorf("insert game save: %w", err)
	}
	log.Info("Game save created", zap.Int64("saveID", created.ID))
	return &created, nil
}

func (r *pgGameSaveRepository) GetByID(ctx context.Context, querier interfaces.DBTX, saveID int64) (*models.GameSave, error) {
	return r.getOne(ctx, querier, getGameSaveByIDQuery, saveID)
}

func (r *pgGameSaveRepository) GetByIDForUpdate(ctx context.Context, querier interfaces.DBTX, saveID int64) (*models.GameSave, error) {
	return r.getOne(ctx, querier, getGameSaveByIDQuery+forUpdate, saveID)
}

func (r *pgGameSaveRepository) GetLatestByUser(ctx context.Context, querier interfaces.DBTX, userID int64) (*models.GameSave, error) {
	return r.getOne(ctx, querier, getLatestGameSaveByUserQuery, userID)
}

func (r *pgGameSaveRepository) GetLatestByUserForUpdate(ctx context.Context, querier interfaces.DBTX, userID int64) (*models.GameSave, error) {
	return r.getOne(ctx, querier, getLatestGameSaveByUserQuery+forUpdate, userID)
}

func (r *pgGameSaveRepository) ListByUser(ctx context.Context, querier interfaces.DBTX, userID int64) ([]models.GameSave, error) {
	saves := make([]models.GameSave, 0)
	if err := pgxscan.Select(ctx, querier, &saves, listGameSavesByUserQuery, userID); err != nil {
		r.logger.Error("Failed to list game saves", zap.Int64("userID", userID), zap.Error(err))
		return nil, fmt.Errorf("list game saves for user %d: %w", userID, err)
	}
	return saves, nil
}

func (r *pgGameSaveRepository) UpdatePosition(ctx context.Context, querier interfaces.DBTX, saveID, nodeID int64) (*models.GameSave, error) {
	log := r.logger.With(zap.Int64("saveID", saveID), zap.Int64("nodeID", nodeID))

	var updated models.GameSave
	if err := pgxscan.Get(ctx, querier, &updated, updateGameSavePositionQuery, saveID, nodeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("Game save vanished before position update")
			return nil, fmt.Errorf("%w: game save %d", models.ErrNotFound, saveID)
		}
		log.Error("Failed to update game save position", zap.Error(err))
		return nil, fmt.Errorf("update game save %d position: %w", saveID, err)
	}
	log.Debug("Game save position updated")
	return &updated, nil
}

func (r *pgGameSaveRepository) Delete(ctx context.Context, querier interfaces.DBTX, saveID int64) (*models.GameSave, error) {
	var deleted models.GameSave
	if err := pgxscan.Get(ctx, querier, &deleted, deleteGameSaveQuery, saveID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("No game save to delete", zap.Int64("saveID", saveID))
			return nil, nil
		}
		return nil, fmt.Errorf("delete game save %d: %w", saveID, err)
	}
	r.logger.Info("Game save deleted", zap.Int64("saveID", saveID))
	return &deleted, nil
}

func (r *pgGameSaveRepository) CountAtNode(ctx context.Context, querier interfaces.DBTX, nodeID int64) (int, error) {
	var count int
	if err := querier.QueryRow(ctx, countGameSavesAtNodeQuery, nodeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count game saves at node %d: %w", nodeID, err)
	}
	return count, nil
}

func (r *pgGameSaveRepository) getOne(ctx context.Context, querier interfaces.DBTX, query string, arg int64) (*models.GameSave, error) {
	var save models.GameSave
	if err := pgxscan.Get(ctx, querier, &save, query, arg); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: game save", models.ErrNotFound)
		}
		r.logger.Error("Failed to get game save", zap.Int64("key", arg), zap.Error(err))
		return nil, fmt.Errorf("get game save: %w", err)
	}
	return &save, nil
}
