package interfaces

import (
	"context"

	"branching-novel/internal/models"
)

// GameSaveRepository persists player positions.
type GameSaveRepository interface {
	Create(ctx context.Context, querier DBTX, save *models.GameSave) (*models.GameSave, error)

	// GetByID returns models.ErrNotFound when the save does not exist.
	GetByID(ctx context.Context, querier DBTX, saveID int64) (*models.GameSave, error)

	// GetByIDForUpdate is GetByID that also locks the row until the
	// surrounding transaction ends. Only meaningful on a pgx.Tx querier.
	GetByIDForUpdate(ctx context.Context, querier DBTX, saveID int64) (*models.GameSave, error)

	// GetLatestByUser returns the user's most recently updated save.
	GetLatestByUser(ctx context.Context, querier DBTX, userID int64) (*models.GameSave, error)

	// GetLatestByUserForUpdate locks the user's most recently updated save.
	GetLatestByUserForUpdate(ctx context.Context, querier DBTX, userID int64) (*models.GameSave, error)

	// ListByUser returns all saves of the user, most recent first.
	ListByUser(ctx context.Context, querier DBTX, userID int64) ([]models.GameSave, error)

	// UpdatePosition replaces the current node and bumps updated_at.
	UpdatePosition(ctx context.Context, querier DBTX, saveID, nodeID int64) (*models.GameSave, error)

	// Delete returns the removed save, or nil when nothing matched.
	Delete(ctx context.Context, querier DBTX, saveID int64) (*models.GameSave, error)

	// CountAtNode counts saves whose current node is nodeID.
	CountAtNode(ctx context.Context, querier DBTX, nodeID int64) (int, error)
}
