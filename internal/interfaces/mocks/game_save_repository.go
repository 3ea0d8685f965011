package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

type GameSaveRepository struct {
	mock.Mock
}

var _ interfaces.GameSaveRepository = (*GameSaveRepository)(nil)

func (m *GameSaveRepository) Create(ctx context.Context, querier interfaces.DBTX, save *models.GameSave) (*models.GameSave, error) {
	args := m.Called(ctx, querier, save)
	s, _ := args.Get(0).(*models.GameSave)
	return s, args.Error(1)
}

func (m *GameSaveRepository) GetByID(ctx context.Context, querier interfaces.DBTX, saveID int64) (*models.GameSave, error) {
	args := m.Called(ctx, querier, saveID)
	s, _ := args.Get(0).(*models.GameSave)
	return s, args.Error(1)
}

func (m *GameSaveRepository) GetByIDForUpdate(ctx context.Context, querier interfaces.DBTX, saveID int64) (*models.GameSave, error) {
	args := m.Called(ctx, querier, saveID)
	s, _ := args.Get(0).(*models.GameSave)
	return s, args.Error(1)
}

func (m *GameSaveRepository) GetLatestByUser(ctx context.Context, querier interfaces.DBTX, userID int64) (*models.GameSave, error) {
	args := m.Called(ctx, querier, userID)
	s, _ := args.Get(0).(*models.GameSave)
	return s, args.Error(1)
}

func (m *GameSaveRepository) GetLatestByUserForUpdate(ctx context.Context, querier interfaces.DBTX, userID int64) (*models.GameSave, error) {
	args := m.Called(ctx, querier, userID)
	s, _ := args.Get(0).(*models.GameSave)
	return s, args.Error(1)
}

func (m *GameSaveRepository) ListByUser(ctx context.Context, querier interfaces.DBTX, userID int64) ([]models.GameSave, error) {
	args := m.Called(ctx, querier, userID)
	list, _ := args.Get(0).([]models.GameSave)
	return list, args.Error(1)
}

func (m *GameSaveRepository) UpdatePosition(ctx context.Context, querier interfaces.DBTX, saveID, nodeID int64) (*models.GameSave, error) {
	args := m.Called(ctx, querier, saveID, nodeID)
	s, _ := args.Get(0).(*models.GameSave)
	return s, args.Error(1)
}

func (m *GameSaveRepository) Delete(ctx context.Context, querier interfaces.DBTX, saveID int64) (*models.GameSave, error) {
	args := m.Called(ctx, querier, saveID)
	s, _ := args.Get(0).(*models.GameSave)
	return s, args.Error(1)
}

func (m *GameSaveRepository) CountAtNode(ctx context.Context, querier interfaces.DBTX, nodeID int64) (int, error) {
	args := m.Called(ctx, querier, nodeID)
	return args.Int(0), args.Error(1)
}
