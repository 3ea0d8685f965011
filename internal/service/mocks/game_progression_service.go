package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"branching-novel/internal/dto"
	"branching-novel/internal/service"
)

type GameProgressionService struct {
	mock.Mock
}

var _ service.GameProgressionService = (*GameProgressionService)(nil)

func (m *GameProgressionService) StartGame(ctx context.Context, userID, storyNodeID int64, saveName string) (*dto.GameSaveDto, error) {
	args := m.Called(ctx, userID, storyNodeID, saveName)
	s, _ := args.Get(0).(*dto.GameSaveDto)
	return s, args.Error(1)
}

func (m *GameProgressionService) GetGameState(ctx context.Context, userID int64) (*dto.GameState, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*dto.GameState)
	return s, args.Error(1)
}

func (m *GameProgressionService) GetGameSave(ctx context.Context, saveID int64) (*dto.GameSaveDto, error) {
	args := m.Called(ctx, saveID)
	s, _ := args.Get(0).(*dto.GameSaveDto)
	return s, args.Error(1)
}

func (m *GameProgressionService) ListGameSaves(ctx context.Context, userID int64) ([]dto.GameSaveDto, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]dto.GameSaveDto)
	return list, args.Error(1)
}

func (m *GameProgressionService) MakeChoice(ctx context.Context, saveID, choiceID int64) (*dto.GameState, error) {
	args := m.Called(ctx, saveID, choiceID)
	s, _ := args.Get(0).(*dto.GameState)
	return s, args.Error(1)
}

func (m *GameProgressionService) MakeChoiceForUser(ctx context.Context, userID, choiceID int64) (*dto.GameState, error) {
	args := m.Called(ctx, userID, choiceID)
	s, _ := args.Get(0).(*dto.GameState)
	return s, args.Error(1)
}

func (m *GameProgressionService) MoveToNextNode(ctx context.Context, userID, nodeID int64) (*dto.GameState, error) {
	args := m.Called(ctx, userID, nodeID)
	s, _ := args.Get(0).(*dto.GameState)
	return s, args.Error(1)
}

func (m *GameProgressionService) MoveToPreviousNode(ctx context.Context, userID, previousNodeID int64) (*dto.GameState, error) {
	args := m.Called(ctx, userID, previousNodeID)
	s, _ := args.Get(0).(*dto.GameState)
	return s, args.Error(1)
}

func (m *GameProgressionService) SaveProgress(ctx context.Context, userID, nodeID int64) (*dto.GameState, error) {
	args := m.Called(ctx, userID, nodeID)
	s, _ := args.Get(0).(*dto.GameState)
	return s, args.Error(1)
}

func (m *GameProgressionService) LoadGame(ctx context.Context, saveID int64) (*dto.GameView, error) {
	args := m.Called(ctx, saveID)
	v, _ := args.Get(0).(*dto.GameView)
	return v, args.Error(1)
}

func (m *GameProgressionService) GetCurrentNode(ctx context.Context, userID int64) (*dto.NodeView, error) {
	args := m.Called(ctx, userID)
	v, _ := args.Get(0).(*dto.NodeView)
	return v, args.Error(1)
}

func (m *GameProgressionService) GetChoicesForNode(ctx context.Context, nodeID int64) ([]dto.ChoiceDto, error) {
	args := m.Called(ctx, nodeID)
	list, _ := args.Get(0).([]dto.ChoiceDto)
	return list, args.Error(1)
}

func (m *GameProgressionService) DeleteGameSave(ctx context.Context, saveID int64) (*dto.GameSaveDto, error) {
	args := m.Called(ctx, saveID)
	s, _ := args.Get(0).(*dto.GameSaveDto)
	return s, args.Error(1)
}
