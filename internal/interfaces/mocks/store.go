package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

// Store is a testify mock of interfaces.Store for any entity type.
type Store[T any] struct {
	mock.Mock
}

func (m *Store[T]) Get(ctx context.Context, querier interfaces.DBTX, id int64) (*T, error) {
	args := m.Called(ctx, querier, id)
	e, _ := args.Get(0).(*T)
	return e, args.Error(1)
}

func (m *Store[T]) List(ctx context.Context, querier interfaces.DBTX) ([]T, error) {
	args := m.Called(ctx, querier)
	list, _ := args.Get(0).([]T)
	return list, args.Error(1)
}

func (m *Store[T]) Exists(ctx context.Context, querier interfaces.DBTX, id int64) (bool, error) {
	args := m.Called(ctx, querier, id)
	return args.Bool(0), args.Error(1)
}

func (m *Store[T]) Create(ctx context.Context, querier interfaces.DBTX, entity *T) (*T, error) {
	args := m.Called(ctx, querier, entity)
	e, _ := args.Get(0).(*T)
	return e, args.Error(1)
}

func (m *Store[T]) Update(ctx context.Context, querier interfaces.DBTX, entity *T) (*T, error) {
	args := m.Called(ctx, querier, entity)
	e, _ := args.Get(0).(*T)
	return e, args.Error(1)
}

func (m *Store[T]) Delete(ctx context.Context, querier interfaces.DBTX, id int64) (*T, error) {
	args := m.Called(ctx, querier, id)
	e, _ := args.Get(0).(*T)
	return e, args.Error(1)
}

type StoryNodeRepository struct {
	Store[models.StoryNode]
}

type UserRepository struct {
	Store[models.User]
}

type ChoiceRepository struct {
	Store[models.Choice]
}

func (m *ChoiceRepository) ListBySourceNode(ctx context.Context, querier interfaces.DBTX, nodeID int64) ([]models.Choice, error) {
	args := m.Called(ctx, querier, nodeID)
	list, _ := args.Get(0).([]models.Choice)
	return list, args.Error(1)
}

func (m *ChoiceRepository) ListIncoming(ctx context.Context, querier interfaces.DBTX, nodeID int64) ([]models.Choice, error) {
	args := m.Called(ctx, querier, nodeID)
	list, _ := args.Get(0).([]models.Choice)
	return list, args.Error(1)
}

func (m *ChoiceRepository) ExistsEdge(ctx context.Context, querier interfaces.DBTX, fromNodeID, toNodeID int64) (bool, error) {
	args := m.Called(ctx, querier, fromNodeID, toNodeID)
	return args.Bool(0), args.Error(1)
}

type DialogueRepository struct {
	Store[models.Dialogue]
}

func (m *DialogueRepository) ListByNode(ctx context.Context, querier interfaces.DBTX, nodeID int64) ([]models.Dialogue, error) {
	args := m.Called(ctx, querier, nodeID)
	list, _ := args.Get(0).([]models.Dialogue)
	return list, args.Error(1)
}

func (m *DialogueRepository) ListByCharacter(ctx context.Context, querier interfaces.DBTX, characterID int64) ([]models.Dialogue, error) {
	args := m.Called(ctx, querier, characterID)
	list, _ := args.Get(0).([]models.Dialogue)
	return list, args.Error(1)
}

type CharacterRepository struct {
	Store[models.Character]
}

func (m *CharacterRepository) ListByIDs(ctx context.Context, querier interfaces.DBTX, ids []int64) ([]models.Character, error) {
	args := m.Called(ctx, querier, ids)
	list, _ := args.Get(0).([]models.Character)
	return list, args.Error(1)
}

func (m *CharacterRepository) GetPlayerExtension(ctx context.Context, querier interfaces.DBTX, characterID int64) (*models.PlayerCharacter, error) {
	args := m.Called(ctx, querier, characterID)
	ext, _ := args.Get(0).(*models.PlayerCharacter)
	return ext, args.Error(1)
}

func (m *CharacterRepository) UpsertPlayerExtension(ctx context.Context, querier interfaces.DBTX, ext *models.PlayerCharacter) error {
	args := m.Called(ctx, querier, ext)
	return args.Error(0)
}

var (
	_ interfaces.StoryNodeRepository = (*StoryNodeRepository)(nil)
	_ interfaces.UserRepository      = (*UserRepository)(nil)
	_ interfaces.ChoiceRepository    = (*ChoiceRepository)(nil)
	_ interfaces.DialogueRepository  = (*DialogueRepository)(nil)
	_ interfaces.CharacterRepository = (*CharacterRepository)(nil)
)
