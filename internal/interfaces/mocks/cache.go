package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

type GraphCache struct {
	mock.Mock
}

var _ interfaces.GraphCache = (*GraphCache)(nil)

func (m *GraphCache) GetChoices(ctx context.Context, nodeID int64) ([]models.Choice, bool, error) {
	args := m.Called(ctx, nodeID)
	list, _ := args.Get(0).([]models.Choice)
	return list, args.Bool(1), args.Error(2)
}

func (m *GraphCache) SetChoices(ctx context.Context, nodeID int64, choices []models.Choice) error {
	args := m.Called(ctx, nodeID, choices)
	return args.Error(0)
}

func (m *GraphCache) GetNodeContent(ctx context.Context, nodeID int64) (*models.NodeContent, bool, error) {
	args := m.Called(ctx, nodeID)
	c, _ := args.Get(0).(*models.NodeContent)
	return c, args.Bool(1), args.Error(2)
}

func (m *GraphCache) SetNodeContent(ctx context.Context, content *models.NodeContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *GraphCache) InvalidateNodes(ctx context.Context, nodeIDs ...int64) error {
	args := m.Called(ctx, nodeIDs)
	return args.Error(0)
}

type ProgressPublisher struct {
	mock.Mock
}

var _ interfaces.ProgressPublisher = (*ProgressPublisher)(nil)

func (m *ProgressPublisher) PublishProgress(ctx context.Context, event models.GameProgressEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
