package cache

import (
	"context"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

type noopGraphCache struct{}

// NewNoopGraphCache returns a cache that always misses. Used when Redis is not configured.
func NewNoopGraphCache() interfaces.GraphCache { return noopGraphCache{} }

func (noopGraphCache) GetChoices(context.Context, int64) ([]models.Choice, bool, error) {
	return nil, false, nil
}

func (noopGraphCache) SetChoices(context.Context, int64, []models.Choice) error { return nil }

func (noopGraphCache) GetNodeContent(context.Context, int64) (*models.NodeContent, bool, error) {
	return nil, false, nil
}

func (noopGraphCache) SetNodeContent(context.Context, *models.NodeContent) error { return nil }

func (noopGraphCache) InvalidateNodes(context.Context, ...int64) error { return nil }
