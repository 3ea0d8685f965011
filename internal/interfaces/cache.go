package interfaces

import (
	"context"

	"branching-novel/internal/models"
)

// GraphCache caches read-mostly story content. Hits are never used to
// validate a transition.
type GraphCache interface {
	// GetChoices returns ok == false on a miss.
	GetChoices(ctx context.Context, nodeID int64) (choices []models.Choice, ok bool, err error)
	SetChoices(ctx context.Context, nodeID int64, choices []models.Choice) error
	GetNodeContent(ctx context.Context, nodeID int64) (content *models.NodeContent, ok bool, err error)
	SetNodeContent(ctx context.Context, content *models.NodeContent) error
	InvalidateNodes(ctx context.Context, nodeIDs ...int64) error
}

// ProgressPublisher announces committed save transitions.
type ProgressPublisher interface {
	PublishProgress(ctx context.Context, event models.GameProgressEvent) error
}
