package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

// GraphValidator decides whether a transition across the story graph is legal.
// All mutation paths consult it so a save can never point at a missing or
// unrelated node.
type GraphValidator struct {
	nodes   interfaces.StoryNodeRepository
	choices interfaces.ChoiceRepository
	logger  *zap.Logger
}

// NewGraphValidator creates a validator over the given stores.
func NewGraphValidator(nodes interfaces.StoryNodeRepository, choices interfaces.ChoiceRepository, logger *zap.Logger) *GraphValidator {
	return &GraphValidator{
		nodes:   nodes,
		choices: choices,
		logger:  logger.Named("GraphValidator"),
	}
}

// ChoiceBelongsToNode is true iff the choice exists and starts at nodeID.
func (v *GraphValidator) ChoiceBelongsToNode(ctx context.Context, querier interfaces.DBTX, choiceID, nodeID int64) (bool, error) {
	choice, err := v.choices.Get(ctx, querier, choiceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return choice.SourceNodeID == nodeID, nil
}

// ResolveTarget returns the node the choice leads to.
func (v *GraphValidator) ResolveTarget(ctx context.Context, querier interfaces.DBTX, choiceID int64) (int64, error) {
	choice, err := v.choices.Get(ctx, querier, choiceID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, fmt.Errorf("%w: choice %d does not exist", models.ErrInvalidChoice, choiceID)
		}
		return 0, err
	}
	return choice.TargetNodeID, nil
}

// NodeExists reports whether nodeID resolves to a story node.
func (v *GraphValidator) NodeExists(ctx context.Context, querier interfaces.DBTX, nodeID int64) (bool, error) {
	if nodeID <= 0 {
		return false, nil
	}
	return v.nodes.Exists(ctx, querier, nodeID)
}

// RequireNode fails with models.ErrInvalidNode unless nodeID exists.
func (v *GraphValidator) RequireNode(ctx context.Context, querier interfaces.DBTX, nodeID int64) error {
	ok, err := v.NodeExists(ctx, querier, nodeID)
	if err != nil {
		return err
	}
	if !ok {
		v.logger.Debug("Rejected unknown story node", zap.Int64("nodeID", nodeID))
		return fmt.Errorf("%w: story node %d does not exist", models.ErrInvalidNode, nodeID)
	}
	return nil
}

// ValidateTransition checks that choiceID leaves fromNodeID and returns its target.
func (v *GraphValidator) ValidateTransition(ctx context.Context, querier interfaces.DBTX, fromNodeID, choiceID int64) (int64, error) {
	belongs, err := v.ChoiceBelongsToNode(ctx, querier, choiceID, fromNodeID)
	if err != nil {
		return 0, err
	}
	if !belongs {
		v.logger.Debug("Rejected choice outside current node",
			zap.Int64("choiceID", choiceID), zap.Int64("nodeID", fromNodeID))
		return 0, fmt.Errorf("%w: choice %d is not available at node %d", models.ErrInvalidChoice, choiceID, fromNodeID)
	}
	return v.ResolveTarget(ctx, querier, choiceID)
}

// HasEdge reports whether some choice leads from fromNodeID to toNodeID.
func (v *GraphValidator) HasEdge(ctx context.Context, querier interfaces.DBTX, fromNodeID, toNodeID int64) (bool, error) {
	return v.choices.ExistsEdge(ctx, querier, fromNodeID, toNodeID)
}
