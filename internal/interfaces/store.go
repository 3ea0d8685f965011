package interfaces

import (
	"context"

	"branching-novel/internal/models"
)

// Store is plain single-table access to one entity type. It performs no
// cross-entity validation.
type Store[T any] interface {
	// Get returns models.ErrNotFound when no record has the id.
	Get(ctx context.Context, querier DBTX, id int64) (*T, error)
	// List returns every record ordered by id.
	List(ctx context.Context, querier DBTX) ([]T, error)
	Exists(ctx context.Context, querier DBTX, id int64) (bool, error)
	// Create inserts the record and returns it with its generated id.
	Create(ctx context.Context, querier DBTX, entity *T) (*T, error)
	// Update overwrites the record with entity's id; models.ErrNotFound when absent.
	Update(ctx context.Context, querier DBTX, entity *T) (*T, error)
	// Delete removes the record and returns it, or nil when there was nothing to delete.
	Delete(ctx context.Context, querier DBTX, id int64) (*T, error)
}

// StoryNodeRepository stores story graph vertices.
type StoryNodeRepository interface {
	Store[models.StoryNode]
}

// ChoiceRepository stores story graph edges.
type ChoiceRepository interface {
	Store[models.Choice]
	// ListBySourceNode returns the outgoing edges of a node; empty for endings.
	ListBySourceNode(ctx context.Context, querier DBTX, nodeID int64) ([]models.Choice, error)
	// ListIncoming returns edges of other nodes that target nodeID.
	ListIncoming(ctx context.Context, querier DBTX, nodeID int64) ([]models.Choice, error)
	ExistsEdge(ctx context.Context, querier DBTX, fromNodeID, toNodeID int64) (bool, error)
}

// DialogueRepository stores the lines attached to nodes.
type DialogueRepository interface {
	Store[models.Dialogue]
	ListByNode(ctx context.Context, querier DBTX, nodeID int64) ([]models.Dialogue, error)
	ListByCharacter(ctx context.Context, querier DBTX, characterID int64) ([]models.Dialogue, error)
}

// CharacterRepository stores characters and their optional player extensions.
type CharacterRepository interface {
	Store[models.Character]
	ListByIDs(ctx context.Context, querier DBTX, ids []int64) ([]models.Character, error)
	// GetPlayerExtension returns nil, nil when the character has no player extension.
	GetPlayerExtension(ctx context.Context, querier DBTX, characterID int64) (*models.PlayerCharacter, error)
	UpsertPlayerExtension(ctx context.Context, querier DBTX, ext *models.PlayerCharacter) error
}

// UserRepository stores save owners.
type UserRepository interface {
	Store[models.User]
}
