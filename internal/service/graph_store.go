package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

// GraphRepositories groups the stores backing the story graph.
type GraphRepositories struct {
	Nodes      interfaces.StoryNodeRepository
	Choices    interfaces.ChoiceRepository
	Dialogues  interfaces.DialogueRepository
	Characters interfaces.CharacterRepository
	Saves      interfaces.GameSaveRepository
}

// GraphStore reads story content through the cache and applies graph
// mutations that must keep every reference resolvable.
type GraphStore struct {
	db         interfaces.DBTX
	executor   Executor
	nodes      interfaces.StoryNodeRepository
	choices    interfaces.ChoiceRepository
	dialogues  interfaces.DialogueRepository
	characters interfaces.CharacterRepository
	saves      interfaces.GameSaveRepository
	validator  *GraphValidator
	cache      interfaces.GraphCache
	logger     *zap.Logger
}

// NewGraphStore wires the graph store. db is used for reads outside a unit of work.
func NewGraphStore(
	db interfaces.DBTX,
	executor Executor,
	repos GraphRepositories,
	validator *GraphValidator,
	cache interfaces.GraphCache,
	logger *zap.Logger,
) *GraphStore {
	return &GraphStore{
		db:         db,
		executor:   executor,
		nodes:      repos.Nodes,
		choices:    repos.Choices,
		dialogues:  repos.Dialogues,
		characters: repos.Characters,
		saves:      repos.Saves,
		validator:  validator,
		cache:      cache,
		logger:     logger.Named("GraphStore"),
	}
}

// ChoicesForNode returns the outgoing choices of nodeID, empty for an ending.
// Fails with models.ErrNotFound when the node does not exist.
func (g *GraphStore) ChoicesForNode(ctx context.Context, nodeID int64) ([]models.Choice, error) {
	log := g.logger.With(zap.Int64("nodeID", nodeID))

	if cached, ok, err := g.cache.GetChoices(ctx, nodeID); err != nil {
		log.Warn("Graph cache read failed, falling back to database", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	exists, err := g.nodes.Exists(ctx, g.db, nodeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: story node %d", models.ErrNotFound, nodeID)
	}

	choices, err := g.choices.ListBySourceNode(ctx, g.db, nodeID)
	if err != nil {
		return nil, err
	}
	if err := g.cache.SetChoices(ctx, nodeID, choices); err != nil {
		log.Warn("Failed to cache choices", zap.Error(err))
	}
	return choices, nil
}

// LoadNodeContent returns the node with its dialogues, choices and speakers.
func (g *GraphStore) LoadNodeContent(ctx context.Context, nodeID int64) (*models.NodeContent, error) {
	log := g.logger.With(zap.Int64("nodeID", nodeID))

	if cached, ok, err := g.cache.GetNodeContent(ctx, nodeID); err != nil {
		log.Warn("Graph cache read failed, falling back to database", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	node, err := g.nodes.Get(ctx, g.db, nodeID)
	if err != nil {
		return nil, err
	}
	dialogues, err := g.dialogues.ListByNode(ctx, g.db, nodeID)
	if err != nil {
		return nil, err
	}
	choices, err := g.choices.ListBySourceNode(ctx, g.db, nodeID)
	if err != nil {
		return nil, err
	}
	speakers, err := g.loadSpeakers(ctx, dialogues)
	if err != nil {
		return nil, err
	}

	content := &models.NodeContent{
		Node:      *node,
		Dialogues: dialogues,
		Choices:   choices,
		Speakers:  speakers,
	}
	if err := g.cache.SetNodeContent(ctx, content); err != nil {
		log.Warn("Failed to cache node content", zap.Error(err))
	}
	return content, nil
}

func (g *GraphStore) loadSpeakers(ctx context.Context, dialogues []models.Dialogue) (map[int64]models.Character, error) {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0)
	for _, d := range dialogues {
		if d.CharacterID == nil {
			continue
		}
		if _, ok := seen[*d.CharacterID]; ok {
			continue
		}
		seen[*d.CharacterID] = struct{}{}
		ids = append(ids, *d.CharacterID)
	}

	speakers := make(map[int64]models.Character, len(ids))
	if len(ids) == 0 {
		return speakers, nil
	}
	characters, err := g.characters.ListByIDs(ctx, g.db, ids)
	if err != nil {
		return nil, err
	}
	for _, c := range characters {
		speakers[c.ID] = c
	}
	return speakers, nil
}

// CreateNode stores a new node.
func (g *GraphStore) CreateNode(ctx context.Context, node models.StoryNode) (*models.StoryNode, error) {
	if strings.TrimSpace(node.Title) == "" {
		return nil, fmt.Errorf("%w: story node title is required", models.ErrValidation)
	}
	node.ID = 0
	return g.nodes.Create(ctx, g.db, &node)
}

// CreateChoice adds an edge. Both endpoints must exist.
func (g *GraphStore) CreateChoice(ctx context.Context, choice models.Choice) (*models.Choice, error) {
	if strings.TrimSpace(choice.Label) == "" {
		return nil, fmt.Errorf("%w: choice label is required", models.ErrValidation)
	}
	choice.ID = 0

	var created *models.Choice
	err := g.executor.Execute(ctx, "CreateChoice", func(ctx context.Context, q interfaces.DBTX) error {
		if err := g.validator.RequireNode(ctx, q, choice.SourceNodeID); err != nil {
			return err
		}
		if err := g.validator.RequireNode(ctx, q, choice.TargetNodeID); err != nil {
			return err
		}
		var err error
		created, err = g.choices.Create(ctx, q, &choice)
		return err
	})
	if err != nil {
		return nil, err
	}

	g.invalidate(ctx, created.SourceNodeID)
	return created, nil
}

// DeleteChoice removes an edge; nil when it did not exist.
func (g *GraphStore) DeleteChoice(ctx context.Context, choiceID int64) (*models.Choice, error) {
	deleted, err := g.choices.Delete(ctx, g.db, choiceID)
	if err != nil || deleted == nil {
		return nil, err
	}
	g.invalidate(ctx, deleted.SourceNodeID)
	return deleted, nil
}

// CreateDialogue attaches a line to a node. A set speaker must exist.
func (g *GraphStore) CreateDialogue(ctx context.Context, dialogue models.Dialogue) (*models.Dialogue, error) {
	dialogue.ID = 0

	var created *models.Dialogue
	err := g.executor.Execute(ctx, "CreateDialogue", func(ctx context.Context, q interfaces.DBTX) error {
		if err := g.validator.RequireNode(ctx, q, dialogue.StoryNodeID); err != nil {
			return err
		}
		if dialogue.CharacterID != nil {
			if _, err := RequireEntity[models.Character](ctx, q, g.characters, *dialogue.CharacterID); err != nil {
				return err
			}
		}
		var err error
		created, err = g.dialogues.Create(ctx, q, &dialogue)
		return err
	})
	if err != nil {
		return nil, err
	}

	g.invalidate(ctx, created.StoryNodeID)
	return created, nil
}

// DeleteNode removes a node together with its own choices and dialogues.
// It is refused with models.ErrConflict while another node's choice leads to
// it or a save stands on it. Returns nil when the node did not exist.
func (g *GraphStore) DeleteNode(ctx context.Context, nodeID int64) (*models.StoryNode, error) {
	log := g.logger.With(zap.Int64("nodeID", nodeID))

	var deleted *models.StoryNode
	err := g.executor.Execute(ctx, "DeleteNode", func(ctx context.Context, q interfaces.DBTX) error {
		incoming, err := g.choices.ListIncoming(ctx, q, nodeID)
		if err != nil {
			return err
		}
		if len(incoming) > 0 {
			return fmt.Errorf("%w: story node %d is the target of %d choices", models.ErrConflict, nodeID, len(incoming))
		}

		saves, err := g.saves.CountAtNode(ctx, q, nodeID)
		if err != nil {
			return err
		}
		if saves > 0 {
			return fmt.Errorf("%w: %d game saves stand on story node %d", models.ErrConflict, saves, nodeID)
		}

		deleted, err = g.nodes.Delete(ctx, q, nodeID)
		return err
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			log.Info("Story node deletion refused", zap.Error(err))
		}
		return nil, err
	}
	if deleted == nil {
		return nil, nil
	}

	g.invalidate(ctx, nodeID)
	log.Info("Story node deleted")
	return deleted, nil
}

// CreateCharacter stores a character and, when player is set, its player extension.
func (g *GraphStore) CreateCharacter(ctx context.Context, character models.Character, player *models.PlayerCharacter) (*models.CharacterProfile, error) {
	if strings.TrimSpace(character.Name) == "" {
		return nil, fmt.Errorf("%w: character name is required", models.ErrValidation)
	}
	character.ID = 0

	var profile models.CharacterProfile
	err := g.executor.Execute(ctx, "CreateCharacter", func(ctx context.Context, q interfaces.DBTX) error {
		created, err := g.characters.Create(ctx, q, &character)
		if err != nil {
			return err
		}
		var ext *models.PlayerCharacter
		if player != nil {
			ext = &models.PlayerCharacter{CharacterID: created.ID, Health: player.Health}
			if err := g.characters.UpsertPlayerExtension(ctx, q, ext); err != nil {
				return err
			}
		}
		profile = models.NewCharacterProfile(*created, ext)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetCharacterProfile loads a character with its optional player extension.
func (g *GraphStore) GetCharacterProfile(ctx context.Context, characterID int64) (*models.CharacterProfile, error) {
	character, err := g.characters.Get(ctx, g.db, characterID)
	if err != nil {
		return nil, err
	}
	ext, err := g.characters.GetPlayerExtension(ctx, g.db, characterID)
	if err != nil {
		return nil, err
	}
	profile := models.NewCharacterProfile(*character, ext)
	return &profile, nil
}

// DeleteCharacter removes a character. Its dialogues remain without a speaker.
func (g *GraphStore) DeleteCharacter(ctx context.Context, characterID int64) (*models.Character, error) {
	var (
		deleted  *models.Character
		affected []int64
	)
	err := g.executor.Execute(ctx, "DeleteCharacter", func(ctx context.Context, q interfaces.DBTX) error {
		lines, err := g.dialogues.ListByCharacter(ctx, q, characterID)
		if err != nil {
			return err
		}
		affected = affected[:0]
		for _, d := range lines {
			affected = append(affected, d.StoryNodeID)
		}
		deleted, err = g.characters.Delete(ctx, q, characterID)
		return err
	})
	if err != nil || deleted == nil {
		return nil, err
	}

	g.invalidate(ctx, affected...)
	return deleted, nil
}

func (g *GraphStore) invalidate(ctx context.Context, nodeIDs ...int64) {
	if len(nodeIDs) == 0 {
		return
	}
	if err := g.cache.InvalidateNodes(ctx, nodeIDs...); err != nil {
		g.logger.Warn("Failed to invalidate graph cache", zap.Int64s("nodeIDs", nodeIDs), zap.Error(err))
	}
}
