package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"branching-novel/internal/interfaces"
	"branching-novel/internal/models"
)

var (
	_ interfaces.StoryNodeRepository = (*pgStoryNodeRepository)(nil)
	_ interfaces.ChoiceRepository    = (*pgChoiceRepository)(nil)
	_ interfaces.DialogueRepository  = (*pgDialogueRepository)(nil)
	_ interfaces.CharacterRepository = (*pgCharacterRepository)(nil)
	_ interfaces.UserRepository      = (*pgUserRepository)(nil)
)

type pgStoryNodeRepository struct {
	*PgStore[models.StoryNode, *models.StoryNode]
}

// NewPgStoryNodeRepository creates the story node store.
func NewPgStoryNodeRepository(logger *zap.Logger) interfaces.StoryNodeRepository {
	return &pgStoryNodeRepository{NewPgStore[models.StoryNode](logger)}
}

type pgUserRepository struct {
	*PgStore[models.User, *models.User]
}

// NewPgUserRepository creates the user store.
func NewPgUserRepository(logger *zap.Logger) interfaces.UserRepository {
	return &pgUserRepository{NewPgStore[models.User](logger)}
}

type pgChoiceRepository struct {
	*PgStore[models.Choice, *models.Choice]
}

// NewPgChoiceRepository creates the choice store.
func NewPgChoiceRepository(logger *zap.Logger) interfaces.ChoiceRepository {
	return &pgChoiceRepository{NewPgStore[models.Choice](logger)}
}

func (r *pgChoiceRepository) ListBySourceNode(ctx context.Context, querier interfaces.DBTX, nodeID int64) ([]models.Choice, error) {
	return r.selectWhere(ctx, querier, "source_node_id = $1", "id", nodeID)
}

func (r *pgChoiceRepository) ListIncoming(ctx context.Context, querier interfaces.DBTX, nodeID int64) ([]models.Choice, error) {
	return r.selectWhere(ctx, querier, "target_node_id = $1 AND source_node_id <> $1", "id", nodeID)
}

func (r *pgChoiceRepository) ExistsEdge(ctx context.Context, querier interfaces.DBTX, fromNodeID, toNodeID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM choices WHERE source_node_id = $1 AND target_node_id = $2)`

	var exists bool
	if err := querier.QueryRow(ctx, query, fromNodeID, toNodeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check edge %d -> %d: %w", fromNodeID, toNodeID, err)
	}
	return exists, nil
}

type pgDialogueRepository struct {
	*PgStore[models.Dialogue, *models.Dialogue]
}

// NewPgDialogueRepository creates the dialogue store.
func NewPgDialogueRepository(logger *zap.Logger) interfaces.DialogueRepository {
	return &pgDialogueRepository{NewPgStore[models.Dialogue](logger)}
}

func (r *pgDialogueRepository) ListByNode(ctx context.Context, querier interfaces.DBTX, nodeID int64) ([]models.Dialogue, error) {
	return r.selectWhere(ctx, querier, "story_node_id = $1", "position, id", nodeID)
}

func (r *pgDialogueRepository) ListByCharacter(ctx context.Context, querier interfaces.DBTX, characterID int64) ([]models.Dialogue, error) {
	return r.selectWhere(ctx, querier, "character_id = $1", "id", characterID)
}

const (
	getPlayerExtensionQuery    = `SELECT character_id, health FROM player_characters WHERE character_id = $1`
	upsertPlayerExtensionQuery = `
        INSERT INTO player_characters (character_id, health)
        VALUES ($1, $2)
        ON CONFLICT (character_id) DO UPDATE SET health = EXCLUDED.health
    `
)

type pgCharacterRepository struct {
	*PgStore[models.Character, *models.Character]
}

// NewPgCharacterRepository creates the character store.
func NewPgCharacterRepository(logger *zap.Logger) interfaces.CharacterRepository {
	return &pgCharacterRepository{NewPgStore[models.Character](logger)}
}

func (r *pgCharacterRepository) ListByIDs(ctx context.Context, querier interfaces.DBTX, ids []int64) ([]models.Character, error) {
	if len(ids) == 0 {
		return []models.Character{}, nil
	}
	return r.selectWhere(ctx, querier, "id = ANY($1)", "id", ids)
}

func (r *pgCharacterRepository) GetPlayerExtension(ctx context.Context, querier interfaces.DBTX, characterID int64) (*models.PlayerCharacter, error) {
	var ext models.PlayerCharacter
	if err := pgxscan.Get(ctx, querier, &ext, getPlayerExtensionQuery, characterID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get player extension %d: %w", characterID, err)
	}
	return &ext, nil
}

func (r *pgCharacterRepository) UpsertPlayerExtension(ctx context.Context, querier interfaces.DBTX, ext *models.PlayerCharacter) error {
	if _, err := querier.Exec(ctx, upsertPlayerExtensionQuery, ext.CharacterID, ext.Health); err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: character %d", models.ErrNotFound, ext.CharacterID)
		}
		return fmt.Errorf("upsert player extension %d: %w", ext.CharacterID, err)
	}
	return nil
}
