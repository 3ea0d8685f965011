package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"branching-novel/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestToStoryNodeDto(t *testing.T) {
	bg := "hall.png"
	node := models.StoryNode{ID: 2, Title: "Hallway", Description: "A long corridor", BackgroundRef: &bg}

	got := ToStoryNodeDto(node)

	assert.Equal(t, int64(2), got.ID)
	assert.Equal(t, "Hallway", got.Title)
	assert.Equal(t, "A long corridor", got.Description)
	require.NotNil(t, got.BackgroundReference)
	assert.Equal(t, "hall.png", *got.BackgroundReference)

	*got.BackgroundReference = "changed.png"
	assert.Equal(t, "hall.png", bg, "mapping must not alias the input")
}

func TestToChoiceDtos_EmptyForEnding(t *testing.T) {
	got := ToChoiceDtos(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestToDialogueDto(t *testing.T) {
	speakers := map[int64]models.Character{7: {ID: 7, Name: "Mira"}}

	t.Run("resolved speaker", func(t *testing.T) {
		got := ToDialogueDto(models.Dialogue{ID: 1, CharacterID: ptr[int64](7), Text: "Hello"}, speakers)
		require.NotNil(t, got.CharacterID)
		assert.Equal(t, int64(7), *got.CharacterID)
		assert.Equal(t, "Mira", got.SpeakerName)
		assert.Equal(t, "Hello", got.Text)
	})

	t.Run("narrator", func(t *testing.T) {
		got := ToDialogueDto(models.Dialogue{ID: 2, Text: "Rain falls."}, speakers)
		assert.Nil(t, got.CharacterID)
		assert.Empty(t, got.SpeakerName)
	})

	t.Run("missing character maps to no speaker", func(t *testing.T) {
		got := ToDialogueDto(models.Dialogue{ID: 3, CharacterID: ptr[int64](99), Text: "..."}, speakers)
		assert.Nil(t, got.CharacterID)
		assert.Empty(t, got.SpeakerName)
	})
}

func TestToCharacterDto(t *testing.T) {
	c := models.Character{ID: 4, Name: "Ari", Description: "the hero"}

	t.Run("plain character", func(t *testing.T) {
		got := ToCharacterDto(models.NewCharacterProfile(c, nil))
		assert.Nil(t, got.Player)
		assert.Equal(t, "Ari", got.Name)
	})

	t.Run("player character", func(t *testing.T) {
		got := ToCharacterDto(models.NewCharacterProfile(c, &models.PlayerCharacter{CharacterID: 4, Health: 80}))
		require.NotNil(t, got.Player)
		assert.Equal(t, 80, got.Player.Health)
	})

	t.Run("extension of another character is ignored", func(t *testing.T) {
		got := ToCharacterDto(models.NewCharacterProfile(c, &models.PlayerCharacter{CharacterID: 5, Health: 10}))
		assert.Nil(t, got.Player)
	})
}

func TestToGameStateAndSave(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	save := models.GameSave{ID: 11, UserID: 3, SaveName: "Slot 1", CurrentStoryNodeID: 2, CreatedAt: now, UpdatedAt: now}

	state := ToGameState(save)
	assert.Equal(t, GameState{PlayerCharacterID: 3, CurrentStoryNodeID: 2, SaveID: 11}, state)

	saveDto := ToGameSaveDto(save)
	assert.Equal(t, int64(3), saveDto.PlayerCharacterID)
	assert.Equal(t, "Slot 1", saveDto.SaveName)
	assert.Equal(t, now, saveDto.UpdatedAt)

	assert.NotNil(t, ToGameSaveDtos(nil))
}

func TestToNodeView(t *testing.T) {
	content := models.NodeContent{
		Node: models.StoryNode{ID: 1, Title: "Start"},
		Dialogues: []models.Dialogue{
			{ID: 1, StoryNodeID: 1, Text: "You wake up."},
		},
		Choices: []models.Choice{
			{ID: 10, SourceNodeID: 1, TargetNodeID: 2, Label: "Open the door"},
			{ID: 11, SourceNodeID: 5, TargetNodeID: 2, Label: "stray"},
		},
	}

	view := ToNodeView(content)

	assert.Equal(t, "Start", view.Node.Title)
	require.Len(t, view.Choices, 1)
	assert.Equal(t, int64(10), view.Choices[0].ID)
	assert.False(t, view.IsEnding)
	require.Len(t, view.Dialogues, 1)
	assert.Len(t, content.Choices, 2, "input must not be mutated")

	ending := ToNodeView(models.NodeContent{Node: models.StoryNode{ID: 2, Title: "Hallway"}})
	assert.True(t, ending.IsEnding)
	assert.NotNil(t, ending.Choices)
	assert.NotNil(t, ending.Dialogues)
}
