// Package dto holds the transport records returned by the game API and the
// pure mappers that build them from domain models.
package dto

import "time"

// StoryNodeDto carries a node without its choices or dialogues.
type StoryNodeDto struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	Description         string  `json:"description"`
	BackgroundReference *string `json:"backgroundReference,omitempty"`
}

type ChoiceDto struct {
	ID           int64  `json:"id"`
	SourceNodeID int64  `json:"sourceNodeId"`
	TargetNodeID int64  `json:"targetNodeId"`
	Label        string `json:"label"`
}

// DialogueDto is a line of a node. Narrator lines and lines whose speaker no
// longer exists have no CharacterID and an empty SpeakerName.
type DialogueDto struct {
	ID          int64  `json:"id"`
	CharacterID *int64 `json:"characterId,omitempty"`
	SpeakerName string `json:"speakerName,omitempty"`
	Text        string `json:"text"`
}

type PlayerCharacterDto struct {
	Health int `json:"health"`
}

type CharacterDto struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Description       string              `json:"description"`
	PortraitReference *string             `json:"portraitReference,omitempty"`
	Player            *PlayerCharacterDto `json:"player,omitempty"`
}

type GameSaveDto struct {
	ID                 int64     `json:"id"`
	PlayerCharacterID  int64     `json:"playerCharacterId"`
	SaveName           string    `json:"saveName"`
	CurrentStoryNodeID int64     `json:"currentStoryNodeId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// GameState is the player's position as seen by clients.
type GameState struct {
	PlayerCharacterID  int64 `json:"playerCharacterId"`
	CurrentStoryNodeID int64 `json:"currentStoryNodeId"`
	SaveID             int64 `json:"saveId"`
	// AtEnding is set when the returned state was built together with the
	// node's choices and the node has none.
	AtEnding bool `json:"atEnding,omitempty"`
}

// NodeView is everything a client needs to present one node.
type NodeView struct {
	Node      StoryNodeDto  `json:"node"`
	Dialogues []DialogueDto `json:"dialogues"`
	Choices   []ChoiceDto   `json:"choices"`
	IsEnding  bool          `json:"isEnding"`
}

// GameView is a loaded save together with the node it stands on.
type GameView struct {
	Save GameSaveDto `json:"save"`
	Node NodeView    `json:"node"`
}
