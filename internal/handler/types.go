package handler

// StartGame: storyNodeId 0 starts at the configured start node.
type startGameRequest struct {
	PlayerCharacterID int64  `json:"playerCharacterId" binding:"required,gt=0"`
	StoryNodeID       int64  `json:"storyNodeId" binding:"gte=0"`
	SaveName          string `json:"saveName" binding:"omitempty,max=100"`
}

type makeChoiceRequest struct {
	PlayerCharacterID int64 `json:"playerCharacterId" binding:"required,gt=0"`
	ChoiceID          int64 `json:"choiceId" binding:"required,gt=0"`
}

type saveChoiceRequest struct {
	ChoiceID int64 `json:"choiceId" binding:"required,gt=0"`
}

// Used by both SaveProgress and MoveToNextNode.
type positionRequest struct {
	PlayerCharacterID  int64 `json:"playerCharacterId" binding:"required,gt=0"`
	CurrentStoryNodeID int64 `json:"currentStoryNodeId" binding:"required,gt=0"`
}

type moveToPreviousRequest struct {
	PlayerCharacterID   int64 `json:"playerCharacterId" binding:"required,gt=0"`
	PreviousStoryNodeID int64 `json:"previousStoryNodeId" binding:"required,gt=0"`
}

// APIError is the body of every error response.
type APIError struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}
