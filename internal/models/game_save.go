package models

import "time"

// DefaultSaveName is used when a game is started without a save name.
const DefaultSaveName = "Autosave"

// GameSave is a player's persisted position within the story graph.
// CurrentStoryNodeID always references an existing node.
type GameSave struct {
	ID                 int64     `json:"id" db:"id"`
	UserID             int64     `json:"user_id" db:"user_id"`
	SaveName           string    `json:"save_name" db:"save_name"`
	CurrentStoryNodeID int64     `json:"current_story_node_id" db:"current_story_node_id"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// TransitionKind names the way a save's position was changed.
type TransitionKind string

const (
	TransitionStart    TransitionKind = "start"
	TransitionChoice   TransitionKind = "choice"
	TransitionNext     TransitionKind = "next"
	TransitionPrevious TransitionKind = "previous"
	TransitionSave     TransitionKind = "save"
)
