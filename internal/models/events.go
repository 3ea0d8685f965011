package models

import (
	"time"

	"github.com/google/uuid"
)

// GameProgressEvent is published after a save's position change has been committed.
type GameProgressEvent struct {
	EventID    uuid.UUID      `json:"event_id"`
	SaveID     int64          `json:"save_id"`
	UserID     int64          `json:"user_id"`
	Kind       TransitionKind `json:"kind"`
	FromNodeID *int64         `json:"from_node_id,omitempty"` // nil on start
	ToNodeID   int64          `json:"to_node_id"`
	OccurredAt time.Time      `json:"occurred_at"`
}
