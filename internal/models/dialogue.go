package models

// Dialogue is a line of narrative text attached to a node.
type Dialogue struct {
	ID          int64  `json:"id" db:"id"`
	StoryNodeID int64  `json:"story_node_id" db:"story_node_id"`
	CharacterID *int64 `json:"character_id,omitempty" db:"character_id"` // nil: narrator
	Text        string `json:"text" db:"text"`
	Position    int    `json:"position" db:"position"`
}

func (Dialogue) TableName() string { return "dialogues" }

func (Dialogue) Columns() []string {
	return []string{"story_node_id", "character_id", "text", "position"}
}

func (d Dialogue) Values() []any {
	return []any{d.StoryNodeID, d.CharacterID, d.Text, d.Position}
}

func (d Dialogue) GetID() int64 { return d.ID }

func (d *Dialogue) SetID(id int64) { d.ID = id }
