package models

// StoryNode is a narrative beat: a vertex in the story graph.
type StoryNode struct {
	ID            int64   `json:"id" db:"id"`
	Title         string  `json:"title" db:"title"`
	Description   string  `json:"description" db:"description"`
	BackgroundRef *string `json:"background_ref,omitempty" db:"background_ref"`
}

func (StoryNode) TableName() string { return "story_nodes" }

func (StoryNode) Columns() []string {
	return []string{"title", "description", "background_ref"}
}

func (n StoryNode) Values() []any {
	return []any{n.Title, n.Description, n.BackgroundRef}
}

func (n StoryNode) GetID() int64 { return n.ID }

func (n *StoryNode) SetID(id int64) { n.ID = id }

// NodeContent is a node together with the records it owns.
// Choices only ever hold edges whose SourceNodeID equals Node.ID.
type NodeContent struct {
	Node      StoryNode
	Dialogues []Dialogue
	Choices   []Choice
	// Speakers holds the characters referenced by Dialogues, keyed by character id.
	Speakers map[int64]Character
}

// IsEnding reports whether the node has no outgoing choices.
func (c NodeContent) IsEnding() bool {
	return len(c.Choices) == 0
}
