package models

// Choice is a directed edge between two story nodes with a player-facing label.
type Choice struct {
	ID           int64  `json:"id" db:"id"`
	SourceNodeID int64  `json:"source_node_id" db:"source_node_id"`
	TargetNodeID int64  `json:"target_node_id" db:"target_node_id"`
	Label        string `json:"label" db:"label"`
}

func (Choice) TableName() string { return "choices" }

func (Choice) Columns() []string {
	return []string{"source_node_id", "target_node_id", "label"}
}

func (c Choice) Values() []any {
	return []any{c.SourceNodeID, c.TargetNodeID, c.Label}
}

func (c Choice) GetID() int64 { return c.ID }

func (c *Choice) SetID(id int64) { c.ID = id }
