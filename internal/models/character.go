package models

// Character is a speaker that dialogues may reference by id.
type Character struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	PortraitRef *string `json:"portrait_ref,omitempty" db:"portrait_ref"`
}

func (Character) TableName() string { return "characters" }

func (Character) Columns() []string {
	return []string{"name", "description", "portrait_ref"}
}

func (c Character) Values() []any {
	return []any{c.Name, c.Description, c.PortraitRef}
}

func (c Character) GetID() int64 { return c.ID }

func (c *Character) SetID(id int64) { c.ID = id }

// PlayerCharacter extends a Character that the player controls.
// It shares the character's identity.
type PlayerCharacter struct {
	CharacterID int64 `json:"character_id" db:"character_id"`
	Health      int   `json:"health" db:"health"`
}

// CharacterProfile is a character with its optional player extension.
type CharacterProfile struct {
	Character Character
	player    *PlayerCharacter
}

// NewCharacterProfile pairs a character with its extension; ext may be nil.
func NewCharacterProfile(c Character, ext *PlayerCharacter) CharacterProfile {
	if ext != nil && ext.CharacterID != c.ID {
		ext = nil
	}
	return CharacterProfile{Character: c, player: ext}
}

// PlayerExtension returns the player extension if the character has one.
func (p CharacterProfile) PlayerExtension() (PlayerCharacter, bool) {
	if p.player == nil {
		return PlayerCharacter{}, false
	}
	return *p.player, true
}
