package dto

import "branching-novel/internal/models"

func ToStoryNodeDto(node models.StoryNode) StoryNodeDto {
	return StoryNodeDto{
		ID:                  node.ID,
		Title:               node.Title,
		Description:         node.Description,
		BackgroundReference: copyString(node.BackgroundRef),
	}
}

func ToChoiceDto(choice models.Choice) ChoiceDto {
	return ChoiceDto{
		ID:           choice.ID,
		SourceNodeID: choice.SourceNodeID,
		TargetNodeID: choice.TargetNodeID,
		Label:        choice.Label,
	}
}

// ToChoiceDtos never returns nil so endings serialize as [].
func ToChoiceDtos(choices []models.Choice) []ChoiceDto {
	out := make([]ChoiceDto, 0, len(choices))
	for _, c := range choices {
		out = append(out, ToChoiceDto(c))
	}
	return out
}

// ToDialogueDto resolves the speaker from speakers. A speaker id that is not
// in the map maps to a line without a speaker.
func ToDialogueDto(d models.Dialogue, speakers map[int64]models.Character) DialogueDto {
	out := DialogueDto{
		ID:   d.ID,
		Text: d.Text,
	}
	if d.CharacterID == nil {
		return out
	}
	speaker, ok := speakers[*d.CharacterID]
	if !ok {
		return out
	}
	id := speaker.ID
	out.CharacterID = &id
	out.SpeakerName = speaker.Name
	return out
}

func ToDialogueDtos(dialogues []models.Dialogue, speakers map[int64]models.Character) []DialogueDto {
	out := make([]DialogueDto, 0, len(dialogues))
	for _, d := range dialogues {
		out = append(out, ToDialogueDto(d, speakers))
	}
	return out
}

// ToCharacterDto includes the player block only for characters that have the
// player extension.
func ToCharacterDto(profile models.CharacterProfile) CharacterDto {
	c := profile.Character
	out := CharacterDto{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		PortraitReference: copyString(c.PortraitRef),
	}
	if ext, ok := profile.PlayerExtension(); ok {
		out.Player = &PlayerCharacterDto{Health: ext.Health}
	}
	return out
}

func ToGameSaveDto(save models.GameSave) GameSaveDto {
	return GameSaveDto{
		ID:                 save.ID,
		PlayerCharacterID:  save.UserID,
		SaveName:           save.SaveName,
		CurrentStoryNodeID: save.CurrentStoryNodeID,
		CreatedAt:          save.CreatedAt,
		UpdatedAt:          save.UpdatedAt,
	}
}

func ToGameSaveDtos(saves []models.GameSave) []GameSaveDto {
	out := make([]GameSaveDto, 0, len(saves))
	for _, s := range saves {
		out = append(out, ToGameSaveDto(s))
	}
	return out
}

func ToGameState(save models.GameSave) GameState {
	return GameState{
		PlayerCharacterID:  save.UserID,
		CurrentStoryNodeID: save.CurrentStoryNodeID,
		SaveID:             save.ID,
	}
}

// ToNodeView maps a node with its content. Choices whose source is not the
// node are dropped.
func ToNodeView(content models.NodeContent) NodeView {
	owned := make([]models.Choice, 0, len(content.Choices))
	for _, c := range content.Choices {
		if c.SourceNodeID == content.Node.ID {
			owned = append(owned, c)
		}
	}
	return NodeView{
		Node:      ToStoryNodeDto(content.Node),
		Dialogues: ToDialogueDtos(content.Dialogues, content.Speakers),
		Choices:   ToChoiceDtos(owned),
		IsEnding:  len(owned) == 0,
	}
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
