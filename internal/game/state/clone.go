package state

// Clone produces a deep copy of the snapshot. ProcessAction mutates only
// clones; a failed validation simply discards the clone, which is the whole
// rollback story.
func (gs *GameState) Clone() *GameState {
	next := &GameState{
		GameID:             gs.GameID,
		Players:            make([]*Player, len(gs.Players)),
		CurrentPlayerIndex: gs.CurrentPlayerIndex,
		TurnNumber:         gs.TurnNumber,
		Phase:              gs.Phase,
		TurnPhase:          gs.TurnPhase,
		ActionsRemaining:   gs.ActionsRemaining,
		GridWidth:          gs.GridWidth,
		GridHeight:         gs.GridHeight,
		Cards:              make(map[string]*CardInstance, len(gs.Cards)),
		Grid:               make(map[Position]string, len(gs.Grid)),
		Detritus:           append([]string(nil), gs.Detritus...),
		HomePositions:      make(map[string]Position, len(gs.HomePositions)),
		Metadata:           make(map[string]string, len(gs.Metadata)),
	}

	for i, p := range gs.Players {
		next.Players[i] = p.clone()
	}
	for id, ci := range gs.Cards {
		next.Cards[id] = ci.clone()
	}
	for pos, id := range gs.Grid {
		next.Grid[pos] = id
	}
	for pid, pos := range gs.HomePositions {
		next.HomePositions[pid] = pos
	}
	for k, v := range gs.Metadata {
		next.Metadata[k] = v
	}
	if gs.FinalTurn != nil {
		next.FinalTurn = &FinalTurnState{
			TriggeredBy: gs.FinalTurn.TriggeredBy,
			Remaining:   append([]string(nil), gs.FinalTurn.Remaining...),
		}
	}

	return next
}

func (p *Player) clone() *Player {
	return &Player{
		ID:      p.ID,
		Name:    p.Name,
		Hand:    append([]string(nil), p.Hand...),
		Deck:    append([]string(nil), p.Deck...),
		Discard: append([]string(nil), p.Discard...),
		Score:   append([]string(nil), p.Score...),
		Energy:  p.Energy,
		Ready:   p.Ready,
	}
}

func (ci *CardInstance) clone() *CardInstance {
	next := &CardInstance{
		ID:           ci.ID,
		DefinitionID: ci.DefinitionID,
		OwnerID:      ci.OwnerID,
		Exhausted:    ci.Exhausted,
		HostID:       ci.HostID,
		Zone:         ci.Zone,
		IsDetritus:   ci.IsDetritus,
		IsHome:       ci.IsHome,
	}
	if ci.Position != nil {
		pos := *ci.Position
		next.Position = &pos
	}
	if len(ci.Attachments) > 0 {
		next.Attachments = append([]string(nil), ci.Attachments...)
	}
	if len(ci.Statuses) > 0 {
		next.Statuses = make([]StatusEffect, len(ci.Statuses))
		for i, s := range ci.Statuses {
			cp := s
			if s.Metadata != nil {
				cp.Metadata = make(map[string]string, len(s.Metadata))
				for k, v := range s.Metadata {
					cp.Metadata[k] = v
				}
			}
			next.Statuses[i] = cp
		}
	}
	return next
}
