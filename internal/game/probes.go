package game

import (
	"errors"
	"fmt"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// ValidateCardPlay is a read-only probe: it reports whether playing the
// given hand card at pos would succeed right now, without committing
// anything.
func (e *Engine) ValidateCardPlay(cardID string, pos state.Position, playerID string) error {
	gs := e.current
	if gs == nil {
		return errors.New("game is not initialized")
	}
	if err := e.turns.CheckTiming(gs, playerID); err != nil {
		return err
	}
	player, ok := gs.Player(playerID)
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	if !state.ContainsID(player.Hand, cardID) {
		return fmt.Errorf("card %s is not in %s's hand", cardID, playerID)
	}
	ci, ok := gs.Card(cardID)
	if !ok {
		return e.inconsistency(gs, "card instance missing from state", cardID)
	}
	def, ok := e.cat.Card(ci.DefinitionID)
	if !ok {
		return e.inconsistency(gs, "card definition missing from catalog", cardID)
	}
	if err := e.placement.Validate(def, pos, gs); err != nil {
		return err
	}
	if !e.ledger.CanPay(gs, def.Cost, playerID, def, pos) {
		return errors.New("insufficient resources")
	}
	return nil
}

// GetValidPositionsForCard returns every position where the hand card could
// legally be played right now, in row-major order.
func (e *Engine) GetValidPositionsForCard(cardID, playerID string) []state.Position {
	gs := e.current
	if gs == nil {
		return nil
	}
	var out []state.Position
	for y := 0; y < gs.GridHeight; y++ {
		for x := 0; x < gs.GridWidth; x++ {
			pos := state.Position{X: x, Y: y}
			if e.ValidateCardPlay(cardID, pos, playerID) == nil {
				out = append(out, pos)
			}
		}
	}
	return out
}

// GetAvailableActions lists the action types playerID could take right now.
func (e *Engine) GetAvailableActions(playerID string) []ActionType {
	gs := e.current
	if gs == nil {
		return nil
	}
	player, ok := gs.Player(playerID)
	if !ok {
		return nil
	}

	if gs.Phase == state.PhaseSetup {
		if !player.Ready {
			return []ActionType{ActionPlayerReady}
		}
		return nil
	}
	if gs.Phase == state.PhaseEnded {
		return nil
	}
	if current := gs.CurrentPlayer(); current == nil || current.ID != playerID {
		return nil
	}

	actions := []ActionType{ActionPassTurn}
	if gs.TurnPhase != state.TurnPhaseAction || gs.ActionsRemaining <= 0 {
		return actions
	}
	if len(player.Hand) > 0 {
		actions = append(actions, ActionPlayCard, ActionDropAndDrawThree)
	}
	for _, ci := range gs.Cards {
		if ci.OwnerID != playerID || ci.Zone != state.ZoneGrid || ci.IsHome || ci.IsDetritus {
			continue
		}
		if ci.Position != nil {
			actions = append(actions, ActionRemoveCard)
			break
		}
	}
	if e.hasActivatable(gs, playerID) {
		actions = append(actions, ActionActivateAbility)
	}
	if e.hasMetamorphosis(gs, player) {
		actions = append(actions, ActionMetamorphosis)
	}
	return actions
}

func (e *Engine) hasActivatable(gs *state.GameState, playerID string) bool {
	for _, ci := range gs.Cards {
		if ci.OwnerID != playerID || ci.Zone != state.ZoneGrid || ci.IsHome || ci.IsDetritus || ci.Exhausted {
			continue
		}
		def, ok := e.cat.Card(ci.DefinitionID)
		if !ok {
			continue
		}
		for _, abilityID := range def.AbilityIDs {
			if ability, ok := e.cat.Ability(abilityID); ok && ability.Trigger == catalog.TriggerActivated {
				return true
			}
		}
	}
	return false
}

func (e *Engine) hasMetamorphosis(gs *state.GameState, player *state.Player) bool {
	for _, id := range player.Hand {
		ci, ok := gs.Cards[id]
		if !ok {
			continue
		}
		def, ok := e.cat.Card(ci.DefinitionID)
		if !ok || def.MetamorphosesFrom == 0 {
			continue
		}
		for _, gridID := range gs.Grid {
			if target, ok := gs.Cards[gridID]; ok &&
				target.OwnerID == player.ID && !target.IsHome && !target.IsDetritus &&
				!target.Exhausted && target.DefinitionID == def.MetamorphosesFrom {
				return true
			}
		}
	}
	return false
}

// GameProgress is a host-facing summary of where the game stands.
type GameProgress struct {
	Phase            state.GamePhase
	TurnPhase        state.TurnPhase
	TurnNumber       int
	CurrentPlayerID  string
	ActionsRemaining int
	DeckCounts       map[string]int
	ScoreCounts      map[string]int
}

// GetGameProgress summarizes the current snapshot.
func (e *Engine) GetGameProgress() *GameProgress {
	gs := e.current
	if gs == nil {
		return nil
	}
	progress := &GameProgress{
		Phase:            gs.Phase,
		TurnPhase:        gs.TurnPhase,
		TurnNumber:       gs.TurnNumber,
		ActionsRemaining: gs.ActionsRemaining,
		DeckCounts:       make(map[string]int, len(gs.Players)),
		ScoreCounts:      make(map[string]int, len(gs.Players)),
	}
	if current := gs.CurrentPlayer(); current != nil {
		progress.CurrentPlayerID = current.ID
	}
	for _, p := range gs.Players {
		progress.DeckCounts[p.ID] = len(p.Deck)
		progress.ScoreCounts[p.ID] = len(p.Score)
	}
	return progress
}

// GetEndGameData returns the scoring result, or nil while the game is
// still running.
func (e *Engine) GetEndGameData() *ScoreResult {
	gs := e.current
	if gs == nil || gs.Phase != state.PhaseEnded {
		return nil
	}
	result := e.computeScores(gs)
	return &result
}
