package rules

import (
	"errors"
	"fmt"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// TurnMachine drives the SETUP -> PLAYING{READY, DRAW, ACTION} ->
// FINAL_TURN -> ENDED progression over a snapshot. It mutates only the
// snapshot it is handed; ability triggers are driven by the caller between
// the steps exposed here.
type TurnMachine struct {
	ActionBudget int
}

// NewTurnMachine creates a machine with the given per-turn action budget.
func NewTurnMachine(actionBudget int) *TurnMachine {
	if actionBudget <= 0 {
		actionBudget = 3
	}
	return &TurnMachine{ActionBudget: actionBudget}
}

// CheckTiming verifies that playerID may take a consuming action right now.
func (tm *TurnMachine) CheckTiming(gs *state.GameState, playerID string) error {
	switch gs.Phase {
	case state.PhaseSetup:
		return errors.New("game has not started yet")
	case state.PhaseEnded:
		return errors.New("game has ended")
	}
	current := gs.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return fmt.Errorf("it is not %s's turn", playerID)
	}
	if gs.TurnPhase != state.TurnPhaseAction {
		return fmt.Errorf("actions are not allowed during the %s phase", gs.TurnPhase)
	}
	if gs.ActionsRemaining <= 0 {
		return errors.New("no actions remaining this turn")
	}
	return nil
}

// AllPlayersReady reports whether every player has readied up during SETUP.
func (tm *TurnMachine) AllPlayersReady(gs *state.GameState) bool {
	for _, p := range gs.Players {
		if !p.Ready {
			return false
		}
	}
	return len(gs.Players) > 0
}

// BeginPlaying transitions out of SETUP. The first player skips READY and
// DRAW and enters ACTION directly.
func (tm *TurnMachine) BeginPlaying(gs *state.GameState) {
	gs.Phase = state.PhasePlaying
	gs.CurrentPlayerIndex = 0
	gs.TurnNumber = 1
	gs.TurnPhase = state.TurnPhaseAction
	gs.ActionsRemaining = tm.ActionBudget
}

// ReadyStep un-exhausts the active player's grid cards unless a
// PREVENT_READY status blocks it, then ticks down timed statuses, and
// grants one energy. The block is checked before the tick so a
// duration-N status blocks exactly N ready phases.
func (tm *TurnMachine) ReadyStep(gs *state.GameState) {
	gs.TurnPhase = state.TurnPhaseReady
	player := gs.CurrentPlayer()

	for _, ci := range gs.Cards {
		if ci.OwnerID != player.ID || ci.Zone != state.ZoneGrid || ci.IsHome || ci.IsDetritus {
			continue
		}
		if !ci.HasStatus(catalog.StatusPreventReady) {
			ci.Exhausted = false
		}
		tickStatuses(ci)
	}

	player.Energy++
}

// tickStatuses decrements timed status durations and drops the expired
// ones. Permanent statuses (duration -1) are untouched.
func tickStatuses(ci *state.CardInstance) {
	kept := ci.Statuses[:0]
	for _, s := range ci.Statuses {
		if s.Duration > 0 {
			s.Duration--
		}
		if s.Duration == 0 {
			continue
		}
		kept = append(kept, s)
	}
	ci.Statuses = kept
}

// DrawStep pops one card from the active player's deck into their hand.
// The first failed draw of the game flips the whole game into FINAL_TURN;
// a failed draw during FINAL_TURN just ends the turn without an action
// phase. The boolean result reports whether the player gets an action
// phase this turn.
func (tm *TurnMachine) DrawStep(gs *state.GameState) bool {
	gs.TurnPhase = state.TurnPhaseDraw
	player := gs.CurrentPlayer()

	if len(player.Deck) > 0 {
		tm.DrawCards(gs, player, 1)
		gs.TurnPhase = state.TurnPhaseAction
		gs.ActionsRemaining = tm.ActionBudget
		return true
	}

	if gs.Phase == state.PhaseFinalTurn {
		return false
	}

	// Deck exhausted for the first time: every other player owes exactly
	// one more turn, in seating order starting after the triggering player.
	remaining := make([]string, 0, len(gs.Players)-1)
	for i := 1; i < len(gs.Players); i++ {
		idx := (gs.CurrentPlayerIndex + i) % len(gs.Players)
		remaining = append(remaining, gs.Players[idx].ID)
	}
	gs.Phase = state.PhaseFinalTurn
	gs.FinalTurn = &state.FinalTurnState{
		TriggeredBy: player.ID,
		Remaining:   remaining,
	}
	return false
}

// DrawCards moves up to n cards from the player's deck to their hand.
// Running short here never triggers FINAL_TURN; only the DRAW step does.
func (tm *TurnMachine) DrawCards(gs *state.GameState, player *state.Player, n int) int {
	drawn := 0
	for i := 0; i < n && len(player.Deck) > 0; i++ {
		id := player.Deck[len(player.Deck)-1]
		player.Deck = player.Deck[:len(player.Deck)-1]
		player.Hand = append(player.Hand, id)
		if ci, ok := gs.Cards[id]; ok {
			ci.Zone = state.ZoneHand
		}
		drawn++
	}
	return drawn
}

// ConsumeAction decrements the action counter after a successful consuming
// action and reports whether the turn is over.
func (tm *TurnMachine) ConsumeAction(gs *state.GameState) bool {
	gs.ActionsRemaining--
	return gs.ActionsRemaining <= 0
}

// AdvanceTurn passes the turn to the next player. It increments the turn
// counter when wrapping back to seat 0 and, in FINAL_TURN, retires the
// just-finished player from the remaining-final-turn list. It reports
// whether the game just ended.
func (tm *TurnMachine) AdvanceTurn(gs *state.GameState) bool {
	finished := gs.CurrentPlayer()

	if gs.Phase == state.PhaseFinalTurn && gs.FinalTurn != nil {
		gs.FinalTurn.Remaining, _ = state.RemoveID(gs.FinalTurn.Remaining, finished.ID)
		if len(gs.FinalTurn.Remaining) == 0 && finished.ID != gs.FinalTurn.TriggeredBy {
			gs.Phase = state.PhaseEnded
			gs.TurnPhase = state.TurnPhaseNone
			return true
		}
	}

	gs.CurrentPlayerIndex = (gs.CurrentPlayerIndex + 1) % len(gs.Players)
	if gs.CurrentPlayerIndex == 0 {
		gs.TurnNumber++
	}
	gs.ActionsRemaining = 0
	gs.TurnPhase = state.TurnPhaseNone
	return false
}
