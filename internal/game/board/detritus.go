package board

import (
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// ConvertToDetritus handles a card's death: the instance stays on its cell,
// flipped face-down, flagged as detritus, and forced exhausted. It is never
// deleted. Any attachments detach to their owners' discard piles.
func ConvertToDetritus(gs *state.GameState, ci *state.CardInstance) {
	DetachAll(gs, ci)
	if ci.HostID != "" {
		// A dying attachment leaves its host rather than a cell.
		Detach(gs, ci)
	}

	ci.IsDetritus = true
	ci.Exhausted = true
	ci.Statuses = nil

	if ci.Position != nil {
		if !state.ContainsID(gs.Detritus, ci.ID) {
			gs.Detritus = append(gs.Detritus, ci.ID)
		}
	} else {
		// Attachments and in-hand deaths have no cell to lie on; the card
		// goes to its owner's discard pile instead.
		moveToDiscard(gs, ci)
	}
}

// ScoreDetritus moves a detritus card from its cell into scorerID's score
// pile, freeing the cell. This is the only way an instance ever leaves the
// grid through decomposition.
func ScoreDetritus(gs *state.GameState, ci *state.CardInstance, scorerID string) {
	if ci.Position != nil {
		delete(gs.Grid, *ci.Position)
		ci.Position = nil
	}
	gs.Detritus, _ = state.RemoveID(gs.Detritus, ci.ID)
	ci.IsDetritus = false
	ci.Zone = state.ZoneScore
	if scorer, ok := gs.Player(scorerID); ok {
		scorer.Score = append(scorer.Score, ci.ID)
	}
}

// RemoveFromDetritus pulls a detritus card off the grid into the taker's
// hand (TAKE_CARD_FROM_ZONE support).
func RemoveFromDetritus(gs *state.GameState, ci *state.CardInstance, takerID string) {
	if ci.Position != nil {
		delete(gs.Grid, *ci.Position)
		ci.Position = nil
	}
	gs.Detritus, _ = state.RemoveID(gs.Detritus, ci.ID)
	ci.IsDetritus = false
	ci.Exhausted = false
	ci.Zone = state.ZoneHand
	if taker, ok := gs.Player(takerID); ok {
		taker.Hand = append(taker.Hand, ci.ID)
	}
}

func moveToDiscard(gs *state.GameState, ci *state.CardInstance) {
	ci.IsDetritus = false
	ci.Zone = state.ZoneDiscard
	ci.Position = nil
	if owner, ok := gs.Player(ci.OwnerID); ok {
		owner.Discard = append(owner.Discard, ci.ID)
	}
}
