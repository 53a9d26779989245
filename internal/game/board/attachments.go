package board

import (
	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// Attach binds an attacher (parasite or mutualist) to its host and applies
// the attachment statuses: a permanent harmful status on a parasitized
// host, a permanent beneficial status on both sides of a mutualism.
// Parasites carry no status themselves.
func Attach(gs *state.GameState, attacher *state.CardInstance, host *state.CardInstance, category catalog.TrophicCategory) {
	attacher.HostID = host.ID
	attacher.Position = nil
	attacher.Zone = state.ZoneGrid
	host.Attachments = append(host.Attachments, attacher.ID)

	switch category {
	case catalog.CategoryParasite:
		host.Statuses = append(host.Statuses, state.StatusEffect{
			Kind:     catalog.StatusParasiteDrain,
			Duration: state.PermanentDuration,
			SourceID: attacher.ID,
		})
	case catalog.CategoryMutualist:
		host.Statuses = append(host.Statuses, state.StatusEffect{
			Kind:     catalog.StatusMutualistBoost,
			Duration: state.PermanentDuration,
			SourceID: attacher.ID,
		})
		attacher.Statuses = append(attacher.Statuses, state.StatusEffect{
			Kind:     catalog.StatusMutualistBoost,
			Duration: state.PermanentDuration,
			SourceID: attacher.ID,
		})
	}
}

// Detach unbinds an attachment from its host, clearing the statuses the
// attachment sourced on the host.
func Detach(gs *state.GameState, attacher *state.CardInstance) {
	if attacher.HostID == "" {
		return
	}
	if host, ok := gs.Cards[attacher.HostID]; ok {
		host.Attachments, _ = state.RemoveID(host.Attachments, attacher.ID)
		host.RemoveStatusesFrom(attacher.ID)
	}
	attacher.HostID = ""
	attacher.RemoveStatusesFrom(attacher.ID)
}

// TransferAttachments rebinds every attachment from one host to another,
// carrying the statuses each attachment sourced on the old host along
// with it. The old host ends up with neither the attachments nor their
// statuses.
func TransferAttachments(gs *state.GameState, from, to *state.CardInstance) {
	for _, id := range from.Attachments {
		if att, ok := gs.Cards[id]; ok {
			att.HostID = to.ID
		}
		for _, s := range from.Statuses {
			if s.SourceID == id {
				to.Statuses = append(to.Statuses, s)
			}
		}
		from.RemoveStatusesFrom(id)
	}
	to.Attachments = append(to.Attachments, from.Attachments...)
	from.Attachments = nil
}

// DetachAll strips every attachment off a host, sending each to its
// owner's discard pile. Used when the host dies.
func DetachAll(gs *state.GameState, host *state.CardInstance) {
	attached := append([]string(nil), host.Attachments...)
	for _, id := range attached {
		ci, ok := gs.Cards[id]
		if !ok {
			continue
		}
		Detach(gs, ci)
		moveToDiscard(gs, ci)
	}
	host.Attachments = nil
}

// MoveToHand returns a live grid card to its owner's hand. Attachments go
// to the discard pile; the card's own attachments are shed the same way.
func MoveToHand(gs *state.GameState, ci *state.CardInstance) {
	DetachAll(gs, ci)
	if ci.HostID != "" {
		Detach(gs, ci)
	}
	if ci.Position != nil {
		delete(gs.Grid, *ci.Position)
		ci.Position = nil
	}
	ci.Exhausted = false
	ci.Statuses = nil
	ci.Zone = state.ZoneHand
	if owner, ok := gs.Player(ci.OwnerID); ok {
		owner.Hand = append(owner.Hand, ci.ID)
	}
}

// MoveToScore moves a live card into scorerID's score pile (GAIN_VP).
func MoveToScore(gs *state.GameState, ci *state.CardInstance, scorerID string) {
	DetachAll(gs, ci)
	if ci.HostID != "" {
		Detach(gs, ci)
	}
	if ci.Position != nil {
		delete(gs.Grid, *ci.Position)
		ci.Position = nil
	}
	if ci.IsDetritus {
		gs.Detritus, _ = state.RemoveID(gs.Detritus, ci.ID)
		ci.IsDetritus = false
	}
	ci.Statuses = nil
	ci.Zone = state.ZoneScore
	if scorer, ok := gs.Player(scorerID); ok {
		scorer.Score = append(scorer.Score, ci.ID)
	}
}

// PlaceOnGrid puts a card instance onto an empty cell.
func PlaceOnGrid(gs *state.GameState, ci *state.CardInstance, pos state.Position) {
	p := pos
	ci.Position = &p
	ci.Zone = state.ZoneGrid
	gs.Grid[pos] = ci.ID
}
