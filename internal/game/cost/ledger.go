package cost

import (
	"errors"
	"sort"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// ErrInsufficientResources is returned when a cost cannot be covered by the
// player's ready cards (plus the one detritus substitution, if applicable).
var ErrInsufficientResources = errors.New("insufficient resources")

// Ledger validates and pays resource costs by exhausting matching owned
// cards. Payment is all-or-nothing: a failed payment mutates nothing.
type Ledger struct {
	cat *catalog.Catalog
}

// NewLedger builds a ledger over the given catalog.
func NewLedger(cat *catalog.Catalog) *Ledger {
	return &Ledger{cat: cat}
}

// Pay covers reqs for playerID by exhausting matching ready cards on the
// grid. When the card being played is a saprotroph and the destination cell
// holds detritus, that detritus card may satisfy exactly one unit of a
// matching requirement without being exhausted (placement itself consumes
// it). On success exactly the consumed cards are exhausted; on failure the
// snapshot is untouched and ErrInsufficientResources is returned.
func (l *Ledger) Pay(gs *state.GameState, reqs []catalog.CostRequirement, playerID string, played *catalog.CardDefinition, pos state.Position) error {
	payers, err := l.plan(gs, reqs, playerID, played, pos)
	if err != nil {
		return err
	}
	for _, id := range payers {
		gs.Cards[id].Exhausted = true
	}
	return nil
}

// CanPay reports whether the cost could be paid without mutating anything.
func (l *Ledger) CanPay(gs *state.GameState, reqs []catalog.CostRequirement, playerID string, played *catalog.CardDefinition, pos state.Position) bool {
	_, err := l.plan(gs, reqs, playerID, played, pos)
	return err == nil
}

// plan selects the instance ids to exhaust, or fails without side effects.
func (l *Ledger) plan(gs *state.GameState, reqs []catalog.CostRequirement, playerID string, played *catalog.CardDefinition, pos state.Position) ([]string, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	substitution := l.detritusSubstitution(gs, played, pos)
	substitutionUsed := false

	var payers []string
	used := make(map[string]bool)

	for _, req := range reqs {
		needed := req.Count

		if substitution != nil && !substitutionUsed && l.matches(substitution, req) {
			substitutionUsed = true
			needed--
		}

		for _, id := range l.readyMatches(gs, playerID, req) {
			if needed == 0 {
				break
			}
			if used[id] {
				continue
			}
			used[id] = true
			payers = append(payers, id)
			needed--
		}

		if needed > 0 {
			return nil, ErrInsufficientResources
		}
	}

	return payers, nil
}

// detritusSubstitution returns the detritus card at pos when the played
// card is a saprotroph, else nil.
func (l *Ledger) detritusSubstitution(gs *state.GameState, played *catalog.CardDefinition, pos state.Position) *state.CardInstance {
	if played == nil || played.Category != catalog.CategorySaprotroph {
		return nil
	}
	occupant, ok := gs.CardAt(pos)
	if !ok || !occupant.IsDetritus {
		return nil
	}
	return occupant
}

// readyMatches returns the ids of the player's ready grid cards matching
// the requirement, in sorted order so payment is deterministic.
func (l *Ledger) readyMatches(gs *state.GameState, playerID string, req catalog.CostRequirement) []string {
	var ids []string
	for id, ci := range gs.Cards {
		if ci.OwnerID != playerID || ci.Zone != state.ZoneGrid {
			continue
		}
		if ci.IsHome || ci.IsDetritus || ci.Exhausted {
			continue
		}
		if l.matches(ci, req) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (l *Ledger) matches(ci *state.CardInstance, req catalog.CostRequirement) bool {
	def, ok := l.cat.Card(ci.DefinitionID)
	if !ok {
		return false
	}
	return def.Category == req.Category && def.Level() == req.Level
}
