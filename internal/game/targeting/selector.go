package targeting

import (
	"math/rand"
	"sort"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// Selector computes candidate target sets for ability effects. Selection is
// deterministic: candidates are returned in instance-id order, and
// RANDOM_CARD draws from the injected generator, never ambient randomness.
type Selector struct {
	cat *catalog.Catalog
}

// NewSelector builds a selector over the given catalog.
func NewSelector(cat *catalog.Catalog) *Selector {
	return &Selector{cat: cat}
}

// Select resolves a selector kind into a filtered candidate set. source is
// the card whose ability is selecting; rng is consumed only by RANDOM_CARD.
func (s *Selector) Select(gs *state.GameState, source *state.CardInstance, kind catalog.SelectorKind, filter *catalog.TargetFilter, rng *rand.Rand) []*state.CardInstance {
	var candidates []*state.CardInstance

	switch kind {
	case catalog.SelectorAdjacent:
		candidates = s.adjacent(gs, source)
	case catalog.SelectorAdjacentToSharedAmphibious:
		candidates = s.adjacentThroughAmphibious(gs, source)
	case catalog.SelectorCardInDetritusZone:
		for _, id := range gs.Detritus {
			if ci, ok := gs.Cards[id]; ok {
				candidates = append(candidates, ci)
			}
		}
	case catalog.SelectorSelfHost:
		if source != nil && source.HostID != "" {
			if host, ok := gs.Cards[source.HostID]; ok {
				candidates = append(candidates, host)
			}
		}
	case catalog.SelectorAllCards:
		candidates = s.allLiveCards(gs)
	case catalog.SelectorRandomCard:
		pool := applyFilter(s.cat, s.allLiveCards(gs), filter)
		sortByID(pool)
		if len(pool) == 0 || rng == nil {
			return nil
		}
		return []*state.CardInstance{pool[rng.Intn(len(pool))]}
	default:
		return nil
	}

	candidates = applyFilter(s.cat, candidates, filter)
	sortByID(candidates)
	return candidates
}

// anchorPosition is where a card's adjacency is measured from; attachments
// borrow their host's cell.
func (s *Selector) anchorPosition(gs *state.GameState, ci *state.CardInstance) *state.Position {
	if ci == nil {
		return nil
	}
	if ci.Position != nil {
		return ci.Position
	}
	if ci.HostID != "" {
		if host, ok := gs.Cards[ci.HostID]; ok {
			return host.Position
		}
	}
	return nil
}

func (s *Selector) adjacent(gs *state.GameState, source *state.CardInstance) []*state.CardInstance {
	pos := s.anchorPosition(gs, source)
	if pos == nil {
		return nil
	}
	var out []*state.CardInstance
	for _, ci := range gs.OccupiedNeighbors(*pos) {
		if ci.IsHome {
			continue
		}
		out = append(out, ci)
	}
	return out
}

// adjacentThroughAmphibious reaches two hops out through an amphibious
// intermediary: any occupant adjacent to an amphibious neighbor of the
// source, excluding the source itself.
func (s *Selector) adjacentThroughAmphibious(gs *state.GameState, source *state.CardInstance) []*state.CardInstance {
	pos := s.anchorPosition(gs, source)
	if pos == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []*state.CardInstance
	for _, mid := range gs.OccupiedNeighbors(*pos) {
		if mid.IsHome || mid.IsDetritus || mid.Position == nil {
			continue
		}
		midDef, ok := s.cat.Card(mid.DefinitionID)
		if !ok || !midDef.Domain.IsAmphibious() {
			continue
		}
		for _, far := range gs.OccupiedNeighbors(*mid.Position) {
			if far.ID == source.ID || far.IsHome || seen[far.ID] {
				continue
			}
			seen[far.ID] = true
			out = append(out, far)
		}
	}
	return out
}

// allLiveCards returns every face-up occupant of the grid.
func (s *Selector) allLiveCards(gs *state.GameState) []*state.CardInstance {
	var out []*state.CardInstance
	for _, id := range sortedGridIDs(gs) {
		ci := gs.Cards[id]
		if ci.IsHome || ci.IsDetritus {
			continue
		}
		out = append(out, ci)
	}
	return out
}

func sortedGridIDs(gs *state.GameState) []string {
	ids := make([]string, 0, len(gs.Grid))
	for _, id := range gs.Grid {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// applyFilter narrows candidates by keyword, category, and trophic level.
func applyFilter(cat *catalog.Catalog, candidates []*state.CardInstance, filter *catalog.TargetFilter) []*state.CardInstance {
	if filter == nil {
		return candidates
	}
	var out []*state.CardInstance
	for _, ci := range candidates {
		def, ok := cat.Card(ci.DefinitionID)
		if !ok {
			continue
		}
		if filter.Keyword != "" && !def.HasKeyword(filter.Keyword) {
			continue
		}
		if filter.Category != "" && def.Category != filter.Category {
			continue
		}
		if filter.Level != nil && def.Level() != *filter.Level {
			continue
		}
		out = append(out, ci)
	}
	return out
}

func sortByID(cards []*state.CardInstance) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
}
