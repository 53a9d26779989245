package rules

import (
	"errors"
	"fmt"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// Keywords gating the chemoautotroph's alternate connection routes.
const (
	KeywordSaprotrophRoute  = "SAPROTROPH_ROUTE"
	KeywordDetritivoreRoute = "DETRITIVORE_ROUTE"
)

// PlacementValidator evaluates whether a card may occupy or attach at a
// grid position. It is a pure check: no state is written here, and every
// failure carries a specific reason.
type PlacementValidator struct {
	cat *catalog.Catalog
}

// NewPlacementValidator builds a validator over the given catalog.
func NewPlacementValidator(cat *catalog.Catalog) *PlacementValidator {
	return &PlacementValidator{cat: cat}
}

// Validate checks placement of def at pos against the snapshot. A nil
// return means the placement is legal.
func (v *PlacementValidator) Validate(def *catalog.CardDefinition, pos state.Position, gs *state.GameState) error {
	if !gs.InBounds(pos) {
		return fmt.Errorf("position %s is out of bounds", pos)
	}

	occupant, occupied := gs.CardAt(pos)

	// Saprotrophs only ever replace detritus; nothing else may touch a
	// detritus cell.
	if def.Category == catalog.CategorySaprotroph {
		if !occupied || !occupant.IsDetritus {
			return errors.New("saprotroph must be placed on a detritus cell")
		}
	} else if occupied {
		if occupant.IsDetritus {
			return errors.New("only a saprotroph may occupy a detritus cell")
		}
		if !def.Category.IsAttacher() {
			return fmt.Errorf("position %s is already occupied", pos)
		}
	}

	// Parasites and mutualists need a host, not a chain.
	if def.Category.IsAttacher() {
		_, err := FindHost(v.cat, def, pos, gs)
		return err
	}

	// First card on an otherwise-empty board needs no connection.
	if gs.GridEmpty() {
		return nil
	}

	neighbors := v.liveNeighbors(pos, gs)
	if len(neighbors) == 0 && def.Category != catalog.CategorySaprotroph {
		return fmt.Errorf("position %s has no adjacent cards to connect to", pos)
	}

	switch def.Category {
	case catalog.CategoryPhotoautotroph:
		return v.validateProducer(def, neighbors, false)
	case catalog.CategoryChemoautotroph:
		return v.validateProducer(def, neighbors, true)
	case catalog.CategorySaprotroph:
		// Occupancy rule above is the whole placement story for saprotrophs.
		return nil
	case catalog.CategoryDetritivore:
		return v.validateDetritivore(def, neighbors)
	default:
		return v.validateConsumer(def, neighbors)
	}
}

// liveNeighbors returns adjacent occupants that can anchor a connection.
// Detritus is face-down and supports no chain.
func (v *PlacementValidator) liveNeighbors(pos state.Position, gs *state.GameState) []*state.CardInstance {
	var out []*state.CardInstance
	for _, ci := range gs.OccupiedNeighbors(pos) {
		if ci.IsDetritus {
			continue
		}
		out = append(out, ci)
	}
	return out
}

// neighborDomain resolves a neighbor's habitat domain, treating HOME
// anchors as the universally compatible HOME domain.
func (v *PlacementValidator) neighborDomain(ci *state.CardInstance) (catalog.Domain, *catalog.CardDefinition, bool) {
	if ci.IsHome {
		return catalog.DomainHome, nil, true
	}
	def, ok := v.cat.Card(ci.DefinitionID)
	if !ok {
		return "", nil, false
	}
	return def.Domain, def, true
}

func (v *PlacementValidator) validateProducer(def *catalog.CardDefinition, neighbors []*state.CardInstance, chemo bool) error {
	for _, ci := range neighbors {
		nd, ndef, ok := v.neighborDomain(ci)
		if !ok || !DomainsCompatible(def.Domain, nd) {
			continue
		}
		if ci.IsHome {
			return nil
		}
		if ndef.Category.IsProducer() {
			return nil
		}
		if chemo {
			if ndef.Category == catalog.CategorySaprotroph && def.HasKeyword(KeywordSaprotrophRoute) {
				return nil
			}
			if ndef.Category == catalog.CategoryDetritivore && def.HasKeyword(KeywordDetritivoreRoute) {
				return nil
			}
		}
	}
	return errors.New("producer must connect to HOME or other producers")
}

func (v *PlacementValidator) validateDetritivore(def *catalog.CardDefinition, neighbors []*state.CardInstance) error {
	for _, ci := range neighbors {
		nd, ndef, ok := v.neighborDomain(ci)
		if !ok || ndef == nil {
			continue
		}
		if ndef.Category == catalog.CategorySaprotroph && DomainsCompatible(def.Domain, nd) {
			return nil
		}
	}
	return errors.New("detritivore must be adjacent to a saprotroph")
}

// validateConsumer enforces the trophic-chain rule for consumers: at least
// one domain-compatible neighbor at exactly one trophic level below.
func (v *PlacementValidator) validateConsumer(def *catalog.CardDefinition, neighbors []*state.CardInstance) error {
	level := def.Level()
	if level <= 1 {
		// No chain requirement below consumer tiers beyond a compatible
		// neighbor to sit next to.
		for _, ci := range neighbors {
			nd, _, ok := v.neighborDomain(ci)
			if ok && DomainsCompatible(def.Domain, nd) {
				return nil
			}
		}
		return errors.New("no domain-compatible adjacent card")
	}

	foundPrey := false
	for _, ci := range neighbors {
		nd, ndef, ok := v.neighborDomain(ci)
		if !ok || ndef == nil {
			continue
		}
		if ndef.Level() != level-1 {
			continue
		}
		foundPrey = true
		if DomainsCompatible(def.Domain, nd) {
			return nil
		}
	}
	if foundPrey {
		return fmt.Errorf("adjacent prey at trophic level %d is not domain-compatible", level-1)
	}
	return fmt.Errorf("requires an adjacent card at trophic level %d", level-1)
}

// FindHost resolves the host a parasite or mutualist attaches to when
// played at pos: the occupant of pos itself if suitable, otherwise the
// first suitable occupant of an adjacent cell (scanned in neighbor order).
// Parasites demand a non-producer host above trophic level 1; mutualists
// demand a producer.
func FindHost(cat *catalog.Catalog, def *catalog.CardDefinition, pos state.Position, gs *state.GameState) (*state.CardInstance, error) {
	candidates := make([]*state.CardInstance, 0, 5)
	if ci, ok := gs.CardAt(pos); ok {
		candidates = append(candidates, ci)
	}
	for _, n := range pos.Neighbors() {
		if !gs.InBounds(n) {
			continue
		}
		if ci, ok := gs.CardAt(n); ok {
			candidates = append(candidates, ci)
		}
	}

	for _, ci := range candidates {
		if ci.IsHome || ci.IsDetritus {
			continue
		}
		hostDef, ok := cat.Card(ci.DefinitionID)
		if !ok {
			continue
		}
		if !DomainsCompatible(def.Domain, hostDef.Domain) {
			continue
		}
		switch def.Category {
		case catalog.CategoryParasite:
			if !hostDef.Category.IsProducer() && hostDef.Level() > 1 {
				return ci, nil
			}
		case catalog.CategoryMutualist:
			if hostDef.Category.IsProducer() {
				return ci, nil
			}
		}
	}

	if def.Category == catalog.CategoryParasite {
		return nil, errors.New("parasite requires a domain-compatible consumer host")
	}
	return nil, errors.New("mutualist requires a domain-compatible producer host")
}
