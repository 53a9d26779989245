package effects

import (
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// Resolver matches triggers to card abilities and drives the interpreter.
//
// Failure policy is uniform across trigger kinds: once an ability's effect
// sequence has begun, a failing step aborts the rest of that ability and is
// logged, never propagated to the outer action. Only the pre-activation
// checks of a manual activation can fail the action itself.
type Resolver struct {
	cat         *catalog.Catalog
	interpreter *Interpreter
	logger      *zap.Logger
}

// NewResolver builds a resolver sharing the interpreter's catalog.
func NewResolver(cat *catalog.Catalog, interpreter *Interpreter, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{cat: cat, interpreter: interpreter, logger: logger}
}

// ResolveTrigger runs every ability of source matching the trigger kind.
// Misfires are logged and swallowed.
func (r *Resolver) ResolveTrigger(gs *state.GameState, trigger catalog.TriggerKind, source *state.CardInstance, actor string, rng *rand.Rand) {
	def, ok := r.cat.Card(source.DefinitionID)
	if !ok {
		r.logger.Warn("trigger source has no catalog definition",
			zap.String("instance_id", source.ID),
			zap.Int("definition_id", source.DefinitionID),
		)
		return
	}
	for _, abilityID := range def.AbilityIDs {
		ability, ok := r.cat.Ability(abilityID)
		if !ok || ability.Trigger != trigger {
			continue
		}
		ctx := &Context{State: gs, Source: source, Actor: actor, RNG: rng}
		if err := r.interpreter.Run(ability, ctx); err != nil {
			r.logger.Info("triggered ability aborted",
				zap.String("trigger", string(trigger)),
				zap.Int("ability_id", abilityID),
				zap.String("source", source.ID),
				zap.Error(err),
			)
		}
	}
}

// ResolveTurnTriggers fires ON_TURN_START or ON_TURN_END abilities on every
// grid card the active player owns, in instance-id order for determinism.
func (r *Resolver) ResolveTurnTriggers(gs *state.GameState, trigger catalog.TriggerKind, playerID string, rng *rand.Rand) {
	for _, ci := range r.ownedGridCards(gs, playerID) {
		r.ResolveTrigger(gs, trigger, ci, playerID, rng)
	}
}

// ResolvePassives re-evaluates PASSIVE abilities on every live grid card
// after a named game event.
func (r *Resolver) ResolvePassives(gs *state.GameState, rng *rand.Rand) {
	ids := make([]string, 0, len(gs.Grid))
	for _, id := range gs.Grid {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		ci := gs.Cards[id]
		if ci == nil || ci.IsHome || ci.IsDetritus {
			continue
		}
		r.ResolveTrigger(gs, catalog.TriggerPassive, ci, ci.OwnerID, rng)
	}
}

// Activate runs a manually activated ability. The pre-activation checks
// here are action validation: a non-nil error fails the outer action and
// leaves the snapshot untouched. Activation exhausts the source and
// deducts the declared energy cost before any effect runs.
func (r *Resolver) Activate(gs *state.GameState, source *state.CardInstance, abilityID int, manualTarget *state.CardInstance, actor string, rng *rand.Rand) error {
	def, ok := r.cat.Card(source.DefinitionID)
	if !ok {
		return fmt.Errorf("card definition %d not found in catalog", source.DefinitionID)
	}

	owned := false
	for _, id := range def.AbilityIDs {
		if id == abilityID {
			owned = true
			break
		}
	}
	if !owned {
		return fmt.Errorf("card %s has no ability %d", source.ID, abilityID)
	}

	ability, ok := r.cat.Ability(abilityID)
	if !ok {
		return fmt.Errorf("ability %d not found in catalog", abilityID)
	}
	if ability.Trigger != catalog.TriggerActivated {
		return fmt.Errorf("ability %d is not an activated ability", abilityID)
	}
	if source.Exhausted {
		return fmt.Errorf("card %s is exhausted and cannot activate abilities", source.ID)
	}

	// Target arity must match the ability's shape exactly.
	if ability.RequiresTarget() && manualTarget == nil {
		return fmt.Errorf("ability %d requires a target", abilityID)
	}
	if !ability.RequiresTarget() && manualTarget != nil {
		return fmt.Errorf("ability %d does not take a target", abilityID)
	}

	player, ok := gs.Player(actor)
	if !ok {
		return fmt.Errorf("player %s not found", actor)
	}
	if player.Energy < ability.EnergyCost {
		return fmt.Errorf("ability %d costs %d energy, %s has %d", abilityID, ability.EnergyCost, actor, player.Energy)
	}

	source.Exhausted = true
	player.Energy -= ability.EnergyCost

	ctx := &Context{State: gs, Source: source, Actor: actor, ManualTarget: manualTarget, RNG: rng}
	if err := r.interpreter.Run(ability, ctx); err != nil {
		// Costs stay paid; the misfire is the player's loss.
		r.logger.Info("activated ability aborted mid-sequence",
			zap.Int("ability_id", abilityID),
			zap.String("source", source.ID),
			zap.Error(err),
		)
	}
	return nil
}

func (r *Resolver) ownedGridCards(gs *state.GameState, playerID string) []*state.CardInstance {
	ids := make([]string, 0, len(gs.Cards))
	for id, ci := range gs.Cards {
		if ci.Zone != state.ZoneGrid || ci.OwnerID != playerID || ci.IsHome || ci.IsDetritus {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*state.CardInstance, 0, len(ids))
	for _, id := range ids {
		out = append(out, gs.Cards[id])
	}
	return out
}
