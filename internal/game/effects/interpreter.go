package effects

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/board"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/targeting"
)

// Context carries everything one ability execution needs.
type Context struct {
	State  *state.GameState
	Source *state.CardInstance // card whose ability is running
	Actor  string              // player the ability acts for
	// ManualTarget is the explicitly supplied target of a manual
	// activation, nil for triggered executions.
	ManualTarget *state.CardInstance
	RNG          *rand.Rand
}

// Interpreter executes ability effect programs against a snapshot. Steps
// run in order; the first step that cannot find a required target or fails
// a precondition aborts the remainder of that ability only. Applied steps
// are never rolled back.
type Interpreter struct {
	cat      *catalog.Catalog
	selector *targeting.Selector
	logger   *zap.Logger
	// onDeath, when set, fires after a DESTROY_TARGET conversion so the
	// dying card's ON_DEATH abilities can run.
	onDeath func(*state.GameState, *state.CardInstance, *rand.Rand)
	// onMove, when set, fires after a MOVE_CARD relocation.
	onMove func(*state.GameState, *state.CardInstance)
}

// SetOnDeath installs the death-trigger hook.
func (in *Interpreter) SetOnDeath(hook func(*state.GameState, *state.CardInstance, *rand.Rand)) {
	in.onDeath = hook
}

// SetOnMove installs the relocation hook.
func (in *Interpreter) SetOnMove(hook func(*state.GameState, *state.CardInstance)) {
	in.onMove = hook
}

// NewInterpreter builds an interpreter over the catalog.
func NewInterpreter(cat *catalog.Catalog, selector *targeting.Selector, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{cat: cat, selector: selector, logger: logger}
}

// Run executes every step of the ability. The returned error reports why
// execution stopped early; callers treat it as a logged misfire, not an
// action failure.
func (in *Interpreter) Run(ability *catalog.AbilityDefinition, ctx *Context) error {
	for i := range ability.Steps {
		if err := in.runStep(&ability.Steps[i], ctx); err != nil {
			in.logger.Debug("ability misfire",
				zap.Int("ability_id", ability.ID),
				zap.Int("step", i),
				zap.String("kind", string(ability.Steps[i].Kind)),
				zap.Error(err),
			)
			return fmt.Errorf("step %d (%s): %w", i, ability.Steps[i].Kind, err)
		}
	}
	return nil
}

func (in *Interpreter) runStep(step *catalog.EffectStep, ctx *Context) error {
	switch step.Kind {
	case catalog.EffectTarget:
		return in.runTargetStep(step, ctx)
	case catalog.EffectGainEnergy:
		return in.gainEnergy(ctx, valueOr(step.Value, 1))
	case catalog.EffectLoseEnergy:
		return in.loseEnergy(ctx, valueOr(step.Value, 1))
	case catalog.EffectDrawCard:
		return in.drawCards(ctx, valueOr(step.Value, 1))
	case catalog.EffectDiscardCard:
		return in.discardCards(ctx, valueOr(step.Value, 1))
	default:
		// Card-directed operation: resolve its target set, then apply.
		targets, err := in.resolveTargets(step, ctx)
		if err != nil {
			return err
		}
		for _, target := range targets {
			if err := in.applyToCard(step, ctx, target); err != nil {
				return err
			}
		}
		return nil
	}
}

// runTargetStep selects targets and applies the sub-action to each.
func (in *Interpreter) runTargetStep(step *catalog.EffectStep, ctx *Context) error {
	targets, err := in.selectFor(step, ctx)
	if err != nil {
		return err
	}
	for _, target := range targets {
		if err := in.applyToCard(step.Sub, ctx, target); err != nil {
			return err
		}
	}
	return nil
}

// resolveTargets finds the cards a non-TARGET, card-directed step acts on:
// its own selector if declared, otherwise the manual target.
func (in *Interpreter) resolveTargets(step *catalog.EffectStep, ctx *Context) ([]*state.CardInstance, error) {
	if step.Selector != catalog.SelectorNone {
		return in.selectFor(step, ctx)
	}
	if ctx.ManualTarget != nil {
		return []*state.CardInstance{ctx.ManualTarget}, nil
	}
	return nil, fmt.Errorf("%s requires a target", step.Kind)
}

// selectFor runs the step's selector. A manual target narrows the
// candidate set to itself and must be a member of it.
func (in *Interpreter) selectFor(step *catalog.EffectStep, ctx *Context) ([]*state.CardInstance, error) {
	candidates := in.selector.Select(ctx.State, ctx.Source, step.Selector, step.Filter, ctx.RNG)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("selector %s found no targets", step.Selector)
	}
	if ctx.ManualTarget == nil {
		return candidates, nil
	}
	for _, ci := range candidates {
		if ci.ID == ctx.ManualTarget.ID {
			return []*state.CardInstance{ci}, nil
		}
	}
	return nil, errors.New("chosen target is not a legal target for this ability")
}

func (in *Interpreter) applyToCard(step *catalog.EffectStep, ctx *Context, target *state.CardInstance) error {
	switch step.Kind {
	case catalog.EffectExhaustTarget:
		target.Exhausted = true
	case catalog.EffectReadyTarget:
		target.Exhausted = false
	case catalog.EffectDestroyTarget:
		if target.IsHome {
			return errors.New("HOME cannot be destroyed")
		}
		if target.IsDetritus {
			return errors.New("target is already detritus")
		}
		board.ConvertToDetritus(ctx.State, target)
		if in.onDeath != nil {
			in.onDeath(ctx.State, target, ctx.RNG)
		}
	case catalog.EffectApplyStatus:
		kind := step.Status
		if kind == "" {
			kind = catalog.StatusGeneric
		}
		target.Statuses = append(target.Statuses, state.StatusEffect{
			Kind:     kind,
			Duration: durationOr(step.Value),
			SourceID: ctx.Source.ID,
		})
	case catalog.EffectPreventReady:
		target.Statuses = append(target.Statuses, state.StatusEffect{
			Kind:     catalog.StatusPreventReady,
			Duration: valueOr(step.Value, 1),
			SourceID: ctx.Source.ID,
		})
	case catalog.EffectMoveToHand:
		if target.IsDetritus || target.IsHome {
			return errors.New("target cannot return to hand")
		}
		board.MoveToHand(ctx.State, target)
	case catalog.EffectGainVP:
		if target.IsHome {
			return errors.New("HOME cannot be scored")
		}
		board.MoveToScore(ctx.State, target, ctx.Actor)
	case catalog.EffectTakeCardFromZone:
		return in.takeFromZone(ctx, target)
	case catalog.EffectMoveCard:
		return in.relocate(ctx, target)
	default:
		return fmt.Errorf("effect %s cannot act on a card target", step.Kind)
	}
	return nil
}

// takeFromZone pulls a card out of the detritus or discard zone into the
// actor's hand.
func (in *Interpreter) takeFromZone(ctx *Context, target *state.CardInstance) error {
	if target.IsDetritus {
		board.RemoveFromDetritus(ctx.State, target, ctx.Actor)
		return nil
	}
	if target.Zone == state.ZoneDiscard {
		if owner, ok := ctx.State.Player(target.OwnerID); ok {
			owner.Discard, _ = state.RemoveID(owner.Discard, target.ID)
		}
		target.Zone = state.ZoneHand
		if actor, ok := ctx.State.Player(ctx.Actor); ok {
			actor.Hand = append(actor.Hand, target.ID)
		}
		return nil
	}
	return errors.New("target is not in a takeable zone")
}

// relocate moves a grid card to the first empty adjacent cell, scanning
// neighbors in a fixed order so the move is deterministic.
func (in *Interpreter) relocate(ctx *Context, target *state.CardInstance) error {
	if target.Position == nil {
		return errors.New("target does not occupy a cell")
	}
	neighbors := target.Position.Neighbors()
	empty := make([]state.Position, 0, len(neighbors))
	for _, n := range neighbors {
		if !ctx.State.InBounds(n) {
			continue
		}
		if _, occupied := ctx.State.CardAt(n); occupied {
			continue
		}
		empty = append(empty, n)
	}
	if len(empty) == 0 {
		return errors.New("no empty adjacent cell to move to")
	}
	sort.Slice(empty, func(i, j int) bool {
		if empty[i].Y != empty[j].Y {
			return empty[i].Y < empty[j].Y
		}
		return empty[i].X < empty[j].X
	})
	delete(ctx.State.Grid, *target.Position)
	board.PlaceOnGrid(ctx.State, target, empty[0])
	if in.onMove != nil {
		in.onMove(ctx.State, target)
	}
	return nil
}

func (in *Interpreter) gainEnergy(ctx *Context, amount int) error {
	player, ok := ctx.State.Player(ctx.Actor)
	if !ok {
		return fmt.Errorf("player %s not found", ctx.Actor)
	}
	player.Energy += amount
	return nil
}

// loseEnergy floors at zero rather than failing.
func (in *Interpreter) loseEnergy(ctx *Context, amount int) error {
	player, ok := ctx.State.Player(ctx.Actor)
	if !ok {
		return fmt.Errorf("player %s not found", ctx.Actor)
	}
	player.Energy -= amount
	if player.Energy < 0 {
		player.Energy = 0
	}
	return nil
}

func (in *Interpreter) drawCards(ctx *Context, n int) error {
	player, ok := ctx.State.Player(ctx.Actor)
	if !ok {
		return fmt.Errorf("player %s not found", ctx.Actor)
	}
	if len(player.Deck) == 0 {
		return errors.New("deck is empty")
	}
	for i := 0; i < n && len(player.Deck) > 0; i++ {
		id := player.Deck[len(player.Deck)-1]
		player.Deck = player.Deck[:len(player.Deck)-1]
		player.Hand = append(player.Hand, id)
		if ci, ok := ctx.State.Cards[id]; ok {
			ci.Zone = state.ZoneHand
		}
	}
	return nil
}

// discardCards discards from the front of the actor's hand.
func (in *Interpreter) discardCards(ctx *Context, n int) error {
	player, ok := ctx.State.Player(ctx.Actor)
	if !ok {
		return fmt.Errorf("player %s not found", ctx.Actor)
	}
	if len(player.Hand) == 0 {
		return errors.New("hand is empty")
	}
	for i := 0; i < n && len(player.Hand) > 0; i++ {
		id := player.Hand[0]
		player.Hand = player.Hand[1:]
		player.Discard = append(player.Discard, id)
		if ci, ok := ctx.State.Cards[id]; ok {
			ci.Zone = state.ZoneDiscard
		}
	}
	return nil
}

func valueOr(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func durationOr(v int) int {
	if v <= 0 {
		return state.PermanentDuration
	}
	return v
}
