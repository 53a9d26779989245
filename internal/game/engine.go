package game

import (
	"errors"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/board"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/cost"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/effects"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/rules"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/targeting"
)

// Settings configures one game. The zero value is usable: defaults are
// filled in by NewEngine.
type Settings struct {
	GridWidth        int
	GridHeight       int
	ActionsPerTurn   int
	StartingHandSize int
	Seed             int64
}

func (s *Settings) applyDefaults() {
	if s.GridWidth <= 0 {
		s.GridWidth = 9
	}
	if s.GridHeight <= 0 {
		s.GridHeight = 10
	}
	if s.ActionsPerTurn <= 0 {
		s.ActionsPerTurn = 3
	}
	if s.StartingHandSize <= 0 {
		s.StartingHandSize = 5
	}
}

// PlayerSpec describes one seat: the deck is a list of catalog card ids,
// composed by an external layer (deck building is not the engine's job).
type PlayerSpec struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Deck []int  `yaml:"deck"`
}

// Engine owns the canonical snapshot of one game and is its only writer.
// It is single-threaded by contract: the hosting layer serializes access so
// that exactly one ProcessAction call is in flight per game, which is why
// there is no locking here. Every public operation runs to completion.
type Engine struct {
	logger      *zap.Logger
	cat         *catalog.Catalog
	settings    Settings
	turns       *rules.TurnMachine
	placement   *rules.PlacementValidator
	ledger      *cost.Ledger
	selector    *targeting.Selector
	interpreter *effects.Interpreter
	resolver    *effects.Resolver
	bus         *rules.EventBus
	rng         *rand.Rand
	current     *state.GameState
	replay      *Replay
	// working is the candidate snapshot of the in-flight action, visible
	// to event-bus subscribers.
	working *state.GameState
}

// NewEngine wires the rule components over a validated catalog. The seed in
// settings feeds every random draw the engine ever makes; two engines built
// from the same seed and fed the same actions produce identical snapshots.
func NewEngine(cat *catalog.Catalog, settings Settings, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.applyDefaults()

	selector := targeting.NewSelector(cat)
	interpreter := effects.NewInterpreter(cat, selector, logger)
	resolver := effects.NewResolver(cat, interpreter, logger)

	e := &Engine{
		logger:      logger,
		cat:         cat,
		settings:    settings,
		turns:       rules.NewTurnMachine(settings.ActionsPerTurn),
		placement:   rules.NewPlacementValidator(cat),
		ledger:      cost.NewLedger(cat),
		selector:    selector,
		interpreter: interpreter,
		resolver:    resolver,
		bus:         rules.NewEventBus(),
		rng:         rand.New(rand.NewSource(settings.Seed)),
	}

	interpreter.SetOnDeath(func(gs *state.GameState, dying *state.CardInstance, rng *rand.Rand) {
		resolver.ResolveTrigger(gs, catalog.TriggerOnDeath, dying, dying.OwnerID, rng)
	})
	interpreter.SetOnMove(func(gs *state.GameState, moved *state.CardInstance) {
		e.publish(gs, rules.NewEvent(rules.EventCardMoved, moved.ID, "", moved.OwnerID))
	})

	// Passive abilities re-evaluate on named game events.
	e.bus.Subscribe(func(event rules.Event) {
		switch event.Type {
		case rules.EventCardPlayed, rules.EventCardDestroyed, rules.EventCardMoved,
			rules.EventCardAttached, rules.EventDetritusScored,
			rules.EventTurnStarted, rules.EventTurnEnded:
			if e.working != nil {
				e.resolver.ResolvePassives(e.working, e.rng)
			}
		}
	})

	return e
}

// InitializeNewGame builds the SETUP snapshot: players seated, HOME anchors
// on the center row, decks registered but not yet dealt. Dealing happens
// when the last player readies up.
func (e *Engine) InitializeNewGame(gameID string, players []PlayerSpec) (*state.GameState, error) {
	if gameID == "" {
		return nil, errors.New("gameID is required")
	}
	if len(players) < 2 {
		return nil, errors.New("at least 2 players required")
	}

	gs := &state.GameState{
		GameID:        gameID,
		Players:       make([]*state.Player, 0, len(players)),
		Phase:         state.PhaseSetup,
		TurnPhase:     state.TurnPhaseNone,
		GridWidth:     e.settings.GridWidth,
		GridHeight:    e.settings.GridHeight,
		Cards:         make(map[string]*state.CardInstance),
		Grid:          make(map[state.Position]string),
		HomePositions: make(map[string]state.Position),
		Metadata:      make(map[string]string),
	}

	homeRow := e.settings.GridHeight / 2
	homeStart := e.settings.GridWidth/2 - len(players)/2

	for i, spec := range players {
		if spec.ID == "" {
			return nil, fmt.Errorf("player %d has no id", i)
		}
		for _, defID := range spec.Deck {
			if _, ok := e.cat.Card(defID); !ok {
				return nil, fmt.Errorf("player %s deck references unknown card %d", spec.ID, defID)
			}
		}
		player := &state.Player{ID: spec.ID, Name: spec.Name}
		if player.Name == "" {
			player.Name = spec.ID
		}
		gs.Players = append(gs.Players, player)

		// Deck instances are created up front with deterministic ids so
		// replays from the same seed hash identically.
		for n, defID := range spec.Deck {
			ci := &state.CardInstance{
				ID:           fmt.Sprintf("%s-card-%03d", spec.ID, n),
				DefinitionID: defID,
				OwnerID:      spec.ID,
				Zone:         state.ZoneDeck,
			}
			gs.Cards[ci.ID] = ci
			player.Deck = append(player.Deck, ci.ID)
		}

		homePos := state.Position{X: homeStart + i, Y: homeRow}
		home := &state.CardInstance{
			ID:           fmt.Sprintf("%s-home", spec.ID),
			DefinitionID: catalog.HomeDefinitionID,
			OwnerID:      spec.ID,
			Zone:         state.ZoneGrid,
			IsHome:       true,
		}
		gs.Cards[home.ID] = home
		board.PlaceOnGrid(gs, home, homePos)
		gs.HomePositions[spec.ID] = homePos
	}

	e.current = gs
	e.replay = NewReplay(gameID)
	e.replay.Record(gs)

	e.logger.Info("game initialized",
		zap.String("game_id", gameID),
		zap.Int("players", len(players)),
	)
	return gs, nil
}

// GameState returns the current canonical snapshot.
func (e *Engine) GameState() *state.GameState {
	return e.current
}

// ReplayLog returns the recorded snapshot trail.
func (e *Engine) ReplayLog() *Replay {
	return e.replay
}

// ProcessAction validates and applies one action. The canonical snapshot is
// never touched: a clone is mutated, and on any failure the clone is simply
// discarded, which is the entire rollback story.
func (e *Engine) ProcessAction(action Action) ActionResult {
	if e.current == nil {
		return invalid("game is not initialized")
	}

	candidate := e.current.Clone()
	e.working = candidate
	defer func() { e.working = nil }()

	var err error
	switch action.Type {
	case ActionPlayerReady:
		err = e.handlePlayerReady(candidate, action)
	case ActionPlayCard:
		err = e.handlePlayCard(candidate, action)
	case ActionActivateAbility:
		err = e.handleActivateAbility(candidate, action)
	case ActionPassTurn:
		err = e.handlePassTurn(candidate, action)
	case ActionForcePass:
		err = e.handleForcePass(candidate, action)
	case ActionDropAndDrawThree:
		err = e.handleDropAndDrawThree(candidate, action)
	case ActionRemoveCard:
		err = e.handleRemoveCard(candidate, action)
	case ActionMetamorphosis:
		err = e.handleMetamorphosis(candidate, action)
	case ActionMoveCard, ActionChallenge:
		err = fmt.Errorf("action %s is not implemented", action.Type)
	default:
		err = fmt.Errorf("unknown action type: %s", action.Type)
	}

	if err != nil {
		e.logger.Debug("action rejected",
			zap.String("game_id", e.current.GameID),
			zap.String("type", string(action.Type)),
			zap.String("player", action.PlayerID),
			zap.String("reason", err.Error()),
		)
		return invalid(err.Error())
	}

	e.current = candidate
	e.replay.Record(candidate)
	return ActionResult{Valid: true, NewState: candidate}
}

// handlePlayerReady marks a player ready during SETUP; the last ready deals
// every starting hand and hands the first player an action phase directly.
func (e *Engine) handlePlayerReady(gs *state.GameState, action Action) error {
	if gs.Phase != state.PhaseSetup {
		return errors.New("players can only ready up during setup")
	}
	player, ok := gs.Player(action.PlayerID)
	if !ok {
		return fmt.Errorf("player %s not found", action.PlayerID)
	}
	if player.Ready {
		return fmt.Errorf("player %s is already ready", action.PlayerID)
	}
	player.Ready = true

	if !e.turns.AllPlayersReady(gs) {
		return nil
	}

	for _, p := range gs.Players {
		e.shuffleDeck(p)
		e.turns.DrawCards(gs, p, e.settings.StartingHandSize)
	}
	e.turns.BeginPlaying(gs)
	e.publish(gs, rules.NewEvent(rules.EventPhaseChanged, "", "", gs.CurrentPlayer().ID))
	return nil
}

// shuffleDeck permutes a deck with the engine's seeded generator.
func (e *Engine) shuffleDeck(p *state.Player) {
	e.rng.Shuffle(len(p.Deck), func(i, j int) {
		p.Deck[i], p.Deck[j] = p.Deck[j], p.Deck[i]
	})
}

func (e *Engine) handlePlayCard(gs *state.GameState, action Action) error {
	if err := e.turns.CheckTiming(gs, action.PlayerID); err != nil {
		return err
	}
	if action.Position == nil {
		return errors.New("PLAY_CARD requires a position")
	}
	player, ok := gs.Player(action.PlayerID)
	if !ok {
		return fmt.Errorf("player %s not found", action.PlayerID)
	}
	if !state.ContainsID(player.Hand, action.CardID) {
		return fmt.Errorf("card %s is not in %s's hand", action.CardID, action.PlayerID)
	}
	ci, ok := gs.Card(action.CardID)
	if !ok {
		return e.inconsistency(gs, "card instance missing from state", action.CardID)
	}
	def, ok := e.cat.Card(ci.DefinitionID)
	if !ok {
		return e.inconsistency(gs, "card definition missing from catalog", action.CardID)
	}

	pos := *action.Position
	if err := e.placement.Validate(def, pos, gs); err != nil {
		return err
	}
	if err := e.ledger.Pay(gs, def.Cost, action.PlayerID, def, pos); err != nil {
		return err
	}

	player.Hand, _ = state.RemoveID(player.Hand, action.CardID)

	if def.Category.IsAttacher() {
		host, err := rules.FindHost(e.cat, def, pos, gs)
		if err != nil {
			return err
		}
		board.Attach(gs, ci, host, def.Category)
		e.publish(gs, rules.NewEvent(rules.EventCardAttached, ci.ID, host.ID, action.PlayerID))
	} else {
		// A saprotroph consumes the detritus beneath it: the dead card
		// moves to the acting player's score pile before the cell refills.
		if occupant, occupied := gs.CardAt(pos); occupied && occupant.IsDetritus {
			board.ScoreDetritus(gs, occupant, action.PlayerID)
			e.publish(gs, rules.NewEvent(rules.EventDetritusScored, ci.ID, occupant.ID, action.PlayerID))
		}
		board.PlaceOnGrid(gs, ci, pos)
	}

	e.resolver.ResolveTrigger(gs, catalog.TriggerOnPlay, ci, action.PlayerID, e.rng)
	e.publish(gs, rules.NewEvent(rules.EventCardPlayed, ci.ID, "", action.PlayerID))

	return e.consumeAction(gs)
}

func (e *Engine) handleActivateAbility(gs *state.GameState, action Action) error {
	if err := e.turns.CheckTiming(gs, action.PlayerID); err != nil {
		return err
	}
	source, ok := gs.Card(action.CardID)
	if !ok {
		return fmt.Errorf("card %s not found", action.CardID)
	}
	if source.Zone != state.ZoneGrid || source.IsHome || source.IsDetritus {
		return fmt.Errorf("card %s cannot activate abilities from its current zone", action.CardID)
	}
	if source.OwnerID != action.PlayerID {
		return fmt.Errorf("card %s does not belong to %s", action.CardID, action.PlayerID)
	}

	var target *state.CardInstance
	if action.TargetID != "" {
		target, ok = gs.Card(action.TargetID)
		if !ok {
			return fmt.Errorf("target %s not found", action.TargetID)
		}
	}

	if err := e.resolver.Activate(gs, source, action.AbilityID, target, action.PlayerID, e.rng); err != nil {
		return err
	}
	return e.consumeAction(gs)
}

func (e *Engine) handlePassTurn(gs *state.GameState, action Action) error {
	switch gs.Phase {
	case state.PhaseSetup:
		return errors.New("game has not started yet")
	case state.PhaseEnded:
		return errors.New("game has ended")
	}
	if current := gs.CurrentPlayer(); current == nil || current.ID != action.PlayerID {
		return fmt.Errorf("it is not %s's turn", action.PlayerID)
	}
	e.endTurn(gs)
	return nil
}

// handleForcePass is the host-driven variant of pass: the player id names
// whose turn is being forcibly ended, and it must still be that player's
// turn.
func (e *Engine) handleForcePass(gs *state.GameState, action Action) error {
	return e.handlePassTurn(gs, action)
}

func (e *Engine) handleDropAndDrawThree(gs *state.GameState, action Action) error {
	if err := e.turns.CheckTiming(gs, action.PlayerID); err != nil {
		return err
	}
	player, ok := gs.Player(action.PlayerID)
	if !ok {
		return fmt.Errorf("player %s not found", action.PlayerID)
	}
	if !state.ContainsID(player.Hand, action.CardID) {
		return fmt.Errorf("card %s is not in %s's hand", action.CardID, action.PlayerID)
	}

	player.Hand, _ = state.RemoveID(player.Hand, action.CardID)
	player.Discard = append(player.Discard, action.CardID)
	if ci, ok := gs.Card(action.CardID); ok {
		ci.Zone = state.ZoneDiscard
	}

	// Drawing short here is allowed; only the DRAW phase can flip the game
	// into FINAL_TURN.
	e.turns.DrawCards(gs, player, 3)
	return e.consumeAction(gs)
}

func (e *Engine) handleRemoveCard(gs *state.GameState, action Action) error {
	if err := e.turns.CheckTiming(gs, action.PlayerID); err != nil {
		return err
	}
	ci, ok := gs.Card(action.CardID)
	if !ok {
		return fmt.Errorf("card %s not found", action.CardID)
	}
	if ci.Zone != state.ZoneGrid || ci.IsHome {
		return fmt.Errorf("card %s cannot be removed", action.CardID)
	}
	if ci.IsDetritus {
		return errors.New("detritus cannot be removed; a saprotroph must decompose it")
	}
	if ci.OwnerID != action.PlayerID {
		return fmt.Errorf("card %s does not belong to %s", action.CardID, action.PlayerID)
	}

	board.ConvertToDetritus(gs, ci)
	e.resolver.ResolveTrigger(gs, catalog.TriggerOnDeath, ci, action.PlayerID, e.rng)
	e.publish(gs, rules.NewEvent(rules.EventCardDestroyed, ci.ID, "", action.PlayerID))
	return e.consumeAction(gs)
}

// handleMetamorphosis replaces a matching ready grid card with its next
// form from hand. The new form inherits the cell, the attachments, and
// the statuses those attachments source, and enters exhausted; the old
// form goes to its owner's discard pile clean.
func (e *Engine) handleMetamorphosis(gs *state.GameState, action Action) error {
	if err := e.turns.CheckTiming(gs, action.PlayerID); err != nil {
		return err
	}
	player, ok := gs.Player(action.PlayerID)
	if !ok {
		return fmt.Errorf("player %s not found", action.PlayerID)
	}
	if !state.ContainsID(player.Hand, action.CardID) {
		return fmt.Errorf("card %s is not in %s's hand", action.CardID, action.PlayerID)
	}
	next, ok := gs.Card(action.CardID)
	if !ok {
		return e.inconsistency(gs, "card instance missing from state", action.CardID)
	}
	nextDef, ok := e.cat.Card(next.DefinitionID)
	if !ok {
		return e.inconsistency(gs, "card definition missing from catalog", action.CardID)
	}
	if nextDef.MetamorphosesFrom == 0 {
		return fmt.Errorf("card %s has no metamorphosis", action.CardID)
	}

	old, ok := gs.Card(action.TargetID)
	if !ok {
		return fmt.Errorf("target %s not found", action.TargetID)
	}
	if old.Zone != state.ZoneGrid || old.Position == nil || old.IsHome || old.IsDetritus {
		return errors.New("metamorphosis target must occupy a grid cell")
	}
	if old.OwnerID != action.PlayerID {
		return fmt.Errorf("card %s does not belong to %s", action.TargetID, action.PlayerID)
	}
	if old.Exhausted {
		return errors.New("metamorphosis target must be ready")
	}
	if old.DefinitionID != nextDef.MetamorphosesFrom {
		return fmt.Errorf("card %s does not metamorphose from %s", action.CardID, action.TargetID)
	}

	pos := *old.Position
	if err := e.ledger.Pay(gs, nextDef.Cost, action.PlayerID, nextDef, pos); err != nil {
		return err
	}

	player.Hand, _ = state.RemoveID(player.Hand, action.CardID)

	// Hand over the cell and the attachments, then retire the old form.
	delete(gs.Grid, pos)
	old.Position = nil

	board.PlaceOnGrid(gs, next, pos)
	next.Exhausted = true
	board.TransferAttachments(gs, old, next)

	old.Zone = state.ZoneDiscard
	player.Discard = append(player.Discard, old.ID)

	e.resolver.ResolveTrigger(gs, catalog.TriggerOnPlay, next, action.PlayerID, e.rng)
	e.publish(gs, rules.NewEvent(rules.EventCardPlayed, next.ID, old.ID, action.PlayerID))
	return e.consumeAction(gs)
}

// consumeAction spends one action and auto-ends the turn at zero.
func (e *Engine) consumeAction(gs *state.GameState) error {
	if e.turns.ConsumeAction(gs) {
		e.endTurn(gs)
	}
	return nil
}

// endTurn fires end-of-turn triggers, advances the seat, and walks the
// READY/DRAW steps of following players until someone earns an action phase
// or the game ends.
func (e *Engine) endTurn(gs *state.GameState) {
	active := gs.CurrentPlayer()
	e.resolver.ResolveTurnTriggers(gs, catalog.TriggerOnTurnEnd, active.ID, e.rng)
	e.publish(gs, rules.NewEvent(rules.EventTurnEnded, "", "", active.ID))

	for {
		if e.turns.AdvanceTurn(gs) {
			e.finalize(gs)
			return
		}
		next := gs.CurrentPlayer()
		e.turns.ReadyStep(gs)
		e.resolver.ResolveTurnTriggers(gs, catalog.TriggerOnTurnStart, next.ID, e.rng)
		e.publish(gs, rules.NewEvent(rules.EventTurnStarted, "", "", next.ID))

		if e.turns.DrawStep(gs) {
			return
		}
		// Deck exhaustion: this turn ends with no action phase.
		e.resolver.ResolveTurnTriggers(gs, catalog.TriggerOnTurnEnd, next.ID, e.rng)
		e.publish(gs, rules.NewEvent(rules.EventTurnEnded, "", "", next.ID))
	}
}

// inconsistency reports a detected internal inconsistency as a normal
// validation failure after logging it for diagnostics.
func (e *Engine) inconsistency(gs *state.GameState, what, id string) error {
	e.logger.Error("internal inconsistency",
		zap.String("game_id", gs.GameID),
		zap.String("what", what),
		zap.String("id", id),
	)
	return fmt.Errorf("internal inconsistency: %s (%s)", what, id)
}

// publish delivers an event over the bus against the snapshot it came
// from, so subscribers always inspect the state that produced it.
func (e *Engine) publish(gs *state.GameState, event rules.Event) {
	e.working = gs
	e.logger.Debug("event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("source", event.SourceID),
		zap.String("player", event.PlayerID),
	)
	e.bus.Publish(event)
}
