package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

func lvl(n int) *int { return &n }

const (
	defOak         = 1
	defRabbit      = 2
	defMushroom    = 3
	defTick        = 4
	defCaterpillar = 11
	defButterfly   = 12

	abilityBask = 20
)

func engineCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]catalog.CardDefinition{
			{ID: defOak, Name: "Oak", TrophicLevel: lvl(1), Category: catalog.CategoryPhotoautotroph, Domain: catalog.DomainTerrestrial},
			{ID: defRabbit, Name: "Rabbit", TrophicLevel: lvl(2), Category: catalog.CategoryHerbivore, Domain: catalog.DomainTerrestrial,
				Cost:          []catalog.CostRequirement{{Category: catalog.CategoryPhotoautotroph, Level: 1, Count: 1}},
				AbilityIDs:    []int{abilityBask},
				VictoryPoints: 2},
			{ID: defMushroom, Name: "Mushroom", TrophicLevel: lvl(1), Category: catalog.CategorySaprotroph, Domain: catalog.DomainTerrestrial},
			{ID: defTick, Name: "Tick", Category: catalog.CategoryParasite, Domain: catalog.DomainTerrestrial},
			{ID: defCaterpillar, Name: "Caterpillar", TrophicLevel: lvl(2), Category: catalog.CategoryHerbivore, Domain: catalog.DomainTerrestrial},
			{ID: defButterfly, Name: "Butterfly", TrophicLevel: lvl(2), Category: catalog.CategoryHerbivore, Domain: catalog.DomainTerrestrial,
				Cost:              []catalog.CostRequirement{{Category: catalog.CategoryPhotoautotroph, Level: 1, Count: 1}},
				MetamorphosesFrom: defCaterpillar,
				VictoryPoints:     3},
		},
		[]catalog.AbilityDefinition{
			{ID: abilityBask, Name: "Bask", Trigger: catalog.TriggerActivated, Steps: []catalog.EffectStep{
				{Kind: catalog.EffectGainEnergy, Value: 2},
			}},
		},
	)
	require.NoError(t, err)
	return cat
}

// startedEngine initializes a two-player game with the given decks and
// readies both players, leaving p1 in its ACTION phase.
func startedEngine(t *testing.T, deck1, deck2 []int) *Engine {
	t.Helper()
	e := NewEngine(engineCatalog(t), Settings{Seed: 42, StartingHandSize: 2}, nil)
	_, err := e.InitializeNewGame("test-game", []PlayerSpec{
		{ID: "p1", Deck: deck1},
		{ID: "p2", Deck: deck2},
	})
	require.NoError(t, err)

	require.True(t, e.ProcessAction(Action{Type: ActionPlayerReady, PlayerID: "p1"}).Valid)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayerReady, PlayerID: "p2"}).Valid)
	return e
}

// handCard pulls an instance of defID into the player's hand, fetching it
// from the deck when the shuffle left it there.
func handCard(t *testing.T, e *Engine, playerID string, defID int) string {
	t.Helper()
	gs := e.current
	player, ok := gs.Player(playerID)
	require.True(t, ok)

	for _, id := range player.Hand {
		if gs.Cards[id].DefinitionID == defID {
			return id
		}
	}
	for i, id := range player.Deck {
		if gs.Cards[id].DefinitionID == defID {
			player.Deck = append(player.Deck[:i], player.Deck[i+1:]...)
			player.Hand = append(player.Hand, id)
			gs.Cards[id].Zone = state.ZoneHand
			return id
		}
	}
	t.Fatalf("player %s has no card with definition %d", playerID, defID)
	return ""
}

func pos(x, y int) *state.Position { return &state.Position{X: x, Y: y} }

func TestInitializeNewGame(t *testing.T) {
	e := NewEngine(engineCatalog(t), Settings{Seed: 1}, nil)

	gs, err := e.InitializeNewGame("g", []PlayerSpec{
		{ID: "p1", Deck: []int{defOak, defOak}},
		{ID: "p2", Deck: []int{defOak, defOak}},
	})
	require.NoError(t, err)

	assert.Equal(t, state.PhaseSetup, gs.Phase)
	assert.Len(t, gs.HomePositions, 2)
	// HOME anchors sit side by side on the center row.
	assert.Equal(t, state.Position{X: 3, Y: 5}, gs.HomePositions["p1"])
	assert.Equal(t, state.Position{X: 4, Y: 5}, gs.HomePositions["p2"])
	home, ok := gs.CardAt(state.Position{X: 3, Y: 5})
	require.True(t, ok)
	assert.True(t, home.IsHome)

	// Deterministic instance ids.
	assert.Contains(t, gs.Cards, "p1-card-000")
	assert.Contains(t, gs.Cards, "p2-card-001")

	assert.Len(t, e.ReplayLog().Entries, 1, "initial snapshot recorded")
}

func TestInitializeNewGameRejectsBadInput(t *testing.T) {
	e := NewEngine(engineCatalog(t), Settings{}, nil)

	_, err := e.InitializeNewGame("g", []PlayerSpec{{ID: "solo"}})
	assert.Error(t, err)

	_, err = e.InitializeNewGame("g", []PlayerSpec{
		{ID: "p1", Deck: []int{999}},
		{ID: "p2"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown card 999")
}

func TestSetupFlow(t *testing.T) {
	e := NewEngine(engineCatalog(t), Settings{Seed: 42, StartingHandSize: 2}, nil)
	_, err := e.InitializeNewGame("g", []PlayerSpec{
		{ID: "p1", Deck: []int{defOak, defOak, defOak}},
		{ID: "p2", Deck: []int{defOak, defOak, defOak}},
	})
	require.NoError(t, err)

	// No play before setup completes.
	res := e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: "p1-card-000", Position: pos(3, 4)})
	assert.False(t, res.Valid)

	require.True(t, e.ProcessAction(Action{Type: ActionPlayerReady, PlayerID: "p1"}).Valid)
	assert.Equal(t, state.PhaseSetup, e.GameState().Phase, "one ready is not enough")

	res = e.ProcessAction(Action{Type: ActionPlayerReady, PlayerID: "p1"})
	assert.False(t, res.Valid, "double ready is rejected")

	require.True(t, e.ProcessAction(Action{Type: ActionPlayerReady, PlayerID: "p2"}).Valid)

	gs := e.GameState()
	assert.Equal(t, state.PhasePlaying, gs.Phase)
	assert.Equal(t, state.TurnPhaseAction, gs.TurnPhase)
	assert.Equal(t, "p1", gs.CurrentPlayer().ID)
	assert.Equal(t, 3, gs.ActionsRemaining)
	for _, p := range gs.Players {
		assert.Len(t, p.Hand, 2)
		assert.Len(t, p.Deck, 1)
	}
}

func TestPlayCardHappyPath(t *testing.T) {
	e := startedEngine(t, []int{defOak, defOak, defOak}, []int{defOak, defOak, defOak})
	oak := handCard(t, e, "p1", defOak)

	res := e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)})
	require.True(t, res.Valid, res.ErrorMessage)

	gs := res.NewState
	placed, ok := gs.CardAt(state.Position{X: 3, Y: 4})
	require.True(t, ok)
	assert.Equal(t, oak, placed.ID)
	assert.False(t, placed.Exhausted, "played cards enter ready")
	assert.Equal(t, 2, gs.ActionsRemaining)
	p1, _ := gs.Player("p1")
	assert.False(t, state.ContainsID(p1.Hand, oak))
}

func TestPlayCardRejectionLeavesStateUntouched(t *testing.T) {
	e := startedEngine(t, []int{defOak, defOak, defOak}, []int{defOak, defOak, defOak})
	oak := handCard(t, e, "p1", defOak)
	before := e.GameState().Checksum()

	// Far from every anchor: placement fails.
	res := e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(0, 0)})
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.ErrorMessage)
	assert.Nil(t, res.NewState)

	assert.Equal(t, before, e.GameState().Checksum(), "rejected actions mutate nothing")
	assert.Len(t, e.ReplayLog().Entries, 3, "rejected actions record no snapshot")
}

func TestPlayCardPaysCostByExhausting(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defRabbit, defRabbit},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)

	rabbit := handCard(t, e, "p1", defRabbit)
	res := e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: rabbit, Position: pos(2, 4)})
	require.True(t, res.Valid, res.ErrorMessage)

	gs := res.NewState
	oakCI, _ := gs.Card(oak)
	assert.True(t, oakCI.Exhausted, "the producer paid the rabbit's cost")

	// The oak is spent now, so a second rabbit is unaffordable.
	second := handCard(t, e, "p1", defRabbit)
	res = e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: second, Position: pos(3, 3)})
	require.False(t, res.Valid)
	assert.Contains(t, res.ErrorMessage, "insufficient resources")
}

func TestRemoveCardAndSaprotrophScoring(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defMushroom, defOak},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)

	res := e.ProcessAction(Action{Type: ActionRemoveCard, PlayerID: "p1", CardID: oak})
	require.True(t, res.Valid, res.ErrorMessage)

	gs := res.NewState
	corpse, _ := gs.Card(oak)
	assert.True(t, corpse.IsDetritus, "removed cards become detritus, not deleted")
	assert.True(t, corpse.Exhausted)
	require.NotNil(t, corpse.Position)
	assert.Equal(t, state.Position{X: 3, Y: 4}, *corpse.Position, "detritus keeps its cell")

	// A saprotroph placed on the corpse decomposes it into the score pile.
	shroom := handCard(t, e, "p1", defMushroom)
	res = e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: shroom, Position: pos(3, 4)})
	require.True(t, res.Valid, res.ErrorMessage)

	gs = res.NewState
	p1, _ := gs.Player("p1")
	assert.True(t, state.ContainsID(p1.Score, oak), "the decomposer's owner scores the corpse")
	assert.False(t, state.ContainsID(gs.Detritus, oak))
	occupant, ok := gs.CardAt(state.Position{X: 3, Y: 4})
	require.True(t, ok)
	assert.Equal(t, shroom, occupant.ID, "the saprotroph takes the cell")
}

func TestDetritusCannotBeRemoved(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defOak, defOak},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)
	require.True(t, e.ProcessAction(Action{Type: ActionRemoveCard, PlayerID: "p1", CardID: oak}).Valid)

	res := e.ProcessAction(Action{Type: ActionRemoveCard, PlayerID: "p1", CardID: oak})
	require.False(t, res.Valid)
	assert.Contains(t, res.ErrorMessage, "saprotroph must decompose it")
}

func TestParasiteAttachment(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defRabbit, defTick},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)
	rabbit := handCard(t, e, "p1", defRabbit)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: rabbit, Position: pos(2, 4)}).Valid)

	tick := handCard(t, e, "p1", defTick)
	res := e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: tick, Position: pos(2, 4)})
	require.True(t, res.Valid, res.ErrorMessage)

	gs := res.NewState
	tickCI, _ := gs.Card(tick)
	rabbitCI, _ := gs.Card(rabbit)

	assert.Equal(t, rabbit, tickCI.HostID)
	assert.Nil(t, tickCI.Position, "attachments occupy no cell")
	assert.True(t, state.ContainsID(rabbitCI.Attachments, tick))
	assert.True(t, rabbitCI.HasStatus(catalog.StatusParasiteDrain))

	// The rabbit still holds its cell.
	occupant, ok := gs.CardAt(state.Position{X: 2, Y: 4})
	require.True(t, ok)
	assert.Equal(t, rabbit, occupant.ID)
}

func TestActivateAbilityThroughEngine(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defRabbit, defOak},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)
	rabbit := handCard(t, e, "p1", defRabbit)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: rabbit, Position: pos(2, 4)}).Valid)

	res := e.ProcessAction(Action{Type: ActionActivateAbility, PlayerID: "p1", CardID: rabbit, AbilityID: abilityBask})
	require.True(t, res.Valid, res.ErrorMessage)

	gs := res.NewState
	rabbitCI, _ := gs.Card(rabbit)
	assert.True(t, rabbitCI.Exhausted, "activation exhausts the source")
	p1, _ := gs.Player("p1")
	assert.Equal(t, 2, p1.Energy)
}

func TestMetamorphosis(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defCaterpillar, defButterfly},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)
	caterpillar := handCard(t, e, "p1", defCaterpillar)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: caterpillar, Position: pos(2, 4)}).Valid)

	butterfly := handCard(t, e, "p1", defButterfly)
	res := e.ProcessAction(Action{Type: ActionMetamorphosis, PlayerID: "p1", CardID: butterfly, TargetID: caterpillar})
	require.True(t, res.Valid, res.ErrorMessage)

	gs := res.NewState
	occupant, ok := gs.CardAt(state.Position{X: 2, Y: 4})
	require.True(t, ok)
	assert.Equal(t, butterfly, occupant.ID, "the next form takes the cell")
	assert.True(t, occupant.Exhausted, "metamorphosed cards enter exhausted")

	oakCI, _ := gs.Card(oak)
	assert.True(t, oakCI.Exhausted, "metamorphosis pays the new form's cost")

	p1, _ := gs.Player("p1")
	assert.True(t, state.ContainsID(p1.Discard, caterpillar), "the old form is discarded")
	caterpillarCI, _ := gs.Card(caterpillar)
	assert.Nil(t, caterpillarCI.Position)
}

func TestMetamorphosisCarriesAttachments(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defCaterpillar, defTick, defButterfly},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)
	caterpillar := handCard(t, e, "p1", defCaterpillar)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: caterpillar, Position: pos(2, 4)}).Valid)
	tick := handCard(t, e, "p1", defTick)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: tick, Position: pos(2, 4)}).Valid)

	// New turn: the caterpillar readies and the oak can pay again.
	require.True(t, e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p2"}).Valid)

	butterfly := handCard(t, e, "p1", defButterfly)
	res := e.ProcessAction(Action{Type: ActionMetamorphosis, PlayerID: "p1", CardID: butterfly, TargetID: caterpillar})
	require.True(t, res.Valid, res.ErrorMessage)

	gs := res.NewState
	butterflyCI, _ := gs.Card(butterfly)
	tickCI, _ := gs.Card(tick)
	caterpillarCI, _ := gs.Card(caterpillar)

	assert.True(t, state.ContainsID(butterflyCI.Attachments, tick), "the parasite follows the new form")
	assert.Equal(t, butterfly, tickCI.HostID)
	assert.True(t, butterflyCI.HasStatus(catalog.StatusParasiteDrain), "the drain status follows the attachment")
	assert.False(t, caterpillarCI.HasStatus(catalog.StatusParasiteDrain), "the discarded form carries no leftover status")
	assert.Empty(t, caterpillarCI.Attachments)
}

func TestMetamorphosisRequiresMatchingDefinition(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defButterfly, defOak},
		[]int{defOak, defOak, defOak})

	oak := handCard(t, e, "p1", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: oak, Position: pos(3, 4)}).Valid)

	butterfly := handCard(t, e, "p1", defButterfly)
	res := e.ProcessAction(Action{Type: ActionMetamorphosis, PlayerID: "p1", CardID: butterfly, TargetID: oak})
	require.False(t, res.Valid)
	assert.Contains(t, res.ErrorMessage, "does not metamorphose from")
}

func TestDropAndDrawThree(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defOak, defOak, defOak, defOak},
		[]int{defOak, defOak, defOak})

	gs := e.GameState()
	p1, _ := gs.Player("p1")
	dropped := p1.Hand[0]
	handBefore := len(p1.Hand)
	deckBefore := len(p1.Deck)

	res := e.ProcessAction(Action{Type: ActionDropAndDrawThree, PlayerID: "p1", CardID: dropped})
	require.True(t, res.Valid, res.ErrorMessage)

	gs = res.NewState
	p1, _ = gs.Player("p1")
	assert.Equal(t, handBefore-1+3, len(p1.Hand))
	assert.Equal(t, deckBefore-3, len(p1.Deck))
	assert.True(t, state.ContainsID(p1.Discard, dropped))
	assert.Equal(t, 2, gs.ActionsRemaining)
}

func TestTurnRotationAndEnergy(t *testing.T) {
	e := startedEngine(t,
		[]int{defOak, defOak, defOak, defOak},
		[]int{defOak, defOak, defOak, defOak})

	res := e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p1"})
	require.True(t, res.Valid)

	gs := res.NewState
	assert.Equal(t, "p2", gs.CurrentPlayer().ID)
	assert.Equal(t, state.TurnPhaseAction, gs.TurnPhase)
	assert.Equal(t, 3, gs.ActionsRemaining)
	p2, _ := gs.Player("p2")
	assert.Equal(t, 1, p2.Energy, "the ready step grants one energy")
	assert.Len(t, p2.Hand, 3, "the draw step adds one card")

	// Three consumed actions end the turn automatically.
	oak := handCard(t, e, "p2", defOak)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p2", CardID: oak, Position: pos(4, 4)}).Valid)
	require.True(t, e.ProcessAction(Action{Type: ActionRemoveCard, PlayerID: "p2", CardID: oak}).Valid)
	second := handCard(t, e, "p2", defOak)
	res = e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p2", CardID: second, Position: pos(4, 6)})
	require.True(t, res.Valid, res.ErrorMessage)

	assert.Equal(t, "p1", res.NewState.CurrentPlayer().ID, "budget exhaustion passes the turn")
}

func TestFinalTurnEndsTheGame(t *testing.T) {
	e := startedEngine(t, []int{defOak, defOak}, []int{defOak, defOak})
	// Hand size 2 drained both decks during setup.

	// Give p1 something on the score pile so the game has a winner.
	gs := e.current
	p1, _ := gs.Player("p1")
	scored := p1.Hand[0]
	p1.Hand = p1.Hand[1:]
	p1.Score = append(p1.Score, scored)
	gs.Cards[scored].Zone = state.ZoneScore

	res := e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p1"})
	require.True(t, res.Valid, res.ErrorMessage)

	// p2 drew from an empty deck, triggering FINAL_TURN; with no action
	// phases left the game runs straight to ENDED.
	final := res.NewState
	assert.Equal(t, state.PhaseEnded, final.Phase)

	result := e.GetEndGameData()
	require.NotNil(t, result)
	assert.False(t, result.Tie)
	assert.Equal(t, "p1", result.WinnerID)
	assert.Equal(t, 1, result.Totals["p1"], "oak scores its default single point")
	assert.Equal(t, 0, result.Totals["p2"])
	assert.Equal(t, "p1", final.Metadata["result.winner"])
}

func TestFinalTurnTie(t *testing.T) {
	e := startedEngine(t, []int{defOak, defOak}, []int{defOak, defOak})

	res := e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p1"})
	require.True(t, res.Valid, res.ErrorMessage)

	final := res.NewState
	require.Equal(t, state.PhaseEnded, final.Phase)

	result := e.GetEndGameData()
	require.NotNil(t, result)
	assert.True(t, result.Tie)
	assert.Empty(t, result.WinnerID)
	assert.Equal(t, "true", final.Metadata["result.tie"])
}

func TestActionsRejectedAfterGameEnd(t *testing.T) {
	e := startedEngine(t, []int{defOak, defOak}, []int{defOak, defOak})
	require.True(t, e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p1"}).Valid)
	require.Equal(t, state.PhaseEnded, e.GameState().Phase)

	res := e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p1"})
	assert.False(t, res.Valid)
	assert.Contains(t, res.ErrorMessage, "ended")
}

func TestDeterministicReplay(t *testing.T) {
	script := func() *Engine {
		e := NewEngine(engineCatalog(t), Settings{Seed: 99, StartingHandSize: 3}, nil)
		_, err := e.InitializeNewGame("replay-game", []PlayerSpec{
			{ID: "p1", Deck: []int{defOak, defOak, defOak, defOak, defOak}},
			{ID: "p2", Deck: []int{defOak, defOak, defOak, defOak, defOak}},
		})
		require.NoError(t, err)

		actions := []Action{
			{Type: ActionPlayerReady, PlayerID: "p1"},
			{Type: ActionPlayerReady, PlayerID: "p2"},
		}
		for _, a := range actions {
			require.True(t, e.ProcessAction(a).Valid)
		}

		// Play whatever the shuffle dealt; both runs deal identically.
		first := e.GameState().Players[0].Hand[0]
		e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: first, Position: pos(3, 4)})
		e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p1", CardID: first, Position: pos(3, 4)}) // duplicate: rejected
		e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p1"})
		second := e.GameState().Players[1].Hand[0]
		e.ProcessAction(Action{Type: ActionPlayCard, PlayerID: "p2", CardID: second, Position: pos(4, 4)})
		e.ProcessAction(Action{Type: ActionPassTurn, PlayerID: "p2"})
		return e
	}

	a := script()
	b := script()

	require.True(t, a.ReplayLog().Matches(b.ReplayLog()), "same seed and actions must replay identically")
	assert.Equal(t, a.GameState().Checksum(), b.GameState().Checksum())
}

func TestProbes(t *testing.T) {
	e := NewEngine(engineCatalog(t), Settings{Seed: 7, StartingHandSize: 2}, nil)
	_, err := e.InitializeNewGame("g", []PlayerSpec{
		{ID: "p1", Deck: []int{defOak, defOak, defOak}},
		{ID: "p2", Deck: []int{defOak, defOak, defOak}},
	})
	require.NoError(t, err)

	assert.Equal(t, []ActionType{ActionPlayerReady}, e.GetAvailableActions("p1"))

	require.True(t, e.ProcessAction(Action{Type: ActionPlayerReady, PlayerID: "p1"}).Valid)
	require.True(t, e.ProcessAction(Action{Type: ActionPlayerReady, PlayerID: "p2"}).Valid)

	actions := e.GetAvailableActions("p1")
	assert.Contains(t, actions, ActionPassTurn)
	assert.Contains(t, actions, ActionPlayCard)
	assert.Empty(t, e.GetAvailableActions("p2"), "only the active player can act")

	oak := handCard(t, e, "p1", defOak)
	positions := e.GetValidPositionsForCard(oak, "p1")
	assert.Contains(t, positions, state.Position{X: 3, Y: 4}, "cells next to HOME are playable")
	assert.NotContains(t, positions, state.Position{X: 0, Y: 0})

	require.NoError(t, e.ValidateCardPlay(oak, state.Position{X: 3, Y: 4}, "p1"))
	assert.Error(t, e.ValidateCardPlay(oak, state.Position{X: 0, Y: 0}, "p1"))

	progress := e.GetGameProgress()
	require.NotNil(t, progress)
	assert.Equal(t, state.PhasePlaying, progress.Phase)
	assert.Equal(t, "p1", progress.CurrentPlayerID)
	assert.Equal(t, 3, progress.ActionsRemaining)

	assert.Nil(t, e.GetEndGameData(), "no scores while the game runs")
}

func TestUnimplementedActionsAreRejected(t *testing.T) {
	e := startedEngine(t, []int{defOak, defOak, defOak}, []int{defOak, defOak, defOak})

	res := e.ProcessAction(Action{Type: ActionChallenge, PlayerID: "p1"})
	require.False(t, res.Valid)
	assert.Contains(t, res.ErrorMessage, "not implemented")

	res = e.ProcessAction(Action{Type: "TELEPORT", PlayerID: "p1"})
	require.False(t, res.Valid)
	assert.Contains(t, res.ErrorMessage, "unknown action type")
}
