package state

import (
	"fmt"

	"github.com/kelseyabreu/biomasters-engine-go/internal/catalog"
)

// GamePhase is the coarse lifecycle of a game.
type GamePhase int

const (
	PhaseSetup GamePhase = iota
	PhasePlaying
	PhaseFinalTurn
	PhaseEnded
)

var phaseNames = map[GamePhase]string{
	PhaseSetup:     "SETUP",
	PhasePlaying:   "PLAYING",
	PhaseFinalTurn: "FINAL_TURN",
	PhaseEnded:     "ENDED",
}

func (p GamePhase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// TurnPhase is the sub-phase within one player's turn.
type TurnPhase int

const (
	TurnPhaseNone TurnPhase = iota
	TurnPhaseReady
	TurnPhaseDraw
	TurnPhaseAction
)

var turnPhaseNames = map[TurnPhase]string{
	TurnPhaseNone:   "NONE",
	TurnPhaseReady:  "READY",
	TurnPhaseDraw:   "DRAW",
	TurnPhaseAction: "ACTION",
}

func (p TurnPhase) String() string {
	if name, ok := turnPhaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TURN_PHASE_%d", int(p))
}

// Zone tags where a card instance currently lives.
type Zone string

const (
	ZoneGrid    Zone = "GRID"
	ZoneHand    Zone = "HAND"
	ZoneDeck    Zone = "DECK"
	ZoneDiscard Zone = "DISCARD"
	ZoneScore   Zone = "SCORE"
)

// Position is a grid coordinate.
type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Neighbors returns the four orthogonally adjacent positions. Bounds are
// the caller's concern.
func (p Position) Neighbors() [4]Position {
	return [4]Position{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
	}
}

// PermanentDuration marks a status that persists until its source goes away.
const PermanentDuration = -1

// StatusEffect is a status attached to a card instance.
type StatusEffect struct {
	Kind     catalog.StatusKind
	Duration int // remaining turns; PermanentDuration while the source remains
	SourceID string
	Metadata map[string]string
}

// CardInstance is a runtime card. Instances are created only by a
// successful play action and converted to detritus, never deleted, on death.
// Attached cards (parasites, mutualists) never occupy a cell of their own:
// they carry a HostID and appear in the host's Attachments list.
type CardInstance struct {
	ID           string
	DefinitionID int
	OwnerID      string
	Position     *Position // nil unless occupying a grid cell
	Exhausted    bool
	Attachments  []string // instance ids attached to this card
	HostID       string   // set when this instance is itself an attachment
	Statuses     []StatusEffect
	Zone         Zone
	IsDetritus   bool
	IsHome       bool
}

// Ready reports whether the instance can be exhausted to pay a cost or
// activate an ability.
func (ci *CardInstance) Ready() bool {
	return !ci.Exhausted
}

// HasStatus reports whether the instance carries a status of the given kind.
func (ci *CardInstance) HasStatus(kind catalog.StatusKind) bool {
	for _, s := range ci.Statuses {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// RemoveStatusesFrom drops every status originating from sourceID.
func (ci *CardInstance) RemoveStatusesFrom(sourceID string) {
	kept := ci.Statuses[:0]
	for _, s := range ci.Statuses {
		if s.SourceID != sourceID {
			kept = append(kept, s)
		}
	}
	ci.Statuses = kept
}

// Player holds one player's zones and counters. Zone lists hold instance ids;
// the instances themselves live in GameState.Cards.
type Player struct {
	ID      string
	Name    string
	Hand    []string
	Deck    []string // ordered; draw pops from the end
	Discard []string
	Score   []string
	Energy  int
	Ready   bool
}

// FinalTurnState records who exhausted the deck and who still owes a turn.
type FinalTurnState struct {
	TriggeredBy string
	Remaining   []string
}

// GameState is one immutable snapshot of a game. Public engine operations
// never mutate a retained snapshot; they clone, mutate the clone, and swap.
type GameState struct {
	GameID             string
	Players            []*Player
	CurrentPlayerIndex int
	TurnNumber         int
	Phase              GamePhase
	TurnPhase          TurnPhase
	ActionsRemaining   int
	GridWidth          int
	GridHeight         int
	Cards              map[string]*CardInstance
	Grid               map[Position]string // occupied cell -> instance id
	Detritus           []string            // instance ids currently lying as detritus
	HomePositions      map[string]Position // player id -> HOME cell
	FinalTurn          *FinalTurnState
	Metadata           map[string]string
}

// Card returns the instance with the given id.
func (gs *GameState) Card(id string) (*CardInstance, bool) {
	ci, ok := gs.Cards[id]
	return ci, ok
}

// CardAt returns the instance occupying pos, if any.
func (gs *GameState) CardAt(pos Position) (*CardInstance, bool) {
	id, ok := gs.Grid[pos]
	if !ok {
		return nil, false
	}
	ci, ok := gs.Cards[id]
	return ci, ok
}

// Player returns the player with the given id.
func (gs *GameState) Player(id string) (*Player, bool) {
	for _, p := range gs.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CurrentPlayer returns the player whose turn it is.
func (gs *GameState) CurrentPlayer() *Player {
	if len(gs.Players) == 0 {
		return nil
	}
	return gs.Players[gs.CurrentPlayerIndex%len(gs.Players)]
}

// InBounds reports whether pos lies on the grid.
func (gs *GameState) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < gs.GridWidth && pos.Y >= 0 && pos.Y < gs.GridHeight
}

// OccupiedNeighbors returns the instances on cells orthogonally adjacent
// to pos.
func (gs *GameState) OccupiedNeighbors(pos Position) []*CardInstance {
	var out []*CardInstance
	for _, n := range pos.Neighbors() {
		if !gs.InBounds(n) {
			continue
		}
		if ci, ok := gs.CardAt(n); ok {
			out = append(out, ci)
		}
	}
	return out
}

// GridEmpty reports whether no cell holds a card (HOME cells included).
func (gs *GameState) GridEmpty() bool {
	return len(gs.Grid) == 0
}

// RemoveID deletes the first occurrence of id from list and returns the
// shortened list plus whether it was found.
func RemoveID(list []string, id string) ([]string, bool) {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// ContainsID reports whether list holds id.
func ContainsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
