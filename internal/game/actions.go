package game

import (
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// ActionType enumerates the player actions the engine accepts.
type ActionType string

const (
	ActionPlayCard         ActionType = "PLAY_CARD"
	ActionActivateAbility  ActionType = "ACTIVATE_ABILITY"
	ActionPassTurn         ActionType = "PASS_TURN"
	ActionDropAndDrawThree ActionType = "DROP_AND_DRAW_THREE"
	ActionRemoveCard       ActionType = "REMOVE_CARD"
	ActionMetamorphosis    ActionType = "METAMORPHOSIS"
	ActionPlayerReady      ActionType = "PLAYER_READY"
	// ActionForcePass lets the hosting layer end the current player's turn;
	// the engine itself never times anyone out.
	ActionForcePass ActionType = "FORCE_PASS"
	// Accepted but not yet implemented.
	ActionMoveCard  ActionType = "MOVE_CARD"
	ActionChallenge ActionType = "CHALLENGE"
)

// Action is one request against the engine. CardID and TargetID are card
// instance ids; their meaning depends on the action type.
type Action struct {
	Type      ActionType      `yaml:"type"`
	PlayerID  string          `yaml:"player_id"`
	CardID    string          `yaml:"card_id,omitempty"`
	AbilityID int             `yaml:"ability_id,omitempty"`
	TargetID  string          `yaml:"target_id,omitempty"`
	Position  *state.Position `yaml:"position,omitempty"`
}

// ActionResult is the tagged outcome of ProcessAction. Validation failures
// and detected internal inconsistencies both come back this way; the engine
// never panics the host on malformed input it can detect.
type ActionResult struct {
	Valid        bool
	ErrorMessage string
	NewState     *state.GameState
}

func invalid(message string) ActionResult {
	return ActionResult{Valid: false, ErrorMessage: message}
}
