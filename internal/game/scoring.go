package game

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kelseyabreu/biomasters-engine-go/internal/game/rules"
	"github.com/kelseyabreu/biomasters-engine-go/internal/game/state"
)

// Metadata keys the scoring pass writes. Results live in snapshot metadata
// and are never mutated afterward.
const (
	metaWinner      = "result.winner"
	metaTie         = "result.tie"
	metaScorePrefix = "result.score."
)

// ScoreResult is the outcome of a finished game.
type ScoreResult struct {
	Totals   map[string]int
	WinnerID string // empty on a tie
	Tie      bool
}

// finalize runs scoring once the turn machine reaches ENDED and stores the
// result in snapshot metadata.
func (e *Engine) finalize(gs *state.GameState) {
	result := e.computeScores(gs)

	for playerID, total := range result.Totals {
		gs.Metadata[metaScorePrefix+playerID] = fmt.Sprintf("%d", total)
	}
	if result.Tie {
		gs.Metadata[metaTie] = "true"
	} else {
		gs.Metadata[metaWinner] = result.WinnerID
	}

	e.publish(gs, rules.NewEvent(rules.EventGameEnded, "", "", result.WinnerID))
	e.logger.Info("game ended",
		zap.String("game_id", gs.GameID),
		zap.String("winner", result.WinnerID),
		zap.Bool("tie", result.Tie),
	)
}

// computeScores sums each player's score pile: every scored card is worth
// its definition's victory-point value, defaulting to 1. The highest total
// wins; equal top totals across two or more players is a tie with no
// winner.
func (e *Engine) computeScores(gs *state.GameState) ScoreResult {
	result := ScoreResult{Totals: make(map[string]int, len(gs.Players))}

	for _, p := range gs.Players {
		total := 0
		for _, id := range p.Score {
			ci, ok := gs.Cards[id]
			if !ok {
				continue
			}
			if def, ok := e.cat.Card(ci.DefinitionID); ok {
				total += def.ScoreValue()
			} else {
				total++
			}
		}
		result.Totals[p.ID] = total
	}

	ids := make([]string, 0, len(result.Totals))
	for id := range result.Totals {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	best, bestCount := -1, 0
	for _, id := range ids {
		switch {
		case result.Totals[id] > best:
			best, bestCount = result.Totals[id], 1
			result.WinnerID = id
		case result.Totals[id] == best:
			bestCount++
		}
	}
	if bestCount > 1 {
		result.WinnerID = ""
		result.Tie = true
	}
	return result
}
