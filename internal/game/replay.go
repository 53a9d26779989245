package game

import "github.com/kelseyabreu/biomasters-engine-go/internal/game/state"

// ReplayEntry is one recorded snapshot with its checksum.
type ReplayEntry struct {
	Index    int
	Checksum string
	State    *state.GameState
}

// Replay records the snapshot trail of a game: the initial state plus one
// entry per successfully applied action. Comparing two replays' checksum
// sequences verifies that independent executions of the same action stream
// from the same seed did not diverge.
type Replay struct {
	GameID  string
	Entries []ReplayEntry
}

// NewReplay creates an empty replay for a game.
func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// Record appends a snapshot. Snapshots are immutable once applied, so no
// extra copy is taken here.
func (r *Replay) Record(gs *state.GameState) {
	r.Entries = append(r.Entries, ReplayEntry{
		Index:    len(r.Entries),
		Checksum: gs.Checksum(),
		State:    gs,
	})
}

// Checksums returns the checksum sequence.
func (r *Replay) Checksums() []string {
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Checksum
	}
	return out
}

// Matches reports whether two replays recorded identical trails.
func (r *Replay) Matches(other *Replay) bool {
	if other == nil || len(r.Entries) != len(other.Entries) {
		return false
	}
	for i := range r.Entries {
		if r.Entries[i].Checksum != other.Entries[i].Checksum {
			return false
		}
	}
	return true
}
