package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Checksum computes a deterministic SHA-256 hash of the snapshot. Two
// executions of the same action sequence from the same seed must produce
// identical checksums; divergence indicates non-determinism in the engine
// or a corrupted replay.
func (gs *GameState) Checksum() string {
	hash := sha256.Sum256([]byte(gs.canonical()))
	return hex.EncodeToString(hash[:])
}

// canonical builds a stable textual representation independent of map
// iteration order.
func (gs *GameState) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%s|%d|%d|%s|%s|%d|%dx%d\n",
		gs.GameID, gs.CurrentPlayerIndex, gs.TurnNumber,
		gs.Phase, gs.TurnPhase, gs.ActionsRemaining,
		gs.GridWidth, gs.GridHeight)

	for _, p := range gs.Players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%d|%t|H:%s|D:%s|X:%s|S:%s\n",
			p.ID, p.Name, p.Energy, p.Ready,
			strings.Join(p.Hand, ","),
			strings.Join(p.Deck, ","),
			strings.Join(p.Discard, ","),
			strings.Join(p.Score, ","))
	}

	cardIDs := make([]string, 0, len(gs.Cards))
	for id := range gs.Cards {
		cardIDs = append(cardIDs, id)
	}
	sort.Strings(cardIDs)
	for _, id := range cardIDs {
		ci := gs.Cards[id]
		pos := "-"
		if ci.Position != nil {
			pos = ci.Position.String()
		}
		statuses := make([]string, 0, len(ci.Statuses))
		for _, s := range ci.Statuses {
			statuses = append(statuses, fmt.Sprintf("%s@%d<%s", s.Kind, s.Duration, s.SourceID))
		}
		sort.Strings(statuses)
		fmt.Fprintf(&buf, "CARD:%s|%d|%s|%s|%s|%t|%t|%t|%s|A:%s|ST:%s\n",
			ci.ID, ci.DefinitionID, ci.OwnerID, ci.Zone, pos,
			ci.Exhausted, ci.IsDetritus, ci.IsHome, ci.HostID,
			strings.Join(ci.Attachments, ","),
			strings.Join(statuses, ","))
	}

	positions := make([]Position, 0, len(gs.Grid))
	for pos := range gs.Grid {
		positions = append(positions, pos)
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	for _, pos := range positions {
		fmt.Fprintf(&buf, "GRID:%s=%s\n", pos, gs.Grid[pos])
	}

	detritus := append([]string(nil), gs.Detritus...)
	sort.Strings(detritus)
	fmt.Fprintf(&buf, "DETRITUS:%s\n", strings.Join(detritus, ","))

	homeIDs := make([]string, 0, len(gs.HomePositions))
	for pid := range gs.HomePositions {
		homeIDs = append(homeIDs, pid)
	}
	sort.Strings(homeIDs)
	for _, pid := range homeIDs {
		fmt.Fprintf(&buf, "HOME:%s=%s\n", pid, gs.HomePositions[pid])
	}

	if gs.FinalTurn != nil {
		fmt.Fprintf(&buf, "FINAL:%s|%s\n", gs.FinalTurn.TriggeredBy,
			strings.Join(gs.FinalTurn.Remaining, ","))
	}

	metaKeys := make([]string, 0, len(gs.Metadata))
	for k := range gs.Metadata {
		metaKeys = append(metaKeys, k)
	}
	sort.Strings(metaKeys)
	for _, k := range metaKeys {
		fmt.Fprintf(&buf, "META:%s=%s\n", k, gs.Metadata[k])
	}

	return buf.String()
}
