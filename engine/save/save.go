// Package save serializes the world record to JSON and rehydrates it,
// migrating legacy-shaped blobs into the canonical form on load.
// Migration happens here, once, so no caller ever branches on shape.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// Version is written into every new blob. Version 1 blobs (or blobs
// without a version) may carry string inventory entries and split
// npc/enemy state collections.
const Version = 2

// blob is the serialized save shape. Inventory entries stay raw until
// migration decides whether they are legacy strings or canonical rows.
type blob struct {
	Version     int                          `json:"version"`
	Adventure   string                       `json:"adventure"`
	Room        string                       `json:"room"`
	Inventory   []json.RawMessage            `json:"inventory"`
	Flags       map[string]bool              `json:"flags"`
	Counters    map[string]int               `json:"counters"`
	Stats       types.PlayerStats            `json:"stats"`
	LockedExits map[string]bool              `json:"lockedExits"`
	Visited     map[string]bool              `json:"visited"`
	Spawns      map[string]*types.RoomSpawns `json:"roomSpawns"`
	Actors      map[string]*types.ActorState `json:"actorState"`
	Combat      types.CombatState            `json:"combat"`
	Dialog      types.DialogState            `json:"dialog"`
	RNGSeed     int64                        `json:"rngSeed"`
	RNGPos      int64                        `json:"rngPos"`

	// Legacy split collections, folded into Actors on load.
	NPCStates   map[string]*types.ActorState `json:"npcStates,omitempty"`
	EnemyStates map[string]*types.ActorState `json:"enemyStates,omitempty"`
}

// Marshal serializes a world record in the canonical shape.
func Marshal(w *types.World) ([]byte, error) {
	inv := make([]json.RawMessage, 0, len(w.Inventory))
	for _, e := range w.Inventory {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		inv = append(inv, raw)
	}
	return json.MarshalIndent(blob{
		Version:     Version,
		Adventure:   w.Adventure,
		Room:        w.Room,
		Inventory:   inv,
		Flags:       w.Flags,
		Counters:    w.Counters,
		Stats:       w.Stats,
		LockedExits: w.LockedExits,
		Visited:     w.Visited,
		Spawns:      w.Spawns,
		Actors:      w.Actors,
		Combat:      w.Combat,
		Dialog:      w.Dialog,
		RNGSeed:     w.RNGSeed,
		RNGPos:      w.RNGPos,
	}, "", "  ")
}

// Unmarshal rehydrates a world record, accepting both the canonical
// and the legacy blob shapes. A malformed blob returns an error; the
// caller falls back to a fresh session.
func Unmarshal(data []byte) (*types.World, error) {
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if b.Room == "" {
		return nil, fmt.Errorf("decoding save: no room recorded")
	}

	w := &types.World{
		Adventure:   b.Adventure,
		Room:        b.Room,
		Flags:       b.Flags,
		Counters:    b.Counters,
		Stats:       b.Stats,
		LockedExits: b.LockedExits,
		Visited:     b.Visited,
		Spawns:      b.Spawns,
		Actors:      b.Actors,
		Combat:      b.Combat,
		Dialog:      b.Dialog,
		RNGSeed:     b.RNGSeed,
		RNGPos:      b.RNGPos,
	}

	inv, err := migrateInventory(b.Inventory)
	if err != nil {
		return nil, err
	}
	w.Inventory = inv

	// Fold legacy split npc/enemy collections into the unified actor
	// collection. Canonical entries win on id collision.
	if len(b.NPCStates) > 0 || len(b.EnemyStates) > 0 {
		if w.Actors == nil {
			w.Actors = map[string]*types.ActorState{}
		}
		for id, as := range b.NPCStates {
			if _, ok := w.Actors[id]; !ok {
				w.Actors[id] = as
			}
		}
		for id, as := range b.EnemyStates {
			if _, ok := w.Actors[id]; !ok {
				w.Actors[id] = as
			}
		}
	}

	state.Normalize(w)
	return w, nil
}

// migrateInventory accepts both canonical {id,qty} rows and legacy
// bare-string entries.
func migrateInventory(raw []json.RawMessage) ([]types.InvEntry, error) {
	inv := make([]types.InvEntry, 0, len(raw))
	for _, r := range raw {
		var id string
		if err := json.Unmarshal(r, &id); err == nil {
			inv = append(inv, types.InvEntry{ID: id, Qty: 1})
			continue
		}
		var entry types.InvEntry
		if err := json.Unmarshal(r, &entry); err != nil {
			return nil, fmt.Errorf("decoding inventory entry %s: %w", r, err)
		}
		inv = append(inv, entry)
	}
	return inv, nil
}
