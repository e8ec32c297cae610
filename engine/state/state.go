// Package state manages the mutable world record. Every durable
// mutation funnels through these accessors so normalization (unique
// inventory rows, spawn aggregation, lock keys) happens exactly once
// regardless of call site.
package state

import (
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// DefaultStats are the player's starting combat numbers.
var DefaultStats = types.PlayerStats{HP: 20, MaxHP: 20, Attack: 3, Defense: 1}

// NewWorld creates a fresh world record positioned at the start room.
func NewWorld(adventure, startRoom string, globalFlags map[string]bool) *types.World {
	w := &types.World{
		Adventure:   adventure,
		Room:        startRoom,
		Inventory:   []types.InvEntry{},
		Flags:       map[string]bool{},
		Counters:    map[string]int{},
		Stats:       DefaultStats,
		LockedExits: map[string]bool{},
		Visited:     map[string]bool{},
		Spawns:      map[string]*types.RoomSpawns{},
		Actors:      map[string]*types.ActorState{},
	}
	for k, v := range globalFlags {
		w.Flags[k] = v
	}
	return w
}

// Normalize repairs nil maps and collapses duplicate inventory rows.
// Called after deserializing a save so the accessors can assume a
// canonical shape.
func Normalize(w *types.World) {
	if w.Flags == nil {
		w.Flags = map[string]bool{}
	}
	if w.Counters == nil {
		w.Counters = map[string]int{}
	}
	if w.LockedExits == nil {
		w.LockedExits = map[string]bool{}
	}
	if w.Visited == nil {
		w.Visited = map[string]bool{}
	}
	if w.Spawns == nil {
		w.Spawns = map[string]*types.RoomSpawns{}
	}
	if w.Actors == nil {
		w.Actors = map[string]*types.ActorState{}
	}
	if w.Inventory == nil {
		w.Inventory = []types.InvEntry{}
	}
	for _, as := range w.Actors {
		if as.Flags == nil {
			as.Flags = map[string]bool{}
		}
		if as.Counters == nil {
			as.Counters = map[string]int{}
		}
	}
	// Collapse duplicate rows, keeping first-seen order.
	merged := make([]types.InvEntry, 0, len(w.Inventory))
	index := map[string]int{}
	for _, e := range w.Inventory {
		if e.Qty <= 0 {
			e.Qty = 1
		}
		if i, ok := index[e.ID]; ok {
			merged[i].Qty += e.Qty
			continue
		}
		index[e.ID] = len(merged)
		merged = append(merged, e)
	}
	w.Inventory = merged
}

// AddItem adds qty of the item to the inventory and returns how many
// were actually added. A non-stackable item the player already holds is
// a no-op (returns 0); a stackable item clips at the item's max stack.
func AddItem(w *types.World, item *types.Item, qty int) int {
	if qty <= 0 {
		qty = 1
	}
	for i := range w.Inventory {
		if w.Inventory[i].ID != item.ID {
			continue
		}
		if !item.Stackable {
			return 0
		}
		added := qty
		if item.MaxStack > 0 && w.Inventory[i].Qty+qty > item.MaxStack {
			added = item.MaxStack - w.Inventory[i].Qty
		}
		if added <= 0 {
			return 0
		}
		w.Inventory[i].Qty += added
		return added
	}
	added := qty
	if !item.Stackable {
		added = 1
	} else if item.MaxStack > 0 && added > item.MaxStack {
		added = item.MaxStack
	}
	w.Inventory = append(w.Inventory, types.InvEntry{ID: item.ID, Qty: added})
	return added
}

// RemoveItem removes up to qty of the item and returns how many were
// removed. The row disappears when its quantity reaches zero.
func RemoveItem(w *types.World, itemID string, qty int) int {
	if qty <= 0 {
		qty = 1
	}
	for i := range w.Inventory {
		if w.Inventory[i].ID != itemID {
			continue
		}
		removed := qty
		if removed > w.Inventory[i].Qty {
			removed = w.Inventory[i].Qty
		}
		w.Inventory[i].Qty -= removed
		if w.Inventory[i].Qty <= 0 {
			w.Inventory = append(w.Inventory[:i], w.Inventory[i+1:]...)
		}
		return removed
	}
	return 0
}

// HasItem reports whether the player holds at least one of the item.
func HasItem(w *types.World, itemID string) bool {
	return ItemCount(w, itemID) > 0
}

// ItemCount returns the held quantity of an item.
func ItemCount(w *types.World, itemID string) int {
	for _, e := range w.Inventory {
		if e.ID == itemID {
			return e.Qty
		}
	}
	return 0
}

// GetFlag returns a flag value. Unset flags read as false.
func GetFlag(w *types.World, key string) bool {
	return w.Flags[key]
}

// SetFlag sets a flag.
func SetFlag(w *types.World, key string, value bool) {
	w.Flags[key] = value
}

// GetCounter returns a counter value. Unset counters read as 0.
func GetCounter(w *types.World, key string) int {
	return w.Counters[key]
}

// AddCounter adds delta to a counter and returns the new value.
func AddCounter(w *types.World, key string, delta int) int {
	w.Counters[key] += delta
	return w.Counters[key]
}

// SetCounter sets a counter.
func SetCounter(w *types.World, key string, value int) {
	w.Counters[key] = value
}

// exitKey builds the lock-table key for a room exit.
func exitKey(roomID, direction string) string {
	return roomID + ":" + direction
}

// LockExit marks a room exit as locked.
func LockExit(w *types.World, roomID, direction string) {
	w.LockedExits[exitKey(roomID, direction)] = true
}

// UnlockExit clears the lock on a room exit.
func UnlockExit(w *types.World, roomID, direction string) {
	delete(w.LockedExits, exitKey(roomID, direction))
}

// ExitLocked reports whether a room exit is locked.
func ExitLocked(w *types.World, roomID, direction string) bool {
	return w.LockedExits[exitKey(roomID, direction)]
}

// Visit records the room as visited and reports whether this was the
// first visit.
func Visit(w *types.World, roomID string) (first bool) {
	if w.Visited[roomID] {
		return false
	}
	w.Visited[roomID] = true
	return true
}

// spawns returns the spawn table for a room, creating it on demand.
func spawns(w *types.World, roomID string) *types.RoomSpawns {
	rs, ok := w.Spawns[roomID]
	if !ok {
		rs = &types.RoomSpawns{}
		w.Spawns[roomID] = rs
	}
	return rs
}

// SpawnItem adds qty of an item to a room's spawn table, aggregating
// with an existing entry for the same id.
func SpawnItem(w *types.World, roomID, itemID string, qty int) {
	if qty <= 0 {
		qty = 1
	}
	rs := spawns(w, roomID)
	for i := range rs.Items {
		if rs.Items[i].ID == itemID {
			rs.Items[i].Qty += qty
			return
		}
	}
	rs.Items = append(rs.Items, types.InvEntry{ID: itemID, Qty: qty})
}

// TakeSpawnedItem removes up to qty of an item from a room's spawn
// table and returns how many were removed.
func TakeSpawnedItem(w *types.World, roomID, itemID string, qty int) int {
	rs, ok := w.Spawns[roomID]
	if !ok {
		return 0
	}
	for i := range rs.Items {
		if rs.Items[i].ID != itemID {
			continue
		}
		removed := qty
		if removed > rs.Items[i].Qty {
			removed = rs.Items[i].Qty
		}
		rs.Items[i].Qty -= removed
		if rs.Items[i].Qty <= 0 {
			rs.Items = append(rs.Items[:i], rs.Items[i+1:]...)
		}
		return removed
	}
	return 0
}

// SpawnedItems returns the spawn-table item entries for a room.
func SpawnedItems(w *types.World, roomID string) []types.InvEntry {
	if rs, ok := w.Spawns[roomID]; ok {
		return rs.Items
	}
	return nil
}

// SpawnActor adds an actor to a room's spawn table.
func SpawnActor(w *types.World, roomID, actorID, actorType string) {
	rs := spawns(w, roomID)
	for i := range rs.Actors {
		if rs.Actors[i].ID == actorID {
			rs.Actors[i].Qty++
			return
		}
	}
	rs.Actors = append(rs.Actors, types.SpawnedActor{ID: actorID, Qty: 1, Type: actorType})
}

// SpawnedActors returns the spawn-table actor entries for a room.
func SpawnedActors(w *types.World, roomID string) []types.SpawnedActor {
	if rs, ok := w.Spawns[roomID]; ok {
		return rs.Actors
	}
	return nil
}

// EnsureActor returns the mutable per-actor overlay, creating it from
// the template's home room on first access. The overlay's Room field is
// the actor's authoritative location.
func EnsureActor(w *types.World, actorID, homeRoom string) *types.ActorState {
	as, ok := w.Actors[actorID]
	if !ok {
		as = &types.ActorState{
			Room:     homeRoom,
			Flags:    map[string]bool{},
			Counters: map[string]int{},
		}
		w.Actors[actorID] = as
	}
	return as
}

// ActorRoom returns an actor's authoritative room: the overlay entry if
// present, else the template home room. An overlay room of "" means the
// actor was removed from the world, not "unset"; overlays are always
// created with the home room filled in.
func ActorRoom(w *types.World, actorID, homeRoom string) string {
	if as, ok := w.Actors[actorID]; ok {
		return as.Room
	}
	return homeRoom
}

// MoveActor sets an actor's authoritative room. Moving to "" removes
// the actor from the world.
func MoveActor(w *types.World, actorID, homeRoom, to string) {
	EnsureActor(w, actorID, homeRoom).Room = to
}

// Damage lowers the player's hp, clamping at zero, and returns the
// remaining hp.
func Damage(w *types.World, amount int) int {
	w.Stats.HP -= amount
	if w.Stats.HP < 0 {
		w.Stats.HP = 0
	}
	return w.Stats.HP
}

// Heal raises the player's hp, clamping at max, and returns the new hp.
func Heal(w *types.World, amount int) int {
	w.Stats.HP += amount
	if w.Stats.MaxHP > 0 && w.Stats.HP > w.Stats.MaxHP {
		w.Stats.HP = w.Stats.MaxHP
	}
	return w.Stats.HP
}
