package state

import (
	"testing"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

func stackable(id string, max int) *types.Item {
	return &types.Item{ID: id, Name: id, Stackable: true, MaxStack: max}
}

func unique(id string) *types.Item {
	return &types.Item{ID: id, Name: id}
}

func TestAddItem_StackableAggregates(t *testing.T) {
	w := NewWorld("test", "cell", nil)

	if got := AddItem(w, stackable("chip", 0), 2); got != 2 {
		t.Fatalf("first add: got %d, want 2", got)
	}
	if got := AddItem(w, stackable("chip", 0), 3); got != 3 {
		t.Fatalf("second add: got %d, want 3", got)
	}

	if len(w.Inventory) != 1 {
		t.Fatalf("expected a single inventory row, got %d", len(w.Inventory))
	}
	if w.Inventory[0].Qty != 5 {
		t.Errorf("expected qty 5, got %d", w.Inventory[0].Qty)
	}
}

func TestAddItem_NonStackableDuplicateIsNoop(t *testing.T) {
	w := NewWorld("test", "cell", nil)

	if got := AddItem(w, unique("keycard"), 1); got != 1 {
		t.Fatalf("first add: got %d, want 1", got)
	}
	if got := AddItem(w, unique("keycard"), 1); got != 0 {
		t.Errorf("duplicate add: got %d, want 0", got)
	}
	if len(w.Inventory) != 1 || w.Inventory[0].Qty != 1 {
		t.Errorf("inventory changed on duplicate add: %+v", w.Inventory)
	}
}

func TestAddItem_MaxStackClips(t *testing.T) {
	w := NewWorld("test", "cell", nil)

	if got := AddItem(w, stackable("cig", 3), 5); got != 3 {
		t.Errorf("initial clipped add: got %d, want 3", got)
	}
	if got := AddItem(w, stackable("cig", 3), 1); got != 0 {
		t.Errorf("add past max: got %d, want 0", got)
	}
}

func TestRemoveItem(t *testing.T) {
	w := NewWorld("test", "cell", nil)
	AddItem(w, stackable("chip", 0), 3)

	if got := RemoveItem(w, "chip", 2); got != 2 {
		t.Fatalf("remove: got %d, want 2", got)
	}
	if got := ItemCount(w, "chip"); got != 1 {
		t.Errorf("count after remove: got %d, want 1", got)
	}
	if got := RemoveItem(w, "chip", 5); got != 1 {
		t.Errorf("over-remove: got %d, want 1", got)
	}
	if HasItem(w, "chip") {
		t.Error("row should disappear at zero qty")
	}
	if got := RemoveItem(w, "chip", 1); got != 0 {
		t.Errorf("remove missing: got %d, want 0", got)
	}
}

func TestNormalize_MergesDuplicateRows(t *testing.T) {
	w := NewWorld("test", "cell", nil)
	w.Inventory = []types.InvEntry{
		{ID: "chip", Qty: 2},
		{ID: "wire", Qty: 1},
		{ID: "chip", Qty: 3},
	}
	Normalize(w)

	if len(w.Inventory) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(w.Inventory))
	}
	if got := ItemCount(w, "chip"); got != 5 {
		t.Errorf("merged qty: got %d, want 5", got)
	}
}

func TestLockedExits(t *testing.T) {
	w := NewWorld("test", "cell", nil)

	LockExit(w, "cell", "north")
	if !ExitLocked(w, "cell", "north") {
		t.Error("exit should be locked")
	}
	if ExitLocked(w, "cell", "south") {
		t.Error("other direction should not be locked")
	}
	UnlockExit(w, "cell", "north")
	if ExitLocked(w, "cell", "north") {
		t.Error("exit should be unlocked")
	}
}

func TestVisit_FirstOnlyOnce(t *testing.T) {
	w := NewWorld("test", "cell", nil)
	if !Visit(w, "vault") {
		t.Error("first visit should report true")
	}
	if Visit(w, "vault") {
		t.Error("second visit should report false")
	}
}

func TestSpawnTable(t *testing.T) {
	w := NewWorld("test", "cell", nil)

	SpawnItem(w, "alley", "wire", 1)
	SpawnItem(w, "alley", "wire", 2)
	items := SpawnedItems(w, "alley")
	if len(items) != 1 || items[0].Qty != 3 {
		t.Fatalf("spawn aggregation failed: %+v", items)
	}

	if got := TakeSpawnedItem(w, "alley", "wire", 2); got != 2 {
		t.Errorf("take: got %d, want 2", got)
	}
	if got := TakeSpawnedItem(w, "alley", "wire", 2); got != 1 {
		t.Errorf("second take: got %d, want 1", got)
	}
	if len(SpawnedItems(w, "alley")) != 0 {
		t.Error("empty spawn entry should be removed")
	}

	SpawnActor(w, "alley", "dealer", "npc")
	actors := SpawnedActors(w, "alley")
	if len(actors) != 1 || actors[0].Type != "npc" {
		t.Fatalf("spawn actor failed: %+v", actors)
	}
}

func TestActorState_AuthoritativeRoom(t *testing.T) {
	w := NewWorld("test", "cell", nil)

	if got := ActorRoom(w, "dealer", "alley"); got != "alley" {
		t.Errorf("template fallback: got %q, want alley", got)
	}
	MoveActor(w, "dealer", "alley", "market")
	if got := ActorRoom(w, "dealer", "alley"); got != "market" {
		t.Errorf("overlay room: got %q, want market", got)
	}
}

func TestActorState_RemovalBeatsTemplate(t *testing.T) {
	w := NewWorld("test", "cell", nil)

	MoveActor(w, "dealer", "alley", "")
	if got := ActorRoom(w, "dealer", "alley"); got != "" {
		t.Errorf("removed actor: got %q, want empty room", got)
	}
}

func TestDamageHeal_Clamps(t *testing.T) {
	w := NewWorld("test", "cell", nil)
	w.Stats = types.PlayerStats{HP: 5, MaxHP: 10}

	if got := Damage(w, 8); got != 0 {
		t.Errorf("damage clamp: got %d, want 0", got)
	}
	if got := Heal(w, 99); got != 10 {
		t.Errorf("heal clamp: got %d, want 10", got)
	}
}
