// Package events executes ordered lists of tagged events against the
// world record. Conditionals recurse into Run; cross-subsystem steps
// (transitions, fights, dialogs) go through the Host so the interpreter
// stays re-entrant.
package events

import (
	"fmt"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// Host is the collaborator surface the interpreter calls outward on.
// The engine session implements it; tests supply fakes.
type Host interface {
	// Output.
	Print(line string)
	ShowArt(name string)

	// Definition access. A failed load aborts the running event list.
	Item(id string) (*types.Item, error)
	Actor(id string) (*types.Actor, error)

	// Cross-subsystem steps. Each persists its own state changes.
	Transition(roomID string) error
	StartFight(actorID string) error
	StartDialog(actorID, nodeID string) error
	EndDialog()
	GotoDialogNode(nodeID string)

	// Save persists the world after durable mutations.
	Save()

	Debugf(format string, args ...any)
}

// Run executes the event list in order. Each event completes fully
// before the next starts. Durable mutations trigger one save before
// Run returns to its caller; UI-only lists save nothing. There is no
// guard against authored event cycles.
func Run(list []types.Event, w *types.World, h Host) error {
	dirty, err := run(list, w, h)
	if dirty {
		h.Save()
	}
	return err
}

func run(list []types.Event, w *types.World, h Host) (dirty bool, err error) {
	for _, ev := range list {
		d, err := execute(ev, w, h)
		dirty = dirty || d
		if err != nil {
			return dirty, err
		}
	}
	return dirty, nil
}

func execute(ev types.Event, w *types.World, h Host) (dirty bool, err error) {
	switch ev.Type {
	case "message":
		h.Print(ev.Text)

	case "ascii":
		h.ShowArt(ev.Art)

	case "flag_set":
		state.SetFlag(w, ev.Flag, ev.Value)
		return true, nil

	case "flag_if":
		if state.GetFlag(w, ev.Flag) == ev.Value {
			return run(ev.Then, w, h)
		}
		return run(ev.Else, w, h)

	case "counter_add":
		state.AddCounter(w, ev.Counter, ev.Amount)
		return true, nil

	case "counter_set":
		state.SetCounter(w, ev.Counter, ev.Amount)
		return true, nil

	case "counter_if":
		match, ok := compare(state.GetCounter(w, ev.Counter), ev.Op, ev.Amount)
		if !ok {
			h.Print(fmt.Sprintf("[Autorenfehler: unbekannter Vergleich %q]", ev.Op))
			return false, nil
		}
		if match {
			return run(ev.Then, w, h)
		}
		return run(ev.Else, w, h)

	case "add_item":
		item, err := h.Item(ev.Item)
		if err != nil {
			return false, err
		}
		added := state.AddItem(w, item, ev.Qty)
		h.Debugf("add_item %s: added %d", ev.Item, added)
		return added > 0, nil

	case "remove_item":
		removed := state.RemoveItem(w, ev.Item, ev.Qty)
		return removed > 0, nil

	case "lock_exit":
		state.LockExit(w, roomOr(ev.Room, w), ev.Direction)
		return true, nil

	case "unlock_exit":
		state.UnlockExit(w, roomOr(ev.Room, w), ev.Direction)
		return true, nil

	case "transition":
		return true, h.Transition(ev.Room)

	case "trigger_fight":
		return true, h.StartFight(ev.Actor)

	case "spawn_item":
		state.SpawnItem(w, roomOr(ev.Room, w), ev.Item, ev.Qty)
		return true, nil

	case "spawn_actor":
		actor, err := h.Actor(ev.Actor)
		if err != nil {
			return false, err
		}
		state.SpawnActor(w, roomOr(ev.Room, w), actor.ID, actor.Type)
		return true, nil

	case "move_actor":
		actor, err := h.Actor(ev.Actor)
		if err != nil {
			return false, err
		}
		state.MoveActor(w, actor.ID, actor.Room, targetRoom(ev))
		return true, nil

	case "actor_move_if_present":
		actor, err := h.Actor(ev.Actor)
		if err != nil {
			return false, err
		}
		here := roomOr(ev.Room, w)
		if state.ActorRoom(w, actor.ID, actor.Room) != here {
			return false, nil
		}
		state.MoveActor(w, actor.ID, actor.Room, ev.To)
		return true, nil

	case "start_dialog":
		return false, h.StartDialog(ev.Actor, ev.Node)

	case "end_dialog":
		h.EndDialog()

	case "goto_dialog_node":
		h.GotoDialogNode(ev.Node)

	default:
		// Unknown tags are reported, never fatal; the rest of the
		// list still runs.
		h.Print(fmt.Sprintf("[unbekanntes Ereignis: %s]", ev.Type))
		h.Debugf("unknown event type %q", ev.Type)
	}
	return false, nil
}

// compare evaluates a counter_if operator. The second return is false
// for operators outside the supported set.
func compare(value int, op string, against int) (result, ok bool) {
	switch op {
	case "==", "":
		return value == against, true
	case "!=":
		return value != against, true
	case "<":
		return value < against, true
	case "<=":
		return value <= against, true
	case ">":
		return value > against, true
	case ">=":
		return value >= against, true
	default:
		return false, false
	}
}

// roomOr defaults an event's room reference to the current room.
func roomOr(roomID string, w *types.World) string {
	if roomID == "" {
		return w.Room
	}
	return roomID
}

// targetRoom picks the destination of a move_actor event; "to" wins
// over "room" when both are set.
func targetRoom(ev types.Event) string {
	if ev.To != "" {
		return ev.To
	}
	return ev.Room
}
