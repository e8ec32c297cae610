// Package dialogue implements gate evaluation and visible-choice
// computation for per-actor dialog graphs. The session owns the walk;
// this package answers which choices the player can currently see and
// select.
package dialogue

import (
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// EndNode is the choice target that terminates a dialog.
const EndNode = "end"

// Choice is a visible dialog option. Locked choices are shown but
// selecting them keeps the dialog open.
type Choice struct {
	Index  int // position in the node's full choice list
	Text   string
	Next   string
	Locked bool
	Events []types.Event
}

// GateSatisfied evaluates a gate against flags and inventory. All
// present conditions AND together; a nil gate is always satisfied.
func GateSatisfied(g *types.Gate, w *types.World) bool {
	if g == nil {
		return true
	}
	for _, itemID := range g.Items {
		if !state.HasItem(w, itemID) {
			return false
		}
	}
	if g.Flag != nil && state.GetFlag(w, g.Flag.Key) != g.Flag.Equals {
		return false
	}
	return true
}

// VisibleChoices returns the currently visible choices of a node, in
// authored order. A choice is hidden when its hidden_if gate matches;
// a choice whose requires gate fails is visible but locked.
func VisibleChoices(node types.DialogNode, w *types.World) []Choice {
	var out []Choice
	for i, c := range node.Choices {
		if c.HiddenIf != nil && GateSatisfied(c.HiddenIf, w) {
			continue
		}
		out = append(out, Choice{
			Index:  i,
			Text:   c.Text,
			Next:   c.Next,
			Locked: !GateSatisfied(c.Requires, w),
			Events: c.Events,
		})
	}
	return out
}

// Terminal reports whether a transition target ends the dialog: the
// explicit end marker or a node id absent from the graph.
func Terminal(d *types.Dialog, next string) bool {
	if next == EndNode || next == "" {
		return true
	}
	_, ok := d.Nodes[next]
	return !ok
}

// StartNode picks the node a dialog opens at: the supplied override,
// else the actor's declared start, else the graph's own start.
func StartNode(d *types.Dialog, actor *types.Actor, override string) string {
	if override != "" {
		return override
	}
	if actor != nil && actor.DialogStart != "" {
		return actor.DialogStart
	}
	return d.Start
}
