package dialogue

import (
	"testing"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

func testDialog() *types.Dialog {
	return &types.Dialog{
		Start: "hello",
		Nodes: map[string]types.DialogNode{
			"hello": {
				Text: "Was willst du?",
				Choices: []types.DialogChoice{
					{Text: "Handel", Next: "trade"},
					{
						Text:     "Zeig mir den Hinterraum",
						Next:     "backroom",
						Requires: &types.Gate{Items: []string{"vip_karte"}},
					},
					{
						Text:     "Geheimnis",
						Next:     "secret",
						HiddenIf: &types.Gate{Flag: &types.FlagCond{Key: "verraten", Equals: true}},
					},
				},
			},
			"trade": {Text: "Zeig dein Geld."},
		},
	}
}

func TestGateSatisfied(t *testing.T) {
	w := state.NewWorld("test", "bar", nil)

	if !GateSatisfied(nil, w) {
		t.Error("nil gate must always pass")
	}

	gate := &types.Gate{
		Items: []string{"vip_karte"},
		Flag:  &types.FlagCond{Key: "bekannt", Equals: true},
	}
	if GateSatisfied(gate, w) {
		t.Error("unsatisfied gate passed")
	}

	state.AddItem(w, &types.Item{ID: "vip_karte", Name: "VIP"}, 1)
	if GateSatisfied(gate, w) {
		t.Error("flag condition ignored")
	}
	state.SetFlag(w, "bekannt", true)
	if !GateSatisfied(gate, w) {
		t.Error("fully satisfied gate failed")
	}
}

func TestVisibleChoices_HiddenAndLocked(t *testing.T) {
	d := testDialog()
	w := state.NewWorld("test", "bar", nil)

	choices := VisibleChoices(d.Nodes["hello"], w)
	if len(choices) != 3 {
		t.Fatalf("expected 3 visible choices, got %d", len(choices))
	}
	if choices[0].Locked {
		t.Error("ungated choice must not be locked")
	}
	if !choices[1].Locked {
		t.Error("requires-gated choice must be shown locked")
	}

	// hidden_if matching removes the choice entirely.
	state.SetFlag(w, "verraten", true)
	choices = VisibleChoices(d.Nodes["hello"], w)
	if len(choices) != 2 {
		t.Fatalf("expected 2 visible choices, got %d", len(choices))
	}
	for _, c := range choices {
		if c.Text == "Geheimnis" {
			t.Error("hidden choice still visible")
		}
	}
}

func TestTerminal(t *testing.T) {
	d := testDialog()

	if !Terminal(d, "end") {
		t.Error("explicit end marker must terminate")
	}
	if !Terminal(d, "no_such_node") {
		t.Error("absent node id must terminate")
	}
	if Terminal(d, "trade") {
		t.Error("existing node must not terminate")
	}
}

func TestStartNode(t *testing.T) {
	d := testDialog()
	actor := &types.Actor{ID: "barkeeper", DialogStart: "trade"}

	if got := StartNode(d, actor, "hello"); got != "hello" {
		t.Errorf("override ignored: %q", got)
	}
	if got := StartNode(d, actor, ""); got != "trade" {
		t.Errorf("actor start ignored: %q", got)
	}
	if got := StartNode(d, &types.Actor{}, ""); got != "hello" {
		t.Errorf("graph start ignored: %q", got)
	}
}
