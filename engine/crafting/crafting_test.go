package crafting

import (
	"errors"
	"testing"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

func torchItem() *types.Item {
	return &types.Item{
		ID: "fackel", Name: "Fackel", Stackable: true,
		Recipe: &types.Recipe{
			Inputs: []types.Ingredient{
				{ID: "feuerstein", Qty: 1},
				{ID: "zunder", Qty: 2},
			},
			Events: []types.Event{{Type: "message", Text: "Es brennt."}},
		},
	}
}

func circuitItem() *types.Item {
	return &types.Item{
		ID: "platine", Name: "Platine",
		Recipe: &types.Recipe{
			Inputs: []types.Ingredient{
				{ID: "draht", Qty: 1},
				{ID: "chip", Qty: 1},
			},
			Tools:    []types.Tool{{ID: "loetkolben", Consume: false}},
			Stations: []string{"werkbank"},
		},
	}
}

func testIndex() *Index {
	idx := NewIndex()
	idx.Add(torchItem())
	idx.Add(circuitItem())
	idx.Add(&types.Item{ID: "ohne_rezept"}) // ignored
	return idx
}

func testWorld() *types.World {
	w := state.NewWorld("test", "werkstatt", nil)
	give := func(id string, qty int) {
		state.AddItem(w, &types.Item{ID: id, Name: id, Stackable: true}, qty)
	}
	give("feuerstein", 1)
	give("zunder", 2)
	give("draht", 1)
	give("chip", 1)
	give("loetkolben", 1)
	return w
}

func TestIndex_SkipsRecipeless(t *testing.T) {
	if got := testIndex().Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}

func TestResolve_ExactMatch(t *testing.T) {
	env := Env{World: testWorld()}
	res, err := Resolve([]string{"feuerstein", "zunder"}, env, testIndex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output.ID != "fackel" {
		t.Errorf("output = %q", res.Output.ID)
	}
}

func TestResolve_ExtraIngredientRejected(t *testing.T) {
	env := Env{World: testWorld()}
	_, err := Resolve([]string{"feuerstein", "zunder", "seil"}, env, testIndex())
	if !errors.Is(err, ErrNoRecipe) {
		t.Fatalf("expected ErrNoRecipe, got %v", err)
	}
}

func TestResolve_SubsetNamesMissing(t *testing.T) {
	env := Env{World: testWorld()}
	_, err := Resolve([]string{"feuerstein"}, env, testIndex())

	var missing *MissingIngredientsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingIngredientsError, got %v", err)
	}
	if len(missing.Missing) != 1 || missing.Missing[0].ID != "zunder" {
		t.Errorf("missing = %+v, want zunder", missing.Missing)
	}
}

func TestResolve_InsufficientQuantity(t *testing.T) {
	w := testWorld()
	state.RemoveItem(w, "zunder", 1) // leaves 1 of required 2
	_, err := Resolve([]string{"feuerstein", "zunder"}, Env{World: w}, testIndex())

	var missing *MissingIngredientsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingIngredientsError, got %v", err)
	}
	if missing.Missing[0].ID != "zunder" {
		t.Errorf("missing = %+v", missing.Missing)
	}
}

func TestResolve_StationRequired(t *testing.T) {
	tokens := []string{"draht", "chip", "loetkolben"}

	// No werkbank fixture in the room: the specific station error
	// surfaces instead of a generic failure.
	_, err := Resolve(tokens, Env{World: testWorld()}, testIndex())
	var station *StationError
	if !errors.As(err, &station) {
		t.Fatalf("expected StationError, got %v", err)
	}

	// With the fixture present the recipe resolves.
	env := Env{World: testWorld(), Fixtures: []string{"werkbank"}}
	res, err := Resolve(tokens, env, testIndex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output.ID != "platine" {
		t.Errorf("output = %q", res.Output.ID)
	}
}

func TestResolve_ExplicitStationMustSatisfy(t *testing.T) {
	tokens := []string{"draht", "chip", "loetkolben"}
	env := Env{World: testWorld(), Fixtures: []string{"werkbank", "ofen"}, Station: "ofen"}

	var station *StationError
	if _, err := Resolve(tokens, env, testIndex()); !errors.As(err, &station) {
		t.Fatalf("expected StationError for wrong explicit station, got %v", err)
	}

	env.Station = "werkbank"
	if _, err := Resolve(tokens, env, testIndex()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolve_MissingTool(t *testing.T) {
	w := testWorld()
	state.RemoveItem(w, "loetkolben", 1)
	tokens := []string{"draht", "chip", "loetkolben"}
	env := Env{World: w, Fixtures: []string{"werkbank"}}

	var tool *MissingToolError
	if _, err := Resolve(tokens, env, testIndex()); !errors.As(err, &tool) {
		t.Fatalf("expected MissingToolError, got %v", err)
	}
	if tool.Tool != "loetkolben" {
		t.Errorf("tool = %q", tool.Tool)
	}

	// A tool present as a room fixture counts as available.
	env.Fixtures = append(env.Fixtures, "loetkolben")
	if _, err := Resolve(tokens, env, testIndex()); err != nil {
		t.Fatalf("fixture tool not accepted: %v", err)
	}
}

func TestConsume(t *testing.T) {
	w := testWorld()
	item := circuitItem()
	Consume(w, item.Recipe)

	if state.HasItem(w, "draht") || state.HasItem(w, "chip") {
		t.Error("inputs should be consumed")
	}
	if !state.HasItem(w, "loetkolben") {
		t.Error("non-consumable tool must survive")
	}
}
