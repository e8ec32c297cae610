// Package crafting matches combine requests against item-declared
// recipes. Recipes are declared on the output item and must be named
// precisely: the requested token set has to equal inputs ∪ tools, no
// extra and no missing tokens.
package crafting

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// ErrNoRecipe means no declared recipe covers the requested token set.
var ErrNoRecipe = errors.New("no matching recipe")

// MissingIngredientsError names the first insufficient ingredient set.
type MissingIngredientsError struct {
	Output  string
	Missing []types.Ingredient
}

func (e *MissingIngredientsError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		ids[i] = m.ID
	}
	return fmt.Sprintf("missing ingredients for %s: %s", e.Output, strings.Join(ids, ", "))
}

// MissingToolError names a required tool that is neither held nor
// present as a room fixture.
type MissingToolError struct {
	Output string
	Tool   string
}

func (e *MissingToolError) Error() string {
	return fmt.Sprintf("missing tool for %s: %s", e.Output, e.Tool)
}

// StationError reports a token-set match whose station requirement
// failed; it is surfaced instead of a generic "cannot combine".
type StationError struct {
	Output   string
	Stations []string
}

func (e *StationError) Error() string {
	return fmt.Sprintf("%s requires a station: %s", e.Output, strings.Join(e.Stations, ", "))
}

// Index holds all item definitions that declare a recipe, in insertion
// order. It is pre-warmed from the adventure's item index at load time.
type Index struct {
	order []*types.Item
	seen  map[string]bool
}

// NewIndex creates an empty recipe index.
func NewIndex() *Index {
	return &Index{seen: map[string]bool{}}
}

// Add registers an item if it declares a recipe. Duplicate ids are
// ignored.
func (x *Index) Add(item *types.Item) {
	if item == nil || item.Recipe == nil || x.seen[item.ID] {
		return
	}
	x.seen[item.ID] = true
	x.order = append(x.order, item)
}

// Len returns the number of indexed recipes.
func (x *Index) Len() int { return len(x.order) }

// Env is the situational context of one combine request.
type Env struct {
	World    *types.World
	Fixtures []string // fixture ids present in the current room
	Station  string   // explicitly named station id, if any
}

// Result is a successfully matched recipe and its output item.
type Result struct {
	Output *types.Item
	Recipe *types.Recipe
}

// Resolve matches the normalized token set of requested item ids
// against the index. On a token-set match it verifies station,
// ingredient quantities, and tool availability. When no exact match
// exists, a subset match produces a missing-ingredient error and a
// station-only failure is reported specifically; everything else is
// ErrNoRecipe.
func Resolve(tokens []string, env Env, idx *Index) (*Result, error) {
	want := tokenSet(tokens)
	if len(want) == 0 {
		return nil, ErrNoRecipe
	}

	var stationMiss *StationError
	var subsetMiss *MissingIngredientsError

	for _, item := range idx.order {
		recipe := item.Recipe
		have := recipeSet(recipe)

		if !sameSet(want, have) {
			// Remember the first recipe the request is a strict
			// subset of, for the missing-ingredient report.
			if subsetMiss == nil && isSubset(want, have) {
				subsetMiss = &MissingIngredientsError{
					Output:  item.ID,
					Missing: missingFrom(want, recipe),
				}
			}
			continue
		}

		if err := checkStation(item, recipe, env); err != nil {
			if stationMiss == nil {
				stationMiss = err
			}
			continue
		}

		if missing := insufficientInputs(env.World, recipe); len(missing) > 0 {
			return nil, &MissingIngredientsError{Output: item.ID, Missing: missing}
		}
		if tool, ok := missingTool(env, recipe); !ok {
			return nil, &MissingToolError{Output: item.ID, Tool: tool}
		}

		return &Result{Output: item, Recipe: recipe}, nil
	}

	if stationMiss != nil {
		return nil, stationMiss
	}
	if subsetMiss != nil {
		return nil, subsetMiss
	}
	return nil, ErrNoRecipe
}

// Consume removes the matched recipe's inputs and consumable tools
// from the inventory. Availability was verified by Resolve.
func Consume(w *types.World, recipe *types.Recipe) {
	for _, in := range recipe.Inputs {
		qty := in.Qty
		if qty <= 0 {
			qty = 1
		}
		state.RemoveItem(w, in.ID, qty)
	}
	for _, tool := range recipe.Tools {
		if !tool.Consume {
			continue
		}
		qty := tool.Qty
		if qty <= 0 {
			qty = 1
		}
		state.RemoveItem(w, tool.ID, qty)
	}
}

func checkStation(item *types.Item, recipe *types.Recipe, env Env) *StationError {
	if env.Station != "" {
		// An explicitly named station must satisfy the recipe.
		if !containsStr(recipe.Stations, env.Station) {
			return &StationError{Output: item.ID, Stations: recipe.Stations}
		}
	}
	if len(recipe.Stations) == 0 {
		return nil
	}
	for _, st := range recipe.Stations {
		if containsStr(env.Fixtures, st) {
			return nil
		}
	}
	return &StationError{Output: item.ID, Stations: recipe.Stations}
}

// insufficientInputs returns the inputs whose held quantity is short.
func insufficientInputs(w *types.World, recipe *types.Recipe) []types.Ingredient {
	var missing []types.Ingredient
	for _, in := range recipe.Inputs {
		need := in.Qty
		if need <= 0 {
			need = 1
		}
		if state.ItemCount(w, in.ID) < need {
			missing = append(missing, in)
		}
	}
	return missing
}

// missingTool returns the first tool neither held nor fixed in the
// room; ok is true when all tools are available.
func missingTool(env Env, recipe *types.Recipe) (string, bool) {
	for _, tool := range recipe.Tools {
		need := tool.Qty
		if need <= 0 {
			need = 1
		}
		if state.ItemCount(env.World, tool.ID) >= need {
			continue
		}
		if containsStr(env.Fixtures, tool.ID) {
			continue
		}
		return tool.ID, false
	}
	return "", true
}

// missingFrom lists the recipe tokens absent from the request.
func missingFrom(want map[string]bool, recipe *types.Recipe) []types.Ingredient {
	var missing []types.Ingredient
	for _, in := range recipe.Inputs {
		if !want[in.ID] {
			missing = append(missing, in)
		}
	}
	for _, tool := range recipe.Tools {
		if !want[tool.ID] {
			missing = append(missing, types.Ingredient{ID: tool.ID, Qty: tool.Qty})
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i].ID < missing[j].ID })
	return missing
}

func tokenSet(tokens []string) map[string]bool {
	set := map[string]bool{}
	for _, t := range tokens {
		if t != "" {
			set[t] = true
		}
	}
	return set
}

func recipeSet(recipe *types.Recipe) map[string]bool {
	set := map[string]bool{}
	for _, in := range recipe.Inputs {
		set[in.ID] = true
	}
	for _, tool := range recipe.Tools {
		set[tool.ID] = true
	}
	return set
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func isSubset(sub, super map[string]bool) bool {
	if len(sub) >= len(super) {
		return false
	}
	for k := range sub {
		if !super[k] {
			return false
		}
	}
	return true
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
