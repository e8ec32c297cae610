// Package parser converts raw command strings into Action structs.
// Intentionally dumb: a fixed German/English synonym table, no grammar.
package parser

import (
	"strings"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/resolve"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

var directionAliases = map[string]string{
	"n": "north", "norden": "north", "north": "north",
	"s": "south", "sueden": "south", "suden": "south", "south": "south",
	"o": "east", "osten": "east", "e": "east", "east": "east",
	"w": "west", "westen": "west", "west": "west",
	"hoch": "up", "rauf": "up", "up": "up", "u": "up",
	"runter": "down", "down": "down", "d": "down",
}

var verbAliases = map[string]string{
	// move
	"gehe": "move", "geh": "move", "laufe": "move", "lauf": "move",
	"go": "move", "walk": "move", "move": "move",

	// take
	"nimm": "take", "nehme": "take", "hole": "take", "hol": "take",
	"take": "take", "get": "take", "grab": "take",

	// inspect / look
	"untersuche": "inspect", "betrachte": "inspect", "inspiziere": "inspect",
	"inspect": "inspect", "examine": "inspect", "x": "inspect",
	"schau": "look", "umsehen": "look", "look": "look", "l": "look",

	// use
	"benutze": "use", "verwende": "use", "nutze": "use", "use": "use",

	// open / close
	"offne": "open", "open": "open",
	"schliesse": "close", "close": "close", "shut": "close",

	// push / pull
	"druecke": "push", "drucke": "push", "schiebe": "push",
	"push": "push", "press": "push",
	"ziehe": "pull", "zieh": "pull", "pull": "pull",

	// combat
	"angreifen": "attack", "greife": "attack", "kampfe": "attack",
	"attack": "attack", "hit": "attack", "fight": "attack",
	"verteidige": "defend", "verteidigen": "defend", "blocke": "defend",
	"defend": "defend", "block": "defend",
	"fliehe": "flee", "flieh": "flee", "fliehen": "flee", "flucht": "flee",
	"flee": "flee",

	// talk
	"rede": "talk", "sprich": "talk", "spreche": "talk",
	"talk": "talk", "speak": "talk", "ask": "talk",

	// combine
	"kombiniere": "combine", "baue": "combine", "bastle": "combine",
	"combine": "combine", "craft": "combine",

	// inventory / help / exit
	"inventar": "inventory", "inventory": "inventory", "inv": "inventory", "i": "inventory",
	"hilfe": "help", "help": "help", "?": "help",
	"beende": "exit", "beenden": "exit", "verlasse": "exit",
	"exit": "exit", "quit": "exit",
}

// combineSeparators join item references in a combine sentence.
var combineSeparators = map[string]bool{
	"mit": true, "with": true, "und": true, "and": true,
}

// stationMarkers introduce the optional station suffix of a combine.
var stationMarkers = map[string]bool{
	"auf": true, "on": true, "an": true,
}

var prepositions = map[string]bool{
	"mit": true, "with": true, "an": true, "auf": true, "on": true,
	"zu": true, "to": true, "at": true, "ueber": true, "about": true,
	"in": true,
}

var articles = map[string]bool{
	"der": true, "die": true, "das": true, "den": true, "dem": true,
	"einen": true, "eine": true, "ein": true, "einem": true,
	"nach": true, "zum": true, "zur": true,
	"the": true, "a": true, "an": true,
}

// Parse converts one line of player input into an Action. The Verb is
// empty when nothing matched; no field is ever populated with meaning
// the input did not carry.
func Parse(input string) types.Action {
	action := types.Action{Raw: input}

	norm := resolve.Normalize(input)
	if norm == "" {
		return action
	}
	words := strings.Fields(norm)

	// Bare direction token is a move without a verb.
	if len(words) == 1 {
		if dir, ok := directionAliases[words[0]]; ok {
			action.Verb = "move"
			action.Direction = dir
			return action
		}
	}

	verb, ok := verbAliases[words[0]]
	if !ok {
		return action
	}
	rest := words[1:]

	// A "use"-phrased combination ("benutze X mit Y") is a combine, not
	// a use. Checked before generic handling so the combine shape wins.
	if (verb == "use" || verb == "combine") && hasSeparator(rest) {
		return parseCombine(action, rest)
	}

	action.Verb = verb
	rest = stripArticles(rest)

	switch verb {
	case "move":
		if len(rest) > 0 {
			if dir, ok := directionAliases[rest[0]]; ok {
				action.Direction = dir
			} else {
				action.Object = strings.Join(rest, " ")
			}
		}
	case "combine":
		// Reaching here means a single reference without separators;
		// keep it as the object so the router can report it properly.
		action.Object = strings.Join(rest, " ")
		if action.Object != "" {
			action.Items = []string{action.Object}
		}
	default:
		action.Object, action.Target = splitOnPreposition(rest)
		// "rede mit haendler" leaves nothing before the preposition;
		// the reference after it is the object then.
		if action.Object == "" && action.Target != "" {
			action.Object, action.Target = action.Target, ""
		}
	}

	return action
}

// parseCombine parses "X mit Y (und Z) (auf station)" into an ordered
// item-reference list plus an optional station.
func parseCombine(action types.Action, words []string) types.Action {
	action.Verb = "combine"

	// Peel off the trailing "auf <station>" suffix first.
	for i := len(words) - 1; i > 0; i-- {
		if stationMarkers[words[i]] && i < len(words)-1 {
			action.Station = strings.Join(stripArticles(words[i+1:]), " ")
			words = words[:i]
			break
		}
	}

	var items []string
	var current []string
	flush := func() {
		ref := strings.Join(stripArticles(current), " ")
		if ref != "" {
			items = append(items, ref)
		}
		current = current[:0]
	}
	for _, w := range words {
		if combineSeparators[w] {
			flush()
			continue
		}
		current = append(current, w)
	}
	flush()

	action.Items = items
	if len(items) > 0 {
		action.Object = items[0]
	}
	if len(items) > 1 {
		action.Target = items[1]
	}
	return action
}

func hasSeparator(words []string) bool {
	for _, w := range words {
		if combineSeparators[w] {
			return true
		}
	}
	return false
}

func stripArticles(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			out = append(out, w)
		}
	}
	return out
}

// splitOnPreposition splits words on the first preposition: the words
// before become the object, the words after the target.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			return strings.Join(words[:i], " "), strings.Join(words[i+1:], " ")
		}
	}
	return strings.Join(words, " "), ""
}

// Directions returns the canonical direction for an alias, if any.
func Directions(word string) (string, bool) {
	dir, ok := directionAliases[resolve.Normalize(word)]
	return dir, ok
}

// HelpText lists the recognized verbs and directions for the help verb.
func HelpText() []string {
	return []string{
		"Befehle: gehe <richtung>, nimm <ding>, untersuche <ding>, schau,",
		"  benutze <ding>, offne/schliesse, druecke/ziehe, rede <name>,",
		"  kombiniere <a> mit <b> [auf <station>], angreifen, verteidigen,",
		"  fliehen, inventar, hilfe, beenden.",
		"Richtungen: norden (n), sueden (s), osten (o), westen (w), hoch, runter.",
	}
}
