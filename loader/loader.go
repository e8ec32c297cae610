// Package loader fetches, decodes, and memoizes adventure definition
// documents. Documents live under an adventure's data root by
// convention path and may be JSON or YAML; adventures may instead be
// authored in Lua (see lua.go), which compiles to the same document
// set. Caches are append-only for the session lifetime.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// ErrNotFound marks a document that does not exist under the data root.
var ErrNotFound = errors.New("document not found")

// Fetcher fetches one document blob by convention path. The transport
// behind it is a black box to the interpreter.
type Fetcher interface {
	Fetch(path string) ([]byte, error)
}

// DirFetcher serves documents from a directory tree.
type DirFetcher struct {
	Root string
}

func (d DirFetcher) Fetch(p string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.Root, filepath.FromSlash(p)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return data, err
}

// MemFetcher serves documents from memory; the Lua front-end compiles
// into one of these.
type MemFetcher map[string][]byte

func (m MemFetcher) Fetch(p string) ([]byte, error) {
	if data, ok := m[p]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
}

// Loader memoizes decoded definitions per session.
type Loader struct {
	fetch Fetcher

	world   *types.WorldDef
	game    *types.GameDef
	rooms   map[string]*types.Room
	items   map[string]*types.Item
	objects map[string]*types.Object
	actors  map[string]*types.Actor
	dialogs map[string]*types.Dialog
	indexes map[string][]string
}

// New creates a loader over a fetcher.
func New(f Fetcher) *Loader {
	return &Loader{
		fetch:   f,
		rooms:   map[string]*types.Room{},
		items:   map[string]*types.Item{},
		objects: map[string]*types.Object{},
		actors:  map[string]*types.Actor{},
		dialogs: map[string]*types.Dialog{},
		indexes: map[string][]string{},
	}
}

// fetchDoc tries the conventional extensions for a base path.
func (l *Loader) fetchDoc(base string) (data []byte, ext string, err error) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		data, err := l.fetch.Fetch(base + ext)
		if err == nil {
			return data, ext, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, "", err
		}
	}
	return nil, "", fmt.Errorf("%s: %w", base, ErrNotFound)
}

func decode(data []byte, ext string, v any) error {
	if ext == ".json" {
		return json.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

func (l *Loader) load(base string, v any) error {
	data, ext, err := l.fetchDoc(base)
	if err != nil {
		return err
	}
	if err := decode(data, ext, v); err != nil {
		return fmt.Errorf("decoding %s: %w", base, err)
	}
	return nil
}

// World returns the adventure's world manifest.
func (l *Loader) World() (*types.WorldDef, error) {
	if l.world != nil {
		return l.world, nil
	}
	var w types.WorldDef
	if err := l.load("world", &w); err != nil {
		return nil, err
	}
	l.world = &w
	return l.world, nil
}

// Game returns the adventure's game manifest.
func (l *Loader) Game() (*types.GameDef, error) {
	if l.game != nil {
		return l.game, nil
	}
	var g types.GameDef
	if err := l.load("game", &g); err != nil {
		return nil, err
	}
	l.game = &g
	return l.game, nil
}

// Room returns a room template by id.
func (l *Loader) Room(id string) (*types.Room, error) {
	if r, ok := l.rooms[id]; ok {
		return r, nil
	}
	var r types.Room
	if err := l.load(path.Join("rooms", id), &r); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = id
	}
	l.rooms[id] = &r
	return &r, nil
}

// Item returns an item template by id.
func (l *Loader) Item(id string) (*types.Item, error) {
	if it, ok := l.items[id]; ok {
		return it, nil
	}
	var it types.Item
	if err := l.load(path.Join("items", id), &it); err != nil {
		return nil, err
	}
	if it.ID == "" {
		it.ID = id
	}
	l.items[id] = &it
	return &it, nil
}

// Object returns a fixture template by id.
func (l *Loader) Object(id string) (*types.Object, error) {
	if o, ok := l.objects[id]; ok {
		return o, nil
	}
	var o types.Object
	if err := l.load(path.Join("objects", id), &o); err != nil {
		return nil, err
	}
	if o.ID == "" {
		o.ID = id
	}
	l.objects[id] = &o
	return &o, nil
}

// rawActor tolerates the legacy flat actor shape next to the canonical
// one. Stats may appear nested or as top-level hp/attack/defense;
// dialog_start was once called dialog.
type rawActor struct {
	types.Actor `yaml:",inline"`

	HP             *int     `json:"hp,omitempty" yaml:"hp,omitempty"`
	LegacyAttack   *int     `json:"attack,omitempty" yaml:"attack,omitempty"`
	LegacyDefense  *int     `json:"defense,omitempty" yaml:"defense,omitempty"`
	LegacyDialog   string   `json:"dialog,omitempty" yaml:"dialog,omitempty"`
	LegacyFleeDiff *float64 `json:"fleeDifficulty,omitempty" yaml:"fleeDifficulty,omitempty"`
}

// migrateActor folds legacy fields into the canonical actor shape.
// Branching on shape happens only here.
func migrateActor(raw *rawActor, id, fallbackType string) *types.Actor {
	a := raw.Actor
	if a.ID == "" {
		a.ID = id
	}
	if a.Type == "" {
		a.Type = fallbackType
	}
	if a.Stats == nil && raw.HP != nil {
		a.Stats = &types.ActorStats{HP: *raw.HP}
		if raw.LegacyAttack != nil {
			a.Stats.Attack = *raw.LegacyAttack
		}
		if raw.LegacyDefense != nil {
			a.Stats.Defense = *raw.LegacyDefense
		}
	}
	if a.DialogStart == "" {
		a.DialogStart = raw.LegacyDialog
	}
	if a.Behavior.FleeDifficulty == 0 && raw.LegacyFleeDiff != nil {
		a.Behavior.FleeDifficulty = *raw.LegacyFleeDiff
	}
	return &a
}

// Actor returns an actor template by id, falling back to the legacy
// npcs/ and enemies/ locations for adventures that predate the unified
// actor collection.
func (l *Loader) Actor(id string) (*types.Actor, error) {
	if a, ok := l.actors[id]; ok {
		return a, nil
	}
	for _, loc := range []struct {
		dir          string
		fallbackType string
	}{
		{"actors", "npc"},
		{"npcs", "npc"},
		{"enemies", "enemy"},
	} {
		var raw rawActor
		err := l.load(path.Join(loc.dir, id), &raw)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		a := migrateActor(&raw, id, loc.fallbackType)
		l.actors[id] = a
		return a, nil
	}
	return nil, fmt.Errorf("actor %s: %w", id, ErrNotFound)
}

// Dialog returns an actor's dialog graph.
func (l *Loader) Dialog(actorID string) (*types.Dialog, error) {
	if d, ok := l.dialogs[actorID]; ok {
		return d, nil
	}
	var d types.Dialog
	if err := l.load(path.Join("dialogs", actorID), &d); err != nil {
		return nil, err
	}
	l.dialogs[actorID] = &d
	return &d, nil
}

// Art fetches an ascii-art document. Art is cosmetic: callers degrade
// to blank output when this fails.
func (l *Loader) Art(name string) (string, error) {
	data, err := l.fetch.Fetch(path.Join("art", name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// index is the shape of items/index.json and actors/index.json.
// A bare id array is accepted too.
type index struct {
	IDs []string `json:"ids" yaml:"ids"`
}

// loadIndex memoizes like the other accessors; an absent index is
// cached as absent too, so status refreshes never re-fetch.
func (l *Loader) loadIndex(base string) []string {
	if ids, ok := l.indexes[base]; ok {
		return ids
	}
	l.indexes[base] = l.decodeIndex(base)
	return l.indexes[base]
}

func (l *Loader) decodeIndex(base string) []string {
	data, ext, err := l.fetchDoc(base)
	if err != nil {
		return nil
	}
	var ids []string
	if err := decode(data, ext, &ids); err == nil {
		return ids
	}
	var idx index
	if err := decode(data, ext, &idx); err == nil {
		return idx.IDs
	}
	return nil
}

// ItemIndex returns the optional pre-warm id list for items.
func (l *Loader) ItemIndex() []string {
	return l.loadIndex("items/index")
}

// ActorIndex returns the optional pre-warm id list for actors.
func (l *Loader) ActorIndex() []string {
	return l.loadIndex("actors/index")
}
