// Package engine drives one interpreter session: input routing, the
// action handlers, and the combat and dialog state machines. Narrative
// output goes through the UI sink, diagnostics through the debug
// logger, persistence through the blob store.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/debuglog"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/crafting"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/dialogue"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/events"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/parser"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/resolve"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/save"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/loader"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/storage"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// UI is the output sink a host implements. The engine pushes rendered
// lines and art; hosts decide how to display them.
type UI interface {
	Println(lines ...string)
	ShowArt(art string)
	RefreshStatus()
}

// Status is the snapshot hosts render in their status line.
type Status struct {
	Room          string
	HP, MaxHP     int
	Attack        int
	Defense       int
	InCombat      bool
	Opponent      string
	OpponentHP    int
	OpponentMaxHP int
	InDialog      bool
}

// Session is one running adventure for one user.
type Session struct {
	id        string
	adventure string
	user      string

	defs  *loader.Loader
	store storage.BlobStore
	ui    UI
	log   *debuglog.Logger

	world   *types.World
	rng     *RNG
	recipes *crafting.Index
	seed    int64
	active  bool
}

// NewSession wires a session. Nothing runs until Start or Continue.
func NewSession(adventure, user string, defs *loader.Loader, store storage.BlobStore, ui UI, log *debuglog.Logger) *Session {
	if log == nil {
		log = debuglog.Nop()
	}
	return &Session{
		id:        uuid.NewString(),
		adventure: adventure,
		user:      user,
		defs:      defs,
		store:     store,
		ui:        ui,
		log:       log,
	}
}

// ID is the session identifier attached to debug-log lines.
func (s *Session) ID() string { return s.id }

// IsActive reports whether the session accepts input.
func (s *Session) IsActive() bool { return s.active }

// SetDebug toggles the diagnostic channel at runtime.
func (s *Session) SetDebug(on bool) {
	s.log.SetEnabled(on)
	s.log.Debugf("session %s: debug enabled", s.id)
}

// SetSeed fixes the RNG seed for the next Start. Zero means derive one
// from the clock.
func (s *Session) SetSeed(seed int64) { s.seed = seed }

// World exposes the session record, mainly for hosts and tests.
func (s *Session) World() *types.World { return s.world }

// Start begins a fresh run, ignoring any stored save.
func (s *Session) Start() error {
	wd, err := s.defs.World()
	if err != nil {
		return fmt.Errorf("loading world manifest: %w", err)
	}
	game, err := s.defs.Game()
	if err != nil {
		return fmt.Errorf("loading game manifest: %w", err)
	}

	s.world = state.NewWorld(s.adventure, wd.StartRoom, wd.GlobalFlags)
	seed := s.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.world.RNGSeed = seed
	s.rng = NewRNG(seed)
	s.warmRecipes()
	s.active = true
	s.log.Debugf("session %s: fresh start in %s (seed %d)", s.id, wd.StartRoom, seed)

	if game.Title != "" {
		s.ui.Println("=== " + game.Title + " ===")
	}
	if game.Intro != "" {
		s.ui.Println(game.Intro)
	}
	if err := s.Transition(wd.StartRoom); err != nil {
		return err
	}
	s.ui.RefreshStatus()
	return nil
}

// Continue resumes from the stored save. A missing or unreadable blob
// falls back to a fresh start.
func (s *Session) Continue() error {
	data, err := s.store.Load(s.adventure, s.user)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warnf("loading save for %s/%s: %v", s.adventure, s.user, err)
		}
		return s.Start()
	}
	w, err := save.Unmarshal(data)
	if err != nil {
		s.log.Warnf("corrupt save for %s/%s, starting over: %v", s.adventure, s.user, err)
		return s.Start()
	}

	s.world = w
	s.rng = RestoreRNG(w.RNGSeed, w.RNGPos)
	s.warmRecipes()
	s.active = true
	s.log.Debugf("session %s: continued in %s", s.id, w.Room)

	s.ui.Println("Willkommen zurück.")
	s.describeRoom()
	s.ui.RefreshStatus()
	return nil
}

// Reset deletes the stored save and starts over.
func (s *Session) Reset() error {
	if err := s.store.Delete(s.adventure, s.user); err != nil {
		s.log.Warnf("deleting save for %s/%s: %v", s.adventure, s.user, err)
	}
	return s.Start()
}

// Exit saves and deactivates the session.
func (s *Session) Exit() {
	if game, err := s.defs.Game(); err == nil && game.Outro != "" {
		s.ui.Println(game.Outro)
	}
	s.ui.Println("Bis zum nächsten Mal.")
	s.persist()
	s.active = false
}

// warmRecipes indexes every item declaring a recipe, using the
// adventure's item index. Without an index only combine hooks work.
func (s *Session) warmRecipes() {
	s.recipes = crafting.NewIndex()
	for _, id := range s.defs.ItemIndex() {
		item, err := s.defs.Item(id)
		if err != nil {
			s.log.Warnf("item index entry %s: %v", id, err)
			continue
		}
		s.recipes.Add(item)
	}
	s.log.Debugf("session %s: %d recipes indexed", s.id, s.recipes.Len())
}

// persist writes the session record. Failures are logged, never
// surfaced to the player.
func (s *Session) persist() {
	if s.world == nil {
		return
	}
	s.world.RNGPos = s.rng.Position()
	data, err := save.Marshal(s.world)
	if err != nil {
		s.log.Warnf("encoding save: %v", err)
		return
	}
	if err := s.store.Save(s.adventure, s.user, data); err != nil {
		s.log.Warnf("writing save: %v", err)
	}
}

// HandleInput consumes one line of player input. Dialog input is
// consumed exclusively by the dialog controller, then combat, then the
// ordinary router.
func (s *Session) HandleInput(input string) {
	if !s.active {
		return
	}
	switch {
	case s.world.Dialog.Active:
		s.handleDialogInput(input)
	case s.world.Combat.Active:
		s.handleCombatInput(input)
	default:
		s.route(parser.Parse(input))
	}
	s.ui.RefreshStatus()
}

func (s *Session) route(a types.Action) {
	switch a.Verb {
	case "":
		if strings.TrimSpace(a.Raw) == "" {
			return
		}
		s.ui.Println("Das verstehe ich nicht.")
		s.log.Debugf("unparsed input %q", a.Raw)
	case "move":
		s.doMove(a)
	case "take":
		s.doTake(a)
	case "inspect":
		s.doInspect(a)
	case "look":
		if a.Object == "" {
			s.describeRoom()
		} else {
			s.doInspect(a)
		}
	case "use", "open", "close", "push", "pull":
		s.doUse(a)
	case "combine":
		s.doCombine(a)
	case "talk":
		s.doTalk(a)
	case "attack":
		s.doAttack(a)
	case "defend", "flee":
		s.ui.Println("Du bist in keinem Kampf.")
	case "inventory":
		s.showInventory()
	case "help":
		s.ui.Println(parser.HelpText()...)
	case "exit":
		s.Exit()
	default:
		s.ui.Println("Das verstehe ich nicht.")
	}
}

// --- events.Host ---

func (s *Session) Print(line string) { s.ui.Println(line) }

// ShowArt degrades to nothing when the art document is missing.
func (s *Session) ShowArt(name string) {
	art, err := s.defs.Art(name)
	if err != nil {
		s.log.Debugf("art %s: %v", name, err)
		return
	}
	s.ui.ShowArt(art)
}

func (s *Session) Item(id string) (*types.Item, error)   { return s.defs.Item(id) }
func (s *Session) Actor(id string) (*types.Actor, error) { return s.defs.Actor(id) }

func (s *Session) Save() { s.persist() }

func (s *Session) Debugf(format string, args ...any) { s.log.Debugf(format, args...) }

// runEvents executes an authored event list and surfaces failures to
// the player. A missing definition mid-list is an authoring bug the
// author needs to see, not something to bury in the debug log.
func (s *Session) runEvents(list []types.Event, what string) {
	if len(list) == 0 {
		return
	}
	if err := events.Run(list, s.world, s); err != nil {
		s.log.Warnf("%s: %v", what, err)
		s.ui.Println("[Autorenfehler: Ereignis fehlgeschlagen]")
	}
}

// Transition moves the player into a room, seeds its static items into
// the spawn overlay on first visit, runs the enter hooks, and renders
// the room.
func (s *Session) Transition(roomID string) error {
	room, err := s.defs.Room(roomID)
	if err != nil {
		return fmt.Errorf("entering room %s: %w", roomID, err)
	}

	s.world.Room = roomID
	first := state.Visit(s.world, roomID)
	if first {
		for _, itemID := range room.Items {
			state.SpawnItem(s.world, roomID, itemID, 1)
		}
	}
	s.persist()
	s.describeRoom()

	if first && len(room.OnFirstEnter) > 0 {
		if err := events.Run(room.OnFirstEnter, s.world, s); err != nil {
			return err
		}
	}
	if len(room.OnEnter) > 0 {
		if err := events.Run(room.OnEnter, s.world, s); err != nil {
			return err
		}
	}
	return nil
}

// --- rendering ---

func (s *Session) currentRoom() (*types.Room, error) {
	return s.defs.Room(s.world.Room)
}

func (s *Session) describeRoom() {
	room, err := s.currentRoom()
	if err != nil {
		s.log.Warnf("describing room %s: %v", s.world.Room, err)
		return
	}

	s.ui.Println("— " + room.Title + " —")
	if room.Art != "" {
		s.ShowArt(room.Art)
	}
	s.ui.Println(room.Description)

	if names := s.itemNamesInRoom(); len(names) > 0 {
		s.ui.Println("Hier liegt: " + strings.Join(names, ", "))
	}
	if names := s.fixtureNames(room); len(names) > 0 {
		s.ui.Println("Du siehst: " + strings.Join(names, ", "))
	}
	if actors := s.actorsInRoom(); len(actors) > 0 {
		names := make([]string, len(actors))
		for i, a := range actors {
			names[i] = a.Name
		}
		s.ui.Println("Anwesend: " + strings.Join(names, ", "))
	}
	s.ui.Println(s.exitLine(room))
}

func (s *Session) exitLine(room *types.Room) string {
	if len(room.Exits) == 0 {
		return "Es gibt keinen sichtbaren Ausgang."
	}
	dirs := make([]string, 0, len(room.Exits))
	for dir := range room.Exits {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	for i, dir := range dirs {
		if state.ExitLocked(s.world, room.ID, dir) {
			dirs[i] = dir + " (versperrt)"
		}
	}
	return "Ausgänge: " + strings.Join(dirs, ", ")
}

func (s *Session) itemNamesInRoom() []string {
	var names []string
	for _, entry := range state.SpawnedItems(s.world, s.world.Room) {
		item, err := s.defs.Item(entry.ID)
		name := entry.ID
		if err == nil {
			name = item.Name
		}
		if entry.Qty > 1 {
			name = fmt.Sprintf("%s (×%d)", name, entry.Qty)
		}
		names = append(names, name)
	}
	return names
}

func (s *Session) fixtureNames(room *types.Room) []string {
	var names []string
	for _, id := range room.Objects {
		obj, err := s.defs.Object(id)
		if err != nil {
			s.log.Warnf("fixture %s in %s: %v", id, room.ID, err)
			continue
		}
		names = append(names, obj.Name)
	}
	return names
}

// actorsInRoom lists the visible actors present, from three sources:
// indexed template residents whose authoritative location is this
// room, actors spawned here, and actors the overlay has moved here
// even when the index never mentions them.
func (s *Session) actorsInRoom() []*types.Actor {
	seen := map[string]bool{}
	var out []*types.Actor
	appendActor := func(id, home string) {
		if seen[id] {
			return
		}
		a, err := s.defs.Actor(id)
		if err != nil {
			return
		}
		if state.ActorRoom(s.world, id, home) != s.world.Room {
			return
		}
		if !s.actorVisible(a) {
			return
		}
		seen[id] = true
		out = append(out, a)
	}

	for _, id := range s.defs.ActorIndex() {
		if a, err := s.defs.Actor(id); err == nil {
			appendActor(id, a.Room)
		}
	}
	// A spawn entry means "here" until the overlay says otherwise.
	for _, sp := range state.SpawnedActors(s.world, s.world.Room) {
		appendActor(sp.ID, s.world.Room)
	}
	overlay := make([]string, 0, len(s.world.Actors))
	for id := range s.world.Actors {
		overlay = append(overlay, id)
	}
	sort.Strings(overlay)
	for _, id := range overlay {
		appendActor(id, "")
	}
	return out
}

func (s *Session) actorVisible(a *types.Actor) bool {
	if a.OnlyIfFlag != "" && !state.GetFlag(s.world, a.OnlyIfFlag) {
		return false
	}
	if a.HiddenIfFlag != "" && state.GetFlag(s.world, a.HiddenIfFlag) {
		return false
	}
	return true
}

// Status snapshots what hosts render in their status line.
func (s *Session) Status() Status {
	st := Status{}
	if s.world == nil {
		return st
	}
	st.HP, st.MaxHP = s.world.Stats.HP, s.world.Stats.MaxHP
	st.Attack, st.Defense = s.world.Stats.Attack, s.world.Stats.Defense
	if room, err := s.currentRoom(); err == nil {
		st.Room = room.Title
	}
	if c := s.world.Combat; c.Active && c.Opponent != nil {
		st.InCombat = true
		st.Opponent = c.Opponent.Name
		st.OpponentHP = c.OpponentHP
		st.OpponentMaxHP = c.StartHP
	}
	st.InDialog = s.world.Dialog.Active
	return st
}

// --- resolution helpers ---

func (s *Session) printResolveErr(err error) {
	var amb *resolve.AmbiguityError
	if errors.As(err, &amb) {
		names := make([]string, len(amb.Matches))
		for i, m := range amb.Matches {
			names[i] = m.Name
		}
		s.ui.Println("Meinst du " + strings.Join(names, " oder ") + "?")
		return
	}
	var nf *resolve.NotFoundError
	if errors.As(err, &nf) {
		s.ui.Println(fmt.Sprintf("Hier gibt es kein %q.", nf.Ref))
		return
	}
	s.ui.Println("Das findest du hier nicht.")
}

func (s *Session) roomItemCandidates() []resolve.Candidate {
	var cands []resolve.Candidate
	for _, entry := range state.SpawnedItems(s.world, s.world.Room) {
		name := entry.ID
		if item, err := s.defs.Item(entry.ID); err == nil {
			name = item.Name
		}
		cands = append(cands, resolve.Candidate{ID: entry.ID, Name: name})
	}
	return cands
}

func (s *Session) inventoryCandidates() []resolve.Candidate {
	var cands []resolve.Candidate
	for _, entry := range s.world.Inventory {
		name := entry.ID
		if item, err := s.defs.Item(entry.ID); err == nil {
			name = item.Name
		}
		cands = append(cands, resolve.Candidate{ID: entry.ID, Name: name})
	}
	return cands
}

func (s *Session) fixtureCandidates(room *types.Room) []resolve.Candidate {
	var cands []resolve.Candidate
	for _, id := range room.Objects {
		name := id
		if obj, err := s.defs.Object(id); err == nil {
			name = obj.Name
		}
		cands = append(cands, resolve.Candidate{ID: id, Name: name})
	}
	return cands
}

func (s *Session) actorCandidates() []resolve.Candidate {
	var cands []resolve.Candidate
	for _, a := range s.actorsInRoom() {
		cands = append(cands, resolve.Candidate{ID: a.ID, Name: a.Name})
	}
	return cands
}

// resolveInventoryItem resolves a reference against the inventory and
// loads the item definition, printing the failure itself.
func (s *Session) resolveInventoryItem(ref string) (*types.Item, bool) {
	c, err := resolve.Find(ref, s.inventoryCandidates())
	if err != nil {
		var nf *resolve.NotFoundError
		if errors.As(err, &nf) {
			s.ui.Println("Das hast du nicht dabei.")
		} else {
			s.printResolveErr(err)
		}
		return nil, false
	}
	item, err := s.defs.Item(c.ID)
	if err != nil {
		s.log.Warnf("inventory item %s: %v", c.ID, err)
		s.ui.Println("Das hast du nicht dabei.")
		return nil, false
	}
	return item, true
}

// --- verbs ---

// exitFor matches a parsed canonical direction against the authored
// exit keys, which adventures write in German ("norden") or as any
// other alias. The authored key is returned unchanged so lock state
// stays keyed the way lock_exit events key it.
func exitFor(room *types.Room, dir string) (key, dest string, ok bool) {
	if dest, ok := room.Exits[dir]; ok {
		return dir, dest, true
	}
	for key, dest := range room.Exits {
		if canon, known := parser.Directions(key); known && canon == dir {
			return key, dest, true
		}
	}
	return "", "", false
}

func (s *Session) doMove(a types.Action) {
	if a.Direction == "" {
		s.ui.Println("Wohin?")
		return
	}
	room, err := s.currentRoom()
	if err != nil {
		s.log.Warnf("move: %v", err)
		return
	}
	key, dest, ok := exitFor(room, a.Direction)
	if !ok {
		s.ui.Println("In diese Richtung geht es nicht weiter.")
		return
	}
	if state.ExitLocked(s.world, room.ID, key) {
		s.ui.Println("Der Weg ist versperrt.")
		return
	}
	if err := s.Transition(dest); err != nil {
		s.log.Warnf("transition to %s: %v", dest, err)
		s.ui.Println("[Autorenfehler: Raum fehlt]")
	}
}

func (s *Session) doTake(a types.Action) {
	if a.Object == "" {
		s.ui.Println("Was willst du nehmen?")
		return
	}
	c, err := resolve.Find(a.Object, s.roomItemCandidates())
	if err != nil {
		s.printResolveErr(err)
		return
	}
	item, err := s.defs.Item(c.ID)
	if err != nil {
		s.log.Warnf("take %s: %v", c.ID, err)
		s.ui.Println("[Autorenfehler: Gegenstand fehlt]")
		return
	}
	if !item.Pickup {
		s.ui.Println(fmt.Sprintf("%s lässt sich nicht mitnehmen.", item.Name))
		return
	}
	if !item.Stackable && state.HasItem(s.world, item.ID) {
		s.ui.Println(fmt.Sprintf("%s trägst du schon bei dir.", item.Name))
		return
	}
	taken := state.TakeSpawnedItem(s.world, s.world.Room, item.ID, 1)
	if taken == 0 {
		s.ui.Println("Das liegt hier nicht mehr.")
		return
	}
	if added := state.AddItem(s.world, item, taken); added == 0 {
		// Full stack; put it back.
		state.SpawnItem(s.world, s.world.Room, item.ID, taken)
		s.ui.Println(fmt.Sprintf("Mehr %s kannst du nicht tragen.", item.Name))
		return
	}
	s.ui.Println(fmt.Sprintf("Du nimmst %s.", item.Name))
	s.persist()
}

func (s *Session) doInspect(a types.Action) {
	if a.Object == "" {
		s.ui.Println("Was willst du untersuchen?")
		return
	}
	room, err := s.currentRoom()
	if err != nil {
		s.log.Warnf("inspect: %v", err)
		return
	}

	var cands []resolve.Candidate
	cands = append(cands, s.roomItemCandidates()...)
	cands = append(cands, s.inventoryCandidates()...)
	cands = append(cands, s.fixtureCandidates(room)...)
	cands = append(cands, s.actorCandidates()...)

	c, err := resolve.Find(a.Object, cands)
	if err != nil {
		s.printResolveErr(err)
		return
	}

	if obj, err := s.defs.Object(c.ID); err == nil && containsID(room.Objects, c.ID) {
		s.ui.Println(obj.Description)
		s.runEvents(obj.Inspect, "inspect events for "+c.ID)
		return
	}
	if item, err := s.defs.Item(c.ID); err == nil {
		s.ui.Println(item.Description)
		return
	}
	if actor, err := s.defs.Actor(c.ID); err == nil {
		s.ui.Println(actor.Description)
		return
	}
	s.ui.Println("Nichts Besonderes.")
}

func (s *Session) doUse(a types.Action) {
	if a.Object == "" {
		s.ui.Println("Was willst du benutzen?")
		return
	}
	room, err := s.currentRoom()
	if err != nil {
		s.log.Warnf("use: %v", err)
		return
	}

	fixtures := s.fixtureCandidates(room)
	cands := append(append([]resolve.Candidate{}, fixtures...), s.inventoryCandidates()...)
	c, err := resolve.Find(a.Object, cands)
	if err != nil {
		s.printResolveErr(err)
		return
	}

	if containsID(room.Objects, c.ID) {
		s.useFixture(c.ID)
		return
	}
	s.useItem(c.ID)
}

func (s *Session) useFixture(id string) {
	obj, err := s.defs.Object(id)
	if err != nil {
		s.log.Warnf("fixture %s: %v", id, err)
		return
	}
	if obj.Locked {
		if len(obj.OnLockedUse) > 0 {
			s.runEvents(obj.OnLockedUse, "on_locked_use for "+id)
			return
		}
		s.ui.Println(fmt.Sprintf("%s ist verschlossen.", obj.Name))
		return
	}
	if len(obj.Use) == 0 {
		s.ui.Println("Da tut sich nichts.")
		return
	}
	s.runEvents(obj.Use, "use events for "+id)
}

func (s *Session) useItem(id string) {
	item, err := s.defs.Item(id)
	if err != nil {
		s.log.Warnf("item %s: %v", id, err)
		return
	}
	if len(item.OnUse) == 0 {
		s.ui.Println("Das bringt gerade nichts.")
		return
	}
	s.runEvents(item.OnUse, "on_use events for "+id)
}

func (s *Session) doAttack(a types.Action) {
	if a.Object == "" {
		s.ui.Println("Wen willst du angreifen?")
		return
	}
	c, err := resolve.Find(a.Object, s.actorCandidates())
	if err != nil {
		s.ui.Println("Hier ist niemand, den du angreifen könntest.")
		return
	}
	if err := s.StartFight(c.ID); err != nil {
		s.log.Warnf("starting fight with %s: %v", c.ID, err)
		s.ui.Println("[Autorenfehler: Gegner fehlt]")
	}
}

func (s *Session) showInventory() {
	if len(s.world.Inventory) == 0 {
		s.ui.Println("Du trägst nichts bei dir.")
		return
	}
	lines := []string{"Du trägst:"}
	for _, entry := range s.world.Inventory {
		name := entry.ID
		if item, err := s.defs.Item(entry.ID); err == nil {
			name = item.Name
		}
		if entry.Qty > 1 {
			name = fmt.Sprintf("%s (×%d)", name, entry.Qty)
		}
		lines = append(lines, "  - "+name)
	}
	s.ui.Println(lines...)
}

// --- combine ---

func (s *Session) doCombine(a types.Action) {
	if len(a.Items) < 2 {
		s.ui.Println("Kombiniere was womit?")
		return
	}
	room, err := s.currentRoom()
	if err != nil {
		s.log.Warnf("combine: %v", err)
		return
	}

	// References resolve against inventory plus room fixtures, since a
	// recipe's tools may stand in the room.
	fixtures := s.fixtureCandidates(room)
	cands := append(append([]resolve.Candidate{}, s.inventoryCandidates()...), fixtures...)

	ids := make([]string, 0, len(a.Items))
	for _, ref := range a.Items {
		c, err := resolve.Find(ref, cands)
		if err != nil {
			s.printResolveErr(err)
			return
		}
		ids = append(ids, c.ID)
	}

	station := ""
	if a.Station != "" {
		c, err := resolve.Find(a.Station, fixtures)
		if err != nil {
			s.printResolveErr(err)
			return
		}
		station = c.ID
	}

	env := crafting.Env{World: s.world, Fixtures: room.Objects, Station: station}
	res, err := crafting.Resolve(ids, env, s.recipes)
	if err == nil {
		crafting.Consume(s.world, res.Recipe)
		state.AddItem(s.world, res.Output, 1)
		s.ui.Println(fmt.Sprintf("Du stellst %s her.", res.Output.Name))
		s.runEvents(res.Recipe.Events, "recipe events for "+res.Output.ID)
		s.persist()
		return
	}
	s.reportCombineErr(err, ids)
}

func (s *Session) reportCombineErr(err error, ids []string) {
	var missing *crafting.MissingIngredientsError
	if errors.As(err, &missing) {
		names := make([]string, len(missing.Missing))
		for i, ing := range missing.Missing {
			names[i] = s.itemName(ing.ID)
		}
		s.ui.Println("Dafür fehlt dir noch: " + strings.Join(names, ", "))
		return
	}
	var tool *crafting.MissingToolError
	if errors.As(err, &tool) {
		s.ui.Println("Dafür fehlt dir das Werkzeug: " + s.itemName(tool.Tool))
		return
	}
	var station *crafting.StationError
	if errors.As(err, &station) {
		s.ui.Println("Das geht nur an: " + strings.Join(station.Stations, ", "))
		return
	}

	// No recipe. Two items may still carry a pairwise combine hook.
	if len(ids) == 2 && s.runCombineHook(ids[0], ids[1]) {
		return
	}
	s.ui.Println("Das lässt sich nicht kombinieren.")
}

// runCombineHook fires the legacy pairwise combine events declared on
// either of the two items.
func (s *Session) runCombineHook(aID, bID string) bool {
	pairs := [][2]string{{aID, bID}, {bID, aID}}
	for _, p := range pairs {
		item, err := s.defs.Item(p[0])
		if err != nil {
			continue
		}
		if evs, ok := item.Combine[p[1]]; ok {
			s.runEvents(evs, "combine hook "+p[0]+"+"+p[1])
			return true
		}
	}
	return false
}

func (s *Session) itemName(id string) string {
	if item, err := s.defs.Item(id); err == nil {
		return item.Name
	}
	return id
}

// --- dialog ---

var dialogExitWords = map[string]bool{
	"ende": true, "tschuess": true, "bye": true, "abbrechen": true,
}

// doTalk resolves a talk target. With no object and exactly one
// visible actor present, that actor is addressed.
func (s *Session) doTalk(a types.Action) {
	actors := s.actorsInRoom()
	if len(actors) == 0 {
		s.ui.Println("Niemand antwortet.")
		return
	}

	var target *types.Actor
	if a.Object == "" {
		if len(actors) != 1 {
			s.ui.Println("Mit wem willst du reden?")
			return
		}
		target = actors[0]
	} else {
		c, err := resolve.Find(a.Object, s.actorCandidates())
		if err != nil {
			s.ui.Println("Niemand antwortet.")
			return
		}
		for _, act := range actors {
			if act.ID == c.ID {
				target = act
				break
			}
		}
	}
	if target == nil {
		s.ui.Println("Niemand antwortet.")
		return
	}
	if err := s.StartDialog(target.ID, ""); err != nil {
		s.log.Warnf("starting dialog with %s: %v", target.ID, err)
		s.ui.Println("[Autorenfehler: Dialog fehlerhaft]")
	}
}

// StartDialog enters dialog mode at the actor's start node, or at
// nodeID when the triggering event names one.
func (s *Session) StartDialog(actorID, nodeID string) error {
	actor, err := s.defs.Actor(actorID)
	if err != nil {
		return err
	}
	d, err := s.defs.Dialog(actorID)
	if err != nil {
		if errors.Is(err, loader.ErrNotFound) {
			s.ui.Println(fmt.Sprintf("%s hat dir nichts zu sagen.", actor.Name))
			return nil
		}
		return err
	}

	s.world.Dialog = types.DialogState{
		Active: true,
		Actor:  actorID,
		Node:   dialogue.StartNode(d, actor, nodeID),
	}
	s.persist()
	s.showDialogNode()
	return nil
}

// EndDialog leaves dialog mode.
func (s *Session) EndDialog() {
	s.world.Dialog = types.DialogState{}
}

// GotoDialogNode jumps the running dialog to another node.
func (s *Session) GotoDialogNode(nodeID string) {
	if !s.world.Dialog.Active {
		return
	}
	s.world.Dialog.Node = nodeID
	s.showDialogNode()
}

func (s *Session) showDialogNode() {
	dlg := &s.world.Dialog
	d, err := s.defs.Dialog(dlg.Actor)
	if err != nil {
		s.log.Warnf("dialog %s: %v", dlg.Actor, err)
		s.EndDialog()
		return
	}
	node, ok := d.Nodes[dlg.Node]
	if !ok {
		s.EndDialog()
		s.persist()
		return
	}

	name := dlg.Actor
	if actor, err := s.defs.Actor(dlg.Actor); err == nil {
		name = actor.Name
	}
	s.ui.Println(fmt.Sprintf("%s: %s", name, node.Text))

	choices := dialogue.VisibleChoices(node, s.world)
	if len(choices) == 0 {
		s.EndDialog()
		s.persist()
		return
	}
	for i, ch := range choices {
		line := fmt.Sprintf("  %d) %s", i+1, ch.Text)
		if ch.Locked {
			line += " (noch nicht möglich)"
		}
		s.ui.Println(line)
	}
}

// handleDialogInput consumes input while a dialog runs: a 1-based
// choice number, or an exit word to break off the conversation.
func (s *Session) handleDialogInput(input string) {
	norm := resolve.Normalize(input)
	if dialogExitWords[norm] {
		s.ui.Println("Du beendest das Gespräch.")
		s.EndDialog()
		s.persist()
		return
	}

	dlg := &s.world.Dialog
	d, err := s.defs.Dialog(dlg.Actor)
	if err != nil {
		s.log.Warnf("dialog %s: %v", dlg.Actor, err)
		s.EndDialog()
		s.persist()
		return
	}
	node, ok := d.Nodes[dlg.Node]
	if !ok {
		s.EndDialog()
		s.persist()
		return
	}
	choices := dialogue.VisibleChoices(node, s.world)

	n, err := strconv.Atoi(norm)
	if err != nil || n < 1 || n > len(choices) {
		s.ui.Println("Bitte wähle eine Nummer aus der Liste (oder »ende«).")
		return
	}
	choice := choices[n-1]
	if choice.Locked {
		s.ui.Println("Dafür fehlt dir noch etwas.")
		return
	}

	nodeBefore := dlg.Node
	s.runEvents(choice.Events, "dialog events "+dlg.Actor+"/"+nodeBefore)
	// Events may have ended or redirected the dialog themselves.
	if !s.world.Dialog.Active || s.world.Dialog.Node != nodeBefore {
		return
	}
	if dialogue.Terminal(d, choice.Next) {
		s.EndDialog()
		s.persist()
		return
	}
	s.world.Dialog.Node = choice.Next
	s.persist()
	s.showDialogNode()
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
