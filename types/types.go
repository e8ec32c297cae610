// Package types defines the shared data structures for the adventure
// interpreter. This package contains only type definitions, no logic,
// no methods.
package types

// Action is the normalized result of parsing one line of player input.
// Verb is empty when no known verb or direction matched.
type Action struct {
	Verb      string
	Object    string   // free-text reference, resolved per verb
	Target    string   // text after the first preposition
	Direction string   // canonical direction for move actions
	Items     []string // ordered item references for combine
	Station   string   // optional "on <station>" suffix for combine
	Raw       string   // original input, untouched
}

// Event is one step of the declarative scripting language attached to
// rooms, items, fixtures, actors, dialog choices, and recipes. Exactly
// one variant is meaningful per instance, selected by Type; unknown
// types are reported and skipped, never fatal.
type Event struct {
	Type string `json:"type" yaml:"type"`

	// message / ascii
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	Art  string `json:"art,omitempty" yaml:"art,omitempty"`

	// flag_set / flag_if
	Flag  string  `json:"flag,omitempty" yaml:"flag,omitempty"`
	Value bool    `json:"value,omitempty" yaml:"value,omitempty"`
	Then  []Event `json:"then,omitempty" yaml:"then,omitempty"`
	Else  []Event `json:"else,omitempty" yaml:"else,omitempty"`

	// counter_add / counter_set / counter_if
	Counter string `json:"counter,omitempty" yaml:"counter,omitempty"`
	Amount  int    `json:"amount,omitempty" yaml:"amount,omitempty"`
	Op      string `json:"op,omitempty" yaml:"op,omitempty"` // == != < <= > >=

	// add_item / remove_item / spawn_item
	Item string `json:"item,omitempty" yaml:"item,omitempty"`
	Qty  int    `json:"qty,omitempty" yaml:"qty,omitempty"`

	// lock_exit / unlock_exit / transition / spawn_* / move_actor
	Room      string `json:"room,omitempty" yaml:"room,omitempty"`
	Direction string `json:"direction,omitempty" yaml:"direction,omitempty"`
	To        string `json:"to,omitempty" yaml:"to,omitempty"`

	// trigger_fight / spawn_actor / move_actor / actor_move_if_present /
	// start_dialog
	Actor string `json:"actor,omitempty" yaml:"actor,omitempty"`

	// start_dialog / goto_dialog_node
	Node string `json:"node,omitempty" yaml:"node,omitempty"`
}

// Room is an immutable room template. Runtime overlays (spawns, lock
// state, visited) live in the World, not here.
type Room struct {
	ID           string            `json:"id" yaml:"id"`
	Title        string            `json:"title" yaml:"title"`
	Description  string            `json:"description" yaml:"description"`
	Art          string            `json:"art,omitempty" yaml:"art,omitempty"`
	Items        []string          `json:"items,omitempty" yaml:"items,omitempty"`
	Objects      []string          `json:"objects,omitempty" yaml:"objects,omitempty"`
	Exits        map[string]string `json:"exits,omitempty" yaml:"exits,omitempty"`
	OnEnter      []Event           `json:"on_enter,omitempty" yaml:"on_enter,omitempty"`
	OnFirstEnter []Event           `json:"on_first_enter,omitempty" yaml:"on_first_enter,omitempty"`
}

// Ingredient is one required input of a recipe.
type Ingredient struct {
	ID  string `json:"id" yaml:"id"`
	Qty int    `json:"qty,omitempty" yaml:"qty,omitempty"`
}

// Tool is a required implement of a recipe. Tools are checked against
// inventory and room fixtures; only consumable tools are removed.
type Tool struct {
	ID      string `json:"id" yaml:"id"`
	Qty     int    `json:"qty,omitempty" yaml:"qty,omitempty"`
	Consume bool   `json:"consume,omitempty" yaml:"consume,omitempty"`
}

// Recipe is a crafting rule declared on the output item. Inputs and
// tools name the exact token set a combine request must supply.
type Recipe struct {
	Inputs   []Ingredient `json:"inputs" yaml:"inputs"`
	Tools    []Tool       `json:"tools,omitempty" yaml:"tools,omitempty"`
	Stations []string     `json:"stations,omitempty" yaml:"stations,omitempty"`
	Events   []Event      `json:"events,omitempty" yaml:"events,omitempty"`
}

// WeaponStats make an item usable as a weapon during combat.
type WeaponStats struct {
	Attack  int  `json:"attack,omitempty" yaml:"attack,omitempty"`
	Defense int  `json:"defense,omitempty" yaml:"defense,omitempty"`
	Consume bool `json:"consume,omitempty" yaml:"consume,omitempty"`
}

// CombatEffect is an immediate effect of using an item during combat.
type CombatEffect struct {
	Heal    int  `json:"heal,omitempty" yaml:"heal,omitempty"`
	Buff    int  `json:"buff,omitempty" yaml:"buff,omitempty"`
	Consume bool `json:"consume,omitempty" yaml:"consume,omitempty"`
}

// Item is an immutable item template.
type Item struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description" yaml:"description"`
	Pickup      bool               `json:"pickupable" yaml:"pickupable"`
	Stackable   bool               `json:"stackable,omitempty" yaml:"stackable,omitempty"`
	MaxStack    int                `json:"max_stack,omitempty" yaml:"max_stack,omitempty"`
	OnUse       []Event            `json:"on_use,omitempty" yaml:"on_use,omitempty"`
	Combine     map[string][]Event `json:"combine,omitempty" yaml:"combine,omitempty"`
	Recipe      *Recipe            `json:"recipe,omitempty" yaml:"recipe,omitempty"`
	Weapon      *WeaponStats       `json:"weapon,omitempty" yaml:"weapon,omitempty"`
	Effect      *CombatEffect      `json:"effect,omitempty" yaml:"effect,omitempty"`
}

// Object is an immutable room-fixture template.
type Object struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Locked      bool    `json:"locked,omitempty" yaml:"locked,omitempty"`
	Use         []Event `json:"use,omitempty" yaml:"use,omitempty"`
	OnLockedUse []Event `json:"on_locked_use,omitempty" yaml:"on_locked_use,omitempty"`
	Inspect     []Event `json:"inspect,omitempty" yaml:"inspect,omitempty"`
}

// ActorStats enable combat for an actor. An actor without stats cannot
// be fought.
type ActorStats struct {
	HP      int `json:"hp" yaml:"hp"`
	Attack  int `json:"attack" yaml:"attack"`
	Defense int `json:"defense" yaml:"defense"`
}

// ActorBehavior tunes non-stat combat behavior.
type ActorBehavior struct {
	FleeDifficulty float64 `json:"fleeDifficulty,omitempty" yaml:"fleeDifficulty,omitempty"`
}

// ActorHooks are the event lists an actor fires during combat.
type ActorHooks struct {
	OnAttack []Event `json:"on_attack,omitempty" yaml:"on_attack,omitempty"`
	OnHit    []Event `json:"on_hit,omitempty" yaml:"on_hit,omitempty"`
	OnMiss   []Event `json:"on_miss,omitempty" yaml:"on_miss,omitempty"`
	OnDefeat []Event `json:"on_defeat,omitempty" yaml:"on_defeat,omitempty"`
}

// Actor is the unified NPC/enemy template. Type is "npc" or "enemy";
// combat is enabled iff Stats is non-nil.
type Actor struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Description  string        `json:"description" yaml:"description"`
	Room         string        `json:"room" yaml:"room"`
	Type         string        `json:"type" yaml:"type"`
	Stats        *ActorStats   `json:"stats,omitempty" yaml:"stats,omitempty"`
	Behavior     ActorBehavior `json:"behavior,omitempty" yaml:"behavior,omitempty"`
	Drops        []string      `json:"drops,omitempty" yaml:"drops,omitempty"`
	Hooks        ActorHooks    `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	DialogStart  string        `json:"dialog_start,omitempty" yaml:"dialog_start,omitempty"`
	OnlyIfFlag   string        `json:"only_if_flag,omitempty" yaml:"only_if_flag,omitempty"`
	HiddenIfFlag string        `json:"hidden_if_flag,omitempty" yaml:"hidden_if_flag,omitempty"`
}

// FlagCond is a single flag-equality condition inside a Gate.
type FlagCond struct {
	Key    string `json:"key" yaml:"key"`
	Equals bool   `json:"equals" yaml:"equals"`
}

// Gate is a requirement/visibility condition on a dialog choice. All
// present conditions are AND-ed; a nil Gate is always satisfied.
type Gate struct {
	Items []string  `json:"items,omitempty" yaml:"items,omitempty"`
	Flag  *FlagCond `json:"flag,omitempty" yaml:"flag,omitempty"`
}

// DialogChoice is one selectable option inside a dialog node.
// Next == "end" (or a node id absent from the node map) ends the dialog.
type DialogChoice struct {
	Text     string  `json:"text" yaml:"text"`
	Next     string  `json:"next" yaml:"next"`
	Requires *Gate   `json:"requires,omitempty" yaml:"requires,omitempty"`
	HiddenIf *Gate   `json:"hidden_if,omitempty" yaml:"hidden_if,omitempty"`
	Events   []Event `json:"events,omitempty" yaml:"events,omitempty"`
}

// DialogNode is one node of an actor's dialog graph.
type DialogNode struct {
	Text    string         `json:"text" yaml:"text"`
	Choices []DialogChoice `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Dialog is a per-actor dialog graph.
type Dialog struct {
	Start string                `json:"start" yaml:"start"`
	Nodes map[string]DialogNode `json:"nodes" yaml:"nodes"`
}

// WorldDef is the adventure's world.json manifest.
type WorldDef struct {
	StartRoom   string          `json:"startRoom" yaml:"startRoom"`
	GlobalFlags map[string]bool `json:"globalFlags,omitempty" yaml:"globalFlags,omitempty"`
}

// GameDef is the adventure's game.json manifest.
type GameDef struct {
	Title string `json:"title" yaml:"title"`
	Intro string `json:"intro,omitempty" yaml:"intro,omitempty"`
	Outro string `json:"outro,omitempty" yaml:"outro,omitempty"`
}

// InvEntry is one inventory row. Entries are unique per item id;
// quantities aggregate, never duplicate rows.
type InvEntry struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

// PlayerStats are the player's combat numbers.
type PlayerStats struct {
	HP      int `json:"hp"`
	MaxHP   int `json:"maxHp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
}

// SpawnedActor is a runtime actor entry in a room's spawn table.
type SpawnedActor struct {
	ID   string `json:"id"`
	Qty  int    `json:"qty"`
	Type string `json:"type,omitempty"`
}

// RoomSpawns is the per-room runtime overlay of dynamically added items
// and actors, distinct from the room's static template contents.
type RoomSpawns struct {
	Items  []InvEntry     `json:"items,omitempty"`
	Actors []SpawnedActor `json:"actors,omitempty"`
}

// ActorState is the mutable per-actor overlay. Its Room field is the
// authoritative location of the actor, not the static template's.
type ActorState struct {
	Room     string          `json:"room"`
	Flags    map[string]bool `json:"flags,omitempty"`
	Counters map[string]int  `json:"counters,omitempty"`
}

// CombatState is the combat sub-state. Opponent is a snapshot taken
// when the fight started; OpponentHP counts down from StartHP.
type CombatState struct {
	Active        bool   `json:"active"`
	OpponentID    string `json:"opponentId,omitempty"`
	Opponent      *Actor `json:"opponent,omitempty"`
	OpponentHP    int    `json:"opponentHp,omitempty"`
	StartHP       int    `json:"startHp,omitempty"`
	Defending     bool   `json:"defending,omitempty"`
	WeaponDefense int    `json:"weaponDefense,omitempty"`
}

// DialogState is the dialog sub-state. While Active, player input is
// consumed exclusively by the dialog controller.
type DialogState struct {
	Active bool   `json:"active"`
	Actor  string `json:"actor,omitempty"`
	Node   string `json:"node,omitempty"`
}

// World is the single mutable session record, one per adventure+user.
// All mutation goes through the engine/state accessors so migration
// and normalization logic runs exactly once regardless of call site.
type World struct {
	Adventure   string                 `json:"adventure"`
	Room        string                 `json:"room"`
	Inventory   []InvEntry             `json:"inventory"`
	Flags       map[string]bool        `json:"flags"`
	Counters    map[string]int         `json:"counters"`
	Stats       PlayerStats            `json:"stats"`
	LockedExits map[string]bool        `json:"lockedExits"` // "roomId:direction" → locked
	Visited     map[string]bool        `json:"visited"`
	Spawns      map[string]*RoomSpawns `json:"roomSpawns"`
	Actors      map[string]*ActorState `json:"actorState"`
	Combat      CombatState            `json:"combat"`
	Dialog      DialogState            `json:"dialog"`
	RNGSeed     int64                  `json:"rngSeed"`
	RNGPos      int64                  `json:"rngPos"`
}
