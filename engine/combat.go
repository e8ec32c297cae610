package engine

import (
	"fmt"

	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/parser"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/engine/state"
	"github.com/negurvulkan/nrw-noir-darknetos-sub000/types"
)

// StartFight begins combat against an actor. Non-combatants (no stats)
// refuse the fight with a message instead of an error so authored
// trigger_fight events against the wrong actor stay survivable.
func (s *Session) StartFight(actorID string) error {
	actor, err := s.defs.Actor(actorID)
	if err != nil {
		return err
	}
	if actor.Stats == nil {
		s.ui.Println(fmt.Sprintf("Mit %s kann man nicht kämpfen.", actor.Name))
		return nil
	}

	snap := *actor
	s.world.Combat = types.CombatState{
		Active:     true,
		OpponentID: actor.ID,
		Opponent:   &snap,
		OpponentHP: actor.Stats.HP,
		StartHP:    actor.Stats.HP,
	}
	s.ui.Println(fmt.Sprintf("%s stellt sich dir in den Weg!", actor.Name))
	s.runHook(actor.Hooks.OnAttack, actor.ID, "on_attack")
	s.persist()
	return nil
}

// handleCombatInput routes one line of input while combat is active.
// Only attack, defend, flee, and use <item> are recognized; everything
// else costs no round.
func (s *Session) handleCombatInput(input string) {
	a := parser.Parse(input)
	switch a.Verb {
	case "attack":
		s.playerAttack(nil)
		s.enemyTurn()
	case "defend":
		s.world.Combat.Defending = true
		s.ui.Println("Du gehst in Deckung.")
		s.enemyTurn()
	case "flee":
		s.tryFlee()
	case "use":
		s.combatUse(a)
	default:
		s.ui.Println("Im Kampf: angreifen, verteidigen, fliehen oder benutze <gegenstand>.")
		return
	}
	s.persist()
}

// playerAttack resolves the player's strike. A weapon substitutes its
// attack value for the player's own. A non-positive raw value is a
// miss, never a 1-damage hit; a connecting hit does at least 1.
func (s *Session) playerAttack(weapon *types.Item) {
	c := &s.world.Combat
	atk := s.world.Stats.Attack
	if weapon != nil && weapon.Weapon != nil {
		atk = weapon.Weapon.Attack
	}

	raw := atk - c.Opponent.Stats.Defense
	if raw <= 0 {
		s.ui.Println(fmt.Sprintf("Dein Angriff prallt an %s ab.", c.Opponent.Name))
		s.runHook(c.Opponent.Hooks.OnMiss, c.Opponent.ID, "on_miss")
		return
	}

	c.OpponentHP -= raw
	s.ui.Println(fmt.Sprintf("Du triffst %s für %d Schaden.", c.Opponent.Name, raw))
	s.runHook(c.Opponent.Hooks.OnHit, c.Opponent.ID, "on_hit")

	if s.world.Combat.Active && s.world.Combat.OpponentHP <= 0 {
		s.winFight()
	}
}

// winFight handles victory: loot first, then the on_defeat hook, then
// the combat state is cleared. on_defeat may itself start the next
// fight; only a combat record still pointing at this opponent is
// cleared.
func (s *Session) winFight() {
	opp := s.world.Combat.Opponent
	s.ui.Println(fmt.Sprintf("%s geht zu Boden.", opp.Name))

	for _, drop := range opp.Drops {
		item, err := s.defs.Item(drop)
		if err != nil {
			s.log.Warnf("drop %s of %s: %v", drop, opp.ID, err)
			continue
		}
		if added := state.AddItem(s.world, item, 1); added > 0 {
			s.ui.Println(fmt.Sprintf("Du nimmst %s an dich.", item.Name))
		}
	}

	// Defeated actors leave the world.
	state.MoveActor(s.world, opp.ID, opp.Room, "")

	s.runHook(opp.Hooks.OnDefeat, opp.ID, "on_defeat")
	if s.world.Combat.OpponentID == opp.ID {
		s.world.Combat = types.CombatState{}
	}
}

// enemyTurn resolves the opponent's strike. Enemy damage floors at 0;
// defending halves it by integer division and resets; a weapon defense
// bonus lasts exactly this one turn.
func (s *Session) enemyTurn() {
	c := &s.world.Combat
	if !c.Active {
		return
	}

	dmg := c.Opponent.Stats.Attack - (s.world.Stats.Defense + c.WeaponDefense)
	if dmg < 0 {
		dmg = 0
	}
	if c.Defending {
		dmg /= 2
		c.Defending = false
	}
	c.WeaponDefense = 0

	if dmg <= 0 {
		s.ui.Println(fmt.Sprintf("%s trifft dich nicht.", c.Opponent.Name))
		return
	}
	state.Damage(s.world, dmg)
	s.ui.Println(fmt.Sprintf("%s trifft dich für %d Schaden.", c.Opponent.Name, dmg))

	if s.world.Stats.HP <= 0 {
		// No game-over branch; combat just ends.
		s.log.Debugf("player hp reached 0 against %s, combat cleared", c.Opponent.ID)
		s.world.Combat = types.CombatState{}
	}
}

// fleeChance maps an opponent's flee difficulty onto an escape
// probability, clamped so neither outcome is ever certain.
func fleeChance(difficulty float64) float64 {
	return clamp(0.05, 0.95, 0.8-difficulty)
}

// tryFlee rolls against the opponent's flee difficulty. Success ends
// combat entirely; failure hands the opponent a free strike.
func (s *Session) tryFlee() {
	c := &s.world.Combat
	if s.rng.Chance(fleeChance(c.Opponent.Behavior.FleeDifficulty)) {
		s.ui.Println("Du reißt dich los und entkommst.")
		s.world.Combat = types.CombatState{}
		return
	}
	s.ui.Println("Kein Durchkommen!")
	s.enemyTurn()
}

// combatUse plays an inventory item into the round. Weapons attack
// and may grant a one-turn defense bonus; heal/buff effects apply
// immediately. An unusable item costs no round.
func (s *Session) combatUse(a types.Action) {
	item, ok := s.resolveInventoryItem(a.Object)
	if !ok {
		return
	}

	used := false
	if item.Weapon != nil {
		s.playerAttack(item)
		if s.world.Combat.Active {
			s.world.Combat.WeaponDefense = item.Weapon.Defense
		}
		if item.Weapon.Consume {
			state.RemoveItem(s.world, item.ID, 1)
		}
		used = true
	}
	if item.Effect != nil {
		if item.Effect.Heal > 0 {
			healed := state.Heal(s.world, item.Effect.Heal)
			s.ui.Println(fmt.Sprintf("%s heilt dich um %d.", item.Name, healed))
		}
		if item.Effect.Buff != 0 {
			s.world.Stats.Attack += item.Effect.Buff
			s.ui.Println(fmt.Sprintf("Dein Angriff steigt um %d.", item.Effect.Buff))
		}
		if item.Effect.Consume {
			state.RemoveItem(s.world, item.ID, 1)
		}
		used = true
	}

	if !used {
		s.ui.Println(fmt.Sprintf("%s nützt dir im Kampf nichts.", item.Name))
		return
	}
	s.enemyTurn()
}

func (s *Session) runHook(list []types.Event, actorID, name string) {
	s.runEvents(list, name+" hook for "+actorID)
}
