// Package sba implements spec.md's StateBasedEffects: the fixed-point loop
// that repeatedly checks and applies state-based actions (CR 704) until a
// pass produces no change, moving on only then.
//
// Grounded on cardutil.go's IsAttachmentValid/LethalDamage/EffectivePower
// (already written against the specific SBA rule numbers they implement)
// and the teacher's engineerr package for the runaway-loop invariant.
package sba

import (
	"github.com/tcgforge/rulesengine/internal/action"
	"github.com/tcgforge/rulesengine/internal/cardutil"
	"github.com/tcgforge/rulesengine/internal/counters"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/model"
)

// MaxIterations bounds the fixed-point loop. A well-formed ruleset settles
// in a handful of passes; exceeding this points at a cyclic effect
// (e.g. two auras repeatedly re-legalizing each other) rather than a slow
// convergence. A package var rather than a const so engineconfig can raise
// it for an unusually deep-converging ruleset without a recompile.
var MaxIterations = 64

// Run applies state-based actions until a pass makes no change, per CR 704.
// Returns the number of passes that changed something, or an
// engineerr.EngineInvariant if MaxIterations is exceeded.
func Run(gs *model.GameState) (int, error) {
	passes := 0
	for {
		if passes >= MaxIterations {
			return passes, engineerr.EngineInvariant("state-based actions did not converge after %d passes", MaxIterations)
		}
		if !onePass(gs) {
			return passes, nil
		}
		passes++
	}
}

// onePass applies every CR 704 check once and reports whether anything
// changed, so Run knows whether another pass is needed.
func onePass(gs *model.GameState) bool {
	changed := false

	changed = checkPlayerLoss(gs) || changed
	changed = checkCreatureDeath(gs) || changed
	changed = checkPlaneswalkerDeath(gs) || changed
	changed = checkBattleDeath(gs) || changed
	changed = checkAttachments(gs) || changed
	changed = checkCounterAnnihilation(gs) || changed
	changed = checkLegendRule(gs) || changed
	changed = checkTokenCeasesToExist(gs) || changed

	return changed
}

// checkPlayerLoss flags players at 0 or less life, or with 10+ poison
// counters, as having lost (CR 704.5a, 704.5c). Drawing from an empty
// library is flagged by the draw step itself setting Lost directly.
func checkPlayerLoss(gs *model.GameState) bool {
	changed := false
	for _, p := range gs.Players {
		if p.Lost {
			continue
		}
		if p.Life <= 0 || p.Poison >= 10 {
			p.Lost = true
			changed = true
		}
	}
	return changed
}

// checkCreatureDeath moves creatures with lethal damage marked or 0 or less
// toughness to the graveyard (CR 704.5g, 704.5f).
func checkCreatureDeath(gs *model.GameState) bool {
	changed := false
	for _, c := range battlefieldSnapshot(gs) {
		if !cardutil.IsCreature(c) {
			continue
		}
		if cardutil.EffectiveToughness(c) <= 0 || c.DamageMarked >= cardutil.EffectiveToughness(c) {
			dies(gs, c)
			changed = true
		}
	}
	return changed
}

// checkPlaneswalkerDeath moves planeswalkers with 0 loyalty to the
// graveyard (CR 704.5i).
func checkPlaneswalkerDeath(gs *model.GameState) bool {
	changed := false
	for _, c := range battlefieldSnapshot(gs) {
		if cardutil.IsPlaneswalker(c) && c.Loyalty <= 0 {
			dies(gs, c)
			changed = true
		}
	}
	return changed
}

// checkBattleDeath moves battles with 0 or less defense to the graveyard
// (CR 704.5aa, battles follow the planeswalker defeat shape).
func checkBattleDeath(gs *model.GameState) bool {
	changed := false
	for _, c := range battlefieldSnapshot(gs) {
		if cardutil.IsBattle(c) && c.Defense <= 0 {
			dies(gs, c)
			changed = true
		}
	}
	return changed
}

// checkAttachments detaches or destroys Auras/Equipment whose attachment is
// no longer legal (CR 704.5m, 704.5n, 704.5q). A Bestowed aura detaches and
// becomes a plain creature-granting enchantment instead of dying.
func checkAttachments(gs *model.GameState) bool {
	changed := false
	for _, c := range battlefieldSnapshot(gs) {
		if !c.HasAttachedTo {
			continue
		}
		if cardutil.IsAttachmentValid(c, gs.Cards) {
			continue
		}
		if cardutil.IsAura(c) {
			if cardutil.HasBestow(c) {
				c.AttachedTo = ""
				c.HasAttachedTo = false
			} else {
				dies(gs, c)
			}
			changed = true
			continue
		}
		if cardutil.IsEquipment(c) {
			c.AttachedTo = ""
			c.HasAttachedTo = false
			changed = true
		}
	}
	return changed
}

// checkCounterAnnihilation removes matched pairs of +1/+1 and -1/-1
// counters from the same permanent (CR 704.5r).
func checkCounterAnnihilation(gs *model.GameState) bool {
	changed := false
	for _, c := range battlefieldSnapshot(gs) {
		plus := c.CounterCount("+1/+1")
		minus := c.CounterCount("-1/-1")
		if plus == 0 || minus == 0 {
			continue
		}
		n := plus
		if minus < n {
			n = minus
		}
		removeCounters(c, "+1/+1", n)
		removeCounters(c, "-1/-1", n)
		changed = true
	}
	return changed
}

func removeCounters(c *model.Card, name string, amount int) {
	for i, ct := range c.Counters {
		if ct.Name != name {
			continue
		}
		ct.Remove(amount)
		if ct.Count == 0 {
			c.Counters = append(c.Counters[:i], c.Counters[i+1:]...)
		}
		return
	}
}

// checkLegendRule moves all but one of a player's same-named legendary
// permanents to the graveyard, the player's choice of which to keep
// (simplified here to keeping the first found; a real implementation would
// suspend on a PendingChoice) (CR 704.5j).
func checkLegendRule(gs *model.GameState) bool {
	changed := false
	byOwner := make(map[string]map[string]*model.Card)
	for _, c := range battlefieldSnapshot(gs) {
		if !isLegendary(c) || c.Definition == nil {
			continue
		}
		if byOwner[c.ControllerID] == nil {
			byOwner[c.ControllerID] = make(map[string]*model.Card)
		}
		if _, ok := byOwner[c.ControllerID][c.Definition.Name]; ok {
			dies(gs, c)
			changed = true
			continue
		}
		byOwner[c.ControllerID][c.Definition.Name] = c
	}
	return changed
}

func isLegendary(c *model.Card) bool {
	for _, s := range c.Supertypes {
		if s == "Legendary" {
			return true
		}
	}
	return false
}

// checkTokenCeasesToExist removes tokens that have left the battlefield
// entirely rather than leaving them to rot in a zone they cannot exist in
// (CR 704.5d).
func checkTokenCeasesToExist(gs *model.GameState) bool {
	changed := false
	for id, c := range gs.Cards {
		if c.IsToken && c.Zone != model.ZoneBattlefield {
			delete(gs.Cards, id)
			changed = true
		}
	}
	return changed
}

func battlefieldSnapshot(gs *model.GameState) []*model.Card {
	var out []*model.Card
	for _, c := range gs.Cards {
		if c.Zone == model.ZoneBattlefield {
			out = append(out, c)
		}
	}
	return out
}

// dies moves a permanent to the graveyard. MoveCardToZone itself captures
// the pre-death look-back snapshot for "dies" triggers (CR 603.10a). A
// creature with persist and no -1/-1 counter on it returns straight to
// the battlefield with one (CR 702.77a); a creature that already carries
// a -1/-1 counter when it dies (e.g. it died from counter-driven lethal
// damage) has used up its persist and stays dead.
func dies(gs *model.GameState, c *model.Card) {
	persists := cardutil.IsCreature(c) && c.HasKeyword("persist") && c.CounterCount("-1/-1") == 0
	action.MoveCardToZone(gs, c, model.ZoneGraveyard, false, nil)
	if !persists {
		return
	}
	action.MoveCardToZone(gs, c, model.ZoneBattlefield, false, nil)
	c.Counters = append(c.Counters, counters.NewCounter("-1/-1", 1))
}
