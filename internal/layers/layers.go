// Package layers implements spec.md §4.5's continuous-effects recomputation
// (CR 613). It is grounded on the teacher's effects.LayerSystem for
// board-wide static effects (anthems, keyword grants spanning many
// permanents) and folds in each card's own Modifiers slice for localized,
// often until-end-of-turn pumps applied directly by OracleEffectResolver.
package layers

import (
	"sort"

	"github.com/tcgforge/rulesengine/internal/effects"
	"github.com/tcgforge/rulesengine/internal/model"
)

// Recompute performs a full (non-incremental) recalculation of every
// battlefield permanent's power, toughness, and granted keywords. Cards
// off the battlefield are left at their base characteristics, since they
// were already reset by Card.ResetMemory on leaving play.
func Recompute(gs *model.GameState, system *effects.LayerSystem) {
	ids := make([]string, 0, len(gs.Cards))
	for id, c := range gs.Cards {
		if c.Zone == model.ZoneBattlefield {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids) // deterministic application order

	for _, id := range ids {
		recomputeOne(gs.Cards[id], system)
	}
}

func recomputeOne(c *model.Card, system *effects.LayerSystem) {
	// 7a: characteristic-defining abilities — base values already reflect
	// the card's definition/active face (set by Card.ResetMemory).
	power := c.BasePower
	toughness := c.BaseToughness
	keywords := make(map[string]bool)
	for _, k := range c.BaseKeywords() {
		keywords[k] = true
	}

	if system != nil {
		snap := effects.NewSnapshot(c.InstanceID, c.ControllerID, c.Types, power, toughness, c.HasBasePower, c.HasBaseTough)
		system.Apply(snap)
		power = snap.Power
		toughness = snap.Toughness
	}

	// 7b: set_pt modifiers, last writer (list order) wins.
	hasSet := false
	for _, m := range c.Modifiers {
		if m.Kind == model.ModifierSetPT {
			power = m.PowerDelta
			toughness = m.ToughnessDelta
			hasSet = true
		}
	}
	_ = hasSet

	// 7c: pt_boost modifiers accumulate.
	for _, m := range c.Modifiers {
		if m.Kind == model.ModifierPTBoost {
			power += m.PowerDelta
			toughness += m.ToughnessDelta
		}
	}

	// ability_grant modifiers merge into the effective keyword set.
	switchPT := false
	for _, m := range c.Modifiers {
		if m.Kind == model.ModifierAbilityGrant {
			if m.Tag == "switch_pt" {
				switchPT = true
				continue
			}
			keywords[m.Tag] = true
		}
	}

	// 7d: +1/+1 and -1/-1 counters (mutually exclusive after SBA
	// annihilation, but Layers applies whatever is present).
	power += c.CounterCount("+1/+1") - c.CounterCount("-1/-1")
	toughness += c.CounterCount("+1/+1") - c.CounterCount("-1/-1")
	power += 2*c.CounterCount("+2/+2") - 2*c.CounterCount("-2/-2")
	toughness += 2*c.CounterCount("+2/+2") - 2*c.CounterCount("-2/-2")

	// 7e: switch power and toughness (optional, last).
	if switchPT {
		power, toughness = toughness, power
	}

	c.Power = power
	c.Toughness = toughness

	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	sort.Strings(out)
	c.Keywords = out
}
