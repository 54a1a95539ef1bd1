// Package combat implements spec.md's CombatManager: declaring attackers
// and blockers with their legality checks, and assigning/applying combat
// damage in the two-pass first-strike/normal order CR 509-510 requires.
//
// Grounded on the teacher's mage_engine.go DeclareAttacker/DeclareBlocker/
// AssignCombatDamage method set (read for the validation sequence and event
// shape before the monolith was retired) and cardutil.go's
// HasSummoningSickness/LethalDamage/EffectivePower helpers.
package combat

import (
	"sort"

	"github.com/tcgforge/rulesengine/internal/cardutil"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

// DeclareAttackers validates and registers a set of attacker->defender
// assignments in a single batch (CR 508.1), tapping each attacker unless
// it has vigilance, and records the assignment on gs.AttackersDeclared.
func DeclareAttackers(gs *model.GameState, playerID string, assignments map[string]string) error {
	if playerID != gs.ActivePlayerID {
		return engineerr.IllegalAction("player %s is not the attacking player", playerID)
	}
	for creatureID, defenderID := range assignments {
		creature, ok := gs.Card(creatureID)
		if !ok {
			return engineerr.NotFound("creature %s not found", creatureID)
		}
		if err := legalAttacker(gs, creature, playerID); err != nil {
			return err
		}
		if defenderID == "" {
			return engineerr.IllegalAction("creature %s was not assigned a defender", creatureID)
		}
	}

	for creatureID, defenderID := range assignments {
		creature, _ := gs.Card(creatureID)
		creature.IsAttacking = true
		creature.Attacking = defenderID
		if !creature.HasKeyword("vigilance") {
			creature.Tapped = true
		}
		gs.AttackersDeclared[creatureID] = defenderID

		evt := rules.NewEvent(rules.EventAttackerDeclared, creatureID, creatureID, playerID)
		evt.Metadata["defender_id"] = defenderID
		gs.Events.Publish(evt)
	}
	return nil
}

func legalAttacker(gs *model.GameState, creature *model.Card, playerID string) error {
	if creature.ControllerID != playerID {
		return engineerr.IllegalAction("creature %s is not controlled by player %s", creature.InstanceID, playerID)
	}
	if creature.Zone != model.ZoneBattlefield {
		return engineerr.IllegalAction("creature %s is not on the battlefield", creature.InstanceID)
	}
	if creature.Tapped {
		return engineerr.IllegalAction("creature %s is tapped and cannot attack", creature.InstanceID)
	}
	if creature.HasKeyword("defender") {
		return engineerr.IllegalAction("creature %s has defender and cannot attack", creature.InstanceID)
	}
	if creature.HasKeyword("cant_attack") {
		return engineerr.IllegalAction("creature %s cannot attack", creature.InstanceID)
	}
	if cardutil.HasSummoningSickness(creature, gs.TurnCount) {
		return engineerr.IllegalAction("creature %s has summoning sickness", creature.InstanceID)
	}
	return nil
}

// DeclareBlockers validates and registers a batch of attacker->blockers
// assignments (CR 509.1), keyed by attacker so a multi-blocked attacker's
// blocker list keeps the caller's declaration order end to end — combat
// damage assignment (dealCombatDamageToBlockers) is what re-sorts that
// list by toughness, not this function.
func DeclareBlockers(gs *model.GameState, playerID string, assignments map[string][]string) error {
	attackerIDs := sortedKeys(assignments)

	for _, attackerID := range attackerIDs {
		attacker, ok := gs.Card(attackerID)
		if !ok {
			return engineerr.NotFound("attacker %s not found", attackerID)
		}
		blockers := assignments[attackerID]
		for _, blockerID := range blockers {
			blocker, ok := gs.Card(blockerID)
			if !ok {
				return engineerr.NotFound("blocker %s not found", blockerID)
			}
			if err := legalBlocker(blocker, attacker, playerID); err != nil {
				return err
			}
		}
		if attacker.HasKeyword("menace") && len(blockers) < 2 {
			return engineerr.IllegalAction("creature %s has menace and must be blocked by two or more creatures", attackerID)
		}
	}

	for _, attackerID := range attackerIDs {
		for _, blockerID := range assignments[attackerID] {
			gs.BlockersDeclared[attackerID] = append(gs.BlockersDeclared[attackerID], blockerID)
			blocker, _ := gs.Card(blockerID)
			blocker.Blocking = append(blocker.Blocking, attackerID)

			evt := rules.NewEvent(rules.EventBlockerDeclared, blockerID, blockerID, playerID)
			evt.Metadata["attacker_id"] = attackerID
			gs.Events.Publish(evt)
			gs.Events.Publish(rules.NewEvent(rules.EventCreatureBlocked, attackerID, blockerID, playerID))
		}
	}
	return nil
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAttackerKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func legalBlocker(blocker, attacker *model.Card, playerID string) error {
	if blocker.ControllerID != playerID {
		return engineerr.IllegalAction("creature %s is not controlled by player %s", blocker.InstanceID, playerID)
	}
	if blocker.Zone != model.ZoneBattlefield {
		return engineerr.IllegalAction("creature %s is not on the battlefield", blocker.InstanceID)
	}
	if blocker.Tapped {
		return engineerr.IllegalAction("creature %s is tapped and cannot block", blocker.InstanceID)
	}
	if blocker.HasKeyword("cant_block") {
		return engineerr.IllegalAction("creature %s cannot block", blocker.InstanceID)
	}
	if !attacker.IsAttacking {
		return engineerr.IllegalAction("creature %s is not attacking", attacker.InstanceID)
	}
	if attacker.HasKeyword("flying") && !blocker.HasKeyword("flying") && !blocker.HasKeyword("reach") {
		return engineerr.InvalidTarget("creature %s cannot block flying creature %s", blocker.InstanceID, attacker.InstanceID)
	}
	return nil
}

// AssignAndApplyDamage runs the combat damage step: first-strike/double-
// strike creatures deal damage in an initial substep, then every creature
// without first strike (plus every double-striker again) deals damage in
// the regular substep (CR 510.4, 702.7, 702.4).
func AssignAndApplyDamage(gs *model.GameState, firstStrikeSubStep bool) {
	for _, attackerID := range sortedAttackerKeys(gs.AttackersDeclared) {
		defenderID := gs.AttackersDeclared[attackerID]
		attacker, ok := gs.Card(attackerID)
		if !ok || !attacker.IsAttacking {
			continue
		}
		if !dealsDamageThisSubStep(attacker, firstStrikeSubStep) {
			continue
		}
		blockers := gs.BlockersDeclared[attackerID]
		if len(blockers) == 0 {
			dealCombatDamageToDefender(gs, attacker, defenderID, cardutil.EffectivePower(attacker))
			continue
		}
		dealCombatDamageToBlockers(gs, attacker, blockers)
	}

	for _, attackerID := range sortedKeys(gs.BlockersDeclared) {
		blockers := gs.BlockersDeclared[attackerID]
		attacker, ok := gs.Card(attackerID)
		if !ok {
			continue
		}
		for _, blockerID := range blockers {
			blocker, ok := gs.Card(blockerID)
			if !ok || !dealsDamageThisSubStep(blocker, firstStrikeSubStep) {
				continue
			}
			dealCombatDamage(gs, blocker, attacker, cardutil.EffectivePower(blocker))
		}
	}
}

func dealsDamageThisSubStep(c *model.Card, firstStrikeSubStep bool) bool {
	hasFS := c.HasKeyword("first_strike") || c.HasKeyword("double_strike")
	if firstStrikeSubStep {
		return hasFS
	}
	return !c.HasKeyword("first_strike") || c.HasKeyword("double_strike")
}

func dealCombatDamageToDefender(gs *model.GameState, attacker *model.Card, defenderID string, amount int) {
	if amount <= 0 {
		return
	}
	if defender, ok := gs.Card(defenderID); ok {
		dealCombatDamage(gs, attacker, defender, amount)
		return
	}
	if p, ok := gs.Player(defenderID); ok {
		p.Life -= amount
		if attacker.HasKeyword("lifelink") {
			gainLife(gs, attacker.ControllerID, amount)
		}
		gs.Events.Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, defenderID, attacker.InstanceID, attacker.ControllerID, amount))
	}
}

// dealCombatDamageToBlockers assigns attacker's combat damage across
// blockers in toughness-ascending order (spec.md §4.11), independent of
// the order blockers were declared in.
func dealCombatDamageToBlockers(gs *model.GameState, attacker *model.Card, blockers []string) {
	ordered := make([]string, len(blockers))
	copy(ordered, blockers)
	sort.SliceStable(ordered, func(i, j int) bool {
		bi, okI := gs.Card(ordered[i])
		bj, okJ := gs.Card(ordered[j])
		if !okI || !okJ {
			return false
		}
		return cardutil.EffectiveToughness(bi) < cardutil.EffectiveToughness(bj)
	})

	remaining := cardutil.EffectivePower(attacker)
	hasTrample := attacker.HasKeyword("trample")

	for _, blockerID := range ordered {
		blocker, ok := gs.Card(blockerID)
		if !ok || remaining <= 0 {
			continue
		}
		lethal := cardutil.LethalDamage(blocker, attacker.HasKeyword("deathtouch"))
		assign := remaining
		if hasTrample && assign > lethal {
			assign = lethal
		}
		if len(blockers) > 1 && assign > lethal {
			assign = lethal
		}
		dealCombatDamage(gs, attacker, blocker, assign)
		remaining -= assign
	}

	if hasTrample && remaining > 0 && len(blockers) > 0 {
		dealCombatDamageToDefender(gs, attacker, gs.AttackersDeclared[attacker.InstanceID], remaining)
	}
}

// dealCombatDamage marks damage on target, tags it for deathtouch lethality
// tracking, and triggers lifelink for source's controller.
func dealCombatDamage(gs *model.GameState, source, target *model.Card, amount int) {
	if amount <= 0 {
		return
	}
	target.DamageMarked += amount
	if source.HasKeyword("deathtouch") {
		target.Modifiers = append(target.Modifiers, &model.Modifier{SourceID: source.InstanceID, Kind: model.ModifierAbilityGrant, Tag: "deathtouch_damage_received", UntilEndOfTurn: true})
	}
	if source.HasKeyword("lifelink") {
		gainLife(gs, source.ControllerID, amount)
	}
	gs.Events.Publish(rules.NewEventWithAmount(rules.EventCombatDamageApplied, target.InstanceID, source.InstanceID, source.ControllerID, amount))
}

func gainLife(gs *model.GameState, playerID string, amount int) {
	if p, ok := gs.Player(playerID); ok {
		p.Life += amount
	}
}

// ClearCombat resets per-turn combat bookkeeping at cleanup (CR 514.2).
func ClearCombat(gs *model.GameState) {
	for attackerID := range gs.AttackersDeclared {
		if c, ok := gs.Card(attackerID); ok {
			c.IsAttacking = false
			c.Attacking = ""
		}
	}
	for _, blockers := range gs.BlockersDeclared {
		for _, bid := range blockers {
			if c, ok := gs.Card(bid); ok {
				c.Blocking = nil
			}
		}
	}
	gs.AttackersDeclared = make(map[string]string)
	gs.BlockersDeclared = make(map[string][]string)
}
