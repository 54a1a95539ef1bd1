// Package phase implements spec.md §4.2's PhaseManager: turn/phase/step
// progression, priority rotation, beginning-of-step triggers, and the
// cleanup step's turn-based actions.
//
// Grounded on the teacher's rules/turn.go (TurnManager's phase/step
// sequence and rotation) and rules/priority.go (priority-window shape).
// Unlike the teacher, GameState stores Phase/Step as plain fields rather
// than behind a TurnManager instance, so this package steps a local copy
// of the same ordered phase/step table directly against those fields.
package phase

import (
	"github.com/tcgforge/rulesengine/internal/action"
	"github.com/tcgforge/rulesengine/internal/combat"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
	"github.com/tcgforge/rulesengine/internal/sba"
	"github.com/tcgforge/rulesengine/internal/trigger"
)

// maxHandSize is the cleanup-step discard threshold (CR 514.1).
const maxHandSize = 7

type stepEntry struct {
	phase rules.Phase
	step  rules.Step
}

var turnSequence = []stepEntry{
	{rules.PhaseBeginning, rules.StepUntap},
	{rules.PhaseBeginning, rules.StepUpkeep},
	{rules.PhaseBeginning, rules.StepDraw},
	{rules.PhasePrecombatMain, rules.StepMain1},
	{rules.PhaseCombat, rules.StepBeginCombat},
	{rules.PhaseCombat, rules.StepDeclareAttackers},
	{rules.PhaseCombat, rules.StepDeclareBlockers},
	{rules.PhaseCombat, rules.StepCombatDamage},
	{rules.PhaseCombat, rules.StepEndCombat},
	{rules.PhasePostcombatMain, rules.StepMain2},
	{rules.PhaseEnding, rules.StepEnd},
	{rules.PhaseEnding, rules.StepCleanup},
}

// stepPreEvents maps a step to the "about to begin" event TriggeredAbilityHandler
// listens for when scanning for beginning-of-step triggers.
var stepPreEvents = map[rules.Step]rules.EventType{
	rules.StepUntap:             rules.EventUntapStepPre,
	rules.StepUpkeep:            rules.EventUpkeepStepPre,
	rules.StepDraw:              rules.EventDrawStepPre,
	rules.StepMain1:             rules.EventPrecombatMainStepPre,
	rules.StepBeginCombat:       rules.EventBeginCombatStepPre,
	rules.StepDeclareAttackers:  rules.EventDeclareAttackersStepPre,
	rules.StepDeclareBlockers:   rules.EventDeclareBlockersStepPre,
	rules.StepCombatDamage:      rules.EventCombatDamageStepPre,
	rules.StepEndCombat:         rules.EventEndCombatStepPre,
	rules.StepMain2:             rules.EventPostcombatMainStepPre,
	rules.StepEnd:               rules.EventEndTurnStepPre,
	rules.StepCleanup:           rules.EventCleanupStepPre,
}

// Start initializes a fresh game at turn 1 with startingPlayerID as both
// active and priority player. It enters the untap step and, since untap
// grants no priority, advances at once, so it returns at the upkeep step.
func Start(gs *model.GameState, startingPlayerID string) []*model.StackItem {
	gs.TurnCount = 1
	gs.ActivePlayerID = startingPlayerID
	gs.PriorityPlayerID = startingPlayerID
	gs.PassedPriorityCount = 0
	gs.Phase = turnSequence[0].phase
	gs.Step = turnSequence[0].step
	items := enterStep(gs)
	if gs.Step == rules.StepUntap {
		return AdvanceStep(gs)
	}
	return items
}

// PassPriority records playerID passing priority and rotates priority to
// the next player still able to respond. It reports whether every player
// has now passed in succession, which means the caller (RulesEngine)
// should either resolve the top of the stack (non-empty stack) or call
// AdvanceStep (empty stack).
func PassPriority(gs *model.GameState, playerID string) (bool, error) {
	if playerID != gs.PriorityPlayerID {
		return false, engineerr.IllegalAction("player %q does not have priority", playerID)
	}
	gs.PassedPriorityCount++
	gs.PriorityPlayerID = nextRespondingPlayer(gs, playerID)

	respondingPlayers := 0
	for _, p := range gs.Players {
		if p.CanRespond() {
			respondingPlayers++
		}
	}
	if gs.PassedPriorityCount >= respondingPlayers {
		gs.PassedPriorityCount = 0
		return true, nil
	}
	return false, nil
}

// ResetPriorityToActive returns priority to the active player and clears
// the passed-priority count, as happens after a stack item resolves or a
// player takes most actions (CR 117.3b).
func ResetPriorityToActive(gs *model.GameState) {
	gs.PriorityPlayerID = gs.ActivePlayerID
	gs.PassedPriorityCount = 0
}

func nextRespondingPlayer(gs *model.GameState, from string) string {
	if len(gs.PlayerOrder) == 0 {
		return from
	}
	start := 0
	for i, id := range gs.PlayerOrder {
		if id == from {
			start = i
			break
		}
	}
	for i := 1; i <= len(gs.PlayerOrder); i++ {
		candidate := gs.PlayerOrder[(start+i)%len(gs.PlayerOrder)]
		if p, ok := gs.Player(candidate); ok && p.CanRespond() {
			return candidate
		}
	}
	return from
}

// AdvanceStep moves to the next step in turn order, runs its turn-based
// actions, fires beginning-of-step triggers, and returns whatever stack
// items that produced. The untap step never grants priority (CR 502.3) and
// an uneventful cleanup step ends the turn outright (CR 514.3a), so both
// cases recurse until a step that actually grants priority is reached.
// combat_damage is special: when any attacker or blocker has First or
// Double Strike, the step runs twice (first-strike sub-step, then the
// normal sub-step) without its index advancing in between.
func AdvanceStep(gs *model.GameState) []*model.StackItem {
	if gs.Step == rules.StepCombatDamage && gs.InFirstStrikeSubStep {
		gs.InFirstStrikeSubStep = false
		return enterCombatDamage(gs)
	}

	advanceIndex(gs)
	items := enterStep(gs)

	if gs.Step == rules.StepUntap {
		return AdvanceStep(gs)
	}
	if gs.Step == rules.StepCleanup && len(items) == 0 {
		return AdvanceStep(gs)
	}
	return items
}

func indexOf(phase rules.Phase, step rules.Step) int {
	for i, e := range turnSequence {
		if e.phase == phase && e.step == step {
			return i
		}
	}
	return 0
}

func advanceIndex(gs *model.GameState) {
	idx := indexOf(gs.Phase, gs.Step) + 1
	if idx >= len(turnSequence) {
		idx = 0
		gs.TurnCount++
		gs.ActivePlayerID = nextRespondingPlayer(gs, gs.ActivePlayerID)
		for id := range gs.LandsPlayedThisTurn {
			gs.LandsPlayedThisTurn[id] = 0
		}
		for _, p := range gs.Players {
			p.LoyaltyActivatedThisTurn = make(map[string]bool)
		}
	}
	gs.Phase = turnSequence[idx].phase
	gs.Step = turnSequence[idx].step
	gs.PriorityPlayerID = gs.ActivePlayerID
	gs.PassedPriorityCount = 0
}

// enterStep runs a step's turn-based actions (CR 703), drains mana pools,
// fires beginning-of-step triggers, and returns the stack items produced.
func enterStep(gs *model.GameState) []*model.StackItem {
	for _, p := range gs.Players {
		p.ManaPool.Empty()
	}

	switch gs.Step {
	case rules.StepUntap:
		untapActivePermanents(gs)
	case rules.StepUpkeep:
		// No automatic action; beginning-of-upkeep triggers fire below.
	case rules.StepDraw:
		if gs.TurnCount != 1 {
			_, _ = action.DrawCard(gs, gs.ActivePlayerID)
		}
	case rules.StepCombatDamage:
		if anyCombatantHasFirstOrDoubleStrike(gs) {
			gs.InFirstStrikeSubStep = true
			combat.AssignAndApplyDamage(gs, true)
		} else {
			combat.AssignAndApplyDamage(gs, false)
		}
		_, _ = sba.Run(gs)
	case rules.StepCleanup:
		runCleanup(gs)
	}

	if et, ok := stepPreEvents[gs.Step]; ok {
		gs.Events.Publish(rules.NewEvent(et, "", "", gs.ActivePlayerID))
	}

	items := trigger.FireDelayed(gs, gs.Phase.String(), gs.Step.String())
	for _, item := range items {
		gs.PushStack(item)
	}
	return items
}

// enterCombatDamage runs the normal-damage sub-step that follows a
// first-strike sub-step, without moving to a new turnSequence entry.
func enterCombatDamage(gs *model.GameState) []*model.StackItem {
	for _, p := range gs.Players {
		p.ManaPool.Empty()
	}
	combat.AssignAndApplyDamage(gs, false)
	_, _ = sba.Run(gs)
	gs.PriorityPlayerID = gs.ActivePlayerID
	gs.PassedPriorityCount = 0

	items := trigger.FireDelayed(gs, gs.Phase.String(), gs.Step.String())
	for _, item := range items {
		gs.PushStack(item)
	}
	return items
}

func anyCombatantHasFirstOrDoubleStrike(gs *model.GameState) bool {
	hasStrike := func(c *model.Card) bool {
		return c.HasKeyword("first_strike") || c.HasKeyword("double_strike")
	}
	for attackerID := range gs.AttackersDeclared {
		if c, ok := gs.Card(attackerID); ok && hasStrike(c) {
			return true
		}
	}
	for _, blockers := range gs.BlockersDeclared {
		for _, blockerID := range blockers {
			if c, ok := gs.Card(blockerID); ok && hasStrike(c) {
				return true
			}
		}
	}
	return false
}

func untapActivePermanents(gs *model.GameState) {
	for _, c := range gs.Cards {
		if c.Zone != model.ZoneBattlefield || c.ControllerID != gs.ActivePlayerID {
			continue
		}
		if c.HasKeyword("skip_untap") || c.HasKeyword("cant_untap") {
			continue
		}
		c.Tapped = false
	}
}

// runCleanup implements CR 514: discard to hand size, clear
// until-end-of-turn modifiers and marked damage, reset combat, and run
// state-based actions. If SBA or cleanup triggers put anything on the
// stack, the caller (AdvanceStep) stops recursing and hands out priority.
func runCleanup(gs *model.GameState) {
	discardToHandSize(gs, gs.ActivePlayerID)

	for _, c := range gs.Cards {
		c.DamageMarked = 0
		kept := c.Modifiers[:0]
		for _, m := range c.Modifiers {
			if !m.UntilEndOfTurn {
				kept = append(kept, m)
			}
		}
		c.Modifiers = kept
	}

	combat.ClearCombat(gs)
	_, _ = sba.Run(gs)
}

// discardToHandSize discards excess cards down to maxHandSize, lowest
// Position.Z first (oldest cards in hand). A full implementation would
// offer the player a choice of which to discard; this keeps a simple,
// deterministic order instead of suspending on a PendingChoice here.
func discardToHandSize(gs *model.GameState, playerID string) {
	var hand []*model.Card
	for _, c := range gs.Cards {
		if c.OwnerID == playerID && c.Zone == model.ZoneHand {
			hand = append(hand, c)
		}
	}
	for len(hand) > maxHandSize {
		oldest := 0
		for i, c := range hand {
			if c.Position.Z < hand[oldest].Position.Z {
				oldest = i
			}
		}
		action.MoveCardToZone(gs, hand[oldest], model.ZoneGraveyard, false, nil)
		hand = append(hand[:oldest], hand[oldest+1:]...)
	}
}
