package phase

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

func newTestState() *model.GameState {
	gs := model.NewGameState("g1")
	p1 := model.NewPlayer("p1", "Alice", 20)
	p2 := model.NewPlayer("p2", "Bob", 20)
	gs.Players = append(gs.Players, p1, p2)
	gs.PlayerOrder = []string{"p1", "p2"}
	return gs
}

func TestStartSkipsUntapAndGrantsPriorityAtUpkeep(t *testing.T) {
	gs := newTestState()
	Start(gs, "p1")

	require.Equal(t, rules.StepUpkeep, gs.Step)
	require.Equal(t, "p1", gs.ActivePlayerID)
	require.Equal(t, "p1", gs.PriorityPlayerID)
}

func TestDrawStepSkipsDrawOnTurnOne(t *testing.T) {
	gs := newTestState()
	card := &model.Card{InstanceID: "lib1", OwnerID: "p1", ControllerID: "p1", Zone: model.ZoneLibrary}
	gs.Cards["lib1"] = card

	Start(gs, "p1")
	AdvanceStep(gs) // upkeep -> draw

	require.Equal(t, rules.StepDraw, gs.Step)
	require.Equal(t, model.ZoneLibrary, card.Zone)
}

func TestDrawStepDrawsOnLaterTurns(t *testing.T) {
	gs := newTestState()
	gs.TurnCount = 2
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"
	gs.Phase = rules.PhaseBeginning
	gs.Step = rules.StepUpkeep
	card := &model.Card{InstanceID: "lib1", OwnerID: "p1", ControllerID: "p1", Zone: model.ZoneLibrary}
	gs.Cards["lib1"] = card

	AdvanceStep(gs)

	require.Equal(t, rules.StepDraw, gs.Step)
	require.Equal(t, model.ZoneHand, card.Zone)
}

func TestPassPriorityRotatesAndDetectsAllPassed(t *testing.T) {
	gs := newTestState()
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"

	allPassed, err := PassPriority(gs, "p1")
	require.NoError(t, err)
	require.False(t, allPassed)
	require.Equal(t, "p2", gs.PriorityPlayerID)

	allPassed, err = PassPriority(gs, "p2")
	require.NoError(t, err)
	require.True(t, allPassed)
	require.Equal(t, 0, gs.PassedPriorityCount)
}

func TestPassPriorityRejectsWrongPlayer(t *testing.T) {
	gs := newTestState()
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"

	_, err := PassPriority(gs, "p2")
	require.Error(t, err)
}

func TestPassPrioritySkipsLostPlayers(t *testing.T) {
	gs := newTestState()
	gs.Players[1].Lost = true
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"

	allPassed, err := PassPriority(gs, "p1")
	require.NoError(t, err)
	require.True(t, allPassed)
}

func TestAdvanceStepRollsOverTurnAndResetsLandsPlayed(t *testing.T) {
	gs := newTestState()
	gs.LandsPlayedThisTurn["p1"] = 1
	gs.TurnCount = 1
	gs.ActivePlayerID = "p1"
	gs.Phase = rules.PhaseEnding
	gs.Step = rules.StepEnd

	AdvanceStep(gs) // end -> cleanup (no triggers, empty hand) -> rolls into turn 2's upkeep

	require.Equal(t, 2, gs.TurnCount)
	require.Equal(t, "p2", gs.ActivePlayerID)
	require.Equal(t, 0, gs.LandsPlayedThisTurn["p1"])
	require.Equal(t, rules.StepUpkeep, gs.Step)
}

func TestCleanupClearsUntilEndOfTurnModifiersAndDamage(t *testing.T) {
	gs := newTestState()
	gs.ActivePlayerID = "p1"
	gs.Phase = rules.PhaseEnding
	gs.Step = rules.StepEnd
	creature := &model.Card{
		InstanceID: "c1", ControllerID: "p1", OwnerID: "p1", Zone: model.ZoneBattlefield,
		Types: []string{"Creature"}, Toughness: 5, BaseToughness: 5, DamageMarked: 2,
		Modifiers: []*model.Modifier{{Tag: "flying", UntilEndOfTurn: true}, {Tag: "trample"}},
	}
	gs.Cards["c1"] = creature

	AdvanceStep(gs)

	require.Equal(t, 0, creature.DamageMarked)
	require.Len(t, creature.Modifiers, 1)
	require.Equal(t, "trample", creature.Modifiers[0].Tag)
}

func TestCombatDamageRunsFirstStrikeSubStepThenNormalSubStep(t *testing.T) {
	gs := newTestState()
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"
	gs.Phase = rules.PhaseCombat
	gs.Step = rules.StepDeclareBlockers

	attacker := &model.Card{
		InstanceID: "atk1", OwnerID: "p1", ControllerID: "p1", Zone: model.ZoneBattlefield,
		Types: []string{"Creature"}, Power: 2, Toughness: 4, BaseToughness: 4,
		Keywords: []string{"first_strike"}, IsAttacking: true,
	}
	blocker := &model.Card{
		InstanceID: "blk1", OwnerID: "p2", ControllerID: "p2", Zone: model.ZoneBattlefield,
		Types: []string{"Creature"}, Power: 2, Toughness: 4, BaseToughness: 4,
	}
	gs.Cards["atk1"] = attacker
	gs.Cards["blk1"] = blocker
	gs.AttackersDeclared["atk1"] = "p2"
	gs.BlockersDeclared["atk1"] = []string{"blk1"}

	AdvanceStep(gs) // declare_blockers -> combat_damage, first-strike sub-step

	require.Equal(t, rules.StepCombatDamage, gs.Step)
	require.True(t, gs.InFirstStrikeSubStep)
	require.Equal(t, 2, blocker.DamageMarked)
	require.Equal(t, 0, attacker.DamageMarked)

	AdvanceStep(gs) // repeats combat_damage for the normal sub-step

	require.Equal(t, rules.StepCombatDamage, gs.Step)
	require.False(t, gs.InFirstStrikeSubStep)
	require.Equal(t, 2, attacker.DamageMarked)
}

func TestCombatDamageSkipsFirstStrikeSubStepWithoutStrikers(t *testing.T) {
	gs := newTestState()
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"
	gs.Phase = rules.PhaseCombat
	gs.Step = rules.StepDeclareBlockers

	attacker := &model.Card{
		InstanceID: "atk1", OwnerID: "p1", ControllerID: "p1", Zone: model.ZoneBattlefield,
		Types: []string{"Creature"}, Power: 2, Toughness: 4, BaseToughness: 4, IsAttacking: true,
	}
	blocker := &model.Card{
		InstanceID: "blk1", OwnerID: "p2", ControllerID: "p2", Zone: model.ZoneBattlefield,
		Types: []string{"Creature"}, Power: 2, Toughness: 4, BaseToughness: 4,
	}
	gs.Cards["atk1"] = attacker
	gs.Cards["blk1"] = blocker
	gs.AttackersDeclared["atk1"] = "p2"
	gs.BlockersDeclared["atk1"] = []string{"blk1"}

	AdvanceStep(gs)

	require.Equal(t, rules.StepCombatDamage, gs.Step)
	require.False(t, gs.InFirstStrikeSubStep)
	require.Equal(t, 2, attacker.DamageMarked)
	require.Equal(t, 2, blocker.DamageMarked)
}

func TestCleanupDiscardsDownToHandSize(t *testing.T) {
	gs := newTestState()
	gs.ActivePlayerID = "p1"
	gs.Phase = rules.PhaseEnding
	gs.Step = rules.StepEnd
	for i := 0; i < 9; i++ {
		id := "h" + string(rune('a'+i))
		gs.Cards[id] = &model.Card{InstanceID: id, OwnerID: "p1", ControllerID: "p1", Zone: model.ZoneHand, Position: model.Position{Z: i}}
	}

	AdvanceStep(gs)

	handCount := 0
	for _, c := range gs.Cards {
		if c.Zone == model.ZoneHand {
			handCount++
		}
	}
	require.Equal(t, maxHandSize, handCount)
}
