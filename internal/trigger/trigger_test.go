package trigger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcgforge/rulesengine/internal/abilityparser"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

func newTestState() *model.GameState {
	gs := model.NewGameState("g1")
	p1 := model.NewPlayer("p1", "Alice", 20)
	p2 := model.NewPlayer("p2", "Bob", 20)
	gs.Players = append(gs.Players, p1, p2)
	gs.PlayerOrder = []string{"p1", "p2"}
	gs.ActivePlayerID = "p1"
	return gs
}

func TestRegisterAndFireEntersBattlefieldTrigger(t *testing.T) {
	gs := newTestState()
	gs.Cards["c1"] = &model.Card{InstanceID: "c1", ControllerID: "p1", Zone: model.ZoneBattlefield, Types: []string{"Creature"}}

	m := NewManager()
	m.Install(gs)
	parsed := abilityparser.Parse("When this creature enters the battlefield, draw a card.")
	require.Len(t, parsed.Abilities, 1)
	m.RegisterAbilities("c1", "p1", parsed.Abilities)

	evt := rules.NewEvent(rules.EventZoneChange, "c1", "c1", "p1")
	evt.Metadata["from_zone"] = "STACK"
	evt.Metadata["to_zone"] = "BATTLEFIELD"
	gs.Events.Publish(evt)

	require.Len(t, gs.Stack, 1)
	require.Equal(t, model.StackItemTriggered, gs.Stack[0].Kind)
	require.Equal(t, "c1", gs.Stack[0].SourceID)
}

func TestDiesTriggerRequiresBattlefieldToGraveyard(t *testing.T) {
	gs := newTestState()
	gs.Cards["c1"] = &model.Card{InstanceID: "c1", ControllerID: "p1", Zone: model.ZoneGraveyard}

	m := NewManager()
	m.Install(gs)
	parsed := abilityparser.Parse("When this creature dies, each opponent loses 1 life.")
	m.RegisterAbilities("c1", "p1", parsed.Abilities)

	// A hand->graveyard discard is not a death; no trigger should fire.
	discardEvt := rules.NewEvent(rules.EventZoneChange, "c1", "c1", "p1")
	discardEvt.Metadata["from_zone"] = "HAND"
	discardEvt.Metadata["to_zone"] = "GRAVEYARD"
	gs.Events.Publish(discardEvt)
	require.Empty(t, gs.Stack)

	deathEvt := rules.NewEvent(rules.EventZoneChange, "c1", "c1", "p1")
	deathEvt.Metadata["from_zone"] = "BATTLEFIELD"
	deathEvt.Metadata["to_zone"] = "GRAVEYARD"
	gs.Events.Publish(deathEvt)
	require.Len(t, gs.Stack, 1)
}

func TestAPNAPOrdersActivePlayerTriggersToResolveLast(t *testing.T) {
	gs := newTestState()
	gs.Cards["p1card"] = &model.Card{InstanceID: "p1card", ControllerID: "p1", Zone: model.ZoneBattlefield}
	gs.Cards["p2card"] = &model.Card{InstanceID: "p2card", ControllerID: "p2", Zone: model.ZoneBattlefield}

	m := NewManager()
	m.Install(gs)
	parsed := abilityparser.Parse("At the beginning of your upkeep, draw a card.")
	m.RegisterAbilities("p1card", "p1", parsed.Abilities)
	m.RegisterAbilities("p2card", "p2", parsed.Abilities)

	gs.Events.Publish(rules.NewEvent(rules.EventUpkeepStepPre, "", "", ""))

	require.Len(t, gs.Stack, 2)
	// Active player's (p1) trigger was pushed first, so it sits under p2's
	// and resolves last: the top of the stack belongs to p2.
	require.Equal(t, "p2card", gs.Stack[len(gs.Stack)-1].SourceID)
	require.Equal(t, "p1card", gs.Stack[0].SourceID)
}

func TestOptionalCostCarriedOntoStackItem(t *testing.T) {
	gs := newTestState()
	gs.Cards["c1"] = &model.Card{InstanceID: "c1", ControllerID: "p1", Zone: model.ZoneBattlefield}

	m := NewManager()
	m.Install(gs)
	parsed := abilityparser.Parse("When this creature enters the battlefield, you may sacrifice it. If you do, draw a card.")
	m.RegisterAbilities("c1", "p1", parsed.Abilities)

	evt := rules.NewEvent(rules.EventZoneChange, "c1", "c1", "p1")
	evt.Metadata["from_zone"] = "STACK"
	evt.Metadata["to_zone"] = "BATTLEFIELD"
	gs.Events.Publish(evt)

	require.Len(t, gs.Stack, 1)
	require.NotNil(t, gs.Stack[0].OptionalCost)
}

func TestFireDelayedConsumesOneShotTrigger(t *testing.T) {
	gs := newTestState()
	ScheduleDelayed(gs, &model.DelayedTrigger{
		ID: "dt1", SourceCardID: "c1", ControllerID: "p1",
		ConditionStep: "END_TURN_STEP", EffectText: "Return the exiled card to the battlefield.", OneShot: true,
	})

	items := FireDelayed(gs, "", "END_TURN_STEP")
	require.Len(t, items, 1)
	require.Empty(t, gs.DelayedTriggers)
}
