package sba

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcgforge/rulesengine/internal/counters"
	"github.com/tcgforge/rulesengine/internal/model"
)

func newTestState() *model.GameState {
	gs := model.NewGameState("g1")
	p1 := model.NewPlayer("p1", "Alice", 20)
	p2 := model.NewPlayer("p2", "Bob", 20)
	gs.Players = append(gs.Players, p1, p2)
	gs.PlayerOrder = []string{"p1", "p2"}
	return gs
}

func battlefieldCreature(gs *model.GameState, id, controller string, toughness, damage int) *model.Card {
	c := &model.Card{
		InstanceID: id, ControllerID: controller, OwnerID: controller,
		Zone: model.ZoneBattlefield, Types: []string{"Creature"},
		Toughness: toughness, BaseToughness: toughness, DamageMarked: damage,
	}
	gs.Cards[id] = c
	return c
}

func TestPlayerAtZeroLifeLoses(t *testing.T) {
	gs := newTestState()
	gs.Players[1].Life = 0

	passes, err := Run(gs)
	require.NoError(t, err)
	require.Equal(t, 1, passes)
	require.True(t, gs.Players[1].Lost)
}

func TestLethalDamageMovesCreatureToGraveyard(t *testing.T) {
	gs := newTestState()
	c := battlefieldCreature(gs, "c1", "p1", 3, 3)

	_, err := Run(gs)
	require.NoError(t, err)
	require.Equal(t, model.ZoneGraveyard, c.Zone)
}

func TestPersistCreatureReturnsWithNegativeCounter(t *testing.T) {
	gs := newTestState()
	c := battlefieldCreature(gs, "c1", "p1", 2, 2)
	c.Keywords = []string{"persist"}

	passes, err := Run(gs)
	require.NoError(t, err)
	require.Greater(t, passes, 0)
	require.Equal(t, model.ZoneBattlefield, c.Zone)
	require.Equal(t, 1, c.CounterCount("-1/-1"))
	require.Equal(t, 0, c.DamageMarked)
}

func TestPersistDoesNotReturnACreatureThatAlreadyHasANegativeCounter(t *testing.T) {
	gs := newTestState()
	c := battlefieldCreature(gs, "c1", "p1", 2, 2)
	c.Keywords = []string{"persist"}
	c.Counters = []*counters.Counter{{Name: "-1/-1", Count: 1}}

	_, err := Run(gs)
	require.NoError(t, err)
	require.Equal(t, model.ZoneGraveyard, c.Zone)
}

func TestPlaneswalkerAtZeroLoyaltyDies(t *testing.T) {
	gs := newTestState()
	pw := &model.Card{InstanceID: "pw1", ControllerID: "p1", Zone: model.ZoneBattlefield, Types: []string{"Planeswalker"}, Loyalty: 0}
	gs.Cards["pw1"] = pw

	_, err := Run(gs)
	require.NoError(t, err)
	require.Equal(t, model.ZoneGraveyard, pw.Zone)
}

func TestCounterAnnihilation(t *testing.T) {
	gs := newTestState()
	c := battlefieldCreature(gs, "c1", "p1", 5, 0)
	c.Counters = []*counters.Counter{{Name: "+1/+1", Count: 3}, {Name: "-1/-1", Count: 2}}

	_, err := Run(gs)
	require.NoError(t, err)
	require.Equal(t, 1, c.CounterCount("+1/+1"))
	require.Equal(t, 0, c.CounterCount("-1/-1"))
}

func TestAuraWithoutLegalTargetDies(t *testing.T) {
	gs := newTestState()
	aura := &model.Card{
		InstanceID: "aura1", ControllerID: "p1", Zone: model.ZoneBattlefield,
		Types: []string{"Enchantment"}, Subtypes: []string{"Aura"},
		AttachedTo: "missing", HasAttachedTo: true,
	}
	gs.Cards["aura1"] = aura

	_, err := Run(gs)
	require.NoError(t, err)
	require.Equal(t, model.ZoneGraveyard, aura.Zone)
}

func TestTokenLeavingBattlefieldCeasesToExist(t *testing.T) {
	gs := newTestState()
	token := &model.Card{InstanceID: "t1", ControllerID: "p1", Zone: model.ZoneGraveyard, IsToken: true}
	gs.Cards["t1"] = token

	_, err := Run(gs)
	require.NoError(t, err)
	_, exists := gs.Cards["t1"]
	require.False(t, exists)
}

func TestLegendRuleKeepsOnlyOneCopy(t *testing.T) {
	gs := newTestState()
	def := &model.CardDefinition{Name: "Urza, Lord High Artificer"}
	for _, id := range []string{"u1", "u2"} {
		gs.Cards[id] = &model.Card{
			InstanceID: id, ControllerID: "p1", Zone: model.ZoneBattlefield,
			Types: []string{"Legendary", "Creature"}, Supertypes: []string{"Legendary"},
			Definition: def, Toughness: 4, BaseToughness: 4,
		}
	}

	_, err := Run(gs)
	require.NoError(t, err)
	alive := 0
	for _, id := range []string{"u1", "u2"} {
		if gs.Cards[id].Zone == model.ZoneBattlefield {
			alive++
		}
	}
	require.Equal(t, 1, alive)
}

func TestRunConverges(t *testing.T) {
	gs := newTestState()
	passes, err := Run(gs)
	require.NoError(t, err)
	require.Equal(t, 0, passes)
}
