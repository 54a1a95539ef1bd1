package effectresolver

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcgforge/rulesengine/internal/counters"
	"github.com/tcgforge/rulesengine/internal/model"
)

func newTestState() (*model.GameState, *model.Player, *model.Player) {
	gs := model.NewGameState("g1")
	p1 := model.NewPlayer("p1", "Alice", 20)
	p2 := model.NewPlayer("p2", "Bob", 20)
	gs.Players = append(gs.Players, p1, p2)
	gs.PlayerOrder = []string{"p1", "p2"}
	return gs, p1, p2
}

func battlefieldCreature(gs *model.GameState, id, controller string, power, toughness int) *model.Card {
	c := &model.Card{
		InstanceID: id, ControllerID: controller, OwnerID: controller,
		Zone: model.ZoneBattlefield, Types: []string{"Creature"},
		Power: power, Toughness: toughness, BasePower: power, BaseToughness: toughness,
	}
	gs.Cards[id] = c
	return c
}

func TestResolveDamageToPlayer(t *testing.T) {
	gs, _, p2 := newTestState()
	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1", Targets: []string{"p2"}}

	require.NoError(t, Resolve(ctx, "TestSpell deals 3 damage to target player."))
	require.Equal(t, 17, p2.Life)
}

func TestResolveDamageToCardMarksDeathtouch(t *testing.T) {
	gs, _, _ := newTestState()
	source := &model.Card{InstanceID: "src", Keywords: []string{"deathtouch"}}
	target := battlefieldCreature(gs, "c1", "p2", 4, 4)
	ctx := &Context{State: gs, Source: source, ControllerID: "p1", Targets: []string{"c1"}}

	require.NoError(t, Resolve(ctx, "Deal 1 damage to target creature."))
	require.Equal(t, 1, target.DamageMarked)
	require.Len(t, target.Modifiers, 1)
	require.Equal(t, "deathtouch_damage_received", target.Modifiers[0].Tag)
}

func TestResolveDestroyRespectsIndestructible(t *testing.T) {
	gs, _, _ := newTestState()
	target := battlefieldCreature(gs, "c1", "p2", 4, 4)
	target.Keywords = []string{"indestructible"}
	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1", Targets: []string{"c1"}}

	require.NoError(t, Resolve(ctx, "Destroy target creature."))
	require.Equal(t, model.ZoneBattlefield, target.Zone)
}

func TestResolveDestroyMovesToGraveyard(t *testing.T) {
	gs, _, _ := newTestState()
	target := battlefieldCreature(gs, "c1", "p2", 4, 4)
	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1", Targets: []string{"c1"}}

	require.NoError(t, Resolve(ctx, "Destroy target creature."))
	require.Equal(t, model.ZoneGraveyard, target.Zone)
}

func TestResolvePumpAddsUntilEndOfTurnModifier(t *testing.T) {
	gs, _, _ := newTestState()
	target := battlefieldCreature(gs, "c1", "p1", 2, 2)
	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1", Targets: []string{"c1"}}

	require.NoError(t, Resolve(ctx, "Target creature gets +2/+2 until end of turn."))
	require.Len(t, target.Modifiers, 1)
	require.Equal(t, 2, target.Modifiers[0].PowerDelta)
	require.True(t, target.Modifiers[0].UntilEndOfTurn)
}

func TestResolveLifeGainAndLoss(t *testing.T) {
	gs, p1, _ := newTestState()
	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1"}

	require.NoError(t, Resolve(ctx, "You gain 5 life."))
	require.Equal(t, 25, p1.Life)

	require.NoError(t, Resolve(ctx, "You lose 2 life."))
	require.Equal(t, 23, p1.Life)
}

func TestResolveCounterPlacement(t *testing.T) {
	gs, _, _ := newTestState()
	target := battlefieldCreature(gs, "c1", "p1", 2, 2)
	target.Counters = []*counters.Counter{{Name: "+1/+1", Count: 1}}
	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1", Targets: []string{"c1"}}

	require.NoError(t, Resolve(ctx, "Put two +1/+1 counters on target creature."))
	require.Equal(t, 3, target.CounterCount("+1/+1"))
}

func TestResolveFight(t *testing.T) {
	gs, _, _ := newTestState()
	source := battlefieldCreature(gs, "src", "p1", 3, 3)
	target := battlefieldCreature(gs, "c1", "p2", 2, 5)
	ctx := &Context{State: gs, Source: source, ControllerID: "p1", Targets: []string{"c1"}}

	require.NoError(t, Resolve(ctx, "Target creature fights target creature you don't control."))
	require.Equal(t, 3, target.DamageMarked)
	require.Equal(t, 2, source.DamageMarked)
}

func TestResolveTokenCreation(t *testing.T) {
	gs, _, _ := newTestState()
	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1"}

	require.NoError(t, Resolve(ctx, "Create a 1/1 white Soldier creature token."))

	found := 0
	for _, c := range gs.Cards {
		if c.IsToken {
			found++
			require.Equal(t, model.ZoneBattlefield, c.Zone)
		}
	}
	require.Equal(t, 1, found)
}

func TestResolveCounterspell(t *testing.T) {
	gs, _, _ := newTestState()
	spellSource := &model.Card{InstanceID: "spellc", Zone: model.ZoneStack}
	gs.Cards["spellc"] = spellSource
	gs.PushStack(&model.StackItem{ID: "stack1", SourceID: "spellc", ControllerID: "p2", Kind: model.StackItemSpell})

	ctx := &Context{State: gs, Source: &model.Card{InstanceID: "src"}, ControllerID: "p1", Targets: []string{"stack1"}}
	require.NoError(t, Resolve(ctx, "Counter target spell."))

	_, stillOnStack := gs.RemoveStackItem("stack1")
	require.False(t, stillOnStack)
	require.Equal(t, model.ZoneGraveyard, spellSource.Zone)
}
