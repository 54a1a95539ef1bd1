package action

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcgforge/rulesengine/internal/abilityparser"
	"github.com/tcgforge/rulesengine/internal/mana"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

func newState() (*model.GameState, *model.Player) {
	gs := model.NewGameState("g1")
	p1 := model.NewPlayer("p1", "Alice", 20)
	p2 := model.NewPlayer("p2", "Bob", 20)
	gs.Players = append(gs.Players, p1, p2)
	gs.PlayerOrder = []string{"p1", "p2"}
	gs.ActivePlayerID = "p1"
	gs.PriorityPlayerID = "p1"
	gs.Phase = rules.PhasePrecombatMain
	return gs, p1
}

func handInCard(gs *model.GameState, id, owner string, def *model.CardDefinition) *model.Card {
	c := &model.Card{InstanceID: id, OwnerID: owner, ControllerID: owner, Zone: model.ZoneHand, Definition: def}
	c.ResetMemory()
	gs.Cards[id] = c
	return c
}

func TestPlayLandMovesToBattlefieldAndIncrementsCount(t *testing.T) {
	gs, _ := newState()
	land := handInCard(gs, "land1", "p1", &model.CardDefinition{Name: "Forest", Types: []string{"Land"}})

	h := NewHandler()
	require.NoError(t, h.PlayLand(gs, "p1", "land1"))
	require.Equal(t, model.ZoneBattlefield, land.Zone)
	require.Equal(t, 1, gs.LandsPlayedThisTurn["p1"])
}

func TestPlayLandFailsSecondTime(t *testing.T) {
	gs, _ := newState()
	handInCard(gs, "land1", "p1", &model.CardDefinition{Name: "Forest", Types: []string{"Land"}})
	handInCard(gs, "land2", "p1", &model.CardDefinition{Name: "Island", Types: []string{"Land"}})

	h := NewHandler()
	require.NoError(t, h.PlayLand(gs, "p1", "land1"))
	err := h.PlayLand(gs, "p1", "land2")
	require.Error(t, err)
}

func TestCastSpellPaysManaAndPushesStack(t *testing.T) {
	gs, p1 := newState()
	p1.ManaPool.Add(mana.ManaRed, 1)
	spell := handInCard(gs, "bolt", "p1", &model.CardDefinition{
		Name: "Bolt", Types: []string{"Instant"}, ManaCost: "{R}", OracleText: "Deal 3 damage to any target.",
	})
	target := &model.Card{InstanceID: "c1", Zone: model.ZoneBattlefield, Types: []string{"Creature"}}
	gs.Cards["c1"] = target

	h := NewHandler()
	require.NoError(t, h.CastSpell(gs, "p1", "bolt", []string{"c1"}, 0, false))
	require.Equal(t, model.ZoneStack, spell.Zone)
	require.Len(t, gs.Stack, 1)
	require.Equal(t, 0, p1.ManaPool.GetTotal(mana.ManaRed))
}

func TestCastSpellFailsWithoutMana(t *testing.T) {
	gs, _ := newState()
	handInCard(gs, "bolt", "p1", &model.CardDefinition{Name: "Bolt", Types: []string{"Instant"}, ManaCost: "{R}"})

	h := NewHandler()
	err := h.CastSpell(gs, "p1", "bolt", nil, 0, false)
	require.Error(t, err)
}

func TestCastSorcerySpeedRequiresMainPhaseAndEmptyStack(t *testing.T) {
	gs, _ := newState()
	gs.Phase = rules.PhaseCombat
	handInCard(gs, "growth", "p1", &model.CardDefinition{Name: "Growth", Types: []string{"Sorcery"}})

	h := NewHandler()
	err := h.CastSpell(gs, "p1", "growth", nil, 0, false)
	require.Error(t, err)
}

func TestActivateManaAbilityResolvesImmediately(t *testing.T) {
	gs, _ := newState()
	land := &model.Card{InstanceID: "forest1", ControllerID: "p1", Zone: model.ZoneBattlefield}
	gs.Cards["forest1"] = land

	h := NewHandler()
	ability := &abilityparser.ParsedAbility{
		Kind: abilityparser.KindMana, IsManaAbility: true,
		Cost: &abilityparser.Cost{Tap: true}, EffectText: "Add {G}.",
	}
	require.NoError(t, h.ActivateAbility(gs, "p1", "forest1", ability, nil))
	require.True(t, land.Tapped)
	require.Empty(t, gs.Stack)

	p1, _ := gs.Player("p1")
	require.Equal(t, 1, p1.ManaPool.GetTotal(mana.ManaGreen))
}

func TestActivateLoyaltyAbilityOncePerTurn(t *testing.T) {
	gs, _ := newState()
	pw := &model.Card{InstanceID: "pw1", ControllerID: "p1", Zone: model.ZoneBattlefield, BaseLoyalty: 3, Loyalty: 3}
	gs.Cards["pw1"] = pw

	h := NewHandler()
	ability := &abilityparser.ParsedAbility{IsLoyaltyAbility: true, Cost: &abilityparser.Cost{LoyaltyDelta: 1, HasLoyaltyDelta: true}}
	require.NoError(t, h.ActivateAbility(gs, "p1", "pw1", ability, nil))
	require.Equal(t, 4, pw.Loyalty)

	err := h.ActivateAbility(gs, "p1", "pw1", ability, nil)
	require.Error(t, err)
}

func TestResolveTopStackMovesPermanentToBattlefield(t *testing.T) {
	gs, _ := newState()
	creature := &model.Card{InstanceID: "c1", ControllerID: "p1", Zone: model.ZoneStack, Types: []string{"Creature"}}
	gs.Cards["c1"] = creature
	gs.PushStack(&model.StackItem{ID: "s1", SourceID: "c1", ControllerID: "p1", Kind: model.StackItemSpell})

	called := false
	err := ResolveTopStack(gs, func(source *model.Card, controllerID string, targets []string, effectText string) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.False(t, called) // permanents don't go through the effect resolver
	require.Equal(t, model.ZoneBattlefield, creature.Zone)
}

func TestResolveTopStackNonPermanentDelegatesAndGoesToGraveyard(t *testing.T) {
	gs, _ := newState()
	bolt := &model.Card{InstanceID: "bolt1", ControllerID: "p1", Zone: model.ZoneStack, Types: []string{"Instant"}}
	gs.Cards["bolt1"] = bolt
	gs.PushStack(&model.StackItem{ID: "s1", SourceID: "bolt1", ControllerID: "p1", Kind: model.StackItemSpell})

	called := false
	err := ResolveTopStack(gs, func(source *model.Card, controllerID string, targets []string, effectText string) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, model.ZoneGraveyard, bolt.Zone)
}

func TestAuraFizzlesOnIllegalTarget(t *testing.T) {
	gs, _ := newState()
	aura := &model.Card{InstanceID: "aura1", ControllerID: "p1", Zone: model.ZoneStack, Types: []string{"Enchantment"}, Subtypes: []string{"Aura"}}
	gs.Cards["aura1"] = aura
	gs.PushStack(&model.StackItem{ID: "s1", SourceID: "aura1", ControllerID: "p1", Kind: model.StackItemSpell, Targets: []string{"missing"}})

	err := ResolveTopStack(gs, func(*model.Card, string, []string, string) error { return nil })
	require.NoError(t, err)
	require.Equal(t, model.ZoneGraveyard, aura.Zone)
}
