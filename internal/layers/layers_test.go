package layers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcgforge/rulesengine/internal/counters"
	"github.com/tcgforge/rulesengine/internal/effects"
	"github.com/tcgforge/rulesengine/internal/model"
)

func newBattlefieldCreature(id string, power, toughness int) *model.Card {
	return &model.Card{
		InstanceID:    id,
		Zone:          model.ZoneBattlefield,
		Types:         []string{"Creature"},
		BasePower:     power,
		BaseToughness: toughness,
		HasBasePower:  true,
		HasBaseTough:  true,
		Power:         power,
		Toughness:     toughness,
	}
}

func TestRecomputeAppliesCountersAndBoosts(t *testing.T) {
	gs := model.NewGameState("g1")
	c := newBattlefieldCreature("c1", 2, 2)
	c.Counters = []*counters.Counter{{Name: "+1/+1", Count: 2}}
	c.Modifiers = []*model.Modifier{
		{Kind: model.ModifierPTBoost, PowerDelta: 1, ToughnessDelta: 0},
		{Kind: model.ModifierAbilityGrant, Tag: "flying"},
	}
	gs.Cards["c1"] = c

	Recompute(gs, effects.NewLayerSystem())

	require.Equal(t, 5, c.Power)      // 2 base + 1 boost + 2 counters
	require.Equal(t, 4, c.Toughness)  // 2 base + 0 boost + 2 counters
	require.Contains(t, c.Keywords, "flying")
}

func TestRecomputeSetPTIsLastWriterWins(t *testing.T) {
	gs := model.NewGameState("g1")
	c := newBattlefieldCreature("c1", 2, 2)
	c.Modifiers = []*model.Modifier{
		{Kind: model.ModifierSetPT, PowerDelta: 0, ToughnessDelta: 1},
		{Kind: model.ModifierSetPT, PowerDelta: 7, ToughnessDelta: 7},
	}
	gs.Cards["c1"] = c

	Recompute(gs, effects.NewLayerSystem())

	require.Equal(t, 7, c.Power)
	require.Equal(t, 7, c.Toughness)
}

func TestRecomputeSkipsOffBattlefieldCards(t *testing.T) {
	gs := model.NewGameState("g1")
	c := newBattlefieldCreature("c1", 2, 2)
	c.Zone = model.ZoneGraveyard
	c.Power = 99
	gs.Cards["c1"] = c

	Recompute(gs, effects.NewLayerSystem())

	require.Equal(t, 99, c.Power) // untouched
}
