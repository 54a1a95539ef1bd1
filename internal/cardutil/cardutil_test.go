package cardutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tcgforge/rulesengine/internal/model"
)

func TestIsCreatureAndLethalDamage(t *testing.T) {
	c := &model.Card{
		Types:     []string{"Creature"},
		Toughness: 3,
	}
	require.True(t, IsCreature(c))
	require.False(t, IsLand(c))

	require.Equal(t, 3, LethalDamage(c, false))
	require.Equal(t, 1, LethalDamage(c, true))

	c.DamageMarked = 3
	require.Equal(t, 0, LethalDamage(c, false))
}

func TestCanAttachEquipmentRequiresCreature(t *testing.T) {
	equip := &model.Card{Types: []string{"Artifact"}, Subtypes: []string{"Equipment"}}
	land := &model.Card{Types: []string{"Land"}, Zone: model.ZoneBattlefield}
	creature := &model.Card{Types: []string{"Creature"}, Zone: model.ZoneBattlefield}

	require.False(t, CanAttach(equip, land))
	require.True(t, CanAttach(equip, creature))
}

func TestHasSummoningSickness(t *testing.T) {
	c := &model.Card{ControlledSinceTurn: 5}
	require.True(t, HasSummoningSickness(c, 5))
	require.False(t, HasSummoningSickness(c, 6))

	c.Keywords = []string{"haste"}
	require.False(t, HasSummoningSickness(c, 5))
}
