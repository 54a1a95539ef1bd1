package watchers

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

func TestInstallTracksSpellsCastAndCardsDrawnPerController(t *testing.T) {
	gs := newTestState()
	gw := Install(gs)

	gs.Events.Publish(rules.NewEvent(rules.EventSpellCast, "bolt1", "bolt1", "p1"))
	gs.Events.Publish(rules.NewEvent(rules.EventSpellCast, "bolt2", "bolt2", "p1"))
	gs.Events.Publish(rules.NewEvent(rules.EventDrewCard, "card1", "card1", "p2"))

	require.Equal(t, 2, gw.SpellsCast.GetCount("p1"))
	require.Equal(t, 0, gw.SpellsCast.GetCount("p2"))
	require.Equal(t, 1, gw.CardsDrawn.GetCount("p2"))
}

func TestInstallTracksCreaturesDiedOnlyForCreaturesLeavingBattlefield(t *testing.T) {
	gs := newTestState()
	gw := Install(gs)
	gs.Cards["bear"] = &model.Card{InstanceID: "bear", ControllerID: "p1", OwnerID: "p1", Types: []string{"Creature"}}
	gs.Cards["forest"] = &model.Card{InstanceID: "forest", ControllerID: "p2", OwnerID: "p2", Types: []string{"Land"}}

	died := rules.NewEvent(rules.EventZoneChange, "bear", "bear", "p1")
	died.Metadata["from_zone"] = model.ZoneBattlefield.String()
	died.Metadata["to_zone"] = model.ZoneGraveyard.String()
	gs.Events.Publish(died)

	sacrificedLand := rules.NewEvent(rules.EventZoneChange, "forest", "forest", "p2")
	sacrificedLand.Metadata["from_zone"] = model.ZoneBattlefield.String()
	sacrificedLand.Metadata["to_zone"] = model.ZoneGraveyard.String()
	gs.Events.Publish(sacrificedLand)

	require.Equal(t, 1, gw.CreaturesDied.GetAmountByController("p1"))
	require.Equal(t, 0, gw.CreaturesDied.GetAmountByController("p2"))
	require.Equal(t, 1, gw.CreaturesDied.GetTotalAmount())
}

func TestInstallTracksPermanentsEnteredOnBattlefieldZoneChange(t *testing.T) {
	gs := newTestState()
	gw := Install(gs)

	entered := rules.NewEvent(rules.EventZoneChange, "bear", "bear", "p1")
	entered.Metadata["from_zone"] = model.ZoneStack.String()
	entered.Metadata["to_zone"] = model.ZoneBattlefield.String()
	gs.Events.Publish(entered)

	require.Equal(t, []string{"bear"}, gw.PermanentsEntered.GetPermanentsEntered("p1"))
}

func TestCleanupStepPreResetsAllWatchers(t *testing.T) {
	gs := newTestState()
	gw := Install(gs)
	gs.Events.Publish(rules.NewEvent(rules.EventSpellCast, "bolt1", "bolt1", "p1"))
	require.Equal(t, 1, gw.SpellsCast.GetCount("p1"))

	gs.Events.Publish(rules.NewEvent(rules.EventCleanupStepPre, "", "", "p1"))

	require.Equal(t, 0, gw.SpellsCast.GetCount("p1"))
	require.False(t, gw.SpellsCast.ConditionMet())
}

func TestSpellsCastWatcherCopyIsIndependent(t *testing.T) {
	w := NewSpellsCastWatcher()
	w.Watch(rules.NewEvent(rules.EventSpellCast, "spell1", "spell1", "player1"))

	c, ok := w.Copy().(*SpellsCastWatcher)
	require.True(t, ok)
	require.Equal(t, w.GetCount("player1"), c.GetCount("player1"))

	c.Watch(rules.NewEvent(rules.EventSpellCast, "spell2", "spell2", "player1"))
	require.Equal(t, 1, w.GetCount("player1"))
	require.Equal(t, 2, c.GetCount("player1"))
}
