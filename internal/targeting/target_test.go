package targeting

import (
	"testing"

	"github.com/stretchr/testify/require"
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

func TestParseRequirementRecognizesTargetCreature(t *testing.T) {
	req := ParseRequirement("Deal 3 damage to target creature.")
	require.NotNil(t, req)
	require.Equal(t, 1, req.MinCount)
	require.Equal(t, 1, req.MaxCount)
	require.Equal(t, []string{"Creature"}, req.Filter.Types)
	require.Equal(t, []model.Zone{model.ZoneBattlefield}, req.Filter.Zones)
}

func TestParseRequirementHandlesUpToN(t *testing.T) {
	req := ParseRequirement("Destroy up to two target artifacts.")
	require.NotNil(t, req)
	require.Equal(t, 0, req.MinCount)
	require.Equal(t, 2, req.MaxCount)
	require.Equal(t, []string{"Artifact"}, req.Filter.Types)
}

func TestParseRequirementReturnsNilWithoutATarget(t *testing.T) {
	require.Nil(t, ParseRequirement("Draw a card."))
}

func TestParseRequirementRecognizesAnyTarget(t *testing.T) {
	req := ParseRequirement("Deal 3 damage to any target.")
	require.NotNil(t, req)
	require.Empty(t, req.Filter.Types)
}

func TestValidateRejectsWrongCountAndDuplicateTargets(t *testing.T) {
	gs := newTestState()
	req := model.TargetRequirement{MinCount: 1, MaxCount: 1, Filter: model.TargetFilter{Types: []string{"Creature"}, Zones: []model.Zone{model.ZoneBattlefield}}}

	require.Error(t, Validate(gs, "p1", req, nil))

	gs.Cards["bear"] = &model.Card{InstanceID: "bear", ControllerID: "p2", Zone: model.ZoneBattlefield, Types: []string{"Creature"}}
	require.Error(t, Validate(gs, "p1", req, []string{"bear", "bear"}))
	require.NoError(t, Validate(gs, "p1", req, []string{"bear"}))
}

func TestValidateRejectsHexproofFromOpponent(t *testing.T) {
	gs := newTestState()
	req := model.TargetRequirement{MinCount: 1, MaxCount: 1, Filter: model.TargetFilter{Types: []string{"Creature"}, Zones: []model.Zone{model.ZoneBattlefield}}}
	gs.Cards["warden"] = &model.Card{
		InstanceID: "warden", ControllerID: "p2", Zone: model.ZoneBattlefield,
		Types: []string{"Creature"}, Keywords: []string{"hexproof"},
	}

	require.Error(t, Validate(gs, "p1", req, []string{"warden"}))
	require.NoError(t, Validate(gs, "p2", req, []string{"warden"}))
}

func TestValidateAcceptsAPlayerTarget(t *testing.T) {
	gs := newTestState()
	req := model.TargetRequirement{MinCount: 1, MaxCount: 1, Filter: model.TargetFilter{Types: []string{"__player__"}}}
	require.NoError(t, Validate(gs, "p1", req, []string{"p2"}))
}

func TestLegalTargetsFiltersByZoneAndType(t *testing.T) {
	gs := newTestState()
	gs.Cards["bear"] = &model.Card{InstanceID: "bear", ControllerID: "p2", Zone: model.ZoneBattlefield, Types: []string{"Creature"}}
	gs.Cards["forest"] = &model.Card{InstanceID: "forest", ControllerID: "p2", Zone: model.ZoneBattlefield, Types: []string{"Land"}}
	gs.Cards["inHand"] = &model.Card{InstanceID: "inHand", ControllerID: "p2", Zone: model.ZoneHand, Types: []string{"Creature"}}

	req := model.TargetRequirement{MinCount: 1, MaxCount: 1, Filter: model.TargetFilter{Types: []string{"Creature"}, Zones: []model.Zone{model.ZoneBattlefield}}}
	candidates := LegalTargets(gs, "p1", req)

	require.Equal(t, []string{"bear"}, candidates)
}
