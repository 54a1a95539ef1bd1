// Package targeting turns an ability's effect text into a
// model.TargetRequirement and checks candidate IDs against it
// (spec.md §4.6's target legality, left unimplemented by AbilityParser's
// RequiresTarget bool). It has no state of its own: every function takes
// the model.GameState it needs to consult.
package targeting

import (
	"strings"

	"github.com/tcgforge/rulesengine/internal/model"
)

// ParseRequirement builds a model.TargetRequirement from an ability or
// spell's effect text using the same "target X" phrasing AbilityParser's
// ParseTargetCount recognizes, adding a type filter keyed off the target
// noun. Returns nil when the text names no target.
func ParseRequirement(effectText string) *model.TargetRequirement {
	text := strings.ToLower(effectText)
	if !strings.Contains(text, "target") {
		return nil
	}

	min, max := 1, 1
	if idx := strings.Index(text, "up to"); idx >= 0 {
		min = 0
		if n := leadingNumberAfter(text[idx+len("up to"):]); n > 0 {
			max = n
		}
	}

	filter := model.TargetFilter{ControllerType: "any"}
	switch {
	case strings.Contains(text, "target creature or player"), strings.Contains(text, "target any target"), strings.Contains(text, "any target"):
		// "any target" covers creatures, planeswalkers, battles, and
		// players; leave Types/Zones unset so all are legal and let
		// Validate's targetsPlayers/zone checks narrow it.
	case strings.Contains(text, "target creature"):
		filter.Types = []string{"Creature"}
		filter.Zones = []model.Zone{model.ZoneBattlefield}
	case strings.Contains(text, "target player"):
		filter.Types = []string{"__player__"}
	case strings.Contains(text, "target opponent"):
		filter.Types = []string{"__player__"}
		filter.ControllerType = "opponent"
	case strings.Contains(text, "target artifact"):
		filter.Types = []string{"Artifact"}
		filter.Zones = []model.Zone{model.ZoneBattlefield}
	case strings.Contains(text, "target enchantment"):
		filter.Types = []string{"Enchantment"}
		filter.Zones = []model.Zone{model.ZoneBattlefield}
	case strings.Contains(text, "target land"):
		filter.Types = []string{"Land"}
		filter.Zones = []model.Zone{model.ZoneBattlefield}
	case strings.Contains(text, "target planeswalker"):
		filter.Types = []string{"Planeswalker"}
		filter.Zones = []model.Zone{model.ZoneBattlefield}
	case strings.Contains(text, "target permanent"):
		filter.Zones = []model.Zone{model.ZoneBattlefield}
	case strings.Contains(text, "target spell"):
		filter.Zones = []model.Zone{model.ZoneStack}
	default:
		filter.Zones = []model.Zone{model.ZoneBattlefield}
	}

	return &model.TargetRequirement{MinCount: min, MaxCount: max, Filter: filter}
}

func leadingNumberAfter(s string) int {
	words := map[string]int{"one": 1, "two": 2, "three": 3, "four": 4, "five": 5}
	s = strings.TrimSpace(s)
	for w, n := range words {
		if strings.HasPrefix(s, w) {
			return n
		}
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
