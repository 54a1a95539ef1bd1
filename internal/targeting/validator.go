package targeting

import (
	"github.com/tcgforge/rulesengine/internal/cardutil"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/model"
)

// LegalTargets enumerates every candidate ID in gs matching req's filter
// and zone, from controllerID's perspective (for "opponent"/"you"
// ControllerType filtering). Candidates are card instance IDs, plus
// player IDs when req.Filter permits targeting a player.
func LegalTargets(gs *model.GameState, controllerID string, req model.TargetRequirement) []string {
	var out []string
	if targetsPlayers(req.Filter) {
		for _, p := range gs.Players {
			if matchesControllerType(p.ID, controllerID, gs, req.Filter.ControllerType) && p.CanRespond() {
				out = append(out, p.ID)
			}
		}
	}
	if targetsCards(req.Filter) {
		for _, c := range gs.Cards {
			if matchesCard(c, controllerID, gs, req.Filter) {
				out = append(out, c.InstanceID)
			}
		}
	}
	return out
}

// Validate checks that targets is a legal response to req for an ability
// controlled by controllerID: the right count, no duplicates, and every
// target matching req.Filter and not protected from selection (hexproof,
// shroud).
func Validate(gs *model.GameState, controllerID string, req model.TargetRequirement, targets []string) error {
	count := len(targets)
	if count < req.MinCount {
		return engineerr.InvalidTarget("not enough targets: need at least %d, got %d", req.MinCount, count)
	}
	if req.MaxCount > 0 && count > req.MaxCount {
		return engineerr.InvalidTarget("too many targets: need at most %d, got %d", req.MaxCount, count)
	}

	seen := make(map[string]bool, count)
	for _, id := range targets {
		if seen[id] {
			return engineerr.InvalidTarget("duplicate target %q", id)
		}
		seen[id] = true

		if p, ok := gs.Player(id); ok {
			if !targetsPlayers(req.Filter) {
				return engineerr.InvalidTarget("%q is a player but this ability can't target players", id)
			}
			if !p.CanRespond() {
				return engineerr.InvalidTarget("target player %q has left or lost the game", id)
			}
			continue
		}

		c, ok := gs.Card(id)
		if !ok {
			return engineerr.InvalidTarget("target %q not found", id)
		}
		if !matchesCard(c, controllerID, gs, req.Filter) {
			return engineerr.InvalidTarget("%q is not a legal target for this ability", c.InstanceID)
		}
	}
	return nil
}

func targetsPlayers(f model.TargetFilter) bool {
	if len(f.Types) == 0 {
		return true // "any target"
	}
	for _, t := range f.Types {
		if t == "__player__" {
			return true
		}
	}
	return false
}

func targetsCards(f model.TargetFilter) bool {
	if len(f.Types) == 0 {
		return true // "any target"
	}
	for _, t := range f.Types {
		if t != "__player__" {
			return true
		}
	}
	return false
}

func matchesControllerType(candidateID, controllerID string, gs *model.GameState, controllerType string) bool {
	switch controllerType {
	case "you":
		return candidateID == controllerID
	case "opponent":
		for _, o := range gs.Opponents(controllerID) {
			if o == candidateID {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func matchesCard(c *model.Card, controllerID string, gs *model.GameState, f model.TargetFilter) bool {
	if !targetsCards(f) {
		return false
	}
	if c.HasKeyword("hexproof") && c.ControllerID != controllerID {
		return false
	}
	if c.HasKeyword("shroud") {
		return false
	}
	// TODO: protection-from-color/type filtering needs the source's color
	// identity, which isn't threaded through this call yet.

	if len(f.Zones) > 0 {
		inZone := false
		for _, z := range f.Zones {
			if c.Zone == z {
				inZone = true
				break
			}
		}
		if !inZone {
			return false
		}
	}

	for _, t := range f.Types {
		if t == "__player__" {
			continue
		}
		if !hasType(c, t) {
			return false
		}
	}
	for _, t := range f.NotTypes {
		if hasType(c, t) {
			return false
		}
	}

	if f.NotSelf && c.InstanceID == controllerID {
		return false
	}
	for _, ex := range f.ExcludeIDs {
		if c.InstanceID == ex {
			return false
		}
	}
	if f.RequireTapped && !c.Tapped {
		return false
	}
	if f.RequireUntapped && c.Tapped {
		return false
	}
	if !matchesControllerType(c.ControllerID, controllerID, gs, f.ControllerType) {
		return false
	}
	return true
}

func hasType(c *model.Card, t string) bool {
	switch t {
	case "Creature":
		return cardutil.IsCreature(c)
	case "Land":
		return cardutil.IsLand(c)
	case "Artifact":
		return cardutil.IsArtifact(c)
	case "Enchantment":
		return cardutil.IsEnchantment(c)
	case "Planeswalker":
		return cardutil.IsPlaneswalker(c)
	case "Battle":
		return cardutil.IsBattle(c)
	case "Instant":
		return cardutil.IsInstant(c)
	case "Sorcery":
		return cardutil.IsSorcery(c)
	default:
		for _, ct := range c.Types {
			if ct == t {
				return true
			}
		}
		return false
	}
}
