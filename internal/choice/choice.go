// Package choice implements spec.md's ChoiceHandler: it presents a
// PendingChoice on the GameState, validates a player's ChoiceResult against
// its constraints, and resolves it — which, for choices tied to a stack
// item (an optional cost or a mode selection), means recording the answer
// in that item's ResolutionState so its resolution can continue.
//
// Grounded on model/choice.go's PendingChoice/ChoiceConstraints (the
// spec's tagged-variant choice shape) and the teacher's engineerr package
// for the validation error taxonomy.
package choice

import (
	"github.com/google/uuid"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/model"
)

// NewYesNo builds a yes/no PendingChoice, used for optional costs ("you may
// X. If you do, Y.") and Ward's non-mana payment prompt.
func NewYesNo(sourceStackID, sourceCardID, sourceCardName, choosingPlayerID, prompt string) *model.PendingChoice {
	return &model.PendingChoice{
		ID:               uuid.NewString(),
		SourceStackID:    sourceStackID,
		SourceCardID:     sourceCardID,
		SourceCardName:   sourceCardName,
		ChoosingPlayerID: choosingPlayerID,
		Type:             model.ChoiceYesNo,
		Prompt:           prompt,
		Options:          []string{"yes", "no"},
	}
}

// NewTargetSelection builds a PendingChoice asking the player to pick
// between min and max IDs out of candidates (e.g. a "choose one" target
// clarification or a divide-damage assignment).
func NewTargetSelection(sourceStackID, sourceCardID, choosingPlayerID, prompt string, candidates []string, min, max int) *model.PendingChoice {
	return &model.PendingChoice{
		ID:               uuid.NewString(),
		SourceStackID:    sourceStackID,
		SourceCardID:     sourceCardID,
		ChoosingPlayerID: choosingPlayerID,
		Type:             model.ChoiceTargetSelection,
		Prompt:           prompt,
		SelectableIDs:    candidates,
		Constraints:      model.ChoiceConstraints{MinCount: min, MaxCount: max},
	}
}

// NewModeSelection builds a PendingChoice for a spell or ability with
// multiple modes ("choose one —").
func NewModeSelection(sourceStackID, sourceCardID, choosingPlayerID, prompt string, options []string, count int) *model.PendingChoice {
	return &model.PendingChoice{
		ID:               uuid.NewString(),
		SourceStackID:    sourceStackID,
		SourceCardID:     sourceCardID,
		ChoosingPlayerID: choosingPlayerID,
		Type:             model.ChoiceModeSelection,
		Prompt:           prompt,
		Options:          options,
		Constraints:      model.ChoiceConstraints{ExactCount: count, HasExact: true},
	}
}

// NewCardSelection builds a PendingChoice asking the player to pick from a
// revealed or visible set of cards (e.g. a search or a discard selection).
func NewCardSelection(sourceStackID, sourceCardID, choosingPlayerID, prompt string, revealed []string, min, max int) *model.PendingChoice {
	return &model.PendingChoice{
		ID:               uuid.NewString(),
		SourceStackID:    sourceStackID,
		SourceCardID:     sourceCardID,
		ChoosingPlayerID: choosingPlayerID,
		Type:             model.ChoiceCardSelection,
		Prompt:           prompt,
		RevealedCards:    revealed,
		SelectableIDs:    revealed,
		Constraints:      model.ChoiceConstraints{MinCount: min, MaxCount: max},
	}
}

// Present installs c as the GameState's single active choice. Only one may
// be active at a time (spec.md §3); a caller that needs to present another
// while one is pending should wait for Resolve to clear it first.
func Present(gs *model.GameState, c *model.PendingChoice) error {
	if gs.PendingChoice != nil {
		return engineerr.EngineInvariant("a choice is already pending: %s", gs.PendingChoice.ID)
	}
	gs.PendingChoice = c
	return nil
}

// Resolve validates result against the active PendingChoice's constraints,
// records it on the originating stack item (if any) so resolution can
// continue past the suspension point, clears the active choice, and
// returns the choice that was answered.
func Resolve(gs *model.GameState, result model.ChoiceResult) (*model.PendingChoice, error) {
	c := gs.PendingChoice
	if c == nil {
		return nil, engineerr.IllegalAction("no choice is pending")
	}
	if result.ChoiceID != c.ID {
		return nil, engineerr.InvalidChoice("choice result %s does not match pending choice %s", result.ChoiceID, c.ID)
	}
	if result.PlayerID != c.ChoosingPlayerID {
		return nil, engineerr.IllegalAction("player %s may not answer a choice presented to %s", result.PlayerID, c.ChoosingPlayerID)
	}
	if err := validate(c, result); err != nil {
		return nil, err
	}

	if c.SourceStackID != "" {
		for _, item := range gs.Stack {
			if item.ID == c.SourceStackID {
				item.Resolution.ChoicesMade = append(item.Resolution.ChoicesMade, result)
				break
			}
		}
	}

	gs.PendingChoice = nil
	return c, nil
}

func validate(c *model.PendingChoice, result model.ChoiceResult) error {
	switch c.Type {
	case model.ChoiceYesNo:
		if result.Skipped {
			return nil
		}
		if result.Option != "yes" && result.Option != "no" {
			return engineerr.InvalidChoice("yes/no choice requires option \"yes\" or \"no\", got %q", result.Option)
		}
		return nil
	case model.ChoiceModeSelection:
		if c.Constraints.HasExact && len(result.SelectedIDs) != c.Constraints.ExactCount {
			return engineerr.InvalidChoice("mode choice requires exactly %d selection(s), got %d", c.Constraints.ExactCount, len(result.SelectedIDs))
		}
		for _, sel := range result.SelectedIDs {
			if !contains(c.Options, sel) {
				return engineerr.InvalidChoice("%q is not one of the offered modes", sel)
			}
		}
		return nil
	case model.ChoiceTargetSelection, model.ChoiceCardSelection:
		if result.Skipped {
			if c.Constraints.MinCount > 0 {
				return engineerr.InvalidChoice("choice requires at least %d selection(s) and cannot be skipped", c.Constraints.MinCount)
			}
			return nil
		}
		n := len(result.SelectedIDs)
		if n < c.Constraints.MinCount || (c.Constraints.MaxCount > 0 && n > c.Constraints.MaxCount) {
			return engineerr.InvalidChoice("choice requires between %d and %d selection(s), got %d", c.Constraints.MinCount, c.Constraints.MaxCount, n)
		}
		for _, sel := range result.SelectedIDs {
			if !contains(c.SelectableIDs, sel) {
				return engineerr.InvalidChoice("%q is not a legal selection for this choice", sel)
			}
		}
		return nil
	default:
		return engineerr.EngineInvariant("unknown choice type %q", c.Type)
	}
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
