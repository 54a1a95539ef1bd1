package model

// StackItemKind mirrors rules.StackItemKind plus the mana-ability and
// delayed-trigger variants the spec calls out; mana abilities never
// actually reach the stack (spec.md §3), the kind exists for completeness
// when reasoning about an ability before it is known to be one.
type StackItemKind string

const (
	StackItemSpell     StackItemKind = "SPELL"
	StackItemActivated StackItemKind = "ACTIVATED"
	StackItemTriggered StackItemKind = "TRIGGERED"
	StackItemDelayed   StackItemKind = "DELAYED"
	StackItemMana      StackItemKind = "MANA" // never pushed; tag only
)

// ResolutionState tracks progress through a (possibly choice-suspended)
// resolution, and accumulates choices made mid-resolution.
type ResolutionState struct {
	Position      int
	ChoicesMade   []ChoiceResult
	ExecutedSteps map[int]bool
}

// MarkExecuted records that resolution step idx has run, so a re-entered
// resolution (after a PendingChoice was answered) does not repeat it.
func (rs *ResolutionState) MarkExecuted(idx int) {
	if rs.ExecutedSteps == nil {
		rs.ExecutedSteps = make(map[int]bool)
	}
	rs.ExecutedSteps[idx] = true
}

// IsExecuted reports whether resolution step idx has already run.
func (rs *ResolutionState) IsExecuted(idx int) bool {
	return rs.ExecutedSteps != nil && rs.ExecutedSteps[idx]
}

// StackItem is the tagged variant covering every object that can occupy
// the stack (spec.md §3's "Stack item"). Kind-specific extras live as
// explicit optional fields rather than a bolted-on map, per spec.md §9.
type StackItem struct {
	ID           string
	SourceID     string
	ControllerID string
	Kind         StackItemKind
	Targets      []string

	Resolution ResolutionState

	// Spell-only.
	FaceIndex    int
	HasFaceIndex bool

	// Activated/triggered-only.
	AbilityID      string
	AbilityText    string
	SelectedModes  []string
	OptionalCost   *OptionalCostDescriptor

	// Triggered/delayed-only.
	TriggerEventSnapshot map[string]string

	// Leaving-the-battlefield / look-back snapshot, populated when the
	// source has left the battlefield before this item resolves (so
	// self-referential effect text can still see the card "as it existed").
	LookBackSnapshot *Card
}

// OptionalCostDescriptor models "you may X. If you do, Y." triggers and
// Ward's non-mana costs, both resolved via a yes/no PendingChoice before
// the conditional effect executes (spec.md §4.7, SPEC_FULL.md §5).
type OptionalCostDescriptor struct {
	CostType        string
	CostDescription string
	Paid            bool
	Answered        bool
}

// DelayedTrigger is a trigger created mid-resolution that fires at a future
// step/phase boundary ("At the beginning of the next end step, ...").
type DelayedTrigger struct {
	ID               string
	SourceCardID     string
	ControllerID     string
	ConditionPhase   string
	ConditionStep    string
	NextOccurrence   bool
	EffectText       string
	Targets          []string
	OneShot          bool
	CreatedAtTurn    int
	CreatedAtStep    string
	Consumed         bool
}
