// Package trigger implements spec.md §4.7's TriggeredAbilityHandler: it
// watches the event bus for the conditions abilityparser extracted from
// oracle text, builds stack items for the ones that fire, and orders
// simultaneous triggers APNAP (active player, then non-active player, in
// turn order) per CR 603.3b.
//
// Grounded on the teacher's rules.TriggerManager/rules.EventBus (the
// condition/callback shape) and rules/watcher.go's WatcherRegistry (the
// scoped-tracking idiom reused here for delayed triggers). The teacher's
// rules.StackItem is not reused — triggers here build model.StackItem
// directly, since that is the tagged variant the live game stack holds.
package trigger

import (
	"sort"
	"strings"
	"sync"

	"github.com/tcgforge/rulesengine/internal/abilityparser"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

// definition is a single triggered ability registered against a permanent,
// paired with the parsed condition that decides when it fires.
type definition struct {
	SourceID     string
	ControllerID string
	Ability      abilityparser.ParsedAbility
}

// Manager tracks every triggered ability currently in play and turns
// matching events into stack items.
type Manager struct {
	mu   sync.Mutex
	defs map[string][]definition // sourceID -> its triggered abilities
}

// NewManager creates an empty trigger manager.
func NewManager() *Manager {
	return &Manager{defs: make(map[string][]definition)}
}

// Install subscribes the manager to every event type a trigger keyword can
// map to. Call once per game.
func (m *Manager) Install(gs *model.GameState) {
	for _, et := range watchedEventTypes {
		et := et
		gs.Events.SubscribeTyped(et, func(event rules.Event) {
			m.handleEvent(gs, event)
		})
	}
}

// watchedEventTypes lists every EventType classifyTrigger's keywords can
// resolve to (internal/abilityparser.go's classifyTrigger).
var watchedEventTypes = []rules.EventType{
	rules.EventZoneChange,
	rules.EventSpellCast,
	rules.EventCombatDamageApplied,
	rules.EventDamagedPlayer,
	rules.EventAttackerDeclared,
	rules.EventBlockerDeclared,
	rules.EventCreatureBlocked,
	rules.EventUpkeepStepPre,
	rules.EventEndTurnStepPre,
}

// keywordEventTypes maps a TriggerCondition.EventKeyword to the event types
// that can satisfy it.
var keywordEventTypes = map[string][]rules.EventType{
	"enters":          {rules.EventZoneChange},
	"leaves":          {rules.EventZoneChange},
	"dies":            {rules.EventZoneChange},
	"cast":            {rules.EventSpellCast},
	"damage":          {rules.EventCombatDamageApplied, rules.EventDamagedPlayer},
	"attacks":         {rules.EventAttackerDeclared},
	"becomes-blocked": {rules.EventCreatureBlocked},
	"blocks":          {rules.EventBlockerDeclared},
	"upkeep":          {rules.EventUpkeepStepPre},
	"end-step":        {rules.EventEndTurnStepPre},
}

// RegisterAbilities records source's triggered abilities so future events
// can fire them. Called whenever a permanent enters the battlefield.
func (m *Manager) RegisterAbilities(sourceID, controllerID string, abilities []abilityparser.ParsedAbility) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var triggered []definition
	for _, a := range abilities {
		if a.Kind != abilityparser.KindTriggered || a.Trigger == nil {
			continue
		}
		triggered = append(triggered, definition{SourceID: sourceID, ControllerID: controllerID, Ability: a})
	}
	if len(triggered) > 0 {
		m.defs[sourceID] = triggered
	}
}

// Unregister drops a permanent's triggered abilities, e.g. once its
// leaves-the-battlefield triggers (if any) have already fired.
func (m *Manager) Unregister(sourceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.defs, sourceID)
}

// firing is a trigger that matched an event and is ready to become a stack
// item, pending APNAP ordering against its simultaneous siblings.
type firing struct {
	def   definition
	event rules.Event
}

func (m *Manager) handleEvent(gs *model.GameState, event rules.Event) {
	m.mu.Lock()
	var fires []firing
	for _, defs := range m.defs {
		for _, d := range defs {
			if !matches(d.Ability.Trigger.EventKeyword, event) {
				continue
			}
			if !controllerFilterSatisfied(d, event) {
				continue
			}
			if min, _ := abilityparser.ParseTargetCount(d.Ability.EffectText); min > 0 && !hasLegalTarget(gs, d) {
				continue
			}
			fires = append(fires, firing{def: d, event: event})
		}
	}
	m.mu.Unlock()

	if len(fires) == 0 {
		return
	}
	for _, item := range orderAPNAP(gs, fires) {
		if snapshot, ok := gs.LookBackSnapshots[item.SourceID]; ok {
			item.LookBackSnapshot = snapshot
		}
		gs.PushStack(item)
	}
	for _, f := range fires {
		delete(gs.LookBackSnapshots, f.def.SourceID)
	}
}

func matches(keyword string, event rules.Event) bool {
	types, ok := keywordEventTypes[keyword]
	if !ok {
		return false
	}
	for _, t := range types {
		if t != event.Type {
			continue
		}
		switch keyword {
		case "enters":
			return event.Metadata["to_zone"] == "BATTLEFIELD"
		case "leaves":
			return event.Metadata["from_zone"] == "BATTLEFIELD" && event.Metadata["to_zone"] != "BATTLEFIELD"
		case "dies":
			return event.Metadata["from_zone"] == "BATTLEFIELD" && event.Metadata["to_zone"] == "GRAVEYARD"
		default:
			return true
		}
	}
	return false
}

// controllerFilterSatisfied checks the "you control" / "an opponent
// controls" / "another ... you control" phrasing in the raw trigger text
// against the event's subject, falling back to true when the ability text
// names no controller restriction.
func controllerFilterSatisfied(d definition, event rules.Event) bool {
	raw := strings.ToLower(d.Ability.Trigger.RawText)
	subjectController := event.Controller
	if subjectController == "" {
		subjectController = event.PlayerID
	}

	switch {
	case strings.Contains(raw, "an opponent controls") || strings.Contains(raw, "opponent controls"):
		return subjectController != "" && subjectController != d.ControllerID
	case strings.Contains(raw, "you control"):
		return subjectController == d.ControllerID
	case strings.Contains(raw, "another"):
		return event.TargetID != d.SourceID
	default:
		return true
	}
}

// hasLegalTarget is a conservative check: a triggered ability requiring a
// target is suppressed only when no permanent on the battlefield can be
// aimed at (CR 603.3c); players and cards in other zones are not
// considered. Opposing permanents with hexproof or shroud are skipped, the
// same way a spell's targeting would skip them.
func hasLegalTarget(gs *model.GameState, d definition) bool {
	for _, c := range gs.Cards {
		if c.Zone != model.ZoneBattlefield {
			continue
		}
		if c.ControllerID != d.ControllerID && (c.HasKeyword("hexproof") || c.HasKeyword("shroud")) {
			continue
		}
		return true
	}
	return false
}

// orderAPNAP groups simultaneous firings by controller and returns the
// stack items in the order they must be pushed: the active player's
// triggers first (so they resolve last), then each other player's in turn
// order, per CR 603.3b. Within one player's group, order is stable by
// source+ability so repeated runs are deterministic.
func orderAPNAP(gs *model.GameState, fires []firing) []*model.StackItem {
	sort.SliceStable(fires, func(i, j int) bool {
		return fires[i].def.SourceID+fires[i].def.Ability.ID < fires[j].def.SourceID+fires[j].def.Ability.ID
	})

	order := turnOrderFrom(gs)
	grouped := make(map[string][]firing)
	for _, f := range fires {
		grouped[f.def.ControllerID] = append(grouped[f.def.ControllerID], f)
	}

	var items []*model.StackItem
	for _, playerID := range order {
		for _, f := range grouped[playerID] {
			items = append(items, buildStackItem(f))
		}
	}
	return items
}

// turnOrderFrom returns player IDs starting with the active player, so that
// group is appended to the result first.
func turnOrderFrom(gs *model.GameState) []string {
	if len(gs.PlayerOrder) == 0 {
		return nil
	}
	idx := 0
	for i, id := range gs.PlayerOrder {
		if id == gs.ActivePlayerID {
			idx = i
			break
		}
	}
	ordered := make([]string, 0, len(gs.PlayerOrder))
	for i := range gs.PlayerOrder {
		ordered = append(ordered, gs.PlayerOrder[(idx+i)%len(gs.PlayerOrder)])
	}
	return ordered
}

func buildStackItem(f firing) *model.StackItem {
	item := &model.StackItem{
		ID:           f.def.SourceID + ":trigger:" + f.def.Ability.ID,
		SourceID:     f.def.SourceID,
		ControllerID: f.def.ControllerID,
		Kind:         model.StackItemTriggered,
		AbilityID:    f.def.Ability.ID,
		AbilityText:  f.def.Ability.EffectText,
		TriggerEventSnapshot: map[string]string{
			"event_type": string(f.event.Type),
			"target_id":  f.event.TargetID,
			"source_id":  f.event.SourceID,
			"controller": f.event.Controller,
		},
	}
	if f.def.Ability.OptionalCost != nil {
		item.OptionalCost = &model.OptionalCostDescriptor{
			CostType:        "optional",
			CostDescription: f.def.Ability.OptionalCost.CostDescription,
		}
	}
	return item
}

// ScheduleDelayed stores a delayed trigger ("at the beginning of the next
// end step, ...") for the phase manager to consult at step boundaries.
func ScheduleDelayed(gs *model.GameState, dt *model.DelayedTrigger) {
	gs.DelayedTriggers = append(gs.DelayedTriggers, dt)
}

// FireDelayed consumes every non-one-shot-exhausted delayed trigger whose
// condition matches the current phase/step and returns the stack items they
// produce, in registration order.
func FireDelayed(gs *model.GameState, phase, step string) []*model.StackItem {
	var items []*model.StackItem
	remaining := gs.DelayedTriggers[:0]
	for _, dt := range gs.DelayedTriggers {
		if dt.Consumed {
			continue
		}
		if dt.ConditionPhase != "" && dt.ConditionPhase != phase {
			remaining = append(remaining, dt)
			continue
		}
		if dt.ConditionStep != "" && dt.ConditionStep != step {
			remaining = append(remaining, dt)
			continue
		}
		items = append(items, &model.StackItem{
			ID:           dt.ID + ":delayed",
			SourceID:     dt.SourceCardID,
			ControllerID: dt.ControllerID,
			Kind:         model.StackItemDelayed,
			Targets:      dt.Targets,
			AbilityText:  dt.EffectText,
		})
		if !dt.OneShot {
			dt.Consumed = false
			remaining = append(remaining, dt)
		} else {
			dt.Consumed = true
		}
	}
	gs.DelayedTriggers = remaining
	return items
}
