// Package watchers implements spec.md §4.7's "this turn"/"this game"
// counters: the scoped, event-driven trackers that "whenever you cast
// your second spell" or "the first creature that died this turn" style
// conditions need beyond TriggeredAbilityHandler's stateless matching.
//
// Grounded on the teacher's rules.Watcher/BaseWatcher (internal/rules's
// scoped-tracking idiom) rather than trigger.Manager's stack-building
// role: a watcher only accumulates counts, it never itself produces a
// StackItem.
package watchers

import (
	"github.com/tcgforge/rulesengine/internal/cardutil"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

// SpellsCastWatcher tracks spells cast by players this turn.
type SpellsCastWatcher struct {
	*rules.BaseWatcher
	spellsCast map[string][]string // playerID -> list of spell IDs
}

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	w := &SpellsCastWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		spellsCast:  make(map[string][]string),
	}
	w.SetKey("SpellsCastWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *SpellsCastWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventSpellCast {
		return
	}
	playerID := event.Controller
	if playerID == "" {
		return
	}
	spellID := event.SourceID
	w.spellsCast[playerID] = append(w.spellsCast[playerID], spellID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *SpellsCastWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.spellsCast = make(map[string][]string)
}

// GetSpellsCast returns the list of spell IDs cast by a player this turn.
func (w *SpellsCastWatcher) GetSpellsCast(playerID string) []string {
	return w.spellsCast[playerID]
}

// GetCount returns the number of spells cast by a player this turn.
func (w *SpellsCastWatcher) GetCount(playerID string) int {
	return len(w.spellsCast[playerID])
}

// Copy creates a copy of this watcher.
func (w *SpellsCastWatcher) Copy() rules.Watcher {
	c := NewSpellsCastWatcher()
	c.SetControllerID(w.GetControllerID())
	c.SetSourceID(w.GetSourceID())
	c.SetCondition(w.ConditionMet())
	c.spellsCast = make(map[string][]string, len(w.spellsCast))
	for k, v := range w.spellsCast {
		c.spellsCast[k] = append([]string(nil), v...)
	}
	return c
}

// CreaturesDiedWatcher tracks creatures that died (left the battlefield to
// the graveyard) this turn, keyed both by controller and by owner since
// CR 700 effects reference either depending on the card.
type CreaturesDiedWatcher struct {
	*rules.BaseWatcher
	cards                     map[string]*model.Card
	creaturesDiedByController map[string]int
	creaturesDiedByOwner      map[string]int
}

// NewCreaturesDiedWatcher creates a watcher that resolves dying cards
// against cards, the same live GameState.Cards map the rest of the engine
// shares, so it can tell a creature dying from any other permanent doing
// so.
func NewCreaturesDiedWatcher(cards map[string]*model.Card) *CreaturesDiedWatcher {
	w := &CreaturesDiedWatcher{
		BaseWatcher:               rules.NewBaseWatcher(rules.WatcherScopeGame),
		cards:                     cards,
		creaturesDiedByController: make(map[string]int),
		creaturesDiedByOwner:      make(map[string]int),
	}
	w.SetKey("CreaturesDiedWatcher")
	return w
}

// Watch implements the Watcher interface. It reacts to the same
// EventZoneChange engine.installZoneTracking already subscribes to,
// rather than a dedicated "died" event, since dying is just "left the
// battlefield for the graveyard" (CR 700.4) and nothing else publishes a
// more specific signal.
func (w *CreaturesDiedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventZoneChange {
		return
	}
	if event.Metadata["from_zone"] != model.ZoneBattlefield.String() || event.Metadata["to_zone"] != model.ZoneGraveyard.String() {
		return
	}
	card, ok := w.cards[event.TargetID]
	if !ok || !cardutil.IsCreature(card) {
		return
	}
	w.creaturesDiedByController[card.ControllerID]++
	w.creaturesDiedByOwner[card.OwnerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CreaturesDiedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.creaturesDiedByController = make(map[string]int)
	w.creaturesDiedByOwner = make(map[string]int)
}

// GetAmountByController returns how many creatures controlled by
// controllerID died this turn.
func (w *CreaturesDiedWatcher) GetAmountByController(controllerID string) int {
	return w.creaturesDiedByController[controllerID]
}

// GetAmountByOwner returns how many creatures owned by ownerID died this
// turn.
func (w *CreaturesDiedWatcher) GetAmountByOwner(ownerID string) int {
	return w.creaturesDiedByOwner[ownerID]
}

// GetTotalAmount returns the total number of creatures that died this
// turn.
func (w *CreaturesDiedWatcher) GetTotalAmount() int {
	total := 0
	for _, count := range w.creaturesDiedByController {
		total += count
	}
	return total
}

// Copy creates a copy of this watcher.
func (w *CreaturesDiedWatcher) Copy() rules.Watcher {
	c := NewCreaturesDiedWatcher(w.cards)
	c.SetControllerID(w.GetControllerID())
	c.SetSourceID(w.GetSourceID())
	c.SetCondition(w.ConditionMet())
	for k, v := range w.creaturesDiedByController {
		c.creaturesDiedByController[k] = v
	}
	for k, v := range w.creaturesDiedByOwner {
		c.creaturesDiedByOwner[k] = v
	}
	return c
}

// CardsDrawnWatcher tracks cards drawn by players this turn.
type CardsDrawnWatcher struct {
	*rules.BaseWatcher
	cardsDrawn map[string]int
}

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	w := &CardsDrawnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
		cardsDrawn:  make(map[string]int),
	}
	w.SetKey("CardsDrawnWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *CardsDrawnWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventDrewCard {
		return
	}
	playerID := event.Controller
	if playerID == "" {
		return
	}
	w.cardsDrawn[playerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsDrawnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.cardsDrawn = make(map[string]int)
}

// GetCount returns the number of cards drawn by a player this turn.
func (w *CardsDrawnWatcher) GetCount(playerID string) int {
	return w.cardsDrawn[playerID]
}

// Copy creates a copy of this watcher.
func (w *CardsDrawnWatcher) Copy() rules.Watcher {
	c := NewCardsDrawnWatcher()
	c.SetControllerID(w.GetControllerID())
	c.SetSourceID(w.GetSourceID())
	c.SetCondition(w.ConditionMet())
	for k, v := range w.cardsDrawn {
		c.cardsDrawn[k] = v
	}
	return c
}

// PermanentsEnteredWatcher tracks permanents that entered the battlefield
// under each controller this turn (landfall, "second creature this turn",
// etc.).
type PermanentsEnteredWatcher struct {
	*rules.BaseWatcher
	permanentsEntered map[string][]string
}

// NewPermanentsEnteredWatcher creates a new permanents entered watcher.
func NewPermanentsEnteredWatcher() *PermanentsEnteredWatcher {
	w := &PermanentsEnteredWatcher{
		BaseWatcher:       rules.NewBaseWatcher(rules.WatcherScopeGame),
		permanentsEntered: make(map[string][]string),
	}
	w.SetKey("PermanentsEnteredWatcher")
	return w
}

// Watch implements the Watcher interface, via the same EventZoneChange
// signal CreaturesDiedWatcher reacts to.
func (w *PermanentsEnteredWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventZoneChange || event.Metadata["to_zone"] != model.ZoneBattlefield.String() {
		return
	}
	if event.Controller == "" {
		return
	}
	w.permanentsEntered[event.Controller] = append(w.permanentsEntered[event.Controller], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *PermanentsEnteredWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.permanentsEntered = make(map[string][]string)
}

// GetPermanentsEntered returns the permanent IDs that entered under
// controllerID this turn.
func (w *PermanentsEnteredWatcher) GetPermanentsEntered(controllerID string) []string {
	return w.permanentsEntered[controllerID]
}

// Copy creates a copy of this watcher.
func (w *PermanentsEnteredWatcher) Copy() rules.Watcher {
	c := NewPermanentsEnteredWatcher()
	c.SetControllerID(w.GetControllerID())
	c.SetSourceID(w.GetSourceID())
	c.SetCondition(w.ConditionMet())
	for k, v := range w.permanentsEntered {
		c.permanentsEntered[k] = append([]string(nil), v...)
	}
	return c
}

// GameWatchers bundles the four turn-scoped watchers a game needs and
// subscribes them to a GameState's event bus as a unit.
type GameWatchers struct {
	SpellsCast        *SpellsCastWatcher
	CreaturesDied     *CreaturesDiedWatcher
	CardsDrawn        *CardsDrawnWatcher
	PermanentsEntered *PermanentsEnteredWatcher
}

// Install creates a GameWatchers bound to gs and subscribes every watcher
// to gs.Events so each updates as the game runs.
func Install(gs *model.GameState) *GameWatchers {
	gw := &GameWatchers{
		SpellsCast:        NewSpellsCastWatcher(),
		CreaturesDied:     NewCreaturesDiedWatcher(gs.Cards),
		CardsDrawn:        NewCardsDrawnWatcher(),
		PermanentsEntered: NewPermanentsEnteredWatcher(),
	}
	all := []rules.Watcher{gw.SpellsCast, gw.CreaturesDied, gw.CardsDrawn, gw.PermanentsEntered}
	for _, w := range all {
		w := w
		gs.Events.Subscribe(func(event rules.Event) { w.Watch(event) })
	}
	gs.Events.SubscribeTyped(rules.EventCleanupStepPre, func(rules.Event) { gw.ResetAll() })
	return gw
}

// ResetAll clears every watcher's turn-scoped state, called at cleanup
// (CR 514.2's "until end of turn" expiring along with everything else).
func (gw *GameWatchers) ResetAll() {
	gw.SpellsCast.Reset()
	gw.CreaturesDied.Reset()
	gw.CardsDrawn.Reset()
	gw.PermanentsEntered.Reset()
}
