// Package action implements spec.md §4.3's ActionHandler: zone transitions,
// casting/playing/activating, pushing the stack, and resolving its top
// item. It is grounded on the teacher's mage_engine.go method set (read
// for signatures before the monolith was retired) and on the rules
// subpackage's PaymentWindowManager/SpecialActionManager/
// ManaAbilityActivationContext, which it drives directly instead of
// reimplementing staged-payment bookkeeping from scratch.
package action

import (
	"github.com/tcgforge/rulesengine/internal/abilityparser"
	"github.com/tcgforge/rulesengine/internal/cardutil"
	"github.com/tcgforge/rulesengine/internal/choice"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/mana"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
	"github.com/tcgforge/rulesengine/internal/targeting"
)

// Handler carries the per-engine managers ActionHandler delegates to for
// staged cost payment and special-action legality, plus the mana-ability
// re-entrancy guard shared with AbilityParser-classified mana abilities.
type Handler struct {
	Payments     *rules.PaymentWindowManager
	SpecialActs  *rules.SpecialActionManager
	ManaAbility  *rules.ManaAbilityActivationContext
}

// NewHandler wires fresh instances of the teacher's payment/special-action/
// mana-ability managers into a Handler.
func NewHandler() *Handler {
	return &Handler{
		Payments:    rules.NewPaymentWindowManager(),
		SpecialActs: rules.NewSpecialActionManager(),
		ManaAbility: rules.NewManaAbilityActivationContext(),
	}
}

// PlayLand implements spec.md §4.3's playLand. Land plays are a special
// action (Rule 116.2a): no stack, no priority pass, just main-phase and
// empty-stack legality plus the once-per-turn budget.
func (h *Handler) PlayLand(gs *model.GameState, playerID, cardID string) error {
	player, ok := gs.Player(playerID)
	if !ok {
		return engineerr.NotFound("player %q not found", playerID)
	}
	if gs.PriorityPlayerID != playerID {
		return engineerr.IllegalAction("player %q does not have priority", playerID)
	}
	if len(gs.Stack) != 0 {
		return engineerr.IllegalAction("cannot play a land with a non-empty stack")
	}
	if gs.Phase != rules.PhasePrecombatMain && gs.Phase != rules.PhasePostcombatMain {
		return engineerr.IllegalAction("lands can only be played in a main phase")
	}
	if gs.LandsPlayedThisTurn[playerID] >= 1 {
		return engineerr.IllegalAction("player %q has already played a land this turn", playerID)
	}
	card, ok := gs.Card(cardID)
	if !ok {
		return engineerr.NotFound("card %q not found", cardID)
	}
	if card.Zone != model.ZoneHand || card.OwnerID != playerID {
		return engineerr.IllegalAction("card %q is not in %q's hand", cardID, playerID)
	}
	if !cardutil.IsLand(card) {
		return engineerr.IllegalAction("card %q is not a land", cardID)
	}

	MoveCardToZone(gs, card, model.ZoneBattlefield, false, nil)
	gs.LandsPlayedThisTurn[playerID]++
	player.HasPassed = false
	gs.ResetPassed()
	gs.PriorityPlayerID = playerID
	gs.Events.Publish(rules.NewEvent(rules.EventZoneChange, cardID, cardID, playerID))
	return nil
}

// CastSpell implements spec.md §4.3's castSpell. Mana is paid up front via
// PayManaCost; the card moves to the stack zone and a spell StackItem is
// pushed with resolution priority returning to the caster.
func (h *Handler) CastSpell(gs *model.GameState, playerID, cardID string, targets []string, faceIndex int, hasFace bool) error {
	player, ok := gs.Player(playerID)
	if !ok {
		return engineerr.NotFound("player %q not found", playerID)
	}
	if gs.PriorityPlayerID != playerID {
		return engineerr.IllegalAction("player %q does not have priority", playerID)
	}
	card, ok := gs.Card(cardID)
	if !ok {
		return engineerr.NotFound("card %q not found", cardID)
	}
	if card.Zone != model.ZoneHand && card.Zone != model.ZoneCommand {
		return engineerr.IllegalAction("card %q must be cast from hand or command zone", cardID)
	}
	if cardutil.IsLand(card) {
		return engineerr.IllegalAction("lands cannot be cast, use playLand")
	}

	face := card.ActiveFace()
	if req := targeting.ParseRequirement(face.OracleText); req != nil {
		if err := targeting.Validate(gs, playerID, *req, targets); err != nil {
			return err
		}
	}
	sorcerySpeed := !cardutil.IsInstant(card) && !card.HasKeyword("flash")
	if sorcerySpeed {
		if playerID != gs.ActivePlayerID {
			return engineerr.IllegalAction("sorcery-speed spells require the active player")
		}
		if gs.Phase != rules.PhasePrecombatMain && gs.Phase != rules.PhasePostcombatMain {
			return engineerr.IllegalAction("sorcery-speed spells require a main phase")
		}
		if len(gs.Stack) != 0 {
			return engineerr.IllegalAction("sorcery-speed spells require an empty stack")
		}
	}

	if err := PayManaCost(player, face.ManaCost); err != nil {
		return err
	}

	card.Zone = model.ZoneStack
	card.Position.Z = gs.NextZ()
	if hasFace {
		card.FaceIndex = faceIndex
		card.HasFaceIndex = true
	}

	item := &model.StackItem{
		ID:           idFor(card),
		SourceID:     cardID,
		ControllerID: playerID,
		Kind:         model.StackItemSpell,
		Targets:      targets,
		FaceIndex:    faceIndex,
		HasFaceIndex: hasFace,
	}
	gs.PushStack(item)

	evaluateWardTriggers(gs, item, playerID, targets)

	gs.ResetPassed()
	gs.PriorityPlayerID = playerID
	gs.Events.Publish(rules.NewEvent(rules.EventSpellCast, cardID, cardID, playerID))
	return nil
}

// evaluateWardTriggers presents ward's non-mana cost as a yes/no
// PendingChoice for the first opponent-controlled targeted permanent with
// Ward, recording the pending ward on the spell's own StackItem
// (SPEC_FULL.md §5's decision for the spec's open question on Ward's
// non-mana costs: declining counters the spell). The engine never blocks
// on a PendingChoice (spec.md §4.1), so the answer is read back out of
// item.Resolution.ChoicesMade by resolveSpell once ResolveChoice has run;
// only the first such Ward is presented, since at most one PendingChoice
// may be active at a time and the rest would have to queue behind it.
func evaluateWardTriggers(gs *model.GameState, item *model.StackItem, casterID string, targets []string) {
	for _, tid := range targets {
		target, ok := gs.Card(tid)
		if !ok || !target.HasKeyword("ward") || target.ControllerID == casterID {
			continue
		}
		c := choice.NewYesNo(item.ID, item.SourceID, item.SourceID, casterID,
			"Pay "+target.InstanceID+"'s ward cost or have this spell countered?")
		if err := choice.Present(gs, c); err != nil {
			continue
		}
		item.OptionalCost = &model.OptionalCostDescriptor{CostType: "ward", CostDescription: target.InstanceID}
		return
	}
}

// PayManaCost parses costStr and spends it from player's pool, preferring
// colored matches for colored symbols and generic/any for generic
// (spec.md §4.4). Returns InsufficientResources and leaves the pool
// untouched on failure.
func PayManaCost(player *model.Player, costStr string) error {
	cost, err := mana.ParseCost(costStr)
	if err != nil {
		return engineerr.IllegalAction("unparseable mana cost %q: %v", costStr, err)
	}
	pool := player.ManaPool
	snapshot := pool.Copy()
	restore := func() { pool.RestoreFrom(snapshot) }

	colored := []struct {
		n int
		t mana.ManaType
	}{
		{cost.White, mana.ManaWhite}, {cost.Blue, mana.ManaBlue}, {cost.Black, mana.ManaBlack},
		{cost.Red, mana.ManaRed}, {cost.Green, mana.ManaGreen}, {cost.Colorless, mana.ManaColorless},
	}
	for _, c := range colored {
		for i := 0; i < c.n; i++ {
			if !pool.Spend(c.t, 1) {
				restore()
				return engineerr.InsufficientResources("not enough %s mana to pay %q", c.t, costStr)
			}
		}
	}
	generic := cost.Generic
	for generic > 0 {
		spent := false
		for _, t := range []mana.ManaType{mana.ManaColorless, mana.ManaWhite, mana.ManaBlue, mana.ManaBlack, mana.ManaRed, mana.ManaGreen} {
			if pool.Spend(t, 1) {
				spent = true
				break
			}
		}
		if !spent {
			restore()
			return engineerr.InsufficientResources("not enough mana to pay generic cost of %q", costStr)
		}
		generic--
	}
	return nil
}

// addManaFromAbility adds the mana described by a mana ability's effect
// text (e.g. "Add {G}.", "Add {C}{C}.") to player's pool. It reuses
// mana.ParseCost's {symbol} scanning rather than duplicating it, since a
// mana ability's "Add ..." line uses the same curly-brace symbols as a
// cost string. Effect text with no recognized symbols (an "any color"
// ability, for example) adds nothing; ParsedAbility carries no structured
// color/amount field to fall back on.
func addManaFromAbility(player *model.Player, effectText string) {
	produced, err := mana.ParseCost(effectText)
	if err != nil {
		return
	}
	colored := []struct {
		n int
		t mana.ManaType
	}{
		{produced.White, mana.ManaWhite}, {produced.Blue, mana.ManaBlue}, {produced.Black, mana.ManaBlack},
		{produced.Red, mana.ManaRed}, {produced.Green, mana.ManaGreen}, {produced.Colorless, mana.ManaColorless},
	}
	for _, c := range colored {
		if c.n > 0 {
			player.ManaPool.Add(c.t, c.n)
		}
	}
	if produced.Generic > 0 {
		player.ManaPool.Add(mana.ManaGeneric, produced.Generic)
	}
}

// MoveCardToZone is the sole zone-transition primitive (spec.md §4.3). It
// clears battlefield memory on leaving play, resets characteristics from
// the chosen face on entering play, detaches dependents, and assigns a
// fresh z-order.
func MoveCardToZone(gs *model.GameState, card *model.Card, toZone model.Zone, faceDown bool, faceIndex *int) *model.Card {
	fromZone := card.Zone
	if fromZone == model.ZoneBattlefield && toZone != model.ZoneBattlefield {
		gs.LookBackSnapshots[card.InstanceID] = SnapshotForLookBack(card)
	}
	for _, other := range gs.Cards {
		if other.HasAttachedTo && other.AttachedTo == card.InstanceID {
			other.AttachedTo = ""
			other.HasAttachedTo = false
		}
	}

	card.Zone = toZone
	card.FaceDown = faceDown
	if faceIndex != nil {
		card.FaceIndex = *faceIndex
		card.HasFaceIndex = true
	}
	card.Position.Z = gs.NextZ()

	if toZone != model.ZoneBattlefield {
		card.ResetMemory()
	} else {
		card.ControlledSinceTurn = gs.TurnCount
		if card.Definition != nil {
			// resetCharacteristicsFromDefinition runs inside ResetMemory,
			// but entering the battlefield also needs it even though memory
			// was already clear (e.g. a freshly cast spell resolving).
			card.ResetMemory()
			card.ControlledSinceTurn = gs.TurnCount
		}
	}

	zoneEvent := rules.NewEvent(rules.EventZoneChange, card.InstanceID, card.InstanceID, card.ControllerID)
	zoneEvent.Metadata["from_zone"] = fromZone.String()
	zoneEvent.Metadata["to_zone"] = toZone.String()
	gs.Events.Publish(zoneEvent)
	return card
}

// SnapshotForLookBack copies a card's current state before it leaves the
// battlefield, for callers (death/LTB trigger detection) that need to read
// the permanent "as it existed" an instant before the move (CR 603.10a).
func SnapshotForLookBack(card *model.Card) *model.Card {
	cp := *card
	return &cp
}

func idFor(card *model.Card) string {
	return card.InstanceID + ":stack"
}

// DrawCard moves the top card of playerID's library to their hand. The top
// of the library is the card with the highest Position.Z among that
// player's library cards, matching the monotonic stacking order
// MoveCardToZone assigns from GameState.NextZ. Drawing from an empty
// library does not move any card; it marks the player as having lost
// outright (CR 104.3c, 704.5a covers the life/poison cases in sba.Run, but
// the empty-library loss is applied here at the moment of the draw).
func DrawCard(gs *model.GameState, playerID string) (*model.Card, error) {
	player, ok := gs.Player(playerID)
	if !ok {
		return nil, engineerr.NotFound("player %q not found", playerID)
	}

	var top *model.Card
	for _, c := range gs.Cards {
		if c.OwnerID != playerID || c.Zone != model.ZoneLibrary {
			continue
		}
		if top == nil || c.Position.Z > top.Position.Z {
			top = c
		}
	}
	if top == nil {
		player.Lost = true
		return nil, engineerr.EngineInvariant("player %q has no cards left to draw", playerID)
	}

	MoveCardToZone(gs, top, model.ZoneHand, false, nil)
	gs.Events.Publish(rules.NewEvent(rules.EventDrewCard, top.InstanceID, top.InstanceID, playerID))
	return top, nil
}

// ActivateAbility implements spec.md §4.3's activateAbility. Mana
// abilities resolve immediately and never touch the stack; loyalty
// abilities are restricted to sorcery speed, empty stack, the active
// player, and once per planeswalker per turn; all other activated
// abilities pay costs then push a StackItem.
func (h *Handler) ActivateAbility(gs *model.GameState, playerID, sourceID string, ability *abilityparser.ParsedAbility, targets []string) error {
	source, ok := gs.Card(sourceID)
	if !ok {
		return engineerr.NotFound("source %q not found", sourceID)
	}
	if source.ControllerID != playerID {
		return engineerr.IllegalAction("player %q does not control %q", playerID, sourceID)
	}

	if ability.TargetRequirement != nil {
		if err := targeting.Validate(gs, playerID, *ability.TargetRequirement, targets); err != nil {
			return err
		}
	}

	if ability.IsLoyaltyAbility {
		return h.activateLoyaltyAbility(gs, playerID, source, ability, targets)
	}

	if gs.PriorityPlayerID != playerID {
		return engineerr.IllegalAction("player %q does not have priority", playerID)
	}

	if err := h.payCost(gs, playerID, source, ability.Cost); err != nil {
		return err
	}

	if ability.IsManaAbility {
		if !h.ManaAbility.CanActivate(sourceID) {
			return engineerr.IllegalAction("mana ability %q is already resolving", sourceID)
		}
		if err := h.ManaAbility.BeginActivation(sourceID); err != nil {
			return engineerr.IllegalAction("%v", err)
		}
		defer h.ManaAbility.EndActivation(sourceID)
		player, ok := gs.Player(playerID)
		if !ok {
			return engineerr.NotFound("player %q not found", playerID)
		}
		addManaFromAbility(player, ability.EffectText)
		gs.Events.Publish(rules.NewEvent(rules.EventManaAdded, sourceID, sourceID, playerID))
		return nil
	}

	item := &model.StackItem{
		ID:           sourceID + ":activated:" + nextSuffix(gs),
		SourceID:     sourceID,
		ControllerID: playerID,
		Kind:         model.StackItemActivated,
		Targets:      targets,
		AbilityText:  ability.Text,
	}
	gs.PushStack(item)
	gs.ResetPassed()
	gs.PriorityPlayerID = playerID
	return nil
}

func (h *Handler) activateLoyaltyAbility(gs *model.GameState, playerID string, source *model.Card, ability *abilityparser.ParsedAbility, targets []string) error {
	if playerID != gs.ActivePlayerID {
		return engineerr.IllegalAction("loyalty abilities require the active player")
	}
	if len(gs.Stack) != 0 {
		return engineerr.IllegalAction("loyalty abilities require an empty stack")
	}
	if gs.Phase != rules.PhasePrecombatMain && gs.Phase != rules.PhasePostcombatMain {
		return engineerr.IllegalAction("loyalty abilities require a main phase")
	}
	player, ok := gs.Player(playerID)
	if !ok {
		return engineerr.NotFound("player %q not found", playerID)
	}
	if player.LoyaltyActivatedThisTurn[source.InstanceID] {
		return engineerr.IllegalAction("only one loyalty ability per planeswalker per turn")
	}
	delta := ability.Cost.LoyaltyDelta
	if delta < 0 && source.Loyalty < -delta {
		return engineerr.InsufficientResources("not enough loyalty on %q to activate", source.InstanceID)
	}
	source.Loyalty += delta
	player.LoyaltyActivatedThisTurn[source.InstanceID] = true

	item := &model.StackItem{
		ID: source.InstanceID + ":loyalty:" + nextSuffix(gs), SourceID: source.InstanceID,
		ControllerID: playerID, Kind: model.StackItemActivated, Targets: targets, AbilityText: ability.Text,
	}
	gs.PushStack(item)
	gs.ResetPassed()
	gs.PriorityPlayerID = playerID
	return nil
}

func (h *Handler) payCost(gs *model.GameState, playerID string, source *model.Card, cost *abilityparser.Cost) error {
	if cost == nil {
		return nil
	}
	if cost.Tap {
		if source.Tapped {
			return engineerr.IllegalAction("%q is already tapped", source.InstanceID)
		}
		source.Tapped = true
	}
	if cost.Untap {
		source.Tapped = false
	}
	if cost.ManaCost != "" {
		player, ok := gs.Player(playerID)
		if !ok {
			return engineerr.NotFound("player %q not found", playerID)
		}
		if err := PayManaCost(player, cost.ManaCost); err != nil {
			if cost.Tap {
				source.Tapped = false
			}
			return err
		}
	}
	if cost.HasPayLife {
		player, ok := gs.Player(playerID)
		if !ok {
			return engineerr.NotFound("player %q not found", playerID)
		}
		if player.Life < cost.PayLife {
			return engineerr.InsufficientResources("not enough life to pay %d", cost.PayLife)
		}
		player.Life -= cost.PayLife
	}
	if cost.HasSacrifice {
		MoveCardToZone(gs, source, model.ZoneGraveyard, false, nil)
	}
	return nil
}

func nextSuffix(gs *model.GameState) string {
	return itoa(gs.NextZ())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// ResolveTopStack implements spec.md §4.3's resolveTopStack: pops the top
// item and dispatches by kind. Permanents move to the battlefield; auras
// that fail their target-legality check fizzle to the graveyard;
// non-permanent spells delegate to effectresolver and then move to the
// graveyard. Activated/triggered items delegate directly.
func ResolveTopStack(gs *model.GameState, resolveEffect func(source *model.Card, controllerID string, targets []string, effectText string) error) error {
	item, ok := gs.PopStack()
	if !ok {
		return engineerr.IllegalAction("stack is empty")
	}
	source, ok := gs.Card(item.SourceID)
	if !ok {
		return nil // source already gone (e.g. countered): nothing to resolve
	}

	switch item.Kind {
	case model.StackItemSpell:
		return resolveSpell(gs, item, source, resolveEffect)
	case model.StackItemActivated, model.StackItemTriggered:
		return resolveEffect(source, item.ControllerID, item.Targets, item.AbilityText)
	}
	return nil
}

func resolveSpell(gs *model.GameState, item *model.StackItem, source *model.Card, resolveEffect func(*model.Card, string, []string, string) error) error {
	if item.OptionalCost != nil && item.OptionalCost.CostType == "ward" && wardDeclined(item) {
		MoveCardToZone(gs, source, model.ZoneGraveyard, false, nil)
		gs.Events.Publish(rules.NewEvent(rules.EventCountered, source.InstanceID, item.OptionalCost.CostDescription, item.ControllerID))
		return nil
	}
	if cardutil.IsPermanentType(source) {
		if cardutil.IsAura(source) && !auraTargetLegal(gs, item) {
			MoveCardToZone(gs, source, model.ZoneGraveyard, false, nil)
			return nil
		}
		faceIndex := item.FaceIndex
		MoveCardToZone(gs, source, model.ZoneBattlefield, false, &faceIndex)
		if cardutil.IsPlaneswalker(source) {
			source.Loyalty = source.BaseLoyalty
		}
		if cardutil.IsBattle(source) {
			source.Defense = source.BaseDefense
		}
		if cardutil.IsAura(source) && len(item.Targets) > 0 {
			source.AttachedTo = item.Targets[0]
			source.HasAttachedTo = true
		}
		gs.Events.Publish(rules.NewEvent(rules.EventZoneChange, source.InstanceID, source.InstanceID, item.ControllerID))
		return nil
	}

	if err := resolveEffect(source, item.ControllerID, item.Targets, source.ActiveFace().OracleText); err != nil {
		return err
	}
	MoveCardToZone(gs, source, model.ZoneGraveyard, false, nil)
	return nil
}

// wardDeclined reports whether the caster answered "no" to the ward
// yes/no choice recorded on item.OptionalCost. An unanswered ward (the
// choice is still pending) is never reached here: requireNoPendingChoice
// blocks PassPriority, and only PassPriority can pop the stack.
func wardDeclined(item *model.StackItem) bool {
	for _, answer := range item.Resolution.ChoicesMade {
		if answer.Option == "no" {
			return true
		}
	}
	return false
}

func auraTargetLegal(gs *model.GameState, item *model.StackItem) bool {
	if len(item.Targets) == 0 {
		return false
	}
	target, ok := gs.Card(item.Targets[0])
	return ok && target.Zone == model.ZoneBattlefield
}
