// Package effectresolver dispatches the structured effect text produced by
// abilityparser into concrete state mutations (spec.md §4.8). As with
// abilityparser, classification is a data-driven table of (pattern,
// handler) pairs rather than a branch tree — effectRules below, tested in
// the order spec.md lists the categories.
package effectresolver

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tcgforge/rulesengine/internal/action"
	"github.com/tcgforge/rulesengine/internal/cardutil"
	"github.com/tcgforge/rulesengine/internal/counters"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

func playerOrNil(gs *model.GameState, id string) *model.Player {
	p, ok := gs.Player(id)
	if !ok {
		return nil
	}
	return p
}

func cardOrNil(gs *model.GameState, id string) *model.Card {
	c, ok := gs.Card(id)
	if !ok {
		return nil
	}
	return c
}

// Context carries everything a single effect-text resolution needs: the
// game state to mutate, the ability's source and controller, and the
// targets already chosen when the stack item was put on the stack (or by
// a prior choice).
type Context struct {
	State        *model.GameState
	Source       *model.Card
	ControllerID string
	Targets      []string
}

// ChoiceRequired is returned (as part of a successful Resolve) when an
// effect category needs player input before it can continue. The caller
// emits the choice and re-invokes Resolve after ChoiceHandler records the
// result on the stack item.
type ChoiceRequired struct {
	Choice *model.PendingChoice
}

func (ChoiceRequired) Error() string { return "choice required before effect can resolve" }

type effectRule struct {
	name    string
	pattern *regexp.Regexp
	handle  func(ctx *Context, text string, m []string) error
}

var effectRules = []effectRule{
	{"counterspell", regexp.MustCompile(`(?i)counter target spell`), handleCounterspell},
	{"damage", regexp.MustCompile(`(?i)deals? (\d+|x) damage to`), handleDamage},
	{"destroy", regexp.MustCompile(`(?i)destroy (target|all|each)`), handleDestroy},
	{"exile", regexp.MustCompile(`(?i)^exile target|exile (target|all|each)`), handleExile},
	{"bounce", regexp.MustCompile(`(?i)return target .* to (its|their) owner'?s? hand`), handleBounce},
	{"pump", regexp.MustCompile(`(?i)(gets?|get) [+-]\d+/[+-]\d+`), handlePump},
	{"draw", regexp.MustCompile(`(?i)draws? (a|an|\d+|two|three|four|five) cards?`), handleDraw},
	{"discard", regexp.MustCompile(`(?i)discards? (a|an|\d+|two|three) cards?`), handleDiscard},
	{"mill", regexp.MustCompile(`(?i)mills? (a|an|\d+|\w+) cards?`), handleMill},
	{"lifegain", regexp.MustCompile(`(?i)gains? (\d+) life`), handleLifeGain},
	{"lifeloss", regexp.MustCompile(`(?i)loses? (\d+) life`), handleLifeLoss},
	{"tap", regexp.MustCompile(`(?i)\btap target\b`), handleTap},
	{"untap", regexp.MustCompile(`(?i)\buntap target\b`), handleUntap},
	{"counterplacement", regexp.MustCompile(`(?i)put (a|an|\d+|two|three|four|five) ([\w+/-]+) counters? on`), handleCounterPlacement},
	{"fight", regexp.MustCompile(`(?i)fights? target`), handleFight},
	{"token", regexp.MustCompile(`(?i)creates? (a|an|\d+|two|three) .* tokens?`), handleTokenCreation},
}

// Resolve executes every matching category in effectRules, in order, for
// one line of effect text. Multiple categories may apply to the same
// line (e.g. "Destroy target creature. Its controller draws a card.");
// all matches fire. A ChoiceRequired error means the caller must emit
// the embedded choice and suspend.
func Resolve(ctx *Context, effectText string) error {
	for _, segment := range splitSentences(effectText) {
		for _, rule := range effectRules {
			m := rule.pattern.FindStringSubmatch(segment)
			if m == nil {
				continue
			}
			if err := rule.handle(ctx, segment, m); err != nil {
				return err
			}
		}
	}
	return nil
}

func splitSentences(text string) []string {
	var out []string
	for _, s := range strings.Split(text, ".") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func handleCounterspell(ctx *Context, text string, m []string) error {
	if len(ctx.Targets) == 0 {
		return engineerr.InvalidTarget("counter target spell: no target recorded")
	}
	targetID := ctx.Targets[0]
	item, ok := ctx.State.RemoveStackItem(targetID)
	if !ok {
		return nil // already gone: fizzled silently, not an error to the caller
	}
	if src := cardOrNil(ctx.State, item.SourceID); src != nil {
		moveToGraveyard(ctx.State, src)
	}
	ctx.State.Events.Publish(rules.NewEvent(rules.EventCountered, item.ID, ctx.Source.InstanceID, ctx.ControllerID))
	return nil
}

func handleDamage(ctx *Context, text string, m []string) error {
	amount := parseAmountWord(m[1])
	sourceID := ""
	if ctx.Source != nil {
		sourceID = ctx.Source.InstanceID
	}
	switch {
	case strings.Contains(strings.ToLower(text), "each opponent"):
		for _, opp := range ctx.State.Opponents(ctx.ControllerID) {
			damagePlayer(ctx.State, opp, sourceID, amount)
		}
	case strings.Contains(strings.ToLower(text), "each player"):
		for _, p := range ctx.State.Players {
			damagePlayer(ctx.State, p.ID, sourceID, amount)
		}
	case strings.Contains(strings.ToLower(text), "all creatures"):
		for _, c := range ctx.State.Cards {
			if c.Zone == model.ZoneBattlefield && cardutil.IsCreature(c) {
				damageCard(ctx.State, c, amount, ctx.Source)
			}
		}
	default:
		for _, tid := range ctx.Targets {
			if p := playerOrNil(ctx.State, tid); p != nil {
				damagePlayer(ctx.State, tid, sourceID, amount)
				continue
			}
			if c := cardOrNil(ctx.State, tid); c != nil {
				damageCard(ctx.State, c, amount, ctx.Source)
			}
		}
	}
	return nil
}

func damagePlayer(gs *model.GameState, playerID, sourceID string, amount int) {
	p := playerOrNil(gs, playerID)
	if p == nil {
		return
	}
	p.Life -= amount
	gs.Events.Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, playerID, sourceID, playerID, amount))
}

func damageCard(gs *model.GameState, c *model.Card, amount int, source *model.Card) {
	c.DamageMarked += amount
	sourceID := ""
	if source != nil {
		sourceID = source.InstanceID
		if source.HasKeyword("deathtouch") && amount > 0 {
			c.Modifiers = append(c.Modifiers, &model.Modifier{
				SourceID: sourceID,
				Kind:     model.ModifierAbilityGrant,
				Tag:      "deathtouch_damage_received",
			})
		}
	}
	gs.Events.Publish(rules.NewEventWithAmount(rules.EventDamagedPermanent, c.InstanceID, sourceID, c.ControllerID, amount))
}

func handleDestroy(ctx *Context, text string, m []string) error {
	lower := strings.ToLower(text)
	for _, id := range resolveTargetsOrAll(ctx, lower) {
		c := cardOrNil(ctx.State, id)
		if c == nil || c.Zone != model.ZoneBattlefield {
			continue
		}
		if c.HasKeyword("indestructible") {
			continue
		}
		moveToGraveyard(ctx.State, c)
	}
	return nil
}

func resolveTargetsOrAll(ctx *Context, lowerText string) []string {
	if strings.Contains(lowerText, "all") || strings.Contains(lowerText, "each") {
		var ids []string
		for id, c := range ctx.State.Cards {
			if c.Zone == model.ZoneBattlefield && cardutil.IsCreature(c) {
				ids = append(ids, id)
			}
		}
		sort.Strings(ids)
		return ids
	}
	return ctx.Targets
}

// moveToGraveyard routes through action.MoveCardToZone, spec.md §4.3's sole
// zone-transition primitive, so the EventZoneChange it publishes carries
// the from_zone/to_zone metadata trigger.go's dies-trigger classification
// depends on (CR 700.4). A hand-rolled zone write here would leave a
// creature killed by Destroy or a board wipe silently unable to trigger.
func moveToGraveyard(gs *model.GameState, c *model.Card) {
	action.MoveCardToZone(gs, c, model.ZoneGraveyard, false, nil)
}

func handleExile(ctx *Context, text string, m []string) error {
	for _, id := range resolveTargetsOrAll(ctx, strings.ToLower(text)) {
		c := cardOrNil(ctx.State, id)
		if c == nil {
			continue
		}
		action.MoveCardToZone(ctx.State, c, model.ZoneExile, false, nil)
	}
	return nil
}

func handleBounce(ctx *Context, text string, m []string) error {
	for _, id := range ctx.Targets {
		c := cardOrNil(ctx.State, id)
		if c == nil {
			continue
		}
		c.ControllerID = c.OwnerID
		action.MoveCardToZone(ctx.State, c, model.ZoneHand, false, nil)
	}
	return nil
}

var ptDeltaRe = regexp.MustCompile(`([+-]\d+)/([+-]\d+)`)
var untilEOTRe = regexp.MustCompile(`(?i)until end of turn`)

func handlePump(ctx *Context, text string, m []string) error {
	pm := ptDeltaRe.FindStringSubmatch(text)
	if pm == nil {
		return nil
	}
	power, _ := strconv.Atoi(pm[1])
	toughness, _ := strconv.Atoi(pm[2])
	untilEOT := untilEOTRe.MatchString(text)

	targets := ctx.Targets
	if strings.Contains(strings.ToLower(text), "creatures you control") {
		targets = nil
		for id, c := range ctx.State.Cards {
			if c.Zone == model.ZoneBattlefield && c.ControllerID == ctx.ControllerID && cardutil.IsCreature(c) {
				targets = append(targets, id)
			}
		}
	}
	for _, id := range targets {
		c := cardOrNil(ctx.State, id)
		if c == nil {
			continue
		}
		c.Modifiers = append(c.Modifiers, &model.Modifier{
			SourceID:       ctx.Source.InstanceID,
			Kind:           model.ModifierPTBoost,
			PowerDelta:     power,
			ToughnessDelta: toughness,
			UntilEndOfTurn: untilEOT,
		})
	}
	return nil
}

func handleDraw(ctx *Context, text string, m []string) error {
	n := parseAmountWord(m[1])
	playerID := ctx.ControllerID
	if strings.Contains(strings.ToLower(text), "each player") {
		for _, p := range ctx.State.Players {
			drawCards(ctx.State, p.ID, n)
		}
		return nil
	}
	drawCards(ctx.State, playerID, n)
	return nil
}

func drawCards(gs *model.GameState, playerID string, n int) {
	for i := 0; i < n; i++ {
		gs.Events.Publish(rules.NewEvent(rules.EventDrawCard, playerID, playerID, playerID))
	}
}

func handleDiscard(ctx *Context, text string, m []string) error {
	n := parseAmountWord(m[1])
	for i := 0; i < n; i++ {
		ctx.State.Events.Publish(rules.NewEvent(rules.EventDiscardCard, ctx.ControllerID, ctx.ControllerID, ctx.ControllerID))
	}
	return nil
}

func handleMill(ctx *Context, text string, m []string) error {
	n := parseAmountWord(m[1])
	for i := 0; i < n; i++ {
		ctx.State.Events.Publish(rules.NewEvent(rules.EventZoneChange, ctx.ControllerID, ctx.ControllerID, ctx.ControllerID))
	}
	return nil
}

func handleLifeGain(ctx *Context, text string, m []string) error {
	n, _ := strconv.Atoi(m[1])
	if p := playerOrNil(ctx.State, ctx.ControllerID); p != nil {
		p.Life += n
		ctx.State.Events.Publish(rules.NewEventWithAmount(rules.EventGainedLife, ctx.ControllerID, ctx.ControllerID, ctx.ControllerID, n))
	}
	return nil
}

func handleLifeLoss(ctx *Context, text string, m []string) error {
	n, _ := strconv.Atoi(m[1])
	if p := playerOrNil(ctx.State, ctx.ControllerID); p != nil {
		p.Life -= n
		ctx.State.Events.Publish(rules.NewEventWithAmount(rules.EventLostLife, ctx.ControllerID, ctx.ControllerID, ctx.ControllerID, n))
	}
	return nil
}

func handleTap(ctx *Context, text string, m []string) error {
	for _, id := range ctx.Targets {
		if c := cardOrNil(ctx.State, id); c != nil {
			c.Tapped = true
		}
	}
	return nil
}

func handleUntap(ctx *Context, text string, m []string) error {
	for _, id := range ctx.Targets {
		if c := cardOrNil(ctx.State, id); c != nil {
			c.Tapped = false
		}
	}
	return nil
}

func handleCounterPlacement(ctx *Context, text string, m []string) error {
	n := parseAmountWord(m[1])
	counterType := strings.TrimSpace(m[2])
	for _, id := range ctx.Targets {
		c := cardOrNil(ctx.State, id)
		if c == nil {
			continue
		}
		placed := false
		for _, ctr := range c.Counters {
			if ctr.Name == counterType {
				ctr.Count += n
				placed = true
				break
			}
		}
		if !placed {
			c.Counters = append(c.Counters, &counters.Counter{Name: counterType, Count: n})
		}
		ctx.State.Events.Publish(rules.NewEventWithAmount(rules.EventCounterAdded, id, ctx.ControllerID, ctx.ControllerID, n))
	}
	return nil
}

func handleFight(ctx *Context, text string, m []string) error {
	if ctx.Source == nil || len(ctx.Targets) == 0 {
		return engineerr.InvalidTarget("fight: missing source or target")
	}
	opponent := cardOrNil(ctx.State, ctx.Targets[0])
	if opponent == nil {
		return nil
	}
	damageCard(ctx.State, opponent, ctx.Source.Power, ctx.Source)
	damageCard(ctx.State, ctx.Source, opponent.Power, opponent)
	return nil
}

func handleTokenCreation(ctx *Context, text string, m []string) error {
	count := parseAmountWord(m[1])
	name, power, toughness, colors, types, subtypes, keywords := parseTokenDescriptor(text)

	if cached, ok := ctx.State.CachedTokens[strings.ToLower(name)]; ok {
		power, toughness = cached.Power, cached.Toughness
		colors, types, subtypes, keywords = cached.Colors, cached.Types, cached.Subtypes, cached.Keywords
	}

	for i := 0; i < count; i++ {
		id := uuid.NewString()
		def := &model.CardDefinition{
			Name: name, Types: types, Subtypes: subtypes, Colors: colors,
			Keywords: keywords, Power: power, Toughness: toughness,
		}
		card := &model.Card{
			InstanceID: id, Definition: def, OwnerID: ctx.ControllerID, ControllerID: ctx.ControllerID,
			Zone: model.ZoneBattlefield, IsToken: true, ControlledSinceTurn: ctx.State.TurnCount,
		}
		card.ResetMemory()
		card.Position.Z = ctx.State.NextZ()
		ctx.State.Cards[id] = card
		ctx.State.Events.Publish(rules.NewEvent(rules.EventCreatedToken, id, ctx.Source.InstanceID, ctx.ControllerID))
	}
	return nil
}

var tokenDescriptorRe = regexp.MustCompile(`(?i)(\d+/\d+)\s+([\w\s]+?)\s+(\w+)\s+tokens?`)

func parseTokenDescriptor(text string) (name, power, toughness string, colors, types, subtypes, keywords []string) {
	m := tokenDescriptorRe.FindStringSubmatch(text)
	if m == nil {
		return "Token", "1", "1", nil, []string{"Creature"}, nil, nil
	}
	pt := strings.SplitN(m[1], "/", 2)
	colorWord := strings.TrimSpace(m[2])
	subtype := m[3]
	return subtype, pt[0], pt[1], []string{colorWord}, []string{"Creature"}, []string{subtype}, nil
}

var wordAmounts = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
}

func parseAmountWord(s string) int {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, ok := wordAmounts[s]; ok {
		return n
	}
	if s == "x" {
		return 0 // X is not substituted here; an "X" amount resolves as 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
