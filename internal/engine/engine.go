// Package engine implements spec.md §4.1's RulesEngine: the facade that
// owns a single game's state and exposes the action surface listed in
// spec.md §6. It never blocks and never spawns background work — every
// call either mutates state and returns, suspends on a PendingChoice, or
// fails with a typed engineerr.Error.
//
// Grounded on the teacher's MageEngine (internal/game/mage_engine.go):
// the constructor takes a *zap.Logger, never a package-global logger, and
// every mutating call logs at Debug with structured fields the way
// MageEngine's resolution loop does. Unlike MageEngine, which holds a
// `map[string]*engineGameState` keyed by game id and locks per call, one
// RulesEngine instance owns exactly one game's state (spec.md §5: "each
// engine instance in its own task/thread, with no shared mutable state"),
// so no internal locking is required.
package engine

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/tcgforge/rulesengine/internal/abilityparser"
	"github.com/tcgforge/rulesengine/internal/action"
	"github.com/tcgforge/rulesengine/internal/choice"
	"github.com/tcgforge/rulesengine/internal/combat"
	"github.com/tcgforge/rulesengine/internal/counters"
	"github.com/tcgforge/rulesengine/internal/effectresolver"
	"github.com/tcgforge/rulesengine/internal/effects"
	"github.com/tcgforge/rulesengine/internal/engineconfig"
	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/layers"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/phase"
	"github.com/tcgforge/rulesengine/internal/rules"
	"github.com/tcgforge/rulesengine/internal/sba"
	"github.com/tcgforge/rulesengine/internal/trigger"
	"github.com/tcgforge/rulesengine/internal/watchers"
)

// RulesEngine is the single entry point for mutating one game's state.
type RulesEngine struct {
	logger      *zap.Logger
	cfg         *engineconfig.Config
	state       *model.GameState
	actions     *action.Handler
	triggers    *trigger.Manager
	layerSystem *effects.LayerSystem
	watchers    *watchers.GameWatchers
}

// Watchers exposes the game's turn-scoped counters (spells cast, cards
// drawn, creatures died, permanents entered) for callers building "this
// turn"-qualified UI prompts or AI heuristics. Nil until StartGame runs.
func (e *RulesEngine) Watchers() *watchers.GameWatchers {
	return e.watchers
}

// NewRulesEngine constructs an engine with no game loaded yet, using
// engineconfig.Default's tunables (opening hand size 7, starting life 20,
// a 64-pass state-based-action bound).
func NewRulesEngine(logger *zap.Logger) *RulesEngine {
	return NewRulesEngineWithConfig(logger, engineconfig.Default())
}

// NewRulesEngineWithConfig constructs an engine whose opening hand size,
// starting life, and state-based-action iteration bound come from cfg
// instead of the hardcoded defaults (e.g. a Commander deployment loading
// a 40-life, 99-card-singleton engine.yaml via engineconfig.Load).
// sba.MaxIterations is process-wide (spec.md §5's "no shared mutable
// state" promise is about GameState, not this convergence guard), so the
// last RulesEngine constructed with a given cfg wins; this is fine in
// practice since a deployment runs one ruleset configuration at a time.
func NewRulesEngineWithConfig(logger *zap.Logger, cfg *engineconfig.Config) *RulesEngine {
	if cfg == nil {
		cfg = engineconfig.Default()
	}
	sba.MaxIterations = cfg.SBAMaxIterations
	return &RulesEngine{
		logger:      logger,
		cfg:         cfg,
		actions:     action.NewHandler(),
		triggers:    trigger.NewManager(),
		layerSystem: effects.NewLayerSystem(),
	}
}

// State exposes the owned game state for read-only queries (log flushing,
// client snapshot rendering). Callers must not mutate it directly.
func (e *RulesEngine) State() *model.GameState {
	return e.state
}

// StartGame builds a fresh game state from the supplied decklists, deals
// opening hands, and begins turn one with startingPlayerID as the active
// player. decklists maps a player id to its library in draw order (bottom
// of library first); this repository does not own deck shuffling — the
// card-data/persistence boundary is expected to hand the library to the
// engine pre-shuffled (spec.md §6's external card-data collaborator).
func (e *RulesEngine) StartGame(gameID string, decklists map[string][]*model.CardDefinition, startingPlayerID string) error {
	gs := model.NewGameState(gameID)
	e.state = gs
	e.triggers.Install(gs)
	e.installZoneTracking()
	e.watchers = watchers.Install(gs)

	var order []string
	for playerID := range decklists {
		order = append(order, playerID)
	}
	sortedOrder(order)
	gs.PlayerOrder = order
	for _, playerID := range order {
		gs.Players = append(gs.Players, model.NewPlayer(playerID, playerID, e.cfg.StartingLife))
	}
	if _, ok := gs.Player(startingPlayerID); !ok {
		return engineerr.NotFound("starting player %q not among decklists", startingPlayerID)
	}

	for playerID, library := range decklists {
		for _, def := range library {
			z := gs.NextZ()
			card := &model.Card{
				InstanceID:   playerID + ":" + def.Name + ":" + strconv.Itoa(z),
				Definition:   def,
				OwnerID:      playerID,
				ControllerID: playerID,
				Zone:         model.ZoneLibrary,
				Position:     model.Position{Z: z},
			}
			card.ResetMemory()
			gs.Cards[card.InstanceID] = card
		}
	}

	for _, playerID := range order {
		for i := 0; i < e.cfg.OpeningHandSize; i++ {
			if _, err := action.DrawCard(gs, playerID); err != nil {
				return err
			}
		}
	}

	items := phase.Start(gs, startingPlayerID)
	e.recomputeAndSettle()

	if e.logger != nil {
		e.logger.Info("started game",
			zap.String("game_id", gameID),
			zap.Strings("players", order),
			zap.String("starting_player", startingPlayerID),
			zap.Int("stack_items_from_opening_triggers", len(items)),
		)
	}
	return nil
}

// installZoneTracking wires RegisterAbilities/Unregister calls to the
// event bus so TriggeredAbilityHandler tracks exactly the abilities of
// permanents currently on the battlefield. This lives in the engine
// rather than internal/action because action.MoveCardToZone has no
// dependency on internal/trigger (see DESIGN.md's package ledger).
func (e *RulesEngine) installZoneTracking() {
	e.state.Events.SubscribeTyped(rules.EventZoneChange, func(event rules.Event) {
		card, ok := e.state.Card(event.TargetID)
		if !ok || card.Definition == nil {
			return
		}
		toZone := event.Metadata["to_zone"]
		fromZone := event.Metadata["from_zone"]
		if toZone == model.ZoneBattlefield.String() {
			result := abilityparser.Parse(card.ActiveFace().OracleText)
			e.triggers.RegisterAbilities(card.InstanceID, card.ControllerID, result.Abilities)
		} else if fromZone == model.ZoneBattlefield.String() {
			e.triggers.Unregister(card.InstanceID)
		}
	})
}

func (e *RulesEngine) resolveEffect(source *model.Card, controllerID string, targets []string, effectText string) error {
	ctx := &effectresolver.Context{State: e.state, Source: source, ControllerID: controllerID, Targets: targets}
	err := effectresolver.Resolve(ctx, effectText)
	var choiceRequired effectresolver.ChoiceRequired
	if errors.As(err, &choiceRequired) {
		e.state.PendingChoice = choiceRequired.Choice
		if e.logger != nil {
			e.logger.Debug("effect suspended on choice", zap.String("source_id", source.InstanceID))
		}
		return nil
	}
	return err
}

// recomputeAndSettle runs Layers + StateBasedEffects to a fixed point, the
// pairing spec.md §5 requires after every resolution step. It is a no-op
// (beyond the Layers pass) once state is already settled.
func (e *RulesEngine) recomputeAndSettle() {
	layers.Recompute(e.state, e.layerSystem)
	if _, err := sba.Run(e.state); err != nil {
		if e.logger != nil {
			e.logger.Error("state-based actions did not converge", zap.Error(err))
		}
	}
	layers.Recompute(e.state, e.layerSystem)
}

func (e *RulesEngine) requireNoPendingChoice() error {
	if e.state.PendingChoice != nil {
		return engineerr.IllegalAction("a choice is pending; call ResolveChoice first")
	}
	return nil
}

// PassPriority implements spec.md §4.1's passPriority: if every player has
// now passed in succession, either the top of the stack resolves (and
// priority returns to the active player) or, with an empty stack, the
// turn advances a step.
func (e *RulesEngine) PassPriority(playerID string) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	allPassed, err := phase.PassPriority(e.state, playerID)
	if err != nil {
		return err
	}
	if !allPassed {
		return nil
	}

	if len(e.state.Stack) > 0 {
		if err := action.ResolveTopStack(e.state, e.resolveEffect); err != nil {
			return err
		}
		phase.ResetPriorityToActive(e.state)
	} else {
		items := phase.AdvanceStep(e.state)
		if e.logger != nil && len(items) > 0 {
			e.logger.Debug("beginning-of-step triggers queued", zap.Int("count", len(items)))
		}
	}
	e.recomputeAndSettle()
	return nil
}

// PlayLand implements spec.md §4.3's playLand.
func (e *RulesEngine) PlayLand(playerID, cardID string) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	if err := e.actions.PlayLand(e.state, playerID, cardID); err != nil {
		return err
	}
	e.recomputeAndSettle()
	return nil
}

// CastSpell implements spec.md §4.3's castSpell.
func (e *RulesEngine) CastSpell(playerID, cardID string, targets []string, faceIndex int, hasFace bool) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	if err := e.actions.CastSpell(e.state, playerID, cardID, targets, faceIndex, hasFace); err != nil {
		return err
	}
	e.recomputeAndSettle()
	return nil
}

// ActivateAbility implements spec.md §4.3's activateAbility. abilityIndex
// selects from AbilityParser's ordered list for the source's oracle text,
// matching the "(player, source, abilityIndex, targets)" signature.
func (e *RulesEngine) ActivateAbility(playerID, sourceID string, abilityIndex int, targets []string) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	source, ok := e.state.Card(sourceID)
	if !ok {
		return engineerr.NotFound("card %q not found", sourceID)
	}
	result := abilityparser.Parse(source.ActiveFace().OracleText)
	if abilityIndex < 0 || abilityIndex >= len(result.Abilities) {
		return engineerr.NotFound("source %q has no ability at index %d", sourceID, abilityIndex)
	}
	ability := result.Abilities[abilityIndex]
	if err := e.actions.ActivateAbility(e.state, playerID, sourceID, &ability, targets); err != nil {
		return err
	}
	e.recomputeAndSettle()
	return nil
}

// TapCard implements spec.md §6's TAP action: a direct, cost-independent
// tap of a permanent the calling player controls (e.g. a vehicle crewed
// by other means, or a cost payment step driven by the transport layer
// rather than ActivateAbility's own cost machinery).
func (e *RulesEngine) TapCard(playerID, cardID string) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	card, ok := e.state.Card(cardID)
	if !ok {
		return engineerr.NotFound("card %q not found", cardID)
	}
	if card.Zone != model.ZoneBattlefield {
		return engineerr.IllegalAction("card %q is not on the battlefield", cardID)
	}
	if card.ControllerID != playerID {
		return engineerr.IllegalAction("player %q does not control %q", playerID, cardID)
	}
	if card.Tapped {
		return engineerr.IllegalAction("card %q is already tapped", cardID)
	}
	card.Tapped = true
	e.state.Events.Publish(rules.NewEvent(rules.EventTap, cardID, cardID, playerID))
	return nil
}

// DeclareAttackers implements spec.md §4.11's attacker declaration.
func (e *RulesEngine) DeclareAttackers(playerID string, assignments map[string]string) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	if err := combat.DeclareAttackers(e.state, playerID, assignments); err != nil {
		return err
	}
	e.recomputeAndSettle()
	return nil
}

// DeclareBlockers implements spec.md §4.11's blocker declaration.
// assignments maps an attacker's id to the ids of the creatures blocking
// it, in the order the blocking player wants them considered;
// combat.DeclareBlockers validates the whole batch together so that
// menace's "blocked by two or more creatures" check sees every blocker
// assigned to the same attacker in one pass, and keeps that per-attacker
// order intact rather than flattening it into an unordered map.
func (e *RulesEngine) DeclareBlockers(playerID string, assignments map[string][]string) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	if err := combat.DeclareBlockers(e.state, playerID, assignments); err != nil {
		return err
	}
	e.recomputeAndSettle()
	return nil
}

// ResolveMulligan implements spec.md §6's RESOLVE_MULLIGAN. Because
// GameState models no distinct pre-game mulligan phase, this is callable
// at any point before a player's hand is otherwise touched; keeping
// bottoms MulliganCount cards (lowest Position.Z, the same deterministic
// tie-break PhaseManager's cleanup discard uses), mulliganing puts the
// whole hand on the bottom of the library and draws a fresh
// OpeningHandSize cards from the top.
// Deck shuffling itself is the persistence/card-data boundary's
// responsibility (spec.md §6); this repository reassigns library
// positions but does not randomize them.
func (e *RulesEngine) ResolveMulligan(playerID string, keep bool) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	player, ok := e.state.Player(playerID)
	if !ok {
		return engineerr.NotFound("player %q not found", playerID)
	}

	// toBottom puts c on the bottom of its owner's library: MoveCardToZone
	// stacks it on top, so its Z is then set below the library's lowest.
	toBottom := func(c *model.Card) {
		action.MoveCardToZone(e.state, c, model.ZoneLibrary, false, nil)
		bottom := c.Position.Z
		for _, o := range e.state.Cards {
			if o.OwnerID == playerID && o.Zone == model.ZoneLibrary && o.Position.Z < bottom {
				bottom = o.Position.Z
			}
		}
		c.Position.Z = bottom - 1
	}

	if keep {
		bottomCount := player.MulliganCount
		for bottomCount > 0 {
			oldest := e.oldestHandCard(playerID)
			if oldest == nil {
				break
			}
			toBottom(oldest)
			bottomCount--
		}
		player.HandKept = true
		return nil
	}

	player.MulliganCount++
	for {
		c := e.oldestHandCard(playerID)
		if c == nil {
			break
		}
		toBottom(c)
	}
	for i := 0; i < e.cfg.OpeningHandSize; i++ {
		if _, err := action.DrawCard(e.state, playerID); err != nil {
			return err
		}
	}
	return nil
}

func (e *RulesEngine) oldestHandCard(playerID string) *model.Card {
	var oldest *model.Card
	for _, c := range e.state.Cards {
		if c.OwnerID != playerID || c.Zone != model.ZoneHand {
			continue
		}
		if oldest == nil || c.Position.Z < oldest.Position.Z {
			oldest = c
		}
	}
	return oldest
}

// DrawCard implements spec.md §6's DRAW_CARD as a direct, player- or
// effect-triggered draw outside the turn-based draw step (e.g. an
// activated ability granting a card advantage effect).
func (e *RulesEngine) DrawCard(playerID string) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	if _, err := action.DrawCard(e.state, playerID); err != nil {
		return err
	}
	e.recomputeAndSettle()
	return nil
}

// ChangeLife implements spec.md §6's CHANGE_LIFE.
func (e *RulesEngine) ChangeLife(playerID string, delta int) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	player, ok := e.state.Player(playerID)
	if !ok {
		return engineerr.NotFound("player %q not found", playerID)
	}
	player.Life += delta
	e.state.Events.Publish(rules.NewEvent(rules.EventPlayerLifeChange, playerID, playerID, playerID))
	e.recomputeAndSettle()
	return nil
}

// AddCounter implements spec.md §6's ADD_COUNTER: adds (or, for a negative
// amount, removes) counterType counters on a permanent, then lets SBA
// observe the result (e.g. +1/+1 and -1/-1 annihilation, lethal toughness).
func (e *RulesEngine) AddCounter(cardID, counterType string, amount int) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	card, ok := e.state.Card(cardID)
	if !ok {
		return engineerr.NotFound("card %q not found", cardID)
	}
	if amount >= 0 {
		addCounterToCard(card, counterType, amount)
	} else {
		removeCounterFromCard(card, counterType, -amount)
	}
	e.state.Events.Publish(rules.NewEvent(rules.EventAddCounter, cardID, cardID, card.ControllerID))
	e.recomputeAndSettle()
	return nil
}

func addCounterToCard(c *model.Card, name string, amount int) {
	for _, ctr := range c.Counters {
		if ctr.Name == name {
			ctr.Add(amount)
			return
		}
	}
	c.Counters = append(c.Counters, counters.NewCounter(name, amount))
}

func removeCounterFromCard(c *model.Card, name string, amount int) {
	for i, ctr := range c.Counters {
		if ctr.Name != name {
			continue
		}
		ctr.Remove(amount)
		if ctr.Count == 0 {
			c.Counters = append(c.Counters[:i], c.Counters[i+1:]...)
		}
		return
	}
}

// CreateToken implements spec.md §6's CREATE_TOKEN: builds count fresh
// token instances on the battlefield under controllerID's control.
func (e *RulesEngine) CreateToken(controllerID string, def *model.CardDefinition, count int) ([]*model.Card, error) {
	if err := e.requireNoPendingChoice(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, engineerr.IllegalAction("token count must be positive, got %d", count)
	}
	tokens := make([]*model.Card, 0, count)
	for i := 0; i < count; i++ {
		card := &model.Card{
			InstanceID:   controllerID + ":token:" + def.Name + ":" + strconv.Itoa(e.state.NextZ()),
			Definition:   def,
			OwnerID:      controllerID,
			ControllerID: controllerID,
			Zone:         model.ZoneLibrary,
		}
		card.ResetMemory()
		e.state.Cards[card.InstanceID] = card
		action.MoveCardToZone(e.state, card, model.ZoneBattlefield, false, nil)
		tokens = append(tokens, card)
		e.state.Events.Publish(rules.NewEvent(rules.EventCreatedToken, card.InstanceID, card.InstanceID, controllerID))
	}
	e.recomputeAndSettle()
	return tokens, nil
}

// MoveCardToZone implements spec.md §4.3's sole zone-transition primitive
// as a directly callable external action (e.g. a transport-level "put
// this card in exile" debug/judge command).
func (e *RulesEngine) MoveCardToZone(cardID string, toZone model.Zone, faceDown bool, faceIndex *int) error {
	if err := e.requireNoPendingChoice(); err != nil {
		return err
	}
	card, ok := e.state.Card(cardID)
	if !ok {
		return engineerr.NotFound("card %q not found", cardID)
	}
	action.MoveCardToZone(e.state, card, toZone, faceDown, faceIndex)
	e.recomputeAndSettle()
	return nil
}

// ResolveChoice implements spec.md §4.9's resolveChoice: the sole action
// callable while a PendingChoice is outstanding.
func (e *RulesEngine) ResolveChoice(result model.ChoiceResult) error {
	if e.state.PendingChoice == nil {
		return engineerr.IllegalAction("no choice is pending")
	}
	if _, err := choice.Resolve(e.state, result); err != nil {
		return err
	}
	e.recomputeAndSettle()
	return nil
}

// Concede implements spec.md §6's CONCEDE: marks playerID as having left
// the game. SBA picks up the game-loss check on the next fixed-point run.
func (e *RulesEngine) Concede(playerID string) error {
	player, ok := e.state.Player(playerID)
	if !ok {
		return engineerr.NotFound("player %q not found", playerID)
	}
	player.Left = true
	if e.logger != nil {
		e.logger.Info("player conceded", zap.String("player_id", playerID))
	}
	e.recomputeAndSettle()
	return nil
}

func sortedOrder(ids []string) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}

