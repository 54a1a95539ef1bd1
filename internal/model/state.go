package model

import (
	"github.com/tcgforge/rulesengine/internal/rules"
)

// LogEntry mirrors spec.md §6's event-stream field set.
type LogEntry struct {
	ID        string
	Timestamp int64
	Message   string
	Type      string // info, action, zone, combat
	Source    string
	Cards     []LogCardRef
}

// LogCardRef is the card preview payload embedded in a LogEntry so clients
// can render hover previews for `{CardName}` markers in Message.
type LogCardRef struct {
	Name       string
	ImageURL   string
	ManaCost   string
	TypeLine   string
	OracleText string
}

// CachedToken is a reusable token definition (a real printed token card or
// a synthesized generic one) looked up by CreateToken effects.
type CachedToken struct {
	Name       string
	Power      string
	Toughness  string
	Colors     []string
	Types      []string
	Subtypes   []string
	Keywords   []string
	ImagePath  string
}

// GameState is the single owned value the entire engine transforms.
// Every component in this repository is a stateless function over
// *GameState plus an action; no component stores game data itself.
type GameState struct {
	GameID            string
	SetCode           string
	Players           []*Player
	PlayerOrder       []string // turnOrder
	ActivePlayerID    string
	PriorityPlayerID  string
	PassedPriorityCount int

	Phase rules.Phase
	Step  rules.Step

	// InFirstStrikeSubStep distinguishes the conditional first_strike_damage
	// combat step from the always-present combat_damage step; both map to
	// rules.StepCombatDamage, so PhaseManager tracks which pass this is.
	InFirstStrikeSubStep bool

	TurnCount           int
	LandsPlayedThisTurn map[string]int

	Cards map[string]*Card
	MaxZ  int

	Stack []*StackItem

	PendingChoice *PendingChoice

	DelayedTriggers []*DelayedTrigger

	AttackersDeclared map[string]string   // attackerID -> defenderID
	BlockersDeclared  map[string][]string // attackerID -> blockerIDs

	RevealedToPlayer map[string][]string
	LookedAtByPlayer map[string][]string

	CachedTokens map[string]*CachedToken

	// LookBackSnapshots holds a permanent's pre-move state, keyed by
	// InstanceID, captured the instant it leaves the battlefield so a
	// "dies"/"leaves the battlefield" trigger built off the resulting event
	// can still see it "as it existed" (CR 603.10a). Consumed by the
	// trigger package when it builds the corresponding StackItem.
	LookBackSnapshots map[string]*Card

	Logs        []LogEntry
	PendingLogs []LogEntry

	Events *rules.EventBus
}

// NewGameState constructs an empty state ready for StartGame.
func NewGameState(gameID string) *GameState {
	return &GameState{
		GameID:              gameID,
		Cards:               make(map[string]*Card),
		LandsPlayedThisTurn: make(map[string]int),
		AttackersDeclared:   make(map[string]string),
		BlockersDeclared:    make(map[string][]string),
		RevealedToPlayer:    make(map[string][]string),
		LookedAtByPlayer:    make(map[string][]string),
		CachedTokens:        make(map[string]*CachedToken),
		LookBackSnapshots:   make(map[string]*Card),
		Events:              rules.NewEventBus(),
	}
}

// Player looks up a player by ID.
func (gs *GameState) Player(id string) (*Player, bool) {
	for _, p := range gs.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Card looks up a card instance by ID.
func (gs *GameState) Card(id string) (*Card, bool) {
	c, ok := gs.Cards[id]
	return c, ok
}

// Opponents returns the IDs of every player other than playerID.
func (gs *GameState) Opponents(playerID string) []string {
	var out []string
	for _, p := range gs.Players {
		if p.ID != playerID {
			out = append(out, p.ID)
		}
	}
	return out
}

// NextZ returns a fresh monotonic stacking index.
func (gs *GameState) NextZ() int {
	gs.MaxZ++
	return gs.MaxZ
}

// AllPassed returns the number of players who have passed priority or can
// no longer respond.
func (gs *GameState) AllPassed() int {
	n := 0
	for _, p := range gs.Players {
		if !p.CanRespond() || p.HasPassed {
			n++
		}
	}
	return n
}

// ResetPassed clears every player's HasPassed flag (a new stack action or
// resolution reopens the priority round).
func (gs *GameState) ResetPassed() {
	for _, p := range gs.Players {
		p.HasPassed = false
	}
}

// AddMessage appends a persistent + pending log entry.
func (gs *GameState) AddMessage(entry LogEntry) {
	gs.Logs = append(gs.Logs, entry)
	gs.PendingLogs = append(gs.PendingLogs, entry)
}

// FlushPendingLogs drains and returns the transport-facing log buffer.
func (gs *GameState) FlushPendingLogs() []LogEntry {
	out := gs.PendingLogs
	gs.PendingLogs = nil
	return out
}

// PushStack pushes a stack item to the top (end) of the stack slice.
func (gs *GameState) PushStack(item *StackItem) {
	gs.Stack = append(gs.Stack, item)
}

// PopStack removes and returns the top stack item, if any.
func (gs *GameState) PopStack() (*StackItem, bool) {
	if len(gs.Stack) == 0 {
		return nil, false
	}
	idx := len(gs.Stack) - 1
	item := gs.Stack[idx]
	gs.Stack = gs.Stack[:idx]
	return item, true
}

// RemoveStackItem removes a stack item anywhere in the stack by ID (e.g.
// a counterspell effect), returning it if found.
func (gs *GameState) RemoveStackItem(id string) (*StackItem, bool) {
	for i := len(gs.Stack) - 1; i >= 0; i-- {
		if gs.Stack[i].ID == id {
			item := gs.Stack[i]
			gs.Stack = append(gs.Stack[:i], gs.Stack[i+1:]...)
			return item, true
		}
	}
	return nil, false
}
