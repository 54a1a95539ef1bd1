// Package store persists and restores game snapshots so a RulesEngine
// process can crash or redeploy without losing an in-progress game
// (spec.md §6's reconnect/resume requirement). It is the engine's only
// collaborator that touches a database; RulesEngine itself never imports
// it.
//
// Grounded on the teacher's scripts/import_cards.go, the only place the
// teacher talks to Postgres: same jackc/pgx/v5 pgxpool connection and
// batched-transaction shape, generalized from a one-shot CSV import to a
// long-lived save/load store, with Masterminds/squirrel building the SQL
// instead of import_cards.go's hand-written query strings and
// pressly/goose/v3 owning schema migrations instead of a manual psql step.
package store

import (
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/rules"
)

// Snapshot is the serializable mirror of a model.GameState. It excludes
// GameState.Events: an *rules.EventBus holds subscriber closures, which
// have no data representation, and every subscriber is re-installed by
// RulesEngine.StartGame/installZoneTracking on load rather than carried
// across a save.
type Snapshot struct {
	GameID              string
	SetCode             string
	Players             []*model.Player
	PlayerOrder         []string
	ActivePlayerID      string
	PriorityPlayerID    string
	PassedPriorityCount int
	Phase               rules.Phase
	Step                rules.Step
	InFirstStrikeSubStep bool
	TurnCount           int
	LandsPlayedThisTurn map[string]int
	Cards               map[string]*model.Card
	MaxZ                int
	Stack               []*model.StackItem
	PendingChoice       *model.PendingChoice
	DelayedTriggers     []*model.DelayedTrigger
	AttackersDeclared   map[string]string
	BlockersDeclared    map[string][]string
	RevealedToPlayer    map[string][]string
	LookedAtByPlayer    map[string][]string
}

// FromGameState captures everything in gs a resumed game needs to pick up
// where it left off.
func FromGameState(gs *model.GameState) *Snapshot {
	return &Snapshot{
		GameID:               gs.GameID,
		SetCode:              gs.SetCode,
		Players:              gs.Players,
		PlayerOrder:          gs.PlayerOrder,
		ActivePlayerID:       gs.ActivePlayerID,
		PriorityPlayerID:     gs.PriorityPlayerID,
		PassedPriorityCount:  gs.PassedPriorityCount,
		Phase:                gs.Phase,
		Step:                 gs.Step,
		InFirstStrikeSubStep: gs.InFirstStrikeSubStep,
		TurnCount:            gs.TurnCount,
		LandsPlayedThisTurn:  gs.LandsPlayedThisTurn,
		Cards:                gs.Cards,
		MaxZ:                 gs.MaxZ,
		Stack:                gs.Stack,
		PendingChoice:        gs.PendingChoice,
		DelayedTriggers:      gs.DelayedTriggers,
		AttackersDeclared:    gs.AttackersDeclared,
		BlockersDeclared:     gs.BlockersDeclared,
		RevealedToPlayer:     gs.RevealedToPlayer,
		LookedAtByPlayer:     gs.LookedAtByPlayer,
	}
}

// Restore copies the snapshot onto gs. gs must already carry a fresh
// Events bus (model.NewGameState's job); Restore never touches it, so the
// caller is free to re-subscribe trigger/watcher handlers before or after
// calling Restore.
func (s *Snapshot) Restore(gs *model.GameState) {
	gs.GameID = s.GameID
	gs.SetCode = s.SetCode
	gs.Players = s.Players
	gs.PlayerOrder = s.PlayerOrder
	gs.ActivePlayerID = s.ActivePlayerID
	gs.PriorityPlayerID = s.PriorityPlayerID
	gs.PassedPriorityCount = s.PassedPriorityCount
	gs.Phase = s.Phase
	gs.Step = s.Step
	gs.InFirstStrikeSubStep = s.InFirstStrikeSubStep
	gs.TurnCount = s.TurnCount
	gs.LandsPlayedThisTurn = s.LandsPlayedThisTurn
	gs.Cards = s.Cards
	gs.MaxZ = s.MaxZ
	gs.Stack = s.Stack
	gs.PendingChoice = s.PendingChoice
	gs.DelayedTriggers = s.DelayedTriggers
	gs.AttackersDeclared = s.AttackersDeclared
	gs.BlockersDeclared = s.BlockersDeclared
	gs.RevealedToPlayer = s.RevealedToPlayer
	gs.LookedAtByPlayer = s.LookedAtByPlayer
}
