// Package abilityparser turns a card's oracle text into a structured list
// of abilities (spec.md §4.6). Per spec.md §9's design note, the
// interpreter is a lookup over a data-driven pattern table, not a pile of
// branches: the keywordPatterns table classifies keyword lines, and the
// costIndicator pattern decides whether a "COST: EFFECT" line is activated.
package abilityparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tcgforge/rulesengine/internal/model"
	"github.com/tcgforge/rulesengine/internal/targeting"
)

// AbilityKind is one of the four ability shapes spec.md §4.6 defines.
type AbilityKind string

const (
	KindActivated AbilityKind = "activated"
	KindTriggered AbilityKind = "triggered"
	KindStatic    AbilityKind = "static"
	KindMana      AbilityKind = "mana"
)

// CounterCost describes a "remove N counter-type counters" activation cost.
type CounterCost struct {
	Type  string
	Count int
}

// Cost is the parsed activation cost of an activated or loyalty ability.
type Cost struct {
	Tap             bool
	Untap           bool
	ManaCost        string
	PayLife         int
	HasPayLife      bool
	SacrificeFilter string
	HasSacrifice    bool
	DiscardFilter   string
	HasDiscard      bool
	ExileFilter     string
	HasExile        bool
	RemoveCounter   *CounterCost
	LoyaltyDelta    int
	HasLoyaltyDelta bool
	FreeText        string
}

// TriggerCondition classifies a triggered ability's firing event in terms
// TriggeredAbilityHandler understands (spec.md §4.7's event categories).
type TriggerCondition struct {
	EventKeyword string // "enters", "leaves", "dies", "attacks", "blocks", "becomes-blocked", "cast", "damage", "upkeep", "end-step", ...
	RawText      string
}

// OptionalCost describes a "you may X. If you do, Y" trigger clause.
type OptionalCost struct {
	CostDescription    string
	ConditionalEffect  string
}

// ParsedAbility is one line of oracle text, classified and structured.
type ParsedAbility struct {
	ID               string
	Kind             AbilityKind
	Text             string
	CostText         string
	Cost             *Cost
	EffectText       string
	RequiresTarget   bool
	TargetRequirement *model.TargetRequirement
	Trigger          *TriggerCondition
	SorcerySpeed     bool
	OncePerTurn      bool
	IsManaAbility    bool
	IsLoyaltyAbility bool
	OptionalCost     *OptionalCost
}

// ParseResult separates bare keyword lines from the structured abilities
// they're not part of.
type ParseResult struct {
	Keywords   []string
	Abilities  []ParsedAbility
}

// keywordPatterns recognizes a line that names only a keyword ability (no
// colon, no trigger word). Ward X, Protection from X, and landwalk carry a
// captured qualifier that's folded back into the keyword string.
var keywordPatterns = []struct {
	re      *regexp.Regexp
	keyword string
}{
	{regexp.MustCompile(`(?i)^flying$`), "flying"},
	{regexp.MustCompile(`(?i)^haste$`), "haste"},
	{regexp.MustCompile(`(?i)^lifelink$`), "lifelink"},
	{regexp.MustCompile(`(?i)^vigilance$`), "vigilance"},
	{regexp.MustCompile(`(?i)^trample$`), "trample"},
	{regexp.MustCompile(`(?i)^menace$`), "menace"},
	{regexp.MustCompile(`(?i)^reach$`), "reach"},
	{regexp.MustCompile(`(?i)^hexproof$`), "hexproof"},
	{regexp.MustCompile(`(?i)^indestructible$`), "indestructible"},
	{regexp.MustCompile(`(?i)^deathtouch$`), "deathtouch"},
	{regexp.MustCompile(`(?i)^first strike$`), "first_strike"},
	{regexp.MustCompile(`(?i)^double strike$`), "double_strike"},
	{regexp.MustCompile(`(?i)^flash$`), "flash"},
	{regexp.MustCompile(`(?i)^defender$`), "defender"},
	{regexp.MustCompile(`(?i)^prowess$`), "prowess"},
	{regexp.MustCompile(`(?i)^ward\s*(\{[^}]+\}|\d+)$`), "ward"},
	{regexp.MustCompile(`(?i)^protection from (.+)$`), "protection_from_$1"},
	{regexp.MustCompile(`(?i)^(\w+)walk$`), "$1walk"},
}

var costIndicator = regexp.MustCompile(`(?i)\{[TQ0-9WUBRGCX/]+\}|sacrifice|discard|pay \d+ life|exile|remove|^[+-]?\d+$`)

var loyaltyCostRe = regexp.MustCompile(`^([+-]\d+|0):\s*(.+)$`)
var colonSplit = regexp.MustCompile(`^([^:]+):\s*(.+)$`)
var manaCostRe = regexp.MustCompile(`\{[WUBRGC0-9X]+\}`)
var addsManaRe = regexp.MustCompile(`(?i)add\s`)
var sacrificeRe = regexp.MustCompile(`(?i)sacrifice\s+(a|an|this permanent|\w[\w\s]*)`)
var discardRe = regexp.MustCompile(`(?i)discard\s+(a|an|\w[\w\s]*)`)
var exileCostRe = regexp.MustCompile(`(?i)^exile\s+(.+)$`)
var payLifeRe = regexp.MustCompile(`(?i)pay (\d+) life`)
var removeCounterRe = regexp.MustCompile(`(?i)remove (a|an|\d+) ([\w+/-]+) counters?`)
var optionalCostRe = regexp.MustCompile(`(?i)^you may (.+?)\.\s*if you do,\s*(.+)$`)
var targetRe = regexp.MustCompile(`(?i)\btarget\b`)
var upToRe = regexp.MustCompile(`(?i)up to (\w+) target`)

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "a": 1, "an": 1,
}

// Parse splits oracle text into keyword lines and structured abilities.
func Parse(oracleText string) ParseResult {
	var result ParseResult
	for _, raw := range splitLines(oracleText) {
		line := stripBullet(raw)
		if line == "" {
			continue
		}
		if kw, ok := matchKeywordLine(line); ok {
			result.Keywords = append(result.Keywords, kw)
			continue
		}
		result.Abilities = append(result.Abilities, parseLine(line))
	}
	return result
}

func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(normalized, "\n")
}

func stripBullet(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "•")
	if !loyaltyCostRe.MatchString(line) {
		line = strings.TrimPrefix(line, "-")
	}
	return strings.TrimSpace(line)
}

func matchKeywordLine(line string) (string, bool) {
	for _, kp := range keywordPatterns {
		m := kp.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		kw := kp.keyword
		for i := 1; i < len(m); i++ {
			kw = strings.ReplaceAll(kw, "$"+strconv.Itoa(i), strings.ToLower(m[i]))
		}
		return kw, true
	}
	return "", false
}

func parseLine(line string) ParsedAbility {
	ability := ParsedAbility{ID: uuid.NewString(), Text: line}

	if m := loyaltyCostRe.FindStringSubmatch(line); m != nil {
		ability.Kind = KindActivated
		ability.IsLoyaltyAbility = true
		ability.SorcerySpeed = true
		ability.OncePerTurn = true
		ability.CostText = m[1]
		ability.EffectText = m[2]
		delta, _ := strconv.Atoi(strings.TrimPrefix(m[1], "+"))
		ability.Cost = &Cost{LoyaltyDelta: delta, HasLoyaltyDelta: true}
		ability.RequiresTarget = targetRe.MatchString(ability.EffectText)
		ability.TargetRequirement = targeting.ParseRequirement(ability.EffectText)
		return ability
	}

	if m := colonSplit.FindStringSubmatch(line); m != nil && costIndicator.MatchString(m[1]) {
		ability.Kind = KindActivated
		ability.CostText = strings.TrimSpace(m[1])
		ability.EffectText = strings.TrimSpace(m[2])
		ability.Cost = parseCost(ability.CostText)
		ability.RequiresTarget = targetRe.MatchString(ability.EffectText)
		ability.TargetRequirement = targeting.ParseRequirement(ability.EffectText)
		if addsManaRe.MatchString(ability.EffectText) && !ability.RequiresTarget {
			ability.Kind = KindMana
			ability.IsManaAbility = true
		}
		return ability
	}

	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "when ") || strings.HasPrefix(lower, "whenever ") || strings.HasPrefix(lower, "at ") {
		ability.Kind = KindTriggered
		ability.Trigger = classifyTrigger(line)
		effectText := line
		if idx := strings.Index(line, ","); idx >= 0 {
			effectText = strings.TrimSpace(line[idx+1:])
		}
		ability.EffectText = effectText
		ability.RequiresTarget = targetRe.MatchString(effectText)
		ability.TargetRequirement = targeting.ParseRequirement(effectText)
		if oc := optionalCostRe.FindStringSubmatch(effectText); oc != nil {
			ability.OptionalCost = &OptionalCost{CostDescription: oc[1], ConditionalEffect: oc[2]}
		}
		return ability
	}

	ability.Kind = KindStatic
	ability.EffectText = line
	return ability
}

func classifyTrigger(line string) *TriggerCondition {
	lower := strings.ToLower(line)
	tc := &TriggerCondition{RawText: line}
	switch {
	case strings.Contains(lower, "enters the battlefield"), strings.Contains(lower, "enters"):
		tc.EventKeyword = "enters"
	case strings.Contains(lower, "leaves the battlefield"):
		tc.EventKeyword = "leaves"
	case strings.Contains(lower, " dies"):
		tc.EventKeyword = "dies"
	case strings.Contains(lower, "attacks"):
		tc.EventKeyword = "attacks"
	case strings.Contains(lower, "becomes blocked"):
		tc.EventKeyword = "becomes-blocked"
	case strings.Contains(lower, "blocks"):
		tc.EventKeyword = "blocks"
	case strings.Contains(lower, "is cast"), strings.Contains(lower, "you cast"):
		tc.EventKeyword = "cast"
	case strings.Contains(lower, "deals damage"):
		tc.EventKeyword = "damage"
	case strings.Contains(lower, "upkeep"):
		tc.EventKeyword = "upkeep"
	case strings.Contains(lower, "end step"):
		tc.EventKeyword = "end-step"
	case strings.HasPrefix(lower, "at the beginning of the next"):
		tc.EventKeyword = "delayed"
	default:
		tc.EventKeyword = "unknown"
	}
	return tc
}

func parseCost(costText string) *Cost {
	cost := &Cost{}
	parts := strings.Split(costText, ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		switch {
		case p == "{T}":
			cost.Tap = true
		case p == "{Q}":
			cost.Untap = true
		case manaCostRe.MatchString(p) && manaCostRe.ReplaceAllString(p, "") == "":
			cost.ManaCost += p
		case sacrificeRe.MatchString(p):
			m := sacrificeRe.FindStringSubmatch(p)
			cost.HasSacrifice = true
			cost.SacrificeFilter = strings.TrimSpace(m[1])
		case discardRe.MatchString(p):
			m := discardRe.FindStringSubmatch(p)
			cost.HasDiscard = true
			cost.DiscardFilter = strings.TrimSpace(m[1])
		case payLifeRe.MatchString(p):
			m := payLifeRe.FindStringSubmatch(p)
			n, _ := strconv.Atoi(m[1])
			cost.HasPayLife = true
			cost.PayLife = n
		case exileCostRe.MatchString(p):
			m := exileCostRe.FindStringSubmatch(p)
			cost.HasExile = true
			cost.ExileFilter = strings.TrimSpace(m[1])
		case removeCounterRe.MatchString(p):
			m := removeCounterRe.FindStringSubmatch(p)
			n := wordNumbers[strings.ToLower(m[1])]
			if n == 0 {
				if parsed, err := strconv.Atoi(m[1]); err == nil {
					n = parsed
				} else {
					n = 1
				}
			}
			cost.RemoveCounter = &CounterCost{Type: m[2], Count: n}
		default:
			if p != "" {
				if cost.FreeText != "" {
					cost.FreeText += ", "
				}
				cost.FreeText += p
			}
		}
	}
	return cost
}

// ParseTargetCount extracts {min,max} from effect text containing
// "target"/"up to N target" phrasing, for TriggeredAbilityHandler and
// OracleEffectResolver to build a model.TargetRequirement from.
func ParseTargetCount(effectText string) (min, max int) {
	if !targetRe.MatchString(effectText) {
		return 0, 0
	}
	if m := upToRe.FindStringSubmatch(effectText); m != nil {
		n := wordNumbers[strings.ToLower(m[1])]
		if n == 0 {
			if parsed, err := strconv.Atoi(m[1]); err == nil {
				n = parsed
			} else {
				n = 1
			}
		}
		return 0, n
	}
	return 1, 1
}
