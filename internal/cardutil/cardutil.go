// Package cardutil holds pure predicates over model.Card: type checks,
// attach legality, and bestow handling. Nothing here mutates state or
// looks anything up beyond the cards passed in, matching spec.md §4's
// CardUtils component.
package cardutil

import "github.com/tcgforge/rulesengine/internal/model"

func hasType(c *model.Card, t string) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// IsCreature reports whether c is currently a Creature.
func IsCreature(c *model.Card) bool { return hasType(c, "Creature") }

// IsLand reports whether c is currently a Land.
func IsLand(c *model.Card) bool { return hasType(c, "Land") }

// IsArtifact reports whether c is currently an Artifact.
func IsArtifact(c *model.Card) bool { return hasType(c, "Artifact") }

// IsEnchantment reports whether c is currently an Enchantment.
func IsEnchantment(c *model.Card) bool { return hasType(c, "Enchantment") }

// IsPlaneswalker reports whether c is currently a Planeswalker.
func IsPlaneswalker(c *model.Card) bool { return hasType(c, "Planeswalker") }

// IsBattle reports whether c is currently a Battle.
func IsBattle(c *model.Card) bool { return hasType(c, "Battle") }

// IsInstant reports whether c is an Instant.
func IsInstant(c *model.Card) bool { return hasType(c, "Instant") }

// IsSorcery reports whether c is a Sorcery.
func IsSorcery(c *model.Card) bool { return hasType(c, "Sorcery") }

func hasSubtype(c *model.Card, sub string) bool {
	for _, st := range c.Subtypes {
		if st == sub {
			return true
		}
	}
	return false
}

// IsAura reports whether c is an Enchantment — Aura.
func IsAura(c *model.Card) bool { return IsEnchantment(c) && hasSubtype(c, "Aura") }

// IsEquipment reports whether c is an Artifact — Equipment.
func IsEquipment(c *model.Card) bool { return IsArtifact(c) && hasSubtype(c, "Equipment") }

// HasBestow reports whether c has the Bestow keyword.
func HasBestow(c *model.Card) bool { return c.HasKeyword("bestow") }

// IsPermanentType reports whether c's current type line is one of the five
// permanent types (a prerequisite for attaching/battlefield-only rules).
func IsPermanentType(c *model.Card) bool {
	return IsCreature(c) || IsLand(c) || IsArtifact(c) || IsEnchantment(c) || IsPlaneswalker(c) || IsBattle(c)
}

// CanAttach reports whether attachment is a permanent — creature for
// Equipment, any permanent the aura's enchant clause allows for Aura (here
// simplified to "any permanent", with fine-grained "enchant creature" type
// filters applied by the caller via the parsed ability's target filter).
func CanAttach(attachment, target *model.Card) bool {
	if target == nil || target.Zone != model.ZoneBattlefield {
		return false
	}
	if IsEquipment(attachment) {
		return IsCreature(target)
	}
	if IsAura(attachment) {
		return IsPermanentType(target)
	}
	return false
}

// IsAttachmentValid reports whether an on-battlefield Aura/Equipment's
// current attachment still satisfies attach legality; used by
// StateBasedEffects rule 704.5n/704.5q.
func IsAttachmentValid(attachment *model.Card, cards map[string]*model.Card) bool {
	if !attachment.HasAttachedTo {
		return false
	}
	target, ok := cards[attachment.AttachedTo]
	if !ok {
		return false
	}
	return CanAttach(attachment, target)
}

// HasSummoningSickness reports whether a creature cannot attack/tap for
// cost yet: it hasn't been under its controller's control continuously
// since their most recent turn began, and lacks Haste.
func HasSummoningSickness(c *model.Card, currentTurn int) bool {
	if c.HasKeyword("haste") {
		return false
	}
	return c.ControlledSinceTurn >= currentTurn
}

// EffectivePower returns the card's live power, or 0 if it has none
// (e.g. non-creatures).
func EffectivePower(c *model.Card) int {
	if !c.HasBasePower && c.Power == 0 {
		return 0
	}
	return c.Power
}

// EffectiveToughness returns the card's live toughness.
func EffectiveToughness(c *model.Card) int {
	return c.Toughness
}

// LethalDamage returns the minimum damage that would be lethal to c: 1 if
// the attributed source has deathtouch, otherwise remaining toughness.
func LethalDamage(c *model.Card, sourceHasDeathtouch bool) int {
	remaining := c.Toughness - c.DamageMarked
	if remaining < 0 {
		remaining = 0
	}
	if sourceHasDeathtouch && remaining > 1 {
		return 1
	}
	if remaining == 0 {
		return 0
	}
	return remaining
}
