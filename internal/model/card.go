package model

import "github.com/tcgforge/rulesengine/internal/counters"

// Position locates a card within its zone. Z is a monotonic stacking order
// (library order on top of the library, battlefield entry order) assigned
// from GameState.MaxZ.
type Position struct {
	X, Y, Z int
}

// ModifierKind distinguishes the three flavors of continuous modifier a
// Modifier can carry. Mirrors spec.md §9's tagged-variant guidance.
type ModifierKind int

const (
	ModifierPTBoost ModifierKind = iota
	ModifierSetPT
	ModifierAbilityGrant
)

// Modifier is a single continuous effect attached to a permanent, consumed
// by the Layers system. AbilityGrant modifiers carry a keyword tag in Tag
// (e.g. "flying", "cant_attack"); PTBoost/SetPT modifiers carry PowerDelta/
// ToughnessDelta (or absolute values, for SetPT).
type Modifier struct {
	SourceID        string
	Kind            ModifierKind
	PowerDelta      int
	ToughnessDelta  int
	Tag             string
	UntilEndOfTurn  bool
}

// Face captures one face of a multi-face card (DFCs, split cards, adventures).
type Face struct {
	Name          string
	OracleText    string
	ManaCost      string
	TypeLine      string
	Types         []string
	Subtypes      []string
	Supertypes    []string
	Colors        []string
	Power         string
	Toughness     string
	Loyalty       string
	Defense       string
	HasPower      bool
	HasToughness  bool
	HasLoyalty    bool
	HasDefense    bool
}

// CardDefinition is the bit-stable card data ingested from the external
// card-data service (spec.md §6). The engine never mutates a definition.
type CardDefinition struct {
	Name       string
	OracleText string
	ManaCost   string
	TypeLine   string
	Types      []string
	Subtypes   []string
	Supertypes []string
	Colors     []string
	Keywords   []string
	Power      string
	Toughness  string
	Loyalty    string
	Defense    string
	Faces      []Face
	Set        string
	OracleID   string
	ImagePath  string
}

// Card is a single physical card instance in play. Every copy (including
// tokens) has a unique InstanceID that never changes across zone moves.
type Card struct {
	InstanceID   string
	Definition   *CardDefinition
	OwnerID      string
	ControllerID string
	Zone         Zone
	Tapped       bool
	FaceDown     bool
	FaceIndex    int
	HasFaceIndex bool
	Position     Position

	// Base characteristics, copied from Definition (or the active face) each
	// time the card resets on leaving the battlefield (Rule 400.7).
	BasePower     int
	BaseToughness int
	BaseLoyalty   int
	BaseDefense   int
	HasBasePower  bool
	HasBaseTough  bool

	// Live characteristics recomputed by Layers. Valid only while the card is
	// on the battlefield (or stack, for loyalty/defense display purposes);
	// off-battlefield cards report base values directly.
	Power     int
	Toughness int
	Loyalty   int
	Defense   int

	Types      []string
	Subtypes   []string
	Supertypes []string
	Keywords   []string

	// Battlefield "memory" fields. Cleared on any zone change other than to
	// the battlefield (spec.md §3).
	Counters           []*counters.Counter
	Modifiers          []*Modifier
	AttachedTo         string
	HasAttachedTo      bool
	Attacking          string
	IsAttacking        bool
	Blocking           []string
	DamageMarked       int
	ControlledSinceTurn int
	IsToken            bool
}

// IsPermanent reports whether the card currently occupies the battlefield.
func (c *Card) IsPermanent() bool {
	return c.Zone == ZoneBattlefield
}

// HasType reports whether the card's live type list contains typeName
// (case-sensitive; callers normalize casing at the boundary).
func (c *Card) HasType(typeName string) bool {
	for _, t := range c.Types {
		if t == typeName {
			return true
		}
	}
	return false
}

// HasKeyword reports whether the card's effective (post-Layers) keyword set
// grants the given keyword.
func (c *Card) HasKeyword(keyword string) bool {
	for _, k := range c.Keywords {
		if k == keyword {
			return true
		}
	}
	return false
}

// CounterCount returns the number of counters of the given type on the card.
func (c *Card) CounterCount(counterType string) int {
	for _, ctr := range c.Counters {
		if ctr.Name == counterType {
			return ctr.Count
		}
	}
	return 0
}

// ResetMemory clears all battlefield-only state per Rule 400.7. Called by
// the zone-transition primitive whenever a card leaves the battlefield for
// anywhere other than the battlefield (i.e. always, since it's already
// leaving) and whenever a card enters any zone other than the battlefield.
func (c *Card) ResetMemory() {
	c.Counters = nil
	c.Modifiers = nil
	c.AttachedTo = ""
	c.HasAttachedTo = false
	c.Attacking = ""
	c.IsAttacking = false
	c.Blocking = nil
	c.DamageMarked = 0
	c.ControlledSinceTurn = 0

	if c.Definition != nil {
		c.resetCharacteristicsFromDefinition()
	}
}

// resetCharacteristicsFromDefinition restores base P/T/loyalty/defense and
// type information from the card's definition (or selected face).
func (c *Card) resetCharacteristicsFromDefinition() {
	def := c.Definition
	face := def.activeFace(c.FaceIndex, c.HasFaceIndex)

	c.Types = append([]string(nil), face.Types...)
	c.Subtypes = append([]string(nil), face.Subtypes...)
	c.Supertypes = append([]string(nil), face.Supertypes...)
	c.Keywords = nil

	c.HasBasePower = face.HasPower
	c.HasBaseTough = face.HasToughness
	c.BasePower = atoiSigned(face.Power)
	c.BaseToughness = atoiSigned(face.Toughness)
	c.BaseLoyalty = atoiSigned(face.Loyalty)
	c.BaseDefense = atoiSigned(face.Defense)

	c.Power = c.BasePower
	c.Toughness = c.BaseToughness
}

func (def *CardDefinition) activeFace(index int, has bool) Face {
	if has && index >= 0 && index < len(def.Faces) {
		return def.Faces[index]
	}
	if len(def.Faces) > 0 {
		return def.Faces[0]
	}
	return Face{
		Name:         def.Name,
		OracleText:   def.OracleText,
		ManaCost:     def.ManaCost,
		TypeLine:     def.TypeLine,
		Types:        def.Types,
		Subtypes:     def.Subtypes,
		Supertypes:   def.Supertypes,
		Colors:       def.Colors,
		Power:        def.Power,
		Toughness:    def.Toughness,
		Loyalty:      def.Loyalty,
		Defense:      def.Defense,
		HasPower:     def.Power != "",
		HasToughness: def.Toughness != "",
		HasLoyalty:   def.Loyalty != "",
		HasDefense:   def.Defense != "",
	}
}

// ActiveFace returns the currently visible face of the card (the selected
// face for a multi-face card, or a synthetic single face for normal cards).
func (c *Card) ActiveFace() Face {
	if c.Definition == nil {
		return Face{}
	}
	return c.Definition.activeFace(c.FaceIndex, c.HasFaceIndex)
}

// BaseKeywords returns the intrinsic keywords printed on the card, before
// any ability_grant modifiers are layered on.
func (c *Card) BaseKeywords() []string {
	if c.Definition == nil {
		return nil
	}
	return c.Definition.Keywords
}

func atoiSigned(s string) int {
	if s == "" {
		return 0
	}
	neg := false
	i := 0
	if s[0] == '+' {
		i = 1
	} else if s[0] == '-' {
		neg = true
		i = 1
	}
	n := 0
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
