// Package carddata loads card definitions from a YAML set file into the
// model.CardDefinition shape StartGame's decklists expect. It is the
// engine's side of spec.md §6's external card-data collaborator: the
// engine never embeds oracle text, it only consumes *model.CardDefinition
// values handed to it.
//
// Grounded on the teacher's scripts/import_cards.go CSV importer: the same
// flat-record-to-typed-struct shape, adapted from CSV+Postgres to
// YAML+gopkg.in/yaml.v3 since this package loads a set file, not a
// database table.
package carddata

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tcgforge/rulesengine/internal/engineerr"
	"github.com/tcgforge/rulesengine/internal/model"
)

// cardRecord is the on-disk shape of one card in a set file. Field names
// mirror the teacher's CardImport struct (types/subtypes/supertypes kept
// as separate space-delimited strings, the way Mage's own card exports
// store them) rather than model.CardDefinition's parsed slices.
type cardRecord struct {
	Name       string `yaml:"name"`
	ManaCost   string `yaml:"mana_cost"`
	TypeLine   string `yaml:"type_line"`
	Types      string `yaml:"types"`
	Subtypes   string `yaml:"subtypes"`
	Supertypes string `yaml:"supertypes"`
	Colors     string `yaml:"colors"`
	Keywords   string `yaml:"keywords"`
	Power      string `yaml:"power"`
	Toughness  string `yaml:"toughness"`
	Loyalty    string `yaml:"loyalty"`
	Defense    string `yaml:"defense"`
	OracleText string `yaml:"oracle_text"`
	Set        string `yaml:"set"`
	OracleID   string `yaml:"oracle_id"`
}

// setFile is the top-level shape of a YAML set file: a named set code plus
// every card printed in it.
type setFile struct {
	Set   string       `yaml:"set"`
	Cards []cardRecord `yaml:"cards"`
}

// Set is a loaded collection of card definitions indexed by name, the
// shape a deckbuilder or library-shuffler looks cards up by before handing
// a decklist to engine.StartGame.
type Set struct {
	Code  string
	Cards map[string]*model.CardDefinition
}

// Lookup returns the named card's definition, or a NotFound engineerr if
// the set does not carry it.
func (s *Set) Lookup(name string) (*model.CardDefinition, error) {
	def, ok := s.Cards[name]
	if !ok {
		return nil, engineerr.NotFound("card %q not in set %q", name, s.Code)
	}
	return def, nil
}

// LoadFile parses a YAML set file at path into a Set. Empty records (blank
// lines between card blocks) are never emitted by yaml.v3's list decoding,
// so every entry in the returned Cards map is well-formed.
func LoadFile(path string) (*Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("carddata: read %s: %w", path, err)
	}
	return LoadBytes(raw)
}

// LoadBytes parses YAML set data already read into memory, the path
// LoadFile and a caller embedding set data via go:embed both end up
// calling.
func LoadBytes(raw []byte) (*Set, error) {
	var sf setFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("carddata: parse set: %w", err)
	}

	set := &Set{Code: sf.Set, Cards: make(map[string]*model.CardDefinition, len(sf.Cards))}
	for i, rec := range sf.Cards {
		if rec.Name == "" {
			return nil, fmt.Errorf("carddata: card at index %d missing name", i)
		}
		set.Cards[rec.Name] = toDefinition(sf.Set, rec)
	}
	return set, nil
}

func toDefinition(setCode string, rec cardRecord) *model.CardDefinition {
	def := &model.CardDefinition{
		Name:       rec.Name,
		OracleText: rec.OracleText,
		ManaCost:   rec.ManaCost,
		TypeLine:   rec.TypeLine,
		Types:      splitFields(rec.Types),
		Subtypes:   splitFields(rec.Subtypes),
		Supertypes: splitFields(rec.Supertypes),
		Colors:     splitFields(rec.Colors),
		Keywords:   splitFields(rec.Keywords),
		Power:      rec.Power,
		Toughness:  rec.Toughness,
		Loyalty:    rec.Loyalty,
		Defense:    rec.Defense,
		Set:        coalesce(rec.Set, setCode),
		OracleID:   rec.OracleID,
	}
	if def.TypeLine == "" {
		def.TypeLine = buildTypeLine(def.Supertypes, def.Types, def.Subtypes)
	}
	return def
}

// buildTypeLine assembles a standard "Supertype Type — Subtype" line the
// same way the teacher's buildCardType helper composes Mage's card_type
// column, for set files that give types/subtypes but skip the type line.
func buildTypeLine(supertypes, types, subtypes []string) string {
	var parts []string
	if len(supertypes) > 0 {
		parts = append(parts, strings.Join(supertypes, " "))
	}
	if len(types) > 0 {
		parts = append(parts, strings.Join(types, " "))
	}
	line := strings.Join(parts, " ")
	if len(subtypes) > 0 {
		line += " — " + strings.Join(subtypes, " ")
	}
	return line
}

func splitFields(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
