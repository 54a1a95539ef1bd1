package carddata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSet = `
set: LEA
cards:
  - name: Grizzly Bears
    mana_cost: "{1}{G}"
    types: Creature
    subtypes: Bear
    colors: G
    power: "2"
    toughness: "2"
  - name: Serra Angel
    mana_cost: "{3}{W}{W}"
    types: Creature
    subtypes: Angel
    colors: W
    keywords: flying vigilance
    power: "4"
    toughness: "4"
  - name: Forest
    types: Land
    subtypes: Forest
    supertypes: Basic
    oracle_text: "{T}: Add {G}."
`

func TestLoadBytesParsesEveryCard(t *testing.T) {
	set, err := LoadBytes([]byte(sampleSet))
	require.NoError(t, err)
	require.Equal(t, "LEA", set.Code)
	require.Len(t, set.Cards, 3)

	bears, err := set.Lookup("Grizzly Bears")
	require.NoError(t, err)
	require.Equal(t, "{1}{G}", bears.ManaCost)
	require.Equal(t, []string{"Creature"}, bears.Types)
	require.Equal(t, []string{"Bear"}, bears.Subtypes)
	require.Equal(t, "2", bears.Power)
	require.Equal(t, "LEA", bears.Set)
}

func TestLoadBytesSplitsMultiWordKeywords(t *testing.T) {
	set, err := LoadBytes([]byte(sampleSet))
	require.NoError(t, err)

	angel, err := set.Lookup("Serra Angel")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"flying", "vigilance"}, angel.Keywords)
}

func TestLoadBytesBuildsTypeLineWhenOmitted(t *testing.T) {
	set, err := LoadBytes([]byte(sampleSet))
	require.NoError(t, err)

	forest, err := set.Lookup("Forest")
	require.NoError(t, err)
	require.Equal(t, "Basic Land — Forest", forest.TypeLine)
}

func TestLookupMissingCardIsNotFound(t *testing.T) {
	set, err := LoadBytes([]byte(sampleSet))
	require.NoError(t, err)

	_, err = set.Lookup("Black Lotus")
	require.Error(t, err)
}

func TestLoadBytesRejectsCardWithoutName(t *testing.T) {
	_, err := LoadBytes([]byte("set: LEA\ncards:\n  - power: \"1\"\n"))
	require.Error(t, err)
}

func TestLoadFileMissingPathErrors(t *testing.T) {
	_, err := LoadFile("/nonexistent/set.yaml")
	require.Error(t, err)
}
