package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "JOSE PEREZ LOPEZ", Normalize("  José   Pérez-López "))
	assert.Equal(t, "MARIA NUÑEZ", Normalize("María Nuñez."))
	assert.Equal(t, "", Normalize("  ,.-  "))
}

func TestTokens_DropsShortTokens(t *testing.T) {
	assert.Equal(t, []string{"JUAN", "DIOS", "MARTINEZ"}, Tokens("Juan de Dios Martínez"))
}

func TestNames_ExactMatch(t *testing.T) {
	assert.True(t, Names("ASHISH PUNJ", "ashish  punj"))
}

func TestNames_ContainmentOfSmallerSet(t *testing.T) {
	// Full containment of the smaller token set succeeds.
	assert.True(t, Names("ASHISH PUNJ", "PUNJ ASHISH EXTRA"))
}

func TestNames_MissingTokenFails(t *testing.T) {
	assert.False(t, Names("ASHISH PUNJ", "ASHISH GARCIA"))
}

func TestNames_SharedSurnameOnlyFails(t *testing.T) {
	// Token containment is stricter than edit distance on purpose: a shared
	// surname alone must not match.
	assert.False(t, Names("PEDRO GARCIA", "PABLO GARCIA"))
}

func TestNames_EmptyInputs(t *testing.T) {
	assert.False(t, Names("", "ASHISH PUNJ"))
	assert.False(t, Names("ASHISH PUNJ", ""))
	assert.False(t, Names("", ""))
}

func TestExplain_Evidence(t *testing.T) {
	res := Explain("ASHISH PUNJ", "PUNJ ASHISH EXTRA")
	assert.True(t, res.Matched)
	assert.False(t, res.Exact)
	assert.ElementsMatch(t, []string{"ASHISH", "PUNJ"}, res.MatchedTokens)
	assert.Empty(t, res.MissingTokens)

	res = Explain("ASHISH PUNJ", "ASHISH GARCIA")
	assert.False(t, res.Matched)
	assert.Equal(t, []string{"PUNJ"}, res.MissingTokens)
}

func TestExplain_ExactShortCircuit(t *testing.T) {
	res := Explain("Luis Vega", "LUIS  VEGA")
	assert.True(t, res.Exact)
	assert.True(t, res.Matched)
}

func TestFindUnique(t *testing.T) {
	candidates := []string{"MARIA LOPEZ HERNANDEZ", "JUAN CARLOS RAMIREZ", "PEDRO SANTOS"}

	assert.Equal(t, 1, FindUnique("JUAN RAMIREZ", candidates))
	assert.Equal(t, -1, FindUnique("DIEGO TORRES", candidates))
}

func TestFindUnique_AmbiguityDegradesToNoMatch(t *testing.T) {
	candidates := []string{"MARIA LOPEZ HERNANDEZ", "MARIA LOPEZ GARCIA"}
	assert.Equal(t, -1, FindUnique("MARIA LOPEZ", candidates))
}
