package signatory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridocs/kycengine/internal/domain/profile"
)

func fullPowers() []string {
	return []string{
		"pleitos y cobranzas",
		"actos de administración",
		"actos de dominio",
		"títulos de crédito",
	}
}

func TestClassifyOne_FullScope(t *testing.T) {
	rep := profile.LegalRepresentative{
		Name:             "CARLOS MENDOZA RUIZ",
		Role:             "administrador único",
		HasPoder:         true,
		CanSignContracts: true,
		PoderScope:       fullPowers(),
	}
	c := ClassifyOne(rep, false)

	assert.Equal(t, ScopeFull, c.Scope)
	assert.Len(t, c.MatchedPowers, 4)
	assert.Empty(t, c.MissingPowers)
	assert.Empty(t, c.LimitationNotes)
}

func TestClassifyOne_LimitingQualifierDowngrades(t *testing.T) {
	rep := profile.LegalRepresentative{
		Name:             "CARLOS MENDOZA RUIZ",
		HasPoder:         true,
		CanSignContracts: true,
		PoderScope: []string{
			"poder especial limitado a pleitos y cobranzas",
			"actos de administración",
			"actos de dominio",
			"títulos de crédito",
		},
	}
	c := ClassifyOne(rep, false)

	assert.Equal(t, ScopeLimited, c.Scope)
	assert.Len(t, c.MatchedPowers, 4)
	require.NotEmpty(t, c.LimitationNotes)
	assert.Contains(t, c.LimitationNotes[0], "pleitos y cobranzas")
}

func TestClassifyOne_MissingPowerIsLimited(t *testing.T) {
	rep := profile.LegalRepresentative{
		Name:             "ANA LOPEZ",
		HasPoder:         true,
		CanSignContracts: true,
		PoderScope:       []string{"pleitos y cobranzas", "actos de administración"},
	}
	c := ClassifyOne(rep, false)

	assert.Equal(t, ScopeLimited, c.Scope)
	assert.ElementsMatch(t, []string{"actos de dominio", "títulos de crédito"}, c.MissingPowers)
}

func TestClassifyOne_CannotSignContractsIsLimited(t *testing.T) {
	rep := profile.LegalRepresentative{
		Name:       "ANA LOPEZ",
		HasPoder:   true,
		PoderScope: fullPowers(),
	}
	c := ClassifyOne(rep, false)

	assert.Equal(t, ScopeLimited, c.Scope)
	assert.NotEmpty(t, c.LimitationNotes)
}

func TestClassifyOne_NoPoderIsNone(t *testing.T) {
	c := ClassifyOne(profile.LegalRepresentative{Name: "VOCAL SIN PODER", Role: "vocal"}, false)
	assert.Equal(t, ScopeNone, c.Scope)
}

func TestClassifyOne_AccentAndCaseInsensitive(t *testing.T) {
	rep := profile.LegalRepresentative{
		Name:             "ANA LOPEZ",
		HasPoder:         true,
		CanSignContracts: true,
		PoderScope: []string{
			"PLEITOS Y COBRANZAS",
			"Actos de Administracion",
			"actos de dominio",
			"TITULOS DE CREDITO",
		},
	}
	c := ClassifyOne(rep, false)
	assert.Equal(t, ScopeFull, c.Scope)
}

func TestClassify_ComisarioNeverSignatory(t *testing.T) {
	reps := []profile.LegalRepresentative{
		{Name: "PEDRO SANCHEZ VEGA", HasPoder: true, CanSignContracts: true, PoderScope: fullPowers()},
	}
	coms := []profile.Comisario{{Name: "SANCHEZ VEGA PEDRO"}}

	cls := Classify(reps, coms)
	require.Len(t, cls, 1)
	assert.Equal(t, ScopeNone, cls[0].Scope)
	assert.True(t, cls[0].ExcludedAsComisario)
	assert.False(t, HasFullSignatory(cls))
}

func TestClassify_JointSignatureRecordedNotDowngraded(t *testing.T) {
	reps := []profile.LegalRepresentative{
		{Name: "A", HasPoder: true, CanSignContracts: true, PoderScope: fullPowers(), JointSignatureRequired: true},
	}
	cls := Classify(reps, nil)
	require.Len(t, cls, 1)
	assert.Equal(t, ScopeFull, cls[0].Scope)
	assert.True(t, cls[0].JointSignatureRequired)
}

func TestHasFullSignatory(t *testing.T) {
	assert.False(t, HasFullSignatory(nil))
	assert.True(t, HasFullSignatory([]Classification{{Scope: ScopeLimited}, {Scope: ScopeFull}}))
}
