package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func addr(street, municipio string) Address {
	return Address{Street: strp(street), Municipio: strp(municipio), Country: strp("MX")}
}

func TestAddress_IsZero(t *testing.T) {
	var nilAddr *Address
	assert.True(t, nilAddr.IsZero())
	assert.True(t, (&Address{}).IsZero())
	a := addr("Reforma 123", "Cuauhtémoc")
	assert.False(t, a.IsZero())
}

func TestAddress_HasStreetLevel(t *testing.T) {
	jurisdictionOnly := Address{Municipio: strp("Guadalajara")}
	assert.False(t, jurisdictionOnly.HasStreetLevel())
	full := addr("Juárez 10", "Guadalajara")
	assert.True(t, full.HasStreetLevel())
}

func TestResolveOperational_ProofOfAddressWins(t *testing.T) {
	proofs := []ProofOfAddress{
		{Provider: "CFE", Address: addr("Calle A 1", "Benito Juárez"), IssueDate: strp("2026-05-01"), SourceName: "cfe_may.pdf"},
		{Provider: "Telmex", Address: addr("Calle A 1", "Benito Juárez"), IssueDate: strp("2026-07-01"), SourceName: "telmex_jul.pdf"},
	}
	banks := []BankIdentity{{Address: addr("Calle B 2", "Miguel Hidalgo"), AddressMatchesOperational: true, SourceName: "bbva.pdf"}}
	fiscal := addr("Calle C 3", "Coyoacán")

	res := ResolveOperationalAddress(proofs, banks, &fiscal)
	require.NotNil(t, res.Address)
	assert.Equal(t, AddressSourceProofOfAddr, res.Source)
	// Most recent proof wins.
	assert.Equal(t, []string{"telmex_jul.pdf"}, res.SupportingDocs)
}

func TestResolveOperational_UndatedProofStillUsable(t *testing.T) {
	proofs := []ProofOfAddress{{Provider: "CFE", Address: addr("Calle A 1", "Centro"), SourceName: "cfe.pdf"}}
	res := ResolveOperationalAddress(proofs, nil, nil)
	require.NotNil(t, res.Address)
	assert.Equal(t, AddressSourceProofOfAddr, res.Source)
}

func TestResolveOperational_BankFallback(t *testing.T) {
	banks := []BankIdentity{
		{Address: addr("Calle B 2", "Centro"), AddressMatchesOperational: false, SourceName: "hsbc.pdf"},
		{Address: addr("Calle B 3", "Centro"), AddressMatchesOperational: true, SourceName: "bbva.pdf"},
	}
	res := ResolveOperationalAddress(nil, banks, nil)
	require.NotNil(t, res.Address)
	assert.Equal(t, AddressSourceBankStatement, res.Source)
	assert.Equal(t, []string{"bbva.pdf"}, res.SupportingDocs)
}

func TestResolveOperational_FiscalFallbackCarriesNote(t *testing.T) {
	fiscal := addr("Calle C 3", "Coyoacán")
	res := ResolveOperationalAddress(nil, nil, &fiscal)
	require.NotNil(t, res.Address)
	assert.Equal(t, AddressSourceTaxProfile, res.Source)
	assert.NotEmpty(t, res.Note)
}

func TestResolveOperational_NoEvidence(t *testing.T) {
	res := ResolveOperationalAddress(nil, nil, nil)
	assert.Nil(t, res.Address)
	assert.NotEmpty(t, res.Note)
}
