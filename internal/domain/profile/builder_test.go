package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() BuilderInput {
	founding := addr("Insurgentes 100", "Cuauhtémoc")
	fiscal := addr("Patriotismo 200", "Benito Juárez")
	return BuilderInput{
		CustomerID: "cust-1",
		CompanyIdentity: &CompanyIdentity{
			RazonSocial:       "ACME OPERADORA SA DE CV",
			IncorporationDate: strp("2015-03-10"),
			FoundingAddress:   &founding,
			Shareholders: []Shareholder{
				{Name: "ANA TORRES", Percentage: floatp(60)},
				{Name: "JOHN SMITH", Percentage: floatp(40), Nationality: "US"},
			},
		},
		CompanyTaxProfile: &CompanyTaxProfile{
			RFC:           "AOP150310AB1",
			RazonSocial:   "ACME OPERADORA SA DE CV",
			FiscalAddress: &fiscal,
		},
		ProofsOfAddress: []ProofOfAddress{
			{Provider: "CFE", Address: addr("Revolución 300", "Álvaro Obregón"), IssueDate: strp("2026-08-01"), SourceName: "cfe.pdf"},
		},
	}
}

func floatp(f float64) *float64 { return &f }

func TestBuild_FoundingAddressIsHistoricalOnly(t *testing.T) {
	p := Build(sampleInput(), time.Now())

	require.Len(t, p.HistoricalAddresses, 1)
	assert.Equal(t, AddressSourceIncorporation, p.HistoricalAddresses[0].Source)

	// The founding address never becomes fiscal or operational.
	require.NotNil(t, p.CurrentFiscalAddress)
	assert.Equal(t, "Patriotismo 200", *p.CurrentFiscalAddress.Street)
	require.NotNil(t, p.CurrentOperationalAddress)
	assert.Equal(t, "Revolución 300", *p.CurrentOperationalAddress.Street)
}

func TestBuild_OperationalFallsBackToFiscal(t *testing.T) {
	in := sampleInput()
	in.ProofsOfAddress = nil
	p := Build(in, time.Now())

	require.NotNil(t, p.CurrentOperationalAddress)
	assert.Equal(t, AddressSourceTaxProfile, p.OperationalAddressSource)
	assert.Equal(t, "Patriotismo 200", *p.CurrentOperationalAddress.Street)
}

func TestBuild_Idempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	a := Build(sampleInput(), now)
	b := Build(sampleInput(), now)
	assert.Equal(t, a, b)
}

func TestBuild_AbsentOptionalFieldsAreValid(t *testing.T) {
	p := Build(BuilderInput{CustomerID: "cust-2"}, time.Now())
	assert.Nil(t, p.CompanyIdentity)
	assert.Nil(t, p.CurrentFiscalAddress)
	assert.Nil(t, p.CurrentOperationalAddress)
	assert.Empty(t, p.HistoricalAddresses)
}

func TestHasForeignMajorityOwnership(t *testing.T) {
	p := Build(sampleInput(), time.Now())
	assert.False(t, p.HasForeignMajorityOwnership())

	p.CompanyIdentity.Shareholders = []Shareholder{
		{Name: "JOHN SMITH", Percentage: floatp(70), Nationality: "US"},
		{Name: "ANA TORRES", Percentage: floatp(30)},
	}
	assert.True(t, p.HasForeignMajorityOwnership())
}

func TestHasForeignMajorityOwnership_UnknownNationalityCountsDomestic(t *testing.T) {
	p := &KycProfile{CompanyIdentity: &CompanyIdentity{Shareholders: []Shareholder{
		{Name: "A", Percentage: floatp(60)},
		{Name: "B", Percentage: floatp(40), Nationality: "US"},
	}}}
	assert.False(t, p.HasForeignMajorityOwnership())
}
