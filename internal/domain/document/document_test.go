package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridocs/kycengine/internal/domain/profile"
	"github.com/veridocs/kycengine/pkg/errors"
)

func TestType_Valid(t *testing.T) {
	assert.True(t, TypeActaConstitutiva.Valid())
	assert.True(t, TypeNameAuthorization.Valid())
	assert.False(t, Type("drivers_license").Valid())
	assert.False(t, Type("").Valid())
}

func TestType_Groups(t *testing.T) {
	assert.True(t, TypeProofOfAddressCFE.IsProofOfAddress())
	assert.True(t, TypeProofOfAddressTel.IsProofOfAddress())
	assert.False(t, TypeBankStatement.IsProofOfAddress())

	assert.True(t, TypeBoletaRPC.IsRegistrySlip())
	assert.True(t, TypeConstanciaRNIE.IsRegistrySlip())
	assert.False(t, TypePassport.IsRegistrySlip())
}

func TestType_Category(t *testing.T) {
	assert.Equal(t, "proof_of_address", TypeProofOfAddressCFE.Category())
	assert.Equal(t, "proof_of_address", TypeProofOfAddressOth.Category())
	assert.Equal(t, "sat_constancia", TypeSatConstancia.Category())
}

func TestType_Repeatable(t *testing.T) {
	assert.True(t, TypeProofOfAddressCFE.Repeatable())
	assert.True(t, TypeBankStatement.Repeatable())
	assert.True(t, TypeActaConstitutiva.Repeatable())
	assert.False(t, TypeSatConstancia.Repeatable())
	assert.False(t, TypePassport.Repeatable())
}

func TestParsePayload_TypedDecode(t *testing.T) {
	env := Envelope{
		Type:       TypeSatConstancia,
		SourceName: "csf.pdf",
		Payload:    []byte(`{"rfc":"AOP150310AB1","razon_social":"ACME SA DE CV"}`),
	}
	var tax profile.CompanyTaxProfile
	require.NoError(t, env.ParsePayload(&tax))
	assert.Equal(t, "AOP150310AB1", tax.RFC)
}

func TestParsePayload_RejectsUnknownType(t *testing.T) {
	env := Envelope{Type: "drivers_license", Payload: []byte(`{}`)}
	err := env.ParsePayload(&struct{}{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentTypeInvalid))
}

func TestParsePayload_RejectsEmptyAndMalformed(t *testing.T) {
	env := Envelope{Type: TypePassport}
	err := env.ParsePayload(&profile.PassportIdentity{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentPayloadInvalid))

	env.Payload = []byte(`{not json`)
	err = env.ParsePayload(&profile.PassportIdentity{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentPayloadInvalid))
}
