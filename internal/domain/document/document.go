// Package document defines the closed document-type enumeration and the
// typed-parse boundary between raw extraction payloads and the engine's
// domain structs.  The core never operates on untyped JSON past this package.
package document

import (
	"encoding/json"

	"github.com/veridocs/kycengine/pkg/errors"
)

// Type identifies a processed document.  Closed enumeration: anything outside
// it is rejected at the boundary.
type Type string

const (
	TypeActaConstitutiva  Type = "acta_constitutiva"
	TypeSatConstancia     Type = "sat_constancia"
	TypeTarjetaResidente  Type = "tarjeta_residente"
	TypePassport          Type = "passport"
	TypeProofOfAddressCFE Type = "proof_of_address_cfe"
	TypeProofOfAddressTel Type = "proof_of_address_telmex"
	TypeProofOfAddressOth Type = "proof_of_address_other"
	TypeBankStatement     Type = "bank_statement"
	TypeBoletaRPC         Type = "boleta_rpc"
	TypeConstanciaRNIE    Type = "constancia_rnie"
	TypeNameAuthorization Type = "name_authorization"
)

var allTypes = map[Type]struct{}{
	TypeActaConstitutiva:  {},
	TypeSatConstancia:     {},
	TypeTarjetaResidente:  {},
	TypePassport:          {},
	TypeProofOfAddressCFE: {},
	TypeProofOfAddressTel: {},
	TypeProofOfAddressOth: {},
	TypeBankStatement:     {},
	TypeBoletaRPC:         {},
	TypeConstanciaRNIE:    {},
	TypeNameAuthorization: {},
}

// Valid reports whether t belongs to the closed enumeration.
func (t Type) Valid() bool {
	_, ok := allTypes[t]
	return ok
}

// IsProofOfAddress groups the per-provider utility-bill types.
func (t Type) IsProofOfAddress() bool {
	switch t {
	case TypeProofOfAddressCFE, TypeProofOfAddressTel, TypeProofOfAddressOth:
		return true
	}
	return false
}

// IsRegistrySlip groups the commercial-registry and foreign-investment slips.
func (t Type) IsRegistrySlip() bool {
	switch t {
	case TypeBoletaRPC, TypeConstanciaRNIE, TypeNameAuthorization:
		return true
	}
	return false
}

// Repeatable reports whether a run may carry more than one document of this
// type (utility bills, bank statements, registry slips, and amendment deeds).
func (t Type) Repeatable() bool {
	return t.IsProofOfAddress() || t == TypeBankStatement || t.IsRegistrySlip() || t == TypeActaConstitutiva
}

// RequiredCategories are the document categories a complete run covers.
// Proof-of-address providers collapse into one category.
func RequiredCategories() []string {
	return []string{
		string(TypeActaConstitutiva),
		string(TypeSatConstancia),
		string(TypeTarjetaResidente),
		string(TypePassport),
		"proof_of_address",
		string(TypeBankStatement),
	}
}

// Category maps a document type to its coverage category.
func (t Type) Category() string {
	if t.IsProofOfAddress() {
		return "proof_of_address"
	}
	return string(t)
}

// Envelope is one document at the engine boundary: its type, provenance, and
// the already schema-validated extraction payload.
type Envelope struct {
	Type       Type            `json:"type"`
	SourceName string          `json:"source_name,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// ParsePayload decodes the envelope payload into out, which must be the
// domain struct corresponding to the envelope type.  Unknown types and
// malformed payloads are boundary errors with document error codes.
func (e Envelope) ParsePayload(out any) error {
	if !e.Type.Valid() {
		return errors.New(errors.ErrCodeDocumentTypeInvalid, "unsupported document type").
			WithDetail(string(e.Type))
	}
	if len(e.Payload) == 0 {
		return errors.New(errors.ErrCodeDocumentPayloadInvalid, "document has no extracted payload").
			WithDetail(e.SourceName)
	}
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return errors.Wrap(err, errors.ErrCodeDocumentPayloadInvalid, "malformed extraction payload")
	}
	return nil
}
