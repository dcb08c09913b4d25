package profile

// LegalRepresentative is a person empowered (or not) to act for the company,
// as extracted from the incorporation deed or a later amendment.
type LegalRepresentative struct {
	Name                   string   `json:"name"`
	Role                   string   `json:"role,omitempty"`
	HasPoder               bool     `json:"has_poder"`
	CanSignContracts       bool     `json:"can_sign_contracts"`
	PoderScope             []string `json:"poder_scope,omitempty"`
	JointSignatureRequired bool     `json:"joint_signature_required"`
}

// Shareholder is an equity holder.  Shares and Percentage are nil when the
// source document does not state them; percentages are recomputed from shares
// when share counts are complete.
type Shareholder struct {
	Name              string   `json:"name"`
	Shares            *int64   `json:"shares,omitempty"`
	Percentage        *float64 `json:"percentage,omitempty"`
	Class             string   `json:"class,omitempty"`
	IsBeneficialOwner bool     `json:"is_beneficial_owner"`
	Nationality       string   `json:"nationality,omitempty"`
}

// Comisario is the statutory supervisory officer.  A comisario is never
// eligible as a signatory regardless of any power text.
type Comisario struct {
	Name string `json:"name"`
}

// NotaryBlock identifies the notary who formalized a deed.
type NotaryBlock struct {
	Name         string `json:"name,omitempty"`
	Number       string `json:"number,omitempty"`
	Jurisdiction string `json:"jurisdiction,omitempty"`
	DeedNumber   string `json:"deed_number,omitempty"`
	DeedDate     string `json:"deed_date,omitempty"`
}

// RegistryBlock carries the commercial-registry identifiers of the company.
type RegistryBlock struct {
	FME              string `json:"fme,omitempty"`
	Folio            string `json:"folio,omitempty"`
	NCI              string `json:"nci,omitempty"`
	RegistrationDate string `json:"registration_date,omitempty"`
}

// GovernanceBlock describes the administration regime of the company.
type GovernanceBlock struct {
	Regime        string   `json:"regime,omitempty"` // "administrador_unico" | "consejo"
	BoardMembers  []string `json:"board_members,omitempty"`
	DurationYears *int     `json:"duration_years,omitempty"`
}

// CompanyIdentity is the corporate identity extracted from the incorporation
// deed (and amendments, once merged).
//
// RFC is almost never printed in incorporation deeds; a non-nil value here is
// treated with suspicion by the validator unless the deed explicitly states it.
type CompanyIdentity struct {
	RazonSocial          string                `json:"razon_social"`
	RFC                  *string               `json:"rfc,omitempty"`
	IncorporationDate    *string               `json:"incorporation_date,omitempty"`
	FoundingAddress      *Address              `json:"founding_address,omitempty"`
	LegalRepresentatives []LegalRepresentative `json:"legal_representatives,omitempty"`
	Shareholders         []Shareholder         `json:"shareholders,omitempty"`
	Notary               *NotaryBlock          `json:"notary,omitempty"`
	Registry             *RegistryBlock        `json:"registry,omitempty"`
	Governance           *GovernanceBlock      `json:"governance,omitempty"`
	Modifications        []string              `json:"modifications,omitempty"`
	Comisarios           []Comisario           `json:"comisarios,omitempty"`
}

// HasRegistryNumber reports whether any commercial-registry identifier is
// present.
func (c *CompanyIdentity) HasRegistryNumber() bool {
	if c == nil || c.Registry == nil {
		return false
	}
	return c.Registry.FME != "" || c.Registry.Folio != "" || c.Registry.NCI != ""
}

// IsComisario reports whether the named person is a supervisory officer of
// this company.
func (c *CompanyIdentity) IsComisario(name string, sameName func(a, b string) bool) bool {
	if c == nil {
		return false
	}
	for _, com := range c.Comisarios {
		if sameName(com.Name, name) {
			return true
		}
	}
	return false
}
