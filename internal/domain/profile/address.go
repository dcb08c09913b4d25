package profile

// Address is a Mexican-format postal address.  It has no identity of its own
// and is always embedded in an owning record.  Unknown components are nil,
// never empty-string sentinels: a deed that states only a jurisdiction yields
// nil street-level fields.
type Address struct {
	Street       *string `json:"street,omitempty"`
	ExtNumber    *string `json:"ext_number,omitempty"`
	IntNumber    *string `json:"int_number,omitempty"`
	Colonia      *string `json:"colonia,omitempty"`
	Municipio    *string `json:"municipio,omitempty"`
	Estado       *string `json:"estado,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	Country      *string `json:"country,omitempty"`
}

// IsZero reports whether no component of the address is known.
func (a *Address) IsZero() bool {
	if a == nil {
		return true
	}
	return a.Street == nil && a.ExtNumber == nil && a.IntNumber == nil &&
		a.Colonia == nil && a.Municipio == nil && a.Estado == nil &&
		a.PostalCode == nil && a.Country == nil
}

// HasStreetLevel reports whether the address carries street-level detail, as
// opposed to a bare jurisdiction.
func (a *Address) HasStreetLevel() bool {
	return a != nil && a.Street != nil
}

// Address source labels used in HistoricalAddress.Source and in address
// evidence traces.
const (
	AddressSourceIncorporation = "incorporation_deed"
	AddressSourceTaxProfile    = "tax_certificate"
	AddressSourceProofOfAddr   = "proof_of_address"
	AddressSourceBankStatement = "bank_statement"
)

// HistoricalAddress is an append-only entry on the profile.  The founding
// address from the incorporation deed is always historical and must never
// overwrite fiscal or operational addresses.
type HistoricalAddress struct {
	Source  string   `json:"source"`
	Address Address  `json:"address"`
	Date    *string  `json:"date,omitempty"`
}

// OperationalAddressResolution is the outcome of the operational-address
// precedence rule, including the evidence consumed by the trace builder.
type OperationalAddressResolution struct {
	Address        *Address `json:"address,omitempty"`
	Source         string   `json:"source,omitempty"`
	SupportingDocs []string `json:"supporting_docs,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// ResolveOperationalAddress applies the precedence rule for the current
// operational address: proof-of-address evidence first, then a bank-statement
// address explicitly marked as operational, then the fiscal address as
// fallback.  The founding address never participates.
func ResolveOperationalAddress(proofs []ProofOfAddress, banks []BankIdentity, fiscal *Address) OperationalAddressResolution {
	// Most recent dated proof of address wins; undated proofs rank last in
	// input order.
	var best *ProofOfAddress
	for i := range proofs {
		p := &proofs[i]
		if p.Address.IsZero() {
			continue
		}
		if best == nil {
			best = p
			continue
		}
		if p.IssueDate != nil && (best.IssueDate == nil || *p.IssueDate > *best.IssueDate) {
			best = p
		}
	}
	if best != nil {
		return OperationalAddressResolution{
			Address:        &best.Address,
			Source:         AddressSourceProofOfAddr,
			SupportingDocs: []string{best.SourceName},
		}
	}

	for i := range banks {
		b := &banks[i]
		if b.AddressMatchesOperational && !b.Address.IsZero() {
			return OperationalAddressResolution{
				Address:        &b.Address,
				Source:         AddressSourceBankStatement,
				SupportingDocs: []string{b.SourceName},
			}
		}
	}

	if !fiscal.IsZero() {
		return OperationalAddressResolution{
			Address:        fiscal,
			Source:         AddressSourceTaxProfile,
			SupportingDocs: []string{AddressSourceTaxProfile},
			Note:           "no operational evidence; fiscal address used as fallback",
		}
	}

	return OperationalAddressResolution{Note: "no address evidence available"}
}
