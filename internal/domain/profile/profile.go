// Package profile defines the KYC data model — addresses, corporate and
// personal identities, evidentiary documents — and the two pure operations on
// it: operational-address precedence resolution and profile assembly.
//
// No validation logic lives here; the validator package derives flags and a
// score from an assembled profile.
package profile

import "time"

// KycProfile is the aggregate root: one coherent current-state view of a
// customer assembled from all extracted documents of a run.
type KycProfile struct {
	CustomerID string `json:"customer_id"`

	CompanyIdentity        *CompanyIdentity    `json:"company_identity,omitempty"`
	CompanyTaxProfile      *CompanyTaxProfile  `json:"company_tax_profile,omitempty"`
	RepresentativeIdentity *ImmigrationProfile `json:"representative_identity,omitempty"`
	PassportIdentity       *PassportIdentity   `json:"passport_identity,omitempty"`

	// Derived addresses.  FoundingAddress is informational; the founding
	// address never overwrites fiscal or operational addresses.
	FoundingAddress           *Address `json:"founding_address,omitempty"`
	CurrentFiscalAddress      *Address `json:"current_fiscal_address,omitempty"`
	CurrentOperationalAddress *Address `json:"current_operational_address,omitempty"`
	OperationalAddressSource  string   `json:"operational_address_source,omitempty"`

	AddressEvidence     []ProofOfAddress    `json:"address_evidence,omitempty"`
	BankAccounts        []BankIdentity      `json:"bank_accounts,omitempty"`
	HistoricalAddresses []HistoricalAddress `json:"historical_addresses,omitempty"`
	RegistryDocuments   []RegistrySlip      `json:"registry_documents,omitempty"`

	LastUpdatedAt time.Time `json:"last_updated_at"`
}

// HasForeignMajorityOwnership reports whether non-Mexican shareholders hold a
// strict majority of declared equity.  Unknown nationalities count as
// domestic so that missing data never manufactures a foreign-investment flag.
func (p *KycProfile) HasForeignMajorityOwnership() bool {
	if p.CompanyIdentity == nil {
		return false
	}
	var foreign, total float64
	for _, sh := range p.CompanyIdentity.Shareholders {
		if sh.Percentage == nil {
			continue
		}
		total += *sh.Percentage
		nat := sh.Nationality
		if nat != "" && nat != "MX" && nat != "MEX" && nat != "Mexicana" && nat != "mexicana" {
			foreign += *sh.Percentage
		}
	}
	return total > 0 && foreign > total/2
}

// HasRegistrySlip reports whether a registry document of the given kind is
// attached.
func (p *KycProfile) HasRegistrySlip(kind string) bool {
	for _, s := range p.RegistryDocuments {
		if s.Kind == kind {
			return true
		}
	}
	return false
}
