package profile

import "time"

// BuilderInput carries zero-or-one payload per simple document type and
// zero-or-many for the repeatable types.  The caller (run orchestration) is
// responsible for having run the modification merger first when multiple
// incorporation documents exist; CompanyIdentity here is the current state.
type BuilderInput struct {
	CustomerID             string
	CompanyIdentity        *CompanyIdentity
	CompanyTaxProfile      *CompanyTaxProfile
	RepresentativeIdentity *ImmigrationProfile
	PassportIdentity       *PassportIdentity
	ProofsOfAddress        []ProofOfAddress
	BankAccounts           []BankIdentity
	RegistryDocuments      []RegistrySlip
}

// Build assembles a KycProfile from the per-document payloads.  It is a pure
// function: building twice from the same input produces structurally equal
// profiles except for LastUpdatedAt, which the caller supplies as now.
//
// Assembly rules:
//   - the founding address goes into the historical list, never into
//     current fiscal or operational;
//   - the fiscal address comes exclusively from the tax profile;
//   - the operational address follows the precedence rule of
//     ResolveOperationalAddress;
//   - everything else is a structural copy.  No validation happens here.
func Build(in BuilderInput, now time.Time) *KycProfile {
	p := &KycProfile{
		CustomerID:             in.CustomerID,
		CompanyIdentity:        in.CompanyIdentity,
		CompanyTaxProfile:      in.CompanyTaxProfile,
		RepresentativeIdentity: in.RepresentativeIdentity,
		PassportIdentity:       in.PassportIdentity,
		AddressEvidence:        in.ProofsOfAddress,
		BankAccounts:           in.BankAccounts,
		RegistryDocuments:      in.RegistryDocuments,
		LastUpdatedAt:          now,
	}

	if in.CompanyIdentity != nil && !in.CompanyIdentity.FoundingAddress.IsZero() {
		p.FoundingAddress = in.CompanyIdentity.FoundingAddress
		p.HistoricalAddresses = append(p.HistoricalAddresses, HistoricalAddress{
			Source:  AddressSourceIncorporation,
			Address: *in.CompanyIdentity.FoundingAddress,
			Date:    in.CompanyIdentity.IncorporationDate,
		})
	}

	if in.CompanyTaxProfile != nil && !in.CompanyTaxProfile.FiscalAddress.IsZero() {
		p.CurrentFiscalAddress = in.CompanyTaxProfile.FiscalAddress
	}

	res := ResolveOperationalAddress(in.ProofsOfAddress, in.BankAccounts, p.CurrentFiscalAddress)
	p.CurrentOperationalAddress = res.Address
	p.OperationalAddressSource = res.Source

	return p
}
