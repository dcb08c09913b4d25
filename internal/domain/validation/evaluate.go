// Package validation orchestrates the resolvers over an assembled profile and
// derives both the flag/score verdict and the audit trace from one shared
// evaluation, so the two views can never disagree on a borderline case.
package validation

import (
	"time"

	"github.com/veridocs/kycengine/internal/domain/document"
	"github.com/veridocs/kycengine/internal/domain/freshness"
	"github.com/veridocs/kycengine/internal/domain/match"
	"github.com/veridocs/kycengine/internal/domain/ownership"
	"github.com/veridocs/kycengine/internal/domain/profile"
	"github.com/veridocs/kycengine/internal/domain/signatory"
)

// NameCheck records one name comparison against the legally authoritative
// razón social from the tax profile.  Mismatches are always flagged against
// the non-authoritative side.
type NameCheck struct {
	Source        string       `json:"source"`
	Candidate     string       `json:"candidate"`
	Authoritative string       `json:"authoritative"`
	Result        match.Result `json:"result"`
}

// RFCCheck records one RFC comparison against the tax-authority RFC.
type RFCCheck struct {
	Source        string `json:"source"`
	Value         string `json:"value"`
	Authoritative string `json:"authoritative"`
	Matches       bool   `json:"matches"`
}

// Evaluation is the one shared computation over an assembled profile.  The
// Validator maps it to flags and a score; the TraceBuilder maps the identical
// values to evidence records.
type Evaluation struct {
	Profile     *profile.KycProfile
	Policy      Policy
	GeneratedAt time.Time

	Ownership   ownership.Resolution
	Equity      ownership.EquityCheck
	Signatories []signatory.Classification
	Freshness   []freshness.Check
	Address     profile.OperationalAddressResolution

	NameChecks []NameCheck
	RFCChecks  []RFCCheck

	MissingCategories []string
}

// Evaluate runs every resolver once over the profile.  It is pure: the same
// profile, policy, and instant always produce the same evaluation.
func Evaluate(p *profile.KycProfile, pol Policy, now time.Time) Evaluation {
	ev := Evaluation{Profile: p, Policy: pol, GeneratedAt: now}
	if p == nil {
		ev.MissingCategories = document.RequiredCategories()
		return ev
	}

	if p.CompanyIdentity != nil {
		ev.Ownership = ownership.Resolve(p.CompanyIdentity.Shareholders)
		ev.Equity = ownership.CheckEquityWithTolerance(
			p.CompanyIdentity.Shareholders, pol.EquityNearTolerance, pol.EquityTolerance)
		ev.Signatories = signatory.Classify(
			p.CompanyIdentity.LegalRepresentatives, p.CompanyIdentity.Comisarios)
	}

	ev.Freshness = freshness.EvaluateAll(freshnessInput(p), now)
	ev.Address = profile.ResolveOperationalAddress(
		p.AddressEvidence, p.BankAccounts, p.CurrentFiscalAddress)

	ev.NameChecks = nameChecks(p)
	ev.RFCChecks = rfcChecks(p)
	ev.MissingCategories = missingCategories(p)
	return ev
}

// freshnessInput collects each category's dated documents from the profile.
func freshnessInput(p *profile.KycProfile) map[freshness.Category][]freshness.DatedDocument {
	in := make(map[freshness.Category][]freshness.DatedDocument)
	for _, poa := range p.AddressEvidence {
		d := freshness.DatedDocument{SourceName: poa.SourceName}
		if poa.IssueDate != nil {
			d.Date = *poa.IssueDate
		}
		in[freshness.CategoryProofOfAddress] = append(in[freshness.CategoryProofOfAddress], d)
	}
	if p.CompanyTaxProfile != nil {
		d := freshness.DatedDocument{SourceName: "constancia_situacion_fiscal"}
		if p.CompanyTaxProfile.IssueDate != nil {
			d.Date = *p.CompanyTaxProfile.IssueDate
		}
		in[freshness.CategorySatConstancia] = append(in[freshness.CategorySatConstancia], d)
	}
	for _, bank := range p.BankAccounts {
		d := freshness.DatedDocument{SourceName: bank.SourceName}
		if bank.PeriodEndDate != nil {
			d.Date = *bank.PeriodEndDate
		}
		in[freshness.CategoryBankStatement] = append(in[freshness.CategoryBankStatement], d)
	}
	return in
}

// nameChecks compares deed and bank names against the tax-authority razón
// social, which is the only authoritative identity.
func nameChecks(p *profile.KycProfile) []NameCheck {
	if p.CompanyTaxProfile == nil || p.CompanyTaxProfile.RazonSocial == "" {
		return nil
	}
	authoritative := p.CompanyTaxProfile.RazonSocial
	var out []NameCheck

	if p.CompanyIdentity != nil && p.CompanyIdentity.RazonSocial != "" {
		out = append(out, NameCheck{
			Source:        "incorporation_deed",
			Candidate:     p.CompanyIdentity.RazonSocial,
			Authoritative: authoritative,
			Result:        match.Explain(p.CompanyIdentity.RazonSocial, authoritative),
		})
	}
	for _, bank := range p.BankAccounts {
		if bank.HolderName == "" {
			continue
		}
		out = append(out, NameCheck{
			Source:        "bank_statement:" + bank.SourceName,
			Candidate:     bank.HolderName,
			Authoritative: authoritative,
			Result:        match.Explain(bank.HolderName, authoritative),
		})
	}
	return out
}

// rfcChecks compares deed and bank RFCs against the tax-authority RFC.
func rfcChecks(p *profile.KycProfile) []RFCCheck {
	if p.CompanyTaxProfile == nil || p.CompanyTaxProfile.RFC == "" {
		return nil
	}
	authoritative := p.CompanyTaxProfile.RFC
	var out []RFCCheck

	if p.CompanyIdentity != nil && p.CompanyIdentity.RFC != nil && *p.CompanyIdentity.RFC != "" {
		out = append(out, RFCCheck{
			Source:        "incorporation_deed",
			Value:         *p.CompanyIdentity.RFC,
			Authoritative: authoritative,
			Matches:       *p.CompanyIdentity.RFC == authoritative,
		})
	}
	for _, bank := range p.BankAccounts {
		if bank.RFC == nil || *bank.RFC == "" {
			continue
		}
		out = append(out, RFCCheck{
			Source:        "bank_statement:" + bank.SourceName,
			Value:         *bank.RFC,
			Authoritative: authoritative,
			Matches:       *bank.RFC == authoritative,
		})
	}
	return out
}

// missingCategories reports which required document categories the profile
// does not cover.
func missingCategories(p *profile.KycProfile) []string {
	present := map[string]bool{
		string(document.TypeActaConstitutiva): p.CompanyIdentity != nil,
		string(document.TypeSatConstancia):    p.CompanyTaxProfile != nil,
		string(document.TypeTarjetaResidente): p.RepresentativeIdentity != nil,
		string(document.TypePassport):         p.PassportIdentity != nil,
		"proof_of_address":                    len(p.AddressEvidence) > 0,
		string(document.TypeBankStatement):    len(p.BankAccounts) > 0,
	}
	var out []string
	for _, cat := range document.RequiredCategories() {
		if !present[cat] {
			out = append(out, cat)
		}
	}
	return out
}
