package validation

import (
	"time"

	"github.com/veridocs/kycengine/internal/domain/document"
	"github.com/veridocs/kycengine/internal/domain/freshness"
	"github.com/veridocs/kycengine/internal/domain/ownership"
	"github.com/veridocs/kycengine/internal/domain/profile"
	"github.com/veridocs/kycengine/internal/domain/signatory"
)

// Result is the validation verdict: flat flags plus an overall score in
// [0,1].  It is a plain JSON-serializable record; accept/reject thresholds
// belong to an external policy layer.
type Result struct {
	Score       float64   `json:"score"`
	Flags       []Flag    `json:"flags"`
	GeneratedAt time.Time `json:"generated_at"`
}

// missingCategoryFlags maps each required category to its coverage flag.
var missingCategoryFlags = map[string]FlagCode{
	string(document.TypeActaConstitutiva): FlagMissingIncorporation,
	string(document.TypeSatConstancia):    FlagMissingTaxProfile,
	string(document.TypeTarjetaResidente): FlagMissingRepresentative,
	string(document.TypePassport):         FlagMissingPassport,
	"proof_of_address":                    FlagMissingProofOfAddress,
	string(document.TypeBankStatement):    FlagMissingBankStatement,
}

// staleFlags maps each freshness category to its staleness flag.
var staleFlags = map[freshness.Category]FlagCode{
	freshness.CategoryProofOfAddress: FlagStaleProofOfAddress,
	freshness.CategorySatConstancia:  FlagStaleSatConstancia,
	freshness.CategoryBankStatement:  FlagStaleBankStatement,
}

// Validate maps the shared evaluation to flags and a score.  Absence is
// converted into flags, never into errors.
func Validate(ev Evaluation) Result {
	var flags []Flag

	for _, cat := range ev.MissingCategories {
		if code, ok := missingCategoryFlags[cat]; ok {
			flags = append(flags, NewFlag(code).WithAction())
		}
	}

	flags = append(flags, identityFlags(ev)...)
	flags = append(flags, ownershipFlags(ev)...)
	flags = append(flags, signatoryFlags(ev)...)
	flags = append(flags, freshnessFlags(ev)...)
	flags = append(flags, addressFlags(ev)...)

	critical, warning, _ := CountByLevel(flags)
	return Result{
		Score:       score(ev.Policy, critical, warning, len(ev.MissingCategories)),
		Flags:       flags,
		GeneratedAt: ev.GeneratedAt,
	}
}

// score is monotone: every critical flag, warning flag, and missing category
// only ever lowers it.
func score(pol Policy, critical, warning, missing int) float64 {
	s := 1.0 -
		pol.CriticalPenalty*float64(critical) -
		pol.WarningPenalty*float64(warning) -
		pol.CoveragePenalty*float64(missing)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

func identityFlags(ev Evaluation) []Flag {
	var flags []Flag
	p := ev.Profile
	if p == nil {
		return nil
	}

	if p.CompanyIdentity != nil && !p.CompanyIdentity.HasRegistryNumber() {
		flags = append(flags, NewFlag(FlagMissingRegistryNumber))
	}
	if p.HasForeignMajorityOwnership() && !p.HasRegistrySlip(profile.RegistrySlipRNIE) {
		flags = append(flags, NewFlag(FlagMissingRNIE).WithAction())
	}

	// A deed printing an RFC is suspicious on its own, before any mismatch.
	if p.CompanyIdentity != nil && p.CompanyIdentity.RFC != nil && *p.CompanyIdentity.RFC != "" {
		flags = append(flags, NewFlag(FlagRFCInDeedSuspect, *p.CompanyIdentity.RFC))
	}

	if p.CompanyTaxProfile != nil && p.CompanyTaxProfile.RFC != "" &&
		!profile.ValidRFC(p.CompanyTaxProfile.RFC) {
		flags = append(flags, NewFlag(FlagRFCInvalid, p.CompanyTaxProfile.RFC))
	}

	for _, check := range ev.RFCChecks {
		if !check.Matches {
			flags = append(flags, NewFlag(FlagRFCMismatch, check.Source, check.Value, check.Authoritative))
		}
	}
	for _, check := range ev.NameChecks {
		if !check.Result.Matched {
			flags = append(flags, NewFlag(FlagNameMismatch, check.Source, check.Candidate, check.Authoritative))
		}
	}

	if p.RepresentativeIdentity != nil && p.RepresentativeIdentity.CURP != nil &&
		!profile.ValidCURP(*p.RepresentativeIdentity.CURP) {
		flags = append(flags, NewFlag(FlagCURPInvalid, *p.RepresentativeIdentity.CURP).WithAction())
	}
	for _, bank := range p.BankAccounts {
		if bank.CLABE != nil && *bank.CLABE != "" && !profile.ValidCLABE(*bank.CLABE) {
			flags = append(flags, NewFlag(FlagCLABEInvalid, *bank.CLABE).WithDocs(bank.SourceName))
		}
	}
	return flags
}

func ownershipFlags(ev Evaluation) []Flag {
	if len(ev.Ownership.Entries) == 0 {
		return nil
	}
	var flags []Flag

	if len(ev.Ownership.Ubos()) == 0 {
		indeterminate := false
		note := ""
		for _, e := range ev.Ownership.Entries {
			if e.ThresholdApplied == ownership.ThresholdIndeterminate {
				indeterminate = true
				note = e.Note
				break
			}
		}
		if indeterminate {
			flags = append(flags, NewFlag(FlagUboIndeterminate, note))
		} else {
			flags = append(flags, NewFlag(FlagUboNotIdentified).WithAction())
		}
	}

	switch ev.Equity.Verdict {
	case ownership.EquityNear100:
		flags = append(flags, NewFlag(FlagEquityNear100, deref(ev.Equity.Sum)))
	case ownership.EquityInconsistent:
		flags = append(flags, NewFlag(FlagEquityMismatch, deref(ev.Equity.Sum)))
	}
	return flags
}

func signatoryFlags(ev Evaluation) []Flag {
	if len(ev.Signatories) == 0 || signatory.HasFullSignatory(ev.Signatories) {
		return nil
	}
	return []Flag{NewFlag(FlagNoFullSignatory).WithAction()}
}

func freshnessFlags(ev Evaluation) []Flag {
	var flags []Flag
	for _, check := range ev.Freshness {
		// Missing categories are covered by coverage flags; staleness only
		// applies when a dated document exists and is too old.
		if check.LatestDate == nil || check.WithinThreshold {
			continue
		}
		f := NewFlag(staleFlags[check.DocType], deref(check.AgeInDays), check.ThresholdDays).
			WithDocs(check.SupportingDocuments...).WithAction()
		flags = append(flags, f)
	}
	return flags
}

func addressFlags(ev Evaluation) []Flag {
	if ev.Profile == nil {
		return nil
	}
	if ev.Address.Address == nil {
		return []Flag{NewFlag(FlagNoAddress)}
	}
	if ev.Address.Source == profile.AddressSourceTaxProfile {
		return []Flag{NewFlag(FlagAddressFallback)}
	}
	return nil
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
