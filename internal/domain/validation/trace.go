package validation

import (
	"time"

	"github.com/veridocs/kycengine/internal/domain/match"
	"github.com/veridocs/kycengine/internal/domain/profile"
	"github.com/veridocs/kycengine/internal/domain/signatory"
)

// UboTrace re-states one beneficial-ownership entry with the evidence behind
// its classification.
type UboTrace struct {
	Name               string   `json:"name"`
	Shares             *int64   `json:"shares,omitempty"`
	TotalShares        *int64   `json:"total_shares,omitempty"`
	ComputedPercentage *float64 `json:"computed_percentage,omitempty"`
	ThresholdApplied   string   `json:"threshold_applied"`
	IsUbo              bool     `json:"is_ubo"`
	Note               string   `json:"note,omitempty"`
}

// AddressEvidenceTrace records which documents supported the operational
// address determination and which source level won the precedence.
type AddressEvidenceTrace struct {
	Source         string   `json:"source"`
	Selected       bool     `json:"selected"`
	SupportingDocs []string `json:"supporting_docs,omitempty"`
	Note           string   `json:"note,omitempty"`
}

// PowerTrace records the literal power phrases found and missing for one
// representative, plus the identity-match evidence against the personal ID
// document when one is on file.
type PowerTrace struct {
	Name            string        `json:"name"`
	Scope           string        `json:"scope"`
	MatchedPowers   []string      `json:"matched_powers,omitempty"`
	MissingPowers   []string      `json:"missing_powers,omitempty"`
	LimitationNotes []string      `json:"limitation_notes,omitempty"`
	IdentityMatch   *match.Result `json:"identity_match,omitempty"`
}

// FreshnessTrace restates one freshness determination with its supporting
// documents.
type FreshnessTrace struct {
	DocType        string   `json:"doc_type"`
	LatestDate     *string  `json:"latest_date"`
	AgeInDays      *int     `json:"age_in_days,omitempty"`
	ThresholdDays  int      `json:"threshold_days"`
	Within         bool     `json:"within_threshold"`
	SupportingDocs []string `json:"supporting_docs,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// TraceSection is the audit view of one evaluation: the same computed facts
// the validator flags on, restated with their justification.
type TraceSection struct {
	UboTraces             []UboTrace             `json:"ubo_traces,omitempty"`
	AddressEvidenceTraces []AddressEvidenceTrace `json:"address_evidence_traces,omitempty"`
	PowerTraces           []PowerTrace           `json:"power_traces,omitempty"`
	FreshnessTraces       []FreshnessTrace       `json:"freshness_traces,omitempty"`
	NameChecks            []NameCheck            `json:"name_checks,omitempty"`
	GeneratedAt           time.Time              `json:"generated_at"`
}

// BuildTrace maps the shared evaluation to its audit view.  It performs no
// computation of its own: every value is read from the evaluation the
// validator flagged on, so the two can never disagree.
func BuildTrace(ev Evaluation) TraceSection {
	ts := TraceSection{GeneratedAt: ev.GeneratedAt, NameChecks: ev.NameChecks}

	for _, e := range ev.Ownership.Entries {
		ts.UboTraces = append(ts.UboTraces, UboTrace(e))
	}

	ts.AddressEvidenceTraces = addressTraces(ev)

	for _, c := range ev.Signatories {
		ts.PowerTraces = append(ts.PowerTraces, powerTrace(ev, c))
	}

	for _, check := range ev.Freshness {
		ts.FreshnessTraces = append(ts.FreshnessTraces, FreshnessTrace{
			DocType:        string(check.DocType),
			LatestDate:     check.LatestDate,
			AgeInDays:      check.AgeInDays,
			ThresholdDays:  check.ThresholdDays,
			Within:         check.WithinThreshold,
			SupportingDocs: check.SupportingDocuments,
			Message:        check.Message,
		})
	}
	return ts
}

// addressTraces lists every precedence level with its candidate documents and
// marks the one that won.
func addressTraces(ev Evaluation) []AddressEvidenceTrace {
	p := ev.Profile
	if p == nil {
		return nil
	}
	var out []AddressEvidenceTrace

	var proofDocs []string
	for _, poa := range p.AddressEvidence {
		if poa.SourceName != "" {
			proofDocs = append(proofDocs, poa.SourceName)
		}
	}
	if len(proofDocs) > 0 {
		out = append(out, AddressEvidenceTrace{
			Source:         profile.AddressSourceProofOfAddr,
			Selected:       ev.Address.Source == profile.AddressSourceProofOfAddr,
			SupportingDocs: proofDocs,
		})
	}

	var bankDocs []string
	for _, bank := range p.BankAccounts {
		if bank.AddressMatchesOperational && bank.SourceName != "" {
			bankDocs = append(bankDocs, bank.SourceName)
		}
	}
	if len(bankDocs) > 0 {
		out = append(out, AddressEvidenceTrace{
			Source:         profile.AddressSourceBankStatement,
			Selected:       ev.Address.Source == profile.AddressSourceBankStatement,
			SupportingDocs: bankDocs,
		})
	}

	if p.CurrentFiscalAddress != nil {
		out = append(out, AddressEvidenceTrace{
			Source:   profile.AddressSourceTaxProfile,
			Selected: ev.Address.Source == profile.AddressSourceTaxProfile,
			Note:     "fiscal address; used for operations only as a fallback",
		})
	}

	if ev.Address.Address == nil {
		out = append(out, AddressEvidenceTrace{Source: "none", Note: ev.Address.Note})
	} else if ev.Address.Note != "" {
		for i := range out {
			if out[i].Selected {
				out[i].Note = ev.Address.Note
			}
		}
	}
	return out
}

// powerTrace attaches the representative-vs-ID name evidence when an identity
// document is on file.
func powerTrace(ev Evaluation, c signatory.Classification) PowerTrace {
	pt := PowerTrace{
		Name:            c.Name,
		Scope:           string(c.Scope),
		MatchedPowers:   c.MatchedPowers,
		MissingPowers:   c.MissingPowers,
		LimitationNotes: c.LimitationNotes,
	}
	if ev.Profile != nil && ev.Profile.RepresentativeIdentity != nil {
		r := match.Explain(c.Name, ev.Profile.RepresentativeIdentity.FullName)
		pt.IdentityMatch = &r
	}
	return pt
}
