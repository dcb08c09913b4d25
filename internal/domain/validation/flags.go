package validation

import "fmt"

// FlagCode is the stable machine-routable identifier of a finding.  Closed
// enumeration: downstream citation lookup and reporting map on Code alone,
// never on Message.
type FlagCode string

const (
	// Coverage.
	FlagMissingIncorporation  FlagCode = "MISSING_INCORPORATION"
	FlagMissingTaxProfile     FlagCode = "MISSING_TAX_PROFILE"
	FlagMissingRepresentative FlagCode = "MISSING_REPRESENTATIVE_ID"
	FlagMissingPassport       FlagCode = "MISSING_PASSPORT"
	FlagMissingProofOfAddress FlagCode = "MISSING_PROOF_OF_ADDRESS"
	FlagMissingBankStatement  FlagCode = "MISSING_BANK_STATEMENT"
	FlagMissingRegistryNumber FlagCode = "MISSING_REGISTRY_NUMBER"
	FlagMissingRNIE           FlagCode = "MISSING_FOREIGN_INVESTMENT_REGISTRATION"

	// Identity consistency.
	FlagRFCMismatch      FlagCode = "RFC_MISMATCH"
	FlagNameMismatch     FlagCode = "NAME_MISMATCH"
	FlagRFCInDeedSuspect FlagCode = "RFC_IN_DEED_SUSPICIOUS"
	FlagRFCInvalid       FlagCode = "RFC_INVALID"
	FlagCURPInvalid      FlagCode = "CURP_INVALID"
	FlagCLABEInvalid     FlagCode = "CLABE_INVALID"

	// Ownership.
	FlagUboNotIdentified FlagCode = "UBO_NOT_IDENTIFIED"
	FlagUboIndeterminate FlagCode = "UBO_INDETERMINATE"
	FlagEquityNear100    FlagCode = "EQUITY_NEAR_100"
	FlagEquityMismatch   FlagCode = "EQUITY_INCONSISTENT"

	// Signing authority.
	FlagNoFullSignatory FlagCode = "NO_FULL_SIGNATORY"

	// Freshness.
	FlagStaleProofOfAddress FlagCode = "DOC_STALE_PROOF_OF_ADDRESS"
	FlagStaleSatConstancia  FlagCode = "DOC_STALE_SAT_CONSTANCIA"
	FlagStaleBankStatement  FlagCode = "DOC_STALE_BANK_STATEMENT"

	// Address.
	FlagAddressFallback FlagCode = "OPERATIONAL_ADDRESS_FALLBACK"
	FlagNoAddress       FlagCode = "NO_OPERATIONAL_ADDRESS"
)

// Level grades a flag's severity.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Flag is one finding.  Message is purely presentational, generated from
// Code plus the computed values at emission time.
type Flag struct {
	Code           FlagCode `json:"code"`
	Level          Level    `json:"level"`
	Message        string   `json:"message"`
	ActionRequired bool     `json:"action_required,omitempty"`
	SupportingDocs []string `json:"supporting_docs,omitempty"`
}

// flagLevels fixes the severity per code.
var flagLevels = map[FlagCode]Level{
	FlagMissingIncorporation:  LevelCritical,
	FlagMissingTaxProfile:     LevelCritical,
	FlagMissingRepresentative: LevelWarning,
	FlagMissingPassport:       LevelWarning,
	FlagMissingProofOfAddress: LevelWarning,
	FlagMissingBankStatement:  LevelWarning,
	FlagMissingRegistryNumber: LevelWarning,
	FlagMissingRNIE:           LevelCritical,

	FlagRFCMismatch:      LevelCritical,
	FlagNameMismatch:     LevelWarning,
	FlagRFCInDeedSuspect: LevelWarning,
	FlagRFCInvalid:       LevelWarning,
	FlagCURPInvalid:      LevelWarning,
	FlagCLABEInvalid:     LevelWarning,

	FlagUboNotIdentified: LevelCritical,
	FlagUboIndeterminate: LevelWarning,
	FlagEquityNear100:    LevelInfo,
	FlagEquityMismatch:   LevelWarning,

	FlagNoFullSignatory: LevelCritical,

	FlagStaleProofOfAddress: LevelWarning,
	FlagStaleSatConstancia:  LevelWarning,
	FlagStaleBankStatement:  LevelWarning,

	FlagAddressFallback: LevelInfo,
	FlagNoAddress:       LevelWarning,
}

// flagMessages holds the presentational templates.  Formatting stays in this
// one place so routing code never touches Message.
var flagMessages = map[FlagCode]string{
	FlagMissingIncorporation:  "incorporation deed (acta constitutiva) not provided",
	FlagMissingTaxProfile:     "SAT tax certificate (constancia de situación fiscal) not provided",
	FlagMissingRepresentative: "immigration/ID document for the legal representative not provided",
	FlagMissingPassport:       "passport for the legal representative not provided",
	FlagMissingProofOfAddress: "no proof-of-address document provided",
	FlagMissingBankStatement:  "no bank statement provided",
	FlagMissingRegistryNumber: "incorporation deed carries no commercial-registry number (FME/folio)",
	FlagMissingRNIE:           "foreign-majority ownership without RNIE registration (constancia)",

	FlagRFCMismatch:      "RFC on %s (%s) does not match the tax-authority RFC (%s)",
	FlagNameMismatch:     "name on %s (%q) does not match the tax-authority razón social (%q)",
	FlagRFCInDeedSuspect: "incorporation deed carries an RFC (%s); deeds almost never print one",
	FlagRFCInvalid:       "RFC %q does not have a valid shape",
	FlagCURPInvalid:      "CURP %q is not exactly 18 valid characters",
	FlagCLABEInvalid:     "CLABE %q is not exactly 18 digits",

	FlagUboNotIdentified: "no shareholder qualifies as ultimate beneficial owner",
	FlagUboIndeterminate: "beneficial ownership indeterminate: %s",
	FlagEquityNear100:    "declared equity sums to %.2f%%; deviation looks like rounding",
	FlagEquityMismatch:   "declared equity sums to %.2f%%, expected 100%%",

	FlagNoFullSignatory: "no representative holds full unqualified signing powers",

	FlagStaleProofOfAddress: "latest proof of address is %d days old (threshold %d)",
	FlagStaleSatConstancia:  "latest SAT constancia is %d days old (threshold %d)",
	FlagStaleBankStatement:  "latest bank statement is %d days old (threshold %d)",

	FlagAddressFallback: "operational address fell back to the fiscal address",
	FlagNoAddress:       "no evidence available for an operational address",
}

// NewFlag builds a flag for code, formatting the presentational message from
// the computed values.
func NewFlag(code FlagCode, args ...any) Flag {
	msg := flagMessages[code]
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return Flag{
		Code:    code,
		Level:   flagLevels[code],
		Message: msg,
	}
}

// WithDocs attaches supporting document names.
func (f Flag) WithDocs(docs ...string) Flag {
	f.SupportingDocs = append(f.SupportingDocs, docs...)
	return f
}

// WithAction marks the flag as requiring applicant action.
func (f Flag) WithAction() Flag {
	f.ActionRequired = true
	return f
}

// CountByLevel tallies flags per severity.
func CountByLevel(flags []Flag) (critical, warning, info int) {
	for _, f := range flags {
		switch f.Level {
		case LevelCritical:
			critical++
		case LevelWarning:
			warning++
		case LevelInfo:
			info++
		}
	}
	return
}
