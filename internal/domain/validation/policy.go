package validation

import "github.com/veridocs/kycengine/pkg/errors"

var (
	errNegativePenalty = errors.New(errors.ErrCodeValidation, "score penalties must be non-negative")
	errBadTolerance    = errors.New(errors.ErrCodeValidation, "equity tolerances must satisfy 0 <= near <= tolerance")
)

// Policy holds the tunable parameters of the validator.  The UBO threshold is
// a fixed regulatory constant and deliberately not part of it; equity
// tolerances and score weights are operator-tuned.
type Policy struct {
	// EquityNearTolerance bounds the deviation from 100 treated as rounding
	// noise; EquityTolerance bounds the deviation treated as acceptable at
	// all.
	EquityNearTolerance float64 `mapstructure:"equity_near_tolerance" json:"equity_near_tolerance"`
	EquityTolerance     float64 `mapstructure:"equity_tolerance" json:"equity_tolerance"`

	// Score penalties per critical flag, per warning flag, and per missing
	// required document category.  The score is 1 minus the summed
	// penalties, clamped to [0,1].
	CriticalPenalty float64 `mapstructure:"critical_penalty" json:"critical_penalty"`
	WarningPenalty  float64 `mapstructure:"warning_penalty" json:"warning_penalty"`
	CoveragePenalty float64 `mapstructure:"coverage_penalty" json:"coverage_penalty"`
}

// DefaultPolicy returns the tuning in production use.
func DefaultPolicy() Policy {
	return Policy{
		EquityNearTolerance: 0.01,
		EquityTolerance:     0.5,
		CriticalPenalty:     0.35,
		WarningPenalty:      0.05,
		CoveragePenalty:     0.10,
	}
}

// Validate checks the policy for values that would break score monotonicity.
func (p Policy) Validate() error {
	if p.CriticalPenalty < 0 || p.WarningPenalty < 0 || p.CoveragePenalty < 0 {
		return errNegativePenalty
	}
	if p.EquityNearTolerance < 0 || p.EquityTolerance < p.EquityNearTolerance {
		return errBadTolerance
	}
	return nil
}
