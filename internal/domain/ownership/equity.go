package ownership

import (
	"fmt"
	"math"

	"github.com/veridocs/kycengine/internal/domain/profile"
)

// Equity-sum tolerances.  Declared percentages that deviate from 100 by more
// than InconsistencyTolerance are an inconsistency; a deviation within
// (NearTolerance, InconsistencyTolerance] is rounding noise worth surfacing
// but not alarming.
const (
	NearTolerance          = 0.01
	InconsistencyTolerance = 0.5
)

// Equity consistency verdicts.
type EquityVerdict string

const (
	EquityConsistent    EquityVerdict = "consistent"
	EquityNear100       EquityVerdict = "near_100"
	EquityInconsistent  EquityVerdict = "inconsistent"
	EquityIndeterminate EquityVerdict = "indeterminate"
)

// EquityCheck is the outcome of summing the roster's ownership percentages.
type EquityCheck struct {
	Verdict EquityVerdict `json:"verdict"`
	Sum     *float64      `json:"sum,omitempty"`
	Detail  string        `json:"detail,omitempty"`
}

// CheckEquity sums the effective ownership percentages and classifies the
// deviation from 100 using the default tolerances.
func CheckEquity(shareholders []profile.Shareholder) EquityCheck {
	return CheckEquityWithTolerance(shareholders, NearTolerance, InconsistencyTolerance)
}

// CheckEquityWithTolerance is CheckEquity with operator-tuned tolerances.  It
// prefers recomputed percentages (which by construction sum to 100 up to
// rounding) and otherwise sums the declared ones.  A roster where no
// percentage can be established is indeterminate.
func CheckEquityWithTolerance(shareholders []profile.Shareholder, near, tolerance float64) EquityCheck {
	if len(shareholders) == 0 {
		return EquityCheck{Verdict: EquityIndeterminate, Detail: "no shareholders on record"}
	}

	res := Resolve(shareholders)
	var sum float64
	known := 0
	for _, e := range res.Entries {
		if e.ComputedPercentage != nil {
			sum += *e.ComputedPercentage
			known++
		}
	}
	if known == 0 {
		return EquityCheck{Verdict: EquityIndeterminate, Detail: "no ownership percentages available"}
	}
	if known < len(res.Entries) {
		s := round2(sum)
		return EquityCheck{
			Verdict: EquityIndeterminate,
			Sum:     &s,
			Detail:  fmt.Sprintf("percentages known for %d of %d shareholders", known, len(res.Entries)),
		}
	}

	s := round2(sum)
	dev := math.Abs(s - 100)
	switch {
	case dev <= near:
		return EquityCheck{Verdict: EquityConsistent, Sum: &s}
	case dev <= tolerance:
		return EquityCheck{
			Verdict: EquityNear100,
			Sum:     &s,
			Detail:  fmt.Sprintf("percentages sum to %.2f; deviation %.2f looks like rounding", s, dev),
		}
	default:
		return EquityCheck{
			Verdict: EquityInconsistent,
			Sum:     &s,
			Detail:  fmt.Sprintf("percentages sum to %.2f, expected 100", s),
		}
	}
}
