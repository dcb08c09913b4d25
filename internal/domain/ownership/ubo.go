// Package ownership computes beneficial-ownership facts from the shareholder
// roster: per-shareholder effective percentages, the UBO threshold test, and
// the equity-sum consistency check.
package ownership

import (
	"math"

	"github.com/veridocs/kycengine/internal/domain/profile"
)

// UboThreshold is the regulatory ownership percentage above which (strictly
// greater than) a shareholder is an ultimate beneficial owner.
const UboThreshold = 25.0

// Threshold application modes recorded on each entry for the audit trace.
const (
	ThresholdFromShares    = "recomputed_from_shares"
	ThresholdFromDeclared  = "declared_percentages"
	ThresholdExplicitFlag  = "explicit_beneficial_owner_flag"
	ThresholdIndeterminate = "indeterminate"
)

// Entry is the per-shareholder outcome of the UBO computation.
type Entry struct {
	Name               string   `json:"name"`
	Shares             *int64   `json:"shares,omitempty"`
	TotalShares        *int64   `json:"total_shares,omitempty"`
	ComputedPercentage *float64 `json:"computed_percentage,omitempty"`
	ThresholdApplied   string   `json:"threshold_applied"`
	IsUbo              bool     `json:"is_ubo"`
	Note               string   `json:"note,omitempty"`
}

// Resolution is the ordered list of entries plus roster-level facts.
type Resolution struct {
	Entries        []Entry `json:"entries"`
	TotalShares    *int64  `json:"total_shares,omitempty"`
	UsedShareCount bool    `json:"used_share_count"`
}

// round2 rounds to two decimals, the precision used for recorded percentages.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// Resolve computes the beneficial-ownership classification for each
// shareholder, preserving roster order.
//
// When every shareholder carries a raw share count, percentages are recomputed
// as shares/totalShares*100; declared percentages are never trusted in that
// case.  When any share count is missing, declared percentages are used as-is
// and the entries record that declared values were applied.  A zero total
// share count degrades to an indeterminate result with a note, never a
// division by zero.
func Resolve(shareholders []profile.Shareholder) Resolution {
	res := Resolution{}
	if len(shareholders) == 0 {
		return res
	}

	allShares := true
	var total int64
	for _, sh := range shareholders {
		if sh.Shares == nil {
			allShares = false
			break
		}
		total += *sh.Shares
	}

	if allShares && total > 0 {
		res.UsedShareCount = true
		res.TotalShares = &total
		for _, sh := range shareholders {
			pct := round2(float64(*sh.Shares) / float64(total) * 100)
			e := Entry{
				Name:               sh.Name,
				Shares:             sh.Shares,
				TotalShares:        &total,
				ComputedPercentage: &pct,
				ThresholdApplied:   ThresholdFromShares,
				IsUbo:              pct > UboThreshold,
			}
			if !e.IsUbo && sh.IsBeneficialOwner {
				e.IsUbo = true
				e.ThresholdApplied = ThresholdExplicitFlag
				e.Note = "below threshold but explicitly marked beneficial owner"
			}
			res.Entries = append(res.Entries, e)
		}
		return res
	}

	if allShares {
		// All counts present but they sum to zero: percentages are
		// indeterminate.  Explicit flags still apply.
		res.TotalShares = &total
		for _, sh := range shareholders {
			e := Entry{
				Name:             sh.Name,
				Shares:           sh.Shares,
				TotalShares:      &total,
				ThresholdApplied: ThresholdIndeterminate,
				Note:             "total share count is zero; percentage indeterminate",
			}
			if sh.IsBeneficialOwner {
				e.IsUbo = true
				e.ThresholdApplied = ThresholdExplicitFlag
			}
			res.Entries = append(res.Entries, e)
		}
		return res
	}

	// Fall back to declared percentages, no recomputation.
	for _, sh := range shareholders {
		e := Entry{
			Name:             sh.Name,
			Shares:           sh.Shares,
			ThresholdApplied: ThresholdFromDeclared,
		}
		if sh.Percentage != nil {
			pct := round2(*sh.Percentage)
			e.ComputedPercentage = &pct
			e.IsUbo = pct > UboThreshold
		} else {
			e.Note = "no shares or declared percentage available"
		}
		if !e.IsUbo && sh.IsBeneficialOwner {
			e.IsUbo = true
			e.ThresholdApplied = ThresholdExplicitFlag
			if e.Note == "" {
				e.Note = "below threshold but explicitly marked beneficial owner"
			}
		}
		res.Entries = append(res.Entries, e)
	}
	return res
}

// Ubos returns the subset of entries classified as beneficial owners,
// preserving order.
func (r Resolution) Ubos() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.IsUbo {
			out = append(out, e)
		}
	}
	return out
}
