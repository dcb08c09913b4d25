// Package signatory classifies the signing authority of each legal
// representative from the power-of-attorney scope extracted out of the
// incorporation deed.
package signatory

import (
	"strings"

	"github.com/veridocs/kycengine/internal/domain/match"
	"github.com/veridocs/kycengine/internal/domain/profile"
)

// Scope is the signing-authority classification for one representative.
type Scope string

const (
	// ScopeFull: holds all four canonical powers, unqualified, and may
	// sign contracts.
	ScopeFull Scope = "full"
	// ScopeLimited: holds at least one power but not the unqualified full
	// set.
	ScopeLimited Scope = "limited"
	// ScopeNone: no recognized power grant.  Comisarios always land here.
	ScopeNone Scope = "none"
)

// The four canonical powers a Mexican power of attorney enumerates.  All
// four, unqualified, are required for a full apoderado.
var canonicalPowers = []string{
	"pleitos y cobranzas",
	"actos de administración",
	"actos de dominio",
	"títulos de crédito",
}

// Qualifiers that restrict a power grant when attached to its phrase.
var limitingQualifiers = []string{
	"limitado",
	"limitada",
	"especial",
	"solo",
	"sólo",
	"únicamente",
	"unicamente",
}

// Classification is the outcome for a single representative, carrying the
// evidence the trace renders verbatim.
type Classification struct {
	Name                   string   `json:"name"`
	Role                   string   `json:"role,omitempty"`
	Scope                  Scope    `json:"scope"`
	MatchedPowers          []string `json:"matched_powers,omitempty"`
	MissingPowers          []string `json:"missing_powers,omitempty"`
	LimitationNotes        []string `json:"limitation_notes,omitempty"`
	JointSignatureRequired bool     `json:"joint_signature_required"`
	ExcludedAsComisario    bool     `json:"excluded_as_comisario,omitempty"`
}

// normalizePower lowercases and strips accents so that extractor variation in
// casing or diacritics does not hide a power grant.
func normalizePower(s string) string {
	return strings.ToLower(match.Normalize(s))
}

// powerEntryFor finds the poder_scope entry containing the canonical phrase,
// returning the raw entry and ok.
func powerEntryFor(scope []string, canonical string) (string, bool) {
	want := normalizePower(canonical)
	for _, raw := range scope {
		if strings.Contains(normalizePower(raw), want) {
			return raw, true
		}
	}
	return "", false
}

// limitationIn reports the first limiting qualifier found in the raw power
// entry, if any.
func limitationIn(raw string) (string, bool) {
	norm := normalizePower(raw)
	for _, q := range limitingQualifiers {
		if strings.Contains(norm, normalizePower(q)) {
			return q, true
		}
	}
	return "", false
}

// ClassifyOne classifies a single representative.  isComisario reports
// whether the name belongs to the supervisory officer; a comisario is never a
// signatory regardless of power text.
func ClassifyOne(rep profile.LegalRepresentative, isComisario bool) Classification {
	c := Classification{
		Name:                   rep.Name,
		Role:                   rep.Role,
		Scope:                  ScopeNone,
		JointSignatureRequired: rep.JointSignatureRequired,
	}
	if isComisario {
		c.ExcludedAsComisario = true
		c.LimitationNotes = append(c.LimitationNotes, "comisario: supervisory officer, never eligible as signatory")
		return c
	}
	if !rep.HasPoder || len(rep.PoderScope) == 0 {
		return c
	}

	limited := false
	for _, canonical := range canonicalPowers {
		raw, ok := powerEntryFor(rep.PoderScope, canonical)
		if !ok {
			c.MissingPowers = append(c.MissingPowers, canonical)
			continue
		}
		c.MatchedPowers = append(c.MatchedPowers, canonical)
		if q, found := limitationIn(raw); found {
			limited = true
			c.LimitationNotes = append(c.LimitationNotes, "qualifier \""+q+"\" attached to \""+canonical+"\"")
		}
	}

	switch {
	case len(c.MatchedPowers) == 0:
		c.Scope = ScopeNone
	case len(c.MissingPowers) == 0 && !limited && rep.CanSignContracts:
		c.Scope = ScopeFull
	default:
		c.Scope = ScopeLimited
		if len(c.MissingPowers) == 0 && !limited && !rep.CanSignContracts {
			c.LimitationNotes = append(c.LimitationNotes, "full power set but cannot sign contracts")
		}
	}
	return c
}

// Classify classifies every representative, excluding comisarios by name
// match.  Order follows the input roster.
func Classify(reps []profile.LegalRepresentative, comisarios []profile.Comisario) []Classification {
	out := make([]Classification, 0, len(reps))
	for _, rep := range reps {
		isCom := false
		for _, com := range comisarios {
			if match.Names(rep.Name, com.Name) {
				isCom = true
				break
			}
		}
		out = append(out, ClassifyOne(rep, isCom))
	}
	return out
}

// HasFullSignatory reports whether at least one representative classified as
// full.
func HasFullSignatory(cls []Classification) bool {
	for _, c := range cls {
		if c.Scope == ScopeFull {
			return true
		}
	}
	return false
}
