// Package match implements fuzzy equality of person and entity names.
//
// The matcher is deliberately strict: it uses token containment, never edit
// distance, so that two unrelated people sharing a common surname are not
// conflated.  A short name matches a longer one only when every significant
// token of the shorter name appears in the longer one.
package match

import (
	"sort"
	"strings"
)

// minTokenLen is the minimum length of a token that participates in matching.
// Shorter tokens ("DE", "LA", "Y") are connectives, not identity signal.
const minTokenLen = 3

// Normalize upper-cases a name, strips punctuation, and collapses whitespace.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		case r == 'Á':
			b.WriteRune('A')
		case r == 'É':
			b.WriteRune('E')
		case r == 'Í':
			b.WriteRune('I')
		case r == 'Ó':
			b.WriteRune('O')
		case r == 'Ú', r == 'Ü':
			b.WriteRune('U')
		case r == 'Ñ':
			b.WriteRune('Ñ')
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the significant tokens of a normalized name: whitespace
// separated, with tokens of length <= 2 dropped.
func Tokens(name string) []string {
	var out []string
	for _, tok := range strings.Fields(Normalize(name)) {
		if len([]rune(tok)) >= minTokenLen {
			out = append(out, tok)
		}
	}
	return out
}

// Result carries the evidence behind a match decision, consumed by the trace
// builder.
type Result struct {
	Matched       bool     `json:"matched"`
	Exact         bool     `json:"exact"`
	MatchedTokens []string `json:"matched_tokens,omitempty"`
	MissingTokens []string `json:"missing_tokens,omitempty"`
}

// Names reports whether two free-text names refer to the same person or
// entity.  Exact normalized equality matches immediately; otherwise every
// significant token of the smaller token set must appear in the larger one.
func Names(a, b string) bool {
	return Explain(a, b).Matched
}

// Explain performs the same computation as Names but returns the full
// evidence: which tokens of the smaller set were found in the larger and
// which were missing.
func Explain(a, b string) Result {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return Result{}
	}
	if na == nb {
		return Result{Matched: true, Exact: true, MatchedTokens: strings.Fields(na)}
	}

	ta, tb := Tokens(a), Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return Result{}
	}

	// The smaller set must be fully explained by the larger one.
	small, large := ta, tb
	if len(tb) < len(ta) {
		small, large = tb, ta
	}
	largeSet := make(map[string]bool, len(large))
	for _, tok := range large {
		largeSet[tok] = true
	}

	res := Result{Matched: true}
	for _, tok := range small {
		if largeSet[tok] {
			res.MatchedTokens = append(res.MatchedTokens, tok)
		} else {
			res.MissingTokens = append(res.MissingTokens, tok)
			res.Matched = false
		}
	}
	sort.Strings(res.MatchedTokens)
	sort.Strings(res.MissingTokens)
	return res
}

// FindUnique returns the index of the single candidate matching name, or -1
// when there is no match or more than one plausible match.  Ambiguity
// degrades to "no verified match" rather than guessing.
func FindUnique(name string, candidates []string) int {
	found := -1
	for i, c := range candidates {
		if Names(name, c) {
			if found >= 0 {
				return -1
			}
			found = i
		}
	}
	return found
}
