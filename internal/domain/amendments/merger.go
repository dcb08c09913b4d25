// Package amendments folds an ordered list of incorporation-document
// extractions (founding deed plus later protocolized amendments) into the
// company's current state plus a queryable change history.
package amendments

import (
	"fmt"
	"math"

	"github.com/veridocs/kycengine/internal/domain/match"
	"github.com/veridocs/kycengine/internal/domain/profile"
)

// EventType enumerates the recordable corporate changes.
type EventType string

const (
	EventAdded         EventType = "ADDED"
	EventSharesChanged EventType = "SHARES_CHANGED"
	EventRemoved       EventType = "REMOVED"
	EventPowersChanged EventType = "POWERS_CHANGED"
	EventReplaced      EventType = "REPLACED"
)

// Entity kinds an event can refer to.
const (
	EntityShareholder    = "shareholder"
	EntityRepresentative = "legal_representative"
	EntityComisario      = "comisario"
)

// Deed is one incorporation-document extraction in the ordered input.
// IsOriginal is true only for the founding deed.
type Deed struct {
	IsOriginal bool
	SourceName string
	Identity   profile.CompanyIdentity
}

// Event is one recorded change, attributed to the amendment that caused it.
type Event struct {
	Type       EventType `json:"type"`
	Entity     string    `json:"entity"`
	Name       string    `json:"name"`
	Detail     string    `json:"detail,omitempty"`
	SourceName string    `json:"source_name,omitempty"`
}

// Result carries the merged current state and the full change log.  Current
// holds the post-merge roster with zero-share holders filtered out; History
// remains queryable for every holder the company ever had.
type Result struct {
	Current profile.CompanyIdentity `json:"current"`
	History []Event                 `json:"history"`
}

// i64 and f64 dereference with a zero default, used only for comparisons.
func i64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func f64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// samePowerSet compares two poder scopes as order-independent sets.
func samePowerSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, p := range a {
		for i, q := range b {
			if !used[i] && match.Normalize(p) == match.Normalize(q) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// findShareholder locates the unique roster entry matching name, or -1 when
// no match or an ambiguous one exists.
func findShareholder(roster []profile.Shareholder, name string) int {
	names := make([]string, len(roster))
	for i, sh := range roster {
		names[i] = sh.Name
	}
	return match.FindUnique(name, names)
}

func findRepresentative(reps []profile.LegalRepresentative, name string) int {
	names := make([]string, len(reps))
	for i, r := range reps {
		names[i] = r.Name
	}
	return match.FindUnique(name, names)
}

// Merge folds the amendments over the founding deed.  The original is moved
// to the front if it is not already there; the relative order of amendments
// is preserved as given.  The fold threads explicit state forward and takes
// no input from the clock, so the same ordered input always produces the same
// current state and the same history.
func Merge(deeds []Deed) Result {
	ordered := make([]Deed, 0, len(deeds))
	for _, d := range deeds {
		if d.IsOriginal {
			ordered = append(ordered, d)
		}
	}
	for _, d := range deeds {
		if !d.IsOriginal {
			ordered = append(ordered, d)
		}
	}
	if len(ordered) == 0 {
		return Result{}
	}

	state := cloneIdentity(ordered[0].Identity)
	var history []Event

	for _, amendment := range ordered[1:] {
		state, history = applyAmendment(state, amendment, history)
	}

	state.Shareholders = finalizeRoster(state.Shareholders)
	return Result{Current: state, History: history}
}

// cloneIdentity deep-copies the merge-relevant slices so amendments never
// mutate caller-owned payloads.
func cloneIdentity(id profile.CompanyIdentity) profile.CompanyIdentity {
	out := id
	out.Shareholders = append([]profile.Shareholder(nil), id.Shareholders...)
	out.LegalRepresentatives = append([]profile.LegalRepresentative(nil), id.LegalRepresentatives...)
	out.Comisarios = append([]profile.Comisario(nil), id.Comisarios...)
	out.Modifications = append([]string(nil), id.Modifications...)
	return out
}

func applyAmendment(state profile.CompanyIdentity, am Deed, history []Event) (profile.CompanyIdentity, []Event) {
	mentioned := make([]bool, len(state.Shareholders))

	for _, sh := range am.Identity.Shareholders {
		idx := findShareholder(state.Shareholders, sh.Name)
		if idx < 0 {
			history = append(history, Event{
				Type:       EventAdded,
				Entity:     EntityShareholder,
				Name:       sh.Name,
				SourceName: am.SourceName,
			})
			state.Shareholders = append(state.Shareholders, sh)
			mentioned = append(mentioned, true)
			continue
		}
		mentioned[idx] = true
		cur := state.Shareholders[idx]
		if i64(cur.Shares) != i64(sh.Shares) || f64(cur.Percentage) != f64(sh.Percentage) {
			history = append(history, Event{
				Type:       EventSharesChanged,
				Entity:     EntityShareholder,
				Name:       cur.Name,
				Detail:     fmt.Sprintf("shares %d -> %d", i64(cur.Shares), i64(sh.Shares)),
				SourceName: am.SourceName,
			})
			state.Shareholders[idx].Shares = sh.Shares
			state.Shareholders[idx].Percentage = sh.Percentage
		}
	}

	// A holder silent in a later document is presumed divested: zeroed out
	// and recorded, never silently dropped.
	if len(am.Identity.Shareholders) > 0 {
		zero := int64(0)
		zeroPct := 0.0
		for i := range state.Shareholders {
			if i < len(mentioned) && mentioned[i] {
				continue
			}
			if i64(state.Shareholders[i].Shares) == 0 && f64(state.Shareholders[i].Percentage) == 0 {
				continue
			}
			history = append(history, Event{
				Type:       EventRemoved,
				Entity:     EntityShareholder,
				Name:       state.Shareholders[i].Name,
				Detail:     "not mentioned in later document, presumed divested",
				SourceName: am.SourceName,
			})
			state.Shareholders[i].Shares = &zero
			state.Shareholders[i].Percentage = &zeroPct
		}
	}

	for _, rep := range am.Identity.LegalRepresentatives {
		idx := findRepresentative(state.LegalRepresentatives, rep.Name)
		if idx < 0 {
			history = append(history, Event{
				Type:       EventAdded,
				Entity:     EntityRepresentative,
				Name:       rep.Name,
				SourceName: am.SourceName,
			})
			state.LegalRepresentatives = append(state.LegalRepresentatives, rep)
			continue
		}
		if !samePowerSet(state.LegalRepresentatives[idx].PoderScope, rep.PoderScope) {
			history = append(history, Event{
				Type:       EventPowersChanged,
				Entity:     EntityRepresentative,
				Name:       state.LegalRepresentatives[idx].Name,
				SourceName: am.SourceName,
			})
			state.LegalRepresentatives[idx] = rep
		}
	}

	for _, com := range am.Identity.Comisarios {
		if len(state.Comisarios) == 0 {
			state.Comisarios = []profile.Comisario{com}
			history = append(history, Event{
				Type:       EventAdded,
				Entity:     EntityComisario,
				Name:       com.Name,
				SourceName: am.SourceName,
			})
			continue
		}
		if !match.Names(state.Comisarios[0].Name, com.Name) {
			history = append(history, Event{
				Type:       EventReplaced,
				Entity:     EntityComisario,
				Name:       com.Name,
				Detail:     fmt.Sprintf("replaces %s", state.Comisarios[0].Name),
				SourceName: am.SourceName,
			})
			state.Comisarios[0] = com
		}
	}

	state.Modifications = append(state.Modifications, am.Identity.Modifications...)
	return state, history
}

// finalizeRoster recomputes percentages from final share counts when every
// holder has one, then drops zero-share holders from the active roster.
func finalizeRoster(roster []profile.Shareholder) []profile.Shareholder {
	allShares := true
	var total int64
	for _, sh := range roster {
		if sh.Shares == nil {
			allShares = false
			break
		}
		total += *sh.Shares
	}
	if allShares && total > 0 {
		for i := range roster {
			pct := math.Round(float64(*roster[i].Shares)/float64(total)*100*100) / 100
			roster[i].Percentage = &pct
		}
	}

	active := make([]profile.Shareholder, 0, len(roster))
	for _, sh := range roster {
		if sh.Shares != nil && *sh.Shares == 0 {
			continue
		}
		active = append(active, sh)
	}
	return active
}

// EventsOf filters the history by event type, preserving order.
func (r Result) EventsOf(t EventType) []Event {
	var out []Event
	for _, e := range r.History {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
