// Package names extracts substitution descriptors from free-text strain names
// and compares them with the substitutions recorded on antigens and their
// ancestors.
package names

import (
	"antigenseq/pkg/domain"
	"antigenseq/pkg/substitution"
	"regexp"
)

var tokenPattern = regexp.MustCompile(`[A-Z][0-9]+[A-Z](-[A-Z])?`)

// Finder looks up records by id. *registry.Registry satisfies it.
type Finder interface {
	FindRecord(id string) (domain.Record, bool)
}

// Set is a set of substitution descriptors.
type Set map[string]struct{}

// NewSet builds a set from descriptors.
func NewSet(descriptors ...string) Set {
	s := make(Set, len(descriptors))
	for _, d := range descriptors {
		s[d] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(d string) bool {
	_, ok := s[d]
	return ok
}

// Union returns s ∪ other.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for d := range s {
		out[d] = struct{}{}
	}
	for d := range other {
		out[d] = struct{}{}
	}
	return out
}

// Difference returns s \ other.
func (s Set) Difference(other Set) Set {
	out := make(Set)
	for d := range s {
		if !other.Has(d) {
			out[d] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members ordered by position.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	return substitution.SortByPosition(out)
}

// ExtractSubstitutions scans text for tokens shaped <residue><position><residue>
// or <residue><position><residue>-<residue>. Tokens must not be glued to
// surrounding letters or digits, so "2005NA" or "PR8" never match.
func ExtractSubstitutions(text string) Set {
	out := make(Set)
	for _, loc := range tokenPattern.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isAlnum(text[start-1]) {
			continue
		}
		if end < len(text) && isAlnum(text[end]) {
			if loc[2] < 0 {
				continue
			}
			// "K140R-HA": the suffix belongs to the next token.
			end = loc[2]
		}
		out[text[start:end]] = struct{}{}
	}
	return out
}

func isAlnum(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

// OwnSubstitutions is the union of descriptors across every alteration on rec.
func OwnSubstitutions(rec domain.Record) Set {
	return NewSet(rec.AllSubstitutions()...)
}

// AncestorSubstitutions is the union of OwnSubstitutions over every strict
// ancestor of rec, following main and alteration parents.
func AncestorSubstitutions(f Finder, rec domain.Record) (Set, error) {
	out := make(Set)
	visited := map[string]struct{}{rec.ID: {}}
	queue := rec.ParentIDs()
	for _, id := range queue {
		visited[id] = struct{}{}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		anc, ok := f.FindRecord(id)
		if !ok {
			return nil, domain.MissingRecordError{ID: id}
		}
		for _, d := range anc.AllSubstitutions() {
			out[d] = struct{}{}
		}
		for _, p := range anc.ParentIDs() {
			if _, seen := visited[p]; !seen {
				visited[p] = struct{}{}
				queue = append(queue, p)
			}
		}
	}
	return out, nil
}

// RemoveMixedSubs drops mixed population descriptors.
func RemoveMixedSubs(s Set) Set {
	out := make(Set, len(s))
	for d := range s {
		if !substitution.IsMixed(d) {
			out[d] = struct{}{}
		}
	}
	return out
}

// onlyMixed reports whether every member is a mixed population descriptor.
func onlyMixed(s Set) bool {
	return len(RemoveMixedSubs(s)) == 0
}

// SubsInAlterationsNotInName returns the record's own substitutions missing
// from its long name. A difference made up only of mixed population
// descriptors is reported as empty.
func SubsInAlterationsNotInName(rec domain.Record) Set {
	diff := OwnSubstitutions(rec).Difference(ExtractSubstitutions(rec.LongName))
	if onlyMixed(diff) {
		return Set{}
	}
	return diff
}

// SubsInNameNotInAlterations returns substitutions named in the long name
// that neither the record nor its ancestors declare. Mixed-only differences
// are reported as empty.
func SubsInNameNotInAlterations(f Finder, rec domain.Record) (Set, error) {
	anc, err := AncestorSubstitutions(f, rec)
	if err != nil {
		return nil, err
	}
	diff := ExtractSubstitutions(rec.LongName).Difference(OwnSubstitutions(rec).Union(anc))
	if onlyMixed(diff) {
		return Set{}, nil
	}
	return diff, nil
}
