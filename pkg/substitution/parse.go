// Package substitution parses amino-acid substitution descriptors such as
// "K2T" and applies ordered substitution lists to gene sequences.
package substitution

import (
	"regexp"
	"sort"
	"strconv"
)

var (
	canonicalPattern = regexp.MustCompile(`^([A-Za-z*])([0-9]+)([A-Za-z*])$`)
	embeddedPattern  = regexp.MustCompile(`([A-Za-z*])([0-9]+)([A-Za-z*])`)
	mixedPattern     = regexp.MustCompile(`^[A-Za-z*][0-9]+[A-Za-z*]-[A-Za-z*]$`)
)

// Substitution is a parsed descriptor. Position is 1-based.
type Substitution struct {
	Descriptor string
	From       byte
	Position   int
	To         byte
}

// String returns the descriptor the substitution was parsed from.
func (s Substitution) String() string { return s.Descriptor }

// offset converts the external 1-based position to a string index.
func (s Substitution) offset() int { return s.Position - 1 }

// Parse parses a descriptor of the form <residue><position><residue>.
//
// Descriptors carrying extra characters around a canonical core ("A45T-I",
// "A-A45T") denote a mixed population and yield a *MixedPopulationError.
// Anything else that does not match the grammar, or a descriptor whose two
// residues are equal, yields a *FormatError.
func Parse(descriptor string) (Substitution, error) {
	if m := canonicalPattern.FindStringSubmatch(descriptor); m != nil {
		pos, err := strconv.Atoi(m[2])
		if err != nil || pos < 1 {
			return Substitution{}, &FormatError{Descriptor: descriptor, Reason: "position must be a positive integer"}
		}
		if m[1] == m[3] {
			return Substitution{}, &FormatError{Descriptor: descriptor, Reason: "residues before and after are identical"}
		}
		return Substitution{Descriptor: descriptor, From: m[1][0], Position: pos, To: m[3][0]}, nil
	}
	if embeddedPattern.MatchString(descriptor) {
		return Substitution{}, &MixedPopulationError{Descriptor: descriptor}
	}
	return Substitution{}, &FormatError{Descriptor: descriptor, Reason: "expected <residue><position><residue>"}
}

// Components returns the residue before, the 1-based position and the residue
// after for a descriptor.
func Components(descriptor string) (string, int, string, error) {
	sub, err := Parse(descriptor)
	if err != nil {
		return "", 0, "", err
	}
	return string(sub.From), sub.Position, string(sub.To), nil
}

// IsMixed reports whether descriptor has the mixed population shape
// <residue><position><residue>-<residue>.
func IsMixed(descriptor string) bool {
	return mixedPattern.MatchString(descriptor)
}

// Position returns the position embedded in a descriptor, or 0 when none can
// be found. Mixed population descriptors are accepted.
func Position(descriptor string) int {
	m := embeddedPattern.FindStringSubmatch(descriptor)
	if m == nil {
		return 0
	}
	pos, err := strconv.Atoi(m[2])
	if err != nil {
		return 0
	}
	return pos
}

// SortByPosition returns a copy of descriptors ordered by position, then
// lexically.
func SortByPosition(descriptors []string) []string {
	out := make([]string, len(descriptors))
	copy(out, descriptors)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := Position(out[i]), Position(out[j])
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}
