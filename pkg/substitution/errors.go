package substitution

import (
	"errors"
	"fmt"
)

// FormatError reports a malformed descriptor.
type FormatError struct {
	Descriptor string
	Reason     string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("substitution %q malformed: %s", e.Descriptor, e.Reason)
}

// MixedPopulationError reports a descriptor describing a mixed population of
// residues at one site ("D1D-K"). It is not a format defect: callers commonly
// treat the affected gene as unresolved and continue.
type MixedPopulationError struct {
	Descriptor string
}

func (e *MixedPopulationError) Error() string {
	return fmt.Sprintf("substitution %q describes a mixed population", e.Descriptor)
}

// EmptySequenceError is returned when substitutions are applied to an empty
// sequence.
type EmptySequenceError struct {
	Substitutions []string
}

func (e *EmptySequenceError) Error() string {
	return fmt.Sprintf("cannot apply %v to an empty sequence", e.Substitutions)
}

// InconsistentError reports a substitution whose residue before does not
// match the sequence at its position.
type InconsistentError struct {
	Descriptor string
	Position   int
	Found      byte
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("sequence inconsistent with %s (position %d is %c)", e.Descriptor, e.Position, e.Found)
}

// PositionError reports a substitution addressing a site past the end of the
// sequence.
type PositionError struct {
	Descriptor string
	Position   int
	Length     int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("substitution %s out of range for sequence of length %d", e.Descriptor, e.Length)
}

// Kind classifies the outcome of parsing or mutation.
type Kind int

// Outcome kinds.
const (
	KindOK Kind = iota
	KindMixedPopulation
	KindFormat
	KindEmptySequence
	KindInconsistent
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindMixedPopulation:
		return "mixed_population"
	case KindFormat:
		return "format"
	case KindEmptySequence:
		return "empty_sequence"
	case KindInconsistent:
		return "inconsistent"
	default:
		return "other"
	}
}

// KindOf classifies err. Out of range positions count as inconsistencies.
func KindOf(err error) Kind {
	if err == nil {
		return KindOK
	}
	var (
		mixed  *MixedPopulationError
		format *FormatError
		empty  *EmptySequenceError
		incons *InconsistentError
		pos    *PositionError
	)
	switch {
	case errors.As(err, &mixed):
		return KindMixedPopulation
	case errors.As(err, &format):
		return KindFormat
	case errors.As(err, &empty):
		return KindEmptySequence
	case errors.As(err, &incons), errors.As(err, &pos):
		return KindInconsistent
	default:
		return KindOther
	}
}

// Outcome is a tagged mutation result. Exactly one of Sequence (Kind == KindOK)
// or Err is meaningful.
type Outcome struct {
	Kind     Kind
	Sequence string
	Err      error
}

// OK reports whether the outcome carries a validated sequence.
func (o Outcome) OK() bool { return o.Kind == KindOK }

// NewOutcome tags a (sequence, error) pair.
func NewOutcome(sequence string, err error) Outcome {
	if err != nil {
		return Outcome{Kind: KindOf(err), Err: err}
	}
	return Outcome{Kind: KindOK, Sequence: sequence}
}
