package core

import (
	"antigenseq/pkg/domain"
	"antigenseq/pkg/substitution"
	"context"
	"errors"
)

// Antigen is a registered record bound to the resolver that owns its registry.
type Antigen struct {
	resolver *Resolver
	record   domain.Record
}

// ID returns the record id.
func (a *Antigen) ID() string { return a.record.ID }

// Wildtype reports the record's wildtype flag.
func (a *Antigen) Wildtype() bool { return a.record.Wildtype }

// LongName returns the free-text strain name, if any.
func (a *Antigen) LongName() string { return a.record.LongName }

// Record returns a copy of the underlying record.
func (a *Antigen) Record() domain.Record { return a.record.Clone() }

// Sequence resolves the sequence of gene.
func (a *Antigen) Sequence(gene string) (string, error) {
	return a.SequenceContext(context.Background(), gene)
}

// SequenceContext is Sequence with a caller supplied context.
func (a *Antigen) SequenceContext(ctx context.Context, gene string) (string, error) {
	return a.resolver.Sequence(ctx, a.record.ID, gene)
}

// TrySequence resolves gene and classifies the outcome instead of returning
// a bare error.
func (a *Antigen) TrySequence(gene string) Resolution {
	seq, err := a.Sequence(gene)
	return NewResolution(seq, err)
}

// Parent returns the main parent, nil when the record names none, or
// MissingRecordError when the named parent is not registered.
func (a *Antigen) Parent() (*Antigen, error) {
	if !a.record.HasParent() {
		return nil, nil
	}
	return a.resolver.Antigen(a.record.ParentID)
}

// AltParentID returns the alteration-level parent override for gene.
func (a *Antigen) AltParentID(gene string) (string, bool) {
	return a.record.AltParentID(gene)
}

// HasParentWithSeq reports whether the main parent, or one of its
// ancestors, holds a sequence for gene. Substitutions are not applied.
func (a *Antigen) HasParentWithSeq(gene string) bool {
	if !a.record.HasParent() {
		return false
	}
	return a.resolver.hasSequenceSource(a.record.ParentID, gene, map[string]struct{}{a.record.ID: {}})
}

// HasAltParentWithSeq is HasParentWithSeq for the alteration parent of gene.
func (a *Antigen) HasAltParentWithSeq(gene string) bool {
	id, ok := a.record.AltParentID(gene)
	if !ok {
		return false
	}
	return a.resolver.hasSequenceSource(id, gene, map[string]struct{}{a.record.ID: {}})
}

// Genes lists genes reachable from the record's own data and its ancestors.
func (a *Antigen) Genes() []string {
	return a.resolver.GeneNames(a.record.ID)
}

// Status classifies a resolution outcome.
type Status string

// Resolution statuses.
const (
	StatusResolved        Status = "resolved"
	StatusMixedPopulation Status = "mixed_population"
	StatusFormat          Status = "format"
	StatusEmptySequence   Status = "empty_sequence"
	StatusInconsistent    Status = "inconsistent"
	StatusNoSequence      Status = "no_sequence"
	StatusMissingRecord   Status = "missing_record"
	StatusCycle           Status = "cycle"
	StatusFailed          Status = "failed"
)

// Resolution is the tagged result of resolving one gene.
type Resolution struct {
	Status   Status
	Sequence string
	Err      error
}

// NewResolution tags a (sequence, error) pair.
func NewResolution(seq string, err error) Resolution {
	if err == nil {
		return Resolution{Status: StatusResolved, Sequence: seq}
	}
	return Resolution{Status: Classify(err), Err: err}
}

// Classify maps a resolution error to its status.
func Classify(err error) Status {
	if err == nil {
		return StatusResolved
	}
	var (
		noSeq   domain.NoSequenceError
		missing domain.MissingRecordError
		cycle   domain.CycleError
	)
	switch {
	case errors.As(err, &noSeq):
		return StatusNoSequence
	case errors.As(err, &missing):
		return StatusMissingRecord
	case errors.As(err, &cycle):
		return StatusCycle
	}
	switch substitution.KindOf(err) {
	case substitution.KindMixedPopulation:
		return StatusMixedPopulation
	case substitution.KindFormat:
		return StatusFormat
	case substitution.KindEmptySequence:
		return StatusEmptySequence
	case substitution.KindInconsistent:
		return StatusInconsistent
	default:
		return StatusFailed
	}
}
