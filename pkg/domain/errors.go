package domain

import (
	"fmt"
	"strings"
)

// MissingRecordError is returned when a referenced record is not registered.
type MissingRecordError struct {
	ID string
}

func (e MissingRecordError) Error() string {
	return fmt.Sprintf("%s %s not found", EntityAntigen, e.ID)
}

// DuplicateRecordError is returned when an id is registered twice.
type DuplicateRecordError struct {
	ID string
}

func (e DuplicateRecordError) Error() string {
	return fmt.Sprintf("%s %s already registered", EntityAntigen, e.ID)
}

// NoSequenceError reports that a lineage ends without a sequence for Gene.
// ID names the record where the chain ran out. AltParentOf is set when the
// chain was entered through an alteration-level parent override and names
// the record declaring that override.
type NoSequenceError struct {
	ID          string
	Gene        string
	AltParentOf string
}

func (e NoSequenceError) Error() string {
	if e.AltParentOf != "" {
		return fmt.Sprintf("%s doesn't have a parent with a sequence for %s (alteration parent of %s)", e.ID, e.Gene, e.AltParentOf)
	}
	return fmt.Sprintf("%s doesn't have a parent or its own %s sequence", e.ID, e.Gene)
}

// ConsistencyError reports substitutions that do not agree with the base
// sequence they are applied to. Offending is the first mismatch against the
// base, the descriptor a strict mutation rejects first.
type ConsistencyError struct {
	ID            string
	Gene          string
	Substitutions []string
	Mismatched    []string
	Offending     string
	Err           error
}

func (e ConsistencyError) Error() string {
	return fmt.Sprintf("%s sequence inconsistent with all amino acids gained in [%s] and sequence inconsistent with %s (%s)",
		e.ID, strings.Join(e.Mismatched, " "), e.Offending, e.Gene)
}

func (e ConsistencyError) Unwrap() error { return e.Err }

// CycleError is returned when resolution revisits a record.
type CycleError struct {
	Path []string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("lineage cycle detected: %s", strings.Join(e.Path, " -> "))
}
