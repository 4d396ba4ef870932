// Package domain defines the antigen record entity, its gene-scoped
// alterations, and the rule evaluation primitives used by antigenseq.
package domain

// EntityType identifies the type of record a violation refers to.
type EntityType string

// Supported entity type identifiers.
const (
	// EntityAntigen identifies an antigen record.
	EntityAntigen EntityType = "antigen"
	// EntityAlteration identifies a gene-scoped alteration on an antigen.
	EntityAlteration EntityType = "alteration"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine whether an audit fails and how it is logged.
const (
	// SeverityBlock fails the audit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows the audit to pass.
	SeverityWarn Severity = "warn"
	// SeverityLog records an informational note that never fails an audit.
	SeverityLog Severity = "log"
)

// GeneSequence is a record's own sequence for one gene.
type GeneSequence struct {
	Gene     string `json:"gene"`
	Sequence string `json:"sequence"`
}

// Alteration lists substitutions for one gene relative to a parent. ParentID,
// when set, overrides the record's main parent for that gene only.
type Alteration struct {
	Gene          string   `json:"gene"`
	Substitutions []string `json:"substitutions,omitempty"`
	ParentID      string   `json:"parent_id,omitempty"`
}

// Record describes an antigen: either a directly sequenced variant or one
// derived from a parent through substitutions, or both.
type Record struct {
	ID          string         `json:"id"`
	ParentID    string         `json:"parent_id,omitempty"`
	Genes       []GeneSequence `json:"genes,omitempty"`
	Alterations []Alteration   `json:"alterations,omitempty"`
	Wildtype    bool           `json:"wildtype"`
	LongName    string         `json:"long,omitempty"`
}

// HasParent reports whether the record names a main parent.
func (r Record) HasParent() bool { return r.ParentID != "" }

// OwnSequence returns the record's own sequence for gene.
func (r Record) OwnSequence(gene string) (string, bool) {
	for _, g := range r.Genes {
		if g.Gene == gene {
			return g.Sequence, true
		}
	}
	return "", false
}

// AlterationsFor returns the alterations scoped to gene, in declaration order.
func (r Record) AlterationsFor(gene string) []Alteration {
	var out []Alteration
	for _, alt := range r.Alterations {
		if alt.Gene == gene {
			out = append(out, alt)
		}
	}
	return out
}

// Substitutions concatenates the substitutions declared for gene across all
// matching alterations, preserving order.
func (r Record) Substitutions(gene string) []string {
	var out []string
	for _, alt := range r.AlterationsFor(gene) {
		out = append(out, alt.Substitutions...)
	}
	return out
}

// AllSubstitutions returns every descriptor across all alterations.
func (r Record) AllSubstitutions() []string {
	var out []string
	for _, alt := range r.Alterations {
		out = append(out, alt.Substitutions...)
	}
	return out
}

// AltParentID returns the first parent override declared on an alteration
// for gene.
func (r Record) AltParentID(gene string) (string, bool) {
	for _, alt := range r.AlterationsFor(gene) {
		if alt.ParentID != "" {
			return alt.ParentID, true
		}
	}
	return "", false
}

// EffectiveParentID returns the parent that supplies gene's base sequence:
// the alteration override when present, otherwise the main parent. viaAlt
// reports whether the override was used.
func (r Record) EffectiveParentID(gene string) (id string, viaAlt bool) {
	if alt, ok := r.AltParentID(gene); ok {
		return alt, true
	}
	return r.ParentID, false
}

// ParentIDs returns the distinct main and alteration parents.
func (r Record) ParentIDs() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	add(r.ParentID)
	for _, alt := range r.Alterations {
		add(alt.ParentID)
	}
	return out
}

// GeneNames lists genes named by own sequences or alterations, in first-seen order.
func (r Record) GeneNames() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(gene string) {
		if _, ok := seen[gene]; ok || gene == "" {
			return
		}
		seen[gene] = struct{}{}
		out = append(out, gene)
	}
	for _, g := range r.Genes {
		add(g.Gene)
	}
	for _, alt := range r.Alterations {
		add(alt.Gene)
	}
	return out
}

// Clone returns a deep copy so callers cannot mutate registered state.
func (r Record) Clone() Record {
	cp := r
	if r.Genes != nil {
		cp.Genes = append([]GeneSequence(nil), r.Genes...)
	}
	if r.Alterations != nil {
		cp.Alterations = make([]Alteration, len(r.Alterations))
		for i, alt := range r.Alterations {
			alt.Substitutions = append([]string(nil), alt.Substitutions...)
			cp.Alterations[i] = alt
		}
	}
	return cp
}

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// BySeverity returns violations with the given severity.
func (r Result) BySeverity(sev Severity) []Violation {
	var out []Violation
	for _, v := range r.Violations {
		if v.Severity == sev {
			out = append(out, v)
		}
	}
	return out
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "dataset blocked by rules"
}
