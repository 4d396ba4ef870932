package core

import (
	"antigenseq/pkg/domain"
	"context"
	"fmt"
	"sort"
	"strings"
)

const lineageIntegrityRuleName = "lineage_integrity"

// LineageIntegrityRule enforces parent and alteration-parent reference constraints.
func LineageIntegrityRule() domain.Rule {
	return lineageIntegrityRule{}
}

type lineageIntegrityRule struct{}

func (lineageIntegrityRule) Name() string { return lineageIntegrityRuleName }

func (lineageIntegrityRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}

	records := view.ListRecords()
	index := make(map[string]domain.Record, len(records))
	for _, rec := range records {
		index[rec.ID] = rec
	}

	for _, rec := range records {
		if rec.ParentID != "" {
			checkParentRef(&res, rec, rec.ParentID, "parent", index)
		}
		genes := make(map[string]int)
		for _, alt := range rec.Alterations {
			genes[alt.Gene]++
			if alt.ParentID != "" {
				checkParentRef(&res, rec, alt.ParentID, fmt.Sprintf("%s alteration parent", alt.Gene), index)
			}
		}
		for gene, n := range genes {
			if n > 1 {
				res.Violations = append(res.Violations, domain.Violation{
					Rule:     lineageIntegrityRuleName,
					Severity: domain.SeverityWarn,
					Message:  fmt.Sprintf("antigen %s lists %d alterations for %s", rec.ID, n, gene),
					Entity:   domain.EntityAlteration,
					EntityID: rec.ID,
				})
			}
		}
	}

	for _, cycle := range findCycles(records, index) {
		res.Violations = append(res.Violations, lineageViolation(cycle[0], fmt.Sprintf("lineage cycle %s", strings.Join(cycle, " -> "))))
	}
	return res, nil
}

func checkParentRef(res *domain.Result, rec domain.Record, parentID, role string, index map[string]domain.Record) {
	if parentID == rec.ID {
		res.Violations = append(res.Violations, lineageViolation(rec.ID, fmt.Sprintf("antigen %s references itself as %s", rec.ID, role)))
		return
	}
	if _, ok := index[parentID]; !ok {
		res.Violations = append(res.Violations, lineageViolation(rec.ID, fmt.Sprintf("antigen %s references missing %s %s", rec.ID, role, parentID)))
	}
}

func lineageViolation(entityID, message string) domain.Violation {
	return domain.Violation{
		Rule:     lineageIntegrityRuleName,
		Severity: domain.SeverityBlock,
		Message:  message,
		Entity:   domain.EntityAntigen,
		EntityID: entityID,
	}
}

// findCycles reports each cycle in the parent graph once, rotated to start
// at its smallest id. Self references are left to checkParentRef.
func findCycles(records []domain.Record, index map[string]domain.Record) [][]string {
	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(records))
	seen := make(map[string]struct{})
	var cycles [][]string
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		color[id] = grey
		stack = append(stack, id)
		rec := index[id]
		for _, p := range rec.ParentIDs() {
			if p == id {
				continue
			}
			if _, ok := index[p]; !ok {
				continue
			}
			switch color[p] {
			case white:
				visit(p)
			case grey:
				start := len(stack) - 1
				for stack[start] != p {
					start--
				}
				cycle := canonicalCycle(stack[start:])
				key := strings.Join(cycle, "\x00")
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					cycles = append(cycles, append(cycle, cycle[0]))
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

func canonicalCycle(members []string) []string {
	minIdx := 0
	for i, id := range members {
		if id < members[minIdx] {
			minIdx = i
		}
	}
	out := make([]string, 0, len(members))
	out = append(out, members[minIdx:]...)
	out = append(out, members[:minIdx]...)
	return out
}
