package core

import (
	"antigenseq/internal/names"
	"antigenseq/pkg/domain"
	"context"
	"fmt"
	"strings"
)

const nameConsistencyRuleName = "name_consistency"

// NameConsistencyRule warns when substitutions recorded in alterations and
// those spelled out in a record's long name disagree. Records without a long
// name are skipped, as are differences consisting only of mixed population
// calls.
func NameConsistencyRule() domain.Rule {
	return nameConsistencyRule{}
}

type nameConsistencyRule struct{}

func (nameConsistencyRule) Name() string { return nameConsistencyRuleName }

func (nameConsistencyRule) Evaluate(_ context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	for _, rec := range view.ListRecords() {
		if rec.LongName == "" {
			continue
		}
		if diff := names.SubsInAlterationsNotInName(rec); len(diff) > 0 {
			res.Violations = append(res.Violations, nameViolation(rec.ID,
				fmt.Sprintf("%s has substitutions in alterations not in its name: %s", rec.ID, strings.Join(diff.Sorted(), ", "))))
		}
		diff, err := names.SubsInNameNotInAlterations(view, rec)
		if err != nil {
			// Missing ancestors are reported by the lineage rule.
			continue
		}
		if len(diff) > 0 {
			res.Violations = append(res.Violations, nameViolation(rec.ID,
				fmt.Sprintf("%s has substitutions in its name but not in alterations: %s", rec.ID, strings.Join(diff.Sorted(), ", "))))
		}
	}
	return res, nil
}

func nameViolation(id, message string) domain.Violation {
	return domain.Violation{
		Rule:     nameConsistencyRuleName,
		Severity: domain.SeverityWarn,
		Message:  message,
		Entity:   domain.EntityAntigen,
		EntityID: id,
	}
}
