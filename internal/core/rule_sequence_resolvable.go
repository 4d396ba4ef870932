package core

import (
	"antigenseq/pkg/domain"
	"context"
	"fmt"
)

const sequenceResolvableRuleName = "sequence_resolvable"

// SequenceResolvableRule resolves every gene reachable from each record.
// Mixed population calls are logged rather than blocking, since the gene is
// merely unresolved; every other failure blocks.
func SequenceResolvableRule(resolver *Resolver) domain.Rule {
	return sequenceResolvableRule{resolver: resolver}
}

type sequenceResolvableRule struct {
	resolver *Resolver
}

func (sequenceResolvableRule) Name() string { return sequenceResolvableRuleName }

func (r sequenceResolvableRule) Evaluate(ctx context.Context, view domain.RuleView) (domain.Result, error) {
	res := domain.Result{}
	for _, rec := range view.ListRecords() {
		for _, gene := range r.resolver.GeneNames(rec.ID) {
			if err := ctx.Err(); err != nil {
				return domain.Result{}, err
			}
			_, err := r.resolver.Sequence(ctx, rec.ID, gene)
			if err == nil {
				continue
			}
			status := Classify(err)
			severity := domain.SeverityBlock
			if status == StatusMixedPopulation {
				severity = domain.SeverityLog
			}
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     sequenceResolvableRuleName,
				Severity: severity,
				Message:  fmt.Sprintf("%s %s (%s): %v", rec.ID, gene, status, err),
				Entity:   domain.EntityAntigen,
				EntityID: rec.ID,
			})
		}
	}
	return res, nil
}
