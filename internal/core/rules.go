package core

import (
	"antigenseq/pkg/domain"
	"context"
)

// NewDefaultRulesEngine builds a rules engine with the built-in audit set
// bound to resolver.
func NewDefaultRulesEngine(resolver *Resolver) *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(LineageIntegrityRule())
	engine.Register(SequenceResolvableRule(resolver))
	engine.Register(NameConsistencyRule())
	return engine
}

// Audit evaluates engine against the resolver's registry. A nil engine uses
// the default set. Blocking violations are returned as RuleViolationError
// alongside the full result.
func (r *Resolver) Audit(ctx context.Context, engine *domain.RulesEngine) (res domain.Result, err error) {
	start := r.clock.Now()
	ctx, span := r.tracer.Start(ctx, OpAudit)
	defer func() {
		span.End(err)
		r.metrics.Observe(ctx, OpAudit, err == nil, r.clock.Now().Sub(start))
	}()
	if engine == nil {
		engine = NewDefaultRulesEngine(r)
	}
	res, err = engine.Evaluate(ctx, r.registry)
	if err != nil {
		return domain.Result{}, err
	}
	for _, v := range res.Violations {
		switch v.Severity {
		case domain.SeverityBlock:
			r.logger.Error("audit violation", "rule", v.Rule, "id", v.EntityID, "message", v.Message)
		case domain.SeverityWarn:
			r.logger.Warn("audit violation", "rule", v.Rule, "id", v.EntityID, "message", v.Message)
		default:
			r.logger.Info("audit note", "rule", v.Rule, "id", v.EntityID, "message", v.Message)
		}
	}
	if res.HasBlocking() {
		return res, domain.RuleViolationError{Result: res}
	}
	return res, nil
}
