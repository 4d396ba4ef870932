package domain

import "context"

// RuleView provides read-only access to registered records for rule evaluation.
type RuleView interface {
	ListRecords() []Record
	FindRecord(id string) (Record, bool)
}

// Rule defines an evaluation executed over a loaded dataset.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view RuleView) (Result, error)
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rules in evaluation order.
func (e *RulesEngine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view RuleView) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		res, err := rule.Evaluate(ctx, view)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
