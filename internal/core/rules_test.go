package core

import (
	"antigenseq/internal/registry"
	"antigenseq/pkg/domain"
	"context"
	"errors"
	"strings"
	"testing"
)

func violationsFor(res domain.Result, rule string) []domain.Violation {
	var out []domain.Violation
	for _, v := range res.Violations {
		if v.Rule == rule {
			out = append(out, v)
		}
	}
	return out
}

func TestLineageIntegrityMissingParent(t *testing.T) {
	reg := registry.New()
	for _, rec := range []domain.Record{
		{ID: "child", ParentID: "missing"},
		{ID: "alt", Alterations: []domain.Alteration{{Gene: "HA", ParentID: "gone"}}},
	} {
		if err := reg.Register(rec); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	res, err := LineageIntegrityRule().Evaluate(context.Background(), reg)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 || !res.HasBlocking() {
		t.Fatalf("expected two blocking violations, got %+v", res.Violations)
	}
	if !strings.Contains(res.Violations[1].Message, "HA alteration parent gone") {
		t.Fatalf("unexpected message %q", res.Violations[1].Message)
	}
}

func TestLineageIntegritySelfReferenceAndDuplicates(t *testing.T) {
	reg := registry.New()
	_ = reg.Register(domain.Record{
		ID:       "a",
		ParentID: "a",
		Alterations: []domain.Alteration{
			{Gene: "HA", Substitutions: []string{"K1D"}},
			{Gene: "HA", Substitutions: []string{"T6G"}},
		},
	})
	res, _ := LineageIntegrityRule().Evaluate(context.Background(), reg)
	warn := res.BySeverity(domain.SeverityWarn)
	block := res.BySeverity(domain.SeverityBlock)
	if len(block) != 1 || !strings.Contains(block[0].Message, "references itself") {
		t.Fatalf("expected self reference violation, got %+v", block)
	}
	if len(warn) != 1 || warn[0].Entity != domain.EntityAlteration {
		t.Fatalf("expected duplicate alteration warning, got %+v", warn)
	}
}

func TestLineageIntegrityCycle(t *testing.T) {
	reg := registry.New()
	for _, rec := range []domain.Record{
		{ID: "c", ParentID: "a"},
		{ID: "b", ParentID: "c"},
		{ID: "a", ParentID: "b"},
		{ID: "d", ParentID: "a"},
	} {
		_ = reg.Register(rec)
	}
	res, _ := LineageIntegrityRule().Evaluate(context.Background(), reg)
	if len(res.Violations) != 1 {
		t.Fatalf("expected a single cycle violation, got %+v", res.Violations)
	}
	if res.Violations[0].Message != "lineage cycle a -> b -> c -> a" {
		t.Fatalf("unexpected message %q", res.Violations[0].Message)
	}
}

func TestSequenceResolvableRule(t *testing.T) {
	r := newTestResolver(t,
		domain.Record{ID: "parent", Genes: ha("DQICIGYHAN")},
		domain.Record{ID: "ok", ParentID: "parent", Alterations: haSubs("D1K")},
		domain.Record{ID: "mixed", ParentID: "parent", Alterations: haSubs("D1D-K")},
		domain.Record{ID: "bad", ParentID: "parent", Alterations: haSubs("K1R")},
		domain.Record{ID: "lonely", Alterations: haSubs("A1C")},
	)
	res, err := SequenceResolvableRule(r).Evaluate(context.Background(), r.Registry())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	logged := res.BySeverity(domain.SeverityLog)
	if len(logged) != 1 || logged[0].EntityID != "mixed" {
		t.Fatalf("expected mixed population logged, got %+v", logged)
	}
	block := res.BySeverity(domain.SeverityBlock)
	ids := make([]string, 0, len(block))
	for _, v := range block {
		ids = append(ids, v.EntityID)
	}
	if strings.Join(ids, ",") != "bad,lonely" {
		t.Fatalf("unexpected blocking ids %v", ids)
	}
	if !strings.Contains(block[0].Message, string(StatusInconsistent)) {
		t.Fatalf("expected status in message %q", block[0].Message)
	}
}

func TestSequenceResolvableRuleCanceled(t *testing.T) {
	r := newTestResolver(t, domain.Record{ID: "a", Genes: ha("AAAA")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := SequenceResolvableRule(r).Evaluate(ctx, r.Registry()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestNameConsistencyRule(t *testing.T) {
	reg := registry.New()
	for _, rec := range []domain.Record{
		{ID: "p", Alterations: haSubs("K140R")},
		{ID: "c", ParentID: "p", LongName: "A/X/1/2005-HA-K140R/S155P/G12D", Alterations: haSubs("S155P", "T200A")},
		{ID: "quiet", LongName: "A/Y/2/2006", Alterations: haSubs("N87N-Y")},
		{ID: "unnamed", Alterations: haSubs("T200A")},
	} {
		_ = reg.Register(rec)
	}
	res, err := NameConsistencyRule().Evaluate(context.Background(), reg)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 2 {
		t.Fatalf("expected two violations, got %+v", res.Violations)
	}
	if !strings.HasSuffix(res.Violations[0].Message, "not in its name: T200A") {
		t.Fatalf("unexpected message %q", res.Violations[0].Message)
	}
	if !strings.HasSuffix(res.Violations[1].Message, "but not in alterations: G12D") {
		t.Fatalf("unexpected message %q", res.Violations[1].Message)
	}
	if res.HasBlocking() {
		t.Fatalf("name consistency should only warn")
	}
}

func TestAuditDefaultEngine(t *testing.T) {
	logger := &captureLogger{}
	metrics := &captureMetrics{}
	r := NewResolver(nil, WithLogger(logger), WithMetrics(metrics))
	for _, rec := range []domain.Record{
		{ID: "parent", Genes: ha("DQICIGYHAN")},
		{ID: "child", ParentID: "parent", Alterations: haSubs("D1K")},
	} {
		if _, err := r.NewAntigen(rec); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	res, err := r.Audit(context.Background(), nil)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("expected clean audit, got %+v", res.Violations)
	}
	if metrics.count(OpAudit, true) != 1 {
		t.Fatalf("expected audit metric")
	}

	if _, err := r.NewAntigen(domain.Record{ID: "orphan", ParentID: "nowhere"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err = r.Audit(context.Background(), nil)
	var ruleErr domain.RuleViolationError
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected rule violation error, got %v", err)
	}
	if len(ruleErr.Result.Violations) != len(res.Violations) || !res.HasBlocking() {
		t.Fatalf("error should carry the full result")
	}
	if len(violationsFor(res, lineageIntegrityRuleName)) != 1 {
		t.Fatalf("expected one lineage violation, got %+v", res.Violations)
	}
	if metrics.count(OpAudit, false) != 1 {
		t.Fatalf("expected failed audit metric")
	}
	if !logger.has("error", "audit violation") {
		t.Fatalf("expected blocking violations logged")
	}
}

func TestDefaultRulesEngineNames(t *testing.T) {
	engine := NewDefaultRulesEngine(NewResolver(nil))
	var names []string
	for _, rule := range engine.Rules() {
		names = append(names, rule.Name())
	}
	if strings.Join(names, ",") != "lineage_integrity,sequence_resolvable,name_consistency" {
		t.Fatalf("unexpected rules %v", names)
	}
}
