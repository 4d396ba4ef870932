package names

import (
	"antigenseq/internal/registry"
	"antigenseq/pkg/domain"
	"errors"
	"reflect"
	"testing"
)

func TestExtractSubstitutionsSimple(t *testing.T) {
	name := "NODE2-PR8_A/WHOOPERSWAN/MONGOLIA/244/2005NA-HA-K140R/S155P/R189V"
	want := NewSet("K140R", "S155P", "R189V")
	if got := ExtractSubstitutions(name); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want.Sorted(), got.Sorted())
	}
}

func TestExtractSubstitutionsMixed(t *testing.T) {
	name := "NODE2-PR8_A/WHOOPERSWAN/MONGOLIA/244/2005NA-HA-K140K-S/S155S-L/" +
		"R189R-W-HA-N87N-Y/I151I-T/A156A-T/N165N-K/N220N-Y/A238A-T"
	want := NewSet("N87N-Y", "K140K-S", "S155S-L", "R189R-W", "I151I-T", "A156A-T", "N165N-K", "N220N-Y", "A238A-T")
	if got := ExtractSubstitutions(name); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want.Sorted(), got.Sorted())
	}
}

func TestExtractSubstitutionsSuffixBelongsToNextWord(t *testing.T) {
	got := ExtractSubstitutions("A/X/1/2005-K140R-HA")
	if !reflect.DeepEqual(got, NewSet("K140R")) {
		t.Fatalf("unexpected tokens %v", got.Sorted())
	}
	if len(ExtractSubstitutions("")) != 0 {
		t.Fatalf("expected no tokens in empty name")
	}
}

func TestRemoveMixedSubs(t *testing.T) {
	got := RemoveMixedSubs(NewSet("R189R-G", "K267K-I", "I213I-V", "N145K"))
	if !reflect.DeepEqual(got, NewSet("N145K")) {
		t.Fatalf("unexpected result %v", got.Sorted())
	}
}

func TestSetOperations(t *testing.T) {
	a := NewSet("K140R", "S155P")
	b := NewSet("S155P", "N87T")
	if got := a.Union(b).Sorted(); !reflect.DeepEqual(got, []string{"N87T", "K140R", "S155P"}) {
		t.Fatalf("unexpected union %v", got)
	}
	if got := a.Difference(b).Sorted(); !reflect.DeepEqual(got, []string{"K140R"}) {
		t.Fatalf("unexpected difference %v", got)
	}
}

func lineage(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	records := []domain.Record{
		{ID: "gp", Genes: []domain.GeneSequence{{Gene: "HA", Sequence: "AAAA"}}, Alterations: []domain.Alteration{{Gene: "HA", Substitutions: []string{"Q1A"}}}},
		{ID: "alt", Alterations: []domain.Alteration{{Gene: "NA", Substitutions: []string{"D2E"}}}},
		{ID: "p", ParentID: "gp", Alterations: []domain.Alteration{{Gene: "HA", Substitutions: []string{"K140R"}}}},
		{ID: "c", ParentID: "p", LongName: "A/X/1/2005-HA-K140R/S155P/N87N-Y", Alterations: []domain.Alteration{
			{Gene: "HA", Substitutions: []string{"S155P", "T200A"}},
			{Gene: "NA", ParentID: "alt"},
		}},
	}
	for _, rec := range records {
		if err := reg.Register(rec); err != nil {
			t.Fatalf("register %s: %v", rec.ID, err)
		}
	}
	return reg
}

func TestOwnAndAncestorSubstitutions(t *testing.T) {
	reg := lineage(t)
	rec, _ := reg.Lookup("c")
	if got := OwnSubstitutions(rec); !reflect.DeepEqual(got, NewSet("S155P", "T200A")) {
		t.Fatalf("unexpected own substitutions %v", got.Sorted())
	}
	anc, err := AncestorSubstitutions(reg, rec)
	if err != nil {
		t.Fatalf("ancestors: %v", err)
	}
	if !reflect.DeepEqual(anc, NewSet("Q1A", "K140R", "D2E")) {
		t.Fatalf("unexpected ancestor substitutions %v", anc.Sorted())
	}
}

func TestAncestorSubstitutionsMissingParent(t *testing.T) {
	reg := registry.New()
	_ = reg.Register(domain.Record{ID: "orphan", ParentID: "ghost"})
	rec, _ := reg.Lookup("orphan")
	_, err := AncestorSubstitutions(reg, rec)
	var missing domain.MissingRecordError
	if !errors.As(err, &missing) || missing.ID != "ghost" {
		t.Fatalf("expected missing record error, got %v", err)
	}
}

func TestNameAlterationCrossChecks(t *testing.T) {
	reg := lineage(t)
	rec, _ := reg.Lookup("c")
	if got := SubsInAlterationsNotInName(rec); !reflect.DeepEqual(got, NewSet("T200A")) {
		t.Fatalf("unexpected alteration-only substitutions %v", got.Sorted())
	}
	got, err := SubsInNameNotInAlterations(reg, rec)
	if err != nil {
		t.Fatalf("cross check: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("mixed-only differences should be ignored, got %v", got.Sorted())
	}

	rec.LongName = "A/X/1/2005-HA-K140R/S155P/T200A/G12D"
	got, err = SubsInNameNotInAlterations(reg, rec)
	if err != nil {
		t.Fatalf("cross check: %v", err)
	}
	if !reflect.DeepEqual(got, NewSet("G12D")) {
		t.Fatalf("expected G12D, got %v", got.Sorted())
	}
}
