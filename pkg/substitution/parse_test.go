package substitution

import (
	"errors"
	"reflect"
	"testing"
)

func TestComponents(t *testing.T) {
	cases := []struct {
		in   string
		from string
		pos  int
		to   string
	}{
		{"K1D", "K", 1, "D"},
		{"T6G", "T", 6, "G"},
		{"D21E", "D", 21, "E"},
	}
	for _, tc := range cases {
		from, pos, to, err := Components(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.in, err)
		}
		if from != tc.from || pos != tc.pos || to != tc.to {
			t.Fatalf("%s: got (%s,%d,%s)", tc.in, from, pos, to)
		}
	}
}

func TestComponentsMixedPopulation(t *testing.T) {
	for _, in := range []string{"A45T-I", "A-A45T", "D1D-K"} {
		_, _, _, err := Components(in)
		var mixed *MixedPopulationError
		if !errors.As(err, &mixed) {
			t.Fatalf("%s: expected mixed population error, got %v", in, err)
		}
		if mixed.Descriptor != in {
			t.Fatalf("%s: descriptor not preserved: %q", in, mixed.Descriptor)
		}
	}
}

func TestComponentsFormatErrors(t *testing.T) {
	for _, in := range []string{"A12A", "", "K", "12", "KD", "K0D", "1K2"} {
		_, _, _, err := Components(in)
		var format *FormatError
		if !errors.As(err, &format) {
			t.Fatalf("%q: expected format error, got %v", in, err)
		}
	}
}

func TestIsMixed(t *testing.T) {
	if !IsMixed("R189R-G") {
		t.Fatalf("expected R189R-G to be mixed")
	}
	if IsMixed("N145K") || IsMixed("A-A45T") {
		t.Fatalf("unexpected mixed classification")
	}
}

func TestPositionAndSort(t *testing.T) {
	if got := Position("K140K-S"); got != 140 {
		t.Fatalf("expected 140, got %d", got)
	}
	if got := Position("nothing"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	in := []string{"S155P", "K140R", "N87N-Y", "A140T"}
	got := SortByPosition(in)
	want := []string{"N87N-Y", "A140T", "K140R", "S155P"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if in[0] != "S155P" {
		t.Fatalf("input reordered")
	}
}

func TestKindOf(t *testing.T) {
	_, err := Parse("A45T-I")
	if KindOf(err) != KindMixedPopulation {
		t.Fatalf("expected mixed kind, got %s", KindOf(err))
	}
	_, err = Parse("A12A")
	if KindOf(err) != KindFormat {
		t.Fatalf("expected format kind, got %s", KindOf(err))
	}
	if KindOf(nil) != KindOK {
		t.Fatalf("expected ok kind")
	}
	if KindOf(errors.New("boom")) != KindOther {
		t.Fatalf("expected other kind")
	}
}
