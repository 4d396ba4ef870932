package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestConsistencyErrorMessage(t *testing.T) {
	cause := errors.New("sequence inconsistent with D21K")
	err := ConsistencyError{
		ID:         "child",
		Gene:       "HA",
		Mismatched: []string{"K1D", "T6G", "D21K"},
		Offending:  "K1D",
		Err:        cause,
	}
	want := "child sequence inconsistent with all amino acids gained in [K1D T6G D21K] and sequence inconsistent with K1D"
	if msg := err.Error(); !strings.HasPrefix(msg, want) || !strings.HasSuffix(msg, " (HA)") {
		t.Fatalf("unexpected message %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected the cause to unwrap")
	}
}
