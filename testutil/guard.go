// Package testutil holds import-boundary assertions shared by package tests.
package testutil

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// ImportPredicate reports whether an import path is forbidden.
type ImportPredicate func(importPath string) bool

// InternalImport matches any path under an internal/ directory.
func InternalImport(path string) bool {
	return strings.Contains(path, "/internal/") || strings.HasSuffix(path, "/internal")
}

// ThirdPartyImport matches paths whose first element looks like a host name,
// which excludes the standard library and this module.
func ThirdPartyImport(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.Contains(first, ".")
}

// AnyOf matches when any of preds matches.
func AnyOf(preds ...ImportPredicate) ImportPredicate {
	return func(path string) bool {
		for _, p := range preds {
			if p(path) {
				return true
			}
		}
		return false
	}
}

// ImportViolations parses the non-test Go files directly inside dir and
// returns "import (in file)" entries for each forbidden import, sorted.
func ImportViolations(dir string, forbidden ImportPredicate) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			return nil, err
		}
		for _, imp := range file.Imports {
			path := strings.Trim(imp.Path.Value, `"`)
			if forbidden(path) {
				viols = append(viols, path+" (in "+name+")")
			}
		}
	}
	sort.Strings(viols)
	return viols, nil
}

// AssertNoImports fails t when any non-test file in dir has a forbidden import.
func AssertNoImports(t testing.TB, dir string, forbidden ImportPredicate, reason string) {
	t.Helper()
	viols, err := ImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("scan %s: %v", dir, err)
	}
	if len(viols) > 0 {
		t.Fatalf("forbidden imports (%s):\n%s", reason, strings.Join(viols, "\n"))
	}
}
