package domain

import (
	"antigenseq/testutil"
	"testing"
)

func TestDomainImportsStayPublic(t *testing.T) {
	testutil.AssertNoImports(t, ".", testutil.AnyOf(testutil.InternalImport, testutil.ThirdPartyImport),
		"domain records are shared by every backend")
}
