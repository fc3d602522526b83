package rdml

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestCoreDoesNotImportInternal keeps the object model free of service-layer
// dependencies: internal packages wrap pkg/rdml, never the other way around.
func TestCoreDoesNotImportInternal(t *testing.T) {
	const internalPrefix = "rdmlcore/internal"

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "rdmlcore/pkg/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		for importPath := range pkg.Imports {
			if importPath == internalPrefix || strings.HasPrefix(importPath, internalPrefix+"/") {
				seen[pkg.PkgPath+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of internal package: %s", v)
		}
		t.Fatalf("found %d forbidden internal imports", len(violations))
	}
}
