// Package filetest provides golden-file helpers for script-driven test
// suites (used by lang/vm): each case is a script under testdata/, and the
// expected stdout and error text live alongside it in sibling files with a
// fixed extension.
package filetest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
)

// UpdateFlag is wired to a test binary's "-update" flag by callers that want
// to regenerate golden files instead of checking them.
type UpdateFlag = *bool

// ScriptFiles returns every file under dir with the given extension
// (including the leading dot), sorted by os.ReadDir's name order.
func ScriptFiles(t *testing.T, dir, ext string) []os.FileInfo {
	t.Helper()

	dents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	res := make([]os.FileInfo, 0, len(dents))
	for _, dent := range dents {
		if !dent.Type().IsRegular() || filepath.Ext(dent.Name()) != ext {
			continue
		}
		fi, err := dent.Info()
		if err != nil {
			t.Fatal(err)
		}
		res = append(res, fi)
	}
	return res
}

// DiffGolden compares got against the contents of dir/name+ext, failing the
// test with a unified diff on mismatch. If update is non-nil and *update is
// true, the golden file is overwritten with got instead of compared.
func DiffGolden(t *testing.T, dir, name, ext, got string, update UpdateFlag) {
	t.Helper()

	goldPath := filepath.Join(dir, name+ext)
	if update != nil && *update {
		if err := os.WriteFile(goldPath, []byte(got), 0o600); err != nil {
			t.Fatal(err)
		}
		return
	}

	wantb, err := os.ReadFile(goldPath)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	want := string(wantb)
	if patch := diff.Diff(want, got); patch != "" {
		t.Errorf("golden file %s mismatch:\n%s", goldPath, patch)
	}
}
