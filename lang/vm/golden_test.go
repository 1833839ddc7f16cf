package vm_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/lockhart/internal/filetest"
	"github.com/mna/lockhart/lang/compiler"
	"github.com/mna/lockhart/lang/vm"
)

var update = filetest.UpdateFlag(new(bool))

// TestGolden drives every testdata/*.lk script through a fresh VM and
// compares its captured stdout and, where applicable, error text against
// sibling .want/.err golden files (spec.md §8, scenarios 1-9).
func TestGolden(t *testing.T) {
	const dir = "testdata"
	for _, fi := range filetest.ScriptFiles(t, dir, ".lk") {
		fi := fi
		name := fi.Name()[:len(fi.Name())-len(".lk")]

		t.Run(name, func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			if err != nil {
				t.Fatal(err)
			}

			var out bytes.Buffer
			runErr := vm.New(&out).Interpret(fi.Name(), src)

			filetest.DiffGolden(t, dir, name, ".want", out.String(), update)
			filetest.DiffGolden(t, dir, name, ".err", errMsg(runErr), update)
		})
	}
}

// errMsg extracts the bare message text from a compile or runtime error,
// dropping source position/line so goldens aren't pinned to incidental line
// numbers that shift as the scenario scripts are reworded. The message is
// terminated by a newline, like the lines of a .want file.
func errMsg(err error) string {
	if err == nil {
		return ""
	}
	var msg string
	switch e := err.(type) {
	case *vm.RuntimeError:
		msg = e.Msg
	case *compiler.Error:
		msg = e.Msg
	default:
		msg = err.Error()
	}
	return msg + "\n"
}
