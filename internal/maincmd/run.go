package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/lockhart/lang/vm"
	"github.com/mna/mainer"
)

// Run compiles and executes each given script file in its own fresh VM.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(stdio, args...)
}

// RunFiles interprets every file in files, stopping at the first one that
// fails to compile or run.
func RunFiles(stdio mainer.Stdio, files ...string) error {
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		m := vm.New(stdio.Stdout)
		if err := m.Interpret(name, src); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}
