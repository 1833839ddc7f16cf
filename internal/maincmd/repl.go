package maincmd

import (
	"bufio"
	"context"
	"fmt"

	"github.com/mna/lockhart/lang/vm"
	"github.com/mna/mainer"
)

const replPrompt = ">> "

// Repl runs an interactive read-compile-run loop over stdio.Stdin, one line
// at a time, sharing a single VM across lines so that globals defined on one
// line remain visible on the next. A runtime error on one line does not end
// the session; it is reported and the loop continues (spec.md §7,
// "Recovery").
func (c *Cmd) Repl(ctx context.Context, stdio mainer.Stdio, _ []string) error {
	m := vm.New(stdio.Stdout)
	scan := bufio.NewScanner(stdio.Stdin)

	for {
		fmt.Fprint(stdio.Stdout, replPrompt)
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if !scan.Scan() {
			return scan.Err()
		}
		line := scan.Text()
		if line == "" {
			continue
		}
		if err := m.Interpret("<repl>", []byte(line)); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
		}
	}
}
