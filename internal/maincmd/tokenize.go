package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/lockhart/lang/scanner"
	"github.com/mna/mainer"
)

// Tokenize runs the scanner phase only on each file and prints its tokens.
func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(stdio, args...)
}

// TokenizeFiles prints, for each file, one line per token: its position, its
// symbolic name, and its literal text when it carries one.
func TokenizeFiles(stdio mainer.Stdio, files ...string) error {
	var firstErr error
	for _, name := range files {
		src, err := os.ReadFile(name)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		toks, err := scanner.ScanAll(name, src)
		for _, t := range toks {
			fmt.Fprintf(stdio.Stdout, "%s: %s", t.Pos, t.Token)
			if t.Lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", t.Lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
		if err != nil {
			scanner.PrintError(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
