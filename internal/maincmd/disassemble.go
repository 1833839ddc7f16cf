package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/lockhart/lang/compiler"
	"github.com/mna/lockhart/lang/gc"
	"github.com/mna/lockhart/lang/value"
	"github.com/mna/mainer"
)

// Disassemble compiles each file without running it and prints its bytecode,
// and that of every nested function it defines.
func (c *Cmd) Disassemble(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisassembleFiles(stdio, args...)
}

// DisassembleFiles compiles every file and writes a textual dump of its
// bytecode chunk to stdio.Stdout.
func DisassembleFiles(stdio mainer.Stdio, files ...string) error {
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

		fn, err := compiler.Compile(gc.New(), name, src)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		disassembleFunction(stdio, fn)
	}
	return firstErr
}

func disassembleFunction(stdio mainer.Stdio, fn *value.ObjFunction) {
	fn.Chunk.Disassemble(stdio.Stdout, fn.String())
	for _, c := range fn.Chunk.Constants {
		if nested, ok := c.(*value.ObjFunction); ok {
			disassembleFunction(stdio, nested)
		}
	}
}
