package scanner_test

import (
	"testing"

	"github.com/mna/lockhart/lang/scanner"
	"github.com/mna/lockhart/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanAll(t *testing.T) {
	src := `let x = 1 + 2; // a comment
print "hello world";`

	toks, err := scanner.ScanAll("test.lh", []byte(src))
	require.NoError(t, err)

	var kinds []token.Token
	for _, tk := range toks {
		kinds = append(kinds, tk.Token)
	}
	assert.Equal(t, []token.Token{
		token.LET, token.IDENT, token.EQ, token.NUMBER, token.PLUS, token.NUMBER, token.SEMI,
		token.PRINT, token.STRING, token.SEMI, token.EOF,
	}, kinds)
}

func TestScanAllLineComment(t *testing.T) {
	// A line comment that runs to EOF with no trailing newline must
	// terminate cleanly rather than hang or error (spec.md §9 open question).
	toks, err := scanner.ScanAll("test.lh", []byte("let x = 1; // trailing"))
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Token)
}

func TestScanAllLineNumbers(t *testing.T) {
	toks, err := scanner.ScanAll("test.lh", []byte("let x = 1;\nlet y = 2;"))
	require.NoError(t, err)

	var line2 token.Position
	for _, tk := range toks {
		if tk.Token == token.IDENT && tk.Lit == "y" {
			line2 = tk.Pos
		}
	}
	assert.Equal(t, 2, line2.Line)
}

func TestScanAllUnterminatedString(t *testing.T) {
	_, err := scanner.ScanAll("test.lh", []byte(`"oops`))
	require.Error(t, err)
}

func TestScanAllUnexpectedChar(t *testing.T) {
	_, err := scanner.ScanAll("test.lh", []byte(`let x = 1 @ 2;`))
	require.Error(t, err)
}
