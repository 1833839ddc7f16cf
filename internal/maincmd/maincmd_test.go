package maincmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/lockhart/internal/maincmd"
	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.lh")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestRunFilesExecutesScript(t *testing.T) {
	path := writeScript(t, "let x = 1 + 2; print x;")
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.RunFiles(stdio, path)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestRunFilesReportsRuntimeError(t *testing.T) {
	path := writeScript(t, "x = 1;")
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.RunFiles(stdio, path)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Undefined Variable")
}

func TestTokenizeFilesPrintsOneLinePerToken(t *testing.T) {
	path := writeScript(t, "let x = 1;")
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.TokenizeFiles(stdio, path)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "let")
	assert.Contains(t, out.String(), "identifier x")
	assert.Contains(t, out.String(), "number literal 1")
	assert.Empty(t, errOut.String())
}

func TestDisassembleFilesPrintsChunkAndNestedFunctions(t *testing.T) {
	path := writeScript(t, "fn add(a, b) { return a + b; } let out = add(1, 2);")
	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := maincmd.DisassembleFiles(stdio, path)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<fn add>")
	assert.Contains(t, out.String(), "CALL")
	assert.Empty(t, errOut.String())
}
