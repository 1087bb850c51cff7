package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astviewer/pkg/astview/render"
	"github.com/Sumatoshi-tech/astviewer/pkg/inspect"
)

const (
	classA      = "class A { int f() { return 1; } }"
	classAPlusG = "class A { int f() { return 1; } void g() {} }"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// execute runs the CLI with args and returns stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	a := &app{}
	rootCmd := newRootCmd(a)

	var stdout, stderr bytes.Buffer

	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--quiet"}, args...))

	err := rootCmd.ExecuteContext(t.Context())

	a.close(t.Context())

	return stdout.String(), stderr.String(), err
}

func TestHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		wantOut string
	}{
		{args: []string{"--help"}, wantOut: "parses and analyzes a Java source file"},
		{args: []string{"dump", "--help"}, wantOut: "indented outline, JSON or YAML"},
		{args: []string{"stats", "--help"}, wantOut: "merged total"},
		{args: []string{"diff", "--help"}, wantOut: "line diff of their outlines"},
		{args: []string{"validate", "--help"}, wantOut: "embedded tree schema"},
		{args: []string{"watch", "--help"}, wantOut: "every\ntime the file is written"},
		{args: []string{"view", "--help"}, wantOut: "three-pane terminal viewer"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			t.Parallel()

			out, _, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "astviewer "), out)
	assert.Contains(t, out, "commit:")
}

func TestDumpOutline(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "A.java", classA)

	out, _, err := execute(t, "", "dump", "--types", "--spans", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "COMPILATION_UNIT [0, "), lines[0])
	assert.Contains(t, out, "  CLASS (A)")
	assert.Contains(t, out, "METHOD (f)")
	assert.NotContains(t, out, "\x1b[", "output to a buffer is never colored")
}

func TestDumpStdin(t *testing.T) {
	t.Parallel()

	out, _, err := execute(t, classA, "dump", inspect.StdinName)
	require.NoError(t, err)
	assert.Contains(t, out, "CLASS (A)")
}

func TestDumpJSONToFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "A.java", classA)
	output := filepath.Join(t.TempDir(), "tree.json")

	out, _, err := execute(t, "", "dump", "-f", "json", "-o", output, path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var doc render.Document

	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, path, doc.File)
	assert.Equal(t, "COMPILATION_UNIT", doc.Root["kind"])
}

func TestDumpYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "A.java", classA)

	out, _, err := execute(t, "", "dump", "-f", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, out, "kind: COMPILATION_UNIT")
}

func TestDumpErrors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "A.java", classA)
	script := writeFile(t, "main.py", "print('hi')\n")

	_, _, err := execute(t, "", "dump", "-f", "xml", path)
	require.ErrorIs(t, err, render.ErrUnknownFormat)

	_, _, err = execute(t, "", "dump", filepath.Join(t.TempDir(), "Missing.java"))
	require.ErrorIs(t, err, inspect.ErrRead)

	_, _, err = execute(t, "", "dump", script)
	require.ErrorIs(t, err, inspect.ErrNotJava)
}

func TestStats(t *testing.T) {
	t.Parallel()

	first := writeFile(t, "A.java", classA)
	second := writeFile(t, "B.java", "class B {}")

	out, _, err := execute(t, "", "stats", first)
	require.NoError(t, err)
	assert.Contains(t, out, first)
	assert.Contains(t, out, "CLASS")
	assert.NotContains(t, out, totalLabel)

	out, _, err = execute(t, "", "stats", first, second)
	require.NoError(t, err)
	assert.Contains(t, out, first)
	assert.Contains(t, out, second)
	assert.Contains(t, out, totalLabel)
}

func TestStatsRejectsStdinWithFiles(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "A.java", classA)

	_, _, err := execute(t, classA, "stats", path, inspect.StdinName)
	require.ErrorIs(t, err, inspect.ErrRead)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	before := writeFile(t, "A.java", classA)
	after := writeFile(t, "A.java", classAPlusG)

	out, _, err := execute(t, "", "diff", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "+ ")
	assert.Contains(t, out, "METHOD (g)")
	assert.Contains(t, out, "0 deleted")

	out, _, err = execute(t, "", "diff", before, before)
	require.NoError(t, err)
	assert.Equal(t, "outlines are identical\n", out)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "A.java", classA)
	output := filepath.Join(t.TempDir(), "tree.json")

	_, _, err := execute(t, "", "dump", "-f", "json", "-o", output, path)
	require.NoError(t, err)

	out, _, err := execute(t, "", "validate", output)
	require.NoError(t, err)
	assert.Contains(t, out, "valid "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	out, _, err = execute(t, string(data), "validate", inspect.StdinName)
	require.NoError(t, err)
	assert.Contains(t, out, "valid -")
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	bad := writeFile(t, "bad.json", `{"file": "A.java", "root": {"kind": "NOPE", "symbol": null, "type": null, "span": null, "children": []}}`)

	out, _, err := execute(t, "", "validate", "--no-color", bad)
	require.ErrorIs(t, err, ErrInvalidDump)
	assert.Contains(t, out, "invalid "+bad)
	assert.Contains(t, out, "  - ")
}

func TestWatchRejectsStdin(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "", "watch", inspect.StdinName)
	require.ErrorIs(t, err, ErrStdinNotWatchable)

	_, _, err = execute(t, "", "view", inspect.StdinName)
	require.ErrorIs(t, err, ErrStdinNotWatchable)
}
