package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colorprobe/internal/config"
	"colorprobe/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLanguages(t *testing.T) {
	out, _, err := run(t, "languages", "--no-color")
	require.NoError(t, err)
	for _, name := range []string{"python", "r", "julia", "javascript", "typescript"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "[skip to quote, trail 1]")
}

func TestLookupName(t *testing.T) {
	out, _, err := run(t, "lookup", "--no-color", "rebeccapurple")
	require.NoError(t, err)
	assert.Equal(t, "rebeccapurple  #663399  css\n", out)

	out, _, err = run(t, "lookup", "--no-color", "tomato")
	require.NoError(t, err)
	assert.Equal(t, "tomato  #ff6347  css\ntomato  #ff6347  r\n", out)
}

func TestLookupNameInEveryTable(t *testing.T) {
	out, _, err := run(t, "lookup", "--format", "json", "green")
	require.NoError(t, err)

	var got []report.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []report.Entry{
		{Table: "css", Name: "green", Color: "#008000"},
		{Table: "r", Name: "green", Color: "#00ff00"},
	}, got)
}

func TestLookupListsTable(t *testing.T) {
	out, _, err := run(t, "lookup", "--no-color", "--table", "tableau")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, out, "tab:blue")
}

func TestLookupUnknown(t *testing.T) {
	_, _, err := run(t, "lookup", "--table", "css", "tomato", "notacolor")
	require.ErrorIs(t, err, errUnknownColor)
	assert.Contains(t, err.Error(), "notacolor")

	_, _, err = run(t, "lookup", "--table", "x11", "red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x11")
}

func TestProbe(t *testing.T) {
	out, _, err := run(t, "probe", "--format", "json", "-l", "r", `"green"`, `'#1f77b4'`)
	require.NoError(t, err)

	var got []report.MatchRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, report.MatchRecord{
		File: "arg1", Language: "r", Line: 1, Column: 2, From: 1, To: 6,
		Type: "named", Color: "#00ff00", Text: "green",
	}, got[0])
	assert.Equal(t, "#1f77b4", got[1].Color)
	assert.Equal(t, "arg2", got[1].File)
}

func TestProbeJuliaTextMatchesScan(t *testing.T) {
	out, _, err := run(t, "probe", "--format", "json", "-l", "julia", `"#f00"`)
	require.NoError(t, err)

	var got []report.MatchRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "#f00", got[0].Text)
	assert.Equal(t, 1, got[0].From)
	assert.Equal(t, 5, got[0].To)
	assert.Equal(t, "#ff0000", got[0].Color)
}

func TestProbeTableauOption(t *testing.T) {
	out, _, err := run(t, "probe", "--no-color", "-l", "python", `"tab:blue"`)
	require.NoError(t, err)
	assert.Contains(t, out, "#1f77b4")

	_, _, err = run(t, "probe", "-l", "python", "--matplotlib-tableau=false", `"tab:blue"`)
	require.ErrorIs(t, err, errNoMatch)
}

func TestProbeNodeType(t *testing.T) {
	_, _, err := run(t, "probe", "-l", "python", "-n", "string", `"#fff"`)
	require.ErrorIs(t, err, errNoMatch)

	out, _, err := run(t, "probe", "--no-color", "-l", "py", "-n", "FormatString", `f"#fff"`)
	require.NoError(t, err)
	assert.Contains(t, out, "#ffffff")
}

func TestProbeRequiresLanguage(t *testing.T) {
	_, _, err := run(t, "probe", `"red"`)
	require.Error(t, err)

	_, _, err = run(t, "probe", "-l", "cobol", `"red"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cobol")
}

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanJSON(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "plot.py", "ax.plot(x, color='tab:red')\n")
	writeSource(t, root, "theme.ts", "export const bg: string = \"#202020\";\n")
	writeSource(t, root, "README.md", "# red\n")

	out, _, err := run(t, "scan", "--format", "json", root)
	require.NoError(t, err)

	var got []report.MatchRecord
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, filepath.Join(root, "plot.py"), got[0].File)
	assert.Equal(t, "#d62728", got[0].Color)
	assert.Equal(t, "typescript", got[1].Language)
	assert.Equal(t, "#202020", got[1].Color)
}

func TestScanConfigFile(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "src/plot.R", "plot(x, col = \"green\")\n")
	writeSource(t, root, "gen/plot.R", "plot(x, col = \"red\")\n")
	cfg := filepath.Join(t.TempDir(), "colorprobe.yaml")
	writeSource(t, filepath.Dir(cfg), filepath.Base(cfg), "format: yaml\nexclude:\n  - \"**/gen/**\"\n")

	out, _, err := run(t, "scan", "--config", cfg, root)
	require.NoError(t, err)
	assert.Contains(t, out, "language: r")
	assert.Contains(t, out, "#00ff00")
	assert.NotContains(t, out, "#ff0000")
}

func TestScanErrors(t *testing.T) {
	_, _, err := run(t, "scan", "--format", "csv", t.TempDir())
	require.ErrorIs(t, err, config.ErrInvalidFormat)

	_, _, err = run(t, "scan", t.TempDir())
	require.Error(t, err)

	_, _, err = run(t, "scan", "--verbose", "--quiet", t.TempDir())
	require.Error(t, err)
}

func TestScanLogsSummary(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "a.js", "const c = 'red';\n")

	_, stderr, err := run(t, "scan", "--no-color", root)
	require.NoError(t, err)
	assert.Contains(t, stderr, "scan finished")

	_, stderr, err = run(t, "scan", "--no-color", "--quiet", root)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}
