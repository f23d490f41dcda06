package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const testC = `
int count(int n) {
    int c = 0;
    while (n > 0) {
        c++;
        n--;
    }
    return c;
}
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	configPath, logPath = "", ""
	resetFlags()
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags clears the flags set by previous runs of the commands.
func resetFlags() {
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Value.Type() != "stringSlice" {
				f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
}

func writeSource(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = filepath.Join(dir, "count.c")
	require.NoError(t, os.WriteFile(file, []byte(testC), 0644))
	// Keep the working directory free of project config files.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", dir)
	return dir, file
}

func TestEnumText(t *testing.T) {
	_, file := writeSource(t)
	out, err := run(t, "enum", "-k", "2", file)
	require.NoError(t, err)
	assert.Contains(t, out, "proc count")
	assert.Contains(t, out, "K=2 paths=3")
}

func TestEnumOutDir(t *testing.T) {
	dir, file := writeSource(t)
	outDir := filepath.Join(dir, "out")
	_, err := run(t, "enum", "--format", "yaml", "--out-dir", outDir, file)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outDir, "count.c", "count.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))
}

func TestEnumBadFlags(t *testing.T) {
	_, file := writeSource(t)
	_, err := run(t, "enum", "--format", "pdf", file)
	assert.Error(t, err)
	_, err = run(t, "enum", "-k", "0", file)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	_, file := writeSource(t)
	out, err := run(t, "path", "-k", "1", file, "count", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "path 0 of 2 in count")
	assert.Contains(t, out, "c++;")

	// The loop body is the first successor of the header, so the last
	// path skips the loop.
	out, err = run(t, "path", "-k", "1", file, "count", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "c++;")

	_, err = run(t, "path", file, "count", "7")
	assert.Error(t, err)
	_, err = run(t, "path", file, "nothere", "0")
	assert.Error(t, err)
}

func TestConfigFile(t *testing.T) {
	dir, file := writeSource(t)
	conf := filepath.Join(dir, "conf.yaml")
	require.NoError(t, os.WriteFile(conf, []byte("k: 3\nformat: dot\n"), 0644))
	out, err := run(t, "--config", conf, "enum", file)
	require.NoError(t, err)
	assert.Contains(t, out, `digraph "count"`)
}

func TestSSA(t *testing.T) {
	dir, _ := writeSource(t)
	file := filepath.Join(dir, "main.go")
	src := "package main\n\nfunc main() { foo() }\n\nfunc foo() {}\n"
	require.NoError(t, os.WriteFile(file, []byte(src), 0644))

	out, err := run(t, "ssa", "--func", "foo", file)
	require.NoError(t, err)
	assert.Contains(t, out, "func foo()")

	out, err = run(t, "ssa", "--dot", file)
	require.NoError(t, err)
	assert.Contains(t, out, `"main.main" -> "main.foo"`)
}
