package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ComedicChimera/shiftreduce/src/syntax"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeConfig(t *testing.T, dir, content string) string {
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[log]
level = "debug"

[table]
path = "grammar.ptable"
format = "gob"

[parse]
workers = 3
output = "json"
trace = true

[metrics]
enabled = true
`)

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", c.Log.Level)
	require.Equal(t, "text", c.Log.Format)
	require.Equal(t, "grammar.ptable", c.Table.Path)
	require.Equal(t, syntax.FormatGob, c.TableFormat())
	require.Equal(t, 3, c.Parse.Workers)
	require.Equal(t, OutputJSON, c.Parse.Output)
	require.True(t, c.Parse.Trace)
	require.True(t, c.Metrics.Enabled)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[log]
level = ""

[parse]
workers = 0
`)

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), c)
	require.Equal(t, syntax.Format(""), c.TableFormat())
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	for _, content := range []string{
		"[log]\nlevel = \"loud\"",
		"[log]\nformat = \"xml\"",
		"[parse]\noutput = \"tree\"",
		"[table]\nformat = \"csv\"",
		"[parse]\nthreads = 4",
		"[parse\n",
	} {
		_, err := Load(writeConfig(t, t.TempDir(), content))
		require.Error(t, err, content)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	// a directory of the same name does not count
	require.NoError(t, os.Mkdir(filepath.Join(nested, FileName), 0o755))

	path := writeConfig(t, root, "[parse]\noutput = \"none\"\n")

	found, ok, err := Discover(nested)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, path, found)

	c, err := LoadFrom("", nested)
	require.NoError(t, err)
	require.Equal(t, OutputNone, c.Parse.Output)
}

func TestLoadFromFallsBackToDefault(t *testing.T) {
	// nothing is found in an isolated directory tree unless some parent of the
	// temp dir happens to hold a config file
	dir := t.TempDir()
	if _, ok, _ := Discover(dir); ok {
		t.Skip("a config file exists above the temp dir")
	}

	c, err := LoadFrom("", dir)
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}
