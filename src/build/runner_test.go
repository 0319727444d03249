package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ComedicChimera/shiftreduce/src/config"
	"github.com/ComedicChimera/shiftreduce/src/logging"
	"github.com/ComedicChimera/shiftreduce/src/metrics"
	"github.com/ComedicChimera/shiftreduce/src/syntax"
)

const addTablePath = "../syntax/testdata/add.json"

func testConfig() *config.Config {
	c := config.Default()
	c.Table.Path = addTablePath
	c.Parse.Workers = 2
	return c
}

func writeInputs(t *testing.T, inputs map[string]string) string {
	dir := t.TempDir()
	for name, content := range inputs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func TestParseFiles(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(zap.NewNop())

	r, err := NewRunner(testConfig())
	require.NoError(t, err)

	dir := writeInputs(t, map[string]string{
		"a.txt": "1 + 2",
		"b.txt": "1 + + 2",
		"c.txt": "7",
		"d.txt": "3 - 4",
	})

	paths := []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.txt"),
		filepath.Join(dir, "d.txt"),
		filepath.Join(dir, "missing.txt"),
	}

	results, err := r.ParseFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, res := range results {
		require.Equal(t, paths[i], res.Path)
	}

	require.True(t, results[0].OK())
	require.Equal(t, "add", results[0].Roots[0].Emit)

	require.False(t, results[1].OK())
	require.Equal(t, metrics.ResultSyntaxError, results[1].Outcome())
	se := results[1].Err.(*syntax.SyntaxError)
	require.Equal(t, 4, se.Span.Start)

	require.True(t, results[2].OK())
	require.Equal(t, "7", results[2].Roots[0].Text)

	require.Equal(t, syntax.ErrMalformedToken, errors.Cause(results[3].Err))
	require.Equal(t, metrics.ResultError, results[3].Outcome())

	require.True(t, os.IsNotExist(errors.Cause(results[4].Err)))

	require.Equal(t, 3, logging.ErrorCount())
	require.Equal(t, 3, logs.FilterMessage("input rejected").Len())
}

func TestFaultsStayWithTheirInput(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.SetLogger(zap.New(core))
	defer logging.SetLogger(zap.NewNop())

	tables, err := syntax.LoadTables(addTablePath, "")
	require.NoError(t, err)

	// sums reduce through state 3 whose shift-reduce now names a production
	// that does not exist
	tables.Table.States[3].Actions[1] = syntax.Action{Kind: syntax.AKShiftReduce, Operand: 9}

	conf := testConfig()
	conf.Metrics.Enabled = true
	r, err := NewRunnerWithTables(conf, tables)
	require.NoError(t, err)

	before := metrics.ReadCounter(metrics.ParsesCounter(metrics.ResultFault))

	dir := writeInputs(t, map[string]string{"sum.txt": "1 + 2", "num.txt": "5"})
	results, err := r.ParseFiles(context.Background(), []string{
		filepath.Join(dir, "sum.txt"),
		filepath.Join(dir, "num.txt"),
	})
	require.NoError(t, err)

	require.NotNil(t, results[0].Fault)
	require.Nil(t, results[0].Err)
	require.Equal(t, metrics.ResultFault, results[0].Outcome())
	require.True(t, results[1].OK())

	require.Equal(t, before+1, metrics.ReadCounter(metrics.ParsesCounter(metrics.ResultFault)))
	require.Equal(t, 1, logs.FilterMessage("table fault").Len())

	var buf bytes.Buffer
	require.NoError(t, results[0].Write(&buf, config.OutputShort))
	require.Contains(t, buf.String(), "table fault")
}

func TestParseFilesCancelled(t *testing.T) {
	r, err := NewRunner(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := writeInputs(t, map[string]string{"a.txt": "1"})
	_, err = r.ParseFiles(ctx, []string{filepath.Join(dir, "a.txt")})
	require.Equal(t, context.Canceled, errors.Cause(err))
}

func TestResultWrite(t *testing.T) {
	r, err := NewRunner(testConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.ParseSource("in.txt", []byte("1+2")).Write(&buf, config.OutputShort))
	require.Equal(t, "add\n  num \"1\"\n  num \"2\"\n", buf.String())

	buf.Reset()
	require.NoError(t, r.ParseSource("in.txt", []byte("1+2")).Write(&buf, config.OutputNone))
	require.Empty(t, buf.String())

	buf.Reset()
	require.NoError(t, r.ParseSource("in.txt", []byte("1+2")).Write(&buf, config.OutputJSON))
	require.Contains(t, buf.String(), `"emit": "add"`)

	buf.Reset()
	require.NoError(t, r.ParseSource("in.txt", []byte("1 +")).Write(&buf, config.OutputShort))
	require.Equal(t, "--- Syntax Error ----------- (file: in.txt)\n"+
		"unexpected end of input, expecting NUM at (Ln: 1, Col: 4)\n\n"+
		"1 | 1 +\n"+
		"       ^\n", buf.String())
}

func TestResultWriteFailures(t *testing.T) {
	var buf bytes.Buffer
	res := &Result{Path: "x.txt", Fault: &syntax.TableFault{Message: "goto on 'Expr' in state 0 is error"}}
	require.False(t, res.OK())
	require.NoError(t, res.Write(&buf, config.OutputShort))
	require.Equal(t, "--- Table Fault ------------ (file: x.txt)\n"+
		"table fault: goto on 'Expr' in state 0 is error\n", buf.String())

	r, err := NewRunner(testConfig())
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, r.ParseFile(filepath.Join(t.TempDir(), "missing.txt")).Write(&buf, config.OutputShort))
	require.True(t, strings.HasPrefix(buf.String(), "--- Input Error ------------ (file: "))
	require.NotContains(t, buf.String(), "Syntax Error")

	buf.Reset()
	require.NoError(t, r.ParseSource("in.txt", []byte("1 ? 2")).Write(&buf, config.OutputShort))
	require.True(t, strings.HasPrefix(buf.String(), "--- Input Error ------------ (file: in.txt)\n"))
	require.Contains(t, buf.String(), "'?' at 1:3")
}

func TestNewRunnerErrors(t *testing.T) {
	_, err := NewRunner(config.Default())
	require.Error(t, err)

	conf := testConfig()
	conf.Table.Path = "missing.json"
	_, err = NewRunner(conf)
	require.Error(t, err)
}

func TestCollectInputs(t *testing.T) {
	dir := writeInputs(t, map[string]string{"b.txt": "1", "a.txt": "2", "c.md": "3"})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	inputs, err := CollectInputs([]string{dir}, ".txt")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}, inputs)

	inputs, err = CollectInputs([]string{filepath.Join(dir, "c.md"), dir}, "")
	require.NoError(t, err)
	require.Len(t, inputs, 4)

	_, err = CollectInputs([]string{dir}, ".go")
	require.Error(t, err)

	_, err = CollectInputs([]string{filepath.Join(dir, "nope")}, "")
	require.Error(t, err)
}
